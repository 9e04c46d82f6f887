package flamegraph

import (
	"fmt"
	"strings"
)

// UnknownFrame labels anything the producer could not name.
const UnknownFrame = "[unknown]"

// InlineSuffix marks every inlined line after the first in a location.
const InlineSuffix = " [Inline]"

// Stack is one sampled call path, outermost first. Element 0 is the thread
// identity.
type Stack []string

// Reverse flips the stack in place. Producers store innermost frames first.
func (s Stack) Reverse() {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Basename returns the text after the last '/' or UnknownFrame for an empty path.
func Basename(path string) string {
	if path == "" {
		return UnknownFrame
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		if path[i+1:] == "" {
			return UnknownFrame
		}
		return path[i+1:]
	}
	return path
}

// UnsymbolizedFrame names a location that has no line information.
func UnsymbolizedFrame(mappingFile string, address uint64) string {
	return fmt.Sprintf("%s+0x%016x", Basename(mappingFile), address)
}

// TaggedFrame appends a runtime tag such as "JVM" to a frame name.
func TaggedFrame(name, tag string) string {
	if tag == "" {
		return name
	}
	return name + " [" + tag + "]"
}
