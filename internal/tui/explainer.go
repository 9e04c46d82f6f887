package tui

import (
	"strings"

	"github.com/Oloruntobi1/flametop/internal/flamegraph"
)

// Explanation holds the title and text for a help topic.
type Explanation struct {
	Title       string
	Description string
}

// explainerMap describes the frame type tags profilers attach to frames.
var explainerMap = map[string]Explanation{
	"Native": {
		Title:       "Native code",
		Description: "Machine code compiled ahead of time: C, C++, Rust or a language runtime itself. The name comes from the symbol table shipped with the binary.",
	},
	"Kernel": {
		Title:       "Kernel",
		Description: "Time spent inside the operating system on behalf of the process: syscalls, page faults, scheduling and interrupts.",
	},
	"JVM": {
		Title:       "Java virtual machine",
		Description: "Interpreted or JIT compiled JVM bytecode. Hot frames here are usually hot Java, Kotlin or Scala methods.",
	},
	"Python": {
		Title:       "Python",
		Description: "Frames of the CPython interpreter loop, unwound back into Python functions.",
	},
	"PHP": {
		Title:       "PHP",
		Description: "Userland PHP functions executed by the Zend engine.",
	},
	"Ruby": {
		Title:       "Ruby",
		Description: "Methods run by the Ruby VM.",
	},
	"Perl": {
		Title:       "Perl",
		Description: "Subroutines executed by the Perl interpreter.",
	},
	"JS": {
		Title:       "JavaScript",
		Description: "V8 frames, interpreted or optimized. Node.js runtime internals appear as Native.",
	},
	".NET": {
		Title:       ".NET",
		Description: "Managed CLR methods, JIT compiled.",
	},
	"Beam": {
		Title:       "BEAM",
		Description: "Erlang or Elixir functions running on the BEAM virtual machine.",
	},
	"Go": {
		Title:       "Go",
		Description: "Go functions, including the runtime and its scheduler and garbage collector.",
	},
	"Inline": {
		Title:       "Inlined call",
		Description: "The compiler copied this function into its caller. It has no stack frame of its own, the profiler recovered it from debug line information.",
	},
}

// frameTag extracts the trailing " [Type]" tag of a frame name, looking
// past an inline marker.
func frameTag(name string) string {
	inline := strings.HasSuffix(name, flamegraph.InlineSuffix)
	name = strings.TrimSuffix(name, flamegraph.InlineSuffix)
	if strings.HasSuffix(name, "]") {
		if i := strings.LastIndex(name, " ["); i >= 0 {
			return name[i+2 : len(name)-1]
		}
	}
	if inline {
		return "Inline"
	}
	return ""
}

// getExplanationForFrame finds the help text for the type of frame name.
// ok is false when the frame carries no known tag.
func getExplanationForFrame(name string) (Explanation, bool) {
	e, ok := explainerMap[frameTag(name)]
	return e, ok
}
