package otlp

import "github.com/Oloruntobi1/flametop/internal/flamegraph"

// Attribute keys read by the resolver.
const (
	ThreadNameKey = "thread.name"
	FrameTypeKey  = "profile.frame.type"
)

// frameTypes maps profile.frame.type values to display tags. Unknown values
// are shown as sent.
var frameTypes = map[string]string{
	"native":  "Native",
	"kernel":  "Kernel",
	"jvm":     "JVM",
	"cpython": "Python",
	"php":     "PHP",
	"phpjit":  "PHP",
	"ruby":    "Ruby",
	"perl":    "Perl",
	"v8js":    "JS",
	"dotnet":  ".NET",
	"beam":    "Beam",
	"go":      "Go",
}

// FrameTypeTag returns the display tag for a raw frame type.
func FrameTypeTag(raw string) string {
	if tag, ok := frameTypes[raw]; ok {
		return tag
	}
	return raw
}

// ResolvedSample is a sample turned into an outermost-first stack whose
// first element is the thread name.
type ResolvedSample struct {
	Stack  flamegraph.Stack
	Weight int64
}

// Resolve turns every usable sample of req into a stack, in request order.
// Bad indices never fail the request: they resolve to "[unknown]" or are
// skipped. Samples without a single frame are dropped.
func Resolve(req *ExportRequest) []ResolvedSample {
	r := resolver{dict: &req.Dictionary}
	var out []ResolvedSample
	for _, rp := range req.ResourceProfiles {
		for _, sp := range rp.ScopeProfiles {
			for _, p := range sp.Profiles {
				for i := range p.Samples {
					s := &p.Samples[i]
					stack := r.stack(s)
					if len(stack) == 0 {
						continue
					}
					out = append(out, ResolvedSample{Stack: stack, Weight: SampleWeight(s)})
				}
			}
		}
	}
	return out
}

// SampleWeight is the sum of the sample values floored at 1, else the number
// of timestamps, else 1.
func SampleWeight(s *Sample) int64 {
	switch {
	case len(s.Values) > 0:
		var sum int64
		for _, v := range s.Values {
			sum += v
		}
		return max(sum, 1)
	case len(s.TimestampsUnixNano) > 0:
		return int64(len(s.TimestampsUnixNano))
	default:
		return 1
	}
}

type resolver struct {
	dict *Dictionary
}

func (r resolver) stack(s *Sample) flamegraph.Stack {
	idx := int(s.StackIndex)
	if idx <= 0 || idx >= len(r.dict.Stacks) {
		return nil
	}

	var frames flamegraph.Stack
	for _, li := range r.dict.Stacks[idx].LocationIndices {
		if li <= 0 || int(li) >= len(r.dict.Locations) {
			continue
		}
		loc := &r.dict.Locations[li]
		tag := r.frameType(loc)

		if len(loc.Lines) == 0 {
			name := flamegraph.UnsymbolizedFrame(r.mappingFile(loc), loc.Address)
			frames = append(frames, flamegraph.TaggedFrame(name, tag))
			continue
		}
		for i, line := range loc.Lines {
			name := flamegraph.TaggedFrame(r.functionName(line), tag)
			if i > 0 {
				name += flamegraph.InlineSuffix
			}
			frames = append(frames, name)
		}
	}
	if len(frames) == 0 {
		return nil
	}
	frames.Reverse()

	stack := make(flamegraph.Stack, 0, len(frames)+1)
	stack = append(stack, r.threadName(s))
	return append(stack, frames...)
}

// str returns the string at idx, or "" when idx is out of range.
func (r resolver) str(idx int32) string {
	if idx < 0 || int(idx) >= len(r.dict.Strings) {
		return ""
	}
	return r.dict.Strings[idx]
}

func (r resolver) functionName(line Line) string {
	fi := line.FunctionIndex
	if fi <= 0 || int(fi) >= len(r.dict.Functions) {
		return flamegraph.UnknownFrame
	}
	if name := r.str(r.dict.Functions[fi].NameIndex); name != "" {
		return name
	}
	return flamegraph.UnknownFrame
}

func (r resolver) mappingFile(loc *Location) string {
	mi := loc.MappingIndex
	if mi <= 0 || int(mi) >= len(r.dict.Mappings) {
		return ""
	}
	return r.str(r.dict.Mappings[mi].FilenameIndex)
}

// attribute returns the string value of the first attribute in indices with
// the given key.
func (r resolver) attribute(indices []int32, key string) (string, bool) {
	for _, ai := range indices {
		if ai <= 0 || int(ai) >= len(r.dict.Attributes) {
			continue
		}
		attr := &r.dict.Attributes[ai]
		if r.str(attr.KeyIndex) != key || attr.Value.Kind != ValueString {
			continue
		}
		return attr.Value.Str, true
	}
	return "", false
}

func (r resolver) frameType(loc *Location) string {
	raw, ok := r.attribute(loc.AttributeIndices, FrameTypeKey)
	if !ok {
		return ""
	}
	return FrameTypeTag(raw)
}

func (r resolver) threadName(s *Sample) string {
	for _, ai := range s.AttributeIndices {
		name, ok := r.attribute([]int32{ai}, ThreadNameKey)
		if ok && name != "" {
			return name
		}
	}
	return flamegraph.UnknownFrame
}
