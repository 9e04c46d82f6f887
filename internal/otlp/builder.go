package otlp

// Builder assembles a dictionary encoded ExportRequest. Strings, functions,
// mappings and attributes are interned; index 0 of every table is the null
// entry. It is used by the demo producer.
type Builder struct {
	dict    Dictionary
	samples []Sample

	strings   map[string]int32
	functions map[string]int32
	mappings  map[string]int32
	attrs     map[[2]string]int32
}

// NewBuilder returns a builder with only the null table entries.
func NewBuilder() *Builder {
	return &Builder{
		dict: Dictionary{
			Mappings:   []Mapping{{}},
			Locations:  []Location{{}},
			Functions:  []Function{{}},
			Strings:    []string{""},
			Attributes: []Attribute{{}},
			Stacks:     []Stack{{}},
		},
		strings:   map[string]int32{"": 0},
		functions: map[string]int32{},
		mappings:  map[string]int32{},
		attrs:     map[[2]string]int32{},
	}
}

func (b *Builder) String(s string) int32 {
	if idx, ok := b.strings[s]; ok {
		return idx
	}
	idx := int32(len(b.dict.Strings))
	b.dict.Strings = append(b.dict.Strings, s)
	b.strings[s] = idx
	return idx
}

func (b *Builder) Function(name string) int32 {
	if idx, ok := b.functions[name]; ok {
		return idx
	}
	idx := int32(len(b.dict.Functions))
	b.dict.Functions = append(b.dict.Functions, Function{NameIndex: b.String(name)})
	b.functions[name] = idx
	return idx
}

func (b *Builder) Mapping(filename string) int32 {
	if idx, ok := b.mappings[filename]; ok {
		return idx
	}
	idx := int32(len(b.dict.Mappings))
	b.dict.Mappings = append(b.dict.Mappings, Mapping{FilenameIndex: b.String(filename)})
	b.mappings[filename] = idx
	return idx
}

// StringAttribute interns a key/value attribute with a string value.
func (b *Builder) StringAttribute(key, value string) int32 {
	k := [2]string{key, value}
	if idx, ok := b.attrs[k]; ok {
		return idx
	}
	idx := int32(len(b.dict.Attributes))
	b.dict.Attributes = append(b.dict.Attributes, Attribute{KeyIndex: b.String(key), Value: StringValue(value)})
	b.attrs[k] = idx
	return idx
}

// Attribute appends a raw attribute without interning.
func (b *Builder) Attribute(a Attribute) int32 {
	b.dict.Attributes = append(b.dict.Attributes, a)
	return int32(len(b.dict.Attributes) - 1)
}

// Location appends a location. Lines list the function names innermost
// first, as inlined frames are stored.
func (b *Builder) Location(frameType string, functions ...string) int32 {
	loc := Location{}
	for _, fn := range functions {
		loc.Lines = append(loc.Lines, Line{FunctionIndex: b.Function(fn)})
	}
	if frameType != "" {
		loc.AttributeIndices = []int32{b.StringAttribute(FrameTypeKey, frameType)}
	}
	return b.RawLocation(loc)
}

// UnsymbolizedLocation appends a location with no lines.
func (b *Builder) UnsymbolizedLocation(filename string, address uint64) int32 {
	return b.RawLocation(Location{MappingIndex: b.Mapping(filename), Address: address})
}

func (b *Builder) RawLocation(loc Location) int32 {
	b.dict.Locations = append(b.dict.Locations, loc)
	return int32(len(b.dict.Locations) - 1)
}

// Stack appends a stack of location indices, innermost first.
func (b *Builder) Stack(locations ...int32) int32 {
	b.dict.Stacks = append(b.dict.Stacks, Stack{LocationIndices: locations})
	return int32(len(b.dict.Stacks) - 1)
}

// Sample adds a sample on stack with the given values, attributed to thread
// unless thread is empty.
func (b *Builder) Sample(stack int32, thread string, values ...int64) {
	s := Sample{StackIndex: stack, Values: values}
	if thread != "" {
		s.AttributeIndices = []int32{b.StringAttribute(ThreadNameKey, thread)}
	}
	b.samples = append(b.samples, s)
}

func (b *Builder) RawSample(s Sample) {
	b.samples = append(b.samples, s)
}

// Request wraps the samples in a single resource, scope and profile.
func (b *Builder) Request() *ExportRequest {
	return &ExportRequest{
		ResourceProfiles: []ResourceProfiles{{
			ScopeProfiles: []ScopeProfiles{{
				Profiles: []Profile{{Samples: b.samples}},
			}},
		}},
		Dictionary: b.dict,
	}
}
