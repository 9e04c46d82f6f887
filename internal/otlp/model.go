// Package otlp receives OpenTelemetry profiles over gRPC and resolves their
// dictionary-encoded samples into call stacks.
//
// Only the parts of the v1development wire format that flametop reads are
// modelled; every other field is skipped while decoding.
package otlp

// ExportRequest mirrors ExportProfilesServiceRequest.
type ExportRequest struct {
	ResourceProfiles []ResourceProfiles
	Dictionary       Dictionary
}

type ResourceProfiles struct {
	ScopeProfiles []ScopeProfiles
}

type ScopeProfiles struct {
	Profiles []Profile
}

type Profile struct {
	Samples []Sample
}

// Sample references its stack and attributes through dictionary indices.
// Index 0 of every dictionary table is the null entry.
type Sample struct {
	StackIndex         int32
	Values             []int64
	AttributeIndices   []int32
	TimestampsUnixNano []uint64
}

// Dictionary holds the tables shared by every profile in a request.
type Dictionary struct {
	Mappings   []Mapping
	Locations  []Location
	Functions  []Function
	Strings    []string
	Attributes []Attribute
	Stacks     []Stack
}

type Mapping struct {
	FilenameIndex int32
}

type Location struct {
	MappingIndex     int32
	Address          uint64
	Lines            []Line
	AttributeIndices []int32
}

type Line struct {
	FunctionIndex int32
}

type Function struct {
	NameIndex int32
}

// Attribute is a KeyValueAndUnit entry of the attribute table.
type Attribute struct {
	KeyIndex int32
	Value    AnyValue
}

type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueString
	ValueInt
)

// AnyValue keeps the string and int variants; others decode as ValueEmpty.
type AnyValue struct {
	Kind ValueKind
	Str  string
	Int  int64
}

// StringValue builds a string AnyValue.
func StringValue(s string) AnyValue {
	return AnyValue{Kind: ValueString, Str: s}
}

type Stack struct {
	LocationIndices []int32
}

// SampleCount is the number of samples in the request, valid or not.
func (r *ExportRequest) SampleCount() int {
	n := 0
	for _, rp := range r.ResourceProfiles {
		for _, sp := range rp.ScopeProfiles {
			for _, p := range sp.Profiles {
				n += len(p.Samples)
			}
		}
	}
	return n
}
