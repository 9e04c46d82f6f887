package otlp

// Field numbers of opentelemetry/proto/profiles/v1development with the
// request level dictionary.
const (
	fieldRequestResourceProfiles = 1
	fieldRequestDictionary       = 2

	fieldResourceScopeProfiles = 2
	fieldScopeProfiles         = 2
	fieldProfileSamples        = 2

	fieldSampleStackIndex       = 1
	fieldSampleValues           = 2
	fieldSampleAttributeIndices = 3
	fieldSampleTimestamps       = 5

	fieldDictMappings   = 1
	fieldDictLocations  = 2
	fieldDictFunctions  = 3
	fieldDictStrings    = 5
	fieldDictAttributes = 6
	fieldDictStacks     = 7

	fieldMappingFilename = 4

	fieldLocationMapping    = 1
	fieldLocationAddress    = 2
	fieldLocationLines      = 3
	fieldLocationAttributes = 4

	fieldLineFunction = 1
	fieldFunctionName = 1

	fieldAttributeKey   = 1
	fieldAttributeValue = 2

	fieldAnyValueString = 1
	fieldAnyValueInt    = 3

	fieldStackLocations = 1
)
