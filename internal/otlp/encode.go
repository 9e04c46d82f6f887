package otlp

import (
	"bytes"
	"fmt"

	"github.com/richardartoul/molecule"
	"google.golang.org/protobuf/encoding/protowire"
)

// EncodeExportRequest serializes req in the wire format DecodeExportRequest
// reads. Repeated scalars are written packed.
func EncodeExportRequest(req *ExportRequest) ([]byte, error) {
	var buf bytes.Buffer
	ps := molecule.NewProtoStream(&buf)

	for i := range req.ResourceProfiles {
		rp := &req.ResourceProfiles[i]
		if err := ps.Embedded(fieldRequestResourceProfiles, func(ps *molecule.ProtoStream) error {
			return encodeResourceProfiles(ps, rp)
		}); err != nil {
			return nil, fmt.Errorf("encode resource profiles: %w", err)
		}
	}
	if err := ps.Embedded(fieldRequestDictionary, func(ps *molecule.ProtoStream) error {
		return encodeDictionary(ps, &req.Dictionary)
	}); err != nil {
		return nil, fmt.Errorf("encode dictionary: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeResourceProfiles(ps *molecule.ProtoStream, rp *ResourceProfiles) error {
	for i := range rp.ScopeProfiles {
		sp := &rp.ScopeProfiles[i]
		if err := ps.Embedded(fieldResourceScopeProfiles, func(ps *molecule.ProtoStream) error {
			for j := range sp.Profiles {
				p := &sp.Profiles[j]
				if err := ps.Embedded(fieldScopeProfiles, func(ps *molecule.ProtoStream) error {
					return encodeProfile(ps, p)
				}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func encodeProfile(ps *molecule.ProtoStream, p *Profile) error {
	for i := range p.Samples {
		s := &p.Samples[i]
		if err := ps.Embedded(fieldProfileSamples, func(ps *molecule.ProtoStream) error {
			if err := ps.Int32(fieldSampleStackIndex, s.StackIndex); err != nil {
				return err
			}
			if err := ps.Int64Packed(fieldSampleValues, s.Values); err != nil {
				return err
			}
			if err := ps.Int32Packed(fieldSampleAttributeIndices, s.AttributeIndices); err != nil {
				return err
			}
			return ps.Fixed64Packed(fieldSampleTimestamps, s.TimestampsUnixNano)
		}); err != nil {
			return err
		}
	}
	return nil
}

func encodeDictionary(ps *molecule.ProtoStream, d *Dictionary) error {
	for _, m := range d.Mappings {
		if err := ps.Embedded(fieldDictMappings, func(ps *molecule.ProtoStream) error {
			return ps.Int32(fieldMappingFilename, m.FilenameIndex)
		}); err != nil {
			return err
		}
	}
	for _, l := range d.Locations {
		if err := ps.Embedded(fieldDictLocations, func(ps *molecule.ProtoStream) error {
			return encodeLocation(ps, l)
		}); err != nil {
			return err
		}
	}
	for _, f := range d.Functions {
		if err := ps.Embedded(fieldDictFunctions, func(ps *molecule.ProtoStream) error {
			return ps.Int32(fieldFunctionName, f.NameIndex)
		}); err != nil {
			return err
		}
	}
	for _, s := range d.Strings {
		if err := writeString(ps, fieldDictStrings, s); err != nil {
			return err
		}
	}
	for _, a := range d.Attributes {
		if err := ps.Embedded(fieldDictAttributes, func(ps *molecule.ProtoStream) error {
			return encodeAttribute(ps, a)
		}); err != nil {
			return err
		}
	}
	for _, s := range d.Stacks {
		if err := ps.Embedded(fieldDictStacks, func(ps *molecule.ProtoStream) error {
			return ps.Int32Packed(fieldStackLocations, s.LocationIndices)
		}); err != nil {
			return err
		}
	}
	return nil
}

func encodeLocation(ps *molecule.ProtoStream, l Location) error {
	if err := ps.Int32(fieldLocationMapping, l.MappingIndex); err != nil {
		return err
	}
	if err := ps.Uint64(fieldLocationAddress, l.Address); err != nil {
		return err
	}
	for _, line := range l.Lines {
		if err := ps.Embedded(fieldLocationLines, func(ps *molecule.ProtoStream) error {
			return ps.Int32(fieldLineFunction, line.FunctionIndex)
		}); err != nil {
			return err
		}
	}
	return ps.Int32Packed(fieldLocationAttributes, l.AttributeIndices)
}

func encodeAttribute(ps *molecule.ProtoStream, a Attribute) error {
	if err := ps.Int32(fieldAttributeKey, a.KeyIndex); err != nil {
		return err
	}
	if a.Value.Kind == ValueEmpty {
		return nil
	}
	return ps.Embedded(fieldAttributeValue, func(ps *molecule.ProtoStream) error {
		switch a.Value.Kind {
		case ValueString:
			return writeString(ps, fieldAnyValueString, a.Value.Str)
		case ValueInt:
			return ps.Int64(fieldAnyValueInt, a.Value.Int)
		}
		return nil
	})
}

// writeString writes s even when empty. ProtoStream drops empty strings,
// which would shift every index of the string table.
func writeString(ps *molecule.ProtoStream, field int, s string) error {
	if s != "" {
		return ps.String(field, s)
	}
	b := protowire.AppendTag(nil, protowire.Number(field), protowire.BytesType)
	b = protowire.AppendVarint(b, 0)
	_, err := ps.Write(b)
	return err
}
