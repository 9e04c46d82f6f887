package otlp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/richardartoul/molecule"
	"github.com/richardartoul/molecule/src/codec"
)

// DecodeExportRequest parses a serialized ExportProfilesServiceRequest.
//
// Decoding is best effort. A malformed sub-message is dropped and the
// remaining ones are kept; the returned error describes what was lost and
// is meant for logging only. The request is never nil.
func DecodeExportRequest(data []byte) (*ExportRequest, error) {
	req := &ExportRequest{}
	var errs []error

	err := molecule.MessageEach(codec.NewBuffer(data), func(field int32, v molecule.Value) (bool, error) {
		if v.WireType != codec.WireBytes {
			return true, nil
		}
		switch field {
		case fieldRequestResourceProfiles:
			rp, err := decodeResourceProfiles(v.Bytes)
			if err != nil {
				errs = append(errs, fmt.Errorf("resource_profiles: %w", err))
			}
			req.ResourceProfiles = append(req.ResourceProfiles, rp)
		case fieldRequestDictionary:
			if err := decodeDictionary(v.Bytes, &req.Dictionary); err != nil {
				errs = append(errs, fmt.Errorf("dictionary: %w", err))
			}
		}
		return true, nil
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("request: %w", err))
	}
	return req, errors.Join(errs...)
}

func decodeResourceProfiles(b []byte) (ResourceProfiles, error) {
	var rp ResourceProfiles
	var errs []error
	err := eachBytes(b, func(field int32, sub []byte) {
		if field != fieldResourceScopeProfiles {
			return
		}
		sp, err := decodeScopeProfiles(sub)
		if err != nil {
			errs = append(errs, err)
		}
		rp.ScopeProfiles = append(rp.ScopeProfiles, sp)
	})
	return rp, errors.Join(append(errs, err)...)
}

func decodeScopeProfiles(b []byte) (ScopeProfiles, error) {
	var sp ScopeProfiles
	var errs []error
	err := eachBytes(b, func(field int32, sub []byte) {
		if field != fieldScopeProfiles {
			return
		}
		p, err := decodeProfile(sub)
		if err != nil {
			errs = append(errs, err)
		}
		sp.Profiles = append(sp.Profiles, p)
	})
	return sp, errors.Join(append(errs, err)...)
}

func decodeProfile(b []byte) (Profile, error) {
	var p Profile
	var errs []error
	err := eachBytes(b, func(field int32, sub []byte) {
		if field != fieldProfileSamples {
			return
		}
		s, err := decodeSample(sub)
		if err != nil {
			errs = append(errs, fmt.Errorf("sample: %w", err))
			return
		}
		p.Samples = append(p.Samples, s)
	})
	return p, errors.Join(append(errs, err)...)
}

func decodeSample(b []byte) (Sample, error) {
	var s Sample
	err := molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		var err error
		switch field {
		case fieldSampleStackIndex:
			if v.WireType == codec.WireVarint {
				s.StackIndex = int32(v.Number)
			}
		case fieldSampleValues:
			s.Values, err = appendInt64s(s.Values, v)
		case fieldSampleAttributeIndices:
			s.AttributeIndices, err = appendInt32s(s.AttributeIndices, v)
		case fieldSampleTimestamps:
			s.TimestampsUnixNano = appendFixed64s(s.TimestampsUnixNano, v)
		}
		return err == nil, err
	})
	return s, err
}

func decodeDictionary(b []byte, d *Dictionary) error {
	var errs []error
	err := eachBytes(b, func(field int32, sub []byte) {
		var err error
		switch field {
		case fieldDictMappings:
			var m Mapping
			m, err = decodeMapping(sub)
			d.Mappings = append(d.Mappings, m)
		case fieldDictLocations:
			var l Location
			l, err = decodeLocation(sub)
			d.Locations = append(d.Locations, l)
		case fieldDictFunctions:
			var f Function
			f, err = decodeFunction(sub)
			d.Functions = append(d.Functions, f)
		case fieldDictStrings:
			d.Strings = append(d.Strings, string(sub))
		case fieldDictAttributes:
			var a Attribute
			a, err = decodeAttribute(sub)
			d.Attributes = append(d.Attributes, a)
		case fieldDictStacks:
			var s Stack
			s, err = decodeStack(sub)
			d.Stacks = append(d.Stacks, s)
		}
		// Table entries are kept even when partially decoded so that
		// indices of later entries stay aligned.
		if err != nil {
			errs = append(errs, fmt.Errorf("table %d: %w", field, err))
		}
	})
	return errors.Join(append(errs, err)...)
}

func decodeMapping(b []byte) (Mapping, error) {
	var m Mapping
	err := eachVarint(b, func(field int32, n uint64) {
		if field == fieldMappingFilename {
			m.FilenameIndex = int32(n)
		}
	})
	return m, err
}

func decodeLocation(b []byte) (Location, error) {
	var l Location
	err := molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		var err error
		switch field {
		case fieldLocationMapping:
			if v.WireType == codec.WireVarint {
				l.MappingIndex = int32(v.Number)
			}
		case fieldLocationAddress:
			if v.WireType == codec.WireVarint {
				l.Address = v.Number
			}
		case fieldLocationLines:
			if v.WireType == codec.WireBytes {
				var line Line
				line, err = decodeLine(v.Bytes)
				l.Lines = append(l.Lines, line)
			}
		case fieldLocationAttributes:
			l.AttributeIndices, err = appendInt32s(l.AttributeIndices, v)
		}
		return err == nil, err
	})
	return l, err
}

func decodeLine(b []byte) (Line, error) {
	var line Line
	err := eachVarint(b, func(field int32, n uint64) {
		if field == fieldLineFunction {
			line.FunctionIndex = int32(n)
		}
	})
	return line, err
}

func decodeFunction(b []byte) (Function, error) {
	var f Function
	err := eachVarint(b, func(field int32, n uint64) {
		if field == fieldFunctionName {
			f.NameIndex = int32(n)
		}
	})
	return f, err
}

func decodeAttribute(b []byte) (Attribute, error) {
	var a Attribute
	err := molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		switch {
		case field == fieldAttributeKey && v.WireType == codec.WireVarint:
			a.KeyIndex = int32(v.Number)
		case field == fieldAttributeValue && v.WireType == codec.WireBytes:
			val, err := decodeAnyValue(v.Bytes)
			if err != nil {
				return false, err
			}
			a.Value = val
		}
		return true, nil
	})
	return a, err
}

func decodeAnyValue(b []byte) (AnyValue, error) {
	var val AnyValue
	err := molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		switch {
		case field == fieldAnyValueString && v.WireType == codec.WireBytes:
			val = AnyValue{Kind: ValueString, Str: string(v.Bytes)}
		case field == fieldAnyValueInt && v.WireType == codec.WireVarint:
			val = AnyValue{Kind: ValueInt, Int: int64(v.Number)}
		}
		return true, nil
	})
	return val, err
}

func decodeStack(b []byte) (Stack, error) {
	var s Stack
	err := molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		if field != fieldStackLocations {
			return true, nil
		}
		var err error
		s.LocationIndices, err = appendInt32s(s.LocationIndices, v)
		return err == nil, err
	})
	return s, err
}

// eachBytes calls fn for every length-delimited field of the message in b.
func eachBytes(b []byte, fn func(field int32, sub []byte)) error {
	return molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		if v.WireType == codec.WireBytes {
			fn(field, v.Bytes)
		}
		return true, nil
	})
}

// eachVarint calls fn for every varint field of the message in b.
func eachVarint(b []byte, fn func(field int32, n uint64)) error {
	return molecule.MessageEach(codec.NewBuffer(b), func(field int32, v molecule.Value) (bool, error) {
		if v.WireType == codec.WireVarint {
			fn(field, v.Number)
		}
		return true, nil
	})
}

// appendInt32s accepts a repeated int32 field in packed or unpacked form.
func appendInt32s(dst []int32, v molecule.Value) ([]int32, error) {
	switch v.WireType {
	case codec.WireVarint:
		return append(dst, int32(v.Number)), nil
	case codec.WireBytes:
		err := molecule.PackedRepeatedEach(codec.NewBuffer(v.Bytes), codec.FieldType_INT32, func(pv molecule.Value) (bool, error) {
			dst = append(dst, int32(pv.Number))
			return true, nil
		})
		return dst, err
	}
	return dst, nil
}

func appendInt64s(dst []int64, v molecule.Value) ([]int64, error) {
	switch v.WireType {
	case codec.WireVarint:
		return append(dst, int64(v.Number)), nil
	case codec.WireBytes:
		err := molecule.PackedRepeatedEach(codec.NewBuffer(v.Bytes), codec.FieldType_INT64, func(pv molecule.Value) (bool, error) {
			dst = append(dst, int64(pv.Number))
			return true, nil
		})
		return dst, err
	}
	return dst, nil
}

// appendFixed64s reads packed timestamps as whole 8 byte groups and counts
// one timestamp per unpacked element whatever its wire type.
func appendFixed64s(dst []uint64, v molecule.Value) []uint64 {
	if v.WireType != codec.WireBytes {
		return append(dst, v.Number)
	}
	for b := v.Bytes; len(b) >= 8; b = b[8:] {
		dst = append(dst, binary.LittleEndian.Uint64(b))
	}
	return dst
}
