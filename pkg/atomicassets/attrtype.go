/*
Package atomicassets implements the client-side data model of the
AtomicAssets NFT standard: the attribute type catalog with its validation
and wire-encoding rules, schema/template payloads and the action envelope
submitted to the chain.
*/
package atomicassets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ipfs/go-cid"
)

// AttributeType is one entry of the serializable type catalog. The zero
// value is not a valid type.
type AttributeType string

// Catalog of supported attribute types. The on-chain serializer knows a
// few more (byte arrays, fixed vectors), they are reserved and not
// produced by this tool.
const (
	TypeString AttributeType = "string"
	TypeUint8  AttributeType = "uint8"
	TypeUint16 AttributeType = "uint16"
	TypeUint32 AttributeType = "uint32"
	TypeUint64 AttributeType = "uint64"
	TypeInt8   AttributeType = "int8"
	TypeInt16  AttributeType = "int16"
	TypeInt32  AttributeType = "int32"
	TypeInt64  AttributeType = "int64"
	TypeFloat  AttributeType = "float"
	TypeDouble AttributeType = "double"
	TypeBool   AttributeType = "bool"
	TypeImage  AttributeType = "image"
	TypeIPFS   AttributeType = "ipfs"
)

var catalog = map[AttributeType]bool{
	TypeString: true,
	TypeUint8:  true,
	TypeUint16: true,
	TypeUint32: true,
	TypeUint64: true,
	TypeInt8:   true,
	TypeInt16:  true,
	TypeInt32:  true,
	TypeInt64:  true,
	TypeFloat:  true,
	TypeDouble: true,
	TypeBool:   true,
	TypeImage:  true,
	TypeIPFS:   true,
}

// ParseAttributeType converts a type token from an import table into a
// catalog entry.
func ParseAttributeType(s string) (AttributeType, error) {
	t := AttributeType(strings.ToLower(strings.TrimSpace(s)))
	if !catalog[t] {
		return "", fmt.Errorf("unknown attribute type %q", s)
	}
	return t, nil
}

// intBounds holds the closed interval of a fixed-width integer type.
type intBounds struct {
	bits   int
	signed bool
}

var intTypes = map[AttributeType]intBounds{
	TypeUint8:  {8, false},
	TypeUint16: {16, false},
	TypeUint32: {32, false},
	TypeUint64: {64, false},
	TypeInt8:   {8, true},
	TypeInt16:  {16, true},
	TypeInt32:  {32, true},
	TypeInt64:  {64, true},
}

// IsInteger reports whether t is one of the fixed-width integer types.
func (t AttributeType) IsInteger() bool {
	_, ok := intTypes[t]
	return ok
}

// Validate checks a raw table value against the type's rules. It is a
// pure predicate, the empty string is rejected for every type (emptiness
// of optional columns is the caller's concern).
func (t AttributeType) Validate(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty value for type %s", t)
	}
	switch t {
	case TypeString:
		return nil
	case TypeBool:
		// Only the table format's literal markers are accepted.
		if raw != "TRUE" && raw != "FALSE" {
			return fmt.Errorf("bool value must be TRUE or FALSE, got %q", raw)
		}
		return nil
	case TypeFloat:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil || math.IsInf(f, 0) {
			return fmt.Errorf("value %q does not fit float", raw)
		}
		return nil
	case TypeDouble:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(f, 0) {
			return fmt.Errorf("value %q does not fit double", raw)
		}
		return nil
	case TypeImage, TypeIPFS:
		if err := validateCID(raw); err != nil {
			return fmt.Errorf("invalid content identifier %q: %w", raw, err)
		}
		return nil
	}
	if b, ok := intTypes[t]; ok {
		if b.signed {
			// ParseInt enforces the two's-complement interval for the
			// requested width.
			if _, err := strconv.ParseInt(raw, 10, b.bits); err != nil {
				return fmt.Errorf("value %q does not fit %s", raw, t)
			}
		} else {
			// ParseUint rejects any sign character.
			if _, err := strconv.ParseUint(raw, 10, b.bits); err != nil {
				return fmt.Errorf("value %q does not fit %s", raw, t)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown attribute type %q", t)
}

// validateCID accepts a CID or a CID-rooted path ("Qm.../hero.png").
func validateCID(raw string) error {
	root := raw
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		root = raw[:i]
		if root == "" || i == len(raw)-1 {
			return fmt.Errorf("malformed CID path")
		}
	}
	_, err := cid.Decode(root)
	return err
}

// WireValue is the serialized form of an attribute value: an explicit
// type tag paired with the value it describes. It marshals to the
// two-element array form the AtomicAssets ABI expects.
type WireValue struct {
	Type  string
	Value any
}

// MarshalJSON implements json.Marshaler.
func (v WireValue) MarshalJSON() ([]byte, error) {
	return marshalPair(v.Type, v.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *WireValue) UnmarshalJSON(data []byte) error {
	return unmarshalPair(data, &v.Type, &v.Value)
}

// Encode converts a validated raw value into its wire form. Booleans go
// out as uint8 0/1, media types as plain strings holding the CID, numeric
// values keep their declared type tag paired with the parsed number.
func (t AttributeType) Encode(raw string) (WireValue, error) {
	if err := t.Validate(raw); err != nil {
		return WireValue{}, err
	}
	switch t {
	case TypeString:
		return WireValue{Type: "string", Value: raw}, nil
	case TypeImage, TypeIPFS:
		return WireValue{Type: "string", Value: raw}, nil
	case TypeBool:
		var v uint64
		if raw == "TRUE" {
			v = 1
		}
		return WireValue{Type: "uint8", Value: v}, nil
	case TypeFloat:
		f, _ := strconv.ParseFloat(raw, 32)
		return WireValue{Type: "float", Value: f}, nil
	case TypeDouble:
		f, _ := strconv.ParseFloat(raw, 64)
		return WireValue{Type: "double", Value: f}, nil
	}
	b := intTypes[t]
	if b.signed {
		v, _ := strconv.ParseInt(raw, 10, 64)
		return WireValue{Type: string(t), Value: v}, nil
	}
	v, _ := strconv.ParseUint(raw, 10, 64)
	return WireValue{Type: string(t), Value: v}, nil
}

// narrowing order, widest first.
var unsignedOrder = []AttributeType{TypeUint64, TypeUint32, TypeUint16, TypeUint8}
var signedOrder = []AttributeType{TypeInt64, TypeInt32, TypeInt16, TypeInt8}

// SuggestNarrower inspects all values of a declared integer type and
// returns the narrowest catalog type every value also fits, if it is
// narrower than the declared one. Purely advisory, empty values are
// skipped.
func SuggestNarrower(t AttributeType, values []string) (AttributeType, bool) {
	b, ok := intTypes[t]
	if !ok {
		return "", false
	}
	var nonEmpty bool
	for _, v := range values {
		if v != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		return "", false
	}
	order := unsignedOrder
	if b.signed {
		order = signedOrder
	}
	best := t
	for i, candidate := range order {
		if candidate == t {
			// Try only types narrower than the declared one.
			order = order[i+1:]
			break
		}
	}
	for _, candidate := range order {
		fits := true
		for _, v := range values {
			if v == "" {
				continue
			}
			if candidate.Validate(v) != nil {
				fits = false
				break
			}
		}
		if !fits {
			break
		}
		best = candidate
	}
	if best == t {
		return "", false
	}
	return best, true
}
