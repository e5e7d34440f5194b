package atomicassets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	cidV0 = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"
	cidV1 = "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
)

func TestParseAttributeType(t *testing.T) {
	for _, tok := range []string{"string", "uint64", "IMAGE", " bool "} {
		_, err := ParseAttributeType(tok)
		require.NoError(t, err, tok)
	}
	for _, tok := range []string{"", "text", "uint128", "varint"} {
		_, err := ParseAttributeType(tok)
		require.Error(t, err, tok)
	}
}

func TestValidateIntegerRanges(t *testing.T) {
	cases := []struct {
		typ AttributeType
		ok  []string
		bad []string
	}{
		{TypeUint8, []string{"0", "255"}, []string{"-1", "256", "1.5", "+1", "abc"}},
		{TypeUint16, []string{"0", "65535"}, []string{"-1", "65536"}},
		{TypeUint32, []string{"0", "4294967295"}, []string{"-1", "4294967296"}},
		{TypeUint64, []string{"0", "18446744073709551615"}, []string{"-1", "18446744073709551616"}},
		{TypeInt8, []string{"-128", "127"}, []string{"-129", "128"}},
		{TypeInt16, []string{"-32768", "32767"}, []string{"-32769", "32768"}},
		{TypeInt32, []string{"-2147483648", "2147483647"}, []string{"-2147483649", "2147483648"}},
		{TypeInt64, []string{"-9223372036854775808", "9223372036854775807"}, []string{"-9223372036854775809", "9223372036854775808"}},
	}
	for _, c := range cases {
		for _, v := range c.ok {
			require.NoError(t, c.typ.Validate(v), "%s %s", c.typ, v)
		}
		for _, v := range c.bad {
			require.Error(t, c.typ.Validate(v), "%s %s", c.typ, v)
		}
	}
}

func TestValidateFloats(t *testing.T) {
	require.NoError(t, TypeFloat.Validate("1.25"))
	require.NoError(t, TypeDouble.Validate("-1e100"))
	require.Error(t, TypeFloat.Validate("1e100"), "exceeds float32 range")
	require.Error(t, TypeDouble.Validate("1e400"), "exceeds float64 range")
	require.Error(t, TypeDouble.Validate("abc"))
}

func TestValidateBool(t *testing.T) {
	require.NoError(t, TypeBool.Validate("TRUE"))
	require.NoError(t, TypeBool.Validate("FALSE"))
	require.Error(t, TypeBool.Validate("true"))
	require.Error(t, TypeBool.Validate("1"))
	require.Error(t, TypeBool.Validate(""))
}

func TestValidateCID(t *testing.T) {
	require.NoError(t, TypeImage.Validate(cidV0))
	require.NoError(t, TypeIPFS.Validate(cidV1))
	require.NoError(t, TypeImage.Validate(cidV0+"/hero.png"))
	require.Error(t, TypeImage.Validate("not-a-cid"))
	require.Error(t, TypeImage.Validate(cidV0+"/"))
	require.Error(t, TypeIPFS.Validate("/"+cidV0))
}

func TestEncode(t *testing.T) {
	v, err := TypeBool.Encode("TRUE")
	require.NoError(t, err)
	require.Equal(t, WireValue{Type: "uint8", Value: uint64(1)}, v)

	v, err = TypeBool.Encode("FALSE")
	require.NoError(t, err)
	require.Equal(t, WireValue{Type: "uint8", Value: uint64(0)}, v)

	v, err = TypeUint16.Encode("42")
	require.NoError(t, err)
	require.Equal(t, WireValue{Type: "uint16", Value: uint64(42)}, v)

	v, err = TypeInt32.Encode("-7")
	require.NoError(t, err)
	require.Equal(t, WireValue{Type: "int32", Value: int64(-7)}, v)

	v, err = TypeDouble.Encode("2.5")
	require.NoError(t, err)
	require.Equal(t, WireValue{Type: "double", Value: 2.5}, v)

	v, err = TypeImage.Encode(cidV0)
	require.NoError(t, err)
	require.Equal(t, WireValue{Type: "string", Value: cidV0}, v)

	_, err = TypeUint8.Encode("300")
	require.Error(t, err)
}

func TestWireValueJSON(t *testing.T) {
	v := WireValue{Type: "uint16", Value: uint64(42)}
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `["uint16",42]`, string(data))

	var back WireValue
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, "uint16", back.Type)
	require.EqualValues(t, 42, back.Value.(float64))
}

func TestSuggestNarrower(t *testing.T) {
	narrow, ok := SuggestNarrower(TypeUint64, []string{"1", "200", ""})
	require.True(t, ok)
	require.Equal(t, TypeUint8, narrow)

	narrow, ok = SuggestNarrower(TypeUint64, []string{"1", "70000"})
	require.True(t, ok)
	require.Equal(t, TypeUint32, narrow)

	_, ok = SuggestNarrower(TypeUint64, []string{"18446744073709551615"})
	require.False(t, ok)

	narrow, ok = SuggestNarrower(TypeInt64, []string{"-5", "100"})
	require.True(t, ok)
	require.Equal(t, TypeInt8, narrow)

	_, ok = SuggestNarrower(TypeString, []string{"a"})
	require.False(t, ok)

	_, ok = SuggestNarrower(TypeUint64, []string{"", ""})
	require.False(t, ok)
}
