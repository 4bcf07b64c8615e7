package types

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// FieldModulus is the Pallas-like 255-bit prime every zkplex field element is
// reduced modulo. It is the Pasta/Pallas base field modulus, the same
// constant the original implementation hardcodes for its bytes_to_field
// reduction.
var FieldModulus = mustModulus("40000000000000000000000000000000224698fc094cf91b992d30ed00000001")

func mustModulus(hexDigits string) *big.Int {
	m, ok := new(big.Int).SetString(hexDigits, 16)
	if !ok {
		panic("types: invalid field modulus constant")
	}
	return m
}

// BigInt is a big.Int wrapper that marshals to JSON as a decimal string (so
// values exceeding float64/int64 precision survive a JSON round-trip) and to
// CBOR as a text string. A nil *BigInt marshals as "0".
type BigInt big.Int

// NewInt creates a BigInt from a machine int.
func NewInt(x int) *BigInt {
	return new(BigInt).SetInt(x)
}

// MarshalText returns the decimal representation of the number.
func (i *BigInt) MarshalText() ([]byte, error) {
	if i == nil {
		return []byte("0"), nil
	}
	return (*big.Int)(i).MarshalText()
}

// UnmarshalText parses a decimal representation into the receiver.
func (i *BigInt) UnmarshalText(data []byte) error {
	if i == nil {
		return fmt.Errorf("types: cannot unmarshal into nil *BigInt")
	}
	return (*big.Int)(i).UnmarshalText(data)
}

// UnmarshalJSON accepts both a quoted decimal string and a bare JSON number.
func (i *BigInt) UnmarshalJSON(data []byte) error {
	if i == nil {
		return fmt.Errorf("types: cannot unmarshal into nil *BigInt")
	}
	if len(data) >= 2 && data[0] == '"' {
		return i.UnmarshalText(data[1 : len(data)-1])
	}
	return i.UnmarshalText(data)
}

// MarshalJSON renders the number as a quoted decimal string, matching
// MarshalText rather than json.Marshal's default numeric encoding.
func (i *BigInt) MarshalJSON() ([]byte, error) {
	txt, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return []byte(`"` + string(txt) + `"`), nil
}

// MarshalCBOR encodes the number as a CBOR text string (its decimal form).
func (i *BigInt) MarshalCBOR() ([]byte, error) {
	txt, err := i.MarshalText()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(string(txt))
}

// UnmarshalCBOR decodes a CBOR text string produced by MarshalCBOR.
func (i *BigInt) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	return i.UnmarshalText([]byte(s))
}

// String returns the decimal representation of the number.
func (i *BigInt) String() string {
	return (*big.Int)(i).String()
}

// SetBytes interprets buf as a big-endian unsigned integer.
func (i *BigInt) SetBytes(buf []byte) *BigInt {
	return (*BigInt)(i.MathBigInt().SetBytes(buf))
}

// Bytes returns the minimal big-endian representation of the number.
func (i *BigInt) Bytes() []byte {
	return (*big.Int)(i).Bytes()
}

// MathBigInt exposes the receiver as a *big.Int for use with math/big APIs.
func (i *BigInt) MathBigInt() *big.Int {
	return (*big.Int)(i)
}

func (i *BigInt) SetUint64(x uint64) *BigInt {
	return (*BigInt)(i.MathBigInt().SetUint64(x))
}

func (i *BigInt) SetInt(x int) *BigInt {
	return (*BigInt)(i.MathBigInt().SetInt64(int64(x)))
}

// SetBigInt copies the value of x into the receiver.
func (i *BigInt) SetBigInt(x *big.Int) *BigInt {
	return (*BigInt)(i.MathBigInt().Set(x))
}

// Equal reports whether i and j hold the same value; two nils are equal.
func (i *BigInt) Equal(j *BigInt) bool {
	if i == nil || j == nil {
		return (i == nil) == (j == nil)
	}
	return i.MathBigInt().Cmp(j.MathBigInt()) == 0
}

// ToField reduces the receiver modulo FieldModulus, returning a fresh
// BigInt in [0, FieldModulus). Conversion is total: it never errors, it
// only ever reduces, matching the spec's "conversion is total" invariant
// for field elements.
func (i *BigInt) ToField() *BigInt {
	v := i.MathBigInt()
	if v.Sign() >= 0 && v.Cmp(FieldModulus) < 0 {
		return new(BigInt).SetBigInt(v)
	}
	reduced := new(big.Int).Mod(v, FieldModulus)
	return (*BigInt)(reduced)
}
