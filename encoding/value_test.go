package encoding_test

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/zkplex/encoding"
	"github.com/vocdoni/zkplex/types"
)

func TestParseDecimal(t *testing.T) {
	c := qt.New(t)
	b, err := encoding.Parse("12345", encoding.Decimal)
	c.Assert(err, qt.IsNil)
	c.Assert(new(big.Int).SetBytes(b).String(), qt.Equals, "12345")
}

func TestParseHexWithAndWithoutPrefix(t *testing.T) {
	c := qt.New(t)
	withPrefix, err := encoding.Parse("0x1a2b", encoding.Hex)
	c.Assert(err, qt.IsNil)
	c.Assert(withPrefix, qt.DeepEquals, []byte{0x1a, 0x2b})

	withoutPrefix, err := encoding.Parse("1a2b", encoding.Hex)
	c.Assert(err, qt.IsNil)
	c.Assert(withoutPrefix, qt.DeepEquals, []byte{0x1a, 0x2b})
}

func TestRoundtripBase58(t *testing.T) {
	c := qt.New(t)
	original := []byte("Solana Public Key")
	encoded := encoding.Format(original, encoding.Base58)
	decoded, err := encoding.Parse(encoded, encoding.Base58)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, original)
}

func TestRoundtripBase64(t *testing.T) {
	c := qt.New(t)
	original := []byte("Hello, World!")
	encoded := encoding.Format(original, encoding.Base64)
	decoded, err := encoding.Parse(encoded, encoding.Base64)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, original)
}

func TestRoundtripBase85(t *testing.T) {
	c := qt.New(t)
	original := []byte("Test data for Base85")
	encoded := encoding.Format(original, encoding.Base85)
	decoded, err := encoding.Parse(encoded, encoding.Base85)
	c.Assert(err, qt.IsNil)
	c.Assert(decoded, qt.DeepEquals, original)
}

func TestAutoDetectHex(t *testing.T) {
	c := qt.New(t)
	b, enc, err := encoding.ParseAuto("0x1a2b")
	c.Assert(err, qt.IsNil)
	c.Assert(enc, qt.Equals, encoding.Hex)
	c.Assert(b, qt.DeepEquals, []byte{0x1a, 0x2b})
}

func TestAutoDetectDecimal(t *testing.T) {
	c := qt.New(t)
	_, enc, err := encoding.ParseAuto("12345")
	c.Assert(err, qt.IsNil)
	c.Assert(enc, qt.Equals, encoding.Decimal)
}

func TestAutoDetectText(t *testing.T) {
	c := qt.New(t)
	b, enc, err := encoding.ParseAuto("Hello, World!")
	c.Assert(err, qt.IsNil)
	c.Assert(enc, qt.Equals, encoding.Text)
	c.Assert(b, qt.DeepEquals, []byte("Hello, World!"))
}

func TestConsistencyMinimalBytes(t *testing.T) {
	c := qt.New(t)
	decimal10, err := encoding.Parse("10", encoding.Decimal)
	c.Assert(err, qt.IsNil)
	hex0a, err := encoding.Parse("0x0a", encoding.Hex)
	c.Assert(err, qt.IsNil)
	c.Assert(decimal10, qt.DeepEquals, []byte{10})
	c.Assert(decimal10, qt.DeepEquals, hex0a)
}

func TestZeroRepresentation(t *testing.T) {
	c := qt.New(t)
	decimal0, err := encoding.Parse("0", encoding.Decimal)
	c.Assert(err, qt.IsNil)
	c.Assert(decimal0, qt.DeepEquals, []byte{0})
}

func TestLargeDecimalNumbers(t *testing.T) {
	c := qt.New(t)
	large := "99999999999999999999999999999999"
	b, err := encoding.Parse(large, encoding.Decimal)
	c.Assert(err, qt.IsNil)
	c.Assert(encoding.Format(b, encoding.Decimal), qt.Equals, large)
}

func TestToFieldReducesOversizedValues(t *testing.T) {
	c := qt.New(t)
	// FieldModulus + 5 must reduce to 5; FieldModulus itself reduces to 0.
	over := new(big.Int).Add(types.FieldModulus, big.NewInt(5))
	reduced := encoding.ToField(over.Bytes())
	c.Assert(reduced.String(), qt.Equals, "5")

	exact := encoding.ToField(types.FieldModulus.Bytes())
	c.Assert(exact.String(), qt.Equals, "0")
}
