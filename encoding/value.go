// Package encoding implements the zkplex value layer: parsing a signal's
// source-text value under a declared or auto-detected encoding into raw
// bytes, formatting bytes back into each encoding's text form, and reducing
// an arbitrary-size big-endian byte string into the zkplex prime field.
package encoding

import (
	"encoding/ascii85"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/vocdoni/zkplex/types"
)

// Encoding names the text encoding of a Value's source representation.
type Encoding int

const (
	Decimal Encoding = iota
	Hex
	Base58
	Base64
	Base85
	Text
)

func (e Encoding) String() string {
	switch e {
	case Decimal:
		return "decimal"
	case Hex:
		return "hex"
	case Base58:
		return "base58"
	case Base64:
		return "base64"
	case Base85:
		return "base85"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// MarshalJSON renders the encoding as its lowercase name.
func (e Encoding) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.String() + `"`), nil
}

// UnmarshalJSON parses a JSON string into an Encoding.
func (e *Encoding) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return types.NewError(types.ErrKindEncoding, fmt.Sprintf("invalid encoding JSON %q", data))
	}
	parsed, err := ParseEncoding(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// ParseEncoding parses a case-insensitive encoding name as used in the
// Zircon/JSON wire formats.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "decimal":
		return Decimal, nil
	case "hex":
		return Hex, nil
	case "base58":
		return Base58, nil
	case "base64":
		return Base64, nil
	case "base85":
		return Base85, nil
	case "text":
		return Text, nil
	default:
		return 0, types.NewError(types.ErrKindEncoding, fmt.Sprintf("unknown encoding %q", s))
	}
}

// Parse decodes value's text form under the given encoding into raw bytes.
func Parse(value string, enc Encoding) ([]byte, error) {
	switch enc {
	case Decimal:
		return parseDecimal(value)
	case Hex:
		return parseHex(value)
	case Base58:
		b, err := base58.Decode(value)
		if err != nil {
			return nil, types.WrapError(types.ErrKindEncoding, fmt.Sprintf("invalid base58 %q", value), err)
		}
		return b, nil
	case Base64:
		b, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, types.WrapError(types.ErrKindEncoding, fmt.Sprintf("invalid base64 %q", value), err)
		}
		return b, nil
	case Base85:
		return parseBase85(value)
	case Text:
		return []byte(value), nil
	default:
		return nil, types.NewError(types.ErrKindEncoding, fmt.Sprintf("unsupported encoding %v", enc))
	}
}

// ParseAuto implements the spec's encoding auto-detection rules: a leading
// "0x"/"0X" selects hex; all-ASCII-digits selects decimal; a '+', '/' or '='
// character tries base64; alphanumerics excluding '0','O','I','l' try
// base58; anything else falls back to raw UTF-8 text.
func ParseAuto(value string) ([]byte, Encoding, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		b, err := parseHex(value)
		return b, Hex, err
	}
	if isAllASCIIDigits(value) {
		b, err := parseDecimal(value)
		return b, Decimal, err
	}
	if strings.ContainsAny(value, "+/=") {
		if b, err := base64.StdEncoding.DecodeString(value); err == nil {
			return b, Base64, nil
		}
	}
	if isBase58Alphabet(value) {
		if b, err := base58.Decode(value); err == nil {
			return b, Base58, nil
		}
	}
	return []byte(value), Text, nil
}

func isAllASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func isBase58Alphabet(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c == '0' || c == 'O' || c == 'I' || c == 'l':
			return false
		case (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
			continue
		default:
			return false
		}
	}
	return true
}

func parseDecimal(value string) ([]byte, error) {
	if value == "" {
		return nil, types.NewError(types.ErrKindEncoding, "invalid decimal: empty string")
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return nil, types.NewError(types.ErrKindEncoding, fmt.Sprintf("invalid decimal %q", value))
	}
	b := n.Bytes()
	if len(b) == 0 {
		b = []byte{0}
	}
	return b, nil
}

func parseHex(value string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if len(trimmed)%2 != 0 {
		trimmed = "0" + trimmed
	}
	b, err := types.HexStringToHexBytes(trimmed)
	if err != nil {
		return nil, types.WrapError(types.ErrKindEncoding, fmt.Sprintf("invalid hex %q", value), err)
	}
	return b, nil
}

func parseBase85(value string) ([]byte, error) {
	dst := make([]byte, len(value))
	n, _, err := ascii85.Decode(dst, []byte(value), true)
	if err != nil {
		return nil, types.WrapError(types.ErrKindEncoding, fmt.Sprintf("invalid base85 %q", value), err)
	}
	return dst[:n], nil
}

// Format renders bytes back into enc's text form (the inverse of Parse,
// used when echoing public signal values back to the caller with their
// original encoding, per spec §6).
func Format(value []byte, enc Encoding) string {
	switch enc {
	case Decimal:
		return new(big.Int).SetBytes(value).String()
	case Hex:
		hb := types.HexBytes(value)
		return hb.String()
	case Base58:
		return base58.Encode(value)
	case Base64:
		return base64.StdEncoding.EncodeToString(value)
	case Base85:
		dst := make([]byte, ascii85.MaxEncodedLen(len(value)))
		n := ascii85.Encode(dst, value)
		return string(dst[:n])
	case Text:
		return string(value)
	default:
		return ""
	}
}

// ToField reduces a big-endian byte string into the zkplex prime field.
// Conversion is total: values larger than the modulus are simply reduced,
// never rejected.
func ToField(value []byte) *types.BigInt {
	return new(types.BigInt).SetBytes(value).ToField()
}
