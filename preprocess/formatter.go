package preprocess

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"

	"github.com/vocdoni/zkplex/types"
)

type formatKind int

const (
	formatHexLower formatKind = iota
	formatHexUpper
	formatDecimal
	formatOctal
	formatBase64Lower
	formatBase64Upper
	formatBase58Lower
	formatBase58Upper
)

// FormatValue renders value according to a printf-style spec such as "%x",
// "%08x", "%d", "%064b64". spec must include the leading '%'.
func FormatValue(value []byte, spec string) ([]byte, error) {
	if !strings.HasPrefix(spec, "%") {
		return nil, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("format specifier must start with %%: %s", spec))
	}
	width, kind, err := parseFormatSpec(spec[1:])
	if err != nil {
		return nil, err
	}

	var rendered string
	switch kind {
	case formatHexLower:
		rendered = hex.EncodeToString(value)
	case formatHexUpper:
		rendered = strings.ToUpper(hex.EncodeToString(value))
	case formatDecimal:
		rendered = new(big.Int).SetBytes(value).String()
	case formatOctal:
		rendered = new(big.Int).SetBytes(value).Text(8)
	case formatBase64Lower:
		rendered = base64.StdEncoding.EncodeToString(value)
	case formatBase64Upper:
		rendered = strings.ToUpper(base64.StdEncoding.EncodeToString(value))
	case formatBase58Lower:
		rendered = base58.Encode(value)
	case formatBase58Upper:
		rendered = strings.ToUpper(base58.Encode(value))
	}

	if width > 0 {
		rendered = zeroPad(rendered, width)
	}
	return []byte(rendered), nil
}

func parseFormatSpec(spec string) (width int, kind formatKind, err error) {
	if spec == "" {
		return 0, 0, types.NewError(types.ErrKindPreprocess, "empty format specifier")
	}

	for suffix, k := range map[string]formatKind{
		"b64": formatBase64Lower,
		"B64": formatBase64Upper,
		"b58": formatBase58Lower,
		"B58": formatBase58Upper,
	} {
		if strings.HasSuffix(spec, suffix) {
			width, err = parsePadding(spec[:len(spec)-len(suffix)])
			return width, k, err
		}
	}

	last := spec[len(spec)-1]
	widthStr := spec[:len(spec)-1]
	switch last {
	case 'x':
		kind = formatHexLower
	case 'X':
		kind = formatHexUpper
	case 'd':
		kind = formatDecimal
	case 'o':
		kind = formatOctal
	default:
		return 0, 0, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("unknown format type %q", string(last)))
	}
	width, err = parsePadding(widthStr)
	return width, kind, err
}

func parsePadding(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	s = strings.TrimPrefix(s, "0")
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, types.WrapError(types.ErrKindPreprocess, fmt.Sprintf("invalid padding width %q", s), err)
	}
	return n, nil
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
