package api

import (
	"encoding/ascii85"

	"github.com/vocdoni/zkplex/types"
)

// EncodeEnvelope wraps payload in an ASCII85 envelope, the transport
// form spec.md §6 names for verification-context bytes: opaque to the
// caller, safe to embed in JSON or plain text.
func EncodeEnvelope(payload []byte) []byte {
	buf := make([]byte, ascii85.MaxEncodedLen(len(payload)))
	n := ascii85.Encode(buf, payload)
	return buf[:n]
}

// DecodeEnvelope reverses EncodeEnvelope.
func DecodeEnvelope(envelope []byte) ([]byte, error) {
	buf := make([]byte, len(envelope))
	n, _, err := ascii85.Decode(buf, envelope, true)
	if err != nil {
		return nil, types.WrapError(types.ErrKindVerify, "invalid ascii85 envelope", err)
	}
	return buf[:n], nil
}
