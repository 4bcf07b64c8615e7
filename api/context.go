package api

import (
	"encoding/json"
	"fmt"

	"github.com/vocdoni/zkplex/types"
)

// FormatVersion is the single integer prefixed on both proof and
// verification-context payloads; a mismatch at Verify time is a hard
// error (spec.md §6's proof format version requirement).
const FormatVersion = 1

// VerificationContext is the transport-level record a verifier needs to
// rebuild a circuit's shape without ever seeing a secret witness value:
// everything per spec.md §3 plus the serialized groth16 verifying key,
// which a Halo2/PLONK-style universal SRS would let a verifier re-derive
// from the shape alone but groth16's per-circuit trusted setup does not.
type VerificationContext struct {
	FormatVersion int
	K             uint32
	Preprocess    []string
	Circuit       []string
	Strategy      types.Strategy
	SecretNames   []string
	OutputName    string
	MaxBits       int
	HasMaxBits    bool
	VerifyingKey  []byte
}

func encodeVerificationContext(ctx VerificationContext) ([]byte, error) {
	data, err := json.Marshal(ctx)
	if err != nil {
		return nil, types.WrapError(types.ErrKindProof, "marshal verification context", err)
	}
	return EncodeEnvelope(data), nil
}

func decodeVerificationContext(envelope []byte) (VerificationContext, error) {
	data, err := DecodeEnvelope(envelope)
	if err != nil {
		return VerificationContext{}, err
	}
	var ctx VerificationContext
	if err := json.Unmarshal(data, &ctx); err != nil {
		return VerificationContext{}, types.WrapError(types.ErrKindVerify, "invalid verification context", err)
	}
	if ctx.FormatVersion != FormatVersion {
		return VerificationContext{}, types.NewError(types.ErrKindVerify,
			fmt.Sprintf("unsupported proof format version %d", ctx.FormatVersion))
	}
	return ctx, nil
}
