package api

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark/backend/groth16"

	"github.com/vocdoni/zkplex/prover"
	"github.com/vocdoni/zkplex/types"
)

// encodeProof prefixes a serialized groth16 proof with the format
// version, the way spec.md §6 requires for both proof and verify
// payloads.
func encodeProof(proof groth16.Proof) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, uint32(FormatVersion)); err != nil {
		return nil, types.WrapError(types.ErrKindProof, "write proof version", err)
	}
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, types.WrapError(types.ErrKindProof, "serialize proof", err)
	}
	return buf.Bytes(), nil
}

func decodeProof(data []byte) (groth16.Proof, error) {
	if len(data) < 4 {
		return nil, types.NewError(types.ErrKindVerify, "proof payload too short")
	}
	version := binary.BigEndian.Uint32(data[:4])
	if version != FormatVersion {
		return nil, types.NewError(types.ErrKindVerify, fmt.Sprintf("unsupported proof format version %d", version))
	}
	proof := groth16.NewProof(prover.Curve)
	if _, err := proof.ReadFrom(bytes.NewReader(data[4:])); err != nil {
		return nil, types.WrapError(types.ErrKindVerify, "deserialize proof", err)
	}
	return proof, nil
}

func encodeVerifyingKey(vk groth16.VerifyingKey) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := vk.WriteTo(&buf); err != nil {
		return nil, types.WrapError(types.ErrKindProof, "serialize verifying key", err)
	}
	return buf.Bytes(), nil
}

func decodeVerifyingKey(data []byte) (groth16.VerifyingKey, error) {
	vk := groth16.NewVerifyingKey(prover.Curve)
	if _, err := vk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, types.WrapError(types.ErrKindVerify, "deserialize verifying key", err)
	}
	return vk, nil
}
