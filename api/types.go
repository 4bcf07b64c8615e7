// Package api implements the four external calls spec.md §6 names —
// Prove, Verify, Estimate, Layout — wiring circuit, synth, and prover
// together behind request/response types a CLI or any other caller can
// drive without touching gnark directly.
package api

import (
	"github.com/google/uuid"

	"github.com/vocdoni/zkplex/encoding"
	"github.com/vocdoni/zkplex/types"
)

// SignalInput is one named signal as it arrives at the boundary: a value
// with its declared encoding (auto-detected when absent) and a
// visibility flag. A nil Value with Public set marks the output signal.
type SignalInput struct {
	Value    *string
	Encoding *encoding.Encoding
	Public   bool
}

// ProveRequest is the Prove call's input: ordered preprocess and circuit
// statement lists plus the named signal map and requested strategy.
type ProveRequest struct {
	Preprocess []string
	Circuit    []string
	Signals    map[string]SignalInput
	Strategy   types.Strategy
}

// PublicSignal is one named public value as echoed back to the caller,
// rendered in its original (or auto-detected) encoding.
type PublicSignal struct {
	Value    string
	Encoding encoding.Encoding
}

// DebugInfo accompanies a ProveResponse with the resolved circuit shape
// and any warnings raised while building it.
type DebugInfo struct {
	CorrelationID uuid.UUID
	K             uint32
	MaxBits       int
	HasMaxBits    bool
	SecretNames   []string
	Warnings      []string
}

// ProveResponse is the Prove call's output: the opaque proof, an
// ASCII85-enveloped verification context, the resolved public signal
// values, and a debug block.
type ProveResponse struct {
	Proof               []byte
	VerificationContext []byte
	PublicSignals       map[string]PublicSignal
	Debug               DebugInfo
}

// VerifyRequest is the Verify call's input: the proof, the verification
// context it was issued with, and every public signal value including
// the output signal's computed value.
type VerifyRequest struct {
	Proof               []byte
	VerificationContext []byte
	PublicSignals       map[string]string
}

// VerifyResult is the Verify call's output.
type VerifyResult struct {
	Valid bool
	Error string
}

// LayoutResponse summarizes a circuit's resource layout: the estimator's
// size predictions plus the resolved signal lists, suitable for JSON or
// ASCII rendering.
type LayoutResponse struct {
	K                        uint32
	TotalRows                uint64
	EstimatedRows            uint32
	OperationCount           uint32
	CheapComparisonCount     uint32
	ExpensiveComparisonCount uint32
	PreprocessCount          uint32
	ParamsSizeBytes          uint64
	ProofSizeBytes           uint64
	VKSizeBytes              uint64
	Complexity               string
	ResolvedStrategy         types.Strategy
	MaxBits                  int
	HasMaxBits               bool
	SecretSignals            []string
	PublicSignals            []string
	OutputSignal             string
}
