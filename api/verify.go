package api

import (
	"sort"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/vocdoni/zkplex/circuit"
	"github.com/vocdoni/zkplex/encoding"
	"github.com/vocdoni/zkplex/prover"
	"github.com/vocdoni/zkplex/types"
)

// Verify checks a proof against the verification context it was issued
// with and the public signal values the caller claims. It never returns
// a bare Go error for a failed proof: Valid/Error in the result is the
// boundary's own outcome channel, matching spec.md §6's `{valid, error?}`
// shape. A malformed request (bad envelope, version mismatch, unparsable
// program) still surfaces as Valid=false with Error set, not as an error
// return, so callers always get one code path for "this proof is bad."
func Verify(req VerifyRequest) (*VerifyResult, error) {
	ctx, err := decodeVerificationContext(req.VerificationContext)
	if err != nil {
		return &VerifyResult{Valid: false, Error: err.Error()}, nil
	}
	proof, err := decodeProof(req.Proof)
	if err != nil {
		return &VerifyResult{Valid: false, Error: err.Error()}, nil
	}
	vk, err := decodeVerifyingKey(ctx.VerifyingKey)
	if err != nil {
		return &VerifyResult{Valid: false, Error: err.Error()}, nil
	}

	statements, err := parseStatementShape(ctx)
	if err != nil {
		return &VerifyResult{Valid: false, Error: err.Error()}, nil
	}

	publicNames := make([]string, 0, len(req.PublicSignals))
	for name := range req.PublicSignals {
		if name == ctx.OutputName {
			continue
		}
		publicNames = append(publicNames, name)
	}
	sort.Strings(publicNames)

	zc := prover.NewVerifierCircuit(statements, ctx.SecretNames, publicNames, ctx.Strategy, ctx.MaxBits, ctx.HasMaxBits)
	for i, name := range publicNames {
		value, err := fieldValueFromText(req.PublicSignals[name])
		if err != nil {
			return &VerifyResult{Valid: false, Error: err.Error()}, nil
		}
		zc.Public[i] = value
	}
	outputText, ok := req.PublicSignals[ctx.OutputName]
	if !ok {
		return &VerifyResult{Valid: false, Error: types.NewError(types.ErrKindValidation,
			"missing output signal value "+ctx.OutputName).Error()}, nil
	}
	outputValue, err := fieldValueFromText(outputText)
	if err != nil {
		return &VerifyResult{Valid: false, Error: err.Error()}, nil
	}
	zc.Output = outputValue

	publicWitness, err := frontend.NewWitness(zc, prover.Curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return &VerifyResult{Valid: false, Error: types.WrapError(types.ErrKindVerify, "build public witness", err).Error()}, nil
	}

	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return &VerifyResult{Valid: false, Error: types.WrapError(types.ErrKindVerify, "groth16 verify", err).Error()}, nil
	}
	return &VerifyResult{Valid: true}, nil
}

// parseStatementShape re-parses a verification context's preprocess and
// circuit statement lists into the same AST BuildFromProgram produces,
// without requiring any signal to be bound: evaluation failures for
// undefined (secret) signals are expected here and simply leave later
// statements unresolved, exactly as BuildFromProgram's shape-only mode
// already tolerates for a verifier rebuilding a circuit it never saw a
// witness for.
func parseStatementShape(ctx VerificationContext) ([]circuit.Statement, error) {
	p := circuit.NewProgram(ctx.FormatVersion)
	p.Preprocess = ctx.Preprocess
	p.Circuit = ctx.Circuit
	built, err := circuit.BuildFromProgram(p)
	if err != nil {
		return nil, err
	}
	return built.Statements, nil
}

func fieldValueFromText(text string) (string, error) {
	raw, _, err := encoding.ParseAuto(text)
	if err != nil {
		return "", types.WrapError(types.ErrKindEncoding, "public signal value", err)
	}
	return encoding.ToField(raw).String(), nil
}
