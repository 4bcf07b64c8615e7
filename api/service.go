package api

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/vocdoni/zkplex/circuit"
	"github.com/vocdoni/zkplex/encoding"
	"github.com/vocdoni/zkplex/parser"
	"github.com/vocdoni/zkplex/prover"
	"github.com/vocdoni/zkplex/types"
)

// buildProgram assembles a circuit.Program from a Prove/Estimate/Layout
// request's signal map.
func buildProgram(req ProveRequest) *circuit.Program {
	p := circuit.NewProgram(FormatVersion)
	p.Preprocess = req.Preprocess
	p.Circuit = req.Circuit
	for name, sig := range req.Signals {
		s := circuit.Signal{Value: sig.Value, Encoding: sig.Encoding}
		if sig.Public {
			p.SetPublic(name, s)
		} else {
			p.SetSecret(name, s)
		}
	}
	return p
}

// prepareCircuit validates and builds the circuit for a request, and
// resolves the declared output signal's name.
func prepareCircuit(req ProveRequest) (*circuit.Program, *circuit.Circuit, string, error) {
	p := buildProgram(req)
	if err := p.Validate(); err != nil {
		return nil, nil, "", err
	}
	outputName, ok := p.OutputSignalName()
	if !ok {
		return nil, nil, "", types.NewError(types.ErrKindValidation, "exactly one public signal must be an output signal")
	}
	built, err := circuit.BuildFromProgram(p)
	if err != nil {
		return nil, nil, "", err
	}
	if err := circuit.ValidateStrategyCompatibility(built, req.Strategy); err != nil {
		return nil, nil, "", err
	}
	return p, built, outputName, nil
}

// Prove builds the circuit described by req, runs a fresh groth16 setup
// and proof over it, and returns the proof together with everything a
// verifier needs to check it.
func Prove(req ProveRequest) (*ProveResponse, error) {
	p, built, outputName, err := prepareCircuit(req)
	if err != nil {
		return nil, err
	}

	zc := prover.NewZKCircuit(built, req.Strategy)
	ccs, err := prover.Compile(zc.Placeholder())
	if err != nil {
		return nil, err
	}
	pk, vk, err := prover.Setup(ccs)
	if err != nil {
		return nil, err
	}
	proof, _, err := prover.Prove(ccs, pk, zc)
	if err != nil {
		return nil, err
	}

	proofBytes, err := encodeProof(proof)
	if err != nil {
		return nil, err
	}
	vkBytes, err := encodeVerifyingKey(vk)
	if err != nil {
		return nil, err
	}

	maxBits, hasMaxBits := built.MaxRangeCheckBits()
	estimate := circuit.EstimateRequirements(built, req.Strategy)

	vctx := VerificationContext{
		FormatVersion: FormatVersion,
		K:             estimate.K,
		Preprocess:    req.Preprocess,
		Circuit:       req.Circuit,
		Strategy:      req.Strategy,
		SecretNames:   zc.SecretNames(),
		OutputName:    outputName,
		MaxBits:       maxBits,
		HasMaxBits:    hasMaxBits,
		VerifyingKey:  vkBytes,
	}
	vctxBytes, err := encodeVerificationContext(vctx)
	if err != nil {
		return nil, err
	}

	return &ProveResponse{
		Proof:               proofBytes,
		VerificationContext: vctxBytes,
		PublicSignals:       collectPublicSignals(p, built, outputName),
		Debug: DebugInfo{
			CorrelationID: uuid.New(),
			K:             estimate.K,
			MaxBits:       maxBits,
			HasMaxBits:    hasMaxBits,
			SecretNames:   zc.SecretNames(),
			Warnings:      detectLiteralSecretWarnings(built, zc.SecretNames()),
		},
	}, nil
}

// Estimate analyzes the circuit described by req without running a
// proving backend at all, per spec.md §4.6's "before any proof is
// generated" framing.
func Estimate(req ProveRequest) (*circuit.Estimate, error) {
	_, built, _, err := prepareCircuit(req)
	if err != nil {
		return nil, err
	}
	estimate := circuit.EstimateRequirements(built, req.Strategy)
	return &estimate, nil
}

// Layout analyzes the circuit described by req and returns a structured
// resource summary including its resolved signal lists.
func Layout(req ProveRequest) (*LayoutResponse, error) {
	_, built, outputName, err := prepareCircuit(req)
	if err != nil {
		return nil, err
	}
	estimate := circuit.EstimateRequirements(built, req.Strategy)
	maxBits, hasMaxBits := built.MaxRangeCheckBits()
	secretNames, publicNames := splitRequestSignalNames(req, outputName)

	return &LayoutResponse{
		K:                        estimate.K,
		TotalRows:                estimate.TotalRows,
		EstimatedRows:            estimate.EstimatedRows,
		OperationCount:           estimate.OperationCount,
		CheapComparisonCount:     estimate.CheapComparisonCount,
		ExpensiveComparisonCount: estimate.ExpensiveComparisonCount,
		PreprocessCount:          estimate.PreprocessCount,
		ParamsSizeBytes:          estimate.ParamsSizeBytes,
		ProofSizeBytes:           estimate.ProofSizeBytes,
		VKSizeBytes:              estimate.VKSizeBytes,
		Complexity:               estimate.Complexity,
		ResolvedStrategy:         estimate.ResolvedStrategy,
		MaxBits:                  maxBits,
		HasMaxBits:               hasMaxBits,
		SecretSignals:            secretNames,
		PublicSignals:            publicNames,
		OutputSignal:             outputName,
	}, nil
}

func splitRequestSignalNames(req ProveRequest, outputName string) (secret, public []string) {
	for name, sig := range req.Signals {
		if name == outputName {
			continue
		}
		if sig.Public {
			public = append(public, name)
		} else {
			secret = append(secret, name)
		}
	}
	sort.Strings(secret)
	sort.Strings(public)
	return secret, public
}

// collectPublicSignals renders every public signal's field value back
// into its original encoding (declared, or else auto-detected from the
// input text; decimal for the computed output).
func collectPublicSignals(p *circuit.Program, built *circuit.Circuit, outputName string) map[string]PublicSignal {
	out := make(map[string]PublicSignal, len(built.PublicSignalNames)+1)
	for _, name := range built.PublicSignalNames {
		value, ok := built.Signals[name]
		if !ok {
			continue
		}
		enc := encoding.Decimal
		if sig, found := p.Public(name); found {
			if sig.Encoding != nil {
				enc = *sig.Encoding
			} else if sig.Value != nil {
				if _, detected, err := encoding.ParseAuto(*sig.Value); err == nil {
					enc = detected
				}
			}
		}
		out[name] = PublicSignal{Value: encoding.Format(value.Bytes(), enc), Encoding: enc}
	}
	if built.Output != nil {
		out[outputName] = PublicSignal{Value: encoding.Format(built.Output.Bytes(), encoding.Decimal), Encoding: encoding.Decimal}
	}
	return out
}

// detectLiteralSecretWarnings flags circuit statements whose constant
// literals coincide with a secret signal's actual field value: the
// verification context transmits the circuit statement list verbatim, so
// a literal secret value embedded in it (instead of a signal reference)
// leaks through to the verifier.
func detectLiteralSecretWarnings(built *circuit.Circuit, secretNames []string) []string {
	secretValues := make(map[string]string, len(secretNames))
	for _, name := range secretNames {
		if v, ok := built.Signals[name]; ok {
			secretValues[name] = v.String()
		}
	}
	if len(secretValues) == 0 {
		return nil
	}

	flagged := make(map[string]bool)
	var warnings []string
	for _, stmt := range built.Statements {
		walkConstLiterals(stmt.Expr, func(lit string) {
			for name, val := range secretValues {
				if lit == val && !flagged[name] {
					flagged[name] = true
					warnings = append(warnings, fmt.Sprintf(
						"circuit text contains literal secret values — only signal names should be used (matches secret %q)", name))
				}
			}
		})
	}
	return warnings
}

func walkConstLiterals(e parser.Expr, visit func(string)) {
	switch v := e.(type) {
	case *parser.Const:
		visit(v.Value)
	case *parser.UnaryOp:
		walkConstLiterals(v.Operand, visit)
	case *parser.BinOp:
		walkConstLiterals(v.Left, visit)
		walkConstLiterals(v.Right, visit)
	case *parser.Cmp:
		walkConstLiterals(v.Left, visit)
		walkConstLiterals(v.Right, visit)
	case *parser.BoolOp:
		walkConstLiterals(v.Left, visit)
		walkConstLiterals(v.Right, visit)
	}
}
