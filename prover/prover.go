// Package prover adapts a compiled circuit into a concrete gnark groth16
// circuit: it wires circuit.Circuit's statement list through synth.Synthesizer
// inside a Define method, then exposes Setup/Prove/Verify over the BN254
// curve the way the teacher's own prover package wraps groth16.Setup/
// frontend.NewWitness/groth16.Prove/groth16.Verify.
package prover

import (
	"sort"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/vocdoni/zkplex/circuit"
	"github.com/vocdoni/zkplex/synth"
	"github.com/vocdoni/zkplex/types"
)

// Curve is the curve every zkplex proof is generated over. Unlike the
// teacher's multi-curve recursive aggregation pipeline (BN254 vote
// verification folded into BLS12-377 aggregation folded into BW6-761
// state transition), a compiled expression circuit stands alone, so one
// curve is enough.
const Curve = ecc.BN254

// ZKCircuit is the gnark frontend.Circuit adapter over a compiled Circuit.
// Secret holds every witness-only signal (declared secret inputs, plus any
// preprocessing-derived signal: preprocessing runs before circuit synthesis
// and its result is trusted as an opaque witness value rather than
// re-derived by a hash gadget inside the circuit). Public holds declared
// public signals in sorted name order, and Output is the final circuit
// statement's value, each one assigned its own instance position exactly
// as spec's public instance binding describes, with gnark's ",public" tag
// standing in for halo2's instance column.
type ZKCircuit struct {
	Secret []frontend.Variable
	Public []frontend.Variable `gnark:",public"`
	Output frontend.Variable   `gnark:",public"`

	secretNames []string
	publicNames []string
	statements  []circuit.Statement
	strategy    types.Strategy
	maxBits     int
	hasMaxBits  bool
}

// NewZKCircuit builds the witness-carrying adapter for a built circuit,
// ready to pass to Prove. Use Placeholder() to get the structurally
// matching, value-free circuit frontend.Compile expects.
func NewZKCircuit(c *circuit.Circuit, strategy types.Strategy) *ZKCircuit {
	secretNames, publicNames := splitSignalNames(c)
	bits, hasBits := c.MaxRangeCheckBits()

	zc := &ZKCircuit{
		secretNames: secretNames,
		publicNames: publicNames,
		statements:  c.Statements,
		strategy:    strategy,
		maxBits:     bits,
		hasMaxBits:  hasBits,
		Secret:      make([]frontend.Variable, len(secretNames)),
		Public:      make([]frontend.Variable, len(publicNames)),
	}
	for i, name := range secretNames {
		zc.Secret[i] = c.Signals[name].String()
	}
	for i, name := range publicNames {
		zc.Public[i] = c.Signals[name].String()
	}
	if c.Output != nil {
		zc.Output = c.Output.String()
	}
	return zc
}

// splitSignalNames partitions a circuit's witness into secret and public
// input names, excluding any name a statement assigns (those are
// recomputed by synth.Synthesizer itself, not supplied as separate
// witness variables).
func splitSignalNames(c *circuit.Circuit) (secret, public []string) {
	assigned := make(map[string]bool, len(c.Statements))
	for _, st := range c.Statements {
		if st.IsAssignment() {
			assigned[st.Name] = true
		}
	}
	isPublic := make(map[string]bool, len(c.PublicSignalNames))
	for _, name := range c.PublicSignalNames {
		isPublic[name] = true
	}
	for name := range c.Signals {
		if assigned[name] {
			continue
		}
		if isPublic[name] {
			public = append(public, name)
		} else {
			secret = append(secret, name)
		}
	}
	sort.Strings(secret)
	sort.Strings(public)
	return secret, public
}

// NewVerifierCircuit builds a ZKCircuit directly from a verification
// context's shape fields. A verifier never has secret witness values to
// derive secretNames/publicNames from the way NewZKCircuit reads them
// off a bound Circuit's Signals map, so it takes them explicitly, and
// zero-fills Secret since PublicOnly witness construction never reads it.
func NewVerifierCircuit(statements []circuit.Statement, secretNames, publicNames []string, strategy types.Strategy, maxBits int, hasMaxBits bool) *ZKCircuit {
	zc := &ZKCircuit{
		secretNames: secretNames,
		publicNames: publicNames,
		statements:  statements,
		strategy:    strategy,
		maxBits:     maxBits,
		hasMaxBits:  hasMaxBits,
		Secret:      make([]frontend.Variable, len(secretNames)),
		Public:      make([]frontend.Variable, len(publicNames)),
	}
	for i := range zc.Secret {
		zc.Secret[i] = 0
	}
	return zc
}

// SecretNames returns the circuit's secret signal names in the order
// their values are laid out in Secret.
func (c *ZKCircuit) SecretNames() []string { return c.secretNames }

// PublicNames returns the circuit's named public input signals in the
// order their values are laid out in Public. This excludes the output
// signal, which Define constrains separately against Output.
func (c *ZKCircuit) PublicNames() []string { return c.publicNames }

// Placeholder returns a structurally identical circuit with every
// variable left unset, the shape frontend.Compile needs.
func (c *ZKCircuit) Placeholder() *ZKCircuit {
	return &ZKCircuit{
		secretNames: c.secretNames,
		publicNames: c.publicNames,
		statements:  c.statements,
		strategy:    c.strategy,
		maxBits:     c.maxBits,
		hasMaxBits:  c.hasMaxBits,
		Secret:      make([]frontend.Variable, len(c.secretNames)),
		Public:      make([]frontend.Variable, len(c.publicNames)),
	}
}

// Define walks the circuit's statement list through a fresh Synthesizer,
// binding every input signal first, then constrains the final statement's
// result against the declared output instance.
func (c *ZKCircuit) Define(api frontend.API) error {
	s := synth.New(api, c.strategy, c.maxBits, c.hasMaxBits)
	for i, name := range c.secretNames {
		s.SetSignal(name, c.Secret[i])
	}
	for i, name := range c.publicNames {
		s.SetSignal(name, c.Public[i])
	}
	result, err := s.Synthesize(c.statements)
	if err != nil {
		return err
	}
	api.AssertIsEqual(result, c.Output)
	return nil
}

// Compile builds the R1CS constraint system for a circuit's shape. The
// passed ZKCircuit need not carry witness values: callers typically pass
// zc.Placeholder() here and keep the populated zc for Prove.
func Compile(zc *ZKCircuit) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(Curve.ScalarField(), r1cs.NewBuilder, zc)
	if err != nil {
		return nil, types.WrapError(types.ErrKindSynthesis, "compile circuit", err)
	}
	return ccs, nil
}

// Setup runs groth16's per-circuit trusted setup over a compiled
// constraint system.
func Setup(ccs constraint.ConstraintSystem) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, types.WrapError(types.ErrKindProof, "groth16 setup", err)
	}
	return pk, vk, nil
}

// Prove generates a witness from zc and runs groth16.Prove. It returns
// the proof together with the public witness Verify needs, so a caller
// never has to re-derive it from the full witness.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, zc *ZKCircuit) (groth16.Proof, witness.Witness, error) {
	fullWitness, err := frontend.NewWitness(zc, Curve.ScalarField())
	if err != nil {
		return nil, nil, types.WrapError(types.ErrKindProof, "create witness", err)
	}
	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return nil, nil, types.WrapError(types.ErrKindProof, "groth16 prove", err)
	}
	publicWitness, err := fullWitness.Public()
	if err != nil {
		return nil, nil, types.WrapError(types.ErrKindProof, "extract public witness", err)
	}
	return proof, publicWitness, nil
}

// Verify checks a proof against its verifying key and public witness.
func Verify(vk groth16.VerifyingKey, proof groth16.Proof, publicWitness witness.Witness) error {
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return types.WrapError(types.ErrKindVerify, "groth16 verify", err)
	}
	return nil
}
