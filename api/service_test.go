package api_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vocdoni/zkplex/api"
	"github.com/vocdoni/zkplex/circuit"
	"github.com/vocdoni/zkplex/types"
)

func strp(s string) *string { return &s }

// requestFromProgram mirrors the CLI's programToRequest conversion, so
// that a Zircon-sourced Program (where an unset output is "?" or ""
// rather than a Go nil) exercises the same path the CLI drives.
func requestFromProgram(p *circuit.Program, strategy types.Strategy) api.ProveRequest {
	signals := make(map[string]api.SignalInput)
	for _, name := range p.SecretNames() {
		sig, _ := p.Secret(name)
		signals[name] = api.SignalInput{Value: sig.Value, Encoding: sig.Encoding}
	}
	for _, name := range p.PublicNames() {
		sig, _ := p.Public(name)
		signals[name] = api.SignalInput{Value: sig.Value, Encoding: sig.Encoding, Public: true}
	}
	return api.ProveRequest{
		Preprocess: p.Preprocess,
		Circuit:    p.Circuit,
		Signals:    signals,
		Strategy:   strategy,
	}
}

func arithmeticRequest() api.ProveRequest {
	return api.ProveRequest{
		Circuit: []string{"A+B"},
		Signals: map[string]api.SignalInput{
			"A":   {Value: strp("10")},
			"B":   {Value: strp("20")},
			"out": {Public: true},
		},
		Strategy: types.StrategyAuto,
	}
}

func TestProveAndVerifyArithmetic(t *testing.T) {
	req := arithmeticRequest()

	resp, err := api.Prove(req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Proof)
	require.NotEmpty(t, resp.VerificationContext)
	require.Equal(t, "30", resp.PublicSignals["out"].Value)
	require.Empty(t, resp.Debug.Warnings)

	publicValues := map[string]string{"out": resp.PublicSignals["out"].Value}
	result, err := api.Verify(api.VerifyRequest{
		Proof:               resp.Proof,
		VerificationContext: resp.VerificationContext,
		PublicSignals:       publicValues,
	})
	require.NoError(t, err)
	require.True(t, result.Valid, result.Error)
}

func TestProveAndVerifyWithPublicInputAndOrdering(t *testing.T) {
	req := api.ProveRequest{
		Circuit: []string{"age>threshold"},
		Signals: map[string]api.SignalInput{
			"age":       {Value: strp("25")},
			"threshold": {Value: strp("18"), Public: true},
			"result":    {Public: true},
		},
		Strategy: types.StrategyBitD,
	}

	resp, err := api.Prove(req)
	require.NoError(t, err)
	require.Equal(t, "1", resp.PublicSignals["result"].Value)

	publicValues := map[string]string{
		"threshold": resp.PublicSignals["threshold"].Value,
		"result":    resp.PublicSignals["result"].Value,
	}
	result, err := api.Verify(api.VerifyRequest{
		Proof:               resp.Proof,
		VerificationContext: resp.VerificationContext,
		PublicSignals:       publicValues,
	})
	require.NoError(t, err)
	require.True(t, result.Valid, result.Error)
}

func TestVerifyRejectsWrongClaimedOutput(t *testing.T) {
	req := arithmeticRequest()
	resp, err := api.Prove(req)
	require.NoError(t, err)

	result, err := api.Verify(api.VerifyRequest{
		Proof:               resp.Proof,
		VerificationContext: resp.VerificationContext,
		PublicSignals:       map[string]string{"out": "31"},
	})
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.NotEmpty(t, result.Error)
}

func TestEstimateReturnsPositiveK(t *testing.T) {
	estimate, err := api.Estimate(arithmeticRequest())
	require.NoError(t, err)
	require.Greater(t, estimate.K, uint32(0))
}

func TestLayoutListsResolvedSignals(t *testing.T) {
	layout, err := api.Layout(arithmeticRequest())
	require.NoError(t, err)
	require.Equal(t, "out", layout.OutputSignal)
	require.Contains(t, layout.SecretSignals, "A")
	require.Contains(t, layout.SecretSignals, "B")
}

func TestProveWarnsOnLiteralSecretValue(t *testing.T) {
	req := api.ProveRequest{
		Circuit: []string{"A+10"},
		Signals: map[string]api.SignalInput{
			"A":   {Value: strp("5")},
			"B":   {Value: strp("10")},
			"out": {Public: true},
		},
		Strategy: types.StrategyAuto,
	}

	resp, err := api.Prove(req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Debug.Warnings)
}

func TestProveAndVerifyZirconPlaceholderOutput(t *testing.T) {
	p, err := circuit.ParseZircon("1/A:10,B:20,C:2/threshold:50,result:?/-/(A+B)*C>threshold")
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	req := requestFromProgram(p, types.StrategyAuto)
	resp, err := api.Prove(req)
	require.NoError(t, err)
	require.Equal(t, "1", resp.PublicSignals["result"].Value)

	publicValues := map[string]string{
		"threshold": resp.PublicSignals["threshold"].Value,
		"result":    resp.PublicSignals["result"].Value,
	}
	result, err := api.Verify(api.VerifyRequest{
		Proof:               resp.Proof,
		VerificationContext: resp.VerificationContext,
		PublicSignals:       publicValues,
	})
	require.NoError(t, err)
	require.True(t, result.Valid, result.Error)

	tampered, err := api.Verify(api.VerifyRequest{
		Proof:               resp.Proof,
		VerificationContext: resp.VerificationContext,
		PublicSignals:       map[string]string{"threshold": "100", "result": resp.PublicSignals["result"].Value},
	})
	require.NoError(t, err)
	require.False(t, tampered.Valid)
}

func TestProveAndVerifyZirconEmptyOutput(t *testing.T) {
	p, err := circuit.ParseZircon("1/age:25/threshold:18,result:/-/age>threshold")
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	req := requestFromProgram(p, types.StrategyBitD)
	resp, err := api.Prove(req)
	require.NoError(t, err)
	require.Equal(t, "1", resp.PublicSignals["result"].Value)
}

func TestProveRejectsMissingOutputSignal(t *testing.T) {
	req := api.ProveRequest{
		Circuit: []string{"A+B"},
		Signals: map[string]api.SignalInput{
			"A": {Value: strp("10")},
			"B": {Value: strp("20")},
		},
		Strategy: types.StrategyAuto,
	}
	_, err := api.Prove(req)
	require.Error(t, err)
}
