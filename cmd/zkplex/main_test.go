package main

import (
	"testing"

	"github.com/vocdoni/zkplex/api"
	"github.com/vocdoni/zkplex/circuit"
	"github.com/vocdoni/zkplex/types"
)

func TestProgramToRequestZirconPlaceholderOutput(t *testing.T) {
	p, err := circuit.ParseZircon("1/A:10,B:20/out:?/-/A+B")
	if err != nil {
		t.Fatalf("parse zircon: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	req := programToRequest(p, types.StrategyAuto)
	resp, err := api.Prove(req)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if resp.PublicSignals["out"].Value != "30" {
		t.Fatalf("expected out=30, got %q", resp.PublicSignals["out"].Value)
	}

	result, err := api.Verify(api.VerifyRequest{
		Proof:               resp.Proof,
		VerificationContext: resp.VerificationContext,
		PublicSignals:       map[string]string{"out": resp.PublicSignals["out"].Value},
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid proof, got error %q", result.Error)
	}
}

func TestProgramToRequestZirconEmptyOutput(t *testing.T) {
	p, err := circuit.ParseZircon("1/age:25/threshold:18,result:/-/age>threshold")
	if err != nil {
		t.Fatalf("parse zircon: %v", err)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	req := programToRequest(p, types.StrategyBitD)
	resp, err := api.Prove(req)
	if err != nil {
		t.Fatalf("prove: %v", err)
	}
	if resp.PublicSignals["result"].Value != "1" {
		t.Fatalf("expected result=1, got %q", resp.PublicSignals["result"].Value)
	}
}
