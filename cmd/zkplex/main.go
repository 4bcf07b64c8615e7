// Command zkplex drives Prove, Verify, Estimate, and Layout from the
// shell: a program in Zircon or JSON form goes in, a JSON result comes
// out on stdout.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/vocdoni/zkplex/api"
	"github.com/vocdoni/zkplex/circuit"
	"github.com/vocdoni/zkplex/log"
	"github.com/vocdoni/zkplex/types"
)

var (
	logLevel    = flag.String("loglevel", "info", "log level (debug, info, warn, error)")
	strategyOpt = flag.String("strategy", "auto", "synthesis strategy: auto, boolean, lookup, bitd")
	programPath = flag.String("program", "-", "path to a Zircon or JSON program file, - for stdin")
	proofPath   = flag.String("proof", "", "path to a proof file (verify)")
	contextPath = flag.String("context", "", "path to a verification context file (verify)")
	publicOpt   = flag.String("public", "", "comma-separated name=value public signal assignments (verify)")
	outPath     = flag.String("out", "", "write proof bytes to this file and the verification context alongside it as .vctx (prove)")
)

func main() {
	flag.Parse()
	log.Init(*logLevel, "stderr", nil)

	args := flag.Args()
	if len(args) == 0 {
		log.Fatalf("usage: zkplex <prove|verify|estimate|layout> [flags]")
	}

	strategy, err := types.ParseStrategy(*strategyOpt)
	if err != nil {
		log.Fatalf("invalid strategy: %v", err)
	}

	var cmdErr error
	switch args[0] {
	case "prove":
		cmdErr = runProve(strategy)
	case "verify":
		cmdErr = runVerify()
	case "estimate":
		cmdErr = runEstimate(strategy)
	case "layout":
		cmdErr = runLayout(strategy)
	default:
		log.Fatalf("unknown command %q: expected prove, verify, estimate, or layout", args[0])
	}
	if cmdErr != nil {
		log.Fatalf("%v", cmdErr)
	}
}

func readProgram() (*circuit.Program, error) {
	var data []byte
	var err error
	if *programPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*programPath)
	}
	if err != nil {
		return nil, types.WrapError(types.ErrKindParse, "read program", err)
	}

	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "{") {
		p := circuit.NewProgram(0)
		if err := json.Unmarshal(data, p); err != nil {
			return nil, err
		}
		return p, nil
	}
	return circuit.ParseZircon(text)
}

func programToRequest(p *circuit.Program, strategy types.Strategy) api.ProveRequest {
	signals := make(map[string]api.SignalInput, len(p.SecretNames())+len(p.PublicNames()))
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

func runProve(strategy types.Strategy) error {
	p, err := readProgram()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	resp, err := api.Prove(programToRequest(p, strategy))
	if err != nil {
		return err
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, resp.Proof, 0o644); err != nil {
			return types.WrapError(types.ErrKindProof, "write proof file", err)
		}
		if err := os.WriteFile(*outPath+".vctx", resp.VerificationContext, 0o644); err != nil {
			return types.WrapError(types.ErrKindProof, "write verification context file", err)
		}
	}
	for _, w := range resp.Debug.Warnings {
		log.Warnf("%s", w)
	}
	return printJSON(resp)
}

func runVerify() error {
	if *proofPath == "" || *contextPath == "" {
		return types.NewError(types.ErrKindValidation, "verify requires --proof and --context")
	}
	proof, err := os.ReadFile(*proofPath)
	if err != nil {
		return types.WrapError(types.ErrKindVerify, "read proof file", err)
	}
	vctx, err := os.ReadFile(*contextPath)
	if err != nil {
		return types.WrapError(types.ErrKindVerify, "read verification context file", err)
	}
	publicSignals, err := parsePublicAssignments(*publicOpt)
	if err != nil {
		return err
	}

	result, err := api.Verify(api.VerifyRequest{
		Proof:               proof,
		VerificationContext: vctx,
		PublicSignals:       publicSignals,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runEstimate(strategy types.Strategy) error {
	p, err := readProgram()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	estimate, err := api.Estimate(programToRequest(p, strategy))
	if err != nil {
		return err
	}
	return printJSON(estimate)
}

func runLayout(strategy types.Strategy) error {
	p, err := readProgram()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	layout, err := api.Layout(programToRequest(p, strategy))
	if err != nil {
		return err
	}
	return printJSON(layout)
}

func parsePublicAssignments(raw string) (map[string]string, error) {
	out := make(map[string]string)
	if raw == "" {
		return out, nil
	}
	for _, item := range strings.Split(raw, ",") {
		name, value, found := strings.Cut(item, "=")
		if !found || name == "" {
			return nil, types.NewError(types.ErrKindValidation, fmt.Sprintf("invalid public assignment %q: expected name=value", item))
		}
		out[name] = value
	}
	return out, nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return types.WrapError(types.ErrKindProof, "marshal result", err)
	}
	fmt.Println(string(data))
	return nil
}
