// Package preprocess executes the preprocessing statement list of a Program:
// a sequence of "name <== op(args)" assignments where op is a hash or an
// encoding, with printf-style format specifiers applied to each argument
// before it is consumed.
package preprocess

import (
	"fmt"
	"strings"

	"github.com/vocdoni/zkplex/log"
	"github.com/vocdoni/zkplex/types"
)

// Statement is one parsed "name<==op(args)" preprocess line.
type Statement struct {
	Name string
	Op   string
	Args string
}

// ParseStatement splits a raw "name<==op(args)" line into its parts.
func ParseStatement(raw string) (Statement, error) {
	parts := strings.SplitN(raw, "<==", 2)
	if len(parts) != 2 {
		return Statement{}, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("invalid preprocess statement %q", raw))
	}
	name := strings.TrimSpace(parts[0])
	operation := strings.TrimSpace(parts[1])

	open := strings.IndexByte(operation, '(')
	if open < 0 || !strings.HasSuffix(operation, ")") {
		return Statement{}, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("invalid operation format %q", operation))
	}
	return Statement{
		Name: name,
		Op:   strings.TrimSpace(operation[:open]),
		Args: operation[open+1 : len(operation)-1],
	}, nil
}

// Execute runs statements in order against inputSignals (the bound
// program's field-converted signal bytes), returning the intermediate
// signal map produced. Per statement i+1 may read outputs of statement i;
// intermediate signals shadow input signals of the same name.
//
// When skipOnMissing is true (verifier/shape-only reconstruction, per
// spec §4.2's "preprocessing is best-effort on the verifier side"), a
// statement referencing an unavailable signal is silently dropped instead
// of failing the whole pass.
func Execute(statements []Statement, inputSignals map[string][]byte, skipOnMissing bool) (map[string][]byte, error) {
	outputs := make(map[string][]byte, len(statements))
	for _, stmt := range statements {
		value, err := executeStatement(stmt, inputSignals, outputs)
		if err != nil {
			if skipOnMissing {
				log.Debugw("skipping preprocess statement on verifier side", "name", stmt.Name, "error", err.Error())
				continue
			}
			return nil, err
		}
		outputs[stmt.Name] = value
	}
	return outputs, nil
}

func executeStatement(stmt Statement, inputSignals, intermediate map[string][]byte) ([]byte, error) {
	if algorithm, ok := hashOps[stmt.Op]; ok {
		data, err := parseAndFormatArgs(stmt.Args, inputSignals, intermediate)
		if err != nil {
			return nil, err
		}
		return Hash(algorithm, data)
	}

	switch stmt.Op {
	case "hex_encode":
		data, err := parseAndFormatArgs(stmt.Args, inputSignals, intermediate)
		if err != nil {
			return nil, err
		}
		return []byte(fmt.Sprintf("%x", data)), nil
	case "base64", "base64_encode":
		data, err := parseAndFormatArgs(stmt.Args, inputSignals, intermediate)
		if err != nil {
			return nil, err
		}
		b, err := FormatValue(data, "%b64")
		return b, err
	case "base58", "base58_encode":
		data, err := parseAndFormatArgs(stmt.Args, inputSignals, intermediate)
		if err != nil {
			return nil, err
		}
		b, err := FormatValue(data, "%b58")
		return b, err
	case "concat":
		return executeConcat(stmt.Args, inputSignals, intermediate)
	default:
		return nil, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("unknown function %q", stmt.Op))
	}
}

// executeConcat handles concat(...)'s comma-separated argument list.
func executeConcat(args string, inputSignals, intermediate map[string][]byte) ([]byte, error) {
	var out []byte
	for _, part := range strings.Split(args, ",") {
		formatted, err := parseAndFormatArgs(strings.TrimSpace(part), inputSignals, intermediate)
		if err != nil {
			return nil, err
		}
		out = append(out, formatted...)
	}
	return out, nil
}

// parseAndFormatArgs handles a single-variable arg, a pipe-separated inline
// concatenation ("A{%x}|B{%d}"), or a nested concat(...) call.
func parseAndFormatArgs(args string, inputSignals, intermediate map[string][]byte) ([]byte, error) {
	var parts []string
	if strings.Contains(args, "concat(") {
		parts = []string{args}
	} else {
		parts = strings.Split(args, "|")
	}

	var out []byte
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "concat(") && strings.HasSuffix(part, ")") {
			inner := part[len("concat(") : len(part)-1]
			nested, err := executeConcat(inner, inputSignals, intermediate)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
			continue
		}
		formatted, err := formatVariable(part, inputSignals, intermediate)
		if err != nil {
			return nil, err
		}
		out = append(out, formatted...)
	}
	return out, nil
}

// formatVariable handles "name" or "name{%spec}".
func formatVariable(input string, inputSignals, intermediate map[string][]byte) ([]byte, error) {
	start := strings.IndexByte(input, '{')
	if start < 0 {
		return signalValue(strings.TrimSpace(input), inputSignals, intermediate)
	}
	if !strings.HasSuffix(input, "}") {
		return nil, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("invalid format specifier %q", input))
	}
	name := strings.TrimSpace(input[:start])
	spec := input[start+1 : len(input)-1]

	value, err := signalValue(name, inputSignals, intermediate)
	if err != nil {
		return nil, err
	}
	return FormatValue(value, spec)
}

func signalValue(name string, inputSignals, intermediate map[string][]byte) ([]byte, error) {
	if v, ok := intermediate[name]; ok {
		return v, nil
	}
	if v, ok := inputSignals[name]; ok {
		return v, nil
	}
	return nil, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("signal %q not found", name))
}
