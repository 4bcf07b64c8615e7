// Package circuit builds a Circuit (the compiled, provable form of a
// program) from parsed statements and signal values, and implements the
// Zircon text wire format used to exchange programs compactly.
package circuit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vocdoni/zkplex/encoding"
	"github.com/vocdoni/zkplex/types"
)

// Signal is one declared secret or public input. A nil Value marks the
// output signal (its value is computed, not supplied); the literal value
// "?" marks an unbound placeholder that must be overridden before use.
type Signal struct {
	Value    *string            `json:"value,omitempty"`
	Encoding *encoding.Encoding `json:"encoding,omitempty"`
}

// NewSignal creates a signal with an auto-detected encoding.
func NewSignal(value string) Signal {
	return Signal{Value: &value}
}

// NewSignalWithEncoding creates a signal with an explicit encoding.
func NewSignalWithEncoding(value string, enc encoding.Encoding) Signal {
	return Signal{Value: &value, Encoding: &enc}
}

// OutputSignal creates an unbound output signal.
func OutputSignal() Signal {
	return Signal{}
}

// IsPlaceholder reports whether the signal is the "?" placeholder.
func (s Signal) IsPlaceholder() bool {
	return s.Value != nil && *s.Value == "?"
}

// IsOutput reports whether the signal marks an output: absent, "?", or
// empty value all mean the same thing (no value supplied by the
// caller, so the circuit computes one).
func (s Signal) IsOutput() bool {
	return s.Value == nil || *s.Value == "?" || *s.Value == ""
}

// validateValue checks a bound signal's value parses under its declared
// or auto-detected encoding. Callers must skip nil/placeholder/output
// signals themselves before calling this.
func (s Signal) validateValue(name string) error {
	var err error
	if s.Encoding != nil {
		_, err = encoding.Parse(*s.Value, *s.Encoding)
	} else {
		_, _, err = encoding.ParseAuto(*s.Value)
	}
	if err != nil {
		return types.WrapError(types.ErrKindValidation, fmt.Sprintf("signal %q has invalid value %q", name, *s.Value), err)
	}
	return nil
}

// signalEntry preserves declaration order, which Go's map type cannot.
type signalEntry struct {
	Name   string
	Signal Signal
}

// Program is the parsed, in-memory form of a Zircon or JSON program: named
// secret and public signals, an ordered preprocessing statement list, and
// an ordered circuit statement list whose final entry is the output.
type Program struct {
	Version    int
	secret     []signalEntry
	public     []signalEntry
	Preprocess []string
	Circuit    []string
}

// NewProgram creates an empty program at the given version.
func NewProgram(version int) *Program {
	return &Program{Version: version}
}

// SetSecret declares or overwrites a secret signal, preserving the
// position of the first declaration.
func (p *Program) SetSecret(name string, s Signal) {
	p.secret = setEntry(p.secret, name, s)
}

// SetPublic declares or overwrites a public signal.
func (p *Program) SetPublic(name string, s Signal) {
	p.public = setEntry(p.public, name, s)
}

func setEntry(entries []signalEntry, name string, s Signal) []signalEntry {
	for i := range entries {
		if entries[i].Name == name {
			entries[i].Signal = s
			return entries
		}
	}
	return append(entries, signalEntry{Name: name, Signal: s})
}

// SecretNames returns declared secret signal names in declaration order.
func (p *Program) SecretNames() []string { return entryNames(p.secret) }

// PublicNames returns declared public signal names in declaration order.
func (p *Program) PublicNames() []string { return entryNames(p.public) }

func entryNames(entries []signalEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Secret looks up a secret signal by name.
func (p *Program) Secret(name string) (Signal, bool) {
	return lookup(p.secret, name)
}

// Public looks up a public signal by name.
func (p *Program) Public(name string) (Signal, bool) {
	return lookup(p.public, name)
}

func lookup(entries []signalEntry, name string) (Signal, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e.Signal, true
		}
	}
	return Signal{}, false
}

// IsPublic reports whether name was declared as a public signal.
func (p *Program) IsPublic(name string) bool {
	_, ok := p.Public(name)
	return ok
}

// InputSignals returns every declared secret and public signal name,
// sorted, matching the original implementation's `input_signals`.
func (p *Program) InputSignals() []string {
	names := append(entryNames(p.secret), entryNames(p.public)...)
	sort.Strings(names)
	return names
}

// OutputSignalName returns the name of the output signal: the public
// signal declared with no value, "?", or "" — whose value is computed
// by the circuit rather than supplied by the caller.
func (p *Program) OutputSignalName() (string, bool) {
	for _, e := range p.public {
		if e.Signal.IsOutput() {
			return e.Name, true
		}
	}
	return "", false
}

// OutputExpression returns the last circuit statement, if any.
func (p *Program) OutputExpression() (string, bool) {
	if len(p.Circuit) == 0 {
		return "", false
	}
	return p.Circuit[len(p.Circuit)-1], true
}

// ParseZircon parses the 5-part Zircon text format:
// version/secret/public/preprocess/circuit.
func ParseZircon(input string) (*Program, error) {
	parts := strings.Split(input, "/")
	if len(parts) != 5 {
		return nil, types.NewError(types.ErrKindParse,
			fmt.Sprintf("invalid zircon format: expected 5 parts (version/secret/public/preprocess/circuit), got %d", len(parts)))
	}

	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, types.WrapError(types.ErrKindParse, fmt.Sprintf("invalid version %q", parts[0]), err)
	}

	secret, err := parseSignalList(parts[1])
	if err != nil {
		return nil, err
	}
	public, err := parseSignalList(parts[2])
	if err != nil {
		return nil, err
	}
	preprocess := parseStatementList(parts[3])
	circuit := parseStatementList(parts[4])

	if len(circuit) == 0 {
		return nil, types.NewError(types.ErrKindValidation, "circuit cannot be empty")
	}

	return &Program{
		Version:    version,
		secret:     secret,
		public:     public,
		Preprocess: preprocess,
		Circuit:    circuit,
	}, nil
}

func parseStatementList(part string) []string {
	if part == "-" || part == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(part, ";") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseSignalList(part string) ([]signalEntry, error) {
	if part == "-" || part == "" {
		return nil, nil
	}
	var entries []signalEntry
	for _, item := range strings.Split(part, ",") {
		components := strings.Split(strings.TrimSpace(item), ":")
		var name, value, encStr string
		switch len(components) {
		case 2:
			name, value = strings.TrimSpace(components[0]), strings.TrimSpace(components[1])
		case 3:
			name = strings.TrimSpace(components[0])
			value = strings.TrimSpace(components[1])
			encStr = strings.TrimSpace(components[2])
		default:
			return nil, types.NewError(types.ErrKindParse,
				fmt.Sprintf("invalid signal format %q: expected 'name:value' or 'name:value:encoding'", item))
		}
		if name == "" {
			return nil, types.NewError(types.ErrKindParse, "signal name cannot be empty")
		}

		signal := NewSignal(value)
		if encStr != "" {
			enc, err := encoding.ParseEncoding(encStr)
			if err != nil {
				return nil, err
			}
			signal.Encoding = &enc
		}
		entries = setEntry(entries, name, signal)
	}
	return entries, nil
}

// ToZircon renders the program back to its 5-part text form.
func (p *Program) ToZircon() string {
	secretStr := "-"
	if len(p.secret) > 0 {
		secretStr = signalsToString(p.secret)
	}
	publicStr := "-"
	if len(p.public) > 0 {
		publicStr = signalsToString(p.public)
	}
	return fmt.Sprintf("%d/%s/%s/%s/%s", p.Version, secretStr, publicStr,
		strings.Join(p.Preprocess, ";"), strings.Join(p.Circuit, ";"))
}

func signalsToString(entries []signalEntry) string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		value := ""
		if e.Signal.Value != nil {
			value = *e.Signal.Value
		}
		if e.Signal.Encoding != nil {
			items = append(items, fmt.Sprintf("%s:%s:%s", e.Name, value, e.Signal.Encoding.String()))
		} else {
			items = append(items, fmt.Sprintf("%s:%s", e.Name, value))
		}
	}
	sort.Strings(items)
	return strings.Join(items, ",")
}

// programJSON mirrors Program's externally-visible JSON shape (ordered
// signal maps are rendered as plain JSON objects; Go's encoding/json
// preserves insertion order only for structs, not maps, so round trips
// through JSON are order-insensitive by design — order only matters for
// the Zircon wire form and for declaration-order signal listings).
type programJSON struct {
	Version    int               `json:"version"`
	Secret     map[string]Signal `json:"secret,omitempty"`
	Public     map[string]Signal `json:"public,omitempty"`
	Preprocess []string          `json:"preprocess,omitempty"`
	Circuit    []string          `json:"circuit"`
}

// MarshalJSON renders the program in the teacher's JSON program shape.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(programJSON{
		Version:    p.Version,
		Secret:     entriesToMap(p.secret),
		Public:     entriesToMap(p.public),
		Preprocess: p.Preprocess,
		Circuit:    p.Circuit,
	})
}

func entriesToMap(entries []signalEntry) map[string]Signal {
	if len(entries) == 0 {
		return nil
	}
	m := make(map[string]Signal, len(entries))
	for _, e := range entries {
		m[e.Name] = e.Signal
	}
	return m
}

// UnmarshalJSON parses the teacher's JSON program shape. Since JSON object
// key order is not preserved by Go's decoder, signal declaration order is
// reconstructed by sorting names (this only affects declaration-order
// listings, not semantics).
func (p *Program) UnmarshalJSON(data []byte) error {
	var raw programJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.WrapError(types.ErrKindParse, "invalid program JSON", err)
	}
	p.Version = raw.Version
	p.Preprocess = raw.Preprocess
	p.Circuit = raw.Circuit
	p.secret = mapToSortedEntries(raw.Secret)
	p.public = mapToSortedEntries(raw.Public)
	return nil
}

func mapToSortedEntries(m map[string]Signal) []signalEntry {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]signalEntry, len(names))
	for i, name := range names {
		entries[i] = signalEntry{Name: name, Signal: m[name]}
	}
	return entries
}

// Validate checks structural invariants: supported version, non-empty
// circuit, and that every bound (non-placeholder) signal value parses
// under its declared or auto-detected encoding.
func (p *Program) Validate() error {
	if p.Version < 1 {
		return types.NewError(types.ErrKindValidation, "version must be >= 1")
	}
	if len(p.Circuit) == 0 {
		return types.NewError(types.ErrKindValidation, "circuit cannot be empty")
	}
	outputCount := 0
	for _, e := range p.public {
		if e.Signal.IsOutput() {
			outputCount++
		}
	}
	if outputCount > 1 {
		return types.NewError(types.ErrKindValidation, "at most one public signal may be an output signal")
	}
	for _, e := range p.secret {
		if e.Signal.Value == nil || e.Signal.IsPlaceholder() {
			continue
		}
		if *e.Signal.Value == "" {
			return types.NewError(types.ErrKindValidation, fmt.Sprintf("signal %q has empty value", e.Name))
		}
		if err := e.Signal.validateValue(e.Name); err != nil {
			return err
		}
	}
	for _, e := range p.public {
		if e.Signal.IsOutput() {
			continue
		}
		if err := e.Signal.validateValue(e.Name); err != nil {
			return err
		}
	}
	return nil
}
