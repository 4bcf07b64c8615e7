package preprocess_test

import (
	"encoding/hex"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/zkplex/preprocess"
)

func TestExecuteStatementSHA256(t *testing.T) {
	c := qt.New(t)
	stmt, err := preprocess.ParseStatement("digest<==sha256(secret)")
	c.Assert(err, qt.IsNil)
	c.Assert(stmt.Name, qt.Equals, "digest")
	c.Assert(stmt.Op, qt.Equals, "sha256")
	c.Assert(stmt.Args, qt.Equals, "secret")

	inputs := map[string][]byte{"secret": []byte("hello")}
	out, err := preprocess.Execute([]preprocess.Statement{stmt}, inputs, false)
	c.Assert(err, qt.IsNil)

	want, err := preprocess.Hash(preprocess.SHA256, []byte("hello"))
	c.Assert(err, qt.IsNil)
	c.Assert(out["digest"], qt.DeepEquals, want)
}

func TestExecuteStatementFormattedArg(t *testing.T) {
	c := qt.New(t)
	stmt, err := preprocess.ParseStatement("digest<==sha256(secret{%x})")
	c.Assert(err, qt.IsNil)

	inputs := map[string][]byte{"secret": []byte{0xde, 0xad, 0xbe, 0xef}}
	out, err := preprocess.Execute([]preprocess.Statement{stmt}, inputs, false)
	c.Assert(err, qt.IsNil)

	want, err := preprocess.Hash(preprocess.SHA256, []byte("deadbeef"))
	c.Assert(err, qt.IsNil)
	c.Assert(out["digest"], qt.DeepEquals, want)
}

func TestExecuteConcat(t *testing.T) {
	c := qt.New(t)
	stmt, err := preprocess.ParseStatement("combined<==concat(a, b)")
	c.Assert(err, qt.IsNil)

	inputs := map[string][]byte{"a": []byte("foo"), "b": []byte("bar")}
	out, err := preprocess.Execute([]preprocess.Statement{stmt}, inputs, false)
	c.Assert(err, qt.IsNil)
	c.Assert(string(out["combined"]), qt.Equals, "foobar")
}

func TestExecutePipeConcatWithFormatSpecifiers(t *testing.T) {
	c := qt.New(t)
	stmt, err := preprocess.ParseStatement("combined<==concat(a{%x}|b{%x})")
	c.Assert(err, qt.IsNil)

	inputs := map[string][]byte{"a": []byte{0xaa}, "b": []byte{0xbb}}
	out, err := preprocess.Execute([]preprocess.Statement{stmt}, inputs, false)
	c.Assert(err, qt.IsNil)
	c.Assert(string(out["combined"]), qt.Equals, "aabb")
}

func TestIntermediateSignalShadowsInput(t *testing.T) {
	c := qt.New(t)
	stmts := []preprocess.Statement{
		mustParse(c, "secret<==hex_encode(secret)"),
		mustParse(c, "digest<==sha256(secret)"),
	}
	inputs := map[string][]byte{"secret": []byte{0xca, 0xfe}}
	out, err := preprocess.Execute(stmts, inputs, false)
	c.Assert(err, qt.IsNil)

	want, err := preprocess.Hash(preprocess.SHA256, []byte(hex.EncodeToString([]byte{0xca, 0xfe})))
	c.Assert(err, qt.IsNil)
	c.Assert(out["digest"], qt.DeepEquals, want)
}

func TestExecuteUnknownFunctionFails(t *testing.T) {
	c := qt.New(t)
	stmt, err := preprocess.ParseStatement("out<==frobnicate(a)")
	c.Assert(err, qt.IsNil)
	_, err = preprocess.Execute([]preprocess.Statement{stmt}, map[string][]byte{"a": []byte("x")}, false)
	c.Assert(err, qt.ErrorMatches, ".*unknown function.*")
}

func TestExecuteMissingSignalSkippedOnVerifier(t *testing.T) {
	c := qt.New(t)
	stmt, err := preprocess.ParseStatement("digest<==sha256(missing)")
	c.Assert(err, qt.IsNil)
	out, err := preprocess.Execute([]preprocess.Statement{stmt}, map[string][]byte{}, true)
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.HasLen, 0)
}

func mustParse(c *qt.C, raw string) preprocess.Statement {
	c.Helper()
	stmt, err := preprocess.ParseStatement(raw)
	c.Assert(err, qt.IsNil)
	return stmt
}
