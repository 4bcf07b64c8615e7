package preprocess_test

import (
	"encoding/hex"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vocdoni/zkplex/preprocess"
)

func TestHashAlgorithmsProduceExpectedLengths(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		algorithm preprocess.HashAlgorithm
		length    int
	}{
		{preprocess.SHA1, 20},
		{preprocess.SHA256, 32},
		{preprocess.SHA512, 64},
		{preprocess.SHA3_256, 32},
		{preprocess.SHA3_512, 64},
		{preprocess.MD5, 16},
		{preprocess.CRC32, 4},
		{preprocess.BLAKE2b, 32},
		{preprocess.BLAKE3, 32},
		{preprocess.Keccak256, 32},
		{preprocess.RIPEMD160, 20},
	}
	for _, tc := range cases {
		out, err := preprocess.Hash(tc.algorithm, []byte("test input"))
		c.Assert(err, qt.IsNil)
		c.Assert(out, qt.HasLen, tc.length)
	}
}

func TestSHA256KnownAnswer(t *testing.T) {
	c := qt.New(t)
	out, err := preprocess.Hash(preprocess.SHA256, []byte("abc"))
	c.Assert(err, qt.IsNil)
	c.Assert(hex.EncodeToString(out), qt.Equals, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad")
}

func TestKeccakAliasMatchesKeccak256(t *testing.T) {
	c := qt.New(t)
	a, err := preprocess.Hash(preprocess.Keccak256, []byte("data"))
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.HasLen, 32)

	inputs := map[string][]byte{"data": []byte("data")}
	alias, err := preprocess.Execute([]preprocess.Statement{mustParse(c, "h<==keccak(data)")}, inputs, false)
	c.Assert(err, qt.IsNil)
	full, err := preprocess.Execute([]preprocess.Statement{mustParse(c, "h<==keccak256(data)")}, inputs, false)
	c.Assert(err, qt.IsNil)
	c.Assert(alias["h"], qt.DeepEquals, full["h"])
	c.Assert(alias["h"], qt.DeepEquals, a)
}
