package preprocess

import (
	"crypto/md5" //nolint:gosec // required, algorithm chosen by the program source, not by us
	"crypto/sha1" //nolint:gosec // same as above
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // intentionally supported, see spec
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"github.com/vocdoni/zkplex/types"
)

// HashAlgorithm names a hash operation usable from a preprocess statement.
type HashAlgorithm int

const (
	SHA1 HashAlgorithm = iota
	SHA256
	SHA512
	SHA3_256
	SHA3_512
	MD5
	CRC32
	BLAKE2b
	BLAKE3
	Keccak256
	RIPEMD160
)

// hashOps maps the op name used in preprocess statements (e.g. "sha256(...)")
// to the algorithm it selects. "keccak" is kept as an alias for "keccak256"
// to match the original implementation's lenient parsing.
var hashOps = map[string]HashAlgorithm{
	"sha1":      SHA1,
	"sha256":    SHA256,
	"sha512":    SHA512,
	"sha3_256":  SHA3_256,
	"sha3_512":  SHA3_512,
	"md5":       MD5,
	"crc32":     CRC32,
	"blake2b":   BLAKE2b,
	"blake3":    BLAKE3,
	"keccak256": Keccak256,
	"keccak":    Keccak256,
	"ripemd160": RIPEMD160,
}

// Hash computes data's digest under algorithm.
func Hash(algorithm HashAlgorithm, data []byte) ([]byte, error) {
	switch algorithm {
	case SHA1:
		sum := sha1.Sum(data) //nolint:gosec
		return sum[:], nil
	case SHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case SHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	case SHA3_256:
		sum := sha3.Sum256(data)
		return sum[:], nil
	case SHA3_512:
		sum := sha3.Sum512(data)
		return sum[:], nil
	case MD5:
		sum := md5.Sum(data) //nolint:gosec
		return sum[:], nil
	case CRC32:
		checksum := crc32.ChecksumIEEE(data)
		out := make([]byte, 4)
		binary.BigEndian.PutUint32(out, checksum)
		return out, nil
	case BLAKE2b:
		sum := blake2b.Sum256(data)
		return sum[:], nil
	case BLAKE3:
		sum := blake3.Sum256(data)
		return sum[:], nil
	case Keccak256:
		h := sha3.NewLegacyKeccak256()
		h.Write(data)
		return h.Sum(nil), nil
	case RIPEMD160:
		h := ripemd160.New() //nolint:staticcheck
		h.Write(data)
		return h.Sum(nil), nil
	default:
		return nil, types.NewError(types.ErrKindPreprocess, fmt.Sprintf("unknown hash algorithm %d", algorithm))
	}
}
