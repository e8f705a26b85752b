package multisig

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	"github.com/Laisky/errors/v2"
	"golang.org/x/crypto/blake2b"
)

// HashType name of keyed-hash primitive preset
type HashType string

// String name of hash
func (h HashType) String() string {
	return string(h)
}

const (
	// HashTypeSha256 HMAC-SHA256, 64 bytes key, 32 bytes tag
	HashTypeSha256 HashType = "sha256"
	// HashTypeSha384 HMAC-SHA384, 128 bytes key, 48 bytes tag
	HashTypeSha384 HashType = "sha384"
	// HashTypeSha512 HMAC-SHA512, 128 bytes key, 64 bytes tag
	HashTypeSha512 HashType = "sha512"
	// HashTypeBlake2b512 HMAC-BLAKE2b-512, 128 bytes key, 64 bytes tag
	HashTypeBlake2b512 HashType = "blake2b-512"

	// DefaultHashType used by New when no hash option given
	DefaultHashType = HashTypeSha256
)

// SupportedHashTypes all built-in presets
func SupportedHashTypes() []HashType {
	return []HashType{
		HashTypeSha256,
		HashTypeSha384,
		HashTypeSha512,
		HashTypeBlake2b512,
	}
}

// ParseHashType parse preset name, case insensitive
func ParseHashType(name string) (HashType, error) {
	h := HashType(strings.ToLower(strings.TrimSpace(name)))
	if _, err := h.Hasher(); err != nil {
		return "", err
	}

	return h, nil
}

// Hasher constructor of the underlying hash
func (h HashType) Hasher() (func() hash.Hash, error) {
	switch h {
	case HashTypeSha256:
		return sha256.New, nil
	case HashTypeSha384:
		return sha512.New384, nil
	case HashTypeSha512:
		return sha512.New, nil
	case HashTypeBlake2b512:
		return newBlake2b512, nil
	}

	return nil, errors.Errorf("unknown hash type %q", h.String())
}

func newBlake2b512() hash.Hash {
	// unkeyed blake2b never fails
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}

	return h
}
