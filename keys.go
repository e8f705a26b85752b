package multisig

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Laisky/errors/v2"
)

// derivePrefix label of indexed key derivation
var derivePrefix = []byte("derived")

// Key signing key of one signer.
//
// Index is also the bit position of this signer in every bitfield,
// only indexes in [0, 31] can take part in aggregation.
type Key struct {
	Index  uint32
	Secret []byte
}

// String do not print secret
func (k Key) String() string {
	return fmt.Sprintf("Key{Index: %d, Secret: <%d bytes>}", k.Index, len(k.Secret))
}

// MasterSeed root secret that expands to per-index keys by DeriveKey
type MasterSeed []byte

// String do not print secret
func (m MasterSeed) String() string {
	return fmt.Sprintf("MasterSeed(<%d bytes>)", len(m))
}

func (s *Scheme) randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.random, b); err != nil {
		return nil, errors.Wrap(err, "read random")
	}

	return b, nil
}

// GenerateKey generate random key of KeyBytes length.
//
// index is not checked here, caller should keep it in [0, 31]
// or Sign will reject the key.
func (s *Scheme) GenerateKey(index uint32) (Key, error) {
	secret, err := s.randomBytes(s.keyBytes)
	if err != nil {
		return Key{}, errors.Wrap(err, "generate key")
	}

	return Key{Index: index, Secret: secret}, nil
}

// GenerateMasterSeed generate random master seed of KeyBytes length
func (s *Scheme) GenerateMasterSeed() (MasterSeed, error) {
	seed, err := s.randomBytes(s.keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "generate master seed")
	}

	return seed, nil
}

func (s *Scheme) checkSeed(seed MasterSeed) error {
	if len(seed) != s.keyBytes {
		return errors.Wrapf(ErrInvalidArgument,
			"master seed must be %d bytes, got %d", s.keyBytes, len(seed))
	}

	return nil
}

// DeriveKey derive the key of index from master seed.
//
//	H1 = HMAC(seed, "derived" || LE32(index) || 0x00)
//	H2 = HMAC(seed, H1 || 0x01)
//	secret = (H1 || H2)[:KeyBytes]
//
// same seed and index always give the same key.
// if 2 * Bytes < KeyBytes (sha384) the secret is H1 || H2,
// shorter than KeyBytes.
func (s *Scheme) DeriveKey(seed MasterSeed, index uint32) (Key, error) {
	if err := s.checkSeed(seed); err != nil {
		return Key{}, err
	}

	return s.deriveKey(seed, index), nil
}

func (s *Scheme) deriveKey(seed MasterSeed, index uint32) Key {
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)

	h1 := s.mac(seed, derivePrefix, idx[:], []byte{0x00})
	h2 := s.mac(seed, h1, []byte{0x01})

	secret := append(h1, h2...)
	if len(secret) > s.keyBytes {
		secret = secret[:s.keyBytes]
	}

	return Key{Index: index, Secret: secret}
}
