package multisig

import (
	"crypto/subtle"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/multisig-hmac/bitfield"
)

// Signature aggregate of independently produced tags.
//
// Bitfield has one bit per contributing signer,
// Digest is the XOR of all their tag digests.
type Signature struct {
	Bitfield uint32
	Digest   []byte
}

// Signers key indexes of contributing signers, ascending
func (sig Signature) Signers() []uint32 {
	return bitfield.EnumerateSetBits(sig.Bitfield)
}

// Combine aggregate tags into one signature.
//
// tags sharing one index cancel each other out of both bitfield and digest,
// so Combine returns ErrSignerCollision rather than an aggregate that
// under-represents its signers.
func (s *Scheme) Combine(tags []Tag) (Signature, error) {
	sig := Signature{
		Digest: make([]byte, s.bytes),
	}
	for i, tag := range tags {
		if len(tag.Digest) != s.bytes {
			return Signature{}, errors.Wrapf(ErrInvalidArgument,
				"tags[%d] digest must be %d bytes, got %d", i, s.bytes, len(tag.Digest))
		}

		sig.Bitfield ^= tag.Bitfield
		subtle.XORBytes(sig.Digest, sig.Digest, tag.Digest)
	}

	if n := bitfield.Popcount(sig.Bitfield); n != len(tags) {
		s.logger.Debug("tags cancelled out",
			zap.Int("tags", len(tags)),
			zap.Int("signers", n))
		return Signature{}, errors.Wrapf(ErrSignerCollision,
			"%d tags combined into %d signers", len(tags), n)
	}

	return sig, nil
}
