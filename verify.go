package multisig

import (
	"crypto/subtle"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/multisig-hmac/bitfield"
)

// Verify check sig over message against a positional key list.
//
// keys[i] must be the key of index i. keys must cover every signer
// claimed by sig.Bitfield, otherwise ErrInvalidArgument.
//
// returns false, nil when fewer than threshold signers took part,
// or the aggregate does not cancel out exactly (wrong message, wrong key
// at a position, tampered bitfield or digest).
// returns ErrInvalidArgument only for malformed inputs.
func (s *Scheme) Verify(keys []Key, sig Signature, message []byte, threshold int) (bool, error) {
	if err := s.checkSignature(sig, threshold); err != nil {
		return false, err
	}

	nSigners := bitfield.Popcount(sig.Bitfield)
	highest := bitfield.HighestSetBitPosition(sig.Bitfield)
	if len(keys) < nSigners || len(keys) < highest {
		return false, errors.Wrapf(ErrInvalidArgument,
			"signature needs at least %d keys, got %d", highest, len(keys))
	}

	return s.verify(sig, message, threshold, func(i uint32) Key {
		return keys[i]
	})
}

// VerifyDerived check sig over message against keys derived from seed.
//
// same contract as Verify, except the key of every claimed signer i is
// DeriveKey(seed, i). a seed of wrong length is ErrInvalidArgument,
// a wrong seed of correct length just fails verification.
func (s *Scheme) VerifyDerived(seed MasterSeed, sig Signature, message []byte, threshold int) (bool, error) {
	if err := s.checkSeed(seed); err != nil {
		return false, err
	}
	if err := s.checkSignature(sig, threshold); err != nil {
		return false, err
	}

	return s.verify(sig, message, threshold, func(i uint32) Key {
		return s.deriveKey(seed, i)
	})
}

func (s *Scheme) checkSignature(sig Signature, threshold int) error {
	if len(sig.Digest) != s.bytes {
		return errors.Wrapf(ErrInvalidArgument,
			"signature digest must be %d bytes, got %d", s.bytes, len(sig.Digest))
	}
	if threshold <= 0 {
		return errors.Wrapf(ErrInvalidArgument,
			"threshold must be at least 1, got %d", threshold)
	}

	return nil
}

// verify cancel every claimed signer's tag out of sig
func (s *Scheme) verify(sig Signature,
	message []byte,
	threshold int,
	keyOf func(index uint32) Key,
) (bool, error) {
	logger := s.logger.With(
		zap.Uint32("bitfield", sig.Bitfield),
		zap.Int("threshold", threshold),
		fingerprint(message),
	)

	if n := bitfield.Popcount(sig.Bitfield); n < threshold {
		logger.Debug("not enough signers", zap.Int("signers", n))
		return false, nil
	}

	bf := sig.Bitfield
	digest := make([]byte, len(sig.Digest))
	copy(digest, sig.Digest)
	for _, i := range bitfield.EnumerateSetBits(sig.Bitfield) {
		tag, err := s.Sign(keyOf(i), message)
		if err != nil {
			return false, errors.Wrapf(err, "sign by key of signer %d", i)
		}

		bf ^= tag.Bitfield
		subtle.XORBytes(digest, digest, tag.Digest)
	}

	zero := make([]byte, len(digest))
	ok := bf == 0 && subtle.ConstantTimeCompare(digest, zero) == 1
	if !ok {
		logger.Debug("signature does not cancel out", zap.Uint32("residual_bitfield", bf))
	}

	return ok, nil
}
