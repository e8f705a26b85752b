// Package multisig threshold multi-signer HMAC.
//
// Up to 32 independently held keys can each authenticate the same message.
// Their tags combine by XOR into one fixed size Signature, plus a 32-bit
// bitfield recording which key indexes took part. A verifier holding the keys
// (or the master seed they were derived from) recomputes every claimed tag and
// accepts only if the aggregate cancels out exactly and at least threshold
// signers contributed.
//
// This is symmetric-key authentication: anyone able to verify for a key
// can also forge tags for it.
//
// # Modules
//
//   - `hash.go`: named keyed-hash presets (sha256, sha384, sha512, blake2b-512)
//   - `multisig.go`: Scheme, the immutable parameter set every operation runs on
//   - `keys.go`: random keys, master seeds and indexed key derivation
//   - `escrow.go`: split a master seed among trustees by shamir secret sharing
//   - `sign.go`: per-signer tags
//   - `combine.go`: tag aggregation
//   - `verify.go`: verification against a key list or a master seed
//
// # Example
//
//	s, _ := multisig.New()
//	k0, _ := s.GenerateKey(0)
//	k1, _ := s.GenerateKey(1)
//	k2, _ := s.GenerateKey(2)
//
//	t0, _ := s.Sign(k0, []byte("hello world"))
//	t2, _ := s.Sign(k2, []byte("hello world"))
//	sig, _ := s.Combine([]multisig.Tag{t0, t2})
//
//	ok, _ := s.Verify([]multisig.Key{k0, k1, k2}, sig, []byte("hello world"), 2)
package multisig
