package multisig

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	s    *Scheme
	keys []Key
	data []byte
}

func newFixture(t testing.TB, h HashType, n int) *fixture {
	s, err := New(WithHashType(h))
	require.NoError(t, err)

	f := &fixture{s: s, data: []byte("hello world")}
	for i := 0; i < n; i++ {
		k, err := s.GenerateKey(uint32(i))
		require.NoError(t, err)
		f.keys = append(f.keys, k)
	}

	return f
}

func (f *fixture) aggregate(t testing.TB, data []byte, indexes ...int) Signature {
	var tags []Tag
	for _, i := range indexes {
		tag, err := f.s.Sign(f.keys[i], data)
		require.NoError(t, err)
		tags = append(tags, tag)
	}

	sig, err := f.s.Combine(tags)
	require.NoError(t, err)
	return sig
}

func TestVerifyHelloWorld(t *testing.T) {
	t.Parallel()

	f := newFixture(t, HashTypeSha256, 3)
	sig := f.aggregate(t, f.data, 0, 2)

	ok, err := f.s.Verify(f.keys, sig, f.data, 2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.s.Verify(f.keys, sig, f.data, 3)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifySingleSigner(t *testing.T) {
	t.Parallel()

	for _, h := range SupportedHashTypes() {
		f := newFixture(t, h, 5)
		for i := range f.keys {
			sig := f.aggregate(t, f.data, i)
			ok, err := f.s.Verify(f.keys, sig, f.data, 1)
			require.NoError(t, err)
			require.Truef(t, ok, "%s signer %d", h, i)
		}
	}
}

func TestVerifyThreshold(t *testing.T) {
	t.Parallel()

	f := newFixture(t, HashTypeSha256, 6)
	sig := f.aggregate(t, f.data, 1, 3, 4, 5)
	n := 4

	for threshold := 1; threshold <= n; threshold++ {
		ok, err := f.s.Verify(f.keys, sig, f.data, threshold)
		require.NoError(t, err)
		require.Truef(t, ok, "threshold %d", threshold)
	}

	ok, err := f.s.Verify(f.keys, sig, f.data, n+1)
	require.NoError(t, err)
	require.False(t, ok)

	for _, threshold := range []int{0, -1} {
		_, err := f.s.Verify(f.keys, sig, f.data, threshold)
		require.True(t, errors.Is(err, ErrInvalidArgument))
	}
}

func TestVerifyKeys(t *testing.T) {
	t.Parallel()

	f := newFixture(t, HashTypeSha256, 4)
	sig := f.aggregate(t, f.data, 0, 2)

	tests := []struct {
		name    string
		keys    []Key
		want    bool
		wantErr bool
	}{
		{"exact", f.keys[:3], true, false},
		{"extra keys", f.keys, true, false},
		{"no keys", nil, false, true},
		{"missing highest", f.keys[:2], false, true},
		{"swapped order", []Key{f.keys[1], f.keys[0], f.keys[2]}, false, false},
		{"wrong key at position", []Key{f.keys[0], f.keys[1], {Index: 2, Secret: f.keys[3].Secret}}, false, false},
		{"foreign index at position", []Key{f.keys[0], f.keys[1], f.keys[3]}, false, false},
		{"malformed index at position", []Key{f.keys[0], f.keys[1], {Index: 77, Secret: f.keys[2].Secret}}, false, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ok, err := f.s.Verify(tt.keys, sig, f.data, 2)
			if tt.wantErr {
				require.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, ok)
		})
	}
}

func TestVerifyTamper(t *testing.T) {
	t.Parallel()

	f := newFixture(t, HashTypeSha256, 4)
	sig := f.aggregate(t, f.data, 0, 1, 3)

	ok, err := f.s.Verify(f.keys, sig, f.data, 3)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("message", func(t *testing.T) {
		for i := range f.data {
			for bit := 0; bit < 8; bit++ {
				data := bytes.Clone(f.data)
				data[i] ^= 1 << bit
				ok, err := f.s.Verify(f.keys, sig, data, 1)
				require.NoError(t, err)
				require.False(t, ok)
			}
		}

		for _, data := range [][]byte{f.data[:len(f.data)-1], append(bytes.Clone(f.data), 'd'), nil} {
			ok, err := f.s.Verify(f.keys, sig, data, 1)
			require.NoError(t, err)
			require.False(t, ok)
		}
	})

	t.Run("digest", func(t *testing.T) {
		for i := range sig.Digest {
			for bit := 0; bit < 8; bit++ {
				tampered := Signature{Bitfield: sig.Bitfield, Digest: bytes.Clone(sig.Digest)}
				tampered.Digest[i] ^= 1 << bit
				ok, err := f.s.Verify(f.keys, tampered, f.data, 1)
				require.NoError(t, err)
				require.False(t, ok)
			}
		}
	})

	t.Run("bitfield", func(t *testing.T) {
		for bit := 0; bit < 4; bit++ {
			tampered := Signature{Bitfield: sig.Bitfield ^ 1<<bit, Digest: sig.Digest}
			ok, err := f.s.Verify(f.keys, tampered, f.data, 1)
			require.NoError(t, err)
			require.Falsef(t, ok, "bit %d", bit)
		}

		// claims signers beyond the key list
		tampered := Signature{Bitfield: sig.Bitfield | 1<<20, Digest: sig.Digest}
		_, err := f.s.Verify(f.keys, tampered, f.data, 1)
		require.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("digest shape", func(t *testing.T) {
		for _, digest := range [][]byte{nil, sig.Digest[:len(sig.Digest)-1], append(bytes.Clone(sig.Digest), 0)} {
			_, err := f.s.Verify(f.keys, Signature{Bitfield: sig.Bitfield, Digest: digest}, f.data, 1)
			require.True(t, errors.Is(err, ErrInvalidArgument))
		}
	})

	t.Run("too many or too few signatures", func(t *testing.T) {
		all := f.aggregate(t, f.data, 0, 1, 2, 3)

		ok, err := f.s.Verify(f.keys, Signature{Bitfield: sig.Bitfield, Digest: all.Digest}, f.data, 1)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = f.s.Verify(f.keys, Signature{Bitfield: all.Bitfield, Digest: sig.Digest}, f.data, 1)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("empty signature", func(t *testing.T) {
		empty, err := f.s.Combine(nil)
		require.NoError(t, err)

		ok, err := f.s.Verify(f.keys, empty, f.data, 1)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestVerifyTransport(t *testing.T) {
	t.Parallel()

	f := newFixture(t, HashTypeSha256, 4)
	sig := f.aggregate(t, []byte("Hello world"), 0, 1, 3)

	sent := base64.URLEncoding.EncodeToString(sig.Digest)

	// --- network ---

	digest, err := base64.URLEncoding.DecodeString(sent)
	require.NoError(t, err)

	ok, err := f.s.Verify(f.keys, Signature{Bitfield: sig.Bitfield, Digest: digest}, []byte("Hello world"), 2)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyDerived(t *testing.T) {
	t.Parallel()

	for _, h := range SupportedHashTypes() {
		h := h
		t.Run(h.String(), func(t *testing.T) {
			s, err := New(WithHashType(h))
			require.NoError(t, err)

			seed, err := s.GenerateMasterSeed()
			require.NoError(t, err)

			var keys []Key
			for i := uint32(0); i < 3; i++ {
				k, err := s.DeriveKey(seed, i)
				require.NoError(t, err)
				keys = append(keys, k)
			}

			data := []byte("hello world")
			t0, err := s.Sign(keys[0], data)
			require.NoError(t, err)
			t2, err := s.Sign(keys[2], data)
			require.NoError(t, err)
			sig, err := s.Combine([]Tag{t0, t2})
			require.NoError(t, err)

			for threshold := 1; threshold <= 3; threshold++ {
				want, err := s.Verify(keys, sig, data, threshold)
				require.NoError(t, err)

				got, err := s.VerifyDerived(seed, sig, data, threshold)
				require.NoError(t, err)
				require.Equal(t, want, got)
				require.Equal(t, threshold <= 2, got)
			}

			other, err := s.GenerateMasterSeed()
			require.NoError(t, err)
			ok, err := s.VerifyDerived(other, sig, data, 2)
			require.NoError(t, err)
			require.False(t, ok)

			ok, err = s.VerifyDerived(seed, sig, []byte("hello worl"), 2)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestVerifyDerivedInvalid(t *testing.T) {
	t.Parallel()

	s, err := New()
	require.NoError(t, err)

	seed, err := s.GenerateMasterSeed()
	require.NoError(t, err)

	k0, err := s.DeriveKey(seed, 0)
	require.NoError(t, err)
	k1, err := s.DeriveKey(seed, 1)
	require.NoError(t, err)
	t0, err := s.Sign(k0, nil)
	require.NoError(t, err)
	t1, err := s.Sign(k1, nil)
	require.NoError(t, err)
	sig, err := s.Combine([]Tag{t0, t1})
	require.NoError(t, err)

	t.Run("seed length", func(t *testing.T) {
		for _, bad := range []MasterSeed{nil, seed[:len(seed)-1], append(bytes.Clone(seed), 0)} {
			_, err := s.VerifyDerived(bad, sig, nil, 2)
			require.True(t, errors.Is(err, ErrInvalidArgument))
		}
	})

	t.Run("threshold", func(t *testing.T) {
		for _, threshold := range []int{-1, 0} {
			_, err := s.VerifyDerived(seed, sig, nil, threshold)
			require.True(t, errors.Is(err, ErrInvalidArgument))
		}

		ok, err := s.VerifyDerived(seed, sig, nil, 3)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("digest", func(t *testing.T) {
		_, err := s.VerifyDerived(seed, Signature{Bitfield: sig.Bitfield}, nil, 2)
		require.True(t, errors.Is(err, ErrInvalidArgument))
	})

	t.Run("bitfield", func(t *testing.T) {
		ok, err := s.VerifyDerived(seed, Signature{Bitfield: 0, Digest: sig.Digest}, nil, 1)
		require.NoError(t, err)
		require.False(t, ok)

		// no key list bounds the derived flow
		ok, err = s.VerifyDerived(seed, Signature{Bitfield: sig.Bitfield | 1<<31, Digest: sig.Digest}, nil, 1)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestVerifyHighIndexes(t *testing.T) {
	t.Parallel()

	s, err := New()
	require.NoError(t, err)

	seed, err := s.GenerateMasterSeed()
	require.NoError(t, err)

	var tags []Tag
	for _, i := range []uint32{5, 17, 31} {
		k, err := s.DeriveKey(seed, i)
		require.NoError(t, err)
		tag, err := s.Sign(k, []byte("edge"))
		require.NoError(t, err)
		tags = append(tags, tag)
	}

	sig, err := s.Combine(tags)
	require.NoError(t, err)

	ok, err := s.VerifyDerived(seed, sig, []byte("edge"), 3)
	require.NoError(t, err)
	require.True(t, ok)
}

func BenchmarkVerify(b *testing.B) {
	f := newFixture(b, HashTypeSha256, 32)
	idx := make([]int, 32)
	for i := range idx {
		idx[i] = i
	}
	sig := f.aggregate(b, f.data, idx...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if ok, err := f.s.Verify(f.keys, sig, f.data, 32); err != nil || !ok {
			b.Fatal("verify failed")
		}
	}
}
