package multisig

import (
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
)

func TestMasterSeedEscrow(t *testing.T) {
	t.Parallel()

	s, err := New()
	require.NoError(t, err)

	seed, err := s.GenerateMasterSeed()
	require.NoError(t, err)

	shares, err := s.SplitMasterSeed(seed, 5, 3)
	require.NoError(t, err)
	require.Len(t, shares, 5)

	parts := map[byte][]byte{}
	for id, share := range shares {
		parts[id] = share
		if len(parts) == 3 {
			break
		}
	}

	got, err := s.CombineMasterSeed(parts)
	require.NoError(t, err)
	require.Equal(t, seed, got)

	// recovered seed verifies what the original seed signed
	k, err := s.DeriveKey(seed, 4)
	require.NoError(t, err)
	tag, err := s.Sign(k, []byte("escrow"))
	require.NoError(t, err)
	sig, err := s.Combine([]Tag{tag})
	require.NoError(t, err)

	ok, err := s.VerifyDerived(got, sig, []byte("escrow"), 1)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMasterSeedEscrowInvalid(t *testing.T) {
	t.Parallel()

	s, err := New()
	require.NoError(t, err)

	seed, err := s.GenerateMasterSeed()
	require.NoError(t, err)

	tests := []struct {
		name             string
		seed             MasterSeed
		total, threshold int
	}{
		{"short seed", seed[:10], 5, 3},
		{"threshold 1", seed, 5, 1},
		{"threshold too big", seed, 300, 256},
		{"total too big", seed, 256, 3},
		{"total less than threshold", seed, 2, 3},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SplitMasterSeed(tt.seed, tt.total, tt.threshold)
			require.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}

	_, err = s.CombineMasterSeed(map[byte][]byte{1: seed})
	require.True(t, errors.Is(err, ErrInvalidArgument))
}
