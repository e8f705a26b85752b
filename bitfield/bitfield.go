// Package bitfield helpers for the 32-bit signer-set mask.
//
// Bit i of a bitfield is set when the signer whose key index is i
// contributed to a tag or an aggregate signature.
package bitfield

import (
	"math/bits"

	"github.com/Laisky/errors/v2"
	"github.com/RoaringBitmap/roaring"
)

// MaxSigners is the number of distinct signer indexes a bitfield can hold
const MaxSigners = 32

// Popcount count of set bits, in [0, 32]
func Popcount(bf uint32) int {
	return bits.OnesCount32(bf)
}

// HighestSetBitPosition returns 1 + index of the most significant set bit,
// or 0 if bf is 0.
//
// a positionally indexed key list must be at least this long
// to cover every signer in bf.
func HighestSetBitPosition(bf uint32) int {
	return bits.Len32(bf)
}

// EnumerateSetBits returns the positions of all set bits in ascending order
func EnumerateSetBits(bf uint32) []uint32 {
	idx := make([]uint32, 0, Popcount(bf))
	for bf != 0 {
		i := bits.TrailingZeros32(bf)
		idx = append(idx, uint32(i))
		bf &= bf - 1
	}

	return idx
}

// FromIndexes build bitfield from signer indexes.
//
// duplicated index is an error, since the same signer can not
// be counted twice.
func FromIndexes(indexes ...uint32) (bf uint32, err error) {
	for _, i := range indexes {
		if i >= MaxSigners {
			return 0, errors.Errorf("index %d out of range [0, %d)", i, MaxSigners)
		}

		mask := uint32(1) << i
		if bf&mask != 0 {
			return 0, errors.Errorf("duplicated index %d", i)
		}

		bf |= mask
	}

	return bf, nil
}

// ToBitmap convert bitfield to roaring bitmap,
// for callers that track signer sets wider than one aggregate
func ToBitmap(bf uint32) *roaring.Bitmap {
	return roaring.BitmapOf(EnumerateSetBits(bf)...)
}

// FromBitmap convert roaring bitmap back to bitfield.
//
// every position in bm must be less than MaxSigners.
func FromBitmap(bm *roaring.Bitmap) (uint32, error) {
	if bm == nil || bm.IsEmpty() {
		return 0, nil
	}

	if max := bm.Maximum(); max >= MaxSigners {
		return 0, errors.Errorf("bitmap contains index %d, exceeds %d signers", max, MaxSigners)
	}

	return FromIndexes(bm.ToArray()...)
}
