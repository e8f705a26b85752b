package multisig

import (
	"context"

	"github.com/Laisky/errors/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Laisky/multisig-hmac/bitfield"
)

// Tag authentication tag of one signer.
//
// Bitfield has exactly one bit set, at the signer's key index.
type Tag struct {
	Bitfield uint32
	Digest   []byte
}

// Sign compute tag of message by key.
//
// Digest is HMAC(key.Secret, message), same key and message
// always give the same tag. nil message is the empty message.
func (s *Scheme) Sign(key Key, message []byte) (Tag, error) {
	if key.Index >= bitfield.MaxSigners {
		return Tag{}, errors.Wrapf(ErrInvalidArgument,
			"key index must be less than %d, got %d", bitfield.MaxSigners, key.Index)
	}

	return Tag{
		Bitfield: 1 << key.Index,
		Digest:   s.mac(key.Secret, message),
	}, nil
}

// SignBatch sign message by every key concurrently,
// tags[i] is signed by keys[i]
func (s *Scheme) SignBatch(ctx context.Context, keys []Key, message []byte) ([]Tag, error) {
	tags := make([]Tag, len(keys))
	pool, ctx := errgroup.WithContext(ctx)
	for i := range keys {
		i := i
		pool.Go(func() (err error) {
			if err = ctx.Err(); err != nil {
				return errors.Wrap(err, "sign batch")
			}

			if tags[i], err = s.Sign(keys[i], message); err != nil {
				return errors.Wrapf(err, "sign by keys[%d]", i)
			}

			return nil
		})
	}

	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return tags, nil
}
