package multisig

import (
	"github.com/Laisky/errors/v2"
	"github.com/corvus-ch/shamir"
)

// SplitMasterSeed split seed into total shares, any threshold of them
// can rebuild the seed by CombineMasterSeed.
//
// threshold and total must be in [2, 256) and total >= threshold.
// both the id and the value of every share are needed to combine.
func (s *Scheme) SplitMasterSeed(seed MasterSeed, total, threshold int) (shares map[byte][]byte, err error) {
	if err = s.checkSeed(seed); err != nil {
		return nil, err
	}

	switch {
	case threshold < 2 || threshold >= 256:
		return nil, errors.Wrapf(ErrInvalidArgument, "threshold should be in [2, 256), got %d", threshold)
	case total < 2 || total >= 256:
		return nil, errors.Wrapf(ErrInvalidArgument, "total should be in [2, 256), got %d", total)
	case total < threshold:
		return nil, errors.Wrapf(ErrInvalidArgument,
			"total %d should not be less than threshold %d", total, threshold)
	}

	if shares, err = shamir.Split(seed, total, threshold); err != nil {
		return nil, errors.Wrap(err, "split master seed")
	}

	s.logger.Debug("split master seed")
	return shares, nil
}

// CombineMasterSeed rebuild master seed from shares.
//
// fewer shares than the split threshold give a wrong seed
// rather than an error, it only shows up as failed verification.
func (s *Scheme) CombineMasterSeed(shares map[byte][]byte) (MasterSeed, error) {
	if len(shares) < 2 {
		return nil, errors.Wrapf(ErrInvalidArgument, "need at least 2 shares, got %d", len(shares))
	}

	seed, err := shamir.Combine(shares)
	if err != nil {
		return nil, errors.Wrap(err, "combine shares")
	}

	if err = s.checkSeed(seed); err != nil {
		return nil, errors.Wrap(err, "combined seed")
	}

	return seed, nil
}
