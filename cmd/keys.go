package cmd

import (
	"fmt"
	"sort"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"

	multisig "github.com/Laisky/multisig-hmac"
	"github.com/Laisky/multisig-hmac/bitfield"
	"github.com/Laisky/multisig-hmac/config"
	"github.com/Laisky/multisig-hmac/wire"
)

func checkIndex(index uint32) error {
	if index >= bitfield.MaxSigners {
		return errors.Errorf("index must be less than %d, got %d", bitfield.MaxSigners, index)
	}

	return nil
}

// newKeygenCmd generate random key
//
//	multisig-hmac keygen -i 3
func newKeygenCmd(settings *config.Config) *cobra.Command {
	var index uint32
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate random signing key",
		Args:  NoExtraArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkIndex(index); err != nil {
				return err
			}

			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			k, err := s.GenerateKey(index)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeKey(k))
			return err
		},
	}

	cmd.Flags().Uint32VarP(&index, "index", "i", 0, "signer index in [0, 32)")
	return cmd
}

// newSeedgenCmd generate random master seed
func newSeedgenCmd(settings *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seedgen",
		Short: "generate random master seed",
		Args:  NoExtraArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			seed, err := s.GenerateMasterSeed()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeSeed(seed))
			return err
		},
	}
}

// newDeriveCmd derive indexed key from master seed
//
//	multisig-hmac derive -s <seed> -i 3
func newDeriveCmd(settings *config.Config) *cobra.Command {
	var (
		seed  string
		index uint32
	)
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "derive signing key from master seed",
		Args:  NoExtraArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkIndex(index); err != nil {
				return err
			}

			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			masterSeed, err := wire.DecodeSeed(seed)
			if err != nil {
				return err
			}

			k, err := s.DeriveKey(masterSeed, index)
			if err != nil {
				return errors.Wrap(err, "derive key")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeKey(k))
			return err
		},
	}

	cmd.Flags().StringVarP(&seed, "seed", "s", "", "master seed")
	cmd.Flags().Uint32VarP(&index, "index", "i", 0, "signer index in [0, 32)")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}

// newSeedCmd escrow master seed by shamir secret sharing
func newSeedCmd(settings *config.Config) *cobra.Command {
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "split or recover master seed",
		Args:  NoExtraArgs,
	}

	var (
		seed          string
		total, quorum int
	)
	split := &cobra.Command{
		Use:   "split",
		Short: "split master seed into shares, one share per line",
		Args:  NoExtraArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			masterSeed, err := wire.DecodeSeed(seed)
			if err != nil {
				return err
			}

			shares, err := s.SplitMasterSeed(masterSeed, total, quorum)
			if err != nil {
				return err
			}

			ids := make([]int, 0, len(shares))
			for id := range shares {
				ids = append(ids, int(id))
			}
			sort.Ints(ids)

			for _, id := range ids {
				if _, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeShare(byte(id), shares[byte(id)])); err != nil {
					return err
				}
			}

			return nil
		},
	}
	split.Flags().StringVarP(&seed, "seed", "s", "", "master seed")
	split.Flags().IntVarP(&total, "total", "n", 5, "number of shares")
	split.Flags().IntVarP(&quorum, "quorum", "k", 3, "shares needed to recover")
	_ = split.MarkFlagRequired("seed")

	combine := &cobra.Command{
		Use:   "combine SHARE...",
		Short: "recover master seed from shares",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			shares := map[byte][]byte{}
			for _, arg := range args {
				id, share, err := wire.DecodeShare(arg)
				if err != nil {
					return err
				}
				if _, ok := shares[id]; ok {
					return errors.Errorf("duplicated share %d", id)
				}

				shares[id] = share
			}

			masterSeed, err := s.CombineMasterSeed(shares)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeSeed(masterSeed))
			return err
		},
	}

	seedCmd.AddCommand(split, combine)
	return seedCmd
}

// positionalKeys arrange keys so that keys[i].Index == i.
//
// every signer claimed by sig must have a key.
func positionalKeys(encoded []string, sig multisig.Signature) ([]multisig.Key, error) {
	byIndex := map[uint32]multisig.Key{}
	n := 0
	for _, e := range encoded {
		k, err := wire.DecodeKey(e)
		if err != nil {
			return nil, err
		}
		if err = checkIndex(k.Index); err != nil {
			return nil, err
		}
		if _, ok := byIndex[k.Index]; ok {
			return nil, errors.Errorf("duplicated key for signer %d", k.Index)
		}

		byIndex[k.Index] = k
		if int(k.Index) >= n {
			n = int(k.Index) + 1
		}
	}

	for _, i := range sig.Signers() {
		if _, ok := byIndex[i]; !ok {
			return nil, errors.Errorf("no key for signer %d", i)
		}
	}

	keys := make([]multisig.Key, n)
	for i := range keys {
		keys[i] = multisig.Key{Index: uint32(i)}
		if k, ok := byIndex[uint32(i)]; ok {
			keys[i] = k
		}
	}

	return keys, nil
}
