package cmd

import (
	"fmt"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	multisig "github.com/Laisky/multisig-hmac"
	"github.com/Laisky/multisig-hmac/config"
	"github.com/Laisky/multisig-hmac/log"
	"github.com/Laisky/multisig-hmac/wire"
)

func decodeSignature(raw string, s *multisig.Scheme) (multisig.Signature, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "{") {
		return wire.DecodeSignature(raw, s.Bytes())
	}

	sig, hashName, err := wire.UnmarshalSignatureJSON([]byte(raw), s.Bytes())
	if err != nil {
		return sig, err
	}
	if hashName != "" && hashName != s.HashName() {
		return sig, errors.Errorf("signature made by %q, but verifying with %q", hashName, s.HashName())
	}

	return sig, nil
}

// newVerifyCmd verify signature by keys or master seed,
// prints true or false
//
//	multisig-hmac verify -k <key0> -k <key1> -k <key2> --signature <sig> -t 2 -m "hello world"
//	multisig-hmac verify -s <seed> --signature <sig> -t 2 -m "hello world"
func newVerifyCmd(settings *config.Config) *cobra.Command {
	var (
		keys            []string
		seed, signature string
		message, file   string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "verify signature against keys or master seed",
		Args:  NoExtraArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(keys) == 0) == (seed == "") {
				return errors.Errorf("exactly one of --key and --seed is required")
			}

			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			sig, err := decodeSignature(signature, s)
			if err != nil {
				return errors.Wrap(err, "decode signature")
			}

			data, err := readMessage(cmd, message, file)
			if err != nil {
				return err
			}

			threshold := settings.GetInt(config.KeyThreshold)
			var ok bool
			if seed != "" {
				masterSeed, err := wire.DecodeSeed(seed)
				if err != nil {
					return err
				}

				if ok, err = s.VerifyDerived(masterSeed, sig, data, threshold); err != nil {
					return errors.Wrap(err, "verify by master seed")
				}
			} else {
				keyList, err := positionalKeys(keys, sig)
				if err != nil {
					return err
				}

				if ok, err = s.Verify(keyList, sig, data, threshold); err != nil {
					return errors.Wrap(err, "verify by keys")
				}
			}

			log.Shared.Debug("verified",
				zap.Bool("ok", ok),
				zap.Uint32s("signers", sig.Signers()),
				zap.Int("threshold", threshold))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ok)
			return err
		},
	}

	cmd.Flags().StringArrayVarP(&keys, "key", "k", nil, "signing key, repeatable, any order")
	cmd.Flags().StringVarP(&seed, "seed", "s", "", "master seed of derived keys")
	cmd.Flags().StringVar(&signature, "signature", "", "signature, base64 or json document")
	cmd.Flags().IntP(config.KeyThreshold, "t", 1, "minimum number of signers")
	addMessageFlags(cmd, &message, &file)
	_ = cmd.MarkFlagRequired("signature")
	return cmd
}
