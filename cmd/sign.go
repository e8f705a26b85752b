package cmd

import (
	"fmt"
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"

	multisig "github.com/Laisky/multisig-hmac"
	"github.com/Laisky/multisig-hmac/config"
	"github.com/Laisky/multisig-hmac/wire"
)

const (
	flagMessage = "message"
	flagFile    = "file"
)

// addMessageFlags message to sign or verify, inline or from file
func addMessageFlags(cmd *cobra.Command, message, file *string) {
	cmd.Flags().StringVarP(message, flagMessage, "m", "", "message")
	cmd.Flags().StringVarP(file, flagFile, "f", "", "read message from file")
}

func readMessage(cmd *cobra.Command, message, file string) ([]byte, error) {
	hasMessage := cmd.Flags().Changed(flagMessage)
	switch {
	case hasMessage && file != "":
		return nil, errors.Errorf("only one of --%s and --%s can be set", flagMessage, flagFile)
	case file != "":
		cnt, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.Wrapf(err, "read file %q", file)
		}

		return cnt, nil
	case hasMessage:
		return []byte(message), nil
	default:
		return nil, errors.Errorf("one of --%s and --%s is required", flagMessage, flagFile)
	}
}

// newSignCmd sign message by one key
//
//	multisig-hmac sign -k <key> -m "hello world"
func newSignCmd(settings *config.Config) *cobra.Command {
	var key, message, file string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "compute tag of message",
		Args:  NoExtraArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			k, err := wire.DecodeKey(key)
			if err != nil {
				return err
			}

			data, err := readMessage(cmd, message, file)
			if err != nil {
				return err
			}

			tag, err := s.Sign(k, data)
			if err != nil {
				return errors.Wrap(err, "sign")
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeTag(tag))
			return err
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "signing key")
	addMessageFlags(cmd, &message, &file)
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

// newCombineCmd combine tags into signature
//
//	multisig-hmac combine <tag0> <tag2>
func newCombineCmd(settings *config.Config) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "combine TAG...",
		Short: "combine tags into one signature",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Scheme()
			if err != nil {
				return err
			}

			tags := make([]multisig.Tag, 0, len(args))
			for i, arg := range args {
				tag, err := wire.DecodeTag(arg, s.Bytes())
				if err != nil {
					return errors.Wrapf(err, "tag %d", i)
				}

				tags = append(tags, tag)
			}

			sig, err := s.Combine(tags)
			if err != nil {
				return errors.Wrap(err, "combine")
			}

			if !asJSON {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), wire.EncodeSignature(sig))
				return err
			}

			doc, err := wire.MarshalSignatureJSON(sig, s.HashName())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(doc))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output json document")
	return cmd
}
