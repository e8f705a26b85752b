// Package cmd command line tools of multisig-hmac
package cmd

import (
	"fmt"
	"os"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	multisig "github.com/Laisky/multisig-hmac"
	"github.com/Laisky/multisig-hmac/config"
	"github.com/Laisky/multisig-hmac/log"
)

const flagConfig = "config"

// NewRootCmd build command tree on settings
func NewRootCmd(settings *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "multisig-hmac",
		Short:         "threshold multi-signer HMAC",
		Long:          `generate keys, sign, combine and verify multisig HMAC signatures`,
		Args:          NoExtraArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupSettings(cmd, settings)
		},
	}

	root.PersistentFlags().Bool(config.KeyDebug, false, "debug")
	root.PersistentFlags().String(config.KeyHash, multisig.DefaultHashType.String(),
		fmt.Sprintf("hash preset, one of %v", multisig.SupportedHashTypes()))
	root.PersistentFlags().StringP(flagConfig, "c", "", "config file")

	root.AddCommand(
		newKeygenCmd(settings),
		newSeedgenCmd(settings),
		newDeriveCmd(settings),
		newSeedCmd(settings),
		newSignCmd(settings),
		newCombineCmd(settings),
		newVerifyCmd(settings),
	)

	return root
}

func setupSettings(cmd *cobra.Command, settings *config.Config) error {
	if err := settings.BindPFlags(cmd.Flags()); err != nil {
		return errors.Wrap(err, "bind flags")
	}

	if path := settings.GetString(flagConfig); path != "" {
		if err := settings.LoadFromFile(path); err != nil {
			return err
		}
	}

	if settings.GetBool(config.KeyDebug) {
		if err := log.Shared.ChangeLevel(log.LevelDebug); err != nil {
			return errors.Wrap(err, "change logger level to debug")
		}
	}

	return nil
}

// Execute run command line tool on shared settings.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	defer func() {
		_ = log.Shared.Sync()
	}()

	if err := NewRootCmd(config.Shared).Execute(); err != nil {
		log.Shared.Error("run command", zap.Error(err))
		os.Exit(1)
	}
}

// NoExtraArgs make sure every args has been processed
//
// do not allow any un processed args
func NoExtraArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return errors.Errorf("unknown args `%v`", args)
	}

	return nil
}
