package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/config"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/logging"
)

// app is the state shared by subcommands once PersistentPreRunE has run.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
}

// newRootCmd builds a fresh command tree, so tests never share flag state.
func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bloxmision",
		Short:         "BloxMision game backend: block-program levels and the daily word challenge.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.AddCommand(newServeCmd(a), newRunCmd(a), newGuessCmd())
	return root
}
