package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/vtcore/editor/config"
	"github.com/vtcore/editor/pkg/session"
)

var (
	configPath string
	settings   config.Settings
	sessions   *session.Manager
)

const version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vtcore",
		Short:         "A modal terminal editor's session server and CLI",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			settings = loaded
			sessions = session.NewManager(settings.ControlPath)
			return nil
		},
	}

	root.SetVersionTemplate("{{.Version}}\n")

	home, _ := os.UserHomeDir()
	root.PersistentFlags().StringVar(&configPath, "config", filepath.Join(home, ".vtcore", "config.yaml"), "path to config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSessionCmd())
	root.AddCommand(newFindCmd())
	root.AddCommand(newTunnelCmd())

	return root
}
