package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ninja0404/old-runners/internal/config"
)

var (
	configPath string
	envFile    string
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "old-runners",
		Short:         "Radar for mature DEX pools that just started running",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(envFile)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "config file path")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before config, ignored when missing")

	root.AddCommand(newServeCmd(), newScanCmd(), newConfigCmd())
	return root
}

// loadEnv loads a dotenv file without overriding variables already set.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
