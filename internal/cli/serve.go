package cli

import (
	"github.com/spf13/cobra"

	"github.com/ninja0404/old-runners/internal/app"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the old runners HTTP endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.New().Start(configPath)
		},
	}
}
