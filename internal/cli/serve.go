package cli

import (
	"github.com/spf13/cobra"

	"github.com/reqshape/reqshape/internal/server"
)

var runServeFn = server.Run

func newServeCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP decoding service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServeFn(cfgPath)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "reqshape.yaml", "path to config yaml")
	return cmd
}
