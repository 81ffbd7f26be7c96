package cli

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reqshape",
		Short:         "Decode request parameters into nested objects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newDecodeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the reqshape command line with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}
