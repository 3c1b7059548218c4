package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "hostwise",
		Short:         "Hostwise applies declarative configuration sets to a host",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newSearchCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
