package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hostwise/hostwise/internal/config"
)

func newShowCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the units of a configuration set document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.ParseDocument(configPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (version %s)\n", doc.Name, doc.Version)

			for _, unit := range doc.Units {
				name := unit.ID
				if name == "" {
					name = "(anonymous)"
				}

				intent := unit.Intent
				if intent == "" {
					intent = "apply"
				}

				line := fmt.Sprintf("  %-8s %-10s %s", intent, unit.Type, name)
				if len(unit.DependsOn) > 0 {
					line += " needs " + strings.Join(unit.DependsOn, ", ")
				}
				if !unit.Apply {
					line += " [skip requested]"
				}
				fmt.Fprintln(out, line)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration set document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
