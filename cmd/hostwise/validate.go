package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostwise/hostwise/internal/config"
	"github.com/hostwise/hostwise/internal/engine"
	"github.com/hostwise/hostwise/internal/logger"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration set document without applying it",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.ParseDocument(configPath)
			if err != nil {
				return err
			}

			set, err := doc.ConfigurationSet()
			if err != nil {
				return err
			}

			level := "warn"
			if root.verbose {
				level = "debug"
			}
			log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
			if err != nil {
				return err
			}

			processor := engine.NewApplyProcessor(set, nil, nil, nil, log)
			result := processor.Validate(context.Background())

			if !result.ResultCode.Succeeded() {
				for _, unitResult := range result.UnitResults {
					if unitResult.ResultInformation.Code.Succeeded() {
						continue
					}
					name := unitResult.Unit.Identifier
					if name == "" {
						name = "(" + unitResult.Unit.Type + ")"
					}
					line := fmt.Sprintf("%s: %s", name, unitResult.ResultInformation.Code)
					if unitResult.ResultInformation.Details != "" {
						line += " (" + unitResult.ResultInformation.Details + ")"
					}
					fmt.Fprintln(os.Stderr, line)
				}
				return fmt.Errorf("configuration set is invalid: %s", result.ResultCode)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d units, ok\n", set.Name, len(set.Units))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration set document")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}
