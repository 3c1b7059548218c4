package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostwise/hostwise/internal/logger"
	"github.com/hostwise/hostwise/internal/pkgsource"
)

func newSearchCmd(root *rootFlags) *cobra.Command {
	var sourceURL string
	var maximum int

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search a REST package source for packages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if root.verbose {
				level = "debug"
			}
			log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
			if err != nil {
				return err
			}

			client, err := pkgsource.NewClient(sourceURL, log)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			info, err := client.Information(ctx)
			if err != nil {
				return err
			}

			matches, err := client.Search(ctx, pkgsource.SearchRequest{
				Query:          &pkgsource.SearchQuery{KeyWord: args[0], MatchType: "Substring"},
				MaximumResults: maximum,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source %s: %d matches\n", info.SourceIdentifier, len(matches))
			for _, match := range matches {
				latest := ""
				if len(match.Versions) > 0 {
					latest = match.Versions[0].PackageVersion
				}
				fmt.Fprintf(out, "  %-40s %-30s %s\n", match.PackageIdentifier, match.PackageName, latest)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&sourceURL, "source", "", "Base URL of the REST package source")
	cmd.Flags().IntVar(&maximum, "max", 25, "Maximum number of results")
	cmd.MarkFlagRequired("source") //nolint:errcheck

	return cmd
}
