package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Jamolkhon5/portfolio/internal/catalog"
)

var (
	employerFilter []string
	channelFilter  []string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the case study catalog, optionally filtered",
	Long: `Validates the embedded case study catalog and prints it as JSON.
Exits non-zero when the catalog has integrity defects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return err
		}

		employers := make([]catalog.Employer, 0, len(employerFilter))
		for _, e := range employerFilter {
			employers = append(employers, catalog.Employer(e))
		}
		channels := make([]catalog.Channel, 0, len(channelFilter))
		for _, c := range channelFilter {
			channels = append(channels, catalog.Channel(c))
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cat.Filter(employers, channels))
	},
}

func init() {
	catalogCmd.Flags().StringSliceVar(&employerFilter, "employer", nil, "filter by employer (repeatable)")
	catalogCmd.Flags().StringSliceVar(&channelFilter, "channel", nil, "filter by channel (repeatable)")
}
