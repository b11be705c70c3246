// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/resolve"
	"github.com/pdiddy/pubdoi/pkg/types"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Look up the DOI of a single publication",
	Long: `Lookup searches Crossref for one title and prints the DOI and its
doi.org URL when a candidate matches closely enough. The year, when
given, must equal the candidate's print publication year.`,
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	bindFlag(cmd, "resolver.author_hint", "author-hint")

	title, _ := cmd.Flags().GetString("title")
	authors, _ := cmd.Flags().GetString("authors")
	year, _ := cmd.Flags().GetString("year")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if title == "" {
		return fmt.Errorf("--title is required")
	}

	cfg := loadConfig(viper.GetViper())
	ctx, stop := signalContext()
	defer stop()

	m := newResolver(cfg).Resolve(ctx, resolve.Query{Title: title, Authors: authors, Year: year})
	if m.Status == types.StatusFailed {
		logger.Warn(m.Warning)
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			DOI        string             `json:"doi"`
			URL        string             `json:"doi_url"`
			Status     types.LookupStatus `json:"status"`
			Similarity float64            `json:"similarity"`
			Title      string             `json:"title,omitempty"`
			Venue      string             `json:"venue,omitempty"`
		}{m.DOI, m.URL(), m.Status, m.Similarity, m.Title, m.Venue})
	}

	if m.DOI == "" {
		fmt.Println("No DOI found for this publication")
		return nil
	}
	fmt.Printf("DOI: %s\n", m.DOI)
	fmt.Printf("DOI URL: %s\n", m.URL())
	logger.Debug("matched", "title", m.Title, "similarity", fmt.Sprintf("%.3f", m.Similarity))
	return nil
}

func init() {
	lookupCmd.Flags().String("title", "", "publication title (required)")
	lookupCmd.Flags().String("authors", "", "author hint")
	lookupCmd.Flags().String("year", "", "publication year; must match the print year when given")
	lookupCmd.Flags().Bool("author-hint", false, "send the author hint to Crossref as query.author")
	lookupCmd.Flags().Bool("json", false, "output the match as JSON")

	rootCmd.AddCommand(lookupCmd)
}
