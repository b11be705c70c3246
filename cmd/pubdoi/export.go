// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/export"
	"github.com/pdiddy/pubdoi/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a stored session's records to a file",
	Long: `Export writes the records of a stored session with the columns
Year, Authors, Title, DOI, DOI URL, Venue. CSV goes to
publications_with_dois.csv unless -o is given; other formats go to
stdout. Use -o - to force stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	sess, err := st.Load(context.Background(), sessionName(cmd))
	if err != nil {
		return err
	}
	if !sess.Resolved {
		logger.Warn("session has not been resolved; DOI columns will be empty", "session", sess.Name)
	}
	return writeRecords(cmd, sess.Records)
}

// writeRecords writes records in the --format given on cmd to the
// --output destination.
func writeRecords(cmd *cobra.Command, records []types.Publication) error {
	formatName, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	format, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if output == "" && format == export.FormatCSV {
		output = export.DefaultFilename
	}

	var w io.Writer = os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, records); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}
	if w != os.Stdout {
		logger.Info("exported", "file", output, "records", len(records), "format", format)
	}
	return nil
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output file (\"-\" for stdout)")
	cmd.Flags().String("format", "csv", "output format: csv, json, yaml, csl, table")
}

func init() {
	addOutputFlags(exportCmd)

	rootCmd.AddCommand(exportCmd)
}
