// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/batch"
	"github.com/pdiddy/pubdoi/internal/export"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Extract publication records into a stored session",
	Long: `Parse reads a publication list from a file or stdin, extracts one
record per "YYYY - Authors "Title". Venue." entry, and stores the
records as a session for resolve and export. Entries that cannot be
parsed are reported and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(viper.GetViper())
	sess := batch.NewSession(sessionName(cmd))
	if err := parseInput(sess, args); err != nil {
		return err
	}

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Save(context.Background(), sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Found %d publications\n", len(sess.Records))
	if preview, _ := cmd.Flags().GetBool("preview"); preview {
		fmt.Println("Preview of extracted data:")
		export.WriteTable(os.Stdout, sess.Records)
	}
	logger.Info("session saved", "session", sess.Name, "records", len(sess.Records))
	return nil
}

func init() {
	parseCmd.Flags().Bool("preview", true, "print a preview table of the extracted records")

	rootCmd.AddCommand(parseCmd)
}
