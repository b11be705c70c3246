// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/batch"
	"github.com/pdiddy/pubdoi/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch [file|-]",
	Short: "Parse, resolve, and export a publication list in one run",
	Long: `Batch runs the whole flow in memory: extract records from the input,
find each record's DOI, print the statistics line, and export the
results. With --save the session is also stored under --session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	bindPacingFlags(cmd)

	cfg := loadConfig(viper.GetViper())

	sess := batch.NewSession(sessionName(cmd))
	if err := parseInput(sess, args); err != nil {
		return err
	}
	fmt.Printf("Found %d publications\n", len(sess.Records))

	ctx, stop := signalContext()
	defer stop()

	sum, resolveErr := resolveSession(ctx, cfg, sess)
	if save, _ := cmd.Flags().GetBool("save"); save {
		if err := saveSession(cfg, sess); err != nil {
			return err
		}
	}
	if resolveErr != nil {
		return resolveErr
	}

	fmt.Println(sum)
	return writeRecords(cmd, sess.Records)
}

func saveSession(cfg types.Config, sess *batch.Session) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(context.Background(), sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func init() {
	addPacingFlags(batchCmd)
	addOutputFlags(batchCmd)
	batchCmd.Flags().Bool("save", false, "store the session in the session database")

	rootCmd.AddCommand(batchCmd)
}
