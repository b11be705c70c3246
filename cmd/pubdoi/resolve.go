// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/batch"
	"github.com/pdiddy/pubdoi/internal/store"
	"github.com/pdiddy/pubdoi/pkg/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Find DOIs for every record in a stored session",
	Long: `Resolve looks up each record of a stored session in Crossref, one at a
time and in order, waiting --delay between requests. Progress is
printed per record. Interrupting with Ctrl-C stops the loop and saves
the records resolved so far.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	bindPacingFlags(cmd)
	cfg := loadConfig(viper.GetViper())

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext()
	defer stop()

	sess, err := st.Load(ctx, sessionName(cmd))
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return fmt.Errorf("%w (run parse first)", err)
		}
		return err
	}

	sum, resolveErr := resolveSession(ctx, cfg, sess)

	// Save with a fresh context so an interrupted run keeps its progress.
	if err := st.Save(context.Background(), sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if resolveErr != nil {
		return resolveErr
	}
	fmt.Println(sum)
	return nil
}

// resolveSession runs the lookup loop over sess with progress on stdout
// and reports lookup failures as warnings.
func resolveSession(ctx context.Context, cfg types.Config, sess *batch.Session) (batch.Summary, error) {
	before := len(sess.Diagnostics)
	logger.Debug("resolving", "session", sess.Name, "records", len(sess.Records),
		"delay", cfg.Batch.Delay, "rate", cfg.Batch.Rate)

	fmt.Printf("Finding DOIs for %d publications...\n", len(sess.Records))
	sum, err := sess.Resolve(ctx, newResolver(cfg), newPacer(cfg), printProgress(os.Stdout))

	for _, d := range sess.Diagnostics[before:] {
		logger.Warn(d.Message, "entry", d.Index, "title", d.Snippet)
	}
	if err != nil {
		logger.Warn("resolution interrupted", "processed", sum.Processed(), "total", sum.Total)
		return sum, fmt.Errorf("resolving session %s: %w", sess.Name, err)
	}
	return sum, nil
}

func bindPacingFlags(cmd *cobra.Command) {
	bindFlag(cmd, "batch.delay", "delay")
	bindFlag(cmd, "batch.rate", "rate")
	bindFlag(cmd, "resolver.author_hint", "author-hint")
}

func addPacingFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("delay", 0, "pause between lookups (default from config, 1s)")
	cmd.Flags().Float64("rate", 0, "lookups per second; replaces --delay when positive")
	cmd.Flags().Bool("author-hint", false, "send author hints to Crossref as query.author")
}

func init() {
	addPacingFlags(resolveCmd)

	rootCmd.AddCommand(resolveCmd)
}
