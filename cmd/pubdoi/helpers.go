// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/batch"
	"github.com/pdiddy/pubdoi/internal/httputil"
	"github.com/pdiddy/pubdoi/internal/resolve"
	"github.com/pdiddy/pubdoi/internal/store"
	"github.com/pdiddy/pubdoi/pkg/types"
)

// signalContext returns a context cancelled on Ctrl-C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func sessionName(cmd *cobra.Command) string {
	name, _ := cmd.Flags().GetString("session")
	if name == "" {
		return defaultSession
	}
	return name
}

func newResolver(cfg types.Config) *resolve.Resolver {
	client := httputil.NewClient(cfg.Resolver.Timeout)
	return resolve.New(client, cfg.Resolver)
}

func newPacer(cfg types.Config) httputil.Pacer {
	return httputil.NewPacer(cfg.Batch.Delay, cfg.Batch.Rate)
}

func openStore(cfg types.Config) (*store.Store, error) {
	return store.Open(cfg.Store)
}

// parseInput fills sess from the file named by args, or from stdin when
// args is empty or "-", and reports skipped entries.
func parseInput(sess *batch.Session, args []string) error {
	var err error
	if len(args) == 0 || args[0] == "-" {
		err = sess.ParseReader(os.Stdin)
	} else {
		err = sess.ParseFile(args[0])
	}
	logDiagnostics(sess, types.DiagParseSkip)
	return err
}

// logDiagnostics reports the session's diagnostics as warnings.
func logDiagnostics(sess *batch.Session, kinds ...types.DiagnosticKind) {
	for _, d := range sess.Warnings(kinds...) {
		logger.Warn(d.Message, "kind", d.Kind, "entry", d.Index, "text", d.Snippet)
	}
}

// printProgress returns a progress callback writing one line per record.
func printProgress(w io.Writer) batch.Progress {
	return func(done, total int, rec types.Publication) {
		doi := rec.DOI
		if doi == "" {
			doi = string(rec.Status)
		}
		fmt.Fprintf(w, "  [%d/%d] %s -> %s\n", done, total, truncateTitle(rec.Title, 60), doi)
	}
}

func truncateTitle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// bindFlag binds a command flag to a config key, ignoring lookup errors
// for flags that do not exist.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if f := cmd.Flags().Lookup(flag); f != nil {
		_ = viper.BindPFlag(key, f)
	}
}
