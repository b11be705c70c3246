// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pubdoi version and build details",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		printVersion(cmd.OutOrStdout(), version, info)
	},
}

// printVersion writes the release version, then the Go toolchain and
// VCS revision when the binary carries build info.
func printVersion(w io.Writer, release string, info *debug.BuildInfo) {
	fmt.Fprintf(w, "pubdoi %s\n", release)
	if info == nil {
		return
	}
	fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			fmt.Fprintf(w, "  revision: %s\n", s.Value)
		case "vcs.modified":
			if s.Value == "true" {
				fmt.Fprintln(w, "  modified: yes")
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
