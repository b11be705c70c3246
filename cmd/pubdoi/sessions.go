// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List or delete stored sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

func runSessions(cmd *cobra.Command, args []string) error {
	deleteName, _ := cmd.Flags().GetString("delete")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := openStore(loadConfig(viper.GetViper()))
	if err != nil {
		return err
	}
	defer st.Close()
	ctx := context.Background()

	if deleteName != "" {
		if err := st.Delete(ctx, deleteName); err != nil {
			return err
		}
		fmt.Printf("Deleted session %s\n", deleteName)
		return nil
	}

	infos, err := st.List(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	if len(infos) == 0 {
		fmt.Println("No sessions.")
		return nil
	}
	fmt.Printf("%-20s  %7s  %7s  %-8s  %s\n", "NAME", "RECORDS", "DOIS", "RESOLVED", "UPDATED")
	for _, info := range infos {
		fmt.Printf("%-20s  %7d  %7d  %-8t  %s\n",
			info.Name, info.Records, info.WithDOI, info.Resolved, info.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show record and DOI counts for a stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(loadConfig(viper.GetViper()))
		if err != nil {
			return err
		}
		defer st.Close()

		sess, err := st.Load(context.Background(), sessionName(cmd))
		if err != nil {
			return err
		}
		s := sess.Stats()
		fmt.Printf("Total Publications: %d\n", s.Total)
		if sess.Resolved {
			fmt.Printf("DOIs Found: %d\n", s.Found)
			fmt.Printf("Not Found: %d\n", s.NotFound)
		}
		if n := len(sess.Diagnostics); n > 0 {
			fmt.Printf("Warnings: %d\n", n)
		}
		return nil
	},
}

func init() {
	sessionsCmd.Flags().String("delete", "", "delete the named session")
	sessionsCmd.Flags().Bool("json", false, "output sessions as JSON")

	rootCmd.AddCommand(sessionsCmd, statsCmd)
}
