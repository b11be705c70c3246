// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubdoi CLI.
package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger writes operator diagnostics to stderr.
var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "pubdoi"})

// loadedSecrets holds Crossref credentials loaded at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the pubdoi CLI.
var rootCmd = &cobra.Command{
	Use:   "pubdoi",
	Short: "Find DOIs for a pasted publication list",
	Long: `pubdoi parses a free-text publication list of the form

  2020 - Smith, J. "A Study of Graphs". Journal of Math.

into structured records, looks up each title in the Crossref registry,
and exports the records with their DOIs as CSV.

Use parse, resolve, and export to run the steps separately against a
stored session, or batch to run the whole flow in one go.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(log.DebugLevel)
		}

		s, err := secrets.Load(viper.GetString("secrets.file"))
		if err != nil {
			return err
		}
		loadedSecrets = s
		if keys := s.Keys(); len(keys) > 0 {
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubdoi.yaml or ~/.config/pubdoi/pubdoi.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("session", defaultSession, "name of the stored session")
	rootCmd.PersistentFlags().String("db", "", "session database file (default pubdoi.db)")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubdoi")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubdoi"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("PUBDOI")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}
