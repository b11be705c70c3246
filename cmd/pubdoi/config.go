// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/pubdoi/internal/export"
	"github.com/pdiddy/pubdoi/pkg/types"
)

const defaultSession = "default"

// envKeyReplacer maps nested keys to environment names, so
// batch.delay is read from PUBDOI_BATCH_DELAY.
var envKeyReplacer = strings.NewReplacer(".", "_")

// setDefaults registers the default value of every config key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", time.Duration(0))
	v.SetDefault("http.user_agent", "pubdoi/"+version)
	v.SetDefault("crossref.base_url", "https://api.crossref.org/works")
	v.SetDefault("crossref.mailto", "")
	v.SetDefault("crossref.rows", 3)
	v.SetDefault("resolver.min_similarity", 0.85)
	v.SetDefault("resolver.author_hint", false)
	v.SetDefault("batch.delay", time.Second)
	v.SetDefault("batch.rate", 0.0)
	v.SetDefault("store.path", "pubdoi.db")
	v.SetDefault("secrets.file", ".env")
	v.SetDefault("export.output", export.DefaultFilename)
}

// loadConfig assembles the typed configuration from v and fills
// Crossref credentials from the loaded secrets.
func loadConfig(v *viper.Viper) types.Config {
	cfg := types.Config{
		Resolver: types.ResolverConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("http.timeout"),
				UserAgent: v.GetString("http.user_agent"),
			},
			Crossref: types.CrossrefConfig{
				BaseURL: v.GetString("crossref.base_url"),
				Mailto:  v.GetString("crossref.mailto"),
				Rows:    v.GetInt("crossref.rows"),
			},
			MinSimilarity: v.GetFloat64("resolver.min_similarity"),
			AuthorHint:    v.GetBool("resolver.author_hint"),
		},
		Batch: types.BatchConfig{
			Delay: v.GetDuration("batch.delay"),
			Rate:  v.GetFloat64("batch.rate"),
		},
		Store:       types.StoreConfig{Path: v.GetString("store.path")},
		SecretsFile: v.GetString("secrets.file"),
	}
	loadedSecrets.Apply(&cfg.Resolver.Crossref)
	return cfg
}
