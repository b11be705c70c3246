// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads Crossref credentials from a dotenv file and the
// process environment.
//
// Supported keys: CROSSREF_MAILTO, CROSSREF_PLUS_TOKEN.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/pubdoi/pkg/types"
)

// Key names recognized in the dotenv file and the environment.
const (
	KeyMailto    = "CROSSREF_MAILTO"
	KeyPlusToken = "CROSSREF_PLUS_TOKEN"
)

// Secrets holds the credentials used for registry requests.
type Secrets struct {
	Mailto    string
	PlusToken string
}

// Load reads path as a dotenv file. A missing file is not an error and
// yields empty values. Environment variables take precedence over the
// file.
func Load(path string) (Secrets, error) {
	values := map[string]string{}
	if path != "" {
		read, err := godotenv.Read(path)
		switch {
		case err == nil:
			values = read
		case errors.Is(err, fs.ErrNotExist):
		default:
			return Secrets{}, fmt.Errorf("reading secrets file %s: %w", path, err)
		}
	}

	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(values[key])
	}

	return Secrets{
		Mailto:    lookup(KeyMailto),
		PlusToken: lookup(KeyPlusToken),
	}, nil
}

// Keys returns the names of the secrets that are set, for display.
func (s Secrets) Keys() []string {
	var keys []string
	if s.Mailto != "" {
		keys = append(keys, KeyMailto)
	}
	if s.PlusToken != "" {
		keys = append(keys, KeyPlusToken)
	}
	return keys
}

// Apply fills empty Crossref settings from s. Values already configured
// are left alone.
func (s Secrets) Apply(cfg *types.CrossrefConfig) {
	if cfg.Mailto == "" {
		cfg.Mailto = s.Mailto
	}
	if cfg.PlusToken == "" {
		cfg.PlusToken = s.PlusToken
	}
}
