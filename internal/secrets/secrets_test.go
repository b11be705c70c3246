// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubdoi/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads keys and trims whitespace",
			setup: func(t *testing.T) string {
				return writeFile(t, "CROSSREF_MAILTO=  me@example.com  \nCROSSREF_PLUS_TOKEN=tok_123\n")
			},
			want: Secrets{Mailto: "me@example.com", PlusToken: "tok_123"},
		},
		{
			name: "returns empty secrets for missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist.env")
			},
			want: Secrets{},
		},
		{
			name: "ignores comments and unknown keys",
			setup: func(t *testing.T) string {
				return writeFile(t, "# polite pool\nCROSSREF_MAILTO=\"quoted@example.com\"\nOTHER=value\n")
			},
			want: Secrets{Mailto: "quoted@example.com"},
		},
		{
			name:  "empty path",
			setup: func(t *testing.T) string { return "" },
			want:  Secrets{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(KeyMailto, "")
			t.Setenv(KeyPlusToken, "")
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "CROSSREF_MAILTO=file@example.com\nCROSSREF_PLUS_TOKEN=file-token\n")
	t.Setenv(KeyMailto, "env@example.com")
	t.Setenv(KeyPlusToken, "")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env@example.com", got.Mailto)
	assert.Equal(t, "file-token", got.PlusToken)
}

func TestLoadDirectoryIsError(t *testing.T) {
	t.Setenv(KeyMailto, "")
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Empty(t, Secrets{}.Keys())
	assert.Equal(t, []string{KeyMailto, KeyPlusToken}, Secrets{Mailto: "a", PlusToken: "b"}.Keys())
}

func TestApply(t *testing.T) {
	cfg := types.CrossrefConfig{Mailto: "configured@example.com"}
	Secrets{Mailto: "secret@example.com", PlusToken: "tok"}.Apply(&cfg)
	assert.Equal(t, "configured@example.com", cfg.Mailto)
	assert.Equal(t, "tok", cfg.PlusToken)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
