// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes resolved publication records as CSV, JSON, YAML,
// CSL-YAML, or a terminal table.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubdoi/internal/resolve"
	"github.com/pdiddy/pubdoi/pkg/types"
)

// DefaultFilename is the suggested name for a CSV download.
const DefaultFilename = "publications_with_dois.csv"

// Columns is the CSV header row.
var Columns = []string{"Year", "Authors", "Title", "DOI", "DOI URL", "Venue"}

// Format selects an output encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSL   Format = "csl"
	FormatTable Format = "table"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatYAML, FormatCSL, FormatTable:
		return f, nil
	case "":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use csv, json, yaml, csl, or table", s)
	}
}

// Write encodes records to w in format f.
func Write(w io.Writer, f Format, records []types.Publication) error {
	switch f {
	case FormatCSV, "":
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatYAML:
		return WriteYAML(w, records)
	case FormatCSL:
		return WriteCSL(w, records)
	case FormatTable:
		WriteTable(w, records)
		return nil
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// WriteCSV writes one row per record under the Columns header with
// standard CSV quoting.
func WriteCSV(w io.Writer, records []types.Publication) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Year, r.Authors, r.Title, r.DOI, doiURL(r), r.Venue}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records as indented JSON.
func WriteJSON(w io.Writer, records []types.Publication) error {
	if records == nil {
		records = []types.Publication{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteYAML writes records as a YAML list.
func WriteYAML(w io.Writer, records []types.Publication) error {
	if records == nil {
		records = []types.Publication{}
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(records)
}

// doiURL prefers the stored URL and derives it for records that predate
// resolution bookkeeping.
func doiURL(r types.Publication) string {
	if r.DOIURL != "" {
		return r.DOIURL
	}
	return resolve.DOIURL(r.DOI)
}

// WriteTable writes records as a human-readable table to w, followed
// by the DOI statistics line.
func WriteTable(w io.Writer, records []types.Publication) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No publications.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-4s  %-24s  %-50s  %-30s  %s\n",
		"#", "Year", "Authors", "Title", "DOI", "Venue")
	fmt.Fprintln(w, strings.Repeat("-", 130))

	found := 0
	for i, r := range records {
		if r.HasDOI() {
			found++
		}
		fmt.Fprintf(w, "%-4d  %-4s  %-24s  %-50s  %-30s  %s\n",
			i+1, r.Year, truncate(r.Authors, 24), truncate(r.Title, 50),
			truncate(r.DOI, 30), truncate(r.Venue, 30))
	}

	fmt.Fprintf(w, "\n%d publications, %d with DOI (%.1f%%)\n",
		len(records), found, float64(found)/float64(len(records))*100)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
