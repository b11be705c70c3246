// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract splits a free-text publication list into structured
// records. Entries are expected in the form
//
//	YEAR - Authors. "Title". Venue[. Additional text]
//
// Anything that does not fit is skipped and reported as a diagnostic;
// extraction itself never fails.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pdiddy/pubdoi/pkg/types"
)

// space matches Unicode whitespace. RE2's \s is ASCII only, so pasted
// text with non-breaking or other Unicode spaces needs the wider class.
const space = `[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]`

var (
	// entryStartRe marks where a new entry begins: four digits, optional
	// whitespace, and a hyphen. The split keeps the marker with the entry
	// that follows it.
	entryStartRe = regexp.MustCompile(`\d{4}` + space + `*-`)

	// yearMarkerRe matches the year marker at the start of an entry.
	yearMarkerRe = regexp.MustCompile(`^(\d{4})` + space + `*-` + space + `*`)

	// titleRe matches the first double-quoted substring.
	titleRe = regexp.MustCompile(`"([^"]+)"`)
)

// snippetLen bounds the excerpt stored with a parse diagnostic.
const snippetLen = 100

// Result holds the records parsed from one text block and the chunks
// that were skipped.
type Result struct {
	Records     []types.Publication
	Diagnostics []types.Diagnostic
}

// Empty reports whether no publications were found.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Publications parses text into records in source order. Chunks without
// a leading year marker or a quoted title are dropped with a diagnostic.
func Publications(text string) Result {
	var res Result
	for i, chunk := range SplitEntries(text) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		pub, reason := parseEntry(chunk)
		if reason != "" {
			res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
				Kind:    types.DiagParseSkip,
				Index:   i,
				Snippet: snippet(chunk),
				Message: "skipped entry: " + reason,
			})
			continue
		}
		res.Records = append(res.Records, pub)
	}

	if len(res.Records) == 0 {
		res.Diagnostics = append(res.Diagnostics, types.Diagnostic{
			Kind:    types.DiagEmptyInput,
			Index:   -1,
			Message: "no publications found in the input",
		})
	}
	return res
}

// Read parses publications from r. Invalid UTF-8 sequences are replaced
// rather than rejected.
func Read(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading publication list: %w", err)
	}
	return Publications(string(bytes.ToValidUTF8(data, []byte("�")))), nil
}

// ReadFile parses publications from the file at path.
func ReadFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// SplitEntries cuts text at every year marker. The text before the
// first marker, if any, is returned as the first chunk.
func SplitEntries(text string) []string {
	locs := entryStartRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}

	chunks := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			chunks = append(chunks, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	return append(chunks, text[prev:])
}

// parseEntry extracts the fields of a single trimmed chunk. It returns
// a non-empty reason when the chunk is not a publication.
func parseEntry(chunk string) (types.Publication, string) {
	year := yearMarkerRe.FindStringSubmatchIndex(chunk)
	if year == nil {
		return types.Publication{}, "no year marker"
	}

	title := titleRe.FindStringSubmatchIndex(chunk)
	if title == nil {
		return types.Publication{}, "no quoted title"
	}

	// The title can only follow the marker since the marker anchors the chunk.
	pub := types.Publication{
		Year:    chunk[year[2]:year[3]],
		Title:   strings.TrimSpace(chunk[title[2]:title[3]]),
		Authors: strings.TrimRight(strings.TrimSpace(chunk[year[1]:title[0]]), "."),
		Venue:   cleanVenue(chunk[title[1]:]),
		Status:  types.StatusPending,
	}
	if pub.Title == "" {
		return types.Publication{}, "empty title"
	}
	return pub, ""
}

// cleanVenue trims whitespace and the periods that separate the venue
// from the title and end the entry.
func cleanVenue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "."))
}

func snippet(s string) string {
	r := []rune(s)
	if len(r) <= snippetLen {
		return s
	}
	return string(r[:snippetLen]) + "..."
}
