// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pubdoi: parsed
// publication records, lookup status, diagnostics, and configuration.
package types

import "strings"

// LookupStatus tracks a record through DOI resolution.
type LookupStatus string

const (
	StatusPending  LookupStatus = "pending"
	StatusFound    LookupStatus = "found"
	StatusNotFound LookupStatus = "not_found"
	StatusFailed   LookupStatus = "failed"
)

// Publication is one parsed bibliographic entry. Title is mandatory;
// every other field may be empty.
type Publication struct {
	// Year is the four-digit year from the entry marker.
	Year string `json:"year" yaml:"year"`

	// Authors is the free-text author block.
	Authors string `json:"authors" yaml:"authors"`

	// Title is the first double-quoted substring of the entry.
	Title string `json:"title" yaml:"title"`

	// Venue is the text following the title.
	Venue string `json:"venue" yaml:"venue"`

	// DOI is set once by batch resolution. Valid values begin with "10.".
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// DOIURL is derived from DOI and empty unless DOI is valid.
	DOIURL string `json:"doi_url,omitempty" yaml:"doi_url,omitempty"`

	// Status records the outcome of the lookup.
	Status LookupStatus `json:"status,omitempty" yaml:"status,omitempty"`

	// Similarity is the title similarity of the accepted candidate.
	Similarity float64 `json:"similarity,omitempty" yaml:"similarity,omitempty"`
}

// HasDOI reports whether the record carries a valid DOI.
func (p Publication) HasDOI() bool {
	return strings.HasPrefix(p.DOI, "10.")
}

// DiagnosticKind classifies a non-fatal problem.
type DiagnosticKind string

const (
	// DiagParseSkip marks an entry chunk dropped by the extractor.
	DiagParseSkip DiagnosticKind = "parse_skip"
	// DiagEmptyInput marks a text block with no entries at all.
	DiagEmptyInput DiagnosticKind = "empty_input"
	// DiagLookupFailure marks a lookup that failed at the network or
	// decoding level.
	DiagLookupFailure DiagnosticKind = "lookup_failure"
)

// Diagnostic is a warning collected alongside results for display.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind" yaml:"kind"`

	// Index is the chunk or record position the diagnostic refers to,
	// or -1 when it applies to the whole input.
	Index int `json:"index" yaml:"index"`

	// Snippet is a short excerpt of the offending input.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`

	Message string `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	if d.Snippet == "" {
		return d.Message
	}
	return d.Message + ": " + d.Snippet
}
