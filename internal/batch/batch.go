// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the two-step publication flow: parse a text block
// into a session, then resolve each record's DOI in a strict sequential
// loop with a pacing delay between lookups.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/pubdoi/internal/extract"
	"github.com/pdiddy/pubdoi/internal/httputil"
	"github.com/pdiddy/pubdoi/internal/resolve"
	"github.com/pdiddy/pubdoi/pkg/types"
)

// ErrNoPublications is returned when a text block yields no records.
// The flow must stop before resolution.
var ErrNoPublications = errors.New("no publications found in the input")

// Lookup resolves one record. *resolve.Resolver satisfies it.
type Lookup interface {
	Resolve(ctx context.Context, q resolve.Query) resolve.Match
}

// Progress is called after each record is resolved with the 1-based
// count of processed records.
type Progress func(done, total int, rec types.Publication)

// Session holds the state of one parse/resolve flow. It is owned by a
// single caller; nothing in it is safe for concurrent use.
type Session struct {
	Name        string
	Records     []types.Publication
	Diagnostics []types.Diagnostic
	Resolved    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSession returns an empty session named name.
func NewSession(name string) *Session {
	now := time.Now().UTC()
	return &Session{Name: name, CreatedAt: now, UpdatedAt: now}
}

// Parse replaces the session's records with those extracted from text.
// It returns ErrNoPublications when nothing could be parsed; the
// session then holds no records.
func (s *Session) Parse(text string) error {
	return s.load(extract.Publications(text))
}

// ParseReader is Parse for an uploaded file or stdin.
func (s *Session) ParseReader(r io.Reader) error {
	res, err := extract.Read(r)
	if err != nil {
		return err
	}
	return s.load(res)
}

// ParseFile is Parse for a file on disk.
func (s *Session) ParseFile(path string) error {
	res, err := extract.ReadFile(path)
	if err != nil {
		return err
	}
	return s.load(res)
}

func (s *Session) load(res extract.Result) error {
	s.Records = res.Records
	s.Diagnostics = res.Diagnostics
	s.Resolved = false
	s.UpdatedAt = time.Now().UTC()
	if res.Empty() {
		return ErrNoPublications
	}
	return nil
}

// Summary holds the outcome of a resolution pass.
type Summary struct {
	Total    int
	Found    int
	NotFound int
	Failed   int
}

// Processed returns the number of records that were looked up.
func (s Summary) Processed() int {
	return s.Found + s.NotFound + s.Failed
}

// Percent returns the share of records with a DOI, 0-100.
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Found) / float64(s.Total) * 100
}

func (s Summary) String() string {
	return fmt.Sprintf("DOIs found: %d out of %d publications (%.1f%%)", s.Found, s.Total, s.Percent())
}

// Resolve looks up every record in order, one at a time, waiting on
// pacer between consecutive lookups. Each record's DOI fields are set
// once. Failed lookups are recorded as diagnostics and the loop moves
// on. If ctx is cancelled the loop stops and the partial summary is
// returned with ctx.Err(); records not reached stay pending.
func (s *Session) Resolve(ctx context.Context, lookup Lookup, pacer httputil.Pacer, progress Progress) (Summary, error) {
	if len(s.Records) == 0 {
		return Summary{}, ErrNoPublications
	}
	if pacer == nil {
		pacer = httputil.NoDelay{}
	}

	sum := Summary{Total: len(s.Records)}
	for i := range s.Records {
		var err error
		if i > 0 {
			err = pacer.Wait(ctx)
		}
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			s.UpdatedAt = time.Now().UTC()
			return sum, err
		}

		rec := &s.Records[i]
		m := lookup.Resolve(ctx, resolve.Query{Title: rec.Title, Authors: rec.Authors, Year: rec.Year})
		apply(rec, m)

		switch {
		case rec.HasDOI():
			sum.Found++
		case m.Status == types.StatusFailed:
			sum.Failed++
			s.Diagnostics = append(s.Diagnostics, types.Diagnostic{
				Kind:    types.DiagLookupFailure,
				Index:   i,
				Snippet: rec.Title,
				Message: m.Warning,
			})
		default:
			sum.NotFound++
		}

		if progress != nil {
			progress(i+1, len(s.Records), *rec)
		}
	}

	s.Resolved = true
	s.UpdatedAt = time.Now().UTC()
	return sum, nil
}

// apply copies a lookup outcome onto the record.
func apply(rec *types.Publication, m resolve.Match) {
	rec.DOI = m.DOI
	rec.DOIURL = resolve.DOIURL(m.DOI)
	rec.Similarity = m.Similarity
	switch {
	case rec.DOIURL != "":
		rec.Status = types.StatusFound
	case m.Status == types.StatusFailed:
		rec.Status = types.StatusFailed
	default:
		rec.Status = types.StatusNotFound
	}
}

// Stats is the quick overview of a session.
type Stats struct {
	Total    int
	Found    int
	NotFound int
}

// Stats counts records with and without a DOI.
func (s *Session) Stats() Stats {
	st := Stats{Total: len(s.Records)}
	for _, r := range s.Records {
		if r.HasDOI() {
			st.Found++
		}
	}
	st.NotFound = st.Total - st.Found
	return st
}

// Warnings returns diagnostics of the given kinds, or all when none given.
func (s *Session) Warnings(kinds ...types.DiagnosticKind) []types.Diagnostic {
	if len(kinds) == 0 {
		return s.Diagnostics
	}
	var out []types.Diagnostic
	for _, d := range s.Diagnostics {
		for _, k := range kinds {
			if d.Kind == k {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
