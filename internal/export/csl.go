package export

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubdoi/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(w io.Writer, records []types.Publication) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(i, r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a Publication to a CSLItem. The ID is the DOI when
// present, otherwise a positional key.
func toCSLItem(i int, r types.Publication) CSLItem {
	item := CSLItem{
		ID:             fmt.Sprintf("pub%d", i+1),
		Type:           "article",
		Title:          r.Title,
		ContainerTitle: r.Venue,
		Author:         parseAuthors(r.Authors),
	}

	if y, err := strconv.Atoi(r.Year); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}

	if r.HasDOI() {
		item.ID = r.DOI
		item.DOI = r.DOI
		item.URL = doiURL(r)
	}
	return item
}

// authorSepRe splits an author block on "and", "&", or semicolons.
var authorSepRe = regexp.MustCompile(`\s*(?:;|&|\band\b)\s*`)

// parseAuthors splits a free-text author block into CSL names. Each part
// of the form "Family, Given" becomes a family/given pair; "et al." and
// anything else is kept as a literal.
func parseAuthors(block string) []CSLName {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}

	var names []CSLName
	for _, part := range authorSepRe.Split(block, -1) {
		part = strings.Trim(strings.TrimSpace(part), ",")
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		names = append(names, parseAuthorName(part))
	}
	return names
}

// parseAuthorName splits "Family, Given" on the first comma. Names
// without a comma use the literal field.
func parseAuthorName(name string) CSLName {
	family, given, ok := strings.Cut(name, ",")
	if !ok || strings.Contains(given, ",") {
		return CSLName{Literal: name}
	}
	return CSLName{
		Family: strings.TrimSpace(family),
		Given:  strings.TrimSpace(given),
	}
}
