// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import "strings"

// doiBase is the doi.org resolver prefix used for DOI URLs.
const doiBase = "https://doi.org/"

// DOIURL returns the doi.org URL for doi, or an empty string when doi is
// empty or does not start with "10.".
func DOIURL(doi string) string {
	if doi != "" && strings.HasPrefix(doi, "10.") {
		return doiBase + doi
	}
	return ""
}

// NormalizeDOI strips resolver URL and "doi:" prefixes and surrounding
// whitespace from a DOI as registries and users sometimes return it.
func NormalizeDOI(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}
