package search

import (
	"strings"

	"golang.org/x/text/width"
)

const (
	corporateForm = "株式会社"
	holdings      = "ホールディングス"
	group         = "グループ"
)

// AliasCandidates expands a company name into the notation variants filers
// use on EDINET, ordered most-specific-first: the full legal form leads,
// progressively looser forms follow. Width variants (full-width ASCII,
// half-width katakana) are folded before expansion. The result is
// de-duplicated preserving first occurrence.
func AliasCandidates(name string) []string {
	base := width.Fold.String(strings.TrimSpace(name))
	if base == "" {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	if strings.Contains(base, corporateForm) {
		add(base)
		add(strings.ReplaceAll(base, corporateForm, ""))
	} else {
		add(base + corporateForm)
		add(corporateForm + base)
		add(base)
	}

	// Holdings companies file under either corporate-group notation.
	if strings.Contains(base, holdings) {
		add(strings.ReplaceAll(base, holdings, group))
		add(strings.ReplaceAll(base, holdings, ""))
	} else if strings.Contains(base, group) {
		add(strings.ReplaceAll(base, group, holdings))
		add(strings.ReplaceAll(base, group, ""))
	}

	return out
}
