package certs

import (
	"github.com/agext/levenshtein"

	"github.com/every-mentor/mentorai/internal/textnorm"
)

// Source records which resolution stage produced a match.
type Source string

const (
	SourceExact      Source = "exact"
	SourceAlias      Source = "alias"
	SourceCompacted  Source = "compacted"
	SourceFuzzy      Source = "fuzzy"
	SourceUnresolved Source = "unresolved"
)

// Resolution is the outcome of resolving one candidate name.
type Resolution struct {
	Input     string `json:"input"`
	Canonical string `json:"canonical,omitempty"`
	Source    Source `json:"source"`
}

// Resolved reports whether the candidate mapped to a canonical name.
func (r Resolution) Resolved() bool { return r.Source != SourceUnresolved }

// Matcher scores string similarity as a 0-100 ratio. A nil Matcher disables
// the fuzzy resolution stage.
type Matcher interface {
	Ratio(a, b string) int
}

// LevenshteinMatcher scores by normalized edit similarity.
type LevenshteinMatcher struct {
	params *levenshtein.Params
}

// NewLevenshteinMatcher returns a matcher with default edit costs.
func NewLevenshteinMatcher() *LevenshteinMatcher {
	return &LevenshteinMatcher{params: levenshtein.NewParams()}
}

// Ratio returns the similarity of a and b scaled to 0-100.
func (m *LevenshteinMatcher) Ratio(a, b string) int {
	return int(levenshtein.Similarity(a, b, m.params)*100 + 0.5)
}

// Resolver maps noisy certificate names onto the taxonomy.
type Resolver struct {
	taxonomy  *Taxonomy
	matcher   Matcher
	threshold int
}

// NewResolver builds a resolver over the taxonomy. matcher may be nil, which
// skips fuzzy matching.
func NewResolver(taxonomy *Taxonomy, matcher Matcher) *Resolver {
	return &Resolver{taxonomy: taxonomy, matcher: matcher, threshold: 90}
}

// Taxonomy exposes the underlying certification table.
func (r *Resolver) Taxonomy() *Taxonomy { return r.taxonomy }

// Resolve maps a free-text candidate to a canonical certification name.
// Stages, first match wins: exact after typo normalization, alias,
// whitespace-compacted canonical, fuzzy similarity at or above the threshold.
func (r *Resolver) Resolve(candidate string) Resolution {
	normalized := textnorm.NormalizeCertificateName(candidate)
	res := Resolution{Input: candidate, Source: SourceUnresolved}
	if normalized == "" {
		return res
	}

	if _, ok := r.taxonomy.Lookup(normalized); ok {
		res.Canonical = normalized
		res.Source = SourceExact
		return res
	}

	compacted := textnorm.Compact(normalized)

	if canonical, ok := r.taxonomy.LookupAlias(compacted); ok {
		res.Canonical = canonical
		res.Source = SourceAlias
		return res
	}

	if canonical, ok := r.taxonomy.LookupCompacted(compacted); ok {
		res.Canonical = canonical
		res.Source = SourceCompacted
		return res
	}

	if r.matcher != nil {
		best, bestRatio := "", 0
		for _, e := range r.taxonomy.Entries() {
			ratio := r.matcher.Ratio(compacted, textnorm.Compact(e.Name))
			if ratio > bestRatio {
				best, bestRatio = e.Name, ratio
			}
		}
		if bestRatio >= r.threshold {
			res.Canonical = best
			res.Source = SourceFuzzy
			return res
		}
	}

	return res
}
