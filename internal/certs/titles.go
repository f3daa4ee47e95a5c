package certs

import (
	"regexp"

	"github.com/every-mentor/mentorai/internal/textnorm"
)

// Longer grade suffixes first so "산업기사" is not clipped to "기사".
var titleRe = regexp.MustCompile(`[가-힣]{2,30}?(기능사|산업기사|기술사|기사)`)

// ExtractTitleCandidates scans OCR text for certification-title shapes:
// 2-30 Hangul characters ending in a national-certification grade suffix.
// The text is whitespace-compacted first, so titles broken across spaces or
// line wraps still match. Results are typo-normalized and deduplicated,
// first-seen order preserved.
func ExtractTitleCandidates(text string) []string {
	compacted := textnorm.Compact(textnorm.NormalizeCertificateBlob(text))
	if compacted == "" {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	for _, m := range titleRe.FindAllString(compacted, -1) {
		normalized := textnorm.NormalizeCertificateName(m)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
