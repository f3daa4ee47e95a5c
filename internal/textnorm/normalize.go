// Package textnorm corrects known OCR misreads in Korean certificate and
// company names and redacts sensitive numeric patterns. All functions are
// pure and total: empty or whitespace-only input yields "".
package textnorm

import (
	"regexp"
	"strings"
)

// certificateReplacements fixes common Tesseract confusions in certificate
// titles. Order matters: entries are applied first to last.
var certificateReplacements = []struct {
	from, to string
}{
	{"일링", "밀링"},
	{"공유암", "공유압"},
	{"산엄", "산업"},
	{"산엽", "산업"},
	{"기농사", "기능사"},
	{"기눙사", "기능사"},
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeCertificateName applies the fixed OCR-typo replacement list and
// compacts interior whitespace. Idempotent.
func NormalizeCertificateName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, r := range certificateReplacements {
		s = strings.ReplaceAll(s, r.from, r.to)
	}
	return collapseSpaces(s)
}

// Spaced-out misreads only get corrected when the full surrounding title
// context matches; anything looser produces false corrections on unrelated
// text.
var (
	spacedMillingRe = regexp.MustCompile(`컴퓨터\s*응용\s*[일밀]\s*링\s*기능사`)
	spacedHydraulRe = regexp.MustCompile(`공\s*유\s*[암압]\s*기능사`)
)

// NormalizeCertificateBlob repairs two known spaced-out OCR failure patterns
// inside a larger text blob. Conservative: only exact title contexts match.
func NormalizeCertificateBlob(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	t := spacedMillingRe.ReplaceAllString(text, "컴퓨터응용밀링기능사")
	t = spacedHydraulRe.ReplaceAllString(t, "공유압기능사")
	return t
}

var (
	leadingIndexRe = regexp.MustCompile(`^\d{1,3}[.)]?\s+`)
	corpParenRe    = regexp.MustCompile(`\(\s*주\s*\)`)
	embeddedDateRe = regexp.MustCompile(`\d{4}\s?[.\-/]\s?\d{1,2}\s?[.\-/]\s?\d{1,2}\.?`)
	companyCharRe  = regexp.MustCompile(`[^가-힣a-zA-Z0-9()\- ]`)
)

// rolePrefixes are insurance enrollment labels that leak in front of employer
// names in table rows.
var rolePrefixes = []string{"직장가입자", "피부양자", "지역가입자"}

// headerLabels are column headings that OCR sometimes glues onto the row text.
var headerLabels = []string{"사업장명칭", "사업장명", "상호명", "가입자구분", "자격취득일", "자격상실일"}

// NormalizeCompanyName cleans one employer-name candidate from insurance OCR
// text: table indices, role prefixes, header leakage, and embedded dates are
// stripped, corporate-entity markers collapse to "(주)", and the character
// set is restricted to Hangul/Latin/digits/parens/hyphen/space. The cleanup
// runs to a fixed point: one pass can expose more leakage (a second table
// index behind the first, an index behind a role prefix, an index uncovered
// by a stripped date), so a single pass is not idempotent. Idempotent.
func NormalizeCompanyName(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for {
		cleaned := cleanCompanyName(s)
		if cleaned == s {
			return cleaned
		}
		s = cleaned
	}
}

func cleanCompanyName(s string) string {
	s = leadingIndexRe.ReplaceAllString(s, "")
	for _, p := range rolePrefixes {
		s = strings.TrimSpace(strings.TrimPrefix(s, p))
	}
	for _, l := range headerLabels {
		s = strings.ReplaceAll(s, l, " ")
	}
	s = corpParenRe.ReplaceAllString(s, "(주)")
	s = strings.ReplaceAll(s, "주식회사", "(주)")
	s = strings.ReplaceAll(s, "㈜", "(주)")
	s = embeddedDateRe.ReplaceAllString(s, " ")
	s = companyCharRe.ReplaceAllString(s, " ")
	return collapseSpaces(s)
}

// Compact removes all whitespace. Used for whitespace-insensitive comparison.
func Compact(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
