package textnorm

import (
	"regexp"
	"strings"
)

var (
	// Bare digit runs of 10+ cover phone numbers, account numbers, and
	// unhyphenated resident registration numbers.
	longDigitRunRe = regexp.MustCompile(`\d{10,}`)
	// Hyphenated Korean resident registration number: birth date stays,
	// the identifying half is redacted.
	residentNumberRe = regexp.MustCompile(`(\d{6})-\d{7}`)
)

// MaskSensitiveText redacts resident-registration-number-shaped sequences and
// long bare digit runs. Long runs are checked first so an unhyphenated RRN
// inside a longer run is fully redacted rather than partially.
func MaskSensitiveText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	t := longDigitRunRe.ReplaceAllStringFunc(text, func(m string) string {
		return strings.Repeat("*", len(m))
	})
	return residentNumberRe.ReplaceAllString(t, "${1}-*******")
}
