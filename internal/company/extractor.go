// Package company extracts employer-name candidates from insurance and
// employment record OCR text.
package company

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/every-mentor/mentorai/internal/textnorm"
)

// maxCandidates bounds the ranked result list.
const maxCandidates = 30

// Candidate is one deduplicated employer name with its ranking inputs.
type Candidate struct {
	Name      string `json:"name"`
	Frequency int    `json:"frequency"`
	Score     int    `json:"score"`
}

var (
	// Rows shaped "<name> <date> <date>", the enrollment-period table
	// layout of insurance records.
	dateRowRe = regexp.MustCompile(`^(.+?)\s+(\d{4}[-./]\d{1,2}[-./]\d{1,2})\s+(\d{4}[-./]\d{1,2}[-./]\d{1,2})`)

	corpMarkers = []string{"주식회사", "(주)", "㈜"}
)

// sectionLabels mark table headings and summary rows that never contain an
// employer name; date-row candidates containing one are dropped.
var sectionLabels = []string{
	"자격취득일", "자격상실일", "가입자구분", "적용년월",
	"발급일", "출력일", "조회기간", "합계", "총",
}

// roleLabels prefix employer names in per-person enrollment rows.
var roleLabels = []string{"직장가입자", "피부양자", "지역가입자"}

// Extractor finds employer-name candidates in OCR text.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor returns an Extractor.
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract runs three heuristic passes over the line-split text, normalizes
// and deduplicates the hits, and returns at most 30 candidates ranked by a
// composite score. A line claimed by an earlier pass is skipped by later
// passes so one row never counts twice.
func (e *Extractor) Extract(text string) []Candidate {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	claimed := make([]bool, len(lines))

	var raw []string
	raw = append(raw, dateRowCandidates(lines, claimed)...)
	raw = append(raw, markerLineCandidates(lines, claimed)...)
	raw = append(raw, labelLineCandidates(lines, claimed)...)

	type bucket struct {
		name string
		freq int
	}
	var order []string
	buckets := make(map[string]*bucket)
	for _, candidate := range raw {
		name := textnorm.NormalizeCompanyName(candidate)
		if len([]rune(name)) < 2 {
			continue
		}
		key := dedupeKey(name)
		if key == "" {
			continue
		}
		if b, ok := buckets[key]; ok {
			b.freq++
			continue
		}
		buckets[key] = &bucket{name: name, freq: 1}
		order = append(order, key)
	}

	candidates := make([]Candidate, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		candidates = append(candidates, Candidate{
			Name:      b.name,
			Frequency: b.freq,
			Score:     rankScore(b.name, b.freq),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	e.logger.Debug("company candidates extracted",
		"raw", len(raw), "deduplicated", len(candidates))
	return candidates
}

// dateRowCandidates captures the name column of "<name> <date> <date>" rows.
func dateRowCandidates(lines []string, claimed []bool) []string {
	var out []string
	for i, line := range lines {
		m := dateRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		claimed[i] = true
		if containsAny(line, sectionLabels) {
			continue
		}
		out = append(out, m[1])
	}
	return out
}

// markerLineCandidates captures lines carrying an explicit corporate-entity
// marker in prefix or suffix position.
func markerLineCandidates(lines []string, claimed []bool) []string {
	var out []string
	for i, line := range lines {
		if claimed[i] || line == "" || !hasCorpMarker(line) {
			continue
		}
		claimed[i] = true
		out = append(out, line)
	}
	return out
}

// labelLineCandidates captures the remainder of role-labeled rows and the
// text after a 사업장(명) heading.
func labelLineCandidates(lines []string, claimed []bool) []string {
	var out []string
	for i, line := range lines {
		if claimed[i] || line == "" {
			continue
		}
		matched := false
		for _, role := range roleLabels {
			if strings.HasPrefix(line, role) {
				rest := strings.TrimSpace(strings.TrimPrefix(line, role))
				if rest != "" {
					out = append(out, rest)
					matched = true
				}
				break
			}
		}
		if !matched {
			if idx := strings.Index(line, "사업장"); idx >= 0 {
				rest := line[idx+len("사업장"):]
				rest = strings.TrimPrefix(rest, "명칭")
				rest = strings.TrimPrefix(rest, "명")
				rest = strings.TrimLeft(rest, ": ")
				if strings.TrimSpace(rest) != "" {
					out = append(out, rest)
				}
			}
		}
	}
	return out
}

// dedupeKey strips whitespace and corporate markers so "(주) 이레특장" and
// "이레특장" collapse to one entry.
func dedupeKey(name string) string {
	key := textnorm.Compact(name)
	for _, m := range corpMarkers {
		key = strings.ReplaceAll(key, m, "")
	}
	return key
}

func rankScore(name string, freq int) int {
	score := 0
	if _, ok := wellKnownCompanies[name]; ok {
		score += 10000
	}
	upper := strings.ToUpper(name)
	for _, token := range knownCompanyTokens {
		if strings.Contains(upper, strings.ToUpper(token)) {
			score += 2000
			break
		}
	}
	if hasCorpMarker(name) {
		score += 200
	}
	if n := len([]rune(name)); n < 30 {
		score += n
	} else {
		score += 30
	}
	if freq < 10 {
		score += freq * 20
	} else {
		score += 200
	}
	return score
}

// hasCorpMarker reports whether s begins or ends with a corporate-entity
// marker. A marker buried mid-text (prose mentioning 주식회사) does not count.
func hasCorpMarker(s string) bool {
	for _, m := range corpMarkers {
		if strings.HasPrefix(s, m) || strings.HasSuffix(s, m) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
