package certs

import (
	"sort"
	"strings"

	"github.com/every-mentor/mentorai/internal/textnorm"
)

// Entry is one canonical certification and its ordered exam subjects.
type Entry struct {
	Name     string
	Subjects []string
}

// SubjectLine renders the entry as "name - subject, subject, ...".
func (e Entry) SubjectLine() string {
	return e.Name + " - " + strings.Join(e.Subjects, ", ")
}

// taxonomyEntries is the fixed certification table. Order defines the
// "all known subjects" listing; lookup goes through the built Taxonomy.
var taxonomyEntries = []Entry{
	{"전기기능사", []string{"전기이론", "전기기기", "전기설비"}},
	{"전기산업기사", []string{"전기자기학", "전기기기", "전력공학", "회로이론", "전기설비기준"}},
	{"전기기사", []string{"전기자기학", "전력공학", "전기기기", "회로이론및제어공학", "전기설비기술기준"}},
	{"공유압기능사", []string{"공유압일반", "기계일반", "전기일반"}},
	{"컴퓨터응용밀링기능사", []string{"기계가공법", "안전관리", "기계재료", "도면해독"}},
	{"컴퓨터응용선반기능사", []string{"기계가공법", "안전관리", "기계재료", "도면해독"}},
	{"정보처리기능사", []string{"전자계산기일반", "패키지활용", "정보통신일반"}},
	{"정보처리산업기사", []string{"데이터베이스", "전자계산기구조", "시스템분석설계", "운영체제", "정보통신개론"}},
	{"정보처리기사", []string{"소프트웨어설계", "소프트웨어개발", "데이터베이스구축", "프로그래밍언어활용", "정보시스템구축관리"}},
	{"지게차운전기능사", []string{"지게차주행", "화물적재및운반", "하역작업", "안전관리"}},
	{"굴착기운전기능사", []string{"굴착기조종", "점검", "안전관리"}},
	{"용접기능사", []string{"용접일반", "용접재료", "기계제도"}},
	{"특수용접기능사", []string{"용접일반", "용접재료", "기계제도"}},
	{"산업안전기사", []string{"안전관리론", "인간공학및시스템안전공학", "기계위험방지기술", "전기위험방지기술", "화학설비위험방지기술", "건설안전기술"}},
	{"한식조리기능사", []string{"한식재료관리", "음식조리", "위생관리"}},
}

// aliasEntries maps alternate or historical spellings to canonical names.
// Keys are compared both verbatim and whitespace-compacted.
var aliasEntries = map[string]string{
	"밀링기능사":        "컴퓨터응용밀링기능사",
	"선반기능사":        "컴퓨터응용선반기능사",
	"CNC밀링기능사":     "컴퓨터응용밀링기능사",
	"CNC선반기능사":     "컴퓨터응용선반기능사",
	"굴삭기운전기능사":     "굴착기운전기능사",
	"정보처리기사2급":     "정보처리산업기사",
	"전기공사기능사":      "전기기능사",
	"아크용접기능사":      "용접기능사",
	"가스텅스텐아크용접기능사": "특수용접기능사",
}

// Taxonomy is the read-only lookup structure built from the static tables.
type Taxonomy struct {
	entries   []Entry
	byName    map[string]Entry
	byCompact map[string]string // compacted canonical -> canonical
	aliases   map[string]string // compacted alias -> canonical
}

// NewTaxonomy builds the default certification taxonomy.
func NewTaxonomy() *Taxonomy {
	t := &Taxonomy{
		entries:   taxonomyEntries,
		byName:    make(map[string]Entry, len(taxonomyEntries)),
		byCompact: make(map[string]string, len(taxonomyEntries)),
		aliases:   make(map[string]string, len(aliasEntries)),
	}
	for _, e := range taxonomyEntries {
		t.byName[e.Name] = e
		t.byCompact[textnorm.Compact(e.Name)] = e.Name
	}
	for alias, canonical := range aliasEntries {
		t.aliases[textnorm.Compact(alias)] = canonical
	}
	return t
}

// Lookup returns the entry for a canonical name.
func (t *Taxonomy) Lookup(name string) (Entry, bool) {
	e, ok := t.byName[name]
	return e, ok
}

// LookupCompacted resolves a whitespace-compacted spelling to its canonical
// name.
func (t *Taxonomy) LookupCompacted(compacted string) (string, bool) {
	name, ok := t.byCompact[compacted]
	return name, ok
}

// LookupAlias resolves a compacted alias to its canonical name.
func (t *Taxonomy) LookupAlias(compacted string) (string, bool) {
	name, ok := t.aliases[compacted]
	return name, ok
}

// Entries returns the taxonomy in declaration order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns all canonical names, sorted.
func (t *Taxonomy) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllSubjectLines renders every entry as a subject line, in table order.
func (t *Taxonomy) AllSubjectLines() []string {
	lines := make([]string, len(t.entries))
	for i, e := range t.entries {
		lines[i] = e.SubjectLine()
	}
	return lines
}
