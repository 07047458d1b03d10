// Package vocabulary holds the curated term sets, synonym table and recommendation
// tables the extraction, matching and recommendation engines read from.
// A Store is immutable once built and safe for concurrent reads.
package vocabulary

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jonathan/skill-matcher/internal/schemas"
	"github.com/jonathan/skill-matcher/internal/types"
)

//go:embed vocabulary.json vocabulary.schema.json
var files embed.FS

// DefaultPriority is used for skills absent from the priority table.
const DefaultPriority = 5

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

// document is the on-disk shape of a vocabulary file.
type document struct {
	Version     string            `json:"version"`
	Technical   []string          `json:"technical"`
	Soft        []string          `json:"soft"`
	Experience  []string          `json:"experience"`
	Education   []string          `json:"education"`
	Synonyms    map[string]string `json:"synonyms"`
	Priorities  map[string]int    `json:"priorities"`
	Tips        map[string]string `json:"tips"`
	SoftMarkers []string          `json:"soft_markers"`
	Seniority   map[string]int    `json:"seniority"`
}

// Entry is a vocabulary term tagged with its category.
type Entry struct {
	Term     string         `json:"term"`
	Category types.Category `json:"category"`
}

// Store is a loaded vocabulary.
type Store struct {
	version     string
	terms       map[types.Category][]string
	index       map[string][]types.Category
	synonyms    map[string]string
	priorities  map[string]int
	tips        map[string]string
	softMarkers []string
	seniority   map[string]int
}

// Default returns the store built from the embedded vocabulary.
// It panics if the embedded document is invalid, which tests rule out.
func Default() *Store {
	defaultStoreOnce.Do(func() {
		data, err := files.ReadFile("vocabulary.json")
		if err != nil {
			panic(fmt.Sprintf("failed to read embedded vocabulary: %v", err))
		}
		store, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("invalid embedded vocabulary: %v", err))
		}
		defaultStore = store
	})
	return defaultStore
}

// Load reads and validates a vocabulary file from disk.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}
	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("vocabulary file %s: %w", path, err)
	}
	return store, nil
}

// Schema returns the JSON schema vocabulary documents are validated against.
func Schema() []byte {
	data, err := files.ReadFile("vocabulary.schema.json")
	if err != nil {
		panic(fmt.Sprintf("failed to read embedded vocabulary schema: %v", err))
	}
	return data
}

// Parse validates a vocabulary document against the schema and builds a Store.
func Parse(data []byte) (*Store, error) {
	if err := schemas.Validate("vocabulary", Schema(), data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary JSON: %w", err)
	}

	s := &Store{
		version:     doc.Version,
		terms:       make(map[types.Category][]string, len(types.AllCategories)),
		index:       make(map[string][]types.Category),
		synonyms:    lowerKeys(doc.Synonyms, strings.ToLower),
		priorities:  make(map[string]int, len(doc.Priorities)),
		tips:        lowerKeys(doc.Tips, func(v string) string { return v }),
		softMarkers: normalizeTerms(doc.SoftMarkers),
		seniority:   make(map[string]int, len(doc.Seniority)),
	}

	raw := map[types.Category][]string{
		types.CategoryTechnical:  doc.Technical,
		types.CategorySoft:       doc.Soft,
		types.CategoryExperience: doc.Experience,
		types.CategoryEducation:  doc.Education,
	}
	for _, c := range types.AllCategories {
		terms := normalizeTerms(raw[c])
		s.terms[c] = terms
		for _, term := range terms {
			s.index[term] = append(s.index[term], c)
		}
	}

	for skill, priority := range doc.Priorities {
		s.priorities[normalizeTerm(skill)] = priority
	}
	for level, rank := range doc.Seniority {
		s.seniority[normalizeTerm(level)] = rank
	}

	return s, nil
}

// Version returns the vocabulary document version.
func (s *Store) Version() string {
	return s.version
}

// Terms returns the sorted, unique terms of a category. Callers must not modify the slice.
func (s *Store) Terms(c types.Category) []string {
	return s.terms[c]
}

// Entries returns every term with its category tag, in category then term order.
func (s *Store) Entries() []Entry {
	entries := make([]Entry, 0, len(s.index))
	for _, c := range types.AllCategories {
		for _, term := range s.terms[c] {
			entries = append(entries, Entry{Term: term, Category: c})
		}
	}
	return entries
}

// Categories returns every category a term is listed under.
func (s *Store) Categories(term string) []types.Category {
	return s.index[normalizeTerm(term)]
}

// Canonical lowercases a skill name and maps it through the synonym table.
func (s *Store) Canonical(skill string) string {
	lower := normalizeTerm(skill)
	if canonical, ok := s.synonyms[lower]; ok {
		return canonical
	}
	return lower
}

// CategoryOf resolves whether a skill is a technical or soft skill from its vocabulary tag.
// Both the canonical and the raw spelling are looked up.
func (s *Store) CategoryOf(skill string) (types.Category, bool) {
	for _, key := range []string{s.Canonical(skill), normalizeTerm(skill)} {
		for _, c := range s.index[key] {
			if c == types.CategoryTechnical || c == types.CategorySoft {
				return c, true
			}
		}
	}
	return 0, false
}

// IsSoftByMarker reports whether a skill name contains one of the soft-skill marker phrases.
func (s *Store) IsSoftByMarker(skill string) bool {
	lower := strings.ToLower(skill)
	for _, marker := range s.softMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// Priority returns the demand priority (1-10) of a skill, DefaultPriority when unlisted.
func (s *Store) Priority(skill string) int {
	if priority, ok := s.priorities[s.Canonical(skill)]; ok {
		return priority
	}
	return DefaultPriority
}

// Tip returns the curated learning tip for a skill.
func (s *Store) Tip(skill string) (string, bool) {
	tip, ok := s.tips[s.Canonical(skill)]
	return tip, ok
}

// SeniorityLadder returns a copy of the seniority level ranks.
func (s *Store) SeniorityLadder() map[string]int {
	ladder := make(map[string]int, len(s.seniority))
	for level, rank := range s.seniority {
		ladder[level] = rank
	}
	return ladder
}

// SeniorityRank returns the highest ladder rank whose level name occurs in keyword.
func (s *Store) SeniorityRank(keyword string) (int, bool) {
	lower := strings.ToLower(keyword)
	best, found := 0, false
	for level, rank := range s.seniority {
		if strings.Contains(lower, level) && (!found || rank > best) {
			best, found = rank, true
		}
	}
	return best, found
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// normalizeTerms lowercases, drops empties and duplicates, and sorts.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, term := range terms {
		term = normalizeTerm(term)
		if term == "" || seen[term] {
			continue
		}
		seen[term] = true
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

func lowerKeys(m map[string]string, value func(string) string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[normalizeTerm(k)] = value(strings.TrimSpace(v))
	}
	return out
}
