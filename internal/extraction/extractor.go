// Package extraction finds vocabulary terms in free-form text.
package extraction

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/BobuSumisu/aho-corasick"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/jonathan/skill-matcher/internal/vocabulary"
)

// acronymMaxLen is the longest term rendered in upper case rather than title case.
const acronymMaxLen = 3

// Extractor scans text for the terms of a vocabulary store.
// It is immutable after New and safe for concurrent use.
type Extractor struct {
	store *vocabulary.Store
	tries map[types.Category]*categoryTrie
}

type categoryTrie struct {
	trie  *ahocorasick.Trie
	terms []string
}

// New builds one automaton per category of the store.
func New(store *vocabulary.Store) *Extractor {
	e := &Extractor{
		store: store,
		tries: make(map[types.Category]*categoryTrie, len(types.AllCategories)),
	}
	for _, c := range types.AllCategories {
		terms := store.Terms(c)
		e.tries[c] = &categoryTrie{
			trie:  ahocorasick.NewTrieBuilder().AddStrings(terms).Build(),
			terms: terms,
		}
	}
	return e
}

// Store returns the vocabulary the extractor was built from.
func (e *Extractor) Store() *vocabulary.Store {
	return e.store
}

// Extract returns every vocabulary term that occurs in text as a whole word,
// plus a synthesized "N+ years" experience marker when the text states years of experience.
// It never fails; empty text yields four empty lists.
func (e *Extractor) Extract(text string) types.ExtractionResult {
	result := types.NewExtractionResult()
	if strings.TrimSpace(text) == "" {
		return result
	}

	lower := strings.ToLower(text)
	caser := TitleCaser()

	result.TechnicalSkills = e.find(lower, types.CategoryTechnical, caser)
	result.SoftSkills = e.find(lower, types.CategorySoft, caser)
	result.ExperienceKeywords = e.find(lower, types.CategoryExperience, caser)
	result.Education = e.find(lower, types.CategoryEducation, caser)

	if years, ok := MaxYears(lower); ok {
		marker := YearsMarker(years)
		if !contains(result.ExperienceKeywords, marker) {
			result.ExperienceKeywords = append(result.ExperienceKeywords, marker)
			sort.Strings(result.ExperienceKeywords)
		}
	}

	return result
}

// find returns the display forms of the category's terms found in lower, sorted.
func (e *Extractor) find(lower string, c types.Category, caser cases.Caser) []string {
	ct := e.tries[c]
	found := make(map[int]bool)

	for _, m := range ct.trie.MatchString(lower) {
		idx := int(m.Pattern())
		if found[idx] {
			continue
		}
		start := int(m.Pos())
		if isWholeWord(lower, start, start+len(ct.terms[idx])) {
			found[idx] = true
		}
	}

	display := make([]string, 0, len(found))
	for idx := range found {
		display = append(display, DisplayForm(ct.terms[idx], caser))
	}
	sort.Strings(display)
	return display
}

// DisplayForm renders a lowercase vocabulary term for output: short terms are
// treated as acronyms and upper-cased, longer ones are title-cased.
func DisplayForm(term string, caser cases.Caser) string {
	if len(term) <= acronymMaxLen {
		return strings.ToUpper(term)
	}
	return caser.String(term)
}

// TitleCaser returns a fresh English title caser. Casers carry state and must not be shared
// between goroutines.
func TitleCaser() cases.Caser {
	return cases.Title(language.English)
}

// TitleCase title-cases a skill name, e.g. "machine learning" -> "Machine Learning".
func TitleCase(s string) string {
	return TitleCaser().String(s)
}

// isWholeWord reports whether text[start:end] is not glued to a word character on either side.
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
