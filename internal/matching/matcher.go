// Package matching scores a source document against a target document from the
// skills and experience markers extracted from both.
package matching

import (
	"math"
	"sort"

	"golang.org/x/text/cases"

	"github.com/jonathan/skill-matcher/internal/extraction"
	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/jonathan/skill-matcher/internal/vocabulary"
)

// Fixed scoring weights
const (
	TechnicalWeight  = 0.7
	SoftWeight       = 0.3
	SkillWeight      = 0.7
	ExperienceWeight = 0.3
)

// IndeterminateExperienceScore is used when neither a years value nor a seniority level
// can be read from both sides. It is a heuristic "assume rough fit", not a measurement.
const IndeterminateExperienceScore = 0.7

// Matcher compares documents using one vocabulary. It holds no mutable state.
type Matcher struct {
	store     *vocabulary.Store
	extractor *extraction.Extractor
}

// New creates a Matcher. The extractor must have been built from the same store.
func New(store *vocabulary.Store, extractor *extraction.Extractor) *Matcher {
	return &Matcher{store: store, extractor: extractor}
}

// Extractor returns the extractor used by Match.
func (m *Matcher) Extractor() *extraction.Extractor {
	return m.extractor
}

// Match extracts both texts and scores source against target.
func (m *Matcher) Match(source, target string) types.MatchResult {
	return m.MatchExtracted(m.extractor.Extract(source), m.extractor.Extract(target))
}

// MatchExtracted scores already extracted documents.
func (m *Matcher) MatchExtracted(src, tgt types.ExtractionResult) types.MatchResult {
	caser := extraction.TitleCaser()

	matchedTech, missingTech := m.compare(src.TechnicalSkills, tgt.TechnicalSkills, caser)
	matchedSoft, missingSoft := m.compare(src.SoftSkills, tgt.SoftSkills, caser)

	techScore := categoryScore(len(matchedTech), len(matchedTech)+len(missingTech))
	softScore := categoryScore(len(matchedSoft), len(matchedSoft)+len(missingSoft))
	skillScore := techScore*TechnicalWeight + softScore*SoftWeight
	expScore := m.experienceScore(src.ExperienceKeywords, tgt.ExperienceKeywords)
	overall := skillScore*SkillWeight + expScore*ExperienceWeight

	return types.MatchResult{
		OverallScore:         toPercent(overall),
		SkillMatchScore:      toPercent(skillScore),
		ExperienceMatchScore: toPercent(expScore),
		MatchedSkills:        union(matchedTech, matchedSoft),
		MissingSkills:        union(missingTech, missingSoft),
		SkillCategories: types.SkillCategories{
			MatchedTechnical: matchedTech,
			MissingTechnical: missingTech,
			MatchedSoft:      matchedSoft,
			MissingSoft:      missingSoft,
			ResumeTechnical:  clone(src.TechnicalSkills),
			ResumeSoft:       clone(src.SoftSkills),
			JobTechnical:     clone(tgt.TechnicalSkills),
			JobSoft:          clone(tgt.SoftSkills),
		},
	}
}

// compare returns the title-cased canonical names of target skills present and absent in source.
func (m *Matcher) compare(source, target []string, caser cases.Caser) (matched, missing []string) {
	have := make(map[string]bool, len(source))
	for _, skill := range source {
		have[m.store.Canonical(skill)] = true
	}

	matched, missing = []string{}, []string{}
	seen := make(map[string]bool, len(target))
	for _, skill := range target {
		canonical := m.store.Canonical(skill)
		if seen[canonical] {
			continue
		}
		seen[canonical] = true

		name := caser.String(canonical)
		if have[canonical] {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	return matched, missing
}

// experienceScore compares experience keywords: years first, then seniority level,
// then IndeterminateExperienceScore.
func (m *Matcher) experienceScore(source, target []string) float64 {
	if len(target) == 0 {
		return 1.0
	}

	srcYears, srcOK := extraction.LeadingYears(source)
	tgtYears, tgtOK := extraction.LeadingYears(target)
	if srcOK && tgtOK {
		if srcYears >= tgtYears {
			return 1.0
		}
		return math.Max(0, float64(srcYears)/float64(tgtYears))
	}

	srcRank, srcOK := m.highestRank(source)
	tgtRank, tgtOK := m.highestRank(target)
	if srcOK && tgtOK {
		if srcRank >= tgtRank {
			return 1.0
		}
		return float64(srcRank+1) / float64(tgtRank+1)
	}

	return IndeterminateExperienceScore
}

func (m *Matcher) highestRank(keywords []string) (int, bool) {
	best, found := 0, false
	for _, keyword := range keywords {
		if rank, ok := m.store.SeniorityRank(keyword); ok && (!found || rank > best) {
			best, found = rank, true
		}
	}
	return best, found
}

// categoryScore is the share of required skills that were matched; nothing required scores 1.0.
func categoryScore(matched, required int) float64 {
	if required == 0 {
		return 1.0
	}
	return math.Min(1.0, float64(matched)/float64(required))
}

// toPercent scales a 0-1 score to 0-100 with one decimal, rounding half away from zero.
func toPercent(score float64) float64 {
	return math.Round(score*1000) / 10
}

func union(first, second []string) []string {
	out := make([]string, 0, len(first)+len(second))
	seen := make(map[string]bool, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

func clone(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
