// Package recommend turns a match result into ranked learning suggestions,
// resume improvement tips and an overall assessment.
package recommend

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/jonathan/skill-matcher/internal/matching"
	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/jonathan/skill-matcher/internal/vocabulary"
)

const (
	// MaxSuggestions is the number of missing skills that get a suggestion.
	MaxSuggestions = 5
	// MaxResumeImprovements caps the resume tips; later groups are dropped first.
	MaxResumeImprovements = 6
	// HighPriorityThreshold is the lowest priority tagged High.
	HighPriorityThreshold = 8
	// manyMissingTechnical is the missing technical count above which a skills-section tip is added.
	manyMissingTechnical = 5
	// weakExperienceScore is the experience score below which an experience tip is added.
	weakExperienceScore = 70.0
)

const genericTipFormat = "Consider learning %s through online courses, tutorials, or hands-on projects."

// Recommender derives recommendations from match results.
type Recommender struct {
	store   *vocabulary.Store
	matcher *matching.Matcher
}

// New creates a Recommender. The matcher must have been built from the same store.
func New(store *vocabulary.Store, matcher *matching.Matcher) *Recommender {
	return &Recommender{store: store, matcher: matcher}
}

// Recommend matches source against target and builds the recommendation.
func (r *Recommender) Recommend(source, target string) types.Recommendation {
	return r.FromMatch(r.matcher.Match(source, target))
}

// FromMatch builds a recommendation from an existing match result. It is total over any result.
func (r *Recommender) FromMatch(match types.MatchResult) types.Recommendation {
	ranked := r.rank(match.MissingSkills)
	if len(ranked) > MaxSuggestions {
		ranked = ranked[:MaxSuggestions]
	}

	suggestions := make([]types.Suggestion, 0, len(ranked))
	for _, skill := range ranked {
		suggestions = append(suggestions, r.suggest(skill))
	}

	return types.Recommendation{
		Suggestions:        suggestions,
		PrioritySkills:     ranked,
		ResumeImprovements: resumeImprovements(match),
		OverallAssessment:  Assessment(match),
	}
}

// rank orders skills by descending priority, keeping the original order on ties.
func (r *Recommender) rank(skills []string) []string {
	ranked := make([]string, len(skills))
	copy(ranked, skills)
	sort.SliceStable(ranked, func(i, j int) bool {
		return r.store.Priority(ranked[i]) > r.store.Priority(ranked[j])
	})
	return ranked
}

func (r *Recommender) suggest(skill string) types.Suggestion {
	tip, ok := r.store.Tip(skill)
	if !ok {
		tip = fmt.Sprintf(genericTipFormat, skill)
	}

	priority := types.PriorityMedium
	if r.store.Priority(skill) >= HighPriorityThreshold {
		priority = types.PriorityHigh
	}

	return types.Suggestion{
		Skill:      skill,
		Priority:   priority,
		Suggestion: tip,
		Category:   r.categoryOf(skill),
	}
}

// categoryOf uses the vocabulary tag when the skill is known, the soft-skill markers otherwise.
func (r *Recommender) categoryOf(skill string) types.Category {
	if c, ok := r.store.CategoryOf(skill); ok {
		return c
	}
	if r.store.IsSoftByMarker(skill) {
		return types.CategorySoft
	}
	return types.CategoryTechnical
}

func resumeImprovements(match types.MatchResult) []string {
	var tips []string

	switch {
	case match.OverallScore < 50:
		tips = append(tips,
			"🎯 Focus on acquiring the core technical skills required for this role before applying.",
			"📝 Consider tailoring your resume to highlight transferable skills from your experience.")
	case match.OverallScore < 70:
		tips = append(tips,
			"✨ You have a good foundation! Focus on the top 3 missing skills to significantly improve your match.",
			"📊 Quantify your achievements with metrics (e.g., 'Improved performance by 40%').")
	default:
		tips = append(tips,
			"🌟 Excellent match! Focus on showcasing your expertise in matched skills with specific examples.",
			"💡 Highlight any unique experiences that set you apart from other candidates.")
	}

	if len(match.SkillCategories.MissingTechnical) > manyMissingTechnical {
		tips = append(tips, "🔧 Consider adding a 'Skills' section that clearly lists your technical competencies.")
	}
	if match.ExperienceMatchScore < weakExperienceScore {
		tips = append(tips, "📈 Emphasize relevant projects and achievements that demonstrate the required experience level.")
	}
	if len(match.SkillCategories.MissingSoft) > 0 {
		tips = append(tips, "🤝 Include examples of soft skills like leadership and communication in your work experience bullet points.")
	}

	tips = append(tips,
		"📋 Use action verbs (Led, Developed, Implemented) to describe your accomplishments.",
		"🎨 Ensure your resume is ATS-friendly with clear section headers and standard formatting.")

	if len(tips) > MaxResumeImprovements {
		tips = tips[:MaxResumeImprovements]
	}
	return tips
}

// Assessment renders the one-sentence verdict for a match.
func Assessment(match types.MatchResult) string {
	score := strconv.FormatFloat(match.OverallScore, 'f', 1, 64)
	matched := len(match.MatchedSkills)
	missing := len(match.MissingSkills)

	switch {
	case match.OverallScore >= 85:
		return fmt.Sprintf("🌟 Excellent Match (%s%%)! Your profile strongly aligns with this position. "+
			"You have %d matching skills. Focus on highlighting your expertise and preparing for behavioral interviews.",
			score, matched)
	case match.OverallScore >= 70:
		return fmt.Sprintf("✨ Strong Match (%s%%)! You're a competitive candidate with %d matching skills. "+
			"Acquiring %d key missing skills would make you an ideal candidate.",
			score, matched, min(3, missing))
	case match.OverallScore >= 50:
		return fmt.Sprintf("👍 Moderate Match (%s%%)! You have foundational skills for this role. "+
			"Focus on bridging the gap in %d areas to strengthen your application.",
			score, missing)
	default:
		return fmt.Sprintf("📚 Development Needed (%s%%)! While you have %d relevant skills, this role requires "+
			"significant skill development. Consider this as a growth target and focus on building the core technical skills first.",
			score, matched)
	}
}
