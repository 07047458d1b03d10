package types

import (
	"time"

	"github.com/google/uuid"
)

// Priority tiers attached to suggestions.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
)

// Suggestion is a learning tip for one missing skill.
type Suggestion struct {
	Skill      string   `json:"skill"`
	Priority   string   `json:"priority"`
	Suggestion string   `json:"suggestion"`
	Category   Category `json:"category"`
}

// Recommendation is derived entirely from a MatchResult.
type Recommendation struct {
	Suggestions        []Suggestion `json:"suggestions"`
	PrioritySkills     []string     `json:"priority_skills"`
	ResumeImprovements []string     `json:"resume_improvements"`
	OverallAssessment  string       `json:"overall_assessment"`
}

// Analysis bundles a match and its recommendation for the history store.
type Analysis struct {
	ID                uuid.UUID      `json:"id"`
	JobTitle          string         `json:"job_title,omitempty"`
	Match             MatchResult    `json:"match"`
	Recommendation    Recommendation `json:"recommendation"`
	VocabularyVersion string         `json:"vocabulary_version"`
	ProcessingMillis  int64          `json:"processing_ms"`
	CreatedAt         time.Time      `json:"created_at"`
}
