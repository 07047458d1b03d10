package db

import (
	"fmt"
	"time"
)

// Listing limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// SkillCount is how often a skill was reported missing.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int64  `json:"count"`
}

// ScoreSummary aggregates overall scores over a time window.
type ScoreSummary struct {
	Analyses int64      `json:"analyses"`
	Average  float64    `json:"average_score"`
	Min      float64    `json:"min_score"`
	Max      float64    `json:"max_score"`
	Since    *time.Time `json:"since,omitempty"` // nil means all time
}

// ClampLimit maps a requested page size into [1, MaxListLimit], DefaultListLimit when unset.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// WindowStart returns the start of a window of the given number of days ending at now.
// A non-positive days value means no lower bound and yields the zero time.
func WindowStart(days int, now time.Time) time.Time {
	if days <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -days)
}

// ScoreBucket counts analyses whose overall score falls in one range.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

// scoreBoundaries are the lower bounds of each distribution bucket; the last
// bucket runs through 100.
var scoreBoundaries = []int{0, 25, 50, 75, 90}

// bucketLabel formats the label for the bucket starting at scoreBoundaries[i].
func bucketLabel(i int) string {
	upper := 100
	if i+1 < len(scoreBoundaries) {
		upper = scoreBoundaries[i+1] - 1
	}
	return fmt.Sprintf("%d-%d%%", scoreBoundaries[i], upper)
}

// buildDistribution lays out every bucket in order, including empty ones.
func buildDistribution(counts map[int]int64) []ScoreBucket {
	buckets := make([]ScoreBucket, len(scoreBoundaries))
	for i, lower := range scoreBoundaries {
		buckets[i] = ScoreBucket{Range: bucketLabel(i), Count: counts[lower]}
	}
	return buckets
}

// DailyTrend is the number of analyses and their average overall score on one UTC day.
type DailyTrend struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Count        int64   `json:"count"`
	AverageScore float64 `json:"average_score"`
}

// JobTitleCount is how often a job title was analyzed and its average overall score.
type JobTitleCount struct {
	Title        string  `json:"title"`
	Count        int64   `json:"count"`
	AverageScore float64 `json:"average_score"`
}
