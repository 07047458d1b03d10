package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/skill-matcher/internal/types"
)

const analysisColumns = `id, job_title, match, recommendation, vocabulary_version, processing_ms, created_at`

// SaveAnalysis inserts an analysis. A nil ID and a zero CreatedAt are filled in
// on the passed value before the insert.
func (db *DB) SaveAnalysis(ctx context.Context, a *types.Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	matchJSON, err := json.Marshal(a.Match)
	if err != nil {
		return fmt.Errorf("failed to marshal match: %w", err)
	}
	recJSON, err := json.Marshal(a.Recommendation)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO analyses (id, job_title, overall_score, skill_match_score, experience_match_score,
		                       matched_skills, missing_skills, match, recommendation,
		                       vocabulary_version, processing_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.JobTitle,
		a.Match.OverallScore, a.Match.SkillMatchScore, a.Match.ExperienceMatchScore,
		nonNil(a.Match.MatchedSkills), nonNil(a.Match.MissingSkills),
		matchJSON, recJSON,
		a.VocabularyVersion, a.ProcessingMillis, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves an analysis by ID. Returns nil, nil when it does not exist.
func (db *DB) GetAnalysis(ctx context.Context, id uuid.UUID) (*types.Analysis, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+analysisColumns+` FROM analyses WHERE id = $1`, id)

	a, err := scanAnalysis(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses returns the most recent analyses, newest first.
func (db *DB) ListAnalyses(ctx context.Context, limit int) ([]types.Analysis, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+analysisColumns+` FROM analyses ORDER BY created_at DESC, id LIMIT $1`,
		ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	analyses := []types.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate analyses: %w", err)
	}
	return analyses, nil
}

// TopMissingSkills counts how often each skill was missing in analyses created
// at or after since. Ties are broken alphabetically.
func (db *DB) TopMissingSkills(ctx context.Context, since time.Time, limit int) ([]SkillCount, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT skill, COUNT(*) AS n
		 FROM analyses, unnest(missing_skills) AS skill
		 WHERE created_at >= $1
		 GROUP BY skill
		 ORDER BY n DESC, skill ASC
		 LIMIT $2`,
		since, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query missing skills: %w", err)
	}
	defer rows.Close()

	counts := []SkillCount{}
	for rows.Next() {
		var sc SkillCount
		if err := rows.Scan(&sc.Skill, &sc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan skill count: %w", err)
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate skill counts: %w", err)
	}
	return counts, nil
}

// AverageMatchScore summarizes overall scores of analyses created at or after since.
func (db *DB) AverageMatchScore(ctx context.Context, since time.Time) (*ScoreSummary, error) {
	var s ScoreSummary
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(overall_score), 0),
		        COALESCE(MIN(overall_score), 0),
		        COALESCE(MAX(overall_score), 0)
		 FROM analyses
		 WHERE created_at >= $1`,
		since,
	).Scan(&s.Analyses, &s.Average, &s.Min, &s.Max)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize scores: %w", err)
	}

	if !since.IsZero() {
		s.Since = &since
	}
	return &s, nil
}

// scanAnalysis reads one row selected with analysisColumns.
func scanAnalysis(row pgx.Row) (*types.Analysis, error) {
	var (
		a                 types.Analysis
		matchJSON, recRaw []byte
	)
	if err := row.Scan(&a.ID, &a.JobTitle, &matchJSON, &recRaw,
		&a.VocabularyVersion, &a.ProcessingMillis, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeAnalysis(&a, matchJSON, recRaw); err != nil {
		return nil, err
	}
	return &a, nil
}

func decodeAnalysis(a *types.Analysis, matchJSON, recJSON []byte) error {
	if err := json.Unmarshal(matchJSON, &a.Match); err != nil {
		return fmt.Errorf("failed to unmarshal match: %w", err)
	}
	if err := json.Unmarshal(recJSON, &a.Recommendation); err != nil {
		return fmt.Errorf("failed to unmarshal recommendation: %w", err)
	}
	return nil
}

// nonNil keeps NOT NULL array columns from receiving SQL NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// ScoreDistribution buckets overall scores of analyses created at or after since.
func (db *DB) ScoreDistribution(ctx context.Context, since time.Time) ([]ScoreBucket, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT CASE
		          WHEN overall_score >= 90 THEN 90
		          WHEN overall_score >= 75 THEN 75
		          WHEN overall_score >= 50 THEN 50
		          WHEN overall_score >= 25 THEN 25
		          ELSE 0
		        END AS lower_bound,
		        COUNT(*)
		 FROM analyses
		 WHERE created_at >= $1
		 GROUP BY lower_bound`,
		since)
	if err != nil {
		return nil, fmt.Errorf("failed to query score distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int64)
	for rows.Next() {
		var (
			lower int
			n     int64
		)
		if err := rows.Scan(&lower, &n); err != nil {
			return nil, fmt.Errorf("failed to scan score bucket: %w", err)
		}
		counts[lower] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate score buckets: %w", err)
	}
	return buildDistribution(counts), nil
}

// AnalysisTrends returns per-day analysis counts and average overall scores for
// analyses created at or after since, oldest day first. Days are UTC.
func (db *DB) AnalysisTrends(ctx context.Context, since time.Time) ([]DailyTrend, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
		        COUNT(*),
		        ROUND(AVG(overall_score)::numeric, 1)::float8
		 FROM analyses
		 WHERE created_at >= $1
		 GROUP BY day
		 ORDER BY day ASC`,
		since)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis trends: %w", err)
	}
	defer rows.Close()

	trends := []DailyTrend{}
	for rows.Next() {
		var d DailyTrend
		if err := rows.Scan(&d.Date, &d.Count, &d.AverageScore); err != nil {
			return nil, fmt.Errorf("failed to scan trend: %w", err)
		}
		trends = append(trends, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trends: %w", err)
	}
	return trends, nil
}

// TopJobTitles counts analyses per job title created at or after since, most
// frequent first, ties broken alphabetically. Untitled analyses are skipped.
func (db *DB) TopJobTitles(ctx context.Context, since time.Time, limit int) ([]JobTitleCount, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT job_title,
		        COUNT(*) AS n,
		        ROUND(AVG(overall_score)::numeric, 1)::float8
		 FROM analyses
		 WHERE created_at >= $1 AND job_title <> ''
		 GROUP BY job_title
		 ORDER BY n DESC, job_title ASC
		 LIMIT $2`,
		since, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query job titles: %w", err)
	}
	defer rows.Close()

	titles := []JobTitleCount{}
	for rows.Next() {
		var jt JobTitleCount
		if err := rows.Scan(&jt.Title, &jt.Count, &jt.AverageScore); err != nil {
			return nil, fmt.Errorf("failed to scan job title: %w", err)
		}
		titles = append(titles, jt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job titles: %w", err)
	}
	return titles, nil
}
