package server

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-matcher/internal/db"
	"github.com/jonathan/skill-matcher/internal/ingestion"
	"github.com/jonathan/skill-matcher/internal/logging"
	"github.com/jonathan/skill-matcher/internal/types"
)

// DefaultAnalyticsDays is the analytics window when ?days= is absent.
const DefaultAnalyticsDays = 30

// handleAnalyze handles POST /analyze. The body is either a JSON MatchRequest or
// a multipart form with a "resume" file and either a "job" file or a
// "job_description" field, plus an optional "job_title".
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var (
		req *MatchRequest
		err error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, err = s.decodeAnalyzeUpload(w, r)
	} else {
		req, err = s.decodeMatchRequest(w, r)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	analysis := s.analyze(req)

	if s.store != nil {
		if err := s.store.SaveAnalysis(r.Context(), analysis); err != nil {
			s.fail(w, r, err)
			return
		}
		s.metrics.AnalysesSaved.Inc()
	}

	s.logger.Info("analysis completed",
		zap.String(logging.FieldAnalysis, analysis.ID.String()),
		zap.Float64(logging.FieldScore, analysis.Match.OverallScore),
		zap.String("job_title", logging.TruncateForLog(analysis.JobTitle, 80)))

	s.jsonResponse(w, http.StatusOK, analysis)
}

// analyze runs match and recommendation once over the request texts.
func (s *Server) analyze(req *MatchRequest) *types.Analysis {
	start := s.now()

	match := s.matcher.Match(req.ResumeText, req.JobDescription)
	rec := s.recommender.FromMatch(match)
	s.metrics.ObserveMatch(match.OverallScore,
		len(match.SkillCategories.MissingTechnical), len(match.SkillCategories.MissingSoft))

	finished := s.now()
	return &types.Analysis{
		ID:                uuid.New(),
		JobTitle:          strings.TrimSpace(req.JobTitle),
		Match:             match,
		Recommendation:    rec,
		VocabularyVersion: s.vocab.Version(),
		ProcessingMillis:  finished.Sub(start).Milliseconds(),
		CreatedAt:         finished.UTC(),
	}
}

// decodeAnalyzeUpload ingests the resume and job documents concurrently.
func (s *Server) decodeAnalyzeUpload(w http.ResponseWriter, r *http.Request) (*MatchRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, s.multipartError(err)
	}
	form := r.MultipartForm

	req := &MatchRequest{
		JobTitle:       r.FormValue("job_title"),
		JobDescription: r.FormValue("job_description"),
	}

	var g errgroup.Group
	g.Go(func() error {
		text, err := s.ingestFormFile(form, "resume")
		req.ResumeText = text
		return err
	})
	if _, ok := form.File["job"]; ok {
		g.Go(func() error {
			text, err := s.ingestFormFile(form, "job")
			req.JobDescription = text
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.validateMatchRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Server) ingestFormFile(form *multipart.Form, field string) (string, error) {
	filename, data, err := readFormFile(form, field)
	if err != nil {
		return "", err
	}
	doc, err := ingestion.Ingest(filename, data)
	s.metrics.ObserveDocument(formatLabel(doc), err)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// handleListAnalyses handles GET /analyses?limit=.
func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrStoreDisabled{})
		return
	}
	limit, err := queryInt(r, "limit", db.DefaultListLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	analyses, err := s.store.ListAnalyses(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"analyses": analyses,
		"count":    len(analyses),
	})
}

// handleGetAnalysis handles GET /analyses/{id}.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.fail(w, r, &ErrStoreDisabled{})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "id", Message: "invalid analysis ID"})
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if analysis == nil {
		s.fail(w, r, &ErrNotFound{Resource: "analysis", ID: idStr})
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleTopMissingSkills handles GET /analytics/top-missing-skills?limit=&days=.
func (s *Server) handleTopMissingSkills(w http.ResponseWriter, r *http.Request) {
	s.analytics(w, r, func(ctx context.Context, days int) (any, error) {
		limit, err := queryInt(r, "limit", 10)
		if err != nil {
			return nil, err
		}
		skills, err := s.store.TopMissingSkills(ctx, db.WindowStart(days, s.now()), limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"skills": skills, "days": days}, nil
	})
}

// handleAverageScore handles GET /analytics/average-score?days=.
func (s *Server) handleAverageScore(w http.ResponseWriter, r *http.Request) {
	s.analytics(w, r, func(ctx context.Context, days int) (any, error) {
		return s.store.AverageMatchScore(ctx, db.WindowStart(days, s.now()))
	})
}

// handleScoreDistribution handles GET /analytics/score-distribution?days=.
func (s *Server) handleScoreDistribution(w http.ResponseWriter, r *http.Request) {
	s.analytics(w, r, func(ctx context.Context, days int) (any, error) {
		buckets, err := s.store.ScoreDistribution(ctx, db.WindowStart(days, s.now()))
		if err != nil {
			return nil, err
		}
		return map[string]any{"distribution": buckets, "days": days}, nil
	})
}

// handleTrends handles GET /analytics/trends?days=.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	s.analytics(w, r, func(ctx context.Context, days int) (any, error) {
		trends, err := s.store.AnalysisTrends(ctx, db.WindowStart(days, s.now()))
		if err != nil {
			return nil, err
		}
		return map[string]any{"trends": trends, "days": days}, nil
	})
}

// handleTopJobTitles handles GET /analytics/top-job-titles?limit=&days=.
func (s *Server) handleTopJobTitles(w http.ResponseWriter, r *http.Request) {
	s.analytics(w, r, func(ctx context.Context, days int) (any, error) {
		limit, err := queryInt(r, "limit", 10)
		if err != nil {
			return nil, err
		}
		titles, err := s.store.TopJobTitles(ctx, db.WindowStart(days, s.now()), limit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"job_titles": titles, "days": days}, nil
	})
}

// analytics runs one history query over the ?days= window.
func (s *Server) analytics(w http.ResponseWriter, r *http.Request, query func(ctx context.Context, days int) (any, error)) {
	if s.store == nil {
		s.fail(w, r, &ErrStoreDisabled{})
		return
	}
	days, err := queryInt(r, "days", DefaultAnalyticsDays)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result, err := query(r.Context(), days)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// queryInt parses a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	return n, nil
}
