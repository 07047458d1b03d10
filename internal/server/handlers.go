package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/ingestion"
	"github.com/jonathan/skill-matcher/internal/logging"
)

// TextRequest is the body of POST /extract-skills.
type TextRequest struct {
	Text string `json:"text" validate:"notblank"`
}

// MatchRequest is the body of POST /match, /recommend and /analyze.
type MatchRequest struct {
	ResumeText     string `json:"resume_text" validate:"notblank"`
	JobDescription string `json:"job_description" validate:"notblank"`
	JobTitle       string `json:"job_title,omitempty" validate:"max=200"`
}

// validation messages returned for blank request fields
const (
	msgTextRequired = "Text cannot be empty"
	msgBothRequired = "Both resume and job description are required"
	msgNoFile       = "No file provided"
)

// handleExtractText handles POST /extract-text: one multipart "file" in, cleaned text out.
func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r, "file")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	doc, err := ingestion.Ingest(filename, data)
	s.metrics.ObserveDocument(formatLabel(doc), err)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.logger.Debug("document ingested",
		zap.String(logging.FieldFilename, doc.Filename),
		zap.String(logging.FieldFormat, string(doc.Format)),
		zap.Int("chars", len(doc.Text)))

	s.jsonResponse(w, http.StatusOK, doc)
}

// handleExtractSkills handles POST /extract-skills.
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.fail(w, r, &ErrValidation{Message: msgTextRequired})
		return
	}

	s.jsonResponse(w, http.StatusOK, s.extractor.Extract(req.Text))
}

// handleMatch handles POST /match.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeMatchRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	result := s.matcher.Match(req.ResumeText, req.JobDescription)
	s.metrics.ObserveMatch(result.OverallScore,
		len(result.SkillCategories.MissingTechnical), len(result.SkillCategories.MissingSoft))

	s.jsonResponse(w, http.StatusOK, result)
}

// handleRecommend handles POST /recommend.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeMatchRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.recommender.Recommend(req.ResumeText, req.JobDescription))
}

// decodeJSON reads a JSON request body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return &ErrPayloadTooLarge{Limit: s.maxUploadBytes}
		}
		return &ErrValidation{Message: "Invalid request body"}
	}
	return nil
}

// decodeMatchRequest decodes and validates a MatchRequest body.
func (s *Server) decodeMatchRequest(w http.ResponseWriter, r *http.Request) (*MatchRequest, error) {
	var req MatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	if err := s.validateMatchRequest(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Server) validateMatchRequest(req *MatchRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Tag() != "notblank" {
		return &ErrValidation{Field: verrs[0].Field(), Message: verrs[0].Tag()}
	}
	return &ErrValidation{Message: msgBothRequired}
}

// readUpload reads one multipart file field, bounded by the upload limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return "", nil, s.multipartError(err)
	}
	return readFormFile(r.MultipartForm, field)
}

func (s *Server) multipartError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &ErrPayloadTooLarge{Limit: s.maxUploadBytes}
	}
	return &ErrValidation{Message: msgNoFile}
}

// readFormFile returns the name and content of the first file under field.
func readFormFile(form *multipart.Form, field string) (string, []byte, error) {
	if form == nil || len(form.File[field]) == 0 || form.File[field][0].Filename == "" {
		return "", nil, &ErrValidation{Message: msgNoFile}
	}

	header := form.File[field][0]
	f, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("failed to open upload %q: %w", header.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload %q: %w", header.Filename, err)
	}
	return header.Filename, data, nil
}

// formatLabel is the metrics label for an ingestion outcome.
func formatLabel(doc *ingestion.Document) string {
	if doc == nil {
		return ""
	}
	return string(doc.Format)
}
