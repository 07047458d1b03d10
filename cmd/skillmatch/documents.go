package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-matcher/internal/ingestion"
	"github.com/jonathan/skill-matcher/internal/logging"
)

// readDocument ingests one file and logs what was read.
func (a *app) readDocument(path string) (*ingestion.Document, error) {
	doc, err := ingestion.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("document ingested",
		zap.String(logging.FieldFilename, doc.Filename),
		zap.String(logging.FieldFormat, string(doc.Format)),
		zap.Int("chars", len(doc.Text)))
	return doc, nil
}

// readPair ingests the resume and job documents concurrently.
func (a *app) readPair(resumePath, jobPath string) (resume, job *ingestion.Document, err error) {
	var g errgroup.Group
	g.Go(func() error {
		doc, err := a.readDocument(resumePath)
		if err != nil {
			return fmt.Errorf("resume: %w", err)
		}
		resume = doc
		return nil
	})
	g.Go(func() error {
		doc, err := a.readDocument(jobPath)
		if err != nil {
			return fmt.Errorf("job: %w", err)
		}
		job = doc
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return resume, job, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
