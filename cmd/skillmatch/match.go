package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/extraction"
	"github.com/jonathan/skill-matcher/internal/logging"
	"github.com/jonathan/skill-matcher/internal/matching"
	"github.com/jonathan/skill-matcher/internal/observability"
	"github.com/jonathan/skill-matcher/internal/recommend"
)

// pairFlags are the --resume/--job inputs shared by match and recommend.
type pairFlags struct {
	resume string
	job    string
}

func (p *pairFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.resume, "resume", "r", "", "Path to the resume document (required)")
	cmd.Flags().StringVarP(&p.job, "job", "j", "", "Path to the job description document (required)")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
}

// newMatcher builds the matcher over the configured vocabulary.
func (a *app) newMatcher() (*matching.Matcher, error) {
	vocab, err := a.vocabulary()
	if err != nil {
		return nil, err
	}
	return matching.New(vocab, extraction.New(vocab)), nil
}

func newMatchCmd(a *app) *cobra.Command {
	var inputs pairFlags

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Score a resume against a job description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resume, job, err := a.readPair(inputs.resume, inputs.job)
			if err != nil {
				return err
			}
			matcher, err := a.newMatcher()
			if err != nil {
				return err
			}

			result := matcher.Match(resume.Text, job.Text)
			a.logger.Debug("match computed", zap.Float64(logging.FieldScore, result.OverallScore))

			out := cmd.OutOrStdout()
			if a.output == outputJSON {
				return writeJSON(out, result)
			}
			observability.NewPrinter(out).PrintMatch(result)
			return nil
		},
	}

	inputs.register(cmd)
	return cmd
}

func newRecommendCmd(a *app) *cobra.Command {
	var inputs pairFlags

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend skills to learn and resume improvements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resume, job, err := a.readPair(inputs.resume, inputs.job)
			if err != nil {
				return err
			}
			matcher, err := a.newMatcher()
			if err != nil {
				return err
			}

			result := matcher.Match(resume.Text, job.Text)
			rec := recommend.New(matcher.Extractor().Store(), matcher).FromMatch(result)

			out := cmd.OutOrStdout()
			if a.output == outputJSON {
				return writeJSON(out, rec)
			}
			p := observability.NewPrinter(out)
			p.PrintMatch(result)
			p.PrintRecommendation(rec)
			return nil
		},
	}

	inputs.register(cmd)
	return cmd
}
