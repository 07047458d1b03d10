// Package main provides the skillmatch CLI: document skill extraction, resume/job
// matching, recommendations and the HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skill-matcher/internal/config"
	"github.com/jonathan/skill-matcher/internal/logging"
	"github.com/jonathan/skill-matcher/internal/vocabulary"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
)

// app holds state shared by every subcommand for one invocation.
type app struct {
	configPath string
	debug      bool
	logJSON    bool
	output     string

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "skillmatch",
		Short: "Match resumes against job descriptions",
		Long: "skillmatch extracts skills from resumes and job descriptions, scores how well they match, " +
			"recommends what to learn next and serves the same operations over a REST API.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to JSON config file")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.logJSON, "log-json", false, "Emit JSON logs")
	flags.StringVarP(&a.output, "output", "o", outputText, "Output format: text or json")

	rootCmd.AddCommand(
		newServeCmd(a),
		newExtractCmd(a),
		newMatchCmd(a),
		newRecommendCmd(a),
		newVocabCmd(a),
	)
	return rootCmd
}

// setup resolves configuration (defaults < file < environment < flags) and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.output != outputText && a.output != outputJSON {
		return fmt.Errorf("invalid --output %q: must be %q or %q", a.output, outputText, outputJSON)
	}

	cfg := config.Defaults()
	if a.configPath != "" {
		fileCfg, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = a.debug
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON = a.logJSON
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.logger = logger
	return nil
}

// vocabulary returns the configured vocabulary, the embedded one by default.
func (a *app) vocabulary() (*vocabulary.Store, error) {
	if a.cfg.VocabularyPath == "" {
		return vocabulary.Default(), nil
	}
	store, err := vocabulary.Load(a.cfg.VocabularyPath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded vocabulary",
		zap.String("path", a.cfg.VocabularyPath),
		zap.String("version", store.Version()))
	return store, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
