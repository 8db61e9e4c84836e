// File: cmd/dread.go
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/assess"
	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/dread"
	"github.com/sa-gridsec/gridrisk/internal/observability"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newDreadCmd creates the `dread` command. It either re-derives threats
// from the system model or scores a previously exported threat list.
func newDreadCmd() *cobra.Command {
	var threatsPath string
	var modelPath string
	var outputPath string
	var format string

	dreadCmd := &cobra.Command{
		Use:   "dread",
		Short: "Score and prioritize threats with the DREAD rubric",
		Long: `Runs the STRIDE enumeration internally, scores each threat on the five
DREAD factors, and produces the prioritized threat list and risk matrix.
With --threats, scores an exported threat enumeration instead of running
the enumeration itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			cfg.SetAssessConfig(config.AssessConfig{
				ModelPath: modelPath,
				Output:    outputPath,
				Format:    format,
				Modules:   []string{assess.ModuleDread},
			})
			if threatsPath != "" {
				return runDreadFromThreats(observability.GetLogger(), cfg, threatsPath)
			}
			return runAssess(ctx, observability.GetLogger(), cfg, nil)
		},
	}

	dreadCmd.Flags().StringVar(&threatsPath, "threats", "", "Path to an exported threat enumeration JSON file to score instead of the model.")
	dreadCmd.Flags().StringVarP(&modelPath, "model", "m", "", "Path to the system model JSON file. Defaults to the bundled reference deployment.")
	dreadCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	dreadCmd.Flags().StringVarP(&format, "format", "f", "json", "Report format: 'json', 'csv' or 'html'.")

	return dreadCmd
}

// runDreadFromThreats scores an exported threat list and writes a report
// containing only the DREAD section.
func runDreadFromThreats(logger *zap.Logger, cfg config.Interface, threatsPath string) error {
	threats, system, err := loadThreats(threatsPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded exported threats",
		zap.String("path", threatsPath),
		zap.Int("threats", len(threats)))

	scores := dread.NewAssessor(logger).AssessThreats(threats)

	report := &schemas.AssessmentReport{
		AssessmentID: uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		ToolVersion:  Version,
		Meta: schemas.ReportMeta{
			Title:          cfg.Report().Title,
			Organization:   cfg.Report().Organization,
			Author:         cfg.Report().Author,
			Classification: cfg.Report().Classification,
		},
		System: system,
		Dread:  dread.BuildReport(scores, assess.PriorityWeights(cfg.Dread())),
	}

	ac := cfg.Assess()
	return writeReport(logger, report, ac.Output, ac.Format)
}

// loadThreats reads an exported threat enumeration. Both the full report
// envelope written by `gridrisk stride` and a bare analysis document are
// accepted.
func loadThreats(path string) ([]schemas.Threat, schemas.SystemSummary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, schemas.SystemSummary{}, fmt.Errorf("reading threats file: %w", err)
	}

	var envelope schemas.AssessmentReport
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Stride != nil && len(envelope.Stride.Threats) > 0 {
		return envelope.Stride.Threats, envelope.System, nil
	}

	var analysis schemas.StrideAnalysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		return nil, schemas.SystemSummary{}, fmt.Errorf("parsing threats file %s: %w", path, err)
	}
	if len(analysis.Threats) == 0 {
		return nil, schemas.SystemSummary{}, fmt.Errorf("threats file %s contains no threats", path)
	}
	return analysis.Threats, schemas.SystemSummary{}, nil
}
