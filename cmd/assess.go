// File: cmd/assess.go
package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/assess"
	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/observability"
	"github.com/sa-gridsec/gridrisk/internal/reporting"
	"github.com/sa-gridsec/gridrisk/internal/store"
)

// assessmentStore is the narrow persistence surface the assess command needs.
// The abstraction exists so tests can inject a mock instead of a live
// database connection.
type assessmentStore interface {
	SaveAssessment(ctx context.Context, report *schemas.AssessmentReport, findings []schemas.Finding) error
}

// storeProvider creates an assessmentStore plus a cleanup function releasing
// its resources.
type storeProvider interface {
	Create(ctx context.Context, cfg config.Interface) (assessmentStore, func(), error)
}

// defaultStoreProvider is the production storeProvider. It establishes a real
// connection to the PostgreSQL database.
type defaultStoreProvider struct{}

// NewStoreProvider is a factory function that creates a new defaultStoreProvider.
func NewStoreProvider() storeProvider {
	return &defaultStoreProvider{}
}

// Create connects to PostgreSQL using the configured URL, initializes the
// store, and returns it along with a cleanup function closing the pool.
func (p *defaultStoreProvider) Create(ctx context.Context, cfg config.Interface) (assessmentStore, func(), error) {
	logger := observability.GetLogger()
	if cfg.Database().URL == "" {
		return nil, nil, fmt.Errorf("database URL is not configured (GRIDRISK_DATABASE_URL)")
	}

	pool, err := pgxpool.New(ctx, cfg.Database().URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	storeService, err := store.New(ctx, pool, logger)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to initialize store service: %w", err)
	}

	cleanup := func() {
		pool.Close()
		logger.Debug("Database connection pool closed.")
	}
	return storeService, cleanup, nil
}

// newAssessCmd creates and configures the `assess` command.
func newAssessCmd(provider storeProvider) *cobra.Command {
	var modelPath string
	var outputPath string
	var format string
	var save bool
	var modules []string

	assessCmd := &cobra.Command{
		Use:   "assess [model.json]",
		Short: "Run the full risk assessment against a system model",
		Long: `Loads the system model (or the bundled reference deployment when no model is
given), runs every rubric, and writes the combined report. Use --modules to
restrict the run to a subset of rubrics.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if len(args) == 1 && modelPath == "" {
				modelPath = args[0]
			}
			cfg.SetAssessConfig(config.AssessConfig{
				ModelPath: modelPath,
				Output:    outputPath,
				Format:    format,
				Save:      save,
				Modules:   modules,
			})
			return runAssess(ctx, observability.GetLogger(), cfg, provider)
		},
	}

	assessCmd.Flags().StringVarP(&modelPath, "model", "m", "", "Path to the system model JSON file. Defaults to the bundled reference deployment.")
	assessCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	assessCmd.Flags().StringVarP(&format, "format", "f", "json", "Report format: 'json', 'csv' or 'html'.")
	assessCmd.Flags().BoolVar(&save, "save", false, "Persist the assessment and its findings to the configured database.")
	assessCmd.Flags().StringSliceVar(&modules, "modules", nil, fmt.Sprintf("Rubrics to run (default all): %v", assess.AllModules))

	return assessCmd
}

// runAssess contains the core, testable logic for an assessment run.
func runAssess(ctx context.Context, logger *zap.Logger, cfg config.Interface, provider storeProvider) error {
	runner := assess.New(cfg, Version, logger)

	sys, err := runner.LoadModel()
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx, sys)
	if err != nil {
		return fmt.Errorf("assessment failed: %w", err)
	}

	ac := cfg.Assess()
	if ac.Save {
		if err := saveAssessment(ctx, logger, cfg, provider, report); err != nil {
			return err
		}
	}

	return writeReport(logger, report, ac.Output, ac.Format)
}

// saveAssessment persists the report envelope and its flattened findings.
func saveAssessment(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.Interface,
	provider storeProvider,
	report *schemas.AssessmentReport,
) error {
	storeService, cleanup, err := provider.Create(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	if cleanup != nil {
		defer cleanup()
	}

	findings := store.FindingsFromReport(report)
	if err := storeService.SaveAssessment(ctx, report, findings); err != nil {
		return fmt.Errorf("failed to save assessment: %w", err)
	}

	logger.Info("Assessment persisted",
		zap.String("assessment_id", report.AssessmentID),
		zap.Int("findings", len(findings)))
	return nil
}

// writeReport renders the report in the requested format. An empty output
// path writes to stdout.
func writeReport(logger *zap.Logger, report *schemas.AssessmentReport, outputPath, format string) error {
	reporter, err := reporting.New(format, outputPath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			logger.Warn("Failed to close reporter cleanly.", zap.Error(err))
		}
	}()

	if err := reporter.Write(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if outputPath != "" {
		logger.Info("Report written", zap.String("path", outputPath), zap.String("format", format))
	}
	return nil
}
