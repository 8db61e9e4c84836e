// Package assess orchestrates a full assessment run: it loads the system
// model, fans the rubrics out concurrently, and assembles the combined
// report envelope.
package assess

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/compliance"
	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/cvedb"
	"github.com/sa-gridsec/gridrisk/internal/dread"
	"github.com/sa-gridsec/gridrisk/internal/economic"
	"github.com/sa-gridsec/gridrisk/internal/model"
	"github.com/sa-gridsec/gridrisk/internal/reporting"
	"github.com/sa-gridsec/gridrisk/internal/stride"
)

// The rubric names accepted by the --modules flag.
const (
	ModuleCVE        = "cve"
	ModuleStride     = "stride"
	ModuleDread      = "dread"
	ModuleCompliance = "compliance"
	ModuleEconomic   = "economic"
)

// AllModules lists every rubric in presentation order.
var AllModules = []string{ModuleCVE, ModuleStride, ModuleDread, ModuleCompliance, ModuleEconomic}

// Runner wires the individual rubrics into a single assessment pipeline.
type Runner struct {
	cfg     config.Interface
	version string
	logger  *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates a Runner. The version string is stamped onto the report
// envelope so stored assessments can be traced back to a release.
func New(cfg config.Interface, version string, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		version: version,
		logger:  logger.Named("assess"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// LoadModel resolves the system model for this run. An explicit --model flag
// wins over the configured path; with neither set the bundled reference
// deployment is used.
func (r *Runner) LoadModel() (*schemas.System, error) {
	path := r.cfg.Assess().ModelPath
	if path == "" {
		path = r.cfg.Model().Path
	}
	if path == "" {
		r.logger.Info("No model path configured, using bundled reference deployment")
		return model.Default(), nil
	}

	sys, err := model.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading system model: %w", err)
	}
	r.logger.Info("Loaded system model",
		zap.String("path", path),
		zap.String("system", sys.Name),
		zap.Int("components", len(sys.Components)))
	return sys, nil
}

// Run executes the requested rubrics against the system and returns the
// assembled report. Independent rubrics run concurrently; DREAD consumes the
// STRIDE output and therefore runs sequentially after it.
func (r *Runner) Run(ctx context.Context, sys *schemas.System) (*schemas.AssessmentReport, error) {
	enabled, err := enabledModules(r.cfg.Assess().Modules)
	if err != nil {
		return nil, err
	}

	report := &schemas.AssessmentReport{
		AssessmentID: r.newID(),
		GeneratedAt:  r.now().UTC(),
		ToolVersion:  r.version,
		Meta: schemas.ReportMeta{
			Title:          r.cfg.Report().Title,
			Organization:   r.cfg.Report().Organization,
			Author:         r.cfg.Report().Author,
			Classification: r.cfg.Report().Classification,
		},
		System: schemas.SystemSummary{
			Name:            sys.Name,
			Location:        sys.Location,
			ComponentCount:  len(sys.Components),
			DataFlowCount:   len(sys.DataFlows),
			TotalCapacityKW: sys.TotalCapacityKW(),
		},
	}

	started := r.now()
	r.logger.Info("Starting assessment",
		zap.String("assessment_id", report.AssessmentID),
		zap.String("system", sys.Name),
		zap.Strings("modules", moduleNames(enabled)))

	// The rubrics are pure in-memory computations, so a plain group is
	// enough.
	var g errgroup.Group

	if enabled[ModuleCVE] {
		g.Go(func() error {
			report.Vulnerabilities = cvedb.New().MatchSystem(sys)
			return nil
		})
	}

	if enabled[ModuleStride] || enabled[ModuleDread] {
		g.Go(func() error {
			analyzer, err := stride.New(r.logger)
			if err != nil {
				return fmt.Errorf("building threat analyzer: %w", err)
			}
			analysis := analyzer.Analyze(sys)
			if enabled[ModuleStride] {
				report.Stride = analysis
			}
			if enabled[ModuleDread] {
				scores := dread.NewAssessor(r.logger).AssessThreats(analysis.Threats)
				report.Dread = dread.BuildReport(scores, r.weights())
			}
			return nil
		})
	}

	if enabled[ModuleCompliance] {
		g.Go(func() error {
			report.Compliance = compliance.New(r.logger).Assess(sys)
			return nil
		})
	}

	if enabled[ModuleEconomic] {
		g.Go(func() error {
			calc := economic.NewCalculator(r.cfg.Economic(), r.cfg.Model().Region, r.logger)
			analysis, err := calc.Analyze(sys)
			if err != nil {
				return fmt.Errorf("economic analysis: %w", err)
			}
			report.Economic = analysis
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.ExecutiveSummary = reporting.BuildExecutiveSummary(report)

	r.logger.Info("Assessment complete",
		zap.String("assessment_id", report.AssessmentID),
		zap.Duration("elapsed", r.now().Sub(started)))
	return report, nil
}

// weights converts the configured DREAD factor weights into the schema form
// consumed by the scoring pipeline.
func (r *Runner) weights() schemas.DreadWeights {
	return PriorityWeights(r.cfg.Dread())
}

// PriorityWeights converts a DREAD config section into ranking weights.
func PriorityWeights(d config.DreadConfig) schemas.DreadWeights {
	return schemas.DreadWeights{
		Damage:          d.DamageWeight,
		Reproducibility: d.ReproducibilityWeight,
		Exploitability:  d.ExploitabilityWeight,
		AffectedUsers:   d.AffectedUsersWeight,
		Discoverability: d.DiscoverabilityWeight,
	}
}

// enabledModules expands a --modules selection into a lookup set. An empty
// selection enables every rubric.
func enabledModules(requested []string) (map[string]bool, error) {
	enabled := make(map[string]bool, len(AllModules))
	if len(requested) == 0 {
		for _, m := range AllModules {
			enabled[m] = true
		}
		return enabled, nil
	}
	known := make(map[string]bool, len(AllModules))
	for _, m := range AllModules {
		known[m] = true
	}
	for _, m := range requested {
		if !known[m] {
			return nil, fmt.Errorf("unknown module %q (available: %v)", m, AllModules)
		}
		enabled[m] = true
	}
	return enabled, nil
}

func moduleNames(enabled map[string]bool) []string {
	names := make([]string, 0, len(enabled))
	for m := range enabled {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}
