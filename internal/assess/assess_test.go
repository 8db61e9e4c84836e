package assess

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/api/schemas"
	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/model"
)

func newTestRunner(cfg *config.Config) *Runner {
	r := New(cfg, "1.2.3-test", zap.NewNop())
	r.now = func() time.Time { return time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC) }
	r.newID = func() string { return "11111111-2222-3333-4444-555555555555" }
	return r
}

func TestRunAllModules(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.NewDefaultConfig()
	runner := newTestRunner(cfg)

	report, err := runner.Run(context.Background(), model.Default())
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", report.AssessmentID)
	assert.Equal(t, "1.2.3-test", report.ToolVersion)
	assert.Equal(t, time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC), report.GeneratedAt)
	assert.Equal(t, "DER Cybersecurity Risk Assessment", report.Meta.Title)

	wantSystem := schemas.SystemSummary{
		Name:            "SA Residential VPP Segment",
		Location:        "Adelaide, South Australia",
		ComponentCount:  3,
		DataFlowCount:   len(model.Default().DataFlows),
		TotalCapacityKW: 5.0,
	}
	if diff := cmp.Diff(wantSystem, report.System); diff != "" {
		t.Errorf("system summary mismatch (-want +got):\n%s", diff)
	}

	require.NotNil(t, report.Vulnerabilities)
	require.NotNil(t, report.Stride)
	require.NotNil(t, report.Dread)
	require.NotNil(t, report.Compliance)
	require.NotNil(t, report.Economic)

	// DREAD must have scored exactly the threats STRIDE produced.
	assert.Equal(t, report.Stride.TotalThreats, len(report.Dread.Scores))
	assert.NotEmpty(t, report.ExecutiveSummary)
	assert.Contains(t, report.ExecutiveSummary, "SA Residential VPP Segment")
}

func TestRunnerUsesPriorityWeights(t *testing.T) {
	// The default configuration must rank threats with the remediation
	// weights, not a flat average.
	runner := newTestRunner(config.NewDefaultConfig())
	assert.Equal(t, schemas.DefaultPriorityWeights(), runner.weights())
}

func TestRunModuleSubset(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.NewDefaultConfig()
	cfg.SetAssessConfig(config.AssessConfig{Modules: []string{ModuleCVE, ModuleCompliance}})
	runner := newTestRunner(cfg)

	report, err := runner.Run(context.Background(), model.Default())
	require.NoError(t, err)

	assert.NotNil(t, report.Vulnerabilities)
	assert.NotNil(t, report.Compliance)
	assert.Nil(t, report.Stride)
	assert.Nil(t, report.Dread)
	assert.Nil(t, report.Economic)
}

func TestRunDreadWithoutStride(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := config.NewDefaultConfig()
	cfg.SetAssessConfig(config.AssessConfig{Modules: []string{ModuleDread}})
	runner := newTestRunner(cfg)

	report, err := runner.Run(context.Background(), model.Default())
	require.NoError(t, err)

	// Threat enumeration still happens internally, but only the DREAD
	// section is attached.
	assert.Nil(t, report.Stride)
	require.NotNil(t, report.Dread)
	assert.NotEmpty(t, report.Dread.Scores)
}

func TestRunUnknownModule(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.SetAssessConfig(config.AssessConfig{Modules: []string{"sarif"}})
	runner := newTestRunner(cfg)

	_, err := runner.Run(context.Background(), model.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown module "sarif"`)
}

func TestLoadModel(t *testing.T) {
	t.Run("defaults to bundled deployment", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		runner := newTestRunner(cfg)

		sys, err := runner.LoadModel()
		require.NoError(t, err)
		assert.Equal(t, "SA Residential VPP Segment", sys.Name)
	})

	t.Run("flag path wins over configured path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "model.json")
		raw := `{
			"system_name": "Test Site",
			"components": [
				{"id": "inv_1", "name": "Inverter", "type": "solar_inverter", "capacity_kw": 3.0}
			]
		}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		cfg := config.NewDefaultConfig()
		cfg.ModelCfg.Path = filepath.Join(dir, "does-not-exist.json")
		cfg.SetAssessConfig(config.AssessConfig{ModelPath: path})
		runner := newTestRunner(cfg)

		sys, err := runner.LoadModel()
		require.NoError(t, err)
		assert.Equal(t, "Test Site", sys.Name)
		require.Len(t, sys.Components, 1)
		assert.NotEmpty(t, sys.Components[0].TrustBoundary)
	})

	t.Run("missing file errors", func(t *testing.T) {
		cfg := config.NewDefaultConfig()
		cfg.SetAssessConfig(config.AssessConfig{ModelPath: "/nonexistent/model.json"})
		runner := newTestRunner(cfg)

		_, err := runner.LoadModel()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "loading system model")
	})
}

func TestEnabledModules(t *testing.T) {
	enabled, err := enabledModules(nil)
	require.NoError(t, err)
	assert.Len(t, enabled, len(AllModules))

	enabled, err = enabledModules([]string{ModuleEconomic})
	require.NoError(t, err)
	assert.True(t, enabled[ModuleEconomic])
	assert.False(t, enabled[ModuleStride])

	_, err = enabledModules([]string{"nope"})
	require.Error(t, err)
}
