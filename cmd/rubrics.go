// File: cmd/rubrics.go
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sa-gridsec/gridrisk/internal/assess"
	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/observability"
)

// newRubricCmd builds a command that runs a single rubric and writes a
// report containing just that section. The full `assess` command composes
// the same pipeline with every rubric enabled.
func newRubricCmd(use, short, long, module string) *cobra.Command {
	var modelPath string
	var outputPath string
	var format string

	rubricCmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
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
				Modules:   []string{module},
			})
			return runAssess(ctx, observability.GetLogger(), cfg, nil)
		},
	}

	rubricCmd.Flags().StringVarP(&modelPath, "model", "m", "", "Path to the system model JSON file. Defaults to the bundled reference deployment.")
	rubricCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	rubricCmd.Flags().StringVarP(&format, "format", "f", "json", "Report format: 'json', 'csv' or 'html'.")

	return rubricCmd
}

func newCVECmd() *cobra.Command {
	return newRubricCmd(
		"cve",
		"Match system components against known vulnerabilities",
		`Matches every modeled component's vendor, product and firmware version
against the bundled CVE records for DER equipment.`,
		assess.ModuleCVE,
	)
}

func newStrideCmd() *cobra.Command {
	return newRubricCmd(
		"stride",
		"Enumerate STRIDE threats for the modeled deployment",
		`Walks every component and data flow and enumerates spoofing, tampering,
repudiation, information disclosure, denial of service and elevation of
privilege threats.`,
		assess.ModuleStride,
	)
}

func newComplianceCmd() *cobra.Command {
	return newRubricCmd(
		"compliance",
		"Assess AEMO VPP and AS 4777 compliance",
		`Scores the modeled deployment against the AEMO VPP operational
requirements and the AS 4777 inverter standard.`,
		assess.ModuleCompliance,
	)
}

func newEconomicCmd() *cobra.Command {
	return newRubricCmd(
		"economic",
		"Model the economic impact of attack scenarios",
		`Simulates the SA spot market, runs the attack scenario catalog against
the modeled capacity, and ranks mitigation packages by return on
investment.`,
		assess.ModuleEconomic,
	)
}
