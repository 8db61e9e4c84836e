// -- cmd/root.go --
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sa-gridsec/gridrisk/internal/config"
	"github.com/sa-gridsec/gridrisk/internal/observability"
)

// ctxKey is the private type for values stored on the command context.
type ctxKey string

// configKey carries the resolved configuration from PersistentPreRunE to the
// subcommand RunE functions.
const configKey ctxKey = "config"

// NewRootCommand builds a pristine root command tree. Tests rely on getting
// a fresh instance so flag state never leaks between executions.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "gridrisk",
		Short: "Cybersecurity risk assessment for distributed energy resources.",
		Long: `gridrisk models a residential solar / VPP deployment and scores it against
five rubrics: known CVEs, STRIDE threat enumeration, DREAD prioritization,
AEMO VPP and AS 4777 compliance, and economic impact on the SA spot market.`,
		// Version is set at build time via ldflags. See cmd/version.go.
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v, err := initializeViper(cfgFile)
			if err != nil {
				return err
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				// Fallback logger so the failure itself is still reported.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "gridrisk"})
				return fmt.Errorf("failed to load config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger())
			observability.GetLogger().Info("Starting gridrisk", zap.String("version", Version))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, config.Interface(cfg)))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(
		newAssessCmd(NewStoreProvider()),
		newCVECmd(),
		newStrideCmd(),
		newDreadCmd(),
		newComplianceCmd(),
		newEconomicCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command with the given context. It logs failures and
// returns the error so main can choose the exit code.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if observability.Initialized() {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return err
	}
	return nil
}

// initializeViper builds a viper instance seeded with defaults, the optional
// config file, and GRIDRISK_* environment variables.
func initializeViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GRIDRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}
	return v, nil
}

// getConfigFromContext retrieves the configuration placed on the context by
// PersistentPreRunE.
func getConfigFromContext(ctx context.Context) (config.Interface, error) {
	cfg, ok := ctx.Value(configKey).(config.Interface)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration missing from command context")
	}
	return cfg, nil
}
