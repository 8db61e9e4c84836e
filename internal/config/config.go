// File: internal/config/config.go
package config

import (
	"fmt"
	"math"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Database() DatabaseConfig
	Report() ReportConfig
	Model() ModelConfig
	Dread() DreadConfig
	Economic() EconomicConfig
	Assess() AssessConfig
	SetAssessConfig(ac AssessConfig)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	DatabaseCfg DatabaseConfig `mapstructure:"database" yaml:"database"`
	ReportCfg   ReportConfig   `mapstructure:"report" yaml:"report"`
	ModelCfg    ModelConfig    `mapstructure:"model" yaml:"model"`
	DreadCfg    DreadConfig    `mapstructure:"dread" yaml:"dread"`
	EconomicCfg EconomicConfig `mapstructure:"economic" yaml:"economic"`
	// AssessCfg gets its marching orders from CLI flags, not the config file.
	AssessCfg AssessConfig `mapstructure:"-" yaml:"-"`
}

// --- Interface Method Implementations ---

func (c *Config) Logger() LoggerConfig     { return c.LoggerCfg }
func (c *Config) Database() DatabaseConfig { return c.DatabaseCfg }
func (c *Config) Report() ReportConfig     { return c.ReportCfg }
func (c *Config) Model() ModelConfig       { return c.ModelCfg }
func (c *Config) Dread() DreadConfig       { return c.DreadCfg }
func (c *Config) Economic() EconomicConfig { return c.EconomicCfg }
func (c *Config) Assess() AssessConfig     { return c.AssessCfg }

func (c *Config) SetAssessConfig(ac AssessConfig) { c.AssessCfg = ac }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// DatabaseConfig holds the database connection details. Persistence is
// optional; an empty URL disables the store entirely.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// ReportConfig carries the metadata stamped onto every generated report.
type ReportConfig struct {
	Title          string `mapstructure:"title" yaml:"title"`
	Organization   string `mapstructure:"organization" yaml:"organization"`
	Author         string `mapstructure:"author" yaml:"author"`
	Classification string `mapstructure:"classification" yaml:"classification"`
}

// ModelConfig controls how the system model is located and interpreted.
type ModelConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Region string `mapstructure:"region" yaml:"region"`
}

// DreadConfig holds the factor weights used to rank threats for remediation
// order. Defaults favor damage and exploitability; the five weights must sum
// to 1.0.
type DreadConfig struct {
	DamageWeight          float64 `mapstructure:"damage_weight" yaml:"damage_weight"`
	ReproducibilityWeight float64 `mapstructure:"reproducibility_weight" yaml:"reproducibility_weight"`
	ExploitabilityWeight  float64 `mapstructure:"exploitability_weight" yaml:"exploitability_weight"`
	AffectedUsersWeight   float64 `mapstructure:"affected_users_weight" yaml:"affected_users_weight"`
	DiscoverabilityWeight float64 `mapstructure:"discoverability_weight" yaml:"discoverability_weight"`
}

// EconomicConfig tunes the market and cost assumptions used by the
// economic impact model.
type EconomicConfig struct {
	Seed               int64   `mapstructure:"seed" yaml:"seed"`
	BaseSpotPrice      float64 `mapstructure:"base_spot_price" yaml:"base_spot_price"`
	TotalVPPCapacityMW float64 `mapstructure:"total_vpp_capacity_mw" yaml:"total_vpp_capacity_mw"`
	AnalysisYears      int     `mapstructure:"analysis_years" yaml:"analysis_years"`
}

// AssessConfig holds settings populated from CLI flags for a specific
// assessment run.
type AssessConfig struct {
	ModelPath string
	Output    string
	Format    string
	Save      bool
	Modules   []string
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "gridrisk")
	v.SetDefault("logger.log_file", "gridrisk.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Report --
	v.SetDefault("report.title", "DER Cybersecurity Risk Assessment")
	v.SetDefault("report.organization", "")
	v.SetDefault("report.author", "")
	v.SetDefault("report.classification", "internal")

	// -- Model --
	v.SetDefault("model.path", "")
	v.SetDefault("model.region", "SA1")

	// -- DREAD --
	w := schemas.DefaultPriorityWeights()
	v.SetDefault("dread.damage_weight", w.Damage)
	v.SetDefault("dread.reproducibility_weight", w.Reproducibility)
	v.SetDefault("dread.exploitability_weight", w.Exploitability)
	v.SetDefault("dread.affected_users_weight", w.AffectedUsers)
	v.SetDefault("dread.discoverability_weight", w.Discoverability)

	// -- Economic --
	v.SetDefault("economic.seed", 42)
	v.SetDefault("economic.base_spot_price", 85.0)
	v.SetDefault("economic.total_vpp_capacity_mw", 250.0)
	v.SetDefault("economic.analysis_years", 1)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	// Bind environment variables for sensitive data
	v.BindEnv("database.url", "GRIDRISK_DATABASE_URL")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	expanded, err := homedir.Expand(cfg.LoggerCfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("expanding logger.log_file: %w", err)
	}
	cfg.LoggerCfg.LogFile = expanded

	if cfg.ModelCfg.Path != "" {
		expanded, err = homedir.Expand(cfg.ModelCfg.Path)
		if err != nil {
			return nil, fmt.Errorf("expanding model.path: %w", err)
		}
		cfg.ModelCfg.Path = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.DreadCfg.Validate(); err != nil {
		return fmt.Errorf("dread configuration invalid: %w", err)
	}
	if err := c.EconomicCfg.Validate(); err != nil {
		return fmt.Errorf("economic configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the DREAD factor weights.
func (d *DreadConfig) Validate() error {
	weights := []float64{
		d.DamageWeight,
		d.ReproducibilityWeight,
		d.ExploitabilityWeight,
		d.AffectedUsersWeight,
		d.DiscoverabilityWeight,
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("factor weights must be non-negative")
		}
		sum += w
	}
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("factor weights must sum to 1.0, got %.4f", sum)
	}
	return nil
}

// Validate checks the economic model assumptions.
func (e *EconomicConfig) Validate() error {
	if e.BaseSpotPrice <= 0 {
		return fmt.Errorf("base_spot_price must be positive")
	}
	if e.TotalVPPCapacityMW <= 0 {
		return fmt.Errorf("total_vpp_capacity_mw must be positive")
	}
	if e.AnalysisYears <= 0 {
		return fmt.Errorf("analysis_years must be a positive integer")
	}
	return nil
}
