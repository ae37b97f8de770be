// Package config loads application configuration from config.yaml, .env, and
// environment variables, and initializes the global logger.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Churn    ChurnConfig    `yaml:"churn" mapstructure:"churn"`
	Geo      GeoConfig      `yaml:"geo" mapstructure:"geo"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the lead store backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// ScoringConfig holds the lead scoring weights and tier thresholds.
// Weights apply to normalized [0,1] features and must sum to 1.
type ScoringConfig struct {
	RecencyWeight    float64 `yaml:"recency_weight" mapstructure:"recency_weight"`
	ActivityWeight   float64 `yaml:"activity_weight" mapstructure:"activity_weight"`
	DealValueWeight  float64 `yaml:"deal_value_weight" mapstructure:"deal_value_weight"`
	EngagementWeight float64 `yaml:"engagement_weight" mapstructure:"engagement_weight"`
	StatusWeight     float64 `yaml:"status_weight" mapstructure:"status_weight"`

	HotThreshold  float64 `yaml:"hot_threshold" mapstructure:"hot_threshold"`
	WarmThreshold float64 `yaml:"warm_threshold" mapstructure:"warm_threshold"`

	// StalenessWindowDays caps recency: leads with no activity for this many
	// days (or with no recorded activity at all) are maximally stale.
	StalenessWindowDays int `yaml:"staleness_window_days" mapstructure:"staleness_window_days"`

	// DealValueCeiling is the deal value mapped to a 1.0 normalized feature.
	DealValueCeiling float64 `yaml:"deal_value_ceiling" mapstructure:"deal_value_ceiling"`
}

// ChurnConfig holds the churn label thresholds.
type ChurnConfig struct {
	HighThreshold   float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
}

// GeoConfig configures the geographical aggregation pipeline.
type GeoConfig struct {
	// MinLeadsPerCountry marks smaller markets low-confidence (never dropped).
	MinLeadsPerCountry int `yaml:"min_leads_per_country" mapstructure:"min_leads_per_country"`

	// ExpandMargin is the relative lift over the global average required for
	// an "expand" recommendation; the symmetric shortfall yields "deprioritize".
	ExpandMargin float64 `yaml:"expand_margin" mapstructure:"expand_margin"`
}

// PipelineConfig configures pipeline execution.
type PipelineConfig struct {
	Workers   int    `yaml:"workers" mapstructure:"workers"`
	RulesPath string `yaml:"rules_path" mapstructure:"rules_path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, config file, and environment.
func Load() (*Config, error) {
	// Optional .env next to the binary, matching the deployed service layout.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8000)
	v.SetDefault("scoring.recency_weight", 0.25)
	v.SetDefault("scoring.activity_weight", 0.15)
	v.SetDefault("scoring.deal_value_weight", 0.20)
	v.SetDefault("scoring.engagement_weight", 0.25)
	v.SetDefault("scoring.status_weight", 0.15)
	v.SetDefault("scoring.hot_threshold", 75.0)
	v.SetDefault("scoring.warm_threshold", 40.0)
	v.SetDefault("scoring.staleness_window_days", 180)
	v.SetDefault("scoring.deal_value_ceiling", 250_000.0)
	v.SetDefault("churn.high_threshold", 0.7)
	v.SetDefault("churn.medium_threshold", 0.3)
	v.SetDefault("geo.min_leads_per_country", 2)
	v.SetDefault("geo.expand_margin", 0.10)
	v.SetDefault("pipeline.workers", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
