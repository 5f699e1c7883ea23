package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Nominatim NominatimConfig `yaml:"nominatim" mapstructure:"nominatim"`
	Lookup    LookupConfig    `yaml:"lookup" mapstructure:"lookup"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// NominatimConfig configures the Nominatim API client.
type NominatimConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	Email     string `yaml:"email" mapstructure:"email"`
}

// LookupConfig configures lookup behavior.
type LookupConfig struct {
	Country     string  `yaml:"country" mapstructure:"country"`
	RateRPS     float64 `yaml:"rate_rps" mapstructure:"rate_rps"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Limit       int     `yaml:"limit" mapstructure:"limit"`
	Concurrency int     `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROPGEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("nominatim.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim.user_agent", "property-geocoder/1.0 (+https://github.com/sells-group/property-geocoder)")
	v.SetDefault("lookup.country", "us")
	v.SetDefault("lookup.rate_rps", 1.0)
	v.SetDefault("lookup.timeout_secs", 15)
	v.SetDefault("lookup.limit", 1)
	v.SetDefault("lookup.concurrency", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// Validate checks configuration bounds.
func (c *Config) Validate() error {
	var problems []string

	if c.Nominatim.BaseURL == "" {
		problems = append(problems, "nominatim.base_url is required")
	}
	if c.Nominatim.UserAgent == "" {
		problems = append(problems, "nominatim.user_agent is required (Nominatim usage policy)")
	}
	if c.Lookup.RateRPS <= 0 {
		problems = append(problems, "lookup.rate_rps must be > 0")
	}
	if c.Lookup.TimeoutSecs <= 0 {
		problems = append(problems, "lookup.timeout_secs must be > 0")
	}
	if c.Lookup.Limit < 1 || c.Lookup.Limit > 50 {
		problems = append(problems, "lookup.limit must be between 1 and 50")
	}
	if c.Lookup.Concurrency < 1 || c.Lookup.Concurrency > 10 {
		problems = append(problems, "lookup.concurrency must be between 1 and 10")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid configuration:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
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
