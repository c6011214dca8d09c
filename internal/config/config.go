package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"event-dataset-processor/internal/features"
)

// Config holds all configuration for the application
type Config struct {
	Sample    SampleConfig    `mapstructure:"sample"`
	Export    ExportConfig    `mapstructure:"export"`
	Features  FeaturesConfig  `mapstructure:"features"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Server    ServerConfig    `mapstructure:"server"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// SampleConfig controls the sample rows printed by the reporter
type SampleConfig struct {
	Count        int `mapstructure:"count"`
	SubjectWidth int `mapstructure:"subject_width"`
	BodyWidth    int `mapstructure:"body_width"`
}

// ExportConfig controls the training CSV export
type ExportConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Output  string `mapstructure:"output"`
	Dir     string `mapstructure:"dir"`
}

// FeaturesConfig holds the extractor vocabulary
type FeaturesConfig struct {
	TimeKeywords []string `mapstructure:"time_keywords"`
	MonthNames   []string `mapstructure:"month_names"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics output configuration
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// ServerConfig holds report server configuration
type ServerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SchedulerConfig holds the refresh schedule used in serve mode
type SchedulerConfig struct {
	Cron string `mapstructure:"cron"`
}

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"export":    "export.enabled",
	"output":    "export.output",
	"sample":    "sample.count",
	"serve":     "server.enabled",
	"log-level": "log.level",
}

// LoadConfig loads configuration from defaults, an optional config file,
// environment variables and command line flags, in increasing priority.
// configFile may be empty; flags may be nil.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("sample.count", 3)
	v.SetDefault("sample.subject_width", 60)
	v.SetDefault("sample.body_width", 100)

	v.SetDefault("export.enabled", false)
	v.SetDefault("export.output", "")
	v.SetDefault("export.dir", ".")

	v.SetDefault("features.time_keywords", features.DefaultTimeKeywords)
	v.SetDefault("features.month_names", features.DefaultMonthNames)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.textfile", "")

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("scheduler.cron", "@every 10m")
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars(v *viper.Viper) {
	// Sample
	v.BindEnv("sample.count", "SAMPLE_COUNT")
	v.BindEnv("sample.subject_width", "SAMPLE_SUBJECT_WIDTH")
	v.BindEnv("sample.body_width", "SAMPLE_BODY_WIDTH")

	// Export
	v.BindEnv("export.enabled", "EXPORT_ENABLED")
	v.BindEnv("export.output", "EXPORT_OUTPUT")
	v.BindEnv("export.dir", "EXPORT_DIR")

	// Features
	v.BindEnv("features.time_keywords", "FEATURES_TIME_KEYWORDS")
	v.BindEnv("features.month_names", "FEATURES_MONTH_NAMES")

	// Logging
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")

	// Metrics
	v.BindEnv("metrics.textfile", "METRICS_TEXTFILE")

	// Server
	v.BindEnv("server.enabled", "SERVER_ENABLED")
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Scheduler
	v.BindEnv("scheduler.cron", "SCHEDULER_CRON")
}

// Vocabulary returns the extractor word lists
func (c *Config) Vocabulary() features.Vocabulary {
	return features.Vocabulary{
		TimeKeywords: c.Features.TimeKeywords,
		MonthNames:   c.Features.MonthNames,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Sample.Count < 0 {
		return fmt.Errorf("sample count must not be negative")
	}

	if c.Sample.SubjectWidth <= 0 || c.Sample.BodyWidth <= 0 {
		return fmt.Errorf("sample display widths must be greater than 0")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log format must be json or text, got %q", c.Log.Format)
	}

	if c.Server.Enabled {
		if c.Server.Port == "" {
			return fmt.Errorf("server port is required when serving")
		}
		if c.Scheduler.Cron == "" {
			return fmt.Errorf("scheduler cron spec is required when serving")
		}
	}

	return nil
}
