package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Environment    string           `toml:"environment" yaml:"environment"` // "development" or "production"
	Data           DataConfig       `toml:"data" yaml:"data"`
	Report         ReportConfig     `toml:"report" yaml:"report"`
	Classifier     ClassifierConfig `toml:"classifier" yaml:"classifier"`
	Logging        LoggingConfig    `toml:"logging" yaml:"logging"`
	Scheduler      SchedulerConfig  `toml:"scheduler" yaml:"scheduler"`
	Producers      []ProducerConfig `toml:"producers" yaml:"producers" validate:"dive"`
	ProducerPacing PacingConfig     `toml:"producer_pacing" yaml:"producer_pacing"`
}

// DataConfig locates the producer artifacts and report outputs.
type DataConfig struct {
	Root          string `toml:"root" yaml:"root" validate:"required"`                       // e.g. "./w-data-news"
	ResearchDir   string `toml:"research_dir" yaml:"research_dir" validate:"required"`       // pre-market sub-directory
	PostMarketDir string `toml:"post_market_dir" yaml:"post_market_dir" validate:"required"` // post-market sub-directory
	RawDir        string `toml:"raw_dir" yaml:"raw_dir" validate:"required"`                 // raw artifacts inside each dated directory
}

// ReportConfig bounds report sections and names the news sources.
type ReportConfig struct {
	Timezone          string             `toml:"timezone" yaml:"timezone" validate:"required"`
	ImpactRows        int                `toml:"impact_rows" yaml:"impact_rows" validate:"gte=1"`
	InstitutionalRows int                `toml:"institutional_rows" yaml:"institutional_rows" validate:"gte=1"`
	NewsPerSource     int                `toml:"news_per_source" yaml:"news_per_source" validate:"gte=1"`
	ReasonRunes       int                `toml:"reason_runes" yaml:"reason_runes" validate:"gte=1"`
	NewsSources       []NewsSourceConfig `toml:"news_sources" yaml:"news_sources" validate:"dive"` // scan and display order
}

// NewsSourceConfig maps a news producer's artifact to its report heading.
type NewsSourceConfig struct {
	Source string `toml:"source" yaml:"source" validate:"required"`
	File   string `toml:"file" yaml:"file" validate:"required"`
	Label  string `toml:"label" yaml:"label" validate:"required"`
}

// ClassifierConfig overrides the impact keyword lists. An empty list keeps the built-in one.
type ClassifierConfig struct {
	Bullish []string `toml:"bullish" yaml:"bullish"`
	Bearish []string `toml:"bearish" yaml:"bearish"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output" yaml:"output"` // "stdout", "file"
	Dir    string   `toml:"dir" yaml:"dir"`       // log file directory, default: <exe dir>/logs
}

// SchedulerConfig holds the cron triggers (6 fields, seconds first).
type SchedulerConfig struct {
	Enabled    bool     `toml:"enabled" yaml:"enabled"`
	PreMarket  string   `toml:"pre_market" yaml:"pre_market"`   // producers in phase "pre", then the pre-market report
	PostMarket string   `toml:"post_market" yaml:"post_market"` // producers in phase "post", then the post-market report
	Holidays   []string `toml:"holidays" yaml:"holidays"`       // YYYYMMDD dates with no session
	RunTimeout string   `toml:"run_timeout" yaml:"run_timeout"` // e.g. "20m"
}

// ProducerConfig is one external fetch script.
// Args may contain {date}, replaced with the run's YYYYMMDD date.
type ProducerConfig struct {
	Name    string   `toml:"name" yaml:"name" validate:"required"`
	Command string   `toml:"command" yaml:"command" validate:"required"`
	Args    []string `toml:"args" yaml:"args"`
	Dir     string   `toml:"dir" yaml:"dir"`
	Timeout string   `toml:"timeout" yaml:"timeout"` // e.g. "2m"
	Phase   string   `toml:"phase" yaml:"phase" validate:"omitempty,oneof=pre post"`
}

// PacingConfig spaces producer launches.
type PacingConfig struct {
	MinInterval string `toml:"min_interval" yaml:"min_interval"` // e.g. "2s"
	Burst       int    `toml:"burst" yaml:"burst" validate:"gte=0"`
}

// NewDefaultConfig returns the built-in configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Data: DataConfig{
			Root:          "./w-data-news",
			ResearchDir:   "tw-stock-research",
			PostMarketDir: "tw-stock-post-market",
			RawDir:        "raw",
		},
		Report: ReportConfig{
			Timezone:          "Asia/Taipei",
			ImpactRows:        10,
			InstitutionalRows: 10,
			NewsPerSource:     15,
			ReasonRunes:       30,
			NewsSources: []NewsSourceConfig{
				{Source: "cnyes", File: "cnyes.json", Label: "鉅亨網 (Anue)"},
				{Source: "statementdog", File: "statementdog.json", Label: "財報狗 (StatementDog)"},
				{Source: "moneydj", File: "moneydj.json", Label: "MoneyDJ"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Scheduler: SchedulerConfig{
			Enabled:    false,
			PreMarket:  "0 30 8 * * 1-5",
			PostMarket: "0 0 15 * * 1-5",
			RunTimeout: "20m",
		},
		ProducerPacing: PacingConfig{
			MinInterval: "1s",
			Burst:       1,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files. Files ending in .yaml or .yml are read as YAML, everything else as TOML.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			err = yaml.Unmarshal(data, config)
		default:
			err = toml.Unmarshal(data, config)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv loads variables from the given .env files. Missing files are ignored;
// variables already set in the environment are kept.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides applies TWBRIEF_* environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TWBRIEF_ENV"); env != "" {
		config.Environment = env
	}

	// Data configuration
	if root := os.Getenv("TWBRIEF_DATA_ROOT"); root != "" {
		config.Data.Root = root
	}

	// Report configuration
	if tz := os.Getenv("TWBRIEF_TIMEZONE"); tz != "" {
		config.Report.Timezone = tz
	}
	if rows := os.Getenv("TWBRIEF_IMPACT_ROWS"); rows != "" {
		if n, err := strconv.Atoi(rows); err == nil {
			config.Report.ImpactRows = n
		}
	}

	// Logging configuration
	if level := os.Getenv("TWBRIEF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TWBRIEF_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, o := range strings.Split(output, ",") {
			if o = strings.TrimSpace(o); o != "" {
				outputs = append(outputs, o)
			}
		}
		config.Logging.Output = outputs
	}

	// Scheduler configuration
	if enabled := os.Getenv("TWBRIEF_SCHEDULER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = b
		}
	}
	if pre := os.Getenv("TWBRIEF_SCHEDULE_PRE_MARKET"); pre != "" {
		config.Scheduler.PreMarket = pre
	}
	if post := os.Getenv("TWBRIEF_SCHEDULE_POST_MARKET"); post != "" {
		config.Scheduler.PostMarket = post
	}

	if interval := os.Getenv("TWBRIEF_PRODUCER_MIN_INTERVAL"); interval != "" {
		config.ProducerPacing.MinInterval = interval
	}
}

var validate = validator.New()

// Validate checks struct constraints, schedules, durations and dates.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("invalid report timezone %q: %w", c.Report.Timezone, err)
	}
	if _, err := ParseOptionalDuration(c.ProducerPacing.MinInterval); err != nil {
		return fmt.Errorf("invalid producer_pacing.min_interval: %w", err)
	}
	if _, err := ParseOptionalDuration(c.Scheduler.RunTimeout); err != nil {
		return fmt.Errorf("invalid scheduler.run_timeout: %w", err)
	}
	for _, p := range c.Producers {
		if _, err := ParseOptionalDuration(p.Timeout); err != nil {
			return fmt.Errorf("invalid timeout for producer %s: %w", p.Name, err)
		}
	}
	for _, h := range c.Scheduler.Holidays {
		if _, err := ParseTradeDate(h); err != nil {
			return fmt.Errorf("invalid scheduler holiday: %w", err)
		}
	}
	if c.Scheduler.Enabled {
		if c.Scheduler.PreMarket == "" && c.Scheduler.PostMarket == "" {
			return fmt.Errorf("scheduler is enabled but has no schedules")
		}
		if c.Scheduler.PreMarket != "" {
			if err := ValidateSchedule(c.Scheduler.PreMarket); err != nil {
				return fmt.Errorf("invalid scheduler.pre_market: %w", err)
			}
		}
		if c.Scheduler.PostMarket != "" {
			if err := ValidateSchedule(c.Scheduler.PostMarket); err != nil {
				return fmt.Errorf("invalid scheduler.post_market: %w", err)
			}
		}
	}
	return nil
}

// ScheduleParser parses six-field cron expressions (seconds first) and descriptors such as @daily.
var ScheduleParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule validates a cron schedule expression.
func ValidateSchedule(schedule string) error {
	if _, err := ScheduleParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}

// ParseOptionalDuration parses s, treating "" as zero.
func ParseOptionalDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", s)
	}
	return d, nil
}

// ProducersFor returns the producers of phase, or all producers when phase is "".
// Producers without a phase run in both phases.
func (c *Config) ProducersFor(phase string) []ProducerConfig {
	var out []ProducerConfig
	for _, p := range c.Producers {
		if phase == "" || p.Phase == "" || p.Phase == phase {
			out = append(out, p)
		}
	}
	return out
}
