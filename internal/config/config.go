// Package config loads matcher configuration from YAML.
//
// A missing field keeps its default, so an empty document is a valid
// configuration. Values are checked with validator struct tags after
// decoding.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/acmatch/pkg/acmatch"
)

var metricNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("metricname", func(fl validator.FieldLevel) bool {
		return metricNameRe.MatchString(fl.Field().String())
	})
	return v
}

// Config is the top-level configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	// Matcher selects the AC search behaviour.
	Matcher MatcherConfig `yaml:"matcher"`

	// Batch configures MatchBatch.
	Batch BatchConfig `yaml:"batch"`

	// Log configures the slog handler.
	Log LogConfig `yaml:"log"`

	// Metrics configures the Prometheus observer.
	Metrics MetricsConfig `yaml:"metrics"`
}

// MatcherConfig mirrors the acmatch options.
type MatcherConfig struct {
	Strategy       string `yaml:"strategy" validate:"oneof=greedy exhaustive"`
	CandidateOrder string `yaml:"candidate_order" validate:"oneof=ascending descending"`
	PatternOrder   string `yaml:"pattern_order" validate:"oneof=as_written generality"`
}

// BatchConfig contains batch matching settings. Zero workers means one per CPU.
type BatchConfig struct {
	Workers int `yaml:"workers" validate:"gte=0,lte=256"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"required,metricname"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Matcher: MatcherConfig{
			Strategy:       acmatch.Greedy.String(),
			CandidateOrder: acmatch.Ascending.String(),
			PatternOrder:   acmatch.AsWritten.String(),
		},
		Batch: BatchConfig{Workers: 0},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "acmatch",
		},
	}
}

// Load reads and parses a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// MatcherOptions converts the matcher section into acmatch options. The
// logger and observer are passed through as-is; nil disables them.
func (c Config) MatcherOptions(logger *slog.Logger, observer acmatch.Observer) ([]acmatch.Option, error) {
	strategy, err := acmatch.ParseStrategy(c.Matcher.Strategy)
	if err != nil {
		return nil, err
	}
	candidates, err := acmatch.ParseCandidateOrder(c.Matcher.CandidateOrder)
	if err != nil {
		return nil, err
	}
	patterns, err := acmatch.ParsePatternOrder(c.Matcher.PatternOrder)
	if err != nil {
		return nil, err
	}
	return []acmatch.Option{
		acmatch.WithStrategy(strategy),
		acmatch.WithCandidateOrder(candidates),
		acmatch.WithPatternOrder(patterns),
		acmatch.WithLogger(logger),
		acmatch.WithObserver(observer),
	}, nil
}

// Logger builds a slog.Logger writing to w at the configured level and format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.Log.Level)}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
