package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const Prefix = "ROSTER_"

var Formats = []string{"xlsx", "terminal", "sqlite"}

// Settings are the process-level knobs of a run, every one of them overridable by a command flag
type Settings struct {
	Solver           string        `env:"SOLVER" envDefault:"gophersat"`
	TimeLimit        time.Duration `env:"TIME_LIMIT" envDefault:"60s"`
	Keep             int           `env:"KEEP" envDefault:"5"`
	KeepIndices      []int         `env:"KEEP_INDICES" envSeparator:","`
	OutputDir        string        `env:"OUTPUT_DIR" envDefault:"out"`
	Format           string        `env:"FORMAT" envDefault:"xlsx"`
	Database         string        `env:"DATABASE" envDefault:"rosters.db"` // Only used by the sqlite format
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	SolverConfigPath string        `env:"SOLVER_CONFIG" envDefault:"config.json"`
}

func LoadSettings() (*Settings, error) {
	settings := &Settings{}
	if err := env.ParseWithOptions(settings, env.Options{Prefix: Prefix}); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// The first error is enough to point at the offending variable
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (settings *Settings) Validate() error {
	if !slices.Contains(Formats, settings.Format) {
		return fmt.Errorf("unknown format \"%v\", expected one of %v", settings.Format, Formats)
	}
	if settings.Keep < 0 {
		return fmt.Errorf("keep cannot be negative, got %d", settings.Keep)
	}
	if settings.TimeLimit < 0 {
		return fmt.Errorf("time limit cannot be negative, got %v", settings.TimeLimit)
	}
	if _, err := settings.Level(); err != nil {
		return err
	}
	return nil
}

func (settings *Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(settings.LogLevel))); err != nil {
		return 0, fmt.Errorf("unknown log level \"%v\"", settings.LogLevel)
	}
	return level, nil
}
