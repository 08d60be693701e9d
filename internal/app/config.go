package app

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/logrecord"
)

// Mode selects what Run does with the generated model.
type Mode string

const (
	// ModeGenerate renders the C module and writes it to Output.
	ModeGenerate Mode = "generate"
	// ModeInspect prints the node table and log records instead.
	ModeInspect Mode = "inspect"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Mode Mode

	// Identity written into the sysinfo block.
	Name    string
	Version string
	Board   string
	MCU     string

	Output     string
	Inputs     []string // files or directories
	Extensions []string // suffixes picked up from directory inputs

	LongSize      int
	LenientFormat bool
	Check         bool

	// BuildDate is stamped into the output; zero means now.
	BuildDate time.Time
	// User is stamped into sysinfo; empty means the current user.
	User string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Mode == "" {
		cfg.Mode = ModeGenerate
	}
	if len(cfg.Inputs) == 0 {
		return nil, errors.New("at least one input file is required")
	}

	switch cfg.Mode {
	case ModeInspect:
	case ModeGenerate:
		for _, f := range []struct{ name, value string }{
			{"name", cfg.Name},
			{"version", cfg.Version},
			{"board", cfg.Board},
			{"mcu", cfg.MCU},
			{"output", cfg.Output},
		} {
			if f.value == "" {
				return nil, errors.Newf("%s is a required configuration field and cannot be empty", f.name)
			}
		}
	default:
		return nil, errors.Newf("unknown mode %q", cfg.Mode)
	}

	if cfg.LongSize == 0 {
		cfg.LongSize = logrecord.DefaultABI().LongSize
	}
	if err := cfg.ABI().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ABI is the target ABI the log records are laid out for.
func (c *Config) ABI() logrecord.ABI {
	abi := logrecord.DefaultABI()
	abi.LongSize = c.LongSize
	return abi
}
