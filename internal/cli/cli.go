package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/app"
	"github.com/specialistvlad/fsgen/internal/config"
	"github.com/specialistvlad/fsgen/internal/fsutil"
	"github.com/spf13/cobra"
)

// Environment variables providing flag defaults.
const (
	EnvLogLevel        = "FSGEN_LOG_LEVEL"
	EnvLogFormat       = "FSGEN_LOG_FORMAT"
	EnvLongSize        = "FSGEN_LONG_SIZE"
	EnvSourceDateEpoch = "SOURCE_DATE_EPOCH"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// parser collects the flag values of one Parse call.
type parser struct {
	loader config.Loader

	logLevel      string
	logFormat     string
	longSize      int
	lenientFormat bool
	extensions    []string
	configPath    string
	check         bool

	result *app.Config
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	return parse(args, output, config.NewHCLLoader())
}

func parse(args []string, output io.Writer, loader config.Loader) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	p := &parser{loader: loader}

	root, err := p.rootCommand()
	if err != nil {
		return nil, false, err
	}
	root.SetArgs(args)
	root.SetOut(output)
	root.SetErr(output)

	if err := root.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return nil, false, exitErr
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if p.result == nil {
		slog.Debug("No command ran, exiting.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "mode", p.result.Mode)
	return p.result, false, nil
}

func (p *parser) rootCommand() (*cobra.Command, error) {
	longSize := 0
	if v := os.Getenv(EnvLongSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, usageError("invalid %s %q: must be 4 or 8", EnvLongSize, v)
		}
		longSize = n
	}

	root := &cobra.Command{
		Use:   "fsgen",
		Short: "Generate the file system and log tables of a Simba application",
		Long: `
fsgen scans preprocessed C sources for file system and log point annotations
and generates the C module holding the node tree, the string table, the
counter and parameter lists and the log record functions.
`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&p.logLevel, "log-level", envOr(EnvLogLevel, "info"),
		"Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&p.logFormat, "log-format", envOr(EnvLogFormat, "text"),
		"Log output format. Options: 'text' or 'json'.")
	flags.IntVar(&p.longSize, "long-size", longSize,
		"Size of the target's long in bytes: 4 or 8. Defaults to 4.")
	flags.BoolVar(&p.lenientFormat, "lenient-format", false,
		"Keep unsupported format specifiers as text instead of failing.")
	flags.StringSliceVar(&p.extensions, "extensions", fsutil.DefaultExtensions,
		"File suffixes scanned when an input is a directory.")

	generate := &cobra.Command{
		Use:   "generate NAME VERSION BOARD MCU OUTFILE INFILE...",
		Short: "generate the C module",
		Long: `
Generate the C module from the given preprocessed inputs. Inputs may be files
or directories. With --config the positional arguments come from an HCL
project file instead.
`,
		RunE: p.runGenerate,
	}
	generate.Flags().StringVar(&p.configPath, "config", "", "Path to an HCL project file.")
	generate.Flags().BoolVar(&p.check, "check", false,
		"Fail if the output file is not up to date instead of writing it.")

	inspect := &cobra.Command{
		Use:   "inspect INFILE...",
		Short: "print the generated tables",
		Args:  cobra.MinimumNArgs(1),
		RunE:  p.runInspect,
	}

	root.AddCommand(generate, inspect)
	return root, nil
}

func (p *parser) runGenerate(cmd *cobra.Command, args []string) error {
	cfg := app.Config{Mode: app.ModeGenerate, Check: p.check}

	if p.configPath != "" {
		if len(args) != 0 {
			return usageError("positional arguments cannot be combined with --config")
		}
		proj, err := p.loader.Load(context.Background(), p.configPath)
		if err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.Name, cfg.Version = proj.Name, proj.Version
		cfg.Board, cfg.MCU = proj.Board, proj.MCU
		cfg.Output, cfg.Inputs = proj.Output, proj.Inputs
		if proj.LongSize != 0 && !cmd.Flags().Changed("long-size") {
			p.longSize = proj.LongSize
		}
	} else {
		if len(args) < 6 {
			return usageError("generate requires NAME VERSION BOARD MCU OUTFILE and at least one INFILE, got %d arguments", len(args))
		}
		cfg.Name, cfg.Version, cfg.Board, cfg.MCU, cfg.Output = args[0], args[1], args[2], args[3], args[4]
		cfg.Inputs = args[5:]
	}
	return p.finish(cfg)
}

func (p *parser) runInspect(_ *cobra.Command, args []string) error {
	return p.finish(app.Config{Mode: app.ModeInspect, Inputs: args})
}

// finish applies the shared flags, validates and stores the configuration.
func (p *parser) finish(cfg app.Config) error {
	logFormat := strings.ToLower(p.logFormat)
	if logFormat != "text" && logFormat != "json" {
		return usageError("invalid log-format: must be 'text' or 'json'")
	}

	logLevel := strings.ToLower(p.logLevel)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	date, err := sourceDateEpoch()
	if err != nil {
		return err
	}

	cfg.LogFormat = logFormat
	cfg.LogLevel = logLevel
	cfg.LongSize = p.longSize
	cfg.LenientFormat = p.lenientFormat
	cfg.Extensions = p.extensions
	cfg.BuildDate = date

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	p.result = validated
	return nil
}

// sourceDateEpoch reads the reproducible-builds timestamp, if set.
func sourceDateEpoch() (time.Time, error) {
	v := os.Getenv(EnvSourceDateEpoch)
	if v == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(v, 10, 64)
	if err != nil || sec < 0 {
		return time.Time{}, usageError("invalid %s %q: must be a non-negative integer", EnvSourceDateEpoch, v)
	}
	return time.Unix(sec, 0).UTC(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
