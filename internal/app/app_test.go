package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/specialistvlad/fsgen/internal/annotation"
	"github.com/specialistvlad/fsgen/internal/artifact"
	"github.com/specialistvlad/fsgen/internal/fstree"
	"github.com/specialistvlad/fsgen/internal/logrecord"
	"github.com/specialistvlad/fsgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buildDate = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func generateConfig(t *testing.T, root string) *Config {
	t.Helper()
	cfg, err := NewConfig(Config{
		Name:      "blink",
		Version:   "1.0.2",
		Board:     "arduino_due",
		MCU:       "sam3x8e",
		Output:    filepath.Join(root, "build", "fs_gen.c"),
		Inputs:    []string{filepath.Join(root, "pp")},
		BuildDate: buildDate,
		User:      "ci",
		LogLevel:  "debug",
		LogFormat: "text",
	})
	require.NoError(t, err)
	return cfg
}

func runApp(t *testing.T, cfg *Config) (string, string, error) {
	t.Helper()
	out, logs := &testutil.SafeBuffer{}, &testutil.SafeBuffer{}
	err := NewApp(out, logs, cfg).Run(context.Background())
	t.Cleanup(func() {
		if os.Getenv("FSGEN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return out.String(), logs.String(), err
}

func TestRun_GenerateWritesModule(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"pp/main.i": testutil.MainSource})
	cfg := generateConfig(t, root)

	_, logs, err := runApp(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs, "Generated file written.")

	got, err := os.ReadFile(cfg.Output)
	require.NoError(t, err)
	assert.Contains(t, string(got), " * @file fs_gen.c")
	assert.Contains(t, string(got), "blink-1.0.2 built 2024-03-01 12:30 UTC by ci.")
	assert.Contains(t, string(got), "extern int cmd_reboot(")
	assert.Contains(t, string(got), "int evt_boot_write(char level, ...)")

	// A second run with identical inputs leaves the file alone.
	_, logs, err = runApp(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs, "Generated file is up to date.")
}

func TestRun_CheckReportsStaleOutput(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"pp/main.i":      testutil.MainSource,
		"build/fs_gen.c": "/* old */\n",
	})
	cfg := generateConfig(t, root)
	cfg.Check = true

	_, _, err := runApp(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, artifact.ErrStale))

	got, rerr := os.ReadFile(cfg.Output)
	require.NoError(t, rerr)
	assert.Equal(t, "/* old */\n", string(got))
}

func TestRun_ErrorsWriteNothing(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		mark   error
	}{
		{
			name:   "conflicting declarations",
			source: "..fs_command.. \"/a\" \"cmd_a\";\n..fs_command.. \"/a/b\" \"cmd_b\";\n",
			mark:   fstree.ErrConflict,
		},
		{
			name:   "malformed marker",
			source: "..fs_command.. \"/a\";\n",
			mark:   annotation.ErrMalformed,
		},
		{
			name:   "unsupported specifier",
			source: "..log-begin.. evt \"%s\" ..log-end..;\n",
			mark:   logrecord.ErrUnsupportedSpecifier,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root := testutil.WriteFiles(t, map[string]string{"pp/main.i": tc.source})
			cfg := generateConfig(t, root)

			_, _, err := runApp(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.mark), "unexpected error: %v", err)
			_, statErr := os.Stat(cfg.Output)
			assert.True(t, os.IsNotExist(statErr), "output must not be written on failure")
		})
	}
}

func TestRun_LenientFormatKeepsSpecifier(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{
		"pp/main.i": "..log-begin.. evt \"name=%s\" ..log-end..;\n",
	})
	cfg := generateConfig(t, root)
	cfg.LenientFormat = true

	_, logs, err := runApp(t, cfg)
	require.NoError(t, err)
	assert.Contains(t, logs, "Unsupported specifier kept as text")
}

func TestRun_EmptyInputDirectory(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"pp/readme.txt": ""})
	cfg := generateConfig(t, root)

	_, _, err := runApp(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files found")
}

func TestRun_Inspect(t *testing.T) {
	root := testutil.WriteFiles(t, map[string]string{"main.i": testutil.MainSource})
	cfg, err := NewConfig(Config{
		Mode:   ModeInspect,
		Inputs: []string{filepath.Join(root, "main.i")},
	})
	require.NoError(t, err)

	out, _, err := runApp(t, cfg)
	require.NoError(t, err)
	for _, want := range []string{
		"PATH", "/drv/uart/baud", "fs_parameter_cmd_uart_baud",
		"counters:   6 end",
		"parameters: 7 end",
		"evt_temp", "int@0 int@4",
		"unsigned long@0",
	} {
		assert.Contains(t, out, want)
	}
}

func TestNewConfig(t *testing.T) {
	valid := Config{
		Name: "a", Version: "1", Board: "b", MCU: "m",
		Output: "out.c", Inputs: []string{"in.i"},
	}

	t.Run("defaults", func(t *testing.T) {
		cfg, err := NewConfig(valid)
		require.NoError(t, err)
		assert.Equal(t, ModeGenerate, cfg.Mode)
		assert.Equal(t, 4, cfg.LongSize)
		assert.Equal(t, 4, cfg.ABI().LongSize)
	})

	testCases := []struct {
		name     string
		mutate   func(c *Config)
		contains string
	}{
		{name: "no inputs", mutate: func(c *Config) { c.Inputs = nil }, contains: "input"},
		{name: "no output", mutate: func(c *Config) { c.Output = "" }, contains: "output"},
		{name: "no board", mutate: func(c *Config) { c.Board = "" }, contains: "board"},
		{name: "bad long size", mutate: func(c *Config) { c.LongSize = 2 }, contains: "long size"},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "serve" }, contains: "mode"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			cfg.Inputs = append([]string(nil), valid.Inputs...)
			tc.mutate(&cfg)
			_, err := NewConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}

	t.Run("inspect needs no identity", func(t *testing.T) {
		_, err := NewConfig(Config{Mode: ModeInspect, Inputs: []string{"in.i"}})
		require.NoError(t, err)
	})
}

func TestBuildUserAndDateDefaults(t *testing.T) {
	a := NewApp(&testutil.SafeBuffer{}, &testutil.SafeBuffer{}, &Config{})
	fixed := time.Unix(42, 0)
	a.now = func() time.Time { return fixed }
	assert.Equal(t, fixed, a.buildDate())
	assert.NotEmpty(t, a.buildUser())
}
