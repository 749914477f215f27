package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/report"
)

func resetGlobals() {
	mu.Lock()
	cfg = nil
	v = nil
	mu.Unlock()
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInit(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", `
simulation:
  games: 500
  workers: 4
random:
  kind: math
  seed: 42
tracker:
  kind: run
report:
  format: json
  output: results.json
progress:
  enabled: true
  interval: 250ms
`)

	resetGlobals()
	require.NoError(t, Init(configFile))

	c := Get()
	assert.Equal(t, 500, c.Simulation.Games)
	assert.Equal(t, 4, c.Simulation.Workers)
	assert.Equal(t, "math", c.Random.Kind)
	assert.Equal(t, uint64(42), c.Random.Seed)
	assert.Equal(t, "run", c.Tracker.Kind)
	assert.Equal(t, "json", c.Report.Format)
	assert.Equal(t, "results.json", c.Report.Output)
	assert.True(t, c.Progress.Enabled)
	assert.Equal(t, 250*time.Millisecond, c.Progress.Interval)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	// Initialize with non-existent config (should use defaults)
	require.NoError(t, Init("/non/existent/path/config.yaml"))

	c := Get()
	assert.Equal(t, 10000, c.Simulation.Games)
	assert.Equal(t, 1, c.Simulation.Workers)
	assert.Equal(t, "xorshift", c.Random.Kind)
	assert.Equal(t, uint64(1729163), c.Random.Seed)
	assert.False(t, c.Random.RandomSeed)
	assert.Equal(t, "counter", c.Tracker.Kind)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.Equal(t, "text", c.Report.Format)
	assert.Empty(t, c.Report.Output)
	assert.False(t, c.Progress.Enabled)
	assert.Equal(t, time.Second, c.Progress.Interval)
}

func TestInitMalformedFile(t *testing.T) {
	configFile := writeConfig(t, t.TempDir(), "config.yaml", "simulation: [games\n")

	resetGlobals()
	assert.Error(t, Init(configFile))
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("TTT_SIMULATION_GAMES", "250")
	t.Setenv("TTT_TRACKER_KIND", "run")
	t.Setenv("TTT_RANDOM_RANDOM_SEED", "true")

	require.NoError(t, Init(""))

	// Environment variables should override
	c := Get()
	assert.Equal(t, 250, c.Simulation.Games)
	assert.Equal(t, "run", c.Tracker.Kind)
	assert.True(t, c.Random.RandomSeed)
}

func TestCPUSOverridesWorkers(t *testing.T) {
	resetGlobals()
	t.Setenv("CPUS", "8")

	require.NoError(t, Init(""))
	assert.Equal(t, 8, Get().Simulation.Workers)
}

func TestPrefixedWorkersWinOverCPUS(t *testing.T) {
	resetGlobals()
	t.Setenv("CPUS", "8")
	t.Setenv("TTT_SIMULATION_WORKERS", "3")

	require.NoError(t, Init(""))
	assert.Equal(t, 3, Get().Simulation.Workers)
}

func TestCPUSMustNameAWorker(t *testing.T) {
	for _, raw := range []string{"0", "-2", "many"} {
		t.Run(raw, func(t *testing.T) {
			resetGlobals()
			t.Setenv("CPUS", raw)

			err := Init("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "CPUS must be at least 1")
		})
	}
}

func TestPrefixedWorkersZeroIgnoresCPUS(t *testing.T) {
	resetGlobals()
	t.Setenv("CPUS", "0")
	t.Setenv("TTT_SIMULATION_WORKERS", "0")

	require.NoError(t, Init(""))
	assert.Equal(t, 0, Get().Simulation.Workers)
}

func TestInvalidEnvironmentFailsValidation(t *testing.T) {
	resetGlobals()
	t.Setenv("TTT_RANDOM_KIND", "mersenne")

	err := Init("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "random.kind")
}

func TestSet(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	require.NoError(t, Set("simulation.games", 35))
	require.NoError(t, Set("report.format", "json"))

	c := Get()
	assert.Equal(t, 35, c.Simulation.Games)
	assert.Equal(t, "json", c.Report.Format)
}

func TestSetRejectsInvalidValue(t *testing.T) {
	resetGlobals()
	require.NoError(t, Init(""))

	err := Set("simulation.games", -1)
	require.Error(t, err)
	// The previous configuration stays in effect
	assert.Equal(t, 10000, Get().Simulation.Games)

	resetGlobals()
	require.NoError(t, Init(""))
	err = Set("report.format", "csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()
	baseConfig := writeConfig(t, tmpDir, "config.yaml", `
simulation:
  games: 100
logging:
  level: info
`)
	writeConfig(t, tmpDir, "config.bench.yaml", `
simulation:
  games: 100000
  workers: 0
logging:
  level: warn
`)

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("bench"))

	// Check merged values
	c := Get()
	assert.Equal(t, 100000, c.Simulation.Games)
	assert.Equal(t, 0, c.Simulation.Workers)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "counter", c.Tracker.Kind) // default kept
}

func TestLoadEnvironmentConfigMissing(t *testing.T) {
	baseConfig := writeConfig(t, t.TempDir(), "config.yaml", "simulation:\n  games: 7\n")

	resetGlobals()
	require.NoError(t, Init(baseConfig))
	require.NoError(t, LoadEnvironmentConfig("nope"))
	require.NoError(t, LoadEnvironmentConfig(""))
	assert.Equal(t, 7, Get().Simulation.Games)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Simulation: SimulationConfig{Games: 10, Workers: 1},
			Random:     RandomConfig{Kind: "xorshift"},
			Tracker:    TrackerConfig{Kind: "counter"},
			Logging:    LoggingConfig{Level: "info", Format: "console"},
			Report:     ReportConfig{Format: "text"},
			Progress:   ProgressConfig{Interval: time.Second},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		errKey string
	}{
		{"valid", func(c *Config) {}, ""},
		{"negative games", func(c *Config) { c.Simulation.Games = -1 }, "simulation.games"},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }, "simulation.workers"},
		{"unknown source", func(c *Config) { c.Random.Kind = "pcg" }, "random.kind"},
		{"unknown tracker", func(c *Config) { c.Tracker.Kind = "grid" }, "tracker.kind"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"bad report format", func(c *Config) { c.Report.Format = "csv" }, "report.format"},
		{"zero interval", func(c *Config) { c.Progress.Enabled = true; c.Progress.Interval = 0 }, "progress.interval"},
		{"zero interval disabled", func(c *Config) { c.Progress.Interval = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := Validate(c)
			if tt.errKey == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errKey)
		})
	}
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths()
	require.Len(t, paths, 4)
	assert.Equal(t, ".", paths[0])
	assert.Equal(t, filepath.Join("/etc", "tttsim"), paths[3])
	assert.Equal(t, "tttsim", filepath.Base(paths[2]))
}

func TestWatchConfig(t *testing.T) {
	dir := t.TempDir()
	configFile := writeConfig(t, dir, "config.yaml", "simulation:\n  games: 1\n")

	resetGlobals()
	require.NoError(t, Init(configFile))

	changed := make(chan *Config, 4)
	WatchConfig(func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	// Give the watcher a moment to register before writing
	time.Sleep(50 * time.Millisecond)
	writeConfig(t, dir, "config.yaml", "simulation:\n  games: 2\n")

	select {
	case c := <-changed:
		assert.Equal(t, 2, c.Simulation.Games)
	case <-time.After(5 * time.Second):
		t.Skip("no fsnotify event delivered on this filesystem")
	}
}
