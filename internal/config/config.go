package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/random"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/report"
)

// AppName names the config directories and the environment prefix source
const AppName = "tttsim"

// EnvPrefix is prepended to every environment override, e.g. TTT_SIMULATION_GAMES
const EnvPrefix = "TTT"

// Config holds all configuration for the application
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Random     RandomConfig     `mapstructure:"random"`
	Tracker    TrackerConfig    `mapstructure:"tracker"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Report     ReportConfig     `mapstructure:"report"`
	Progress   ProgressConfig   `mapstructure:"progress"`
}

// SimulationConfig holds batch size settings
type SimulationConfig struct {
	Games   int `mapstructure:"games"`
	Workers int `mapstructure:"workers"` // 0 means one per CPU
}

// RandomConfig selects the move-order source
type RandomConfig struct {
	Kind       string `mapstructure:"kind"`
	Seed       uint64 `mapstructure:"seed"`
	RandomSeed bool   `mapstructure:"random_seed"` // seed from the clock instead of Seed
}

// TrackerConfig selects the board tracker implementation
type TrackerConfig struct {
	Kind string `mapstructure:"kind"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReportConfig holds result output settings
type ReportConfig struct {
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"` // empty means stdout
}

// ProgressConfig holds progress logging settings
type ProgressConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

var (
	// Global config instance
	cfg *Config
	v   *viper.Viper
	mu  sync.RWMutex
)

// setViperDefaults sets all default values using Viper's SetDefault
func setViperDefaults(v *viper.Viper) {
	// Simulation defaults
	v.SetDefault("simulation.games", 10000)
	v.SetDefault("simulation.workers", 1)

	// Random source defaults
	v.SetDefault("random.kind", string(random.KindXorshift))
	v.SetDefault("random.seed", random.DefaultSeed)
	v.SetDefault("random.random_seed", false)

	// Tracker defaults
	v.SetDefault("tracker.kind", string(core.CounterTracker))

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Report defaults
	v.SetDefault("report.format", "text")
	v.SetDefault("report.output", "")

	// Progress defaults
	v.SetDefault("progress.enabled", false)
	v.SetDefault("progress.interval", time.Second)
}

// SearchPaths lists the directories searched for config.yaml when no file is given
func SearchPaths() []string {
	return []string{
		".",
		"./config",
		filepath.Join(xdg.ConfigHome, AppName),
		filepath.Join("/etc", AppName),
	}
}

// Init initializes the configuration
func Init(configPath string) error {
	nv := viper.New()

	// Set defaults before loading any config
	setViperDefaults(nv)

	// Set config file
	if configPath != "" {
		nv.SetConfigFile(configPath)
	} else {
		// Default config locations
		nv.SetConfigName("config")
		nv.SetConfigType("yaml")
		for _, p := range SearchPaths() {
			nv.AddConfigPath(p)
		}
	}

	// Set environment variable prefix
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	// CPUS is the historical worker count override. It has no automatic
	// value, so zero is rejected rather than read as "one per CPU".
	if err := checkCPUS(); err != nil {
		return err
	}
	if err := nv.BindEnv("simulation.workers", EnvPrefix+"_SIMULATION_WORKERS", "CPUS"); err != nil {
		return fmt.Errorf("error binding worker environment: %w", err)
	}

	// Read config file
	if err := nv.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; use defaults
	}

	c, err := decode(nv)
	if err != nil {
		return err
	}

	mu.Lock()
	v, cfg = nv, c
	mu.Unlock()
	return nil
}

// checkCPUS validates CPUS when it is the source of simulation.workers
func checkCPUS() error {
	if _, ok := os.LookupEnv(EnvPrefix + "_SIMULATION_WORKERS"); ok {
		return nil
	}
	raw, ok := os.LookupEnv("CPUS")
	if !ok {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err != nil || n < 1 {
		return fmt.Errorf("CPUS must be at least 1, got %q", raw)
	}
	return nil
}

// isNotFound reports whether err means the config file does not exist, both
// for searched locations and for an explicit path
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func decode(nv *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := Validate(c); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}

// Get returns the global config instance
func Get() *Config {
	mu.RLock()
	c := cfg
	mu.RUnlock()
	if c == nil {
		// Initialize with defaults if not already initialized
		if err := Init(""); err != nil {
			panic("failed to initialize config with defaults: " + err.Error())
		}
		return Get()
	}
	return c
}

// GetViper returns the viper instance for advanced usage
func GetViper() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		panic("config not initialized - call Init() first")
	}
	return v
}

// LoadEnvironmentConfig merges config.<env>.yaml from the directory of the
// loaded config file (or the working directory) over the current settings
func LoadEnvironmentConfig(env string) error {
	if env == "" {
		return nil
	}

	nv := GetViper()
	envFile := fmt.Sprintf("config.%s.yaml", env)
	if used := nv.ConfigFileUsed(); used != "" {
		envFile = filepath.Join(filepath.Dir(used), envFile)
	}

	nv.SetConfigFile(envFile)
	if err := nv.MergeInConfig(); err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("error merging environment config %s: %w", envFile, err)
		}
		return nil
	}
	return reload(nv)
}

// Set allows runtime config updates. The value is validated with the rest of
// the configuration.
func Set(key string, value interface{}) error {
	nv := GetViper()
	nv.Set(key, value)
	return reload(nv)
}

func reload(nv *viper.Viper) error {
	c, err := decode(nv)
	if err != nil {
		return err
	}
	mu.Lock()
	cfg = c
	mu.Unlock()
	return nil
}

// ConfigFilePath returns the path of the loaded config file
func ConfigFilePath() string {
	return GetViper().ConfigFileUsed()
}

// WatchConfig enables hot-reloading of the config file. A change that fails
// validation is logged and the previous configuration stays in effect.
func WatchConfig(onChange func(*Config)) {
	nv := GetViper()
	nv.OnConfigChange(func(e fsnotify.Event) {
		logger := log.With().Str("component", "config").Str("file", e.Name).Logger()
		if err := reload(nv); err != nil {
			logger.Warn().Err(err).Msg("Ignoring invalid config change")
			return
		}
		logger.Info().Str("op", e.Op.String()).Msg("Config reloaded")
		if onChange != nil {
			onChange(Get())
		}
	})
	nv.WatchConfig()
}

// Validate validates the configuration values
func Validate(c *Config) error {
	// Validate simulation settings
	if c.Simulation.Games < 0 {
		return fmt.Errorf("simulation.games must be non-negative")
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers must be non-negative")
	}

	// Validate implementation choices
	if _, err := random.ParseKind(c.Random.Kind); err != nil {
		return fmt.Errorf("random.kind: %w", err)
	}
	if _, err := core.ParseTrackerKind(c.Tracker.Kind); err != nil {
		return fmt.Errorf("tracker.kind: %w", err)
	}

	// Validate output settings
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}

	if c.Progress.Enabled && c.Progress.Interval <= 0 {
		return fmt.Errorf("progress.interval must be positive when progress is enabled")
	}

	return nil
}
