package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"todo_e2e/application/suite"
	"todo_e2e/infrastructure/browser"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "TODO_E2E"

// Config holds everything a suite run needs
type Config struct {
	BaseURL       string        `mapstructure:"base_url"`
	Driver        string        `mapstructure:"driver"`
	Headless      bool          `mapstructure:"headless"`
	WindowWidth   int           `mapstructure:"window_width"`
	WindowHeight  int           `mapstructure:"window_height"`
	NoSandbox     bool          `mapstructure:"no_sandbox"`
	ProfileRoot   string        `mapstructure:"profile_root"`
	DriverPath    string        `mapstructure:"driver_path"`
	BrowserPath   string        `mapstructure:"browser_path"`
	Timeout       time.Duration `mapstructure:"timeout"`
	LongTimeout   time.Duration `mapstructure:"long_timeout"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	CaseTimeout   time.Duration `mapstructure:"case_timeout"`
	Parallel      int           `mapstructure:"parallel"`
	ArtifactsDir  string        `mapstructure:"artifacts_dir"`
	Screenshots   bool          `mapstructure:"screenshots"`
	ExpectedTitle string        `mapstructure:"expected_title"`
	LogLevel      string        `mapstructure:"log_level"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		BaseURL:       "http://localhost:3000",
		Driver:        browser.DriverSelenium,
		Headless:      true,
		WindowWidth:   1920,
		WindowHeight:  1080,
		NoSandbox:     true,
		Timeout:       10 * time.Second,
		LongTimeout:   15 * time.Second,
		PollInterval:  500 * time.Millisecond,
		CaseTimeout:   2 * time.Minute,
		Parallel:      1,
		Screenshots:   true,
		ExpectedTitle: "Todo App",
		LogLevel:      "info",
	}
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"base-url":      "base_url",
	"driver":        "driver",
	"headless":      "headless",
	"parallel":      "parallel",
	"timeout":       "timeout",
	"artifacts-dir": "artifacts_dir",
	"log-level":     "log_level",
	"config":        "",
}

// RegisterFlags - adds the flags Load understands to fs
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("config", "", "Path to a YAML/JSON/TOML config file")
	fs.String("base-url", d.BaseURL, "URL of the Todo application under test")
	fs.String("driver", d.Driver, fmt.Sprintf("Browser driver %v", browser.Drivers))
	fs.Bool("headless", d.Headless, "Run the browser headless")
	fs.Int("parallel", d.Parallel, "Number of cases run at once")
	fs.Duration("timeout", d.Timeout, "Default wait timeout")
	fs.String("artifacts-dir", "", "Directory for screenshots and the run report")
	fs.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
}

// Load builds the configuration from defaults, an optional .env file, an
// optional config file, TODO_E2E_* environment variables and flags, in
// increasing precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v, Defaults())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// variables the browser controller always honored
	_ = v.BindEnv("driver_path", envPrefix+"_DRIVER_PATH", "BROWSER_DRIVER_PATH")
	_ = v.BindEnv("browser_path", envPrefix+"_BROWSER_PATH", "CHROME_BINARY_PATH")
	_ = v.BindEnv("base_url", envPrefix+"_BASE_URL", "BASE_URL")

	configFile := ""
	if fs != nil {
		for flag, key := range flagKeys {
			f := fs.Lookup(flag)
			if f == nil || key == "" {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
		if f := fs.Lookup("config"); f != nil {
			configFile = f.Value.String()
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("driver", d.Driver)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("window_width", d.WindowWidth)
	v.SetDefault("window_height", d.WindowHeight)
	v.SetDefault("no_sandbox", d.NoSandbox)
	v.SetDefault("profile_root", d.ProfileRoot)
	v.SetDefault("driver_path", d.DriverPath)
	v.SetDefault("browser_path", d.BrowserPath)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("long_timeout", d.LongTimeout)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("case_timeout", d.CaseTimeout)
	v.SetDefault("parallel", d.Parallel)
	v.SetDefault("artifacts_dir", d.ArtifactsDir)
	v.SetDefault("screenshots", d.Screenshots)
	v.SetDefault("expected_title", d.ExpectedTitle)
	v.SetDefault("log_level", d.LogLevel)
}

// Validate - rejects configurations no run could succeed with
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	if !slices.Contains(browser.Drivers, c.Driver) {
		errs = append(errs, fmt.Errorf("unknown driver %q (available: %v)", c.Driver, browser.Drivers))
	}
	if c.Timeout <= 0 || c.LongTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	if c.Parallel < 1 {
		errs = append(errs, errors.New("parallel must be at least 1"))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// BrowserOptions - launch options derived from the configuration
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		Headless:          c.Headless,
		Width:             c.WindowWidth,
		Height:            c.WindowHeight,
		NoSandbox:         c.NoSandbox,
		ProfileRoot:       c.ProfileRoot,
		DriverPath:        c.DriverPath,
		BrowserPath:       c.BrowserPath,
		NavigationTimeout: c.LongTimeout * 2,
	}
}

// NewLogger - creates the logger every component writes through
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// SuiteConfig - the subset the runner and case bodies read
func (c *Config) SuiteConfig() suite.Config {
	return suite.Config{
		BaseURL:       c.BaseURL,
		ExpectedTitle: c.ExpectedTitle,
		Timeout:       c.Timeout,
		LongTimeout:   c.LongTimeout,
		PollInterval:  c.PollInterval,
		CaseTimeout:   c.CaseTimeout,
		Parallel:      c.Parallel,
		Screenshots:   c.Screenshots,
	}
}
