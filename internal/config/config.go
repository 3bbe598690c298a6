package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	VisionModeOllama = "ollama"
	VisionModeOpenAI = "openai"

	DefaultModel     = "llava:latest"
	DefaultOllamaURL = "http://localhost:11434"
	DefaultReportDir = "test_reports"
	DefaultServeAddr = ":8089"

	envPrefix = "WEBTEST"
)

// Config holds everything a run needs. CLI flags cover the scenario inputs;
// the remaining knobs come from WEBTEST_* variables (or .env files).
type Config struct {
	URL      string
	Username string
	Password string
	Model    string
	Headless bool

	OllamaURL     string
	VisionMode    string
	VisionTimeout time.Duration

	LocatorWait   time.Duration
	SettleTimeout time.Duration
	SettleQuiet   time.Duration
	InputDelay    time.Duration

	ReportDir          string
	TemplatePath       string
	LocatorsPath       string
	LogDir             string
	ScreenshotMaxWidth int
}

// ServeConfig is what the report server needs.
type ServeConfig struct {
	Addr          string
	ReportDir     string
	LogDir        string
	AccessLogJSON bool
}

// RegisterFlags adds the scenario flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("url", "", "URL of the application to test")
	fs.String("username", "", "login username")
	fs.String("password", "", "login password")
	fs.String("model", DefaultModel, "vision model to use")
	fs.Bool("headless", false, "run the browser in headless mode")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model", DefaultModel)
	v.SetDefault("headless", false)
	v.SetDefault("ollama-url", DefaultOllamaURL)
	v.SetDefault("vision-mode", VisionModeOllama)
	v.SetDefault("vision-timeout", time.Duration(0))
	v.SetDefault("locator-wait", 10*time.Second)
	v.SetDefault("settle-timeout", 3*time.Second)
	v.SetDefault("settle-quiet", 500*time.Millisecond)
	v.SetDefault("input-delay", 500*time.Millisecond)
	v.SetDefault("report-dir", DefaultReportDir)
	v.SetDefault("template", "")
	v.SetDefault("locators", "")
	v.SetDefault("addr", DefaultServeAddr)
	v.SetDefault("access-log-json", false)
	v.SetDefault("log-dir", "log")
	v.SetDefault("screenshot-max-width", 1024)
}

// New returns a viper instance reading WEBTEST_* variables, with dashes in
// keys mapped to underscores (vision-mode -> WEBTEST_VISION_MODE).
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load merges defaults, environment and flags (highest precedence).
func Load(v *viper.Viper, fs *pflag.FlagSet) (Config, error) {
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := Config{
		URL:                strings.TrimSpace(v.GetString("url")),
		Username:           v.GetString("username"),
		Password:           v.GetString("password"),
		Model:              v.GetString("model"),
		Headless:           v.GetBool("headless"),
		OllamaURL:          strings.TrimRight(v.GetString("ollama-url"), "/"),
		VisionMode:         strings.ToLower(v.GetString("vision-mode")),
		VisionTimeout:      v.GetDuration("vision-timeout"),
		LocatorWait:        v.GetDuration("locator-wait"),
		SettleTimeout:      v.GetDuration("settle-timeout"),
		SettleQuiet:        v.GetDuration("settle-quiet"),
		InputDelay:         v.GetDuration("input-delay"),
		ReportDir:          v.GetString("report-dir"),
		TemplatePath:       v.GetString("template"),
		LocatorsPath:       v.GetString("locators"),
		LogDir:             v.GetString("log-dir"),
		ScreenshotMaxWidth: v.GetInt("screenshot-max-width"),
	}

	return cfg, cfg.Validate()
}

// RegisterServeFlags adds the report server flags to fs.
func RegisterServeFlags(fs *pflag.FlagSet) {
	fs.String("addr", DefaultServeAddr, "listen address for the report server")
}

func LoadServe(v *viper.Viper, fs *pflag.FlagSet) (ServeConfig, error) {
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return ServeConfig{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	cfg := ServeConfig{
		Addr:          v.GetString("addr"),
		ReportDir:     v.GetString("report-dir"),
		LogDir:        v.GetString("log-dir"),
		AccessLogJSON: v.GetBool("access-log-json"),
	}
	if cfg.Addr == "" {
		return cfg, errors.New("addr must not be empty")
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.URL == "" {
		errs = append(errs, errors.New("url is required"))
	} else if u, err := url.Parse(c.URL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("url %q is not absolute", c.URL))
	}
	if c.Username == "" {
		errs = append(errs, errors.New("username is required"))
	}
	if c.Password == "" {
		errs = append(errs, errors.New("password is required"))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}

	switch c.VisionMode {
	case VisionModeOllama, VisionModeOpenAI:
	default:
		errs = append(errs, fmt.Errorf("vision mode %q: want %s or %s", c.VisionMode, VisionModeOllama, VisionModeOpenAI))
	}

	if c.LocatorWait <= 0 {
		errs = append(errs, errors.New("locator wait must be positive"))
	}
	if c.ScreenshotMaxWidth < 0 {
		errs = append(errs, errors.New("screenshot max width must not be negative"))
	}

	return errors.Join(errs...)
}
