package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Render        RenderConfig        `yaml:"render" mapstructure:"render"`
	Search        SearchConfig        `yaml:"search" mapstructure:"search"`
	CoinMarketCap CoinMarketCapConfig `yaml:"coinmarketcap" mapstructure:"coinmarketcap"`
	Extract       ExtractConfig       `yaml:"extract" mapstructure:"extract"`
	Report        ReportConfig        `yaml:"report" mapstructure:"report"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// Render drivers.
const (
	DriverProxy = "proxy"
	DriverRod   = "rod"
)

// RenderConfig selects how pages are rendered.
type RenderConfig struct {
	Driver     string `yaml:"driver" mapstructure:"driver"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutMS  int    `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	BrowserBin string `yaml:"browser_bin" mapstructure:"browser_bin"`
	ControlURL string `yaml:"control_url" mapstructure:"control_url"`
	Headless   bool   `yaml:"headless" mapstructure:"headless"`
}

// SearchConfig configures the Serper search API.
type SearchConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSec float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	// MaxAttempts bounds tries per query on 429/5xx and network errors.
	// 1 disables retries.
	MaxAttempts int `yaml:"max_attempts" mapstructure:"max_attempts"`
}

// CoinMarketCapConfig configures the coin metadata API.
type CoinMarketCapConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ExtractConfig points at an optional extraction rules override.
type ExtractConfig struct {
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// ReportConfig configures report builds.
type ReportConfig struct {
	OutputDir  string `yaml:"output_dir" mapstructure:"output_dir"`
	Concurrent bool   `yaml:"concurrent" mapstructure:"concurrent"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// envAliases binds the unprefixed variable names used by existing
// deployments. The prefixed form still wins when both are set.
var envAliases = map[string]string{
	"search.key":        "SERPER_API_KEY",
	"coinmarketcap.key": "COINMARKETCAP_API_KEY",
	"render.base_url":   "RENDER_PROXY_URL",
}

// Load reads configuration from .env, config.yaml and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: read .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TOKENOMICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range envAliases {
		envKey := "TOKENOMICS_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, alias); err != nil {
			return nil, eris.Wrapf(err, "config: bind %s", key)
		}
	}

	// Defaults
	v.SetDefault("render.driver", DriverProxy)
	v.SetDefault("render.base_url", "http://127.0.0.1:8080")
	v.SetDefault("render.timeout_ms", 30000)
	v.SetDefault("render.headless", true)
	v.SetDefault("render.browser_bin", "")
	v.SetDefault("render.control_url", "")
	v.SetDefault("search.base_url", "https://google.serper.dev")
	v.SetDefault("search.rate_per_sec", 5)
	v.SetDefault("search.max_attempts", 1)
	v.SetDefault("coinmarketcap.base_url", "https://pro-api.coinmarketcap.com")
	v.SetDefault("extract.rules_file", "")
	v.SetDefault("report.output_dir", "./tmp")
	v.SetDefault("report.concurrent", false)
	v.SetDefault("server.port", 8090)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode needs. Modes: "links",
// "fundraising", "vesting", "report", "metadata", "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	needsRender := false
	needsSearch := false
	needsCMC := false
	switch mode {
	case "links":
		needsSearch = true
	case "fundraising", "vesting", "report":
		needsSearch, needsRender = true, true
	case "metadata":
		needsCMC = true
	case "serve":
		needsSearch, needsRender = true, true
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if needsSearch && c.Search.Key == "" {
		errs = append(errs, "search.key is required (SERPER_API_KEY)")
	}
	if needsCMC && c.CoinMarketCap.Key == "" {
		errs = append(errs, "coinmarketcap.key is required (COINMARKETCAP_API_KEY)")
	}
	if needsRender {
		switch c.Render.Driver {
		case DriverProxy:
			if c.Render.BaseURL == "" {
				errs = append(errs, "render.base_url is required (RENDER_PROXY_URL)")
			}
		case DriverRod:
		default:
			errs = append(errs, "render.driver must be \"proxy\" or \"rod\"")
		}
		if c.Render.TimeoutMS <= 0 {
			errs = append(errs, "render.timeout_ms must be > 0")
		}
	}
	if c.Search.RatePerSec < 0 {
		errs = append(errs, "search.rate_per_sec must be >= 0")
	}

	if len(errs) > 0 {
		return eris.New("config: " + strings.Join(errs, "; "))
	}
	return nil
}

// NewLogger builds a zap logger from the log settings.
func NewLogger(cfg LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "config: build logger")
	}
	return logger, nil
}

// InitLogger builds the logger and installs it as the zap global.
func InitLogger(cfg LogConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}
