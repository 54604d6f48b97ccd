package handlerchain

import (
	"fmt"

	"github.com/dmitrymomot/handlerchain/pkg/config"
	"github.com/dmitrymomot/handlerchain/pkg/logger"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "HANDLERCHAIN_"

// Config holds chain settings that can come from the environment.
type Config struct {
	DefaultPriority int `env:"DEFAULT_PRIORITY" envDefault:"10"`
	// LogDispatch enables a logger built from LogLevel and LogFormat.
	LogDispatch bool   `env:"LOG_DISPATCH" envDefault:"false"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

// DefaultConfig returns the settings New uses.
func DefaultConfig() Config {
	return Config{
		DefaultPriority: DefaultPriority,
		LogLevel:        "info",
		LogFormat:       string(logger.FormatJSON),
	}
}

// LoadConfig reads Config from HANDLERCHAIN_* variables (and .env).
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg, config.WithPrefix(EnvPrefix)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings NewFromConfig cannot use.
func (c Config) Validate() error {
	if c.DefaultPriority < 0 {
		return fmt.Errorf("%w: default priority %d: %w", ErrInvalidConfig, c.DefaultPriority, ErrInvalidPriority)
	}
	if !c.LogDispatch {
		return nil
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch logger.Format(c.LogFormat) {
	case logger.FormatJSON, logger.FormatText:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, logger.ErrInvalidFormat, c.LogFormat)
	}
	return nil
}

// NewFromConfig creates a chain from cfg. opts are applied after cfg and win.
func NewFromConfig[Req, Resp any](cfg Config, opts ...Option) (*HandlerChain[Req, Resp], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []Option{WithDefaultPriority(cfg.DefaultPriority)}
	if cfg.LogDispatch {
		base = append(base, WithLogger(logger.New(
			logger.WithLevelName(cfg.LogLevel),
			logger.WithFormat(logger.Format(cfg.LogFormat)),
		)))
	}
	return New[Req, Resp](append(base, opts...)...), nil
}
