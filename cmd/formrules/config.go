package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/formrules/pkg/api"
	"github.com/dmitrymomot/formrules/pkg/config"
	"github.com/dmitrymomot/formrules/pkg/formstore"
	"github.com/dmitrymomot/formrules/pkg/httpserver"
	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/logger"
	"github.com/dmitrymomot/formrules/pkg/metrics"
	"github.com/dmitrymomot/formrules/pkg/validator"
)

type appConfig struct {
	Env              string        `env:"FORMRULES_ENV" envDefault:"development"`
	LogLevel         string        `env:"FORMRULES_LOG_LEVEL"`
	LogFormat        string        `env:"FORMRULES_LOG_FORMAT"`
	DefaultLang      string        `env:"FORMRULES_DEFAULT_LANG" envDefault:"pt-BR"`
	LangQueryParam   string        `env:"FORMRULES_LANG_QUERY_PARAM" envDefault:"lang"`
	LangCookie       string        `env:"FORMRULES_LANG_COOKIE" envDefault:"lang"`
	LocalesDir       string        `env:"FORMRULES_LOCALES_DIR"`
	WatchLocales     bool          `env:"FORMRULES_WATCH_LOCALES"`
	PatternCacheSize int           `env:"FORMRULES_PATTERN_CACHE_SIZE" envDefault:"256"`
	MaxBodySize      int64         `env:"FORMRULES_MAX_BODY_SIZE" envDefault:"1048576"`
	RequestTimeout   time.Duration `env:"FORMRULES_REQUEST_TIMEOUT" envDefault:"30s"`

	HTTP    httpserver.Config `envPrefix:"FORMRULES_HTTP_"`
	Store   formstore.Config  `envPrefix:"FORMRULES_"`
	Metrics metrics.Config    `envPrefix:"FORMRULES_METRICS_"`
}

func loadConfig() (appConfig, error) {
	var cfg appConfig
	err := config.Load(&cfg)
	return cfg, err
}

func newLogger(cfg appConfig) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, "formrules"),
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(api.RequestIDExtractor),
	}
	if cfg.LogLevel != "" {
		lvl, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(lvl))
	}
	switch f := logger.Format(cfg.LogFormat); f {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(f))
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return logger.New(opts...), nil
}

func newMetrics(cfg appConfig) *metrics.Collector {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New(cfg.Metrics.Namespace)
}

func newRegistry(cfg appConfig) *validator.Registry {
	return validator.New(validator.WithPatternCache(cfg.PatternCacheSize))
}

// newTranslator loads the embedded catalogs, overlaid by LocalesDir when set.
func newTranslator(ctx context.Context, cfg appConfig, log *slog.Logger) (*i18n.Translator, error) {
	chain := i18n.ChainAdapter{i18n.NewFSAdapter(i18n.NewYAMLParser(), validator.Locales, "locales")}
	if cfg.LocalesDir != "" {
		chain = append(chain, i18n.NewDirectoryAdapter(i18n.NewYAMLParser(), cfg.LocalesDir))
	}
	return i18n.NewTranslator(ctx, chain,
		i18n.WithDefaultLanguage(cfg.DefaultLang),
		i18n.WithFallbackToKey(false),
		i18n.WithLogger(log),
		i18n.WithValueFormatter(validator.FormatValue),
	)
}
