package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/formrules/pkg/api"
	"github.com/dmitrymomot/formrules/pkg/formstore"
	"github.com/dmitrymomot/formrules/pkg/httpserver"
	"github.com/dmitrymomot/formrules/pkg/i18n"
	"github.com/dmitrymomot/formrules/pkg/logger"
)

func serve(ctx context.Context, cfg appConfig) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	tr, err := newTranslator(ctx, cfg, log)
	if err != nil {
		return err
	}

	if cfg.WatchLocales && cfg.LocalesDir != "" {
		w, err := i18n.NewWatcher(tr, cfg.LocalesDir)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				log.ErrorContext(ctx, "locale watcher stopped", logger.Error(err))
			}
		}()
	}

	store, closeStore, err := formstore.NewStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Warn("closing form store", logger.Error(err))
		}
	}()

	log.InfoContext(ctx, "starting formrules",
		logger.Component("main"),
		logger.Lang(tr.DefaultLanguage()),
		slog.String("store", cfg.Store.Backend),
	)

	handler := api.New(
		api.WithRegistry(newRegistry(cfg)),
		api.WithTranslator(tr),
		api.WithStore(store),
		api.WithLogger(log),
		api.WithMetrics(newMetrics(cfg)),
		api.WithMaxBodySize(cfg.MaxBodySize),
		api.WithRequestTimeout(cfg.RequestTimeout),
		api.WithLanguageParams(cfg.LangQueryParam, cfg.LangCookie),
	).Routes()

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
