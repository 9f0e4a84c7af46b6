package main

import (
	"go.uber.org/zap"

	"github.com/urlpick/urlpick/internal/builtin"
	"github.com/urlpick/urlpick/internal/domain"
	"github.com/urlpick/urlpick/internal/infra"
	"github.com/urlpick/urlpick/internal/usecase"
)

// app bundles the wired-up components every command needs.
type app struct {
	logger   *zap.Logger
	store    *usecase.Store
	resolver *usecase.Resolver
	selector *usecase.Selector
	launcher domain.Launcher
	history  domain.HistoryRecorder
}

func newApp() (*app, error) {
	logger, err := buildLogger()
	if err != nil {
		return nil, err
	}

	dir := flagDataDir
	if dir == "" {
		dir = infra.DefaultDataDir()
	}

	persister := infra.NewJSONPersister(dir, logger)
	store, err := usecase.NewStore(persister, builtin.Seeded(), logger)
	if err != nil {
		return nil, err
	}

	return &app{
		logger:   logger,
		store:    store,
		resolver: usecase.NewResolver(logger),
		selector: usecase.NewSelector(logger),
		launcher: infra.NewExecLauncher(logger),
		history:  openHistory(dir, logger),
	}, nil
}

// openHistory opens the encrypted history store. History is additive:
// any failure is logged and routing continues without it.
func openHistory(dir string, logger *zap.Logger) domain.HistoryRecorder {
	key, err := infra.EnsureKey(infra.NewFileKeyProvider(dir))
	if err != nil {
		logger.Warn("history disabled: no encryption key", zap.Error(err))
		return nil
	}
	history, err := infra.NewHistoryStore(dir, key)
	if err != nil {
		logger.Warn("history disabled", zap.Error(err))
		return nil
	}
	return history
}

func (a *app) close() {
	if a.history != nil {
		_ = a.history.Close()
	}
	_ = a.logger.Sync()
}

func buildLogger() (*zap.Logger, error) {
	if flagVerbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
