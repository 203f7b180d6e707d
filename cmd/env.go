package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/winglish-nk/Winglish-bot/internal/config"
	"github.com/winglish-nk/Winglish-bot/internal/content"
	"github.com/winglish-nk/Winglish-bot/internal/drill"
	"github.com/winglish-nk/Winglish-bot/internal/llm"
	"github.com/winglish-nk/Winglish-bot/internal/logger"
	"github.com/winglish-nk/Winglish-bot/internal/reading"
	"github.com/winglish-nk/Winglish-bot/internal/store"
)

// env is what every command needs: config, logger and an open store.
type env struct {
	cfg   *config.Config
	log   *logger.Logger
	store *store.Store
	loc   *time.Location
}

// setup loads the configuration and opens the store. logToFile sends logs
// next to the database instead of stderr, for the terminal UI.
func setup(cmd *cobra.Command, logToFile bool) (*env, error) {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dsn := cfg.DB.DSN
	if cfg.DB.Driver == store.DriverSQLite {
		if dsn == "" {
			if dsn, err = store.DefaultDBPath(); err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
		} else if err := store.EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	logOpts := logger.Options{Mode: cfg.Log.Mode, Level: cfg.Log.Level, File: cfg.Log.File}
	if logToFile && logOpts.File == "" {
		if cfg.DB.Driver == store.DriverSQLite {
			logOpts.File = filepath.Join(filepath.Dir(dsn), "winglish.log")
		} else if dsn, err := store.DefaultDBPath(); err == nil {
			logOpts.File = filepath.Join(filepath.Dir(dsn), "winglish.log")
		}
	}
	log, err := logger.New(logOpts)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st, err := store.Open(cmd.Context(), cfg.DB.Driver, dsn)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}
	st.SetLocation(loc)

	log.Debug("store opened", "driver", cfg.DB.Driver, "user_id", cfg.User)
	return &env{cfg: cfg, log: log, store: st, loc: loc}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		e.log.Warn("closing store", "error", err)
	}
	e.log.Sync()
}

func (e *env) drill() *drill.Controller {
	return drill.NewController(
		e.store.ReviewStateRepo(),
		e.store.ItemRepo(),
		e.store.BatchRepo(),
		drill.WithLocation(e.loc),
		drill.WithIdleTimeout(e.cfg.Session.IdleTimeout),
		drill.WithBatchSize(e.cfg.Session.BatchSize),
		drill.WithLogger(e.log.With("component", "drill")),
	)
}

// reading builds the reading controller, or returns nil when no LLM
// provider is configured.
func (e *env) reading(ctx context.Context, drills *drill.Controller) *reading.Controller {
	if !e.cfg.HasLLMKey() {
		e.log.Info("no LLM key configured, reading drills disabled")
		return nil
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLMConfig(), e.store.EventRepo(), e.log.With("component", "llm"))
	if err != nil {
		e.log.Warn("LLM provider unavailable, reading drills disabled", "error", err)
		return nil
	}

	// Weak words are woven into generated passages.
	words := func(ctx context.Context, userID string) []string {
		weak, err := drills.WeakItems(ctx, userID)
		if err != nil {
			e.log.Debug("loading weak words for reading", "user_id", userID, "error", err)
			return nil
		}
		out := make([]string, 0, len(weak))
		for _, w := range weak {
			if w.Item.Kind == content.KindCard {
				out = append(out, w.Item.Prompt)
			}
		}
		return out
	}

	cfg := reading.DefaultLLMConfig()
	return reading.NewController(
		reading.NewLLMGenerator(provider, cfg, words),
		reading.NewLLMGrader(provider, cfg),
		reading.WithIdleTimeout(e.cfg.Session.IdleTimeout),
		reading.WithStudyLog(e.store.EventRepo()),
		reading.WithLogger(e.log.With("component", "reading")),
	)
}
