package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/blackjack/internal/auth"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
	"github.com/lox/blackjack/internal/store"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// ServeCmd runs the websocket server
type ServeCmd struct {
	Config  string `default:"blackjack.hcl" type:"path" help:"HCL configuration file"`
	Addr    string `help:"Listen address (host:port), overrides the config"`
	DataDir string `type:"path" help:"Directory for game snapshots and history, overrides the config"`
	Seed    int64  `help:"RNG seed, overrides the config (0 for random)"`
}

func (c *ServeCmd) Run(globals *Globals) error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return err
	}
	if c.DataDir != "" {
		cfg.Server.DataDir = c.DataDir
	}
	if c.Seed != 0 {
		cfg.Server.Seed = c.Seed
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := globals.LogLevel
	if level == "" {
		level = cfg.Server.LogLevel
	}
	logger, err := setupLogger(os.Stderr, level)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	clock := quartz.NewReal()
	seed := randutil.Seed(cfg.Server.Seed)
	opts := []server.ServiceOption{server.WithSeed(seed), server.WithServiceClock(clock)}

	var st store.Store
	if dir := cfg.Server.DataDir; dir != "" {
		fs, err := store.NewFileStore(filepath.Join(dir, "games"), logger)
		if err != nil {
			return err
		}
		recorder, err := history.NewRecorder(filepath.Join(dir, "history"), logger)
		if err != nil {
			return err
		}
		st = fs
		opts = append(opts, server.WithRecorder(recorder))
	} else {
		ms := store.NewMemoryStore(logger, clock)
		idle, err := cfg.IdleTimeout()
		if err != nil {
			return err
		}
		if idle > 0 {
			_ = ms.StartReaper(ctx, min(idle, time.Minute), idle)
		}
		st = ms
	}

	addr := cfg.Address()
	if c.Addr != "" {
		addr = c.Addr
	}

	var serverOpts []server.ServerOption
	if cfg.Server.AuthURL != "" {
		var validator auth.Validator = auth.NewHTTPValidator(cfg.Server.AuthURL, auth.WithSecret(cfg.Server.AuthSecret))
		ttl, err := cfg.AuthCacheTimeout()
		if err != nil {
			return err
		}
		if ttl > 0 {
			validator = auth.NewCachingValidator(validator, clock, ttl)
		}
		serverOpts = append(serverOpts, server.WithAuth(validator, cfg.Server.AuthFailOpen))
	}

	svc := server.NewGameService(st, cfg, logger, opts...)
	srv := server.NewServer(addr, svc, logger, clock, serverOpts...)

	logger.Info("Starting blackjack server",
		"addr", addr,
		"seed", seed,
		"data_dir", cfg.Server.DataDir,
		"tables", len(cfg.Tables),
		"auth", cfg.Server.AuthURL != "",
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})
	return g.Wait()
}
