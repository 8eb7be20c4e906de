package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JackieChiles/Cinch/internal/config"
	"github.com/JackieChiles/Cinch/internal/engine"
	"github.com/JackieChiles/Cinch/internal/events"
	"github.com/JackieChiles/Cinch/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config load failed", "path", *configPath, "err", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Logging)
	slog.SetDefault(log)

	store, err := newStore(cfg.Redis, log)
	if err != nil {
		log.Error("event store unavailable", "addr", cfg.Redis.Addr, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	rules := engine.StandardRules()
	rules.WinScore = cfg.Game.WinScore
	rules.MaxHands = cfg.Game.MaxHands

	hub := server.NewHub(log)
	users := server.NewUserManager(time.Now().UnixNano())
	registry := server.NewRegistry(rules, server.AbandonPolicy(cfg.Game.Abandon),
		hub, store, time.Now().UnixNano(), log)

	mux := http.NewServeMux()
	mux.Handle("/ws", server.NewWSHandler(hub, users, registry, log))
	mux.Handle("/api/v1/games", server.NewGameListHandler(registry, log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "err", err)
	}
}

func newLogger(cfg config.Logging) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

func newStore(cfg config.Redis, log *slog.Logger) (events.Store, error) {
	if !cfg.Enabled {
		return events.NopStore{}, nil
	}
	store := events.NewRedisStore(events.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		Stream:   cfg.Stream,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}
	log.Info("event stream connected", "addr", cfg.Addr, "stream", cfg.Stream)
	return store, nil
}
