package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/ticketlist/internal/client"
	"github.com/mithrel/ticketlist/internal/config"
	"github.com/mithrel/ticketlist/internal/db"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg *viper.Viper
	Log *slog.Logger

	store  db.Store
	client *client.Client
}

// BuildApp validates the config and builds the logger. The store and the
// HTTP client are opened lazily by the commands that need them.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	if err := config.CheckConfigValidity(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &App{Cfg: cfg, Log: NewLogger(os.Stderr, cfg)}, nil
}

// NewLogger builds the slog logger described by log.level and log.format.
func NewLogger(w io.Writer, cfg *viper.Viper) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.GetString("log.level"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.GetString("log.format"), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Store opens the ticket store at db_url on first use.
func (a *App) Store(ctx context.Context) (db.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	s, err := db.Open(ctx, a.Cfg.GetString("db_url"), a.Log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a.store = s
	return s, nil
}

// Client returns the retrieval client for api.url.
func (a *App) Client() *client.Client {
	if a.client == nil {
		a.client = client.New(a.Cfg, a.Log)
	}
	return a.client
}

// Close releases the store if it was opened.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
