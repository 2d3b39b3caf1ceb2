package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const appName = "ticketlist"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns every configuration key with its default and
// meaning. Defaults, the generated config.toml and validation all read it.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; default DB is data_dir/tickets.db"},
		{Key: "db_url", Default: "", Comment: "Ticket store URL: mem:// or sqlite://path (empty = sqlite in data_dir)"},
		{Key: "http_addr", Default: ":3232", Comment: "Listen address of `ticketlist serve`"},

		{Key: "api.path", Default: "/api/tickets", Comment: "Path of the ticket retrieval endpoint"},
		{Key: "api.url", Default: "http://localhost:3232/api/tickets", Comment: "Endpoint queried by `ticketlist list`"},
		{Key: "client.timeout", Default: "10s", Comment: "HTTP timeout for one page fetch"},
		{Key: "seed.file", Default: "", Comment: "JSON or NDJSON ticket dataset loaded into the store on serve"},

		{Key: "tui.debounce", Default: "300ms", Comment: "Quiet window after typing before the search runs"},
		{Key: "tui.prefetch_rows", Default: 3, Comment: "Load the next page when the view is this many rows from the end"},

		{Key: "log.level", Default: "info", Comment: "debug | info | warn | error"},
		{Key: "log.format", Default: "text", Comment: "text | json"},
	}
}

func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// SetConfigFile upstream takes precedence over these search paths.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, appName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// TICKETLIST_API_URL overrides api.url, and so on.
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("db_url")) == "" {
		v.Set("db_url", "sqlite://"+ResolveDBPath(v))
	}
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/ticketlist or ~/.local/share/ticketlist.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, appName, "config.toml")
}

// ResolveDBPath returns the sqlite file inside data_dir, expanding ~.
func ResolveDBPath(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return filepath.Join(dir, "tickets.db")
}
