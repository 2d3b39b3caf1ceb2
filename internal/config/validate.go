package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CheckConfigValidity reports every invalid setting in one joined error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if dbURL := strings.TrimSpace(v.GetString("db_url")); dbURL != "" &&
		dbURL != "mem" && !strings.HasPrefix(dbURL, "mem://") && !strings.HasPrefix(dbURL, "sqlite://") {
		add("db_url must start with mem:// or sqlite://, got %q", dbURL)
	}
	if p := strings.TrimSpace(v.GetString("api.path")); p != "" && !strings.HasPrefix(p, "/") {
		add("api.path must start with /")
	}
	if raw := strings.TrimSpace(v.GetString("api.url")); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("api.url must be an http(s) url, got %q", raw)
		}
	}
	for _, key := range []string{"client.timeout", "tui.debounce"} {
		d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
		if err != nil || d <= 0 {
			add("%s must be a positive duration", key)
		}
	}
	if v.GetInt("tui.prefetch_rows") < 0 {
		add("tui.prefetch_rows must not be negative")
	}
	switch strings.ToLower(v.GetString("log.level")) {
	case "debug", "info", "warn", "error":
	default:
		add("log.level must be one of debug, info, warn, error")
	}
	switch strings.ToLower(v.GetString("log.format")) {
	case "text", "json":
	default:
		add("log.format must be text or json")
	}
	return errors.Join(errs...)
}
