package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func validViper() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	v.Set("data_dir", "/tmp/ticketlist")
	return v
}

func TestCheckConfigValidityValid(t *testing.T) {
	require.NoError(t, CheckConfigValidity(validViper()))
}

func TestCheckConfigValidityInvalid(t *testing.T) {
	v := validViper()
	v.Set("data_dir", "")
	v.Set("db_url", "postgres://x")
	v.Set("api.path", "tickets")
	v.Set("api.url", "ftp://nope")
	v.Set("client.timeout", "soon")
	v.Set("tui.debounce", "0s")
	v.Set("tui.prefetch_rows", -1)
	v.Set("log.level", "loud")
	v.Set("log.format", "xml")

	err := CheckConfigValidity(v)
	require.Error(t, err)
	for _, want := range []string{
		"data_dir is required",
		"db_url must start with",
		"api.path must start with /",
		"api.url must be an http(s) url",
		"client.timeout must be a positive duration",
		"tui.debounce must be a positive duration",
		"tui.prefetch_rows must not be negative",
		"log.level must be one of",
		"log.format must be text or json",
	} {
		require.Contains(t, err.Error(), want)
	}
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("TICKETLIST_API_URL", "http://example.test/api/tickets")

	v := viper.New()
	require.NoError(t, Load(context.Background(), v))
	require.Equal(t, ":3232", v.GetString("http_addr"))
	require.Equal(t, "http://example.test/api/tickets", v.GetString("api.url"))
	require.Equal(t, filepath.Join(dir, "ticketlist"), v.GetString("data_dir"))
	require.Equal(t, "sqlite://"+filepath.Join(dir, "ticketlist", "tickets.db"), v.GetString("db_url"))
	require.Equal(t, 3, v.GetInt("tui.prefetch_rows"))
	require.NoError(t, CheckConfigValidity(v))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("db_url = \"mem://\"\n[tui]\ndebounce = \"50ms\"\n"), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, Load(context.Background(), v))
	require.Equal(t, "mem://", v.GetString("db_url"))
	require.Equal(t, "50ms", v.GetString("tui.debounce"))
	require.Equal(t, "/api/tickets", v.GetString("api.path"))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, Load(context.Background(), v))
}

func TestRenderDefaultTOMLRoundTrip(t *testing.T) {
	out := RenderDefaultTOML()
	require.Contains(t, out, "[tui]")
	require.Contains(t, out, `debounce = "300ms"`)
	require.Contains(t, out, "prefetch_rows = 3")

	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(out)))
	require.Equal(t, "/api/tickets", v.GetString("api.path"))

	updated, changed := UpdateTOML(out)
	require.False(t, changed)
	require.Equal(t, out, updated)
}

func TestUpdateTOML(t *testing.T) {
	existing := "http_addr = \":9000\"\nlegacy = true\n[tui]\ndebounce = \"1s\"\n"
	out, changed := UpdateTOML(existing)
	require.True(t, changed)
	require.Contains(t, out, "http_addr = \":9000\"")
	require.Contains(t, out, "# OUTDATED: option removed from config schema\n# legacy = true")
	require.Contains(t, out, "# Added by config update")
	require.Contains(t, out, "prefetch_rows = 3")
	require.Equal(t, 1, strings.Count(out, "debounce ="))
}
