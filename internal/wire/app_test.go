package wire

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func testConfig() *viper.Viper {
	v := viper.New()
	v.Set("data_dir", "/tmp/ticketlist")
	v.Set("db_url", "mem://")
	v.Set("client.timeout", "1s")
	v.Set("tui.debounce", "300ms")
	v.Set("log.level", "warn")
	v.Set("log.format", "json")
	return v
}

func TestBuildApp(t *testing.T) {
	app, err := BuildApp(context.Background(), testConfig())
	require.NoError(t, err)

	s, err := app.Store(context.Background())
	require.NoError(t, err)
	again, err := app.Store(context.Background())
	require.NoError(t, err)
	require.Same(t, s, again)
	require.NotNil(t, app.Client())
	require.NoError(t, app.Close())
}

func TestBuildAppRejectsInvalidConfig(t *testing.T) {
	v := testConfig()
	v.Set("log.format", "xml")
	_, err := BuildApp(context.Background(), v)
	require.ErrorContains(t, err, "invalid config")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, testConfig())
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
}
