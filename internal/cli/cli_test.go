package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/ticketlist/internal/db"
	"github.com/mithrel/ticketlist/internal/server"
	"github.com/mithrel/ticketlist/pkg/api"
)

// runCLI executes the root command and returns stdout, stderr and the error.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// writeConfigTOML writes a config pointing the store into dir.
func writeConfigTOML(t *testing.T, dir string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	cfg := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("data_dir = %q\ndb_url = %q\n[log]\nlevel = \"error\"\n",
		dir, "sqlite://"+filepath.Join(dir, "tickets.db"))
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))
	return cfg
}

func writeDataset(t *testing.T, dir string, n int) string {
	t.Helper()
	base := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	var b strings.Builder
	for i := 0; i < n; i++ {
		line, err := json.Marshal(api.Ticket{
			ID:           fmt.Sprintf("t%03d", i),
			Title:        fmt.Sprintf("Ticket %d", i),
			Content:      "body",
			CreationTime: base.Add(time.Duration(i) * 24 * time.Hour).UnixMilli(),
			UserEmail:    fmt.Sprintf("user%d@example.com", i%3),
		})
		require.NoError(t, err)
		b.Write(line)
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, "tickets.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestImportAndCompleteFrom(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfigTOML(t, dir)
	data := writeDataset(t, dir, 30)

	out, _, err := runCLI(t, "--config", cfg, "import", "--file", data)
	require.NoError(t, err)
	require.Contains(t, out, "Imported: 30")

	out, _, err = runCLI(t, "--config", cfg, "complete-from", "from:user1")
	require.NoError(t, err)
	require.Equal(t, "from:user1@example.com\n", out)

	out, _, err = runCLI(t, "--config", cfg, "complete-from")
	require.NoError(t, err)
	require.Len(t, strings.Fields(out), 3)
}

func TestImportRequiresFile(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir())
	_, _, err := runCLI(t, "--config", cfg, "import")
	require.ErrorContains(t, err, "--file is required")
}

func TestImportTicketsArrayAndDefaults(t *testing.T) {
	store, err := db.Open(context.Background(), "mem://", nil)
	require.NoError(t, err)
	n, err := importTickets(context.Background(), store, strings.NewReader(`  [{"title":"no id"},{"id":"x","title":"with id","creationTime":5}]`))
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := store.Get(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, int64(5), got.CreationTime)

	all, err := store.Query(context.Background(), api.PageRequest{Page: 1})
	require.NoError(t, err)
	require.NotEmpty(t, all[0].ID)
	require.NotZero(t, all[0].CreationTime)

	again := `{"title":"same","content":"c","creationTime":7,"userEmail":"x@y.z"}`
	n, err = importTickets(context.Background(), store, strings.NewReader(again+"\n"+again+"\n"))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	count, err := store.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count, "identical id-less tickets collapse onto one derived id")

	n, err = importTickets(context.Background(), store, strings.NewReader("   "))
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestListAgainstServer(t *testing.T) {
	ctx := context.Background()
	store, err := db.Open(ctx, "mem://", nil)
	require.NoError(t, err)
	base := time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		require.NoError(t, store.Put(ctx, api.Ticket{
			ID:           fmt.Sprintf("t%02d", i),
			Title:        fmt.Sprintf("Printer %d", i),
			CreationTime: base.Add(time.Duration(i) * 24 * time.Hour).UnixMilli(),
			UserEmail:    "bob@example.com",
		}))
	}
	ts := httptest.NewServer(server.New(viper.New(), store, nil).Router())
	defer ts.Close()

	cfg := writeConfigTOML(t, t.TempDir())
	endpoint := ts.URL + server.DefaultPath

	out, _, err := runCLI(t, "--config", cfg, "list", "--api-url", endpoint, "--output", "json")
	require.NoError(t, err)
	var got []api.Ticket
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 45)

	out, _, err = runCLI(t, "--config", cfg, "list", "--api-url", endpoint, "--output", "ndjson",
		"printer", "after:05/01/2022", "before:09/01/2022", "from:BOB@example.com")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], `"id":"t05"`)

	out, _, err = runCLI(t, "--config", cfg, "list", "--api-url", endpoint, "--max-pages", "1", "--noheaders")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), api.PageSize)
}

func TestListInvalidOutput(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir())
	_, _, err := runCLI(t, "--config", cfg, "list", "--output", "xml")
	require.ErrorContains(t, err, "invalid --output")
}

func TestListRetrievalFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()
	cfg := writeConfigTOML(t, t.TempDir())
	_, _, err := runCLI(t, "--config", cfg, "list", "--api-url", ts.URL, "--output", "plain")
	require.ErrorContains(t, err, "status 503")
}

func TestConfigGenerate(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfigTOML(t, dir)
	out := filepath.Join(dir, "gen", "config.toml")

	stdout, _, err := runCLI(t, "--config", cfg, "config", "generate", "-o", out)
	require.NoError(t, err)
	require.Contains(t, stdout, "Created config at "+out)

	_, _, err = runCLI(t, "--config", cfg, "config", "generate", "-o", out)
	require.ErrorContains(t, err, "already exists")

	_, _, err = runCLI(t, "--config", cfg, "config", "generate", "-o", out, "--update", "--overwrite")
	require.ErrorContains(t, err, "mutually exclusive")

	stdout, _, err = runCLI(t, "--config", cfg, "config", "generate", "-o", out, "--update")
	require.NoError(t, err)
	require.Contains(t, stdout, "already has every ticketlist option")

	stdout, _, err = runCLI(t, "--config", cfg, "config", "generate", "-o", out, "--overwrite")
	require.NoError(t, err)
	require.Contains(t, stdout, "Replaced config at "+out)
	require.Contains(t, stdout, "Previous config saved as "+out+".bak\n")

	stdout, _, err = runCLI(t, "--config", cfg, "config", "generate", "-o", out, "--overwrite")
	require.NoError(t, err)
	require.Contains(t, stdout, "Previous config saved as "+out+".bak.1\n")
}

func TestConfigGenerateMergesAndValidates(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfigTOML(t, dir)
	out := filepath.Join(dir, "partial.toml")
	require.NoError(t, os.WriteFile(out, []byte("[log]\nlevel = \"debug\"\n"), 0o600))

	stdout, _, err := runCLI(t, "--config", cfg, "config", "generate", "-o", out, "--update")
	require.NoError(t, err)
	require.Contains(t, stdout, "Merged missing options into "+out)
	merged, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(merged), `level = "debug"`)
	require.Contains(t, string(merged), "prefetch_rows")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[log]\nlevel = \"loud\"\n"), 0o600))
	_, _, err = runCLI(t, "--config", cfg, "config", "generate", "-o", bad, "--update")
	require.ErrorContains(t, err, "log.level must be one of")
	require.FileExists(t, bad+".bak")
}

func TestConfigGenerateStdoutAndShow(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfigTOML(t, dir)

	stdout, _, err := runCLI(t, "--config", cfg, "config", "generate", "--stdout")
	require.NoError(t, err)
	require.Contains(t, stdout, "[tui]")
	require.NoFileExists(t, filepath.Join(dir, "xdg", "ticketlist", "config.toml"))

	stdout, _, err = runCLI(t, "--config", cfg, "config", "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "# source: "+cfg)
	require.Contains(t, stdout, `log.level = "error"`)
	require.Contains(t, stdout, fmt.Sprintf("db_url = %q", "sqlite://"+filepath.Join(dir, "tickets.db")))
}

func TestCompletionGenerate(t *testing.T) {
	cfg := writeConfigTOML(t, t.TempDir())
	out, _, err := runCLI(t, "--config", cfg, "completion", "generate", "bash")
	require.NoError(t, err)
	require.Contains(t, out, "ticketlist")

	_, _, err = runCLI(t, "--config", cfg, "completion", "generate", "tcsh")
	require.ErrorContains(t, err, "unsupported shell")
}

func TestServeUntilDone(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: http.NewServeMux()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv, ln) }()
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
