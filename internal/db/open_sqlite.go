package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mithrel/ticketlist/internal/filter"
	"github.com/mithrel/ticketlist/pkg/api"
)

type sqliteStore struct {
	db  *sql.DB
	log *slog.Logger
}

// prefilter is the SQL narrowing step run before the filter engine. Only
// the date bounds are pushed down: they are plain integer comparisons, while
// SQLite's lower() is ASCII-only and would disagree with the engine on text.
type prefilter struct {
	Where string
	Args  []any
}

func buildPrefilter(f api.SearchFilter) prefilter {
	conds := []string{}
	args := []any{}
	if t, ok := api.ParseDate(f.After); ok {
		conds = append(conds, "creation_time > ?")
		args = append(args, t.UnixMilli())
	}
	if t, ok := api.ParseDate(f.Before); ok {
		conds = append(conds, "creation_time < ?")
		args = append(args, t.UnixMilli())
	}
	if len(conds) == 0 {
		return prefilter{}
	}
	return prefilter{Where: " WHERE " + strings.Join(conds, " AND "), Args: args}
}

func (s *sqliteStore) Query(ctx context.Context, req api.PageRequest) ([]api.Ticket, error) {
	if req.Page < 1 {
		return filter.Page(nil, req.Page, api.PageSize), nil
	}
	matcher := compile(s.log, req.Filter)
	pf := buildPrefilter(req.Filter)
	q := `SELECT id, title, content, creation_time, user_email, labels FROM tickets` + pf.Where + ` ORDER BY seq ASC`
	rows, err := s.db.QueryContext(ctx, q, pf.Args...)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	// Stream rows through the matcher; only keep what the page needs.
	start := (req.Page - 1) * api.PageSize
	out := make([]api.Ticket, 0, api.PageSize)
	matched := 0
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		if !matcher.Match(t) {
			continue
		}
		if matched >= start && len(out) < api.PageSize {
			out = append(out, t)
		}
		matched++
		if len(out) == api.PageSize {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTicket(r scanner) (api.Ticket, error) {
	var t api.Ticket
	var labelsJSON string
	if err := r.Scan(&t.ID, &t.Title, &t.Content, &t.CreationTime, &t.UserEmail, &labelsJSON); err != nil {
		return api.Ticket{}, err
	}
	if labelsJSON != "" && labelsJSON != "null" {
		if err := json.Unmarshal([]byte(labelsJSON), &t.Labels); err != nil {
			return api.Ticket{}, fmt.Errorf("ticket %s: decode labels: %w", t.ID, err)
		}
	}
	return t, nil
}

// Put upserts tickets in one transaction. Known ids keep their position.
func (s *sqliteStore) Put(ctx context.Context, tickets ...api.Ticket) error {
	if err := validate(tickets); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO tickets (id, title, content, creation_time, user_email, labels)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title = excluded.title,
  content = excluded.content,
  creation_time = excluded.creation_time,
  user_email = excluded.user_email,
  labels = excluded.labels`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range tickets {
		labelsJSON := "[]"
		if len(t.Labels) > 0 {
			b, _ := json.Marshal(t.Labels)
			labelsJSON = string(b)
		}
		if _, err := stmt.ExecContext(ctx, t.ID, t.Title, t.Content, t.CreationTime, t.UserEmail, labelsJSON); err != nil {
			return fmt.Errorf("put ticket %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Get(ctx context.Context, id string) (api.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, content, creation_time, user_email, labels FROM tickets WHERE id = ?`, id)
	t, err := scanTicket(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return api.Ticket{}, ErrNotFound
		}
		return api.Ticket{}, err
	}
	return t, nil
}

func (s *sqliteStore) Emails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT user_email FROM tickets WHERE user_email <> ''`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		e = strings.ToLower(strings.TrimSpace(e))
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (s *sqliteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }

// openSQLite opens (and migrates) a sqlite database from a sqlite:// URL.
func openSQLite(ctx context.Context, dsn string, logger *slog.Logger) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return &sqliteStore{db: dbh, log: logger}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tickets (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  creation_time INTEGER NOT NULL,
  user_email TEXT NOT NULL,
  labels TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_tickets_creation_time ON tickets(creation_time);
`)
	return err
}
