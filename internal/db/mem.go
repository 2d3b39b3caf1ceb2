package db

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/mithrel/ticketlist/internal/filter"
	"github.com/mithrel/ticketlist/pkg/api"
)

type memStore struct {
	mu      sync.RWMutex
	log     *slog.Logger
	tickets []api.Ticket
	byID    map[string]int
}

func newMemStore(logger *slog.Logger) *memStore {
	return &memStore{log: logger, byID: make(map[string]int)}
}

func (m *memStore) Query(ctx context.Context, req api.PageRequest) ([]api.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matcher := compile(m.log, req.Filter)
	m.mu.RLock()
	matched := matcher.Apply(m.tickets)
	m.mu.RUnlock()
	return filter.Page(matched, req.Page, api.PageSize), nil
}

// Put appends new tickets and replaces known ids in place.
func (m *memStore) Put(ctx context.Context, tickets ...api.Ticket) error {
	if err := validate(tickets); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tickets {
		t.Labels = append([]string(nil), t.Labels...)
		if i, ok := m.byID[t.ID]; ok {
			m.tickets[i] = t
			continue
		}
		m.byID[t.ID] = len(m.tickets)
		m.tickets = append(m.tickets, t)
	}
	return nil
}

func (m *memStore) Get(ctx context.Context, id string) (api.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.byID[id]
	if !ok {
		return api.Ticket{}, ErrNotFound
	}
	return m.tickets[i], nil
}

func (m *memStore) Emails(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range m.tickets {
		e := strings.ToLower(strings.TrimSpace(t.UserEmail))
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tickets), nil
}

func (m *memStore) Close() error { return nil }
