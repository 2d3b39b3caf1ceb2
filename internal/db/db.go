package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mithrel/ticketlist/internal/filter"
	"github.com/mithrel/ticketlist/pkg/api"
)

// Store is the queryable ticket collection behind the retrieval endpoint.
// Query results keep load order: the order tickets were first put.
type Store interface {
	Query(ctx context.Context, req api.PageRequest) ([]api.Ticket, error)
	Put(ctx context.Context, tickets ...api.Ticket) error
	Get(ctx context.Context, id string) (api.Ticket, error)
	Emails(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

var (
	ErrNotFound       = errors.New("not found")
	ErrMissingID      = errors.New("ticket id is required")
	ErrUnsupportedURL = errors.New("unsupported store url")
)

// Open returns a Store based on a URL: mem:// or sqlite://path.
func Open(ctx context.Context, url string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case url == "mem" || strings.HasPrefix(url, "mem://"):
		return newMemStore(logger), nil
	case strings.HasPrefix(url, "sqlite://"):
		return openSQLite(ctx, url, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
	}
}

// compile builds the matcher for a request and logs dropped date bounds.
func compile(logger *slog.Logger, f api.SearchFilter) filter.Matcher {
	m, err := filter.Compile(f)
	if err != nil {
		logger.Warn("ignoring date bound", "err", err)
	}
	return m
}

func validate(tickets []api.Ticket) error {
	for i, t := range tickets {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("ticket %d: %w", i, ErrMissingID)
		}
	}
	return nil
}
