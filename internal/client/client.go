// Package client fetches pages of tickets from the retrieval endpoint.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/ticketlist/pkg/api"
)

// DefaultURL is used when api.url is not configured.
const DefaultURL = "http://localhost:3232/api/tickets"

// ErrRetrieval is wrapped by every RetrievalError.
var ErrRetrieval = errors.New("ticket retrieval failed")

// RetrievalError reports a transport failure or a non-2xx response.
// Status is 0 when no response was received.
type RetrievalError struct {
	Page   int
	Status int
	Err    error
}

func (e *RetrievalError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch page %d: status %d: %v", e.Page, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *RetrievalError) Unwrap() []error { return []error{ErrRetrieval, e.Err} }

type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// New builds a Client from api.url and client.timeout.
func New(cfg *viper.Viper, logger *slog.Logger) *Client {
	endpoint := strings.TrimSpace(cfg.GetString("api.url"))
	if endpoint == "" {
		endpoint = DefaultURL
	}
	timeout := cfg.GetDuration("client.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewWithHTTP(endpoint, &http.Client{Timeout: timeout}, logger)
}

// NewWithHTTP builds a Client for an explicit endpoint and transport.
func NewWithHTTP(endpoint string, hc *http.Client, logger *slog.Logger) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{endpoint: endpoint, httpClient: hc, log: logger}
}

func (c *Client) Endpoint() string { return c.endpoint }

// Query encodes a page request as the flat query string of the endpoint.
// Unset fields are sent as empty values rather than omitted.
func Query(f api.SearchFilter, page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("search", f.FreeText)
	q.Set("after", f.After)
	q.Set("before", f.Before)
	q.Set("from", f.From)
	return q
}

// Fetch retrieves one page. A body that is not a JSON array of tickets
// yields an empty page.
func (c *Client) Fetch(ctx context.Context, f api.SearchFilter, page int) ([]api.Ticket, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, &RetrievalError{Page: page, Err: err}
	}
	u.RawQuery = Query(f, page).Encode()

	body, code, err := c.execRequest(ctx, u.String())
	if err != nil {
		return nil, &RetrievalError{Page: page, Err: err}
	}
	if code < 200 || code >= 300 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(code)
		}
		return nil, &RetrievalError{Page: page, Status: code, Err: errors.New(msg)}
	}

	var out []api.Ticket
	if err := json.Unmarshal(body, &out); err != nil {
		c.log.Debug("malformed ticket page", "page", page, "err", err)
		return []api.Ticket{}, nil
	}
	if out == nil {
		out = []api.Ticket{}
	}
	return out, nil
}

// FetchAll pages through the endpoint until a short page. maxPages <= 0
// means no cap.
func (c *Client) FetchAll(ctx context.Context, f api.SearchFilter, maxPages int) ([]api.Ticket, error) {
	var all []api.Ticket
	seen := make(map[string]struct{})
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		batch, err := c.Fetch(ctx, f, page)
		if err != nil {
			return all, err
		}
		for _, t := range batch {
			if _, ok := seen[t.ID]; ok {
				continue
			}
			seen[t.ID] = struct{}{}
			all = append(all, t)
		}
		if len(batch) < api.PageSize {
			break
		}
	}
	return all, nil
}

func (c *Client) execRequest(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
