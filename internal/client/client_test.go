package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/ticketlist/internal/db"
	"github.com/mithrel/ticketlist/internal/server"
	"github.com/mithrel/ticketlist/pkg/api"
)

func TestFetchSendsFlatQuery(t *testing.T) {
	var got url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c := NewWithHTTP(ts.URL, ts.Client(), nil)
	out, err := c.Fetch(context.Background(), api.SearchFilter{FreeText: "printer jam", From: "a@b.c"}, 2)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Empty(t, out)

	for _, key := range []string{"page", "search", "after", "before", "from"} {
		require.Contains(t, got, key)
	}
	require.Equal(t, "2", got.Get("page"))
	require.Equal(t, "printer jam", got.Get("search"))
	require.Equal(t, "", got.Get("after"))
	require.Equal(t, "", got.Get("before"))
	require.Equal(t, "a@b.c", got.Get("from"))
}

func TestFetchDecodesTickets(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]api.Ticket{{ID: "1", Title: "Hi", CreationTime: 42, UserEmail: "x@y.z", Labels: []string{"bug"}}})
	}))
	defer ts.Close()

	out, err := NewWithHTTP(ts.URL, nil, nil).Fetch(context.Background(), api.SearchFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "Hi", out[0].Title)
	require.Equal(t, []string{"bug"}, out[0].Labels)
}

func TestFetchStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewWithHTTP(ts.URL, nil, nil).Fetch(context.Background(), api.SearchFilter{}, 3)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrRetrieval))
	var re *RetrievalError
	require.True(t, errors.As(err, &re))
	require.Equal(t, http.StatusBadGateway, re.Status)
	require.Equal(t, 3, re.Page)
	require.Contains(t, err.Error(), "boom")
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := ts.URL
	ts.Close()

	_, err := NewWithHTTP(endpoint, nil, nil).Fetch(context.Background(), api.SearchFilter{}, 1)
	require.ErrorIs(t, err, ErrRetrieval)
	var re *RetrievalError
	require.ErrorAs(t, err, &re)
	require.Zero(t, re.Status)
}

func TestFetchMalformedBodyIsEmptyPage(t *testing.T) {
	for _, body := range []string{`{"error":"nope"}`, `not json`, `null`} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		out, err := NewWithHTTP(ts.URL, nil, nil).Fetch(context.Background(), api.SearchFilter{}, 1)
		ts.Close()
		require.NoError(t, err, body)
		require.NotNil(t, out, body)
		require.Empty(t, out, body)
	}
}

func TestFetchAllAgainstServer(t *testing.T) {
	ctx := context.Background()
	store, err := db.Open(ctx, "mem://", nil)
	require.NoError(t, err)
	base := time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		require.NoError(t, store.Put(ctx, api.Ticket{
			ID:           fmt.Sprintf("t%02d", i),
			Title:        "ticket",
			CreationTime: base.Add(time.Duration(i) * time.Minute).UnixMilli(),
			UserEmail:    "a@b.c",
		}))
	}
	cfg := viper.New()
	ts := httptest.NewServer(server.New(cfg, store, nil).Router())
	defer ts.Close()

	c := NewWithHTTP(ts.URL+server.DefaultPath, nil, nil)
	all, err := c.FetchAll(ctx, api.SearchFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, all, 45)
	require.Equal(t, "t00", all[0].ID)
	require.Equal(t, "t44", all[44].ID)

	capped, err := c.FetchAll(ctx, api.SearchFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, capped, api.PageSize)
}

func TestNewReadsConfig(t *testing.T) {
	cfg := viper.New()
	require.Equal(t, DefaultURL, New(cfg, nil).Endpoint())
	cfg.Set("api.url", "http://example.test/x")
	cfg.Set("client.timeout", "2s")
	c := New(cfg, nil)
	require.Equal(t, "http://example.test/x", c.Endpoint())
	require.Equal(t, 2*time.Second, c.httpClient.Timeout)
}
