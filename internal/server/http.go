package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/ticketlist/internal/db"
	"github.com/mithrel/ticketlist/pkg/api"
)

// DefaultPath is the retrieval path used when api.path is not configured.
const DefaultPath = "/api/tickets"

// Server serves the ticket retrieval endpoint backed by a Store.
type Server struct {
	cfg   *viper.Viper
	store db.Store
	log   *slog.Logger
}

func New(cfg *viper.Viper, store db.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, store: store, log: logger}
}

// Path returns the configured retrieval path.
func (s *Server) Path() string {
	p := strings.TrimSpace(s.cfg.GetString("api.path"))
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc(s.Path(), s.handleTickets)
	return s.logRequests(cors(mux))
}

// cors opens the API to every origin, method and header.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "*")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.status,
			"dur", time.Since(start))
	})
}

// ParseRequest reads the flat query parameters of a retrieval request.
// A missing, malformed or non-positive page becomes page 1.
func ParseRequest(r *http.Request) api.PageRequest {
	q := r.URL.Query()
	page := 1
	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil && n > 0 {
		page = n
	}
	return api.PageRequest{
		Page: page,
		Filter: api.SearchFilter{
			FreeText: q.Get("search"),
			After:    strings.TrimSpace(q.Get("after")),
			Before:   strings.TrimSpace(q.Get("before")),
			From:     strings.TrimSpace(q.Get("from")),
		},
	}
}

func (s *Server) handleTickets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := ParseRequest(r)
	tickets, err := s.store.Query(r.Context(), req)
	if err != nil {
		s.log.Error("query tickets", "err", err, "page", req.Page)
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	if tickets == nil {
		tickets = []api.Ticket{}
	}
	etag := `"` + api.HashPage(tickets) + `"`
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	b, err := json.Marshal(tickets)
	if err != nil {
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}
