package matchdetails

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"
	"vlrgg-backend/lib/scrapers/vlr"

	"github.com/mazen160/go-random"
	"golang.org/x/time/rate"
)

type ServerOptions struct {
	// RequestsPerMinute is the per-client rate limit, default 600.
	RequestsPerMinute int
}

type server struct {
	service  Service
	limiters *clientLimiters
}

// NewHandler exposes the service over plain http: the match endpoint,
// a health probe, request logging and per-client rate limiting.
func NewHandler(service Service, opts ServerOptions) http.Handler {
	perMinute := opts.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 600
	}

	s := server{
		service:  service,
		limiters: newClientLimiters(perMinute),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /match/{ref...}", s.handleMatch)
	return s.limiters.middleware(requestLog(mux))
}

func (s server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s server) handleMatch(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	res, err := s.service.GetMatch(r.Context(), ref)
	if err != nil {
		writeJSON(w, http.StatusOK, vlr.Response{Data: vlr.Envelope{
			Status: http.StatusInternalServerError,
			Error:  err.Error(),
		}})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("failed to encode response", "err", err)
	}
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId, err := random.String(8)
		if err != nil {
			requestId = "unknown"
		}
		start := time.Now()

		slog.InfoContext(
			r.Context(), "request",
			"id", requestId,
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r)
		slog.InfoContext(
			r.Context(), "request done",
			"id", requestId,
			"duration", time.Since(start),
		)
	})
}

type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newClientLimiters(perMinute int) *clientLimiters {
	return &clientLimiters{
		limiters: map[string]*rate.Limiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

func (c *clientLimiters) get(client string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter, ok := c.limiters[client]
	if !ok {
		limiter = rate.NewLimiter(c.limit, c.burst)
		c.limiters[client] = limiter
	}
	return limiter
}

func (c *clientLimiters) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			client = r.RemoteAddr
		}
		if !c.get(client).Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
