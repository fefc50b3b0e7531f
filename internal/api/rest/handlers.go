package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/courtdata/gamelog/internal/cache"
	"github.com/courtdata/gamelog/internal/rolling"
	"github.com/courtdata/gamelog/internal/series"
	"github.com/courtdata/gamelog/internal/store"
)

const (
	defaultSearchLimit   = 10
	defaultRollingWindow = 3
)

// Handler contains dependencies for HTTP handlers. The Row Store is
// injected at startup; there is no process-wide connection singleton.
type Handler struct {
	store    store.RowStore
	cache    *cache.Cache
	cacheTTL time.Duration
}

// NewHandler creates a new handler. cache may be nil.
func NewHandler(st store.RowStore, c *cache.Cache, cacheTTL time.Duration) *Handler {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Handler{
		store:    st,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// HealthCheck reports service, store, and cache health. A failing
// cache never degrades the service since reads fall through to the
// store.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	storeStatus := "ok"
	if err := h.store.HealthCheck(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		storeStatus = err.Error()
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "ok"
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			cacheStatus = err.Error()
		}
	}

	respondJSON(w, code, map[string]string{
		"status":  status,
		"service": "gamelog",
		"version": "1.0.0",
		"store":   storeStatus,
		"cache":   cacheStatus,
	})
}

// SearchPlayers handles GET /api/players?q=<prefix>. Prefixes shorter
// than two characters return an empty suggestion list.
func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := defaultSearchLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 50 {
			limit = l
		}
	}

	players, err := h.store.SearchPlayerNames(r.Context(), query, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to search players", err)
		return
	}
	if players == nil {
		players = []string{}
	}

	respondJSON(w, http.StatusOK, map[string][]string{"players": players})
}

// barRow is one game in the /api/bar payload.
type barRow struct {
	Date  string  `json:"date"`
	Opp   string  `json:"opp"`
	Value float64 `json:"value"`
}

type barResponse struct {
	Name   string   `json:"name"`
	Metric string   `json:"metric"`
	Rows   []barRow `json:"rows"`
}

// GetBar handles GET /api/bar?name=<player>&metric=<stat>. It returns
// the raw chronological series; rolling-average composition lives in
// GetRolling so chart consumers pick the shape they need.
func (h *Handler) GetBar(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "missing query parameter 'name'", nil)
		return
	}
	metric := series.Normalize(r.URL.Query().Get("metric"))

	key := fmt.Sprintf("bar:%s:%s", strings.ToLower(name), metric)
	var cached barResponse
	if h.cacheGet(r, key, &cached) {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	s, ok := h.buildSeries(w, r, name, metric)
	if !ok {
		return
	}

	resp := barResponse{Name: name, Metric: metric, Rows: make([]barRow, 0, len(s))}
	for _, p := range s {
		resp.Rows = append(resp.Rows, barRow{
			Date:  p.Date.Format(store.DateOnly),
			Opp:   p.Opponent,
			Value: p.Value,
		})
	}

	h.cacheSet(r, key, resp)
	respondJSON(w, http.StatusOK, resp)
}

type rollingResponse struct {
	Name    string    `json:"name"`
	Metric  string    `json:"metric"`
	Window  int       `json:"window"`
	Dates   []string  `json:"dates"`
	Values  []float64 `json:"values"`
	Rolling []float64 `json:"rolling"`
}

// GetRolling handles GET /api/rolling?name=<player>&metric=<stat>&window=<n>,
// returning the series plus its trailing moving average as parallel,
// index-aligned arrays.
func (h *Handler) GetRolling(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "missing query parameter 'name'", nil)
		return
	}
	metric := series.Normalize(r.URL.Query().Get("metric"))

	window := defaultRollingWindow
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		parsed, err := strconv.Atoi(windowStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid window %q", windowStr), err)
			return
		}
		window = parsed
	}

	key := fmt.Sprintf("rolling:%s:%s:%d", strings.ToLower(name), metric, window)
	var cached rollingResponse
	if h.cacheGet(r, key, &cached) {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	s, ok := h.buildSeries(w, r, name, metric)
	if !ok {
		return
	}

	values := s.Values()
	averaged, err := rolling.Average(values, window)
	if err != nil {
		var invalid *rolling.InvalidWindowError
		if errors.As(err, &invalid) {
			respondError(w, http.StatusBadRequest, invalid.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to compute rolling average", err)
		return
	}

	resp := rollingResponse{
		Name:    name,
		Metric:  metric,
		Window:  window,
		Dates:   make([]string, 0, len(s)),
		Values:  values,
		Rolling: averaged,
	}
	for _, p := range s {
		resp.Dates = append(resp.Dates, p.Date.Format(store.DateOnly))
	}

	h.cacheSet(r, key, resp)
	respondJSON(w, http.StatusOK, resp)
}

// buildSeries resolves the series for a player/metric pair, writing
// the appropriate error payload on failure. The bool reports whether
// the caller should proceed.
func (h *Handler) buildSeries(w http.ResponseWriter, r *http.Request, name, metric string) (series.Series, bool) {
	s, err := series.Build(r.Context(), h.store, name, metric)
	if err != nil {
		var invalid *series.InvalidMetricError
		if errors.As(err, &invalid) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":     fmt.Sprintf("unknown metric %q", invalid.Metric),
				"available": invalid.Available,
			})
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, "failed to query game rows", err)
		return nil, false
	}

	if len(s) == 0 {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no games found for player %q", name), nil)
		return nil, false
	}

	return s, true
}

// cacheGet loads a cached payload. Misses and cache errors both read
// through to the store.
func (h *Handler) cacheGet(r *http.Request, key string, v interface{}) bool {
	if h.cache == nil {
		return false
	}
	hit, err := h.cache.GetJSON(r.Context(), key, v)
	if err != nil {
		log.Printf("[rest] cache get %s: %v", key, err)
		return false
	}
	return hit
}

func (h *Handler) cacheSet(r *http.Request, key string, v interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetJSON(r.Context(), key, v, h.cacheTTL); err != nil {
		log.Printf("[rest] cache set %s: %v", key, err)
	}
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a structured JSON error response.
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
