// Package http provides the HTTP query API over the resource manager.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/themekit/adapters/metrics"
	"github.com/artpar/themekit/adapters/sqlite"
	"github.com/artpar/themekit/app"
	"github.com/artpar/themekit/docs/swagger"
	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// ErrorResponseBody is the body of every error response.
type ErrorResponseBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes an error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// VersionResponse represents the version endpoint response.
type VersionResponse struct {
	Version string `json:"version"`
	Service string `json:"service"`
}

// ResourceResponse is one resolved resource.
type ResourceResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// WildcardResponse is one wildcard entry in file order.
type WildcardResponse struct {
	Pattern string `json:"pattern"`
	Value   string `json:"value"`
}

// ResourcesResponse lists the active store.
type ResourcesResponse struct {
	Exact     map[string]string  `json:"exact"`
	Wildcards []WildcardResponse `json:"wildcards"`
}

// LoadResponse summarizes a load cycle.
type LoadResponse struct {
	CycleID    string       `json:"cycle_id,omitempty"`
	Path       string       `json:"path,omitempty"`
	Location   string       `json:"location,omitempty"`
	Phase      string       `json:"phase"`
	Exact      int          `json:"exact"`
	Wildcards  int          `json:"wildcards"`
	Malformed  int          `json:"malformed"`
	Resolved   int          `json:"resolved"`
	Fallbacks  int          `json:"fallbacks"`
	Defaulted  int          `json:"defaulted"`
	Unresolved []string     `json:"unresolved,omitempty"`
	Overlay    *OverlayInfo `json:"overlay,omitempty"`
	StartedAt  *time.Time   `json:"started_at,omitempty"`
	DurationMS float64      `json:"duration_ms"`
}

// ItemsResponse lists registered theme items.
type ItemsResponse struct {
	Items []app.ItemRef `json:"items"`
}

// SnapshotsResponse lists recorded snapshots without their entries.
type SnapshotsResponse struct {
	Snapshots []SnapshotResponse `json:"snapshots"`
}

// OverlayInfo summarizes the overlay merge of a cycle.
type OverlayInfo struct {
	Path    string `json:"path"`
	Applied bool   `json:"applied"`
	Merged  int    `json:"merged"`
	Ignored int    `json:"ignored"`
	Error   string `json:"error,omitempty"`
}

// StatusResponse reports the state left by the last load cycle.
type StatusResponse struct {
	Loaded   bool         `json:"loaded"`
	Path     string       `json:"path,omitempty"`
	Overlay  string       `json:"overlay,omitempty"`
	Location string       `json:"location,omitempty"`
	Last     LoadResponse `json:"last"`
	Error    string       `json:"error,omitempty"`
}

// SnapshotResponse describes a recorded snapshot.
type SnapshotResponse struct {
	ID            string             `json:"id"`
	Path          string             `json:"path"`
	Overlay       string             `json:"overlay,omitempty"`
	Location      string             `json:"location"`
	LoadedAt      time.Time          `json:"loaded_at"`
	ExactCount    int                `json:"exact_count"`
	WildcardCount int                `json:"wildcard_count"`
	Exact         map[string]string  `json:"exact,omitempty"`
	Wildcards     []WildcardResponse `json:"wildcards,omitempty"`
}

// Handler serves the query API.
type Handler struct {
	manager   *app.Manager
	snapshots ports.SnapshotStore
	logger    zerolog.Logger
	version   string
}

// NewHandler creates a new handler.
func NewHandler(manager *app.Manager, logger zerolog.Logger) *Handler {
	return &Handler{manager: manager, logger: logger, version: "dev"}
}

// Health returns a simple liveness check.
//
//	@Summary		Liveness check
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Router			/healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Version returns the service version.
//
//	@Summary		Service version
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	VersionResponse
//	@Router			/version [get]
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: h.version, Service: "themekit"})
}

// Resources lists the active store, optionally filtered by ?prefix=.
//
//	@Summary		List resources
//	@Description	Exact entries and wildcard entries in file order. Keys are lower case.
//	@Tags			Resources
//	@Produce		json
//	@Param			prefix	query		string	false	"Key prefix filter"
//	@Success		200		{object}	ResourcesResponse
//	@Router			/resources [get]
func (h *Handler) Resources(w http.ResponseWriter, r *http.Request) {
	prefix := strings.ToLower(r.URL.Query().Get("prefix"))
	store := h.manager.Store()

	writeJSON(w, http.StatusOK, resourcesBody(store.Exact(), store.Wildcards(), prefix))
}

// Resource resolves one name through the full precedence rules.
//
//	@Summary		Resolve a resource name
//	@Description	Exact match first, then the first matching prefix*suffix wildcard, then the last matching *suffix wildcard.
//	@Tags			Resources
//	@Produce		json
//	@Param			name	path		string	true	"Resource name (case-insensitive)"
//	@Success		200		{object}	ResourceResponse
//	@Failure		404		{object}	ErrorResponseBody
//	@Router			/resources/{name} [get]
func (h *Handler) Resource(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	value, ok := h.manager.Resolve(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "no resource matches "+name)
		return
	}
	writeJSON(w, http.StatusOK, ResourceResponse{Name: strings.ToLower(name), Value: value})
}

// Items lists every item of every registered theme.
//
//	@Summary		List theme items
//	@Tags			Themes
//	@Produce		json
//	@Success		200	{object}	ItemsResponse
//	@Router			/items [get]
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	items := h.manager.ListItems()
	if items == nil {
		items = []app.ItemRef{}
	}
	writeJSON(w, http.StatusOK, ItemsResponse{Items: items})
}

// Status reports the outcome of the last load cycle.
//
//	@Summary		Load status
//	@Tags			Themes
//	@Produce		json
//	@Success		200	{object}	StatusResponse
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.manager.Status()
	resp := StatusResponse{
		Loaded:   st.Loaded,
		Path:     st.Path,
		Overlay:  st.Overlay,
		Location: st.Location,
		Last:     loadBody(st.Last),
	}
	if st.LastError != nil {
		resp.Error = st.LastError.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

// Reload repeats the last load cycle.
//
//	@Summary		Reload the theme
//	@Tags			Themes
//	@Produce		json
//	@Success		200	{object}	LoadResponse
//	@Failure		409	{object}	ErrorResponseBody	"No theme loaded yet"
//	@Failure		500	{object}	ErrorResponseBody	"Load cycle failed"
//	@Router			/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	res, err := h.manager.Reload(r.Context())
	if errors.Is(err, app.ErrNoThemeLoaded) {
		writeError(w, http.StatusConflict, "no_theme", err.Error())
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("reload via API failed")
		writeError(w, http.StatusInternalServerError, "reload_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, loadBody(res))
}

// Snapshots lists recorded snapshots, newest first. ?limit= defaults to 20.
//
//	@Summary		List snapshots
//	@Tags			Snapshots
//	@Produce		json
//	@Param			limit	query		int	false	"Maximum snapshots (0 for all)"	default(20)
//	@Success		200		{object}	SnapshotsResponse
//	@Failure		400		{object}	ErrorResponseBody
//	@Router			/snapshots [get]
func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	headers, err := h.snapshots.ListHeaders(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list snapshots")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list snapshots")
		return
	}

	out := make([]SnapshotResponse, 0, len(headers))
	for _, hd := range headers {
		out = append(out, snapshotBody(hd))
	}
	writeJSON(w, http.StatusOK, SnapshotsResponse{Snapshots: out})
}

// Snapshot returns one snapshot with its entries.
//
//	@Summary		Get a snapshot
//	@Tags			Snapshots
//	@Produce		json
//	@Param			id	path		string	true	"Snapshot ID or \"latest\""
//	@Success		200	{object}	SnapshotResponse
//	@Failure		404	{object}	ErrorResponseBody
//	@Router			/snapshots/{id} [get]
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var (
		snap resource.Snapshot
		err  error
	)
	if id == "latest" {
		snap, err = h.snapshots.Latest(r.Context())
	} else {
		snap, err = h.snapshots.Get(r.Context(), id)
	}
	if errors.Is(err, sqlite.ErrSnapshotNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "snapshot not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("id", id).Msg("get snapshot")
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to read snapshot")
		return
	}

	body := resourcesBody(snap.Exact, snap.Wildcards, "")
	resp := snapshotBody(snap.Header())
	resp.Exact = body.Exact
	resp.Wildcards = body.Wildcards
	writeJSON(w, http.StatusOK, resp)
}

func snapshotBody(hd resource.SnapshotHeader) SnapshotResponse {
	return SnapshotResponse{
		ID:            hd.ID,
		Path:          hd.Path,
		Overlay:       hd.Overlay,
		Location:      hd.Location,
		LoadedAt:      hd.LoadedAt,
		ExactCount:    hd.ExactCount,
		WildcardCount: hd.WildcardCount,
	}
}

// RouterConfig holds optional configuration for the router.
type RouterConfig struct {
	Metrics     *metrics.Collector
	MetricsPath string              // default: /metrics
	Gatherer    http.Handler        // metrics exporter; promhttp.Handler() when nil
	Snapshots   ports.SnapshotStore // enables /snapshots
	Version     string
	Timeout     time.Duration // per-request timeout (default: 30s)
	OpenAPI     bool          // serve /openapi.json and /swagger/
}

// NewRouter creates the HTTP router.
func NewRouter(manager *app.Manager, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	h := NewHandler(manager, logger)
	h.snapshots = cfg.Snapshots
	if cfg.Version != "" {
		h.version = cfg.Version
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger, cfg.MetricsPath))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics, cfg.MetricsPath))

		exporter := cfg.Gatherer
		if exporter == nil {
			exporter = promhttp.Handler()
		}
		r.Handle(cfg.MetricsPath, exporter)
	}

	r.Get("/healthz", h.Health)
	r.Get("/version", h.Version)

	r.Get("/resources", h.Resources)
	r.Get("/resources/{name}", h.Resource)
	r.Get("/items", h.Items)
	r.Get("/status", h.Status)
	r.Post("/reload", h.Reload)

	if cfg.Snapshots != nil {
		r.Get("/snapshots", h.Snapshots)
		r.Get("/snapshots/{id}", h.Snapshot)
	}

	if cfg.OpenAPI {
		swagger.SwaggerInfo.Version = h.version
		r.Get("/openapi.json", OpenAPI)
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/openapi.json"),
		))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed on "+r.URL.Path)
	})

	return r
}

// NewMetricsMiddleware creates middleware that records request metrics.
func NewMetricsMiddleware(m *metrics.Collector, metricsPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics for internal endpoints
			if r.URL.Path == "/healthz" || r.URL.Path == metricsPath {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			m.RequestDuration.
				WithLabelValues(r.Method, route, statusLabel(ww.Status())).
				Observe(time.Since(start).Seconds())
		})
	}
}

// statusLabel returns a string label for the status code.
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger, metricsPath string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Skip logging for health checks and metrics
			if r.URL.Path == "/healthz" || r.URL.Path == metricsPath {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}

// OpenAPI serves the generated API document.
func OpenAPI(w http.ResponseWriter, r *http.Request) {
	doc := swagger.SwaggerInfo.ReadDoc()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

func resourcesBody(exact map[string]string, wildcards []resource.Wildcard, prefix string) ResourcesResponse {
	body := ResourcesResponse{
		Exact:     make(map[string]string),
		Wildcards: []WildcardResponse{},
	}
	for k, v := range exact {
		if strings.HasPrefix(k, prefix) {
			body.Exact[k] = v
		}
	}
	for _, wc := range wildcards {
		pattern := wc.Pattern.String()
		if strings.HasPrefix(pattern, prefix) {
			body.Wildcards = append(body.Wildcards, WildcardResponse{Pattern: pattern, Value: wc.Value})
		}
	}
	return body
}

func loadBody(res app.LoadResult) LoadResponse {
	body := LoadResponse{
		CycleID:    res.CycleID,
		Path:       res.Path,
		Location:   res.Location,
		Phase:      string(res.Phase),
		Exact:      res.Exact,
		Wildcards:  res.Wildcards,
		Malformed:  res.Malformed,
		Resolved:   res.Resolved,
		Fallbacks:  res.Fallbacks,
		Defaulted:  res.Defaulted,
		Unresolved: append([]string(nil), res.Unresolved...),
		DurationMS: float64(res.Duration) / float64(time.Millisecond),
	}
	if !res.StartedAt.IsZero() {
		at := res.StartedAt
		body.StartedAt = &at
	}
	if o := res.Overlay; o != nil {
		body.Overlay = &OverlayInfo{
			Path:    o.Path,
			Applied: o.Applied,
			Merged:  o.Merged,
			Ignored: o.Ignored,
		}
		if o.Err != nil {
			body.Overlay.Error = o.Err.Error()
		}
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponseBody{Error: ErrorDetail{Code: code, Message: message}})
}
