// Package server serves the estimator web UI and its JSON API.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/guillaumekey/yacht-calculate/internal/budget"
	"github.com/guillaumekey/yacht-calculate/internal/cache"
	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/constants"
	"github.com/guillaumekey/yacht-calculate/pkg/format"
	"github.com/guillaumekey/yacht-calculate/pkg/metrics"
	"github.com/guillaumekey/yacht-calculate/pkg/output"
	"github.com/guillaumekey/yacht-calculate/pkg/validation"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

const defaultExportName = "Yacht"

var exportContentTypes = map[string]string{
	constants.OutputFormatPretty: "text/plain; charset=utf-8",
	constants.OutputFormatCSV:    "text/csv; charset=utf-8",
	constants.OutputFormatJSON:   "application/json",
	constants.OutputFormatXLSX:   "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

var exportExtensions = map[string]string{
	constants.OutputFormatPretty: "txt",
	constants.OutputFormatCSV:    "csv",
	constants.OutputFormatJSON:   "json",
	constants.OutputFormatXLSX:   "xlsx",
}

// Handler routes the web UI, the estimate API and the metrics endpoint.
type Handler struct {
	logger      *zap.Logger
	router      chi.Router
	maxBodySize int64
	version     string
	cache       cache.Cache
	cacheTTL    time.Duration
	limiter     *RateLimiter
	metrics     *metrics.Metrics
	validator   *validation.Validator
}

// Option customizes a Handler.
type Option func(*Handler)

// WithCache replaces the cache built from the configuration.
func WithCache(c cache.Cache) Option {
	return func(h *Handler) { h.cache = c }
}

// WithMetrics replaces the collectors built from the configuration.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler constructs the HTTP handler. Call Close when done with it.
func NewHandler(logger *zap.Logger, cfg *Config, version string, opts ...Option) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	maxBodySize := cfg.BodySizeBytes()
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &Handler{
		logger:      logger,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		cacheTTL:    cfg.Cache.TTLDuration(),
		validator:   validation.NewValidator(),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.cache == nil {
		c, err := cache.New(cfg.Cache.Backend, cfg.Cache.Address)
		if err != nil {
			return nil, err
		}
		h.cache = c
	}
	if h.metrics == nil && cfg.Metrics.Enabled {
		m, err := metrics.New("yacht-calculate")
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics: %w", err)
		}
		h.metrics = m
	}
	if cfg.RateLimit.Enabled() {
		h.limiter = NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.WindowDuration())
	}

	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare embedded static files: %w", err)
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		h.metrics.Middleware,
		h.logRequests,
	)
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Disposition", "X-Cache"},
			MaxAge:         300,
		}))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/schedules", h.handleSchedules)
		r.Get("/crew", h.handleCrew)
		r.Get("/version", h.handleVersion)
		r.Group(func(r chi.Router) {
			r.Use(h.rateLimit)
			r.Post("/estimate", h.handleEstimate)
			r.Post("/export", h.handleExport)
		})
	})
	if h.metrics != nil {
		router.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	router.Handle("/*", http.FileServer(http.FS(sub)))

	h.router = router
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Close stops the rate limiter and releases the cache connection.
func (h *Handler) Close() error {
	if h.limiter != nil {
		h.limiter.Stop()
	}
	if closer, ok := h.cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

type estimateRequest struct {
	Name        string  `json:"name,omitempty"`
	Schedule    string  `json:"schedule"`
	Value       float64 `json:"value"`
	Length      float64 `json:"length"`
	CrewMembers int     `json:"crewMembers"`
}

type estimateResponse struct {
	Schedule       string                    `json:"schedule"`
	Profile        estimator.Profile         `json:"profile"`
	Lines          []lineView                `json:"lines"`
	Crew           *estimator.Recommendation `json:"crew,omitempty"`
	Total          float64                   `json:"total"`
	TotalFormatted string                    `json:"totalFormatted"`
	PercentOfValue float64                   `json:"percentOfValue"`
	ShareOfValue   string                    `json:"shareOfValue"`
	Chart          chartView                 `json:"chart"`
	Notes          notesView                 `json:"notes"`
}

type lineView struct {
	Category  estimator.Category `json:"category"`
	Label     string             `json:"label"`
	Amount    float64            `json:"amount"`
	Formatted string             `json:"formatted"`
}

type chartView struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type notesView struct {
	Disclaimer string   `json:"disclaimer"`
	Caveats    []string `json:"caveats"`
}

type scheduleView struct {
	estimator.Schedule
	Defaults estimator.Profile `json:"defaults"`
	Steps    stepView          `json:"steps"`
}

type stepView struct {
	Value  float64 `json:"value"`
	Length float64 `json:"length"`
}

type crewResponse struct {
	Length         float64                  `json:"length"`
	Recommendation estimator.Recommendation `json:"recommendation"`
	Formatted      string                   `json:"formatted"`
}

func newEstimateResponse(estimate estimator.Estimate) estimateResponse {
	lines := make([]lineView, 0, len(estimate.Breakdown))
	for _, line := range estimate.Breakdown {
		lines = append(lines, lineView{
			Category:  line.Category,
			Label:     line.Label,
			Amount:    line.Amount,
			Formatted: format.Currency(line.Amount),
		})
	}

	return estimateResponse{
		Schedule:       estimate.Schedule,
		Profile:        estimate.Profile,
		Lines:          lines,
		Crew:           estimate.Crew,
		Total:          estimate.Total,
		TotalFormatted: format.Currency(estimate.Total),
		PercentOfValue: estimate.PercentOfValue,
		ShareOfValue:   format.ShareOfValue(estimate.PercentOfValue),
		Chart: chartView{
			Labels: estimate.Breakdown.Labels(),
			Values: estimate.Breakdown.Amounts(),
		},
		Notes: notesView{
			Disclaimer: estimator.Disclaimer,
			Caveats:    estimator.Caveats(),
		},
	}
}

func (h *Handler) handleSchedules(w http.ResponseWriter, r *http.Request) {
	schedules := estimator.Schedules()
	views := make([]scheduleView, 0, len(schedules))
	for _, schedule := range schedules {
		defaults := estimator.Profile{
			Value:  constants.DefaultYachtValue,
			Length: constants.DefaultYachtLength,
		}
		if schedule.Limits.CrewInput {
			defaults.CrewMembers = constants.DefaultCrewMembers
		}
		views = append(views, scheduleView{
			Schedule: schedule,
			Defaults: defaults,
			Steps:    stepView{Value: constants.YachtValueStep, Length: constants.YachtLengthStep},
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"default":   constants.DefaultSchedule,
		"schedules": views,
	})
}

func (h *Handler) handleCrew(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("length"))
	length, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest,
			fmt.Sprintf("length must be a positive number, got %q", raw), "server.handleCrew")
		return
	}

	recommendation := estimator.RecommendCrew(length)
	h.writeJSON(w, http.StatusOK, crewResponse{
		Length:         length,
		Recommendation: recommendation,
		Formatted:      format.Currency(recommendation.AnnualCost),
	})
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleEstimate"

	req, schedule, profile, ok := h.decodeEstimateRequest(w, r, op)
	if !ok {
		return
	}

	key := cache.EstimateKey(schedule, profile)
	if cached, hit := h.cache.Get(r.Context(), key); hit {
		h.metrics.ObserveCacheLookup(true)
		h.writeRawJSON(w, "HIT", []byte(cached))
		return
	}
	h.metrics.ObserveCacheLookup(false)

	estimate := schedule.Estimate(profile)
	h.metrics.ObserveEstimate(schedule.Name, estimate.Total)
	h.logger.Debug("computed estimate",
		zap.String("op", op),
		zap.String("name", req.Name),
		zap.String("schedule", schedule.Name),
		zap.Float64("total", estimate.Total),
	)

	payload, err := json.Marshal(newEstimateResponse(estimate))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode estimate: %v", err), op)
		return
	}
	if err := h.cache.Set(r.Context(), key, string(payload), h.cacheTTL); err != nil {
		h.logger.Warn("failed to cache estimate",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}

	h.writeRawJSON(w, "MISS", payload)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	outputFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if outputFormat == "" {
		outputFormat = constants.OutputFormatXLSX
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	req, schedule, profile, ok := h.decodeEstimateRequest(w, r, op)
	if !ok {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultExportName
	}
	result := budget.Single(name, schedule, profile)
	h.metrics.ObserveEstimate(schedule.Name, result.Total)

	var buf bytes.Buffer
	if err := output.Write(&buf, outputFormat, []budget.Budget{result}); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render export: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", exportContentTypes[outputFormat])
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="estimation-%s.%s"`, schedule.Name, exportExtensions[outputFormat]))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// decodeEstimateRequest parses and validates the request body. On failure it
// has already written the error response.
func (h *Handler) decodeEstimateRequest(w http.ResponseWriter, r *http.Request, op string) (estimateRequest, estimator.Schedule, estimator.Profile, bool) {
	var req estimateRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return req, estimator.Schedule{}, estimator.Profile{}, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return req, estimator.Schedule{}, estimator.Profile{}, false
	}

	schedule, err := estimator.Lookup(req.Schedule)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return req, estimator.Schedule{}, estimator.Profile{}, false
	}

	profile := estimator.Profile{Value: req.Value, Length: req.Length, CrewMembers: req.CrewMembers}
	if schedule.CrewFromLength() {
		profile.CrewMembers = 0
	}

	if err := h.validator.ValidateProfile(schedule, profile); err != nil {
		var profileErr *validation.Error
		if errors.As(err, &profileErr) {
			h.logger.Info("rejected yacht profile",
				zap.String("op", op),
				zap.String("schedule", schedule.Name),
				zap.Error(err),
			)
			h.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  err.Error(),
				"fields": profileErr.Fields,
			})
			return req, schedule, profile, false
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
		return req, schedule, profile, false
	}

	return req, schedule, profile, true
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.Debug("handled request",
			zap.String("op", "server.logRequests"),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (h *Handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeRawJSON(w http.ResponseWriter, cacheStatus string, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
