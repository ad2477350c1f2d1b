// Package httpapi exposes the assistant over HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/barekit/orbitai/pkg/assistant"
	"github.com/barekit/orbitai/pkg/ledger"
	"github.com/barekit/orbitai/pkg/preset"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Handler serves the assistant API.
type Handler struct {
	svc      *assistant.Service
	validate *validator.Validate
	origins  []string
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithCORSOrigins sets the allowed origins. The default allows any origin.
func WithCORSOrigins(origins []string) Option {
	return func(h *Handler) {
		if len(origins) > 0 {
			h.origins = origins
		}
	}
}

// WithMetrics serves g on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(h *Handler) {
		h.gatherer = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = l
	}
}

// New creates a Handler for svc.
func New(svc *assistant.Service, opts ...Option) *Handler {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	h := &Handler{
		svc:      svc,
		validate: v,
		origins:  []string{"*"},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router returns the complete HTTP router.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/", h.Health)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
	r.Mount("/api/orbit-ai", h.Routes())
	return r
}

// Routes returns the assistant routes, relative to their mount point.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/chat", h.Chat)
	r.Get("/session/{id}", h.GetSession)
	r.Post("/session/{id}/reset", h.ResetSession)
	r.Get("/session/{id}/deployments", h.Deployments)
	r.Get("/presets", h.Presets)
	r.Post("/deploy", h.Deploy)
	r.Get("/deploy/status/{id}", h.DeployStatus)

	return r
}

// Health handles GET /
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
		"service": "orbit-ai-backend",
	})
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID     string `json:"session_id"`
	Message       string `json:"message" validate:"required,min=1"`
	WalletAddress string `json:"wallet_address" validate:"omitempty,eth_addr"`
	UserID        string `json:"user_id"`
}

// Chat handles POST /api/orbit-ai/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !h.decode(w, r, &req) {
		return
	}

	reply, err := h.svc.Submit(r.Context(), assistant.SubmitRequest{
		SessionID:     req.SessionID,
		Message:       req.Message,
		WalletAddress: req.WalletAddress,
		UserID:        req.UserID,
	})
	if err != nil {
		h.error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// GetSession handles GET /api/orbit-ai/session/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Session(chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ResetSession handles POST /api/orbit-ai/session/{id}/reset
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reset(chi.URLParam(r, "id")))
}

// Deployments handles GET /api/orbit-ai/session/{id}/deployments
func (h *Handler) Deployments(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.Deployments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	if events == nil {
		events = []ledger.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// Presets handles GET /api/orbit-ai/presets
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]preset.Preset{"presets": h.svc.Presets()})
}

// DeployRequest is the body of POST /deploy.
type DeployRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	ConfigID  string `json:"config_id"`
}

// Deploy handles POST /api/orbit-ai/deploy
func (h *Handler) Deploy(w http.ResponseWriter, r *http.Request) {
	var req DeployRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Deploy(r.Context(), assistant.DeployRequest{
		SessionID: req.SessionID,
		ConfigID:  req.ConfigID,
	})
	if err != nil {
		h.error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DeployStatus handles GET /api/orbit-ai/deploy/status/{id}
func (h *Handler) DeployStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.DeployStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.error(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Invalid JSON body"})
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "Validation failed", Errors: formatValidationErrors(err)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonName reports validation failures under the field's JSON name.
func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}
