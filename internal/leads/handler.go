package leads

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/enmirex/cashoffer/pkg/logging"
)

// MaxBodyBytes caps the intake request body.
const MaxBodyBytes = 10 << 20

const internalErrorMessage = "Internal server error"

// IntakeObserver records intake outcomes.
type IntakeObserver interface {
	ObserveCreated()
	ObserveRejected(reason string)
}

// Handler handles HTTP requests for leads
type Handler struct {
	repo      Repository
	forwarder Forwarder
	observer  IntakeObserver
	logger    *logging.Logger
}

// NewHandler creates a new leads handler. forwarder may be nil when no sinks
// are configured.
func NewHandler(repo Repository, forwarder Forwarder, logger *logging.Logger) *Handler {
	if repo == nil {
		panic("leads: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:      repo,
		forwarder: forwarder,
		logger:    logger,
	}
}

// WithObserver attaches intake metrics.
func (h *Handler) WithObserver(o IntakeObserver) *Handler {
	h.observer = o
	return h
}

// CreateLeadResponse is the success body of POST /api/leads.
type CreateLeadResponse struct {
	Success bool  `json:"success"`
	Lead    *Lead `json:"lead"`
}

// ErrorResponse is the 400 body of POST /api/leads. Errors is always
// present, empty for malformed JSON.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// MessageResponse is the body of every other failure.
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateLead handles POST /api/leads. The store write completes before the
// response; sinks are dispatched and never awaited.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, "too_large", http.StatusRequestEntityTooLarge, MessageResponse{Message: "Request body too large"})
			return
		}
		h.logger.Warn("failed to read lead body", "error", err)
		h.reject(w, "malformed", http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body", Errors: []FieldError{}})
		return
	}

	req, err := ParseCreateRequest(body)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			h.logger.Info("lead rejected", "errors", len(verr.Fields))
			h.reject(w, "validation", http.StatusBadRequest, ErrorResponse{Message: "Validation error", Errors: verr.Fields})
		case errors.Is(err, ErrMalformedBody):
			h.reject(w, "malformed", http.StatusBadRequest, ErrorResponse{Message: "Invalid JSON body", Errors: []FieldError{}})
		default:
			h.logger.Error("failed to validate lead", "error", err)
			writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: internalErrorMessage})
		}
		return
	}

	lead, err := h.repo.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to create lead", "error", err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: internalErrorMessage})
		return
	}

	h.logger.Info("lead created", "lead_id", lead.ID, "city", lead.City, "state", lead.State)
	if h.observer != nil {
		h.observer.ObserveCreated()
	}
	if h.forwarder != nil {
		h.forwarder.Forward(r.Context(), lead)
	}

	writeJSON(w, http.StatusOK, CreateLeadResponse{Success: true, Lead: lead})
}

// ListLeads handles GET /api/leads. All leads, insertion order, no paging.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{Message: internalErrorMessage})
		return
	}
	if leads == nil {
		leads = []*Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *Handler) reject(w http.ResponseWriter, reason string, status int, body any) {
	if h.observer != nil {
		h.observer.ObserveRejected(reason)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
