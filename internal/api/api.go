// Package api exposes the REST and SSE surface of the service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/service"
	"github.com/kolapsis/crier/internal/store"
)

// Handler coordinates HTTP requests with the activity service.
type Handler struct {
	svc *service.Service
}

// NewHandler builds a Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register wires the activity endpoints onto r.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/activities", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/stream", h.stream)
		r.Get("/{id}", h.get)
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in activity.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := activity.ValidateInput(in, time.Now()); err != nil {
		var verr *activity.ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	a, err := h.svc.Create(in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "persistence_error", "failed to store activity")
		return
	}

	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var f service.Filter

	if c := r.URL.Query().Get("category"); c != "" {
		cat := activity.Category(c)
		if !cat.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown category")
			return
		}
		f.Category = cat
	}
	if r.URL.Query().Get("active") == "true" {
		f.ActiveOnly = true
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		f.Limit = n
	}

	activities, err := h.svc.List(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "persistence_error", "failed to list activities")
		return
	}
	if activities == nil {
		activities = []activity.Activity{}
	}

	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	a, err := h.svc.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "activity not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "persistence_error", "failed to load activity")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// --- Response helpers ---

type errorResponse struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Fields  []activity.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeValidationError(w http.ResponseWriter, verr *activity.ValidationError) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "validation_error",
		Message: "invalid input",
		Fields:  verr.Fields,
	})
}
