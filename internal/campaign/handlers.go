package campaign

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/walldriyan/banana-sub000/internal/common"
)

// Handler exposes administrative campaign management endpoints.
type Handler struct {
	Svc *Service
}

type campaignResponse struct {
	Data any `json:"data"`
}

// Create inserts a new campaign.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "campaign service not configured", nil)
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	rec, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
			return
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			common.JSONError(w, http.StatusConflict, "CONFLICT", "campaign already exists", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to create campaign", nil)
		return
	}
	common.JSON(w, http.StatusCreated, campaignResponse{Data: rec})
}

// Update replaces an existing campaign identified by id.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "campaign service not configured", nil)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	rec, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, "failed to update campaign")
		return
	}
	common.JSON(w, http.StatusOK, campaignResponse{Data: rec})
}

// Get returns one campaign.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "campaign service not configured", nil)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rec, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to load campaign")
		return
	}
	common.JSON(w, http.StatusOK, campaignResponse{Data: rec})
}

// List returns campaigns with pagination metadata.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "campaign service not configured", nil)
		return
	}
	page, perPage := common.ParsePagination(r, 20)
	if perPage > 100 {
		perPage = 100
	}
	recs, total, err := h.Svc.List(r.Context(), int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "failed to list campaigns", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": recs,
		"pagination": map[string]any{
			"page":        page,
			"per_page":    perPage,
			"total_items": total,
		},
	})
}

type activatePayload struct {
	Active bool `json:"active"`
}

// Activate toggles a campaign's active flag.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "campaign service not configured", nil)
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var payload activatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	rec, err := h.Svc.SetActive(r.Context(), id, payload.Active)
	if err != nil {
		writeServiceError(w, err, "failed to toggle campaign")
		return
	}
	common.JSON(w, http.StatusOK, campaignResponse{Data: rec})
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid campaign id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "campaign not found", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", fallback, nil)
	}
}
