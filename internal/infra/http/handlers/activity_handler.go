package handlers

import (
	"net/http"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type ActivityHandler struct {
	ActivityRepo entity.ActivityRepositoryInterface
}

func NewActivityHandler(repo entity.ActivityRepositoryInterface) *ActivityHandler {
	return &ActivityHandler{ActivityRepo: repo}
}

type CreateActivityRequest struct {
	ContactID   *int64           `json:"contact_id"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	DueAt       *entity.DateTime `json:"due_at"`
	Status      string           `json:"status"`
	Type        string           `json:"type"`
	OwnerID     *int64           `json:"owner_id"`
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.ActivityRepo.List(r.Context(), entity.ActivityFilter{
		Status:    strings.TrimSpace(r.URL.Query().Get("status")),
		ContactID: queryID(r, "contact_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if activities == nil {
		activities = []*entity.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req CreateActivityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, usecase.NewMissingFieldsError("title"))
		return
	}

	owner := actor
	if req.OwnerID != nil && *req.OwnerID > 0 {
		owner = *req.OwnerID
	}

	activity, err := entity.NewActivity(req.ContactID, req.Title, trimmed(req.Description), req.DueAt.TimePtr(), req.Status, req.Type, owner)
	if err != nil {
		writeError(w, r, entityValidation("activity", err))
		return
	}

	id, err := h.ActivityRepo.Create(r.Context(), activity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Activity")
	if !ok {
		return
	}

	var patch entity.ActivityPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeInvalidJSON(w)
		return
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		writeError(w, r, usecase.NewValidationError(map[string]string{"title": "must not be empty"}))
		return
	}

	if err := h.ActivityRepo.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *ActivityHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Activity")
	if !ok {
		return
	}

	if err := h.ActivityRepo.Complete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
