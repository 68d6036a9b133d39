package handlers

import (
	"net/http"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type ProjectHandler struct {
	ProjectRepo entity.ProjectRepositoryInterface
}

func NewProjectHandler(repo entity.ProjectRepositoryInterface) *ProjectHandler {
	return &ProjectHandler{ProjectRepo: repo}
}

type CreateProjectRequest struct {
	Name           string   `json:"name"`
	Location       *string  `json:"location"`
	Type           *string  `json:"type"`
	TotalUnits     int      `json:"total_units"`
	AvailableUnits int      `json:"available_units"`
	Progress       int      `json:"progress"`
	BasePrice      *float64 `json:"base_price"`
	Status         string   `json:"status"`
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.ProjectRepo.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if projects == nil {
		projects = []*entity.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, usecase.NewMissingFieldsError("name"))
		return
	}

	project := &entity.Project{
		Name:           strings.TrimSpace(req.Name),
		Location:       trimmed(req.Location),
		Type:           trimmed(req.Type),
		TotalUnits:     req.TotalUnits,
		AvailableUnits: req.AvailableUnits,
		Progress:       req.Progress,
		BasePrice:      req.BasePrice,
		Status:         strings.TrimSpace(req.Status),
	}
	if project.Status == "" {
		project.Status = entity.ProjectStatusPlanning
	}
	if err := project.Validate(); err != nil {
		writeError(w, r, entityValidation("project", err))
		return
	}

	id, err := h.ProjectRepo.Create(r.Context(), project)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Project")
	if !ok {
		return
	}

	var patch entity.ProjectPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeInvalidJSON(w)
		return
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		writeError(w, r, usecase.NewValidationError(map[string]string{"name": "must not be empty"}))
		return
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		writeError(w, r, usecase.NewValidationError(map[string]string{"progress": "must be between 0 and 100"}))
		return
	}

	if err := h.ProjectRepo.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
