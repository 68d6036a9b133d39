package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type LeadConverter interface {
	Execute(ctx context.Context, input usecase.ConvertLeadInput) (*usecase.ConvertLeadOutput, error)
}

type LeadUpdater interface {
	Execute(ctx context.Context, input usecase.UpdateLeadInput) error
}

type LeadHandler struct {
	leadRepo  entity.LeadRepositoryInterface
	updateUC  LeadUpdater
	convertUC LeadConverter
}

func NewLeadHandler(leadRepo entity.LeadRepositoryInterface, updateUC LeadUpdater, convertUC LeadConverter) *LeadHandler {
	return &LeadHandler{
		leadRepo:  leadRepo,
		updateUC:  updateUC,
		convertUC: convertUC,
	}
}

type CreateLeadRequest struct {
	FullName string            `json:"full_name"`
	Phone    string            `json:"phone"`
	Email    *string           `json:"email"`
	Source   string            `json:"source"`
	Status   entity.LeadStatus `json:"status"`
	Budget   *float64          `json:"budget"`
	Interest *string           `json:"interest"`
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	leads, err := h.leadRepo.List(r.Context(), entity.LeadFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.TrimSpace(q.Get("status")),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req CreateLeadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	if err := usecase.ValidateLead(req.FullName, req.Phone, req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	lead, err := entity.NewLead(req.FullName, req.Phone, req.Email, req.Source, req.Status, actor)
	if err != nil {
		writeError(w, r, entityValidation("status", err))
		return
	}
	lead.Budget = req.Budget
	lead.Interest = trimmed(req.Interest)

	id, err := h.leadRepo.Create(r.Context(), lead)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Lead")
	if !ok {
		return
	}

	var patch entity.LeadPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeInvalidJSON(w)
		return
	}

	if err := h.updateUC.Execute(r.Context(), usecase.UpdateLeadInput{LeadID: id, Patch: patch}); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Convert turns a lead into a contact plus an open deal in the default stage.
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Lead")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	out, err := h.convertUC.Execute(r.Context(), usecase.ConvertLeadInput{LeadID: id, ActorID: actor})
	if err != nil {
		if !usecase.IsDomainError(err) {
			middleware.RecordWorkflowFailure("convert_lead")
		}
		writeError(w, r, err)
		return
	}

	middleware.RecordLeadConverted()
	writeJSON(w, http.StatusOK, out)
}
