package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type TicketCommenter interface {
	Execute(ctx context.Context, input usecase.AddTicketCommentInput) (*usecase.AddTicketCommentOutput, error)
}

type TicketHandler struct {
	TicketRepo entity.TicketRepositoryInterface
	CommentUC  TicketCommenter
}

func NewTicketHandler(repo entity.TicketRepositoryInterface, commentUC TicketCommenter) *TicketHandler {
	return &TicketHandler{
		TicketRepo: repo,
		CommentUC:  commentUC,
	}
}

type CreateTicketRequest struct {
	ContactID   *int64           `json:"contact_id"`
	Subject     string           `json:"subject"`
	Description *string          `json:"description"`
	Priority    string           `json:"priority"`
	Status      string           `json:"status"`
	AssigneeID  *int64           `json:"assignee_id"`
	SLADueAt    *entity.DateTime `json:"sla_due_at"`
}

func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.TicketRepo.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("status")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if tickets == nil {
		tickets = []*entity.Ticket{}
	}
	writeJSON(w, http.StatusOK, tickets)
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	ticket := &entity.Ticket{
		ContactID:   req.ContactID,
		Subject:     strings.TrimSpace(req.Subject),
		Description: trimmed(req.Description),
		Priority:    strings.TrimSpace(req.Priority),
		Status:      strings.TrimSpace(req.Status),
		AssigneeID:  req.AssigneeID,
		SLADueAt:    req.SLADueAt.TimePtr(),
		CreatedBy:   actor,
	}
	if err := ticket.Validate(); err != nil {
		writeError(w, r, usecase.NewMissingFieldsError("subject"))
		return
	}
	if ticket.Priority == "" {
		ticket.Priority = entity.TicketPriorityNormal
	}
	if ticket.Status == "" {
		ticket.Status = entity.TicketStatusOpen
	}

	id, err := h.TicketRepo.Create(r.Context(), ticket)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Ticket")
	if !ok {
		return
	}

	var patch entity.TicketPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeInvalidJSON(w)
		return
	}
	if patch.Subject != nil && strings.TrimSpace(*patch.Subject) == "" {
		writeError(w, r, usecase.NewValidationError(map[string]string{"subject": "must not be empty"}))
		return
	}

	if err := h.TicketRepo.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *TicketHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Ticket")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var input usecase.AddTicketCommentInput
	if err := decodeJSON(r, &input); err != nil {
		writeInvalidJSON(w)
		return
	}
	input.TicketID = id
	input.ActorID = actor

	out, err := h.CommentUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}
