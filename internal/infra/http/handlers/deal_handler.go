package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type DealCreator interface {
	Execute(ctx context.Context, input usecase.CreateDealInput) (*usecase.CreateDealOutput, error)
}

type DealStageMover interface {
	Execute(ctx context.Context, input usecase.MoveDealStageInput) error
}

type StageLister interface {
	Stages(ctx context.Context) ([]*entity.Stage, error)
}

type DealHandler struct {
	DealRepo entity.DealRepositoryInterface
	Stages   StageLister
	CreateUC DealCreator
	MoveUC   DealStageMover
}

func NewDealHandler(repo entity.DealRepositoryInterface, stages StageLister, createUC DealCreator, moveUC DealStageMover) *DealHandler {
	return &DealHandler{
		DealRepo: repo,
		Stages:   stages,
		CreateUC: createUC,
		MoveUC:   moveUC,
	}
}

type MoveStageRequest struct {
	StageID int64 `json:"stage_id"`
}

type dealBoard struct {
	Stages []*entity.Stage `json:"stages"`
	Items  []*entity.Deal  `json:"items"`
}

// List returns the board: the stage columns plus the matching deals.
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deals, err := h.DealRepo.List(ctx, entity.DealFilter{
		PipelineID: queryID(r, "pipeline_id"),
		Status:     strings.TrimSpace(r.URL.Query().Get("status")),
		ContactID:  queryID(r, "contact_id"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	stages, err := h.Stages.Stages(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	board := dealBoard{Stages: stages, Items: deals}
	if board.Stages == nil {
		board.Stages = []*entity.Stage{}
	}
	if board.Items == nil {
		board.Items = []*entity.Deal{}
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var input usecase.CreateDealInput
	if err := decodeJSON(r, &input); err != nil {
		writeInvalidJSON(w)
		return
	}
	input.ActorID = actor

	out, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		if !usecase.IsDomainError(err) {
			middleware.RecordWorkflowFailure("create_deal")
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

// Update edits deal fields. Stage changes are rejected here; they go through
// MoveStage so the history ledger stays complete.
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Deal")
	if !ok {
		return
	}

	var body struct {
		entity.DealPatch
		StageID *int64 `json:"stage_id"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeInvalidJSON(w)
		return
	}
	if body.StageID != nil {
		writeError(w, r, usecase.NewValidationError(map[string]string{"stage_id": "use move-stage to change the stage"}))
		return
	}

	patch := body.DealPatch
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		writeError(w, r, usecase.NewValidationError(map[string]string{"title": "must not be empty"}))
		return
	}
	if patch.Status != nil && !patch.Status.Valid() {
		writeError(w, r, usecase.NewValidationError(map[string]string{"status": "must be open, won or lost"}))
		return
	}
	if patch.Amount != nil && *patch.Amount < 0 {
		writeError(w, r, usecase.NewValidationError(map[string]string{"amount": "must not be negative"}))
		return
	}

	if err := h.DealRepo.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *DealHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Deal")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req MoveStageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	err := h.MoveUC.Execute(r.Context(), usecase.MoveDealStageInput{DealID: id, StageID: req.StageID, ActorID: actor})
	if err != nil {
		if !usecase.IsDomainError(err) {
			middleware.RecordWorkflowFailure("move_deal_stage")
		}
		writeError(w, r, err)
		return
	}

	middleware.RecordDealStageMove()
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *DealHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Deal")
	if !ok {
		return
	}

	history, err := h.DealRepo.History(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if history == nil {
		history = []*entity.DealStageHistory{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (h *DealHandler) PipelineStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.Stages.Stages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stages == nil {
		stages = []*entity.Stage{}
	}
	writeJSON(w, http.StatusOK, stages)
}
