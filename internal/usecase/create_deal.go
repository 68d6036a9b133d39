package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
)

func NewCreateDealUseCase(tx entity.TxManager) *CreateDealUseCase {
	return &CreateDealUseCase{Tx: tx, Now: utcNow}
}

// Execute inserts a deal and its initial ledger row. Without an explicit
// stage the deal starts on the default stage.
func (uc *CreateDealUseCase) Execute(ctx context.Context, input CreateDealInput) (*CreateDealOutput, error) {
	if err := ValidateCreateDealInput(input); err != nil {
		return nil, err
	}

	deal := &entity.Deal{
		Title:           strings.TrimSpace(input.Title),
		ContactID:       input.ContactID,
		Amount:          input.Amount,
		Status:          input.Status,
		OwnerID:         input.ActorID,
		ExpectedCloseAt: input.ExpectedCloseAt.TimePtr(),
	}
	if deal.Status == "" {
		deal.Status = entity.DealStatusOpen
	}
	if input.OwnerID != nil && *input.OwnerID > 0 {
		deal.OwnerID = *input.OwnerID
	}

	txn := NewTransaction()

	txn.AddOperation("resolve_stage", func(ctx context.Context, store entity.PipelineStore) error {
		if input.StageID == nil || *input.StageID <= 0 {
			stage, err := ResolveDefaultStage(ctx, store)
			if err != nil {
				return err
			}
			deal.StageID = &stage.ID
			return nil
		}
		ok, err := store.StageExists(ctx, *input.StageID)
		if err != nil {
			return err
		}
		if !ok {
			return NewValidationError(map[string]string{"stage_id": "unknown stage"})
		}
		deal.StageID = input.StageID
		return nil
	})

	txn.AddOperation("create_deal", func(ctx context.Context, store entity.PipelineStore) error {
		id, err := store.CreateDeal(ctx, deal)
		if errors.Is(err, entity.ErrInvalidReference) {
			return NewValidationError(map[string]string{"contact_id": "unknown contact"})
		}
		if err != nil {
			return err
		}
		deal.ID = id
		return nil
	})

	txn.AddOperation("append_stage_history", func(ctx context.Context, store entity.PipelineStore) error {
		_, err := store.AppendStageHistory(ctx, &entity.DealStageHistory{
			DealID:    deal.ID,
			ToStageID: *deal.StageID,
			MovedBy:   input.ActorID,
			MovedAt:   uc.Now.now(),
		})
		return err
	})

	if err := txn.Execute(ctx, uc.Tx); err != nil {
		return nil, err
	}

	log.Printf("✅ [PIPELINE] deal=%d created on stage=%d", deal.ID, *deal.StageID)
	return &CreateDealOutput{ID: deal.ID, StageID: *deal.StageID}, nil
}
