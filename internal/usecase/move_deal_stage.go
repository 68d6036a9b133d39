package usecase

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/xavierca1/maria-crm/internal/entity"
)

func NewMoveDealStageUseCase(tx entity.TxManager) *MoveDealStageUseCase {
	return &MoveDealStageUseCase{Tx: tx, Now: utcNow}
}

// Execute repoints a deal to another stage and appends the move to the
// history ledger. Any stage is reachable from any stage, the current one
// included.
func (uc *MoveDealStageUseCase) Execute(ctx context.Context, input MoveDealStageInput) error {
	if input.StageID <= 0 {
		return NewMissingFieldsError("stage_id")
	}

	var fromStageID *int64

	txn := NewTransaction()

	txn.AddOperation("lock_deal", func(ctx context.Context, store entity.PipelineStore) error {
		var err error
		fromStageID, err = store.LockDealStage(ctx, input.DealID)
		if errors.Is(err, entity.ErrNotFound) {
			return NewNotFoundError("Deal", input.DealID)
		}
		return err
	})

	txn.AddOperation("validate_stage", func(ctx context.Context, store entity.PipelineStore) error {
		ok, err := store.StageExists(ctx, input.StageID)
		if err != nil {
			return err
		}
		if !ok {
			return NewValidationError(map[string]string{"stage_id": "unknown stage"})
		}
		return nil
	})

	txn.AddOperation("update_deal_stage", func(ctx context.Context, store entity.PipelineStore) error {
		return store.UpdateDealStage(ctx, input.DealID, input.StageID)
	})

	txn.AddOperation("append_stage_history", func(ctx context.Context, store entity.PipelineStore) error {
		_, err := store.AppendStageHistory(ctx, &entity.DealStageHistory{
			DealID:      input.DealID,
			FromStageID: fromStageID,
			ToStageID:   input.StageID,
			MovedBy:     input.ActorID,
			MovedAt:     uc.Now.now(),
		})
		return err
	})

	if err := txn.Execute(ctx, uc.Tx); err != nil {
		log.Printf("❌ [PIPELINE] deal=%d move to stage=%d failed: %v", input.DealID, input.StageID, err)
		return err
	}

	log.Printf("➡️ [PIPELINE] deal=%d moved %s -> %d by user=%d", input.DealID, formatStage(fromStageID), input.StageID, input.ActorID)
	return nil
}

func formatStage(id *int64) string {
	if id == nil {
		return "none"
	}
	return strconv.FormatInt(*id, 10)
}
