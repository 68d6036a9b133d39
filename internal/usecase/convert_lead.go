package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/xavierca1/maria-crm/internal/entity"
)

func NewConvertLeadUseCase(tx entity.TxManager) *ConvertLeadUseCase {
	return &ConvertLeadUseCase{Tx: tx, Now: utcNow}
}

// Execute turns a lead into a contact plus an open deal placed on the default
// stage. All four writes commit together or not at all.
func (uc *ConvertLeadUseCase) Execute(ctx context.Context, input ConvertLeadInput) (*ConvertLeadOutput, error) {
	log.Printf("🔄 [CONVERT] lead=%d actor=%d", input.LeadID, input.ActorID)

	var (
		lead    *entity.Lead
		contact *entity.Contact
		stage   *entity.Stage
		deal    *entity.Deal
		out     ConvertLeadOutput
	)

	txn := NewTransaction()

	txn.AddOperation("fetch_lead", func(ctx context.Context, store entity.PipelineStore) error {
		var err error
		lead, err = store.FindLead(ctx, input.LeadID)
		if errors.Is(err, entity.ErrNotFound) {
			return NewNotFoundError("Lead", input.LeadID)
		}
		return err
	})

	txn.AddOperation("create_contact", func(ctx context.Context, store entity.PipelineStore) error {
		contact = entity.ContactFromLead(lead)
		id, err := store.CreateContact(ctx, contact)
		if err != nil {
			return err
		}
		contact.ID = id
		out.ContactID = id
		return nil
	})

	txn.AddOperation("resolve_default_stage", func(ctx context.Context, store entity.PipelineStore) error {
		var err error
		stage, err = ResolveDefaultStage(ctx, store)
		return err
	})

	txn.AddOperation("create_deal", func(ctx context.Context, store entity.PipelineStore) error {
		deal = entity.DealFromLead(lead, contact.ID, stage.ID)
		id, err := store.CreateDeal(ctx, deal)
		if err != nil {
			return err
		}
		deal.ID = id
		out.DealID = id
		return nil
	})

	txn.AddOperation("append_stage_history", func(ctx context.Context, store entity.PipelineStore) error {
		_, err := store.AppendStageHistory(ctx, &entity.DealStageHistory{
			DealID:    deal.ID,
			ToStageID: stage.ID,
			MovedBy:   input.ActorID,
			MovedAt:   uc.Now.now(),
		})
		return err
	})

	txn.AddOperation("mark_lead_converted", func(ctx context.Context, store entity.PipelineStore) error {
		return store.UpdateLeadStatus(ctx, lead.ID, entity.LeadStatusConverted)
	})

	if err := txn.Execute(ctx, uc.Tx); err != nil {
		log.Printf("❌ [CONVERT] lead=%d rolled back: %v", input.LeadID, err)
		return nil, err
	}

	log.Printf("✅ [CONVERT] lead=%d -> contact=%d deal=%d stage=%d", input.LeadID, out.ContactID, out.DealID, stage.ID)
	return &out, nil
}
