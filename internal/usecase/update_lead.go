package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/xavierca1/maria-crm/internal/entity"
)

func NewUpdateLeadUseCase(repo entity.LeadRepositoryInterface) *UpdateLeadUseCase {
	return &UpdateLeadUseCase{Repo: repo}
}

// Execute applies a partial edit. Status edits go through the lead status
// machine, which keeps converted reserved for ConvertLead.
func (uc *UpdateLeadUseCase) Execute(ctx context.Context, input UpdateLeadInput) error {
	patch := input.Patch
	if patch.Empty() {
		return nil
	}

	var f fieldErrors
	f.personPatch(patch.FullName, patch.Phone, patch.Email)
	if patch.Status != nil && !patch.Status.Valid() {
		f.add("status", fmt.Sprintf("unknown status %q", *patch.Status))
	}
	if err := f.err(); err != nil {
		return err
	}

	lead, err := uc.Repo.FindByID(ctx, input.LeadID)
	if errors.Is(err, entity.ErrNotFound) {
		return NewNotFoundError("Lead", input.LeadID)
	}
	if err != nil {
		return err
	}

	if patch.Status != nil {
		next, err := entity.TransitionLeadStatus(lead.Status, *patch.Status)
		var transitionErr *entity.ErrLeadStatusTransition
		if errors.As(err, &transitionErr) {
			return NewConflictError(transitionErr.Error())
		}
		if err != nil {
			return err
		}
		patch.Status = &next
		current := lead.Status
		patch.ExpectedStatus = &current
	}

	err = uc.Repo.Update(ctx, input.LeadID, patch)
	if errors.Is(err, entity.ErrNotFound) {
		return uc.missedUpdate(ctx, input.LeadID, patch)
	}
	if errors.Is(err, entity.ErrInvalidReference) {
		return NewValidationError(map[string]string{"owner_id": "unknown user"})
	}
	return err
}

// missedUpdate explains an UPDATE that matched no row: the lead is gone, or
// its status changed after it was read (a concurrent ConvertLead, typically).
func (uc *UpdateLeadUseCase) missedUpdate(ctx context.Context, id int64, patch entity.LeadPatch) error {
	if patch.ExpectedStatus == nil {
		return NewNotFoundError("Lead", id)
	}
	lead, err := uc.Repo.FindByID(ctx, id)
	if errors.Is(err, entity.ErrNotFound) {
		return NewNotFoundError("Lead", id)
	}
	if err != nil {
		return err
	}
	return NewConflictError(fmt.Sprintf("lead status changed to %s while updating", lead.Status))
}
