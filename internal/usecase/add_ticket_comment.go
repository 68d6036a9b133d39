package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/xavierca1/maria-crm/internal/entity"
)

func NewAddTicketCommentUseCase(
	repo entity.TicketRepositoryInterface,
	integrations entity.IntegrationLogRepositoryInterface,
	publisher entity.OutboundPublisher,
) *AddTicketCommentUseCase {
	return &AddTicketCommentUseCase{
		Repo:         repo,
		Integrations: integrations,
		Publisher:    publisher,
	}
}

func (uc *AddTicketCommentUseCase) Execute(ctx context.Context, input AddTicketCommentInput) (*AddTicketCommentOutput, error) {
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return nil, NewMissingFieldsError("body")
	}

	commentID, err := uc.Repo.AddComment(ctx, &entity.TicketComment{
		TicketID: input.TicketID,
		UserID:   input.ActorID,
		Body:     body,
	})
	if errors.Is(err, entity.ErrInvalidReference) || errors.Is(err, entity.ErrNotFound) {
		return nil, NewNotFoundError("Ticket", input.TicketID)
	}
	if err != nil {
		return nil, err
	}

	channel := strings.ToLower(strings.TrimSpace(input.Channel))
	if channel == "" {
		return &AddTicketCommentOutput{ID: commentID}, nil
	}

	msg := entity.OutboundMessage{
		MessageID: uuid.New().String(),
		TicketID:  input.TicketID,
		CommentID: commentID,
		Channel:   channel,
		Body:      body,
	}

	// The comment is already stored; delivery problems are logged, not returned.
	status := entity.IntegrationStatusManual
	if uc.Publisher != nil {
		recipient, err := uc.Repo.ContactEmail(ctx, input.TicketID)
		if err != nil {
			log.Printf("⚠️ [QUEUE] ticket=%d recipient lookup failed: %v", input.TicketID, err)
		}
		msg.Recipient = recipient

		if err := uc.Publisher.PublishOutbound(ctx, msg); err != nil {
			log.Printf("⚠️ [QUEUE] comment=%d stored but not queued: %v", commentID, err)
			status = entity.IntegrationStatusFailed
		} else {
			status = entity.IntegrationStatusQueued
		}
	}

	if uc.Integrations != nil {
		payload, _ := json.Marshal(msg)
		if err := uc.Integrations.Log(ctx, &entity.IntegrationLog{
			Channel:   channel,
			Direction: entity.IntegrationOutbound,
			Status:    status,
			Payload:   payload,
		}); err != nil {
			log.Printf("⚠️ [QUEUE] integration log for comment=%d failed: %v", commentID, err)
		}
	}

	return &AddTicketCommentOutput{ID: commentID}, nil
}
