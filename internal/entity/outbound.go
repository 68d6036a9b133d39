package entity

import "context"

const OutboundChannelEmail = "email"

// OutboundMessage is a ticket reply handed to the delivery worker.
type OutboundMessage struct {
	MessageID string  `json:"message_id"`
	TicketID  int64   `json:"ticket_id"`
	CommentID int64   `json:"comment_id"`
	Channel   string  `json:"channel"`
	Body      string  `json:"body"`
	Recipient *string `json:"recipient,omitempty"`
}

type OutboundPublisher interface {
	PublishOutbound(ctx context.Context, msg OutboundMessage) error
}
