package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	TicketPriorityNormal = "normal"
	TicketStatusOpen     = "open"
)

type Ticket struct {
	ID          int64      `json:"id"`
	ContactID   *int64     `json:"contact_id"`
	Subject     string     `json:"subject"`
	Description *string    `json:"description,omitempty"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssigneeID  *int64     `json:"assignee_id"`
	SLADueAt    *time.Time `json:"sla_due_at"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`

	ContactName  *string `json:"contact_name,omitempty"`
	AssigneeName *string `json:"assignee_name,omitempty"`
}

func (t *Ticket) Validate() error {
	if strings.TrimSpace(t.Subject) == "" {
		return errors.New("subject is required")
	}
	return nil
}

type TicketComment struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	UserID    int64     `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type TicketPatch struct {
	Subject     *string   `json:"subject"`
	Description *string   `json:"description"`
	Priority    *string   `json:"priority"`
	Status      *string   `json:"status"`
	AssigneeID  *int64    `json:"assignee_id"`
	SLADueAt    *DateTime `json:"sla_due_at"`
}

type TicketRepositoryInterface interface {
	List(ctx context.Context, status string) ([]*Ticket, error)
	Create(ctx context.Context, t *Ticket) (int64, error)
	Update(ctx context.Context, id int64, patch TicketPatch) error
	AddComment(ctx context.Context, c *TicketComment) (int64, error)
	// ContactEmail returns the email of the ticket's contact, or nil when the
	// ticket has no contact or the contact has no email.
	ContactEmail(ctx context.Context, ticketID int64) (*string, error)
}
