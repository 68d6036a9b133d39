package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	ActivityStatusTodo = "todo"
	ActivityStatusDone = "done"

	ActivityTypeFollowUp = "follow_up"
)

// Activity representa um follow-up agendado, opcionalmente ligado a um contato
type Activity struct {
	ID          int64      `json:"id"`
	ContactID   *int64     `json:"contact_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	Status      string     `json:"status"`
	Type        string     `json:"type"`
	OwnerID     int64      `json:"owner_id"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	ClientName *string `json:"client,omitempty"`
	AgentName  *string `json:"agent,omitempty"`
}

// NewActivity cria uma atividade com os defaults de follow-up
func NewActivity(contactID *int64, title string, description *string, dueAt *time.Time, status, activityType string, ownerID int64) (*Activity, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("title is required")
	}
	if ownerID <= 0 {
		return nil, errors.New("owner_id is required")
	}
	if status == "" {
		status = ActivityStatusTodo
	}
	if activityType == "" {
		activityType = ActivityTypeFollowUp
	}

	return &Activity{
		ContactID:   contactID,
		Title:       strings.TrimSpace(title),
		Description: description,
		DueAt:       dueAt,
		Status:      status,
		Type:        activityType,
		OwnerID:     ownerID,
	}, nil
}

type ActivityFilter struct {
	Status    string
	ContactID int64
}

type ActivityPatch struct {
	ContactID   *int64    `json:"contact_id"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	DueAt       *DateTime `json:"due_at"`
	Status      *string   `json:"status"`
	Type        *string   `json:"type"`
	OwnerID     *int64    `json:"owner_id"`
}

type ActivityRepositoryInterface interface {
	List(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
	Create(ctx context.Context, a *Activity) (int64, error)
	Update(ctx context.Context, id int64, patch ActivityPatch) error
	Complete(ctx context.Context, id int64) error
}
