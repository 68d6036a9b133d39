package entity

import (
	"context"
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID         int64           `json:"id"`
	UserID     *int64          `json:"user_id"`
	EntityType string          `json:"entity_type"`
	EntityID   *int64          `json:"entity_id"`
	Action     string          `json:"action"`
	Meta       json.RawMessage `json:"meta"`
	CreatedAt  time.Time       `json:"created_at"`
}

const (
	IntegrationOutbound = "outbound"

	IntegrationStatusManual = "manual"
	IntegrationStatusQueued = "queued"
	IntegrationStatusSent   = "sent"
	IntegrationStatusFailed = "failed"
)

type IntegrationLog struct {
	ID           int64           `json:"id"`
	Channel      string          `json:"channel"`
	Direction    string          `json:"direction"`
	Status       string          `json:"status"`
	Payload      json.RawMessage `json:"payload"`
	ResponseBody *string         `json:"response_body,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type AuditLogRepositoryInterface interface {
	Log(ctx context.Context, entry *AuditLog) error
}

type IntegrationLogRepositoryInterface interface {
	Log(ctx context.Context, entry *IntegrationLog) error
}
