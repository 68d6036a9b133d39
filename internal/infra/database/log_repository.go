package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type AuditLogRepository struct {
	DB *sql.DB
}

func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

func (r *AuditLogRepository) Log(ctx context.Context, entry *entity.AuditLog) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO audit_logs (user_id, entity_type, entity_id, action, meta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.UserID, entry.EntityType, entry.EntityID, entry.Action, jsonArg(entry.Meta),
	).Scan(&entry.ID, &entry.CreatedAt)
	return mapError("audit log", err)
}

type IntegrationLogRepository struct {
	DB *sql.DB
}

func NewIntegrationLogRepository(db *sql.DB) *IntegrationLogRepository {
	return &IntegrationLogRepository{DB: db}
}

func (r *IntegrationLogRepository) Log(ctx context.Context, entry *entity.IntegrationLog) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO integration_logs (channel, direction, status, payload, response_body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		entry.Channel, entry.Direction, entry.Status, jsonArg(entry.Payload), entry.ResponseBody,
	).Scan(&entry.ID, &entry.CreatedAt)
	return mapError("integration log", err)
}

// jsonArg passes a JSON document as text so pgx casts it into the JSONB column;
// empty documents become NULL.
func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
