package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type ActivityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) List(ctx context.Context, filter entity.ActivityFilter) ([]*entity.Activity, error) {
	query := `
		SELECT a.id, a.contact_id, a.title, a.description, a.due_at, a.status, a.type,
		       a.owner_id, a.completed_at, a.created_at, c.full_name, u.full_name
		FROM activities a
		LEFT JOIN contacts c ON c.id = a.contact_id
		LEFT JOIN users u ON u.id = a.owner_id
		WHERE a.deleted_at IS NULL
		  AND ($1 = '' OR a.status = $1)
		  AND ($2::BIGINT = 0 OR a.contact_id = $2)
		ORDER BY a.due_at ASC NULLS LAST, a.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, filter.Status, filter.ContactID)
	if err != nil {
		return nil, mapError("list activities", err)
	}
	defer rows.Close()

	activities := []*entity.Activity{}
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(
			&a.ID, &a.ContactID, &a.Title, &a.Description, &a.DueAt, &a.Status, &a.Type,
			&a.OwnerID, &a.CompletedAt, &a.CreatedAt, &a.ClientName, &a.AgentName,
		); err != nil {
			return nil, mapError("scan activity", err)
		}
		activities = append(activities, &a)
	}
	return activities, mapError("list activities", rows.Err())
}

func (r *ActivityRepository) Create(ctx context.Context, a *entity.Activity) (int64, error) {
	query := `
		INSERT INTO activities (contact_id, title, description, due_at, status, type, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		a.ContactID, a.Title, a.Description, a.DueAt, a.Status, a.Type, a.OwnerID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return 0, mapError("create activity", err)
	}
	return a.ID, nil
}

func (r *ActivityRepository) Update(ctx context.Context, id int64, patch entity.ActivityPatch) error {
	var b patchBuilder
	setIf(&b, "contact_id", patch.ContactID)
	setIf(&b, "title", patch.Title)
	setIf(&b, "description", patch.Description)
	setIf(&b, "due_at", patch.DueAt)
	setIf(&b, "status", patch.Status)
	setIf(&b, "type", patch.Type)
	setIf(&b, "owner_id", patch.OwnerID)

	query, args, ok := b.build("activities", id)
	if !ok {
		return nil
	}
	return execAffected(ctx, r.DB, "update activity", query, args...)
}

func (r *ActivityRepository) Complete(ctx context.Context, id int64) error {
	return execAffected(ctx, r.DB, "complete activity", `
		UPDATE activities
		SET status = $1, completed_at = NOW(), updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL`,
		entity.ActivityStatusDone, id)
}
