package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type DealRepository struct {
	DB *sql.DB
}

func NewDealRepository(db *sql.DB) *DealRepository {
	return &DealRepository{DB: db}
}

// List orders deals the way the board renders them: by stage position, then
// newest first. Deals without a stage come last.
func (r *DealRepository) List(ctx context.Context, filter entity.DealFilter) ([]*entity.Deal, error) {
	query := `
		SELECT d.id, d.title, d.contact_id, d.amount, d.status, d.stage_id, d.owner_id,
		       d.expected_close_at, d.created_at, d.updated_at,
		       c.full_name, u.full_name, ps.name, ps.position
		FROM deals d
		JOIN contacts c ON c.id = d.contact_id
		LEFT JOIN users u ON u.id = d.owner_id
		LEFT JOIN pipeline_stages ps ON ps.id = d.stage_id
		WHERE d.deleted_at IS NULL
		  AND ($1::BIGINT = 0 OR ps.pipeline_id = $1)
		  AND ($2 = '' OR d.status = $2)
		  AND ($3::BIGINT = 0 OR d.contact_id = $3)
		ORDER BY ps.position ASC NULLS LAST, d.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, filter.PipelineID, filter.Status, filter.ContactID)
	if err != nil {
		return nil, mapError("list deals", err)
	}
	defer rows.Close()

	deals := []*entity.Deal{}
	for rows.Next() {
		var d entity.Deal
		if err := rows.Scan(
			&d.ID, &d.Title, &d.ContactID, &d.Amount, &d.Status, &d.StageID, &d.OwnerID,
			&d.ExpectedCloseAt, &d.CreatedAt, &d.UpdatedAt,
			&d.ContactName, &d.OwnerName, &d.StageName, &d.StagePosition,
		); err != nil {
			return nil, mapError("scan deal", err)
		}
		deals = append(deals, &d)
	}
	return deals, mapError("list deals", rows.Err())
}

func (r *DealRepository) Update(ctx context.Context, id int64, patch entity.DealPatch) error {
	var b patchBuilder
	setIf(&b, "title", patch.Title)
	setIf(&b, "contact_id", patch.ContactID)
	setIf(&b, "amount", patch.Amount)
	setIf(&b, "status", patch.Status)
	setIf(&b, "owner_id", patch.OwnerID)
	setIf(&b, "expected_close_at", patch.ExpectedCloseAt)

	query, args, ok := b.build("deals", id)
	if !ok {
		return nil
	}
	return execAffected(ctx, r.DB, "update deal", query, args...)
}

// History returns the stage ledger of a live deal, oldest first.
func (r *DealRepository) History(ctx context.Context, dealID int64) ([]*entity.DealStageHistory, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM deals WHERE id = $1 AND deleted_at IS NULL)`, dealID,
	).Scan(&exists); err != nil {
		return nil, mapError("deal history", err)
	}
	if !exists {
		return nil, entity.ErrNotFound
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, deal_id, from_stage_id, to_stage_id, moved_by, moved_at
		FROM deal_stage_history
		WHERE deal_id = $1
		ORDER BY moved_at ASC, id ASC`, dealID)
	if err != nil {
		return nil, mapError("deal history", err)
	}
	defer rows.Close()

	history := []*entity.DealStageHistory{}
	for rows.Next() {
		var h entity.DealStageHistory
		if err := rows.Scan(&h.ID, &h.DealID, &h.FromStageID, &h.ToStageID, &h.MovedBy, &h.MovedAt); err != nil {
			return nil, mapError("scan deal history", err)
		}
		history = append(history, &h)
	}
	return history, mapError("deal history", rows.Err())
}

func insertDeal(ctx context.Context, q querier, d *entity.Deal) (int64, error) {
	query := `
		INSERT INTO deals (title, contact_id, amount, status, stage_id, owner_id, expected_close_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := q.QueryRowContext(ctx, query,
		d.Title,
		d.ContactID,
		d.Amount,
		d.Status,
		d.StageID,
		d.OwnerID,
		d.ExpectedCloseAt,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return 0, mapError("create deal", err)
	}
	return d.ID, nil
}

func insertStageHistory(ctx context.Context, q querier, h *entity.DealStageHistory) (int64, error) {
	query := `
		INSERT INTO deal_stage_history (deal_id, from_stage_id, to_stage_id, moved_by, moved_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := q.QueryRowContext(ctx, query, h.DealID, h.FromStageID, h.ToStageID, h.MovedBy, h.MovedAt).Scan(&h.ID)
	if err != nil {
		return 0, mapError("append stage history", err)
	}
	return h.ID, nil
}
