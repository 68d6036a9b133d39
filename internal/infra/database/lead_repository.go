package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	l.id, l.full_name, l.phone, l.email, l.source, l.status, l.budget, l.interest,
	l.owner_id, u.full_name, l.created_at, l.updated_at`

func scanLead(row interface{ Scan(...any) error }) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
		&lead.ID,
		&lead.FullName,
		&lead.Phone,
		&lead.Email,
		&lead.Source,
		&lead.Status,
		&lead.Budget,
		&lead.Interest,
		&lead.OwnerID,
		&lead.OwnerName,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	query := `SELECT` + leadColumns + `
		FROM leads l
		LEFT JOIN users u ON u.id = l.owner_id
		WHERE l.deleted_at IS NULL
		  AND ($1 = '' OR l.full_name ILIKE $2 OR l.phone ILIKE $2)
		  AND ($3 = '' OR l.status = $3)
		ORDER BY l.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, filter.Search, likePattern(filter.Search), filter.Status)
	if err != nil {
		return nil, mapError("list leads", err)
	}
	defer rows.Close()

	leads := []*entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, mapError("scan lead", err)
		}
		leads = append(leads, lead)
	}
	return leads, mapError("list leads", rows.Err())
}

func (r *LeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	return findLead(ctx, r.DB, id, false)
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) (int64, error) {
	query := `
		INSERT INTO leads (full_name, phone, email, source, status, budget, interest, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(ctx, query,
		lead.FullName,
		lead.Phone,
		lead.Email,
		lead.Source,
		lead.Status,
		lead.Budget,
		lead.Interest,
		lead.OwnerID,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	if err != nil {
		return 0, mapError("create lead", err)
	}
	return lead.ID, nil
}

func (r *LeadRepository) Update(ctx context.Context, id int64, patch entity.LeadPatch) error {
	var b patchBuilder
	setIf(&b, "full_name", patch.FullName)
	setIf(&b, "phone", patch.Phone)
	setIf(&b, "email", patch.Email)
	setIf(&b, "source", patch.Source)
	setIf(&b, "status", patch.Status)
	setIf(&b, "budget", patch.Budget)
	setIf(&b, "interest", patch.Interest)
	setIf(&b, "owner_id", patch.OwnerID)
	if patch.ExpectedStatus != nil && !b.empty() {
		b.guard("status", *patch.ExpectedStatus)
	}

	query, args, ok := b.build("leads", id)
	if !ok {
		return nil
	}
	return execAffected(ctx, r.DB, "update lead", query, args...)
}

// findLead loads a live lead; forUpdate locks the row for the caller's transaction.
func findLead(ctx context.Context, q querier, id int64, forUpdate bool) (*entity.Lead, error) {
	query := `SELECT` + leadColumns + `
		FROM leads l
		LEFT JOIN users u ON u.id = l.owner_id
		WHERE l.id = $1 AND l.deleted_at IS NULL`
	if forUpdate {
		query += ` FOR UPDATE OF l`
	}

	lead, err := scanLead(q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError("find lead", err)
	}
	return lead, nil
}
