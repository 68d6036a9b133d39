package database

import (
	"context"
	"database/sql"
	"sort"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) List(ctx context.Context, search string) ([]*entity.Contact, error) {
	query := `
		SELECT c.id, c.full_name, c.phone, c.email, c.type, c.budget, c.interest, c.status,
		       c.owner_id, c.lead_id, c.created_at, c.updated_at,
		       u.full_name, d.id, ps.name, ps.position
		FROM contacts c
		LEFT JOIN users u ON u.id = c.owner_id
		LEFT JOIN LATERAL (
			SELECT id, stage_id FROM deals
			WHERE contact_id = c.id AND deleted_at IS NULL
			ORDER BY created_at DESC
			LIMIT 1
		) d ON TRUE
		LEFT JOIN pipeline_stages ps ON ps.id = d.stage_id
		WHERE c.deleted_at IS NULL
		  AND ($1 = '' OR c.full_name ILIKE $2 OR c.phone ILIKE $2)
		ORDER BY c.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, search, likePattern(search))
	if err != nil {
		return nil, mapError("list contacts", err)
	}
	defer rows.Close()

	contacts := []*entity.Contact{}
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(
			&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Type, &c.Budget, &c.Interest, &c.Status,
			&c.OwnerID, &c.LeadID, &c.CreatedAt, &c.UpdatedAt,
			&c.Agent, &c.DealID, &c.PipelineStage, &c.StagePosition,
		); err != nil {
			return nil, mapError("scan contact", err)
		}
		contacts = append(contacts, &c)
	}
	return contacts, mapError("list contacts", rows.Err())
}

func (r *ContactRepository) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	query := `
		SELECT c.id, c.full_name, c.phone, c.email, c.type, c.budget, c.interest, c.status,
		       c.owner_id, c.lead_id, c.created_at, c.updated_at, u.full_name
		FROM contacts c
		LEFT JOIN users u ON u.id = c.owner_id
		WHERE c.id = $1 AND c.deleted_at IS NULL`

	var c entity.Contact
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.FullName, &c.Phone, &c.Email, &c.Type, &c.Budget, &c.Interest, &c.Status,
		&c.OwnerID, &c.LeadID, &c.CreatedAt, &c.UpdatedAt, &c.Agent,
	)
	if err != nil {
		return nil, mapError("find contact", err)
	}
	return &c, nil
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) (int64, error) {
	return insertContact(ctx, r.DB, c)
}

func (r *ContactRepository) Update(ctx context.Context, id int64, patch entity.ContactPatch) error {
	var b patchBuilder
	setIf(&b, "full_name", patch.FullName)
	setIf(&b, "phone", patch.Phone)
	setIf(&b, "email", patch.Email)
	setIf(&b, "type", patch.Type)
	setIf(&b, "budget", patch.Budget)
	setIf(&b, "interest", patch.Interest)
	setIf(&b, "status", patch.Status)
	setIf(&b, "owner_id", patch.OwnerID)

	query, args, ok := b.build("contacts", id)
	if !ok {
		return nil
	}
	return execAffected(ctx, r.DB, "update contact", query, args...)
}

// Timeline merges activities, notes and stage moves of the contact's deals,
// newest first. Undated activities sort last.
func (r *ContactRepository) Timeline(ctx context.Context, contactID int64) ([]*entity.TimelineItem, error) {
	query := `
		SELECT id, title, description, due_at, status, 'activity'
		FROM activities
		WHERE contact_id = $1 AND deleted_at IS NULL
		UNION ALL
		SELECT id, NULL, body, created_at, NULL, 'note'
		FROM notes
		WHERE contact_id = $1 AND deleted_at IS NULL
		UNION ALL
		SELECT h.id, NULL, 'Stage moved to ' || ps.name, h.moved_at, NULL, 'deal_stage'
		FROM deal_stage_history h
		JOIN deals d ON d.id = h.deal_id
		JOIN pipeline_stages ps ON ps.id = h.to_stage_id
		WHERE d.contact_id = $1`

	rows, err := r.DB.QueryContext(ctx, query, contactID)
	if err != nil {
		return nil, mapError("contact timeline", err)
	}
	defer rows.Close()

	items := []*entity.TimelineItem{}
	for rows.Next() {
		var it entity.TimelineItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Text, &it.HappenedAt, &it.Status, &it.ItemType); err != nil {
			return nil, mapError("scan timeline item", err)
		}
		items = append(items, &it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("contact timeline", err)
	}

	sortTimeline(items)
	return items, nil
}

func sortTimeline(items []*entity.TimelineItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].HappenedAt, items[j].HappenedAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

func insertContact(ctx context.Context, q querier, c *entity.Contact) (int64, error) {
	query := `
		INSERT INTO contacts (full_name, phone, email, type, budget, interest, status, owner_id, lead_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`

	err := q.QueryRowContext(ctx, query,
		c.FullName,
		c.Phone,
		c.Email,
		c.Type,
		c.Budget,
		c.Interest,
		c.Status,
		c.OwnerID,
		c.LeadID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return 0, mapError("create contact", err)
	}
	return c.ID, nil
}
