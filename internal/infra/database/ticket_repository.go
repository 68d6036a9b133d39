package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type TicketRepository struct {
	DB *sql.DB
}

func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{DB: db}
}

func (r *TicketRepository) List(ctx context.Context, status string) ([]*entity.Ticket, error) {
	query := `
		SELECT t.id, t.contact_id, t.subject, t.description, t.priority, t.status,
		       t.assignee_id, t.sla_due_at, t.created_by, t.created_at,
		       c.full_name, u.full_name
		FROM tickets t
		LEFT JOIN contacts c ON c.id = t.contact_id
		LEFT JOIN users u ON u.id = t.assignee_id
		WHERE t.deleted_at IS NULL
		  AND ($1 = '' OR t.status = $1)
		ORDER BY t.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, status)
	if err != nil {
		return nil, mapError("list tickets", err)
	}
	defer rows.Close()

	tickets := []*entity.Ticket{}
	for rows.Next() {
		var t entity.Ticket
		if err := rows.Scan(
			&t.ID, &t.ContactID, &t.Subject, &t.Description, &t.Priority, &t.Status,
			&t.AssigneeID, &t.SLADueAt, &t.CreatedBy, &t.CreatedAt,
			&t.ContactName, &t.AssigneeName,
		); err != nil {
			return nil, mapError("scan ticket", err)
		}
		tickets = append(tickets, &t)
	}
	return tickets, mapError("list tickets", rows.Err())
}

func (r *TicketRepository) Create(ctx context.Context, t *entity.Ticket) (int64, error) {
	query := `
		INSERT INTO tickets (contact_id, subject, description, priority, status, assignee_id, sla_due_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		t.ContactID, t.Subject, t.Description, t.Priority, t.Status, t.AssigneeID, t.SLADueAt, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return 0, mapError("create ticket", err)
	}
	return t.ID, nil
}

func (r *TicketRepository) Update(ctx context.Context, id int64, patch entity.TicketPatch) error {
	var b patchBuilder
	setIf(&b, "subject", patch.Subject)
	setIf(&b, "description", patch.Description)
	setIf(&b, "priority", patch.Priority)
	setIf(&b, "status", patch.Status)
	setIf(&b, "assignee_id", patch.AssigneeID)
	setIf(&b, "sla_due_at", patch.SLADueAt)

	query, args, ok := b.build("tickets", id)
	if !ok {
		return nil
	}
	return execAffected(ctx, r.DB, "update ticket", query, args...)
}

// AddComment only accepts comments on live tickets.
func (r *TicketRepository) AddComment(ctx context.Context, c *entity.TicketComment) (int64, error) {
	query := `
		INSERT INTO ticket_comments (ticket_id, user_id, body)
		SELECT t.id, $2, $3 FROM tickets t WHERE t.id = $1 AND t.deleted_at IS NULL
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query, c.TicketID, c.UserID, c.Body).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return 0, mapError("add ticket comment", err)
	}
	return c.ID, nil
}

func (r *TicketRepository) ContactEmail(ctx context.Context, ticketID int64) (*string, error) {
	var email sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT c.email
		FROM tickets t
		LEFT JOIN contacts c ON c.id = t.contact_id AND c.deleted_at IS NULL
		WHERE t.id = $1`, ticketID).Scan(&email)
	if err != nil {
		return nil, mapError("ticket contact email", err)
	}
	if !email.Valid || email.String == "" {
		return nil, nil
	}
	return &email.String, nil
}
