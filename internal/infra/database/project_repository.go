package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type ProjectRepository struct {
	DB *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) List(ctx context.Context, search string) ([]*entity.Project, error) {
	query := `
		SELECT id, name, location, type, total_units, available_units, progress, base_price, status, created_at
		FROM projects
		WHERE deleted_at IS NULL
		  AND ($1 = '' OR name ILIKE $2 OR location ILIKE $2)
		ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, search, likePattern(search))
	if err != nil {
		return nil, mapError("list projects", err)
	}
	defer rows.Close()

	projects := []*entity.Project{}
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Location, &p.Type, &p.TotalUnits, &p.AvailableUnits,
			&p.Progress, &p.BasePrice, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, mapError("scan project", err)
		}
		projects = append(projects, &p)
	}
	return projects, mapError("list projects", rows.Err())
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) (int64, error) {
	query := `
		INSERT INTO projects (name, location, type, total_units, available_units, progress, base_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(ctx, query,
		p.Name, p.Location, p.Type, p.TotalUnits, p.AvailableUnits, p.Progress, p.BasePrice, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return 0, mapError("create project", err)
	}
	return p.ID, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id int64, patch entity.ProjectPatch) error {
	var b patchBuilder
	setIf(&b, "name", patch.Name)
	setIf(&b, "location", patch.Location)
	setIf(&b, "type", patch.Type)
	setIf(&b, "total_units", patch.TotalUnits)
	setIf(&b, "available_units", patch.AvailableUnits)
	setIf(&b, "progress", patch.Progress)
	setIf(&b, "base_price", patch.BasePrice)
	setIf(&b, "status", patch.Status)

	query, args, ok := b.build("projects", id)
	if !ok {
		return nil
	}
	return execAffected(ctx, r.DB, "update project", query, args...)
}
