package database

import (
	"context"
	"database/sql"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type StageRepository struct {
	DB *sql.DB
}

func NewStageRepository(db *sql.DB) *StageRepository {
	return &StageRepository{DB: db}
}

func (r *StageRepository) LowestPositionStage(ctx context.Context) (*entity.Stage, error) {
	return lowestPositionStage(ctx, r.DB)
}

func (r *StageRepository) StageExists(ctx context.Context, id int64) (bool, error) {
	return stageExists(ctx, r.DB, id)
}

func (r *StageRepository) ListStages(ctx context.Context) ([]*entity.Stage, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, pipeline_id, name, position
		FROM pipeline_stages
		ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, mapError("list stages", err)
	}
	defer rows.Close()

	stages := []*entity.Stage{}
	for rows.Next() {
		var s entity.Stage
		if err := rows.Scan(&s.ID, &s.PipelineID, &s.Name, &s.Position); err != nil {
			return nil, mapError("scan stage", err)
		}
		stages = append(stages, &s)
	}
	return stages, mapError("list stages", rows.Err())
}

// lowestPositionStage is global across pipelines; ties go to the oldest stage.
func lowestPositionStage(ctx context.Context, q querier) (*entity.Stage, error) {
	var s entity.Stage
	err := q.QueryRowContext(ctx, `
		SELECT id, pipeline_id, name, position
		FROM pipeline_stages
		ORDER BY position ASC, id ASC
		LIMIT 1`).Scan(&s.ID, &s.PipelineID, &s.Name, &s.Position)
	if err != nil {
		return nil, mapError("default stage", err)
	}
	return &s, nil
}

func stageExists(ctx context.Context, q querier, id int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pipeline_stages WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, mapError("stage exists", err)
	}
	return exists, nil
}
