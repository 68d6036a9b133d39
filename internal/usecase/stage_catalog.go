package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/maria-crm/internal/entity"
)

// ResolveDefaultStage returns the stage new deals start in: the lowest
// position across every pipeline. The lookup is global on purpose; deals are
// not yet associated with a pipeline when they are created.
func ResolveDefaultStage(ctx context.Context, stages entity.StageReader) (*entity.Stage, error) {
	stage, err := stages.LowestPositionStage(ctx)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, NewConfigurationError("pipeline stages are not configured", entity.ErrStagesNotConfigured)
	}
	if err != nil {
		return nil, err
	}
	return stage, nil
}

// StageCatalog exposes the configured stages outside a transaction.
type StageCatalog struct {
	Repo entity.StageRepositoryInterface
}

func NewStageCatalog(repo entity.StageRepositoryInterface) *StageCatalog {
	return &StageCatalog{Repo: repo}
}

func (c *StageCatalog) DefaultStage(ctx context.Context) (*entity.Stage, error) {
	return ResolveDefaultStage(ctx, c.Repo)
}

func (c *StageCatalog) Stages(ctx context.Context) ([]*entity.Stage, error) {
	return c.Repo.ListStages(ctx)
}
