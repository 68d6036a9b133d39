package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/xavierca1/maria-crm/internal/entity"
)

// TxManager opens one *sql.Tx per workflow run and hands the workflow a
// PipelineStore bound to it.
type TxManager struct {
	DB *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{DB: db}
}

func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store entity.PipelineStore) error) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, &pipelineStore{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("⚠️ [DB] rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type pipelineStore struct {
	q querier
}

func (s *pipelineStore) LowestPositionStage(ctx context.Context) (*entity.Stage, error) {
	return lowestPositionStage(ctx, s.q)
}

func (s *pipelineStore) StageExists(ctx context.Context, id int64) (bool, error) {
	return stageExists(ctx, s.q, id)
}

func (s *pipelineStore) FindLead(ctx context.Context, id int64) (*entity.Lead, error) {
	return findLead(ctx, s.q, id, true)
}

func (s *pipelineStore) UpdateLeadStatus(ctx context.Context, id int64, status entity.LeadStatus) error {
	return execAffected(ctx, s.q, "update lead status",
		`UPDATE leads SET status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		status, id)
}

func (s *pipelineStore) CreateContact(ctx context.Context, c *entity.Contact) (int64, error) {
	return insertContact(ctx, s.q, c)
}

func (s *pipelineStore) CreateDeal(ctx context.Context, d *entity.Deal) (int64, error) {
	return insertDeal(ctx, s.q, d)
}

func (s *pipelineStore) LockDealStage(ctx context.Context, dealID int64) (*int64, error) {
	var stageID sql.NullInt64
	err := s.q.QueryRowContext(ctx,
		`SELECT stage_id FROM deals WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, dealID,
	).Scan(&stageID)
	if err != nil {
		return nil, mapError("lock deal", err)
	}
	if !stageID.Valid {
		return nil, nil
	}
	return &stageID.Int64, nil
}

func (s *pipelineStore) UpdateDealStage(ctx context.Context, dealID, stageID int64) error {
	return execAffected(ctx, s.q, "update deal stage",
		`UPDATE deals SET stage_id = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		stageID, dealID)
}

func (s *pipelineStore) AppendStageHistory(ctx context.Context, h *entity.DealStageHistory) (int64, error) {
	return insertStageHistory(ctx, s.q, h)
}
