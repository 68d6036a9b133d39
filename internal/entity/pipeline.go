package entity

import (
	"context"
	"time"
)

type Pipeline struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Stage is one ordered step of a pipeline. Positions are unique per pipeline.
type Stage struct {
	ID         int64  `json:"id"`
	PipelineID int64  `json:"pipeline_id"`
	Name       string `json:"name"`
	Position   int    `json:"position"`
}

// DealStageHistory is an append-only ledger row. FromStageID is nil for the
// initial placement of a deal.
type DealStageHistory struct {
	ID          int64     `json:"id"`
	DealID      int64     `json:"deal_id"`
	FromStageID *int64    `json:"from_stage_id"`
	ToStageID   int64     `json:"to_stage_id"`
	MovedBy     int64     `json:"moved_by"`
	MovedAt     time.Time `json:"moved_at"`
}

type StageReader interface {
	// LowestPositionStage returns ErrNotFound when no stage exists.
	LowestPositionStage(ctx context.Context) (*Stage, error)
	StageExists(ctx context.Context, id int64) (bool, error)
}

type StageRepositoryInterface interface {
	StageReader
	ListStages(ctx context.Context) ([]*Stage, error)
}

// PipelineStore is the set of writes and reads the conversion and stage
// transition workflows run inside one transaction.
type PipelineStore interface {
	StageReader

	FindLead(ctx context.Context, id int64) (*Lead, error)
	UpdateLeadStatus(ctx context.Context, id int64, status LeadStatus) error

	CreateContact(ctx context.Context, c *Contact) (int64, error)

	CreateDeal(ctx context.Context, d *Deal) (int64, error)
	// LockDealStage reads the current stage pointer and locks the deal row
	// until the transaction ends. Returns ErrNotFound for missing or deleted deals.
	LockDealStage(ctx context.Context, dealID int64) (*int64, error)
	UpdateDealStage(ctx context.Context, dealID, stageID int64) error

	AppendStageHistory(ctx context.Context, h *DealStageHistory) (int64, error)
}

// TxManager runs fn inside a database transaction. It commits when fn returns
// nil and rolls back otherwise, returning fn's error.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context, store PipelineStore) error) error
}
