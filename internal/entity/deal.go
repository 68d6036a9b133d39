package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

type DealStatus string

const (
	DealStatusOpen DealStatus = "open"
	DealStatusWon  DealStatus = "won"
	DealStatusLost DealStatus = "lost"
)

func (s DealStatus) Valid() bool {
	return s == DealStatusOpen || s == DealStatusWon || s == DealStatusLost
}

const convertedDealTitlePrefix = "Opportunity - "

type Deal struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	ContactID       int64      `json:"contact_id"`
	Amount          float64    `json:"amount"`
	Status          DealStatus `json:"status"`
	StageID         *int64     `json:"stage_id"`
	OwnerID         int64      `json:"owner_id"`
	ExpectedCloseAt *time.Time `json:"expected_close_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	ContactName   *string `json:"contact_name,omitempty"`
	OwnerName     *string `json:"owner_name,omitempty"`
	StageName     *string `json:"stage_name,omitempty"`
	StagePosition *int    `json:"stage_position,omitempty"`
}

// DealFromLead builds the opening opportunity for a freshly converted lead.
func DealFromLead(lead *Lead, contactID, stageID int64) *Deal {
	amount := 0.0
	if lead.Budget != nil {
		amount = *lead.Budget
	}
	return &Deal{
		Title:     convertedDealTitlePrefix + lead.FullName,
		ContactID: contactID,
		Amount:    amount,
		Status:    DealStatusOpen,
		StageID:   &stageID,
		OwnerID:   lead.OwnerID,
	}
}

func (d *Deal) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("title is required")
	}
	if d.ContactID <= 0 {
		return errors.New("contact_id is required")
	}
	if !d.Status.Valid() {
		return errors.New("status is invalid")
	}
	return nil
}

type DealFilter struct {
	PipelineID int64
	Status     string
	ContactID  int64
}

// DealPatch carries the editable deal fields. The stage pointer is not part of
// it: stages move only through MoveDealStage so the history ledger stays in step.
type DealPatch struct {
	Title           *string     `json:"title"`
	ContactID       *int64      `json:"contact_id"`
	Amount          *float64    `json:"amount"`
	Status          *DealStatus `json:"status"`
	OwnerID         *int64      `json:"owner_id"`
	ExpectedCloseAt *DateTime   `json:"expected_close_at"`
}

type DealRepositoryInterface interface {
	List(ctx context.Context, filter DealFilter) ([]*Deal, error)
	Update(ctx context.Context, id int64, patch DealPatch) error
	History(ctx context.Context, dealID int64) ([]*DealStageHistory, error)
}
