package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

type Lead struct {
	ID        int64      `json:"id"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email,omitempty"`
	Source    string     `json:"source"`
	Status    LeadStatus `json:"status"`
	Budget    *float64   `json:"budget,omitempty"`
	Interest  *string    `json:"interest,omitempty"`
	OwnerID   int64      `json:"owner_id"`
	OwnerName *string    `json:"owner_name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewLead applies the defaults used for manual entry. ownerID falls back to
// the actor when the payload does not name an owner.
func NewLead(fullName, phone string, email *string, source string, status LeadStatus, actorID int64) (*Lead, error) {
	lead := &Lead{
		FullName: strings.TrimSpace(fullName),
		Phone:    strings.TrimSpace(phone),
		Email:    normalizeEmail(email),
		Source:   strings.TrimSpace(source),
		Status:   status,
		OwnerID:  actorID,
	}
	if lead.Source == "" {
		lead.Source = "manual"
	}
	if lead.Status == "" {
		lead.Status = LeadStatusNew
	}
	if err := lead.Validate(); err != nil {
		return nil, err
	}
	return lead, nil
}

func (l *Lead) Validate() error {
	if l.FullName == "" {
		return errors.New("full_name is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	if !l.Status.Valid() {
		return errors.New("status is invalid")
	}
	if l.Status == LeadStatusConverted {
		return errors.New("status converted is reserved for lead conversion")
	}
	return nil
}

type LeadFilter struct {
	Search string
	Status string
}

type LeadPatch struct {
	FullName *string     `json:"full_name"`
	Phone    *string     `json:"phone"`
	Email    *string     `json:"email"`
	Source   *string     `json:"source"`
	Status   *LeadStatus `json:"status"`
	Budget   *float64    `json:"budget"`
	Interest *string     `json:"interest"`
	OwnerID  *int64      `json:"owner_id"`

	// ExpectedStatus makes the write conditional on the status the caller read.
	// A repository reports ErrNotFound when the row no longer has it.
	ExpectedStatus *LeadStatus `json:"-"`
}

func (p LeadPatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.Email == nil && p.Source == nil &&
		p.Status == nil && p.Budget == nil && p.Interest == nil && p.OwnerID == nil
}

type LeadRepositoryInterface interface {
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	FindByID(ctx context.Context, id int64) (*Lead, error)
	Create(ctx context.Context, lead *Lead) (int64, error)
	Update(ctx context.Context, id int64, patch LeadPatch) error
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
