package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	ContactTypeBuyer         = "buyer"
	ContactTypeLeadConverted = "lead_converted"

	ContactStatusActive = "active"
)

// Entidade: Contact
type Contact struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email,omitempty"`
	Type      string    `json:"type"`
	Budget    *float64  `json:"budget,omitempty"`
	Interest  *string   `json:"interest,omitempty"`
	Status    string    `json:"status"`
	OwnerID   int64     `json:"owner_id"`
	LeadID    *int64    `json:"lead_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Read-side joins
	Agent         *string `json:"agent,omitempty"`
	DealID        *int64  `json:"deal_id,omitempty"`
	PipelineStage *string `json:"pipeline_stage,omitempty"`
	StagePosition *int    `json:"pipeline_position,omitempty"`
}

// Factory
func NewContact(fullName, phone string, email *string, contactType, status string, ownerID int64) (*Contact, error) {
	contact := &Contact{
		FullName: strings.TrimSpace(fullName),
		Phone:    strings.TrimSpace(phone),
		Email:    normalizeEmail(email),
		Type:     strings.TrimSpace(contactType),
		Status:   strings.TrimSpace(status),
		OwnerID:  ownerID,
	}
	if contact.Type == "" {
		contact.Type = ContactTypeBuyer
	}
	if contact.Status == "" {
		contact.Status = ContactStatusActive
	}

	if err := contact.Validate(); err != nil {
		return nil, err
	}
	return contact, nil
}

// ContactFromLead copies the lead's identity and commercial fields into a
// contact linked back to its origin.
func ContactFromLead(lead *Lead) *Contact {
	leadID := lead.ID
	return &Contact{
		FullName: lead.FullName,
		Phone:    lead.Phone,
		Email:    lead.Email,
		Type:     ContactTypeLeadConverted,
		Budget:   lead.Budget,
		Interest: lead.Interest,
		Status:   ContactStatusActive,
		OwnerID:  lead.OwnerID,
		LeadID:   &leadID,
	}
}

func (c *Contact) Validate() error {
	if c.FullName == "" {
		return errors.New("full_name is required")
	}
	if c.Phone == "" {
		return errors.New("phone is required")
	}
	return nil
}

type ContactPatch struct {
	FullName *string  `json:"full_name"`
	Phone    *string  `json:"phone"`
	Email    *string  `json:"email"`
	Type     *string  `json:"type"`
	Budget   *float64 `json:"budget"`
	Interest *string  `json:"interest"`
	Status   *string  `json:"status"`
	OwnerID  *int64   `json:"owner_id"`
}

type ContactRepositoryInterface interface {
	List(ctx context.Context, search string) ([]*Contact, error)
	FindByID(ctx context.Context, id int64) (*Contact, error)
	Create(ctx context.Context, c *Contact) (int64, error)
	Update(ctx context.Context, id int64, patch ContactPatch) error
	Timeline(ctx context.Context, contactID int64) ([]*TimelineItem, error)
}

// TimelineItem is one entry of a contact's merged activity feed.
type TimelineItem struct {
	ID         int64      `json:"id"`
	Title      *string    `json:"title,omitempty"`
	Text       *string    `json:"text"`
	HappenedAt *time.Time `json:"happened_at"`
	Status     *string    `json:"status,omitempty"`
	ItemType   string     `json:"item_type"`
}
