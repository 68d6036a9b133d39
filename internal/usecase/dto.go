package usecase

import (
	"github.com/xavierca1/maria-crm/internal/entity"
)

type ConvertLeadInput struct {
	LeadID  int64
	ActorID int64
}

type ConvertLeadOutput struct {
	ContactID int64 `json:"contact_id"`
	DealID    int64 `json:"deal_id"`
}

type MoveDealStageInput struct {
	DealID  int64
	StageID int64
	ActorID int64
}

type CreateDealInput struct {
	Title           string            `json:"title"`
	ContactID       int64             `json:"contact_id"`
	Amount          float64           `json:"amount"`
	Status          entity.DealStatus `json:"status"`
	StageID         *int64            `json:"stage_id"`
	OwnerID         *int64            `json:"owner_id"`
	ExpectedCloseAt *entity.DateTime  `json:"expected_close_at"`
	ActorID         int64             `json:"-"`
}

type CreateDealOutput struct {
	ID      int64 `json:"id"`
	StageID int64 `json:"stage_id"`
}

type UpdateLeadInput struct {
	LeadID int64
	Patch  entity.LeadPatch
}

type ImportContactsInput struct {
	ActorID int64
	Rows    []map[string]string
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportContactsOutput struct {
	Inserted int              `json:"inserted"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

type AddTicketCommentInput struct {
	TicketID int64  `json:"-"`
	ActorID  int64  `json:"-"`
	Body     string `json:"body"`
	Channel  string `json:"channel"`
}

type AddTicketCommentOutput struct {
	ID int64 `json:"id"`
}

type CreateUserInput struct {
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	IsActive *bool   `json:"is_active"`
	RoleIDs  []int64 `json:"role_ids"`
	ActorID  int64   `json:"-"`
}

type CreateUserOutput struct {
	ID int64 `json:"id"`
}

// UpdateUserInput edits an account. An empty password leaves it unchanged.
type UpdateUserInput struct {
	UserID   int64    `json:"-"`
	FullName *string  `json:"full_name"`
	Email    *string  `json:"email"`
	Password *string  `json:"password"`
	IsActive *bool    `json:"is_active"`
	RoleIDs  *[]int64 `json:"role_ids"`
	ActorID  int64    `json:"-"`
}
