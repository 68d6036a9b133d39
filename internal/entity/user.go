package entity

import (
	"context"
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	RoleCodes []string  `json:"role_codes"`
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Actor is the authenticated user of one request. It travels in the request
// context and is never cached across requests.
type Actor struct {
	ID          int64    `json:"id"`
	FullName    string   `json:"full_name"`
	Email       string   `json:"email"`
	Roles       []Role   `json:"roles"`
	Permissions []string `json:"permissions"`
}

func (a *Actor) Can(permission string) bool {
	if a == nil {
		return false
	}
	for _, p := range a.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// NewUser is an account ready to be stored; the password is already hashed.
type NewUser struct {
	FullName     string
	Email        string
	PasswordHash string
	IsActive     bool
	RoleIDs      []int64
}

// UserPatch edits an account. A non-nil RoleIDs replaces every role the user
// holds, so an empty slice removes them all.
type UserPatch struct {
	FullName     *string
	Email        *string
	IsActive     *bool
	PasswordHash *string
	RoleIDs      *[]int64
}

func (p UserPatch) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.IsActive == nil && p.PasswordHash == nil && p.RoleIDs == nil
}

type UserRepositoryInterface interface {
	List(ctx context.Context) ([]*User, error)
	ListRoles(ctx context.Context) ([]*Role, error)
	// Create stores the user and its roles in one transaction.
	Create(ctx context.Context, u *NewUser) (int64, error)
	Update(ctx context.Context, id int64, patch UserPatch) error
	// FindActor loads an active user with roles and permissions.
	FindActor(ctx context.Context, id int64) (*Actor, error)
}
