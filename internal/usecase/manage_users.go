package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

func BcryptHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func NewCreateUserUseCase(repo entity.UserRepositoryInterface, audit entity.AuditLogRepositoryInterface) *CreateUserUseCase {
	return &CreateUserUseCase{Repo: repo, Audit: audit, Hash: BcryptHash}
}

func NewUpdateUserUseCase(repo entity.UserRepositoryInterface, audit entity.AuditLogRepositoryInterface) *UpdateUserUseCase {
	return &UpdateUserUseCase{Repo: repo, Audit: audit, Hash: BcryptHash}
}

func (f *fieldErrors) password(field, value string) {
	if value == "" {
		return
	}
	if len([]rune(value)) < minPasswordLength {
		f.add(field, "must be at least 8 characters")
	}
	if len(value) > maxPasswordBytes {
		f.add(field, "is too long")
	}
}

func (f *fieldErrors) roleIDs(ids []int64) {
	for _, id := range ids {
		if id <= 0 {
			f.add("role_ids", "must contain role ids")
			return
		}
	}
}

// Execute creates an account. Accounts are active unless is_active is false.
func (uc *CreateUserUseCase) Execute(ctx context.Context, input CreateUserInput) (*CreateUserOutput, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var f fieldErrors
	f.required("full_name", fullName)
	f.required("email", email)
	f.required("password", input.Password)
	if err := f.err(); err != nil {
		return nil, err
	}
	f.maxLength("full_name", fullName, 200)
	f.email("email", &email)
	f.password("password", input.Password)
	f.roleIDs(input.RoleIDs)
	if err := f.err(); err != nil {
		return nil, err
	}

	hash, err := uc.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	id, err := uc.Repo.Create(ctx, &entity.NewUser{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		IsActive:     active,
		RoleIDs:      input.RoleIDs,
	})
	if err != nil {
		return nil, userWriteError(err, 0)
	}

	recordUserAudit(ctx, uc.Audit, input.ActorID, id, "user.created", map[string]any{"email": email, "role_ids": input.RoleIDs})
	log.Printf("👤 [AUDIT] user=%d created by user=%d", id, input.ActorID)
	return &CreateUserOutput{ID: id}, nil
}

func (uc *UpdateUserUseCase) Execute(ctx context.Context, input UpdateUserInput) error {
	patch := entity.UserPatch{IsActive: input.IsActive, RoleIDs: input.RoleIDs}

	var f fieldErrors
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			f.add("full_name", "must not be empty")
		}
		f.maxLength("full_name", name, 200)
		patch.FullName = &name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			f.add("email", "must not be empty")
		}
		f.email("email", &email)
		patch.Email = &email
	}
	if input.Password != nil && *input.Password != "" {
		f.password("password", *input.Password)
	}
	if input.RoleIDs != nil {
		f.roleIDs(*input.RoleIDs)
	}
	if err := f.err(); err != nil {
		return err
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := uc.Hash(*input.Password)
		if err != nil {
			return err
		}
		patch.PasswordHash = &hash
	}
	if patch.Empty() {
		return nil
	}

	if err := uc.Repo.Update(ctx, input.UserID, patch); err != nil {
		return userWriteError(err, input.UserID)
	}

	meta := map[string]any{"password_changed": patch.PasswordHash != nil}
	if patch.RoleIDs != nil {
		meta["role_ids"] = *patch.RoleIDs
	}
	if patch.IsActive != nil {
		meta["is_active"] = *patch.IsActive
	}
	recordUserAudit(ctx, uc.Audit, input.ActorID, input.UserID, "user.updated", meta)
	return nil
}

func userWriteError(err error, userID int64) error {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		return NewNotFoundError("User", userID)
	case errors.Is(err, entity.ErrDuplicate):
		return NewConflictError("email is already in use")
	case errors.Is(err, entity.ErrInvalidReference):
		return NewValidationError(map[string]string{"role_ids": "unknown role"})
	}
	return err
}

func recordUserAudit(ctx context.Context, audit entity.AuditLogRepositoryInterface, actorID, userID int64, action string, meta map[string]any) {
	if audit == nil {
		return
	}
	raw, _ := json.Marshal(meta)
	actor := actorID
	target := userID
	if err := audit.Log(ctx, &entity.AuditLog{
		UserID:     &actor,
		EntityType: "user",
		EntityID:   &target,
		Action:     action,
		Meta:       raw,
	}); err != nil {
		log.Printf("⚠️ [AUDIT] %s not recorded: %v", action, err)
	}
}
