package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.full_name, u.email, u.is_active, u.created_at,
		       COALESCE(string_agg(DISTINCT r.code, ','), '')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles r ON r.id = ur.role_id
		WHERE u.deleted_at IS NULL
		GROUP BY u.id
		ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	users := []*entity.User{}
	for rows.Next() {
		var u entity.User
		var codes string
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email, &u.IsActive, &u.CreatedAt, &codes); err != nil {
			return nil, mapError("scan user", err)
		}
		u.RoleCodes = splitCodes(codes)
		users = append(users, &u)
	}
	return users, mapError("list users", rows.Err())
}

func (r *UserRepository) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, code FROM roles ORDER BY id`)
	if err != nil {
		return nil, mapError("list roles", err)
	}
	defer rows.Close()

	roles := []*entity.Role{}
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Code); err != nil {
			return nil, mapError("scan role", err)
		}
		roles = append(roles, &role)
	}
	return roles, mapError("list roles", rows.Err())
}

func (r *UserRepository) Create(ctx context.Context, u *entity.NewUser) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer rollback(tx)

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (full_name, email, password_hash, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		u.FullName, u.Email, u.PasswordHash, u.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, mapError("create user", err)
	}

	if err := replaceUserRoles(ctx, tx, id, u.RoleIDs); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return id, nil
}

// Update applies the patch and, when RoleIDs is set, swaps the role set in the
// same transaction.
func (r *UserRepository) Update(ctx context.Context, id int64, patch entity.UserPatch) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer rollback(tx)

	var b patchBuilder
	setIf(&b, "full_name", patch.FullName)
	setIf(&b, "email", patch.Email)
	setIf(&b, "is_active", patch.IsActive)
	setIf(&b, "password_hash", patch.PasswordHash)

	if query, args, ok := b.build("users", id); ok {
		if err := execAffected(ctx, tx, "update user", query, args...); err != nil {
			return err
		}
	} else {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND deleted_at IS NULL)`, id,
		).Scan(&exists)
		if err != nil {
			return mapError("find user", err)
		}
		if !exists {
			return entity.ErrNotFound
		}
	}

	if patch.RoleIDs != nil {
		if err := replaceUserRoles(ctx, tx, id, *patch.RoleIDs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func replaceUserRoles(ctx context.Context, q querier, userID int64, roleIDs []int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return mapError("clear user roles", err)
	}
	for _, roleID := range roleIDs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, userID, roleID)
		if err != nil {
			return mapError("assign user role", err)
		}
	}
	return nil
}

// rollback is deferred after BeginTx; it is a no-op once the tx committed.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Printf("⚠️ [DB] rollback failed: %v", err)
	}
}

// FindActor returns ErrNotFound for unknown, inactive or deleted users.
func (r *UserRepository) FindActor(ctx context.Context, id int64) (*entity.Actor, error) {
	var actor entity.Actor
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, full_name, email
		FROM users
		WHERE id = $1 AND is_active AND deleted_at IS NULL`, id,
	).Scan(&actor.ID, &actor.FullName, &actor.Email)
	if err != nil {
		return nil, mapError("find actor", err)
	}

	roleRows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.name, r.code
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.id`, id)
	if err != nil {
		return nil, mapError("actor roles", err)
	}
	defer roleRows.Close()

	actor.Roles = []entity.Role{}
	for roleRows.Next() {
		var role entity.Role
		if err := roleRows.Scan(&role.ID, &role.Name, &role.Code); err != nil {
			return nil, mapError("scan actor role", err)
		}
		actor.Roles = append(actor.Roles, role)
	}
	if err := roleRows.Err(); err != nil {
		return nil, mapError("actor roles", err)
	}

	permRows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT p.code
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
		ORDER BY p.code`, id)
	if err != nil {
		return nil, mapError("actor permissions", err)
	}
	defer permRows.Close()

	actor.Permissions = []string{}
	for permRows.Next() {
		var code string
		if err := permRows.Scan(&code); err != nil {
			return nil, mapError("scan actor permission", err)
		}
		actor.Permissions = append(actor.Permissions, code)
	}
	return &actor, mapError("actor permissions", permRows.Err())
}

func splitCodes(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
