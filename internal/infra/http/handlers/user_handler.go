package handlers

import (
	"context"
	"net/http"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

type UserCreator interface {
	Execute(ctx context.Context, input usecase.CreateUserInput) (*usecase.CreateUserOutput, error)
}

type UserUpdater interface {
	Execute(ctx context.Context, input usecase.UpdateUserInput) error
}

type UserHandler struct {
	UserRepo entity.UserRepositoryInterface
	CreateUC UserCreator
	UpdateUC UserUpdater
}

func NewUserHandler(repo entity.UserRepositoryInterface, createUC UserCreator, updateUC UserUpdater) *UserHandler {
	return &UserHandler{UserRepo: repo, CreateUC: createUC, UpdateUC: updateUC}
}

type userDirectory struct {
	Users []*entity.User `json:"users"`
	Roles []*entity.Role `json:"roles"`
}

// Me echoes the actor resolved by the identity middleware.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	writeJSON(w, http.StatusOK, actor)
}

// List returns the users together with the assignable roles.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserRepo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	roles, err := h.UserRepo.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	dir := userDirectory{Users: users, Roles: roles}
	if dir.Users == nil {
		dir.Users = []*entity.User{}
	}
	if dir.Roles == nil {
		dir.Roles = []*entity.Role{}
	}
	writeJSON(w, http.StatusOK, dir)
}

func (h *UserHandler) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.UserRepo.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if roles == nil {
		roles = []*entity.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var input usecase.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeInvalidJSON(w)
		return
	}
	input.ActorID = actor

	out, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "User")
	if !ok {
		return
	}
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var input usecase.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeInvalidJSON(w)
		return
	}
	input.UserID = id
	input.ActorID = actor

	if err := h.UpdateUC.Execute(r.Context(), input); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}
