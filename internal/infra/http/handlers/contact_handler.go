package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

const maxImportSize = 5 << 20

type ContactImporter interface {
	Execute(ctx context.Context, input usecase.ImportContactsInput) (*usecase.ImportContactsOutput, error)
}

type ContactHandler struct {
	ContactRepo entity.ContactRepositoryInterface
	ImportUC    ContactImporter
}

func NewContactHandler(repo entity.ContactRepositoryInterface, importUC ContactImporter) *ContactHandler {
	return &ContactHandler{
		ContactRepo: repo,
		ImportUC:    importUC,
	}
}

type CreateContactRequest struct {
	FullName string   `json:"full_name"`
	Phone    string   `json:"phone"`
	Email    *string  `json:"email"`
	Type     string   `json:"type"`
	Budget   *float64 `json:"budget"`
	Interest *string  `json:"interest"`
	Status   string   `json:"status"`
	OwnerID  *int64   `json:"owner_id"`
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.ContactRepo.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if contacts == nil {
		contacts = []*entity.Contact{}
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Contact")
	if !ok {
		return
	}

	contact, err := h.ContactRepo.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	var req CreateContactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidJSON(w)
		return
	}

	if err := usecase.ValidateContact(req.FullName, req.Phone, req.Email); err != nil {
		writeError(w, r, err)
		return
	}

	owner := actor
	if req.OwnerID != nil && *req.OwnerID > 0 {
		owner = *req.OwnerID
	}

	contact, err := entity.NewContact(req.FullName, req.Phone, req.Email, req.Type, req.Status, owner)
	if err != nil {
		writeError(w, r, entityValidation("contact", err))
		return
	}
	contact.Budget = req.Budget
	contact.Interest = trimmed(req.Interest)

	id, err := h.ContactRepo.Create(r.Context(), contact)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Contact")
	if !ok {
		return
	}

	var patch entity.ContactPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeInvalidJSON(w)
		return
	}

	if err := usecase.ValidateContactPatch(&patch); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.ContactRepo.Update(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *ContactHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "Contact")
	if !ok {
		return
	}

	items, err := h.ContactRepo.Timeline(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []*entity.TimelineItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Import reads a multipart CSV upload under the "file" field.
func (h *ContactHandler) Import(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, usecase.NewValidationError(map[string]string{"file": "Valid CSV file is required"}))
		return
	}
	defer file.Close()

	rows, err := usecase.ReadContactsCSV(file)
	if err != nil {
		writeError(w, r, usecase.NewValidationError(map[string]string{"file": "Valid CSV file is required"}))
		return
	}

	out, err := h.ImportUC.Execute(r.Context(), usecase.ImportContactsInput{ActorID: actor, Rows: rows})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
