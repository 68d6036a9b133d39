package usecase

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/xavierca1/maria-crm/internal/entity"
)

func NewImportContactsUseCase(repo entity.ContactRepositoryInterface, audit entity.AuditLogRepositoryInterface) *ImportContactsUseCase {
	return &ImportContactsUseCase{Repo: repo, Audit: audit}
}

// ReadContactsCSV maps every data row onto the header row. Header names are
// trimmed and lower-cased; short rows leave the missing columns empty.
func ReadContactsCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(rows)+1, err)
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Execute inserts every valid row and reports the rest by 1-based row number.
// One bad row never aborts the import.
func (uc *ImportContactsUseCase) Execute(ctx context.Context, input ImportContactsInput) (*ImportContactsOutput, error) {
	out := &ImportContactsOutput{Errors: []ImportRowError{}}

	for i, row := range input.Rows {
		contact, err := contactFromRow(row, input.ActorID)
		if err != nil {
			out.Errors = append(out.Errors, ImportRowError{Row: i + 1, Message: err.Error()})
			continue
		}
		if _, err := uc.Repo.Create(ctx, contact); err != nil {
			if errors.Is(err, entity.ErrDuplicate) || errors.Is(err, entity.ErrInvalidReference) {
				out.Errors = append(out.Errors, ImportRowError{Row: i + 1, Message: err.Error()})
				continue
			}
			return nil, fmt.Errorf("importing row %d: %w", i+1, err)
		}
		out.Inserted++
	}
	out.Failed = len(out.Errors)

	if uc.Audit != nil {
		meta, _ := json.Marshal(out)
		actor := input.ActorID
		if err := uc.Audit.Log(ctx, &entity.AuditLog{
			UserID:     &actor,
			EntityType: "import",
			Action:     "contacts.import",
			Meta:       meta,
		}); err != nil {
			log.Printf("⚠️ [AUDIT] contacts.import not recorded: %v", err)
		}
	}

	log.Printf("📥 [IMPORT] contacts inserted=%d failed=%d", out.Inserted, out.Failed)
	return out, nil
}

func contactFromRow(row map[string]string, actorID int64) (*entity.Contact, error) {
	name := strings.TrimSpace(row["full_name"])
	if name == "" {
		name = strings.TrimSpace(row["name"])
	}
	phone := strings.TrimSpace(row["phone"])
	if name == "" || phone == "" {
		return nil, errors.New("full_name and phone are required")
	}

	var email *string
	if e := strings.TrimSpace(row["email"]); e != "" {
		email = &e
	}

	contact, err := entity.NewContact(name, phone, email, row["type"], row["status"], actorID)
	if err != nil {
		return nil, err
	}

	if b := strings.TrimSpace(row["budget"]); b != "" {
		budget, err := strconv.ParseFloat(b, 64)
		if err != nil {
			return nil, errors.New("budget must be a number")
		}
		contact.Budget = &budget
	}
	if interest := strings.TrimSpace(row["interest"]); interest != "" {
		contact.Interest = &interest
	}
	return contact, nil
}
