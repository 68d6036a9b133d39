package usecase

import (
	"time"

	"github.com/xavierca1/maria-crm/internal/entity"
)

// Clock stamps ledger rows. Tests pin it; production uses time.Now in UTC.
type Clock func() time.Time

func utcNow() time.Time { return time.Now().UTC() }

func (c Clock) now() time.Time {
	if c == nil {
		return utcNow()
	}
	return c()
}

type ConvertLeadUseCase struct {
	Tx  entity.TxManager
	Now Clock
}

type MoveDealStageUseCase struct {
	Tx  entity.TxManager
	Now Clock
}

type CreateDealUseCase struct {
	Tx  entity.TxManager
	Now Clock
}

type UpdateLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
}

type ImportContactsUseCase struct {
	Repo  entity.ContactRepositoryInterface
	Audit entity.AuditLogRepositoryInterface
}

// AddTicketCommentUseCase stores a reply and, when a channel is named, hands it
// to the outbound queue. Publisher is nil when messaging is disabled.
type AddTicketCommentUseCase struct {
	Repo         entity.TicketRepositoryInterface
	Integrations entity.IntegrationLogRepositoryInterface
	Publisher    entity.OutboundPublisher
}

// PasswordHasher turns a plain password into the stored hash.
type PasswordHasher func(password string) (string, error)

type CreateUserUseCase struct {
	Repo  entity.UserRepositoryInterface
	Audit entity.AuditLogRepositoryInterface
	Hash  PasswordHasher
}

type UpdateUserUseCase struct {
	Repo  entity.UserRepositoryInterface
	Audit entity.AuditLogRepositoryInterface
	Hash  PasswordHasher
}
