package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/maria-crm/internal/entity"
)

// MockPipelineStore
type MockPipelineStore struct {
	mock.Mock
}

func (m *MockPipelineStore) LowestPositionStage(ctx context.Context) (*entity.Stage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stage), args.Error(1)
}

func (m *MockPipelineStore) StageExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPipelineStore) FindLead(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockPipelineStore) UpdateLeadStatus(ctx context.Context, id int64, status entity.LeadStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPipelineStore) CreateContact(ctx context.Context, c *entity.Contact) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPipelineStore) CreateDeal(ctx context.Context, d *entity.Deal) (int64, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPipelineStore) LockDealStage(ctx context.Context, dealID int64) (*int64, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*int64), args.Error(1)
}

func (m *MockPipelineStore) UpdateDealStage(ctx context.Context, dealID, stageID int64) error {
	args := m.Called(ctx, dealID, stageID)
	return args.Error(0)
}

func (m *MockPipelineStore) AppendStageHistory(ctx context.Context, h *entity.DealStageHistory) (int64, error) {
	args := m.Called(ctx, h)
	return args.Get(0).(int64), args.Error(1)
}

// fakeTx runs fn against the mock store and records the outcome the real
// transaction manager would produce.
type fakeTx struct {
	store      entity.PipelineStore
	commitErr  error
	committed  bool
	rolledBack bool
}

func (f *fakeTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context, store entity.PipelineStore) error) error {
	if err := fn(ctx, f.store); err != nil {
		f.rolledBack = true
		return err
	}
	if f.commitErr != nil {
		f.rolledBack = true
		return f.commitErr
	}
	f.committed = true
	return nil
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) (int64, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id int64, patch entity.LeadPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

// MockContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) List(ctx context.Context, search string) ([]*entity.Contact, error) {
	args := m.Called(ctx, search)
	return args.Get(0).([]*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id int64) (*entity.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) Create(ctx context.Context, c *entity.Contact) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContactRepository) Update(ctx context.Context, id int64, patch entity.ContactPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockContactRepository) Timeline(ctx context.Context, contactID int64) ([]*entity.TimelineItem, error) {
	args := m.Called(ctx, contactID)
	return args.Get(0).([]*entity.TimelineItem), args.Error(1)
}

// MockAuditLog
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) Log(ctx context.Context, entry *entity.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockIntegrationLog
type MockIntegrationLog struct {
	mock.Mock
}

func (m *MockIntegrationLog) Log(ctx context.Context, entry *entity.IntegrationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockTicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) List(ctx context.Context, status string) ([]*entity.Ticket, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]*entity.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Create(ctx context.Context, t *entity.Ticket) (int64, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, id int64, patch entity.TicketPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockTicketRepository) AddComment(ctx context.Context, c *entity.TicketComment) (int64, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTicketRepository) ContactEmail(ctx context.Context, ticketID int64) (*string, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// MockOutboundPublisher
type MockOutboundPublisher struct {
	mock.Mock
}

func (m *MockOutboundPublisher) PublishOutbound(ctx context.Context, msg entity.OutboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func ptr[T any](v T) *T { return &v }

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*entity.Role), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *entity.NewUser) (int64, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id int64, patch entity.UserPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockUserRepository) FindActor(ctx context.Context, id int64) (*entity.Actor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Actor), args.Error(1)
}
