package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/infra/http/middleware"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

var agent = &entity.Actor{ID: 3, FullName: "Nima Rad", Permissions: []string{"leads.read", "leads.write", "deals.write"}}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

// newRequest builds a request as chi would route it: {id} bound and the
// actor already resolved.
func newRequest(method, target string, body any, id string, actor *entity.Actor) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	rctx := chi.NewRouteContext()
	if id != "" {
		rctx.URLParams.Add("id", id)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if actor != nil {
		ctx = middleware.WithActor(ctx, actor)
	}
	return req.WithContext(ctx)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var res response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockLeadConverter
type MockLeadConverter struct {
	mock.Mock
}

func (m *MockLeadConverter) Execute(ctx context.Context, input usecase.ConvertLeadInput) (*usecase.ConvertLeadOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ConvertLeadOutput), args.Error(1)
}

// MockLeadUpdater
type MockLeadUpdater struct {
	mock.Mock
}

func (m *MockLeadUpdater) Execute(ctx context.Context, input usecase.UpdateLeadInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockDealRepository
type MockDealRepository struct {
	mock.Mock
}

func (m *MockDealRepository) List(ctx context.Context, filter entity.DealFilter) ([]*entity.Deal, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Deal), args.Error(1)
}

func (m *MockDealRepository) Update(ctx context.Context, id int64, patch entity.DealPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockDealRepository) History(ctx context.Context, dealID int64) ([]*entity.DealStageHistory, error) {
	args := m.Called(ctx, dealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.DealStageHistory), args.Error(1)
}

// MockStageLister
type MockStageLister struct {
	mock.Mock
}

func (m *MockStageLister) Stages(ctx context.Context) ([]*entity.Stage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Stage), args.Error(1)
}

// MockDealCreator
type MockDealCreator struct {
	mock.Mock
}

func (m *MockDealCreator) Execute(ctx context.Context, input usecase.CreateDealInput) (*usecase.CreateDealOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateDealOutput), args.Error(1)
}

// MockDealStageMover
type MockDealStageMover struct {
	mock.Mock
}

func (m *MockDealStageMover) Execute(ctx context.Context, input usecase.MoveDealStageInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

// MockContactImporter
type MockContactImporter struct {
	mock.Mock
}

func (m *MockContactImporter) Execute(ctx context.Context, input usecase.ImportContactsInput) (*usecase.ImportContactsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ImportContactsOutput), args.Error(1)
}

// MockTicketCommenter
type MockTicketCommenter struct {
	mock.Mock
}

func (m *MockTicketCommenter) Execute(ctx context.Context, input usecase.AddTicketCommentInput) (*usecase.AddTicketCommentOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AddTicketCommentOutput), args.Error(1)
}

// MockActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) List(ctx context.Context, filter entity.ActivityFilter) ([]*entity.Activity, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Activity), args.Error(1)
}

func (m *MockActivityRepository) Create(ctx context.Context, a *entity.Activity) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityRepository) Update(ctx context.Context, id int64, patch entity.ActivityPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockActivityRepository) Complete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockUserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListRoles(ctx context.Context) ([]*entity.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
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

// MockUserCreator
type MockUserCreator struct {
	mock.Mock
}

func (m *MockUserCreator) Execute(ctx context.Context, input usecase.CreateUserInput) (*usecase.CreateUserOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.CreateUserOutput), args.Error(1)
}

// MockUserUpdater
type MockUserUpdater struct {
	mock.Mock
}

func (m *MockUserUpdater) Execute(ctx context.Context, input usecase.UpdateUserInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}
