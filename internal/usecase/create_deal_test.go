package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

func newCreateDeal(store *MockPipelineStore) (*usecase.CreateDealUseCase, *fakeTx) {
	tx := &fakeTx{store: store}
	uc := usecase.NewCreateDealUseCase(tx)
	uc.Now = func() time.Time { return fixedNow }
	return uc, tx
}

func TestCreateDealUsesDefaultStage(t *testing.T) {
	store := new(MockPipelineStore)
	uc, tx := newCreateDeal(store)

	store.On("LowestPositionStage", mock.Anything).Return(&entity.Stage{ID: 10}, nil)
	store.On("CreateDeal", mock.Anything, mock.MatchedBy(func(d *entity.Deal) bool {
		return d.Title == "Villa sale" && *d.StageID == 10 && d.Status == entity.DealStatusOpen && d.OwnerID == 5
	})).Return(int64(20), nil)
	store.On("AppendStageHistory", mock.Anything, mock.MatchedBy(func(h *entity.DealStageHistory) bool {
		return h.DealID == 20 && h.FromStageID == nil && h.ToStageID == 10 && h.MovedBy == 5
	})).Return(int64(1), nil)

	out, err := uc.Execute(context.Background(), usecase.CreateDealInput{Title: " Villa sale ", ContactID: 11, ActorID: 5})

	require.NoError(t, err)
	assert.Equal(t, int64(20), out.ID)
	assert.Equal(t, int64(10), out.StageID)
	assert.True(t, tx.committed)
	store.AssertExpectations(t)
}

func TestCreateDealWithExplicitStage(t *testing.T) {
	store := new(MockPipelineStore)
	uc, _ := newCreateDeal(store)

	store.On("StageExists", mock.Anything, int64(13)).Return(true, nil)
	store.On("CreateDeal", mock.Anything, mock.Anything).Return(int64(21), nil)
	store.On("AppendStageHistory", mock.Anything, mock.Anything).Return(int64(1), nil)

	out, err := uc.Execute(context.Background(), usecase.CreateDealInput{
		Title: "Office lease", ContactID: 11, StageID: ptr(int64(13)), OwnerID: ptr(int64(8)), ActorID: 5,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(13), out.StageID)
	store.AssertNotCalled(t, "LowestPositionStage", mock.Anything)
}

func TestCreateDealMissingFields(t *testing.T) {
	store := new(MockPipelineStore)
	uc, _ := newCreateDeal(store)

	_, err := uc.Execute(context.Background(), usecase.CreateDealInput{ActorID: 5})

	var validationErr *usecase.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"title", "contact_id"}, validationErr.Details["missing"])
}

func TestCreateDealWithoutStagesIsConfigurationError(t *testing.T) {
	store := new(MockPipelineStore)
	uc, tx := newCreateDeal(store)

	store.On("LowestPositionStage", mock.Anything).Return(nil, entity.ErrNotFound)

	_, err := uc.Execute(context.Background(), usecase.CreateDealInput{Title: "X", ContactID: 11, ActorID: 5})

	var cfgErr *usecase.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.True(t, tx.rolledBack)
	store.AssertNotCalled(t, "CreateDeal", mock.Anything, mock.Anything)
}

func TestCreateDealUnknownContact(t *testing.T) {
	store := new(MockPipelineStore)
	uc, _ := newCreateDeal(store)

	store.On("LowestPositionStage", mock.Anything).Return(&entity.Stage{ID: 10}, nil)
	store.On("CreateDeal", mock.Anything, mock.Anything).Return(int64(0), entity.ErrInvalidReference)

	_, err := uc.Execute(context.Background(), usecase.CreateDealInput{Title: "X", ContactID: 404, ActorID: 5})

	var validationErr *usecase.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "unknown contact", validationErr.Details["contact_id"])
}
