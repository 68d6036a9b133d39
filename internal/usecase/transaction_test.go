package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/maria-crm/internal/entity"
	"github.com/xavierca1/maria-crm/internal/usecase"
)

func TestTransactionRunsStepsInOrder(t *testing.T) {
	tx := &fakeTx{store: new(MockPipelineStore)}
	var order []string

	txn := usecase.NewTransaction()
	for _, name := range []string{"a", "b", "c"} {
		name := name
		txn.AddOperation(name, func(ctx context.Context, store entity.PipelineStore) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, txn.Execute(context.Background(), tx))
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.True(t, tx.committed)
}

func TestTransactionStopsAtFirstFailure(t *testing.T) {
	tx := &fakeTx{store: new(MockPipelineStore)}
	boom := errors.New("boom")
	ran := false

	txn := usecase.NewTransaction()
	txn.AddOperation("first", func(ctx context.Context, store entity.PipelineStore) error { return boom })
	txn.AddOperation("second", func(ctx context.Context, store entity.PipelineStore) error {
		ran = true
		return nil
	})

	err := txn.Execute(context.Background(), tx)

	var txErr *usecase.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.Equal(t, "first", txErr.Step)
	assert.Equal(t, "operation 'first' failed: boom", err.Error())
	assert.False(t, ran)
	assert.True(t, tx.rolledBack)
}

func TestTransactionPassesDomainErrorsThrough(t *testing.T) {
	tx := &fakeTx{store: new(MockPipelineStore)}
	notFound := usecase.NewNotFoundError("Lead", 1)

	txn := usecase.NewTransaction()
	txn.AddOperation("fetch", func(ctx context.Context, store entity.PipelineStore) error {
		return fmt.Errorf("fetching: %w", notFound)
	})

	err := txn.Execute(context.Background(), tx)

	assert.ErrorIs(t, err, notFound)
	assert.False(t, errors.As(err, new(*usecase.TransactionError)))
}

func TestDomainAndTechnicalErrorHelpers(t *testing.T) {
	notFound := usecase.NewNotFoundError("Deal", 4)
	wrapped := fmt.Errorf("handler: %w", notFound)

	de, ok := usecase.AsDomainError(wrapped)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeNotFound, de.Code)
	assert.False(t, usecase.IsTechnicalError(wrapped))

	cfg := usecase.NewConfigurationError("pipeline stages are not configured", entity.ErrStagesNotConfigured)
	te, ok := usecase.AsTechnicalError(cfg)
	require.True(t, ok)
	assert.Equal(t, usecase.CodeConfiguration, te.Code)
	assert.False(t, usecase.IsDomainError(cfg))
	assert.ErrorIs(t, cfg, entity.ErrStagesNotConfigured)
}
