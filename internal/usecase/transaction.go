package usecase

import (
	"context"
	"errors"

	"github.com/xavierca1/maria-crm/internal/entity"
)

// Transaction is an ordered list of named steps executed inside a single
// database transaction. The first failing step aborts the sequence and the
// database rolls every earlier step back.
type Transaction struct {
	operations []Operation
}

type Operation struct {
	Name string
	Fn   func(ctx context.Context, store entity.PipelineStore) error
}

func NewTransaction() *Transaction {
	return &Transaction{operations: []Operation{}}
}

func (t *Transaction) AddOperation(name string, fn func(ctx context.Context, store entity.PipelineStore) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

// Execute runs the steps in order. Domain and configuration errors come back
// as they were raised; anything else is reported as a TransactionError naming
// the failing step.
func (t *Transaction) Execute(ctx context.Context, tm entity.TxManager) error {
	failedStep := "commit"

	err := tm.WithinTransaction(ctx, func(ctx context.Context, store entity.PipelineStore) error {
		for _, op := range t.operations {
			if err := op.Fn(ctx, store); err != nil {
				failedStep = op.Name
				return err
			}
		}
		return nil
	})
	if err == nil {
		return nil
	}

	if IsDomainError(err) {
		return err
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return err
	}
	var txErr *TransactionError
	if errors.As(err, &txErr) {
		return err
	}
	return NewTransactionError(failedStep, err)
}
