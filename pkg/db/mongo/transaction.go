package mongo

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/ReawEiEi/hotel-booking-server/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// TransactionFunc receives a context bound to the transaction session.
// Repositories detect the session through mongo.SessionContext.
type TransactionFunc func(ctx context.Context) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
}

func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
	}
}

func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	})

	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}

// sequentialManager runs fn directly against ctx. Used when the deployment has no
// replica set: writes inside fn are applied one by one without rollback.
type sequentialManager struct{}

func NewSequentialManager() TransactionManager {
	return sequentialManager{}
}

func (sequentialManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	return fn(ctx)
}

// WithTimeout wraps ctx with timeout unless ctx is bound to a session, in which case
// it is returned unchanged with a no-op cancel; a SessionContext cannot be wrapped
// without losing the transaction.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
