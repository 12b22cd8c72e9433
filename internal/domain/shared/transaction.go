package shared

import "context"

// TransactionManager executes a function within a single database transaction.
// Repository calls made with the context passed to fn join that transaction;
// if fn returns an error the whole unit of work is rolled back.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
