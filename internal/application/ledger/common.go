package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/gescom/backend/internal/domain/shared"
)

// maxReferenceAttempts bounds how many times a unit of work is retried
// when the generated document reference collides with an existing one.
const maxReferenceAttempts = 5

// Ledger account names used when journaling money movements
const (
	accountCash     = "CASH"
	accountExpenses = "EXPENSES"
	accountIncome   = "INCOME"
)

// retryOnDuplicateReference runs the unit of work, bumping the reference
// sequence on each duplicate-key conflict. Postgres aborts the enclosing
// transaction after a constraint violation, so the whole unit of work is
// re-executed rather than just the insert.
func retryOnDuplicateReference(run func(attempt int64) error) error {
	var err error
	for attempt := int64(0); attempt < maxReferenceAttempts; attempt++ {
		err = run(attempt)
		if !errors.Is(err, shared.ErrDuplicateReference) {
			return err
		}
	}
	return err
}

// publishEvents drains the pending domain events of the aggregates and
// hands them to the publisher. Delivery is in-process and best effort;
// the ledger state is already committed when this runs.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, aggregates ...shared.AggregateRoot) {
	if publisher == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = publisher.Publish(ctx, events...)
		agg.ClearDomainEvents()
	}
}

// parseDateFilter parses an optional YYYY-MM-DD query parameter
func parseDateFilter(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Date must be in YYYY-MM-DD format")
	}
	return &parsed, nil
}
