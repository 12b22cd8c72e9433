package ledger

import (
	"fmt"
	"time"
)

// Reference prefixes for each document family
const (
	FundReferencePrefix        = "IMP"
	TransactionReferencePrefix = "ITX"
	ExpenseReferencePrefix     = "EXP"
	CashBookReferencePrefix    = "CSH"
	JournalReferencePrefix     = "TXN"
)

// FormatReference builds a document reference like EXP-202608-00042.
// The sequence is derived from a per-month document count; uniqueness is
// enforced by the database, callers retry with a bumped sequence on
// duplicate-key conflicts.
func FormatReference(prefix string, at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, at.Format("200601"), seq)
}
