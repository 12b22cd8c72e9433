package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC, falling
// back to DESC for anything unrecognized.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a caller-supplied sort column against a
// whitelist. Anything outside the whitelist, including attempts to smuggle
// SQL through the ORDER BY clause, collapses to defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(columns ...string) map[string]bool {
	fields := make(map[string]bool, len(columns))
	for _, col := range columns {
		fields[col] = true
	}
	return fields
}

// ORDER BY whitelists for the two listings that accept caller-controlled
// sorting: the base columns plus each entity's own sortable columns.
// Transaction, cash book, and journal listings always order by their
// date column.
var (
	FundSortFields    = sortFields("id", "created_at", "updated_at", "reference", "account_holder", "initial_amount", "current_balance", "status")
	ExpenseSortFields = sortFields("id", "created_at", "updated_at", "reference", "expense_date", "amount", "status", "payment_method")
)
