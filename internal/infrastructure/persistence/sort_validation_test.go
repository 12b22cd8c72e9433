package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	cases := map[string]string{
		"":                          "DESC",
		"ASC":                       "ASC",
		"asc":                       "ASC",
		"  asc  ":                   "ASC",
		"DESC":                      "DESC",
		"desc":                      "DESC",
		"balance_after":             "DESC",
		"ASC; DROP TABLE expenses":  "DESC",
		"ASC' OR '1'='1":            "DESC",
		"ASC/**/;DROP TABLE funds":  "DESC",
		"ASC\n; DELETE FROM funds":  "DESC",
		"1; EXEC xp_cmdshell('ls')": "DESC",
	}

	for input, want := range cases {
		assert.Equal(t, want, ValidateSortOrder(input), "input %q", input)
	}
}

func TestValidateSortField(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty falls back to default", "", "created_at"},
		{"whitelisted column passes", "current_balance", "current_balance"},
		{"whitespace around column is trimmed", "  reference  ", "reference"},
		{"unknown column falls back", "middle_name", "created_at"},
		{"case sensitive, uppercase rejected", "REFERENCE", "created_at"},
		{"stacked statement rejected", "id; DROP TABLE imprest_funds;--", "created_at"},
		{"boolean injection rejected", "id' OR '1'='1", "created_at"},
		{"union probe rejected", "id UNION SELECT secret FROM users", "created_at"},
		{"subquery rejected", "id, (SELECT password FROM users)", "created_at"},
		{"comment smuggling rejected", "id/**/;DROP TABLE imprest_funds", "created_at"},
		{"embedded newline rejected", "id\n; DELETE FROM expenses", "created_at"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateSortField(tc.input, FundSortFields, "created_at"))
		})
	}

	t.Run("empty default propagates for unknown columns", func(t *testing.T) {
		assert.Equal(t, "", ValidateSortField("nope", FundSortFields, ""))
	})
}

func TestSortFieldWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"funds":    FundSortFields,
		"expenses": ExpenseSortFields,
	}

	for name, whitelist := range whitelists {
		for _, col := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, whitelist[col], "%s whitelist should allow %q", name, col)
		}
		assert.Greater(t, len(whitelist), 3, "%s whitelist should list entity columns too", name)
	}

	assert.True(t, ExpenseSortFields["expense_date"])
	assert.True(t, FundSortFields["current_balance"])
}
