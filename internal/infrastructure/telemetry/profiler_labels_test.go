package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithProfilingLabels_RunsFunction(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), map[string]string{
		ProfilingLabelController: "funds",
		ProfilingLabelMethod:     "POST",
	}, func(ctx context.Context) {
		called = true
		assert.NotNil(t, ctx)
	})
	require.True(t, called)
}

func TestWithProfilingLabels_EmptyLabels(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), nil, func(ctx context.Context) {
		called = true
	})
	require.True(t, called)
}

func TestWithProfilingLabels_AllLabelsFiltered(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), map[string]string{
		"request_id": "req-123",
		"trace_id":   "abc",
	}, func(ctx context.Context) {
		called = true
	})
	require.True(t, called, "function must run even when every label is dropped")
}

func TestSanitizeLabels(t *testing.T) {
	t.Run("drops high-cardinality keys", func(t *testing.T) {
		pairs := sanitizeLabels(map[string]string{
			"request_id":          "req-123",
			"user_id":             "u-1",
			ProfilingLabelOwnerID: "owner-1",
			ProfilingLabelRoute:   "/ledger/funds/:id",
		})
		assert.Equal(t, []string{"owner_id", "owner-1", "route", "/ledger/funds/:id"}, pairs)
	})

	t.Run("drops empty keys and values", func(t *testing.T) {
		pairs := sanitizeLabels(map[string]string{
			"":       "value",
			"method": "",
		})
		assert.Empty(t, pairs)
	})

	t.Run("truncates long values", func(t *testing.T) {
		long := strings.Repeat("x", maxLabelValueLength+50)
		pairs := sanitizeLabels(map[string]string{"route": long})
		require.Len(t, pairs, 2)
		assert.Len(t, pairs[1], maxLabelValueLength)
	})

	t.Run("deterministic ordering", func(t *testing.T) {
		labels := map[string]string{
			"method":     "GET",
			"controller": "expenses",
			"route":      "/ledger/expenses",
		}
		first := sanitizeLabels(labels)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, sanitizeLabels(labels))
		}
	})
}

func TestSanitizeLabelKey(t *testing.T) {
	assert.Equal(t, "owner_id", sanitizeLabelKey("Owner-ID"))
	assert.Equal(t, "cash_book", sanitizeLabelKey("cash book"))
	assert.Equal(t, "route2", sanitizeLabelKey("Route2!"))
	assert.Equal(t, "", sanitizeLabelKey("!!!"))
}
