package ledger

import (
	"testing"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundStatus(t *testing.T) {
	t.Run("IsValid returns true for valid statuses", func(t *testing.T) {
		validStatuses := []FundStatus{
			FundStatusActive,
			FundStatusSuspended,
			FundStatusClosed,
		}

		for _, status := range validStatuses {
			assert.True(t, status.IsValid(), "Expected %s to be valid", status)
		}
	})

	t.Run("IsValid returns false for invalid status", func(t *testing.T) {
		invalid := FundStatus("INVALID")
		assert.False(t, invalid.IsValid())
	})

	t.Run("String returns correct value", func(t *testing.T) {
		assert.Equal(t, "ACTIVE", FundStatusActive.String())
		assert.Equal(t, "CLOSED", FundStatusClosed.String())
	})
}

func TestNewImprestFund(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates fund with balance equal to initial amount", func(t *testing.T) {
		fund, err := NewImprestFund(ownerID, "IMP-202608-00001", "John Mwangi", decimal.NewFromInt(100000), "Site operations")

		require.NoError(t, err)
		assert.Equal(t, "IMP-202608-00001", fund.Reference)
		assert.Equal(t, "John Mwangi", fund.AccountHolder)
		assert.True(t, fund.InitialAmount.Equal(decimal.NewFromInt(100000)))
		assert.True(t, fund.CurrentBalance.Equal(decimal.NewFromInt(100000)))
		assert.Equal(t, FundStatusActive, fund.Status)
		assert.Equal(t, ownerID, fund.OwnerID)
		assert.NotEqual(t, uuid.Nil, fund.ID)
	})

	t.Run("rejects zero initial amount", func(t *testing.T) {
		_, err := NewImprestFund(ownerID, "IMP-202608-00002", "John Mwangi", decimal.Zero, "")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("rejects negative initial amount", func(t *testing.T) {
		_, err := NewImprestFund(ownerID, "IMP-202608-00003", "John Mwangi", decimal.NewFromInt(-500), "")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("rejects empty owner", func(t *testing.T) {
		_, err := NewImprestFund(uuid.Nil, "IMP-202608-00004", "John Mwangi", decimal.NewFromInt(100), "")

		require.Error(t, err)
	})

	t.Run("rejects empty account holder", func(t *testing.T) {
		_, err := NewImprestFund(ownerID, "IMP-202608-00005", "", decimal.NewFromInt(100), "")

		require.Error(t, err)
	})
}

func TestImprestFundApply(t *testing.T) {
	ownerID := uuid.New()

	newFund := func(t *testing.T, amount int64) *ImprestFund {
		fund, err := NewImprestFund(ownerID, "IMP-202608-00001", "Jane Achieng", decimal.NewFromInt(amount), "Petty cash")
		require.NoError(t, err)
		return fund
	}

	t.Run("deposit increases balance", func(t *testing.T) {
		fund := newFund(t, 1000)

		after, err := fund.Apply(TransactionTypeDeposit, decimal.NewFromInt(500))

		require.NoError(t, err)
		assert.True(t, after.Equal(decimal.NewFromInt(1500)))
		assert.True(t, fund.CurrentBalance.Equal(decimal.NewFromInt(1500)))
	})

	t.Run("withdrawal decreases balance", func(t *testing.T) {
		fund := newFund(t, 1000)

		after, err := fund.Apply(TransactionTypeWithdrawal, decimal.NewFromInt(300))

		require.NoError(t, err)
		assert.True(t, after.Equal(decimal.NewFromInt(700)))
	})

	t.Run("debit to exactly zero is allowed", func(t *testing.T) {
		fund := newFund(t, 1000)

		after, err := fund.Apply(TransactionTypeWithdrawal, decimal.NewFromInt(1000))

		require.NoError(t, err)
		assert.True(t, after.IsZero())
	})

	t.Run("debit below zero fails and leaves balance unchanged", func(t *testing.T) {
		fund := newFund(t, 1000)

		_, err := fund.Apply(TransactionTypeExpense, decimal.NewFromFloat(1000.01))

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_FUNDS", domainErr.Code)
		assert.True(t, fund.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("refund increases balance", func(t *testing.T) {
		fund := newFund(t, 1000)

		_, err := fund.Apply(TransactionTypeExpense, decimal.NewFromInt(400))
		require.NoError(t, err)
		after, err := fund.Apply(TransactionTypeRefund, decimal.NewFromInt(400))

		require.NoError(t, err)
		assert.True(t, after.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		fund := newFund(t, 1000)

		_, err := fund.Apply(TransactionTypeDeposit, decimal.Zero)
		require.Error(t, err)

		_, err = fund.Apply(TransactionTypeDeposit, decimal.NewFromInt(-5))
		require.Error(t, err)
	})

	t.Run("rejects movements on suspended fund", func(t *testing.T) {
		fund := newFund(t, 1000)
		require.NoError(t, fund.UpdateDetails(fund.AccountHolder, fund.Purpose, FundStatusSuspended))

		_, err := fund.Apply(TransactionTypeDeposit, decimal.NewFromInt(100))

		require.Error(t, err)
		assert.True(t, fund.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	})
}

func TestImprestFundUpdateDetails(t *testing.T) {
	ownerID := uuid.New()

	t.Run("updates descriptive fields without touching balance", func(t *testing.T) {
		fund, err := NewImprestFund(ownerID, "IMP-202608-00001", "Jane Achieng", decimal.NewFromInt(5000), "Petty cash")
		require.NoError(t, err)

		err = fund.UpdateDetails("Peter Otieno", "Field operations", FundStatusSuspended)

		require.NoError(t, err)
		assert.Equal(t, "Peter Otieno", fund.AccountHolder)
		assert.Equal(t, "Field operations", fund.Purpose)
		assert.Equal(t, FundStatusSuspended, fund.Status)
		assert.True(t, fund.CurrentBalance.Equal(decimal.NewFromInt(5000)))
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		fund, err := NewImprestFund(ownerID, "IMP-202608-00002", "Jane Achieng", decimal.NewFromInt(5000), "")
		require.NoError(t, err)

		err = fund.UpdateDetails("Jane Achieng", "", FundStatus("BOGUS"))

		require.Error(t, err)
	})
}
