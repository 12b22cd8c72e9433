package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockTransactionRepository creates a GormTransactionRepository with a mocked SQL connection
func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func transactionRows(txID, ownerID, imprestID uuid.UUID, txType string, amount, balanceAfter int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "owner_id", "imprest_id",
		"reference", "type", "amount", "description", "balance_after",
		"expense_id", "receipt_url", "transaction_date",
	}).AddRow(
		txID, time.Now(), time.Now(), ownerID, imprestID,
		"ITX-202608-0001", txType, decimal.NewFromInt(amount), "Top up", decimal.NewFromInt(balanceAfter),
		nil, "", time.Now(),
	)
}

func TestGormTransactionRepository_FindByID(t *testing.T) {
	t.Run("finds existing transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		txID := uuid.New()
		ownerID := uuid.New()
		imprestID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "imprest_transactions" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, txID, 1).
			WillReturnRows(transactionRows(txID, ownerID, imprestID, "DEPOSIT", 500, 4700))

		tx, err := repo.FindByID(context.Background(), ownerID, txID)

		assert.NoError(t, err)
		require.NotNil(t, tx)
		assert.Equal(t, txID, tx.ID)
		assert.Equal(t, imprestID, tx.ImprestID)
		assert.Equal(t, ledger.TransactionTypeDeposit, tx.Type)
		assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(4700)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing transaction", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		txID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "imprest_transactions" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, txID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		tx, err := repo.FindByID(context.Background(), ownerID, txID)

		assert.Nil(t, tx)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_List(t *testing.T) {
	t.Run("filters by fund and type, newest first", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		imprestID := uuid.New()
		txType := ledger.TransactionTypeWithdrawal

		mock.ExpectQuery(`SELECT count\(\*\) FROM "imprest_transactions" WHERE owner_id = \$1 AND imprest_id = \$2 AND type = \$3`).
			WithArgs(ownerID, imprestID, "WITHDRAWAL").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT \* FROM "imprest_transactions" WHERE owner_id = \$1 AND imprest_id = \$2 AND type = \$3 ORDER BY transaction_date DESC`).
			WithArgs(ownerID, imprestID, "WITHDRAWAL").
			WillReturnRows(transactionRows(uuid.New(), ownerID, imprestID, "WITHDRAWAL", 300, 4400))

		transactions, total, err := repo.List(context.Background(), ownerID, ledger.TransactionFilter{
			ImprestID: &imprestID,
			Type:      &txType,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, transactions, 1)
		assert.Equal(t, ledger.TransactionTypeWithdrawal, transactions[0].Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by date range", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		from := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.August, 31, 23, 59, 59, 0, time.UTC)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "imprest_transactions" WHERE owner_id = \$1 AND transaction_date >= \$2 AND transaction_date <= \$3`).
			WithArgs(ownerID, from, to).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "imprest_transactions" WHERE owner_id = \$1 AND transaction_date >= \$2 AND transaction_date <= \$3 ORDER BY transaction_date DESC`).
			WithArgs(ownerID, from, to).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		transactions, total, err := repo.List(context.Background(), ownerID, ledger.TransactionFilter{
			DateFrom: &from,
			DateTo:   &to,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, transactions)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_FindByExpenseID(t *testing.T) {
	t.Run("finds transactions of an expense oldest first", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		expenseID := uuid.New()
		imprestID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "imprest_transactions" WHERE owner_id = \$1 AND expense_id = \$2 ORDER BY transaction_date ASC`).
			WithArgs(ownerID, expenseID).
			WillReturnRows(transactionRows(uuid.New(), ownerID, imprestID, "EXPENSE", 200, 4200))

		transactions, err := repo.FindByExpenseID(context.Background(), ownerID, expenseID)

		assert.NoError(t, err)
		assert.Len(t, transactions, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_DeleteByImprestID(t *testing.T) {
	t.Run("removes all transactions of a fund", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		imprestID := uuid.New()

		mock.ExpectExec(`DELETE FROM "imprest_transactions" WHERE owner_id = \$1 AND imprest_id = \$2`).
			WithArgs(ownerID, imprestID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		err := repo.DeleteByImprestID(context.Background(), ownerID, imprestID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_SumSignedByImprestID(t *testing.T) {
	t.Run("sums deposits and refunds minus withdrawals and expenses", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		imprestID := uuid.New()
		cutoff := time.Now()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type IN \(\$1,\$2\) THEN amount ELSE -amount END\), 0\) as total FROM "imprest_transactions"`).
			WithArgs("DEPOSIT", "REFUND", ownerID, imprestID, cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("-800"))

		total, err := repo.SumSignedByImprestID(context.Background(), ownerID, imprestID, cutoff)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(-800)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps cent precision exact", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		ownerID := uuid.New()
		imprestID := uuid.New()
		cutoff := time.Now()

		// 4090.51 has no exact float64 representation; the sum must
		// survive the scan without drifting
		mock.ExpectQuery(`SELECT COALESCE\(SUM\(CASE WHEN type IN \(\$1,\$2\) THEN amount ELSE -amount END\), 0\) as total FROM "imprest_transactions"`).
			WithArgs("DEPOSIT", "REFUND", ownerID, imprestID, cutoff).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow("4090.51"))

		total, err := repo.SumSignedByImprestID(context.Background(), ownerID, imprestID, cutoff)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("4090.51")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
