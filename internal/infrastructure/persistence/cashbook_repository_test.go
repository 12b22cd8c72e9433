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

func newMockGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
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

	return gormDB, mock, mockDB
}

func cashBookRows(entryID, ownerID uuid.UUID, entryType string, reconciled bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "created_at", "updated_at", "version", "owner_id",
		"reference", "entry_date", "description", "type", "amount",
		"account", "counterparty", "category", "payment_method",
		"is_reconciled", "reconciled_at",
	}).AddRow(
		entryID, time.Now(), time.Now(), 1, ownerID,
		"CSH-202608-0001", time.Now(), "Till float", entryType, decimal.NewFromInt(1200),
		"Main till", "Bank", "Operations", "CASH",
		reconciled, nil,
	)
}

func TestGormCashBookRepository_FindByID(t *testing.T) {
	t.Run("finds existing entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCashBookRepository(gormDB)

		entryID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "cash_book_entries" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, entryID, 1).
			WillReturnRows(cashBookRows(entryID, ownerID, "INCOME", false))

		entry, err := repo.FindByID(context.Background(), ownerID, entryID)

		assert.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, entryID, entry.ID)
		assert.Equal(t, ledger.CashBookEntryTypeIncome, entry.Type)
		assert.False(t, entry.IsReconciled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing entry", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCashBookRepository(gormDB)

		entryID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "cash_book_entries" WHERE owner_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(ownerID, entryID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		entry, err := repo.FindByID(context.Background(), ownerID, entryID)

		assert.Nil(t, entry)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCashBookRepository_List(t *testing.T) {
	t.Run("filters by reconciliation state", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCashBookRepository(gormDB)

		ownerID := uuid.New()
		unreconciled := false

		mock.ExpectQuery(`SELECT count\(\*\) FROM "cash_book_entries" WHERE owner_id = \$1 AND is_reconciled = \$2`).
			WithArgs(ownerID, false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT \* FROM "cash_book_entries" WHERE owner_id = \$1 AND is_reconciled = \$2 ORDER BY entry_date DESC`).
			WithArgs(ownerID, false).
			WillReturnRows(cashBookRows(uuid.New(), ownerID, "EXPENSE", false))

		entries, total, err := repo.List(context.Background(), ownerID, ledger.CashBookFilter{
			IsReconciled: &unreconciled,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, entries, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("filters by account and type", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCashBookRepository(gormDB)

		ownerID := uuid.New()
		entryType := ledger.CashBookEntryTypeTransfer

		mock.ExpectQuery(`SELECT count\(\*\) FROM "cash_book_entries" WHERE owner_id = \$1 AND type = \$2 AND account = \$3`).
			WithArgs(ownerID, "TRANSFER", "Main till").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery(`SELECT \* FROM "cash_book_entries" WHERE owner_id = \$1 AND type = \$2 AND account = \$3 ORDER BY entry_date DESC`).
			WithArgs(ownerID, "TRANSFER", "Main till").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		entries, total, err := repo.List(context.Background(), ownerID, ledger.CashBookFilter{
			Type:    &entryType,
			Account: "Main till",
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCashBookRepository_Save(t *testing.T) {
	t.Run("returns conflict when version changed underneath", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormCashBookRepository(gormDB)

		entry, err := ledger.NewCashBookEntry(
			uuid.New(), "CSH-202608-0002", time.Now(), "Bank deposit",
			ledger.CashBookEntryTypeIncome, decimal.NewFromInt(500), "Main till", ledger.PaymentMethodCash,
		)
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "cash_book_entries" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.Save(context.Background(), entry)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.Equal(t, 1, entry.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormJournalRepository_List(t *testing.T) {
	t.Run("filters by source module", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormJournalRepository(gormDB)

		ownerID := uuid.New()
		source := ledger.SourceModuleImprest

		rows := sqlmock.NewRows([]string{
			"id", "created_at", "updated_at", "owner_id", "entry_date",
			"transaction_date", "reference", "description", "source_module", "source_id",
			"debit_account", "credit_account", "amount",
		}).AddRow(
			uuid.New(), time.Now(), time.Now(), ownerID, time.Now(),
			time.Now(), "ITX-202608-0001", "Fund deposit", "IMPREST", uuid.New(),
			"IMP-202608-0001", "Cash", decimal.NewFromInt(500),
		)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "transaction_journal" WHERE owner_id = \$1 AND source_module = \$2`).
			WithArgs(ownerID, "IMPREST").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectQuery(`SELECT \* FROM "transaction_journal" WHERE owner_id = \$1 AND source_module = \$2 ORDER BY entry_date DESC`).
			WithArgs(ownerID, "IMPREST").
			WillReturnRows(rows)

		entries, total, err := repo.List(context.Background(), ownerID, ledger.JournalFilter{
			SourceModule: &source,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, ledger.SourceModuleImprest, entries[0].SourceModule)
		assert.Equal(t, "IMP-202608-0001", entries[0].DebitAccount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReportSnapshotRepository_Delete(t *testing.T) {
	t.Run("deletes snapshot within owner scope", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormReportSnapshotRepository(gormDB)

		reportID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "accounting_reports" WHERE owner_id = \$1 AND id = \$2`).
			WithArgs(ownerID, reportID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), ownerID, reportID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for a snapshot of another owner", func(t *testing.T) {
		gormDB, mock, mockDB := newMockGormDB(t)
		defer mockDB.Close()
		repo := NewGormReportSnapshotRepository(gormDB)

		reportID := uuid.New()
		ownerID := uuid.New()

		mock.ExpectExec(`DELETE FROM "accounting_reports" WHERE owner_id = \$1 AND id = \$2`).
			WithArgs(ownerID, reportID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), ownerID, reportID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
