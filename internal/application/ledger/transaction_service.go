package ledger

import (
	"context"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionService handles the imprest transaction log
type TransactionService struct {
	fundRepo    ledger.FundRepository
	txRepo      ledger.TransactionRepository
	journalRepo ledger.JournalRepository
	txManager   shared.TransactionManager
	events      shared.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	fundRepo ledger.FundRepository,
	txRepo ledger.TransactionRepository,
	journalRepo ledger.JournalRepository,
	txManager shared.TransactionManager,
) *TransactionService {
	return &TransactionService{
		fundRepo:    fundRepo,
		txRepo:      txRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
	}
}

// WithEvents sets the publisher that receives domain events after commit
func (s *TransactionService) WithEvents(events shared.EventPublisher) *TransactionService {
	s.events = events
	return s
}

// RecordTransaction applies a balance movement to a fund and appends the
// matching log entry. The fund row is locked for the duration of the
// transaction so the balance update and the log append are atomic.
func (s *TransactionService) RecordTransaction(ctx context.Context, ownerID uuid.UUID, req RecordTransactionRequest) (*TransactionResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "imprest_transaction", "record",
		telemetry.WithAttribute(telemetry.SpanAttrFundID, req.ImprestID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount),
	)
	defer span.End()

	txType := ledger.TransactionType(req.Type)
	amount := decimal.NewFromFloat(req.Amount)

	var (
		transaction *ledger.ImprestTransaction
		fund        *ledger.ImprestFund
	)

	err := retryOnDuplicateReference(func(attempt int64) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			fund, err = s.fundRepo.FindByIDForUpdate(ctx, ownerID, req.ImprestID)
			if err != nil {
				return err
			}

			balanceAfter, err := fund.Apply(txType, amount)
			if err != nil {
				return err
			}

			if err := s.fundRepo.Save(ctx, fund); err != nil {
				return err
			}

			now := time.Now()
			count, err := s.txRepo.CountCreatedInMonth(ctx, now)
			if err != nil {
				return err
			}
			reference := ledger.FormatReference(ledger.TransactionReferencePrefix, now, count+1+attempt)

			transaction, err = ledger.NewImprestTransaction(
				ownerID,
				fund.ID,
				reference,
				txType,
				amount,
				balanceAfter,
				req.Description,
			)
			if err != nil {
				return err
			}
			if req.ReceiptURL != "" {
				transaction.WithReceiptURL(req.ReceiptURL)
			}

			if err := s.txRepo.Create(ctx, transaction); err != nil {
				return err
			}

			return s.journalFor(ctx, fund, transaction)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrReference, transaction.Reference,
		telemetry.SpanAttrFundBalance, transaction.BalanceAfter,
	)

	publishEvents(ctx, s.events, fund)

	response := ToTransactionResponse(transaction)
	return &response, nil
}

// journalFor appends the journal record for a fund movement. Credits flow
// from the cash account into the fund, debits flow out of the fund.
func (s *TransactionService) journalFor(ctx context.Context, fund *ledger.ImprestFund, transaction *ledger.ImprestTransaction) error {
	debitAccount := fund.Reference
	creditAccount := accountCash
	if transaction.Type.IsDebit() {
		debitAccount = accountExpenses
		if transaction.Type == ledger.TransactionTypeWithdrawal {
			debitAccount = accountCash
		}
		creditAccount = fund.Reference
	}

	journalEntry, err := ledger.NewJournalEntry(
		transaction.OwnerID,
		transaction.TransactionDate,
		transaction.Reference,
		transaction.Description,
		ledger.SourceModuleImprest,
		transaction.ID,
		debitAccount,
		creditAccount,
		transaction.Amount,
	)
	if err != nil {
		return err
	}
	return s.journalRepo.Create(ctx, journalEntry)
}

// GetTransaction retrieves a transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, ownerID, id uuid.UUID) (*TransactionResponse, error) {
	transaction, err := s.txRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(transaction)
	return &response, nil
}

// ListTransactions lists transactions with filtering and pagination
func (s *TransactionService) ListTransactions(ctx context.Context, ownerID uuid.UUID, filter TransactionListFilter) ([]TransactionResponse, int64, error) {
	domainFilter := ledger.TransactionFilter{
		ImprestID: filter.ImprestID,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}
	if filter.Type != "" {
		txType := ledger.TransactionType(filter.Type)
		domainFilter.Type = &txType
	}

	dateFrom, err := parseDateFilter(filter.DateFrom)
	if err != nil {
		return nil, 0, err
	}
	dateTo, err := parseDateFilter(filter.DateTo)
	if err != nil {
		return nil, 0, err
	}
	domainFilter.DateFrom = dateFrom
	domainFilter.DateTo = dateTo

	transactions, total, err := s.txRepo.List(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionResponses(transactions), total, nil
}

// CheckFundBalance reconstructs a fund's balance from its transaction log
// and compares it against the stored balance
func (s *TransactionService) CheckFundBalance(ctx context.Context, ownerID, imprestID uuid.UUID) (*FundBalanceCheckResponse, error) {
	fund, err := s.fundRepo.FindByID(ctx, ownerID, imprestID)
	if err != nil {
		return nil, err
	}

	signedSum, err := s.txRepo.SumSignedByImprestID(ctx, ownerID, imprestID, time.Now())
	if err != nil {
		return nil, err
	}

	computed := fund.InitialAmount.Add(signedSum)
	return &FundBalanceCheckResponse{
		ImprestID:       fund.ID,
		Reference:       fund.Reference,
		StoredBalance:   fund.CurrentBalance,
		ComputedBalance: computed,
		Consistent:      fund.CurrentBalance.Equal(computed),
	}, nil
}
