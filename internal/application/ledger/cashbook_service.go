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

// CashBookService handles cash book entries and the transaction journal
type CashBookService struct {
	cashBookRepo ledger.CashBookRepository
	journalRepo  ledger.JournalRepository
	txManager    shared.TransactionManager
	events       shared.EventPublisher
}

// NewCashBookService creates a new CashBookService
func NewCashBookService(
	cashBookRepo ledger.CashBookRepository,
	journalRepo ledger.JournalRepository,
	txManager shared.TransactionManager,
) *CashBookService {
	return &CashBookService{
		cashBookRepo: cashBookRepo,
		journalRepo:  journalRepo,
		txManager:    txManager,
	}
}

// WithEvents sets the publisher that receives domain events after commit
func (s *CashBookService) WithEvents(events shared.EventPublisher) *CashBookService {
	s.events = events
	return s
}

// CreateEntry records a new cash movement and journals it atomically
func (s *CashBookService) CreateEntry(ctx context.Context, ownerID uuid.UUID, req CashBookEntryRequest) (*CashBookEntryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cashbook", "create_entry",
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount))
	defer span.End()

	var entry *ledger.CashBookEntry

	err := retryOnDuplicateReference(func(attempt int64) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			now := time.Now()
			count, err := s.cashBookRepo.CountCreatedInMonth(ctx, now)
			if err != nil {
				return err
			}
			reference := ledger.FormatReference(ledger.CashBookReferencePrefix, now, count+1+attempt)

			entry, err = ledger.NewCashBookEntry(
				ownerID,
				reference,
				req.EntryDate,
				req.Description,
				ledger.CashBookEntryType(req.Type),
				decimal.NewFromFloat(req.Amount),
				req.Account,
				ledger.PaymentMethod(req.PaymentMethod),
			)
			if err != nil {
				return err
			}
			if req.Counterparty != "" {
				entry.WithCounterparty(req.Counterparty)
			}
			if req.Category != "" {
				entry.WithCategory(req.Category)
			}

			if err := s.cashBookRepo.Create(ctx, entry); err != nil {
				return err
			}

			return s.journalEntryFor(ctx, entry)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrDocumentID, entry.ID,
		telemetry.SpanAttrReference, entry.Reference,
	)

	publishEvents(ctx, s.events, entry)

	response := ToCashBookEntryResponse(entry)
	return &response, nil
}

// journalEntryFor appends the journal record for a cash book entry.
// Income flows into the account, expenses flow out, transfers move
// between the account and the cash account.
func (s *CashBookService) journalEntryFor(ctx context.Context, entry *ledger.CashBookEntry) error {
	var debitAccount, creditAccount string
	switch entry.Type {
	case ledger.CashBookEntryTypeIncome:
		debitAccount = entry.Account
		creditAccount = accountIncome
	case ledger.CashBookEntryTypeExpense:
		debitAccount = accountExpenses
		creditAccount = entry.Account
	default:
		debitAccount = entry.Account
		creditAccount = accountCash
	}

	journalEntry, err := ledger.NewJournalEntry(
		entry.OwnerID,
		entry.EntryDate,
		entry.Reference,
		entry.Description,
		ledger.SourceModuleCashBook,
		entry.ID,
		debitAccount,
		creditAccount,
		entry.Amount,
	)
	if err != nil {
		return err
	}
	return s.journalRepo.Create(ctx, journalEntry)
}

// GetEntry retrieves a cash book entry by ID
func (s *CashBookService) GetEntry(ctx context.Context, ownerID, id uuid.UUID) (*CashBookEntryResponse, error) {
	entry, err := s.cashBookRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := ToCashBookEntryResponse(entry)
	return &response, nil
}

// ListEntries lists cash book entries with filtering and pagination
func (s *CashBookService) ListEntries(ctx context.Context, ownerID uuid.UUID, filter CashBookListFilter) ([]CashBookEntryResponse, int64, error) {
	domainFilter := ledger.CashBookFilter{
		Account:      filter.Account,
		IsReconciled: filter.IsReconciled,
		Search:       filter.Search,
		Page:         filter.Page,
		PageSize:     filter.PageSize,
	}
	if filter.Type != "" {
		entryType := ledger.CashBookEntryType(filter.Type)
		domainFilter.Type = &entryType
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

	entries, total, err := s.cashBookRepo.List(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCashBookEntryResponses(entries), total, nil
}

// UpdateEntry updates a cash book entry. Reconciled entries are frozen.
func (s *CashBookService) UpdateEntry(ctx context.Context, ownerID, id uuid.UUID, req CashBookEntryRequest) (*CashBookEntryResponse, error) {
	entry, err := s.cashBookRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	err = entry.Update(
		req.EntryDate,
		req.Description,
		ledger.CashBookEntryType(req.Type),
		decimal.NewFromFloat(req.Amount),
		req.Account,
		ledger.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		return nil, err
	}
	entry.WithCounterparty(req.Counterparty)
	entry.WithCategory(req.Category)

	if err := s.cashBookRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToCashBookEntryResponse(entry)
	return &response, nil
}

// DeleteEntry removes an unreconciled cash book entry
func (s *CashBookService) DeleteEntry(ctx context.Context, ownerID, id uuid.UUID) error {
	entry, err := s.cashBookRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if entry.IsReconciled {
		return shared.NewDomainError("INVALID_STATE", "Cannot delete a reconciled entry")
	}

	return s.cashBookRepo.Delete(ctx, ownerID, id)
}

// ReconcileEntry marks an entry as matched against a bank statement
func (s *CashBookService) ReconcileEntry(ctx context.Context, ownerID, id uuid.UUID) (*CashBookEntryResponse, error) {
	entry, err := s.cashBookRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := entry.Reconcile(); err != nil {
		return nil, err
	}

	if err := s.cashBookRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToCashBookEntryResponse(entry)
	return &response, nil
}

// ListJournal lists transaction journal entries with filtering
func (s *CashBookService) ListJournal(ctx context.Context, ownerID uuid.UUID, filter JournalListFilter) ([]JournalEntryResponse, int64, error) {
	domainFilter := ledger.JournalFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if filter.SourceModule != "" {
		sourceModule := ledger.SourceModule(filter.SourceModule)
		domainFilter.SourceModule = &sourceModule
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

	entries, total, err := s.journalRepo.List(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToJournalEntryResponses(entries), total, nil
}
