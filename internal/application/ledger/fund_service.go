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

// FundService handles imprest fund operations
type FundService struct {
	fundRepo    ledger.FundRepository
	txRepo      ledger.TransactionRepository
	journalRepo ledger.JournalRepository
	txManager   shared.TransactionManager
	events      shared.EventPublisher
}

// NewFundService creates a new FundService
func NewFundService(
	fundRepo ledger.FundRepository,
	txRepo ledger.TransactionRepository,
	journalRepo ledger.JournalRepository,
	txManager shared.TransactionManager,
) *FundService {
	return &FundService{
		fundRepo:    fundRepo,
		txRepo:      txRepo,
		journalRepo: journalRepo,
		txManager:   txManager,
	}
}

// WithEvents sets the publisher that receives domain events after commit
func (s *FundService) WithEvents(events shared.EventPublisher) *FundService {
	s.events = events
	return s
}

// CreateFund creates a new imprest fund. The opening allocation is
// journaled as a movement from the cash account into the fund.
func (s *FundService) CreateFund(ctx context.Context, ownerID uuid.UUID, req CreateFundRequest) (*FundResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "imprest_fund", "create",
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.InitialAmount))
	defer span.End()

	var fund *ledger.ImprestFund

	err := retryOnDuplicateReference(func(attempt int64) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			now := time.Now()
			count, err := s.fundRepo.CountCreatedInMonth(ctx, now)
			if err != nil {
				return err
			}
			reference := ledger.FormatReference(ledger.FundReferencePrefix, now, count+1+attempt)

			fund, err = ledger.NewImprestFund(
				ownerID,
				reference,
				req.AccountHolder,
				decimal.NewFromFloat(req.InitialAmount),
				req.Purpose,
			)
			if err != nil {
				return err
			}

			if err := s.fundRepo.Create(ctx, fund); err != nil {
				return err
			}

			journalEntry, err := ledger.NewJournalEntry(
				ownerID,
				now,
				fund.Reference,
				"Imprest fund opened for "+fund.AccountHolder,
				ledger.SourceModuleImprest,
				fund.ID,
				fund.Reference,
				accountCash,
				fund.InitialAmount,
			)
			if err != nil {
				return err
			}
			return s.journalRepo.Create(ctx, journalEntry)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrFundID, fund.ID,
		telemetry.SpanAttrReference, fund.Reference,
	)

	publishEvents(ctx, s.events, fund)

	response := ToFundResponse(fund)
	return &response, nil
}

// GetFund retrieves a fund by ID
func (s *FundService) GetFund(ctx context.Context, ownerID, id uuid.UUID) (*FundResponse, error) {
	fund, err := s.fundRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := ToFundResponse(fund)
	return &response, nil
}

// GetFundByReference retrieves a fund by its document reference
func (s *FundService) GetFundByReference(ctx context.Context, ownerID uuid.UUID, reference string) (*FundResponse, error) {
	fund, err := s.fundRepo.FindByReference(ctx, ownerID, reference)
	if err != nil {
		return nil, err
	}

	response := ToFundResponse(fund)
	return &response, nil
}

// ListFunds lists funds with filtering and pagination
func (s *FundService) ListFunds(ctx context.Context, ownerID uuid.UUID, filter FundListFilter) ([]FundResponse, int64, error) {
	domainFilter := ledger.FundFilter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if filter.Status != "" {
		status := ledger.FundStatus(filter.Status)
		domainFilter.Status = &status
	}

	funds, total, err := s.fundRepo.List(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToFundResponses(funds), total, nil
}

// UpdateFund updates the descriptive fields of a fund. Balances are only
// ever moved through transactions.
func (s *FundService) UpdateFund(ctx context.Context, ownerID, id uuid.UUID, req UpdateFundRequest) (*FundResponse, error) {
	fund, err := s.fundRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := fund.UpdateDetails(req.AccountHolder, req.Purpose, ledger.FundStatus(req.Status)); err != nil {
		return nil, err
	}

	if err := s.fundRepo.Save(ctx, fund); err != nil {
		return nil, err
	}

	response := ToFundResponse(fund)
	return &response, nil
}

// DeleteFund removes a fund together with its transaction log. The row
// lock keeps concurrent transactions from appending to a fund that is
// being deleted.
func (s *FundService) DeleteFund(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		fund, err := s.fundRepo.FindByIDForUpdate(ctx, ownerID, id)
		if err != nil {
			return err
		}

		if err := s.txRepo.DeleteByImprestID(ctx, ownerID, fund.ID); err != nil {
			return err
		}

		return s.fundRepo.Delete(ctx, ownerID, fund.ID)
	})
}
