package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseService handles the expense approval workflow
type ExpenseService struct {
	expenseRepo  ledger.ExpenseRepository
	categoryRepo ledger.CategoryRepository
	fundRepo     ledger.FundRepository
	txRepo       ledger.TransactionRepository
	journalRepo  ledger.JournalRepository
	txManager    shared.TransactionManager
	events       shared.EventPublisher
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	expenseRepo ledger.ExpenseRepository,
	categoryRepo ledger.CategoryRepository,
	fundRepo ledger.FundRepository,
	txRepo ledger.TransactionRepository,
	journalRepo ledger.JournalRepository,
	txManager shared.TransactionManager,
) *ExpenseService {
	return &ExpenseService{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		fundRepo:     fundRepo,
		txRepo:       txRepo,
		journalRepo:  journalRepo,
		txManager:    txManager,
	}
}

// WithEvents sets the publisher that receives domain events after commit
func (s *ExpenseService) WithEvents(events shared.EventPublisher) *ExpenseService {
	s.events = events
	return s
}

// SubmitExpense records a new expense in pending status. No fund balance
// moves until the expense is approved.
func (s *ExpenseService) SubmitExpense(ctx context.Context, ownerID uuid.UUID, req SubmitExpenseRequest) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "submit",
		telemetry.WithAttribute(telemetry.SpanAttrAmount, req.Amount))
	defer span.End()

	if _, err := s.categoryRepo.FindByID(ctx, ownerID, req.CategoryID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if req.ImprestID != nil {
		if _, err := s.fundRepo.FindByID(ctx, ownerID, *req.ImprestID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	var expense *ledger.Expense

	err := retryOnDuplicateReference(func(attempt int64) error {
		now := time.Now()
		count, err := s.expenseRepo.CountCreatedInMonth(ctx, now)
		if err != nil {
			return err
		}
		reference := ledger.FormatReference(ledger.ExpenseReferencePrefix, now, count+1+attempt)

		expense, err = ledger.NewExpense(
			ownerID,
			reference,
			req.Description,
			decimal.NewFromFloat(req.Amount),
			req.CategoryID,
			req.ExpenseDate,
			ledger.PaymentMethod(req.PaymentMethod),
		)
		if err != nil {
			return err
		}
		if req.ImprestID != nil {
			expense.WithImprest(*req.ImprestID)
		}
		if req.ReceiptURL != "" {
			expense.WithReceiptURL(req.ReceiptURL)
		}

		return s.expenseRepo.Create(ctx, expense)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrExpenseID, expense.ID,
		telemetry.SpanAttrReference, expense.Reference,
	)

	publishEvents(ctx, s.events, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// ApproveExpense approves a pending expense. When the expense is linked
// to a fund, the fund is deducted and an EXPENSE transaction is appended
// in the same database transaction; either everything commits or nothing
// does.
func (s *ExpenseService) ApproveExpense(ctx context.Context, ownerID, id, approvedBy uuid.UUID) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "approve",
		telemetry.WithAttribute(telemetry.SpanAttrExpenseID, id.String()))
	defer span.End()

	var (
		expense *ledger.Expense
		fund    *ledger.ImprestFund
	)

	err := retryOnDuplicateReference(func(attempt int64) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			expense, err = s.expenseRepo.FindByID(ctx, ownerID, id)
			if err != nil {
				return err
			}

			if err := expense.Approve(approvedBy); err != nil {
				return err
			}

			if expense.IsFundLinked() {
				if fund, err = s.drawFromFund(ctx, expense, attempt); err != nil {
					return err
				}
			}

			return s.expenseRepo.Save(ctx, expense)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if fund != nil {
		telemetry.AddEvent(span, "fund_deducted",
			telemetry.SpanAttrFundID, fund.ID,
			telemetry.SpanAttrFundBalance, fund.CurrentBalance,
		)
		publishEvents(ctx, s.events, expense, fund)
	} else {
		publishEvents(ctx, s.events, expense)
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// RejectExpense rejects a pending or approved expense. Rejecting an
// approved fund-linked expense restores the fund with a REFUND
// transaction. An already rejected expense cannot be rejected again, so
// at most one refund is ever produced.
func (s *ExpenseService) RejectExpense(ctx context.Context, ownerID, id uuid.UUID) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "reject",
		telemetry.WithAttribute(telemetry.SpanAttrExpenseID, id.String()))
	defer span.End()

	var (
		expense *ledger.Expense
		fund    *ledger.ImprestFund
	)

	err := retryOnDuplicateReference(func(attempt int64) error {
		return s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
			var err error
			expense, err = s.expenseRepo.FindByID(ctx, ownerID, id)
			if err != nil {
				return err
			}

			wasApproved := expense.IsApproved()
			if err := expense.Reject(); err != nil {
				return err
			}

			if wasApproved && expense.IsFundLinked() {
				if fund, err = s.refundToFund(ctx, expense, attempt); err != nil {
					return err
				}
			}

			return s.expenseRepo.Save(ctx, expense)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if fund != nil {
		telemetry.AddEvent(span, "fund_refunded",
			telemetry.SpanAttrFundID, fund.ID,
			telemetry.SpanAttrFundBalance, fund.CurrentBalance,
		)
		publishEvents(ctx, s.events, expense, fund)
	} else {
		publishEvents(ctx, s.events, expense)
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// MarkExpensePaid marks an approved expense as settled. The fund was
// already deducted at approval time, so no balance moves here.
func (s *ExpenseService) MarkExpensePaid(ctx context.Context, ownerID, id uuid.UUID) (*ExpenseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expense", "mark_paid",
		telemetry.WithAttribute(telemetry.SpanAttrExpenseID, id.String()))
	defer span.End()

	expense, err := s.expenseRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := expense.MarkAsPaid(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.expenseRepo.Save(ctx, expense); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	publishEvents(ctx, s.events, expense)

	response := ToExpenseResponse(expense)
	return &response, nil
}

// DeleteExpense removes an expense that never moved money. Approved and
// paid expenses are part of the audit trail and cannot be deleted.
func (s *ExpenseService) DeleteExpense(ctx context.Context, ownerID, id uuid.UUID) error {
	expense, err := s.expenseRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	if expense.Status != ledger.ExpenseStatusPending && expense.Status != ledger.ExpenseStatusRejected {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot delete expense in %s status", expense.Status))
	}

	return s.expenseRepo.Delete(ctx, ownerID, id)
}

// GetExpense retrieves an expense by ID
func (s *ExpenseService) GetExpense(ctx context.Context, ownerID, id uuid.UUID) (*ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := ToExpenseResponse(expense)
	return &response, nil
}

// ListExpenses lists expenses with filtering and pagination
func (s *ExpenseService) ListExpenses(ctx context.Context, ownerID uuid.UUID, filter ExpenseListFilter) ([]ExpenseResponse, int64, error) {
	domainFilter := ledger.ExpenseFilter{
		CategoryID: filter.CategoryID,
		ImprestID:  filter.ImprestID,
		Search:     filter.Search,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		OrderBy:    filter.OrderBy,
		OrderDir:   filter.OrderDir,
	}
	if filter.Status != "" {
		status := ledger.ExpenseStatus(filter.Status)
		domainFilter.Status = &status
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

	expenses, total, err := s.expenseRepo.List(ctx, ownerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToExpenseResponses(expenses), total, nil
}

// drawFromFund deducts the expense amount from the linked fund and
// appends the EXPENSE transaction and journal record
func (s *ExpenseService) drawFromFund(ctx context.Context, expense *ledger.Expense, attempt int64) (*ledger.ImprestFund, error) {
	fund, err := s.fundRepo.FindByIDForUpdate(ctx, expense.OwnerID, *expense.ImprestID)
	if err != nil {
		return nil, err
	}

	balanceAfter, err := fund.Apply(ledger.TransactionTypeExpense, expense.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.fundRepo.Save(ctx, fund); err != nil {
		return nil, err
	}

	transaction, err := s.appendExpenseTransaction(
		ctx, fund, expense, ledger.TransactionTypeExpense, balanceAfter,
		"Expense "+expense.Reference+": "+expense.Description, attempt,
	)
	if err != nil {
		return nil, err
	}

	return fund, s.journalExpenseMovement(ctx, transaction, accountExpenses, fund.Reference)
}

// refundToFund restores the expense amount to the linked fund and
// appends the REFUND transaction and journal record
func (s *ExpenseService) refundToFund(ctx context.Context, expense *ledger.Expense, attempt int64) (*ledger.ImprestFund, error) {
	fund, err := s.fundRepo.FindByIDForUpdate(ctx, expense.OwnerID, *expense.ImprestID)
	if err != nil {
		return nil, err
	}

	balanceAfter, err := fund.Apply(ledger.TransactionTypeRefund, expense.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.fundRepo.Save(ctx, fund); err != nil {
		return nil, err
	}

	transaction, err := s.appendExpenseTransaction(
		ctx, fund, expense, ledger.TransactionTypeRefund, balanceAfter,
		"Refund for rejected expense "+expense.Reference, attempt,
	)
	if err != nil {
		return nil, err
	}

	return fund, s.journalExpenseMovement(ctx, transaction, fund.Reference, accountExpenses)
}

func (s *ExpenseService) appendExpenseTransaction(
	ctx context.Context,
	fund *ledger.ImprestFund,
	expense *ledger.Expense,
	txType ledger.TransactionType,
	balanceAfter decimal.Decimal,
	description string,
	attempt int64,
) (*ledger.ImprestTransaction, error) {
	now := time.Now()
	count, err := s.txRepo.CountCreatedInMonth(ctx, now)
	if err != nil {
		return nil, err
	}
	reference := ledger.FormatReference(ledger.TransactionReferencePrefix, now, count+1+attempt)

	transaction, err := ledger.NewImprestTransaction(
		expense.OwnerID,
		fund.ID,
		reference,
		txType,
		expense.Amount,
		balanceAfter,
		description,
	)
	if err != nil {
		return nil, err
	}
	transaction.WithExpenseID(expense.ID)
	if expense.ReceiptURL != "" {
		transaction.WithReceiptURL(expense.ReceiptURL)
	}

	if err := s.txRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}
	return transaction, nil
}

func (s *ExpenseService) journalExpenseMovement(ctx context.Context, transaction *ledger.ImprestTransaction, debitAccount, creditAccount string) error {
	journalEntry, err := ledger.NewJournalEntry(
		transaction.OwnerID,
		transaction.TransactionDate,
		transaction.Reference,
		transaction.Description,
		ledger.SourceModuleExpenses,
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
