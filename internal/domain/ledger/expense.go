package ledger

import (
	"fmt"
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how an expense was or will be settled
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodMobileMoney  PaymentMethod = "MOBILE_MONEY"
)

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid returns true if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheck,
		PaymentMethodCard, PaymentMethodMobileMoney:
		return true
	}
	return false
}

// ExpenseStatus represents the approval status of an expense
type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "PENDING"  // Submitted, awaiting approval
	ExpenseStatusApproved ExpenseStatus = "APPROVED" // Approved; fund deducted if linked
	ExpenseStatusPaid     ExpenseStatus = "PAID"     // Settled after approval
	ExpenseStatusRejected ExpenseStatus = "REJECTED" // Rejected; fund restored if it was deducted
)

// String returns the string representation of ExpenseStatus
func (s ExpenseStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid ExpenseStatus
func (s ExpenseStatus) IsValid() bool {
	switch s {
	case ExpenseStatusPending, ExpenseStatusApproved, ExpenseStatusPaid, ExpenseStatusRejected:
		return true
	}
	return false
}

// CanApprove returns true if the expense can be approved.
// Approval transitions only from PENDING; approving twice is rejected.
func (s ExpenseStatus) CanApprove() bool {
	return s == ExpenseStatusPending
}

// CanReject returns true if the expense can be rejected
func (s ExpenseStatus) CanReject() bool {
	return s == ExpenseStatusPending || s == ExpenseStatusApproved
}

// CanMarkPaid returns true if the expense can be marked as paid
func (s ExpenseStatus) CanMarkPaid() bool {
	return s == ExpenseStatusApproved
}

// Expense represents a spending request flowing through the approval
// state machine. Creation never touches any fund balance; only the
// approve and reject transitions move money.
type Expense struct {
	shared.OwnerAggregateRoot
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    uuid.UUID       `json:"category_id"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        ExpenseStatus   `json:"status"`
	ImprestID     *uuid.UUID      `json:"imprest_id"` // Fund to draw from on approval (optional)
	ReceiptURL    string          `json:"receipt_url"`
	ApprovedBy    *uuid.UUID      `json:"approved_by"`
	ApprovedAt    *time.Time      `json:"approved_at"`
	RejectedAt    *time.Time      `json:"rejected_at"`
}

// NewExpense creates a new expense in pending status
func NewExpense(
	ownerID uuid.UUID,
	reference string,
	description string,
	amount decimal.Decimal,
	categoryID uuid.UUID,
	expenseDate time.Time,
	paymentMethod PaymentMethod,
) (*Expense, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Expense reference cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	expense := &Expense{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		Reference:          reference,
		Description:        description,
		Amount:             amount,
		CategoryID:         categoryID,
		ExpenseDate:        expenseDate,
		PaymentMethod:      paymentMethod,
		Status:             ExpenseStatusPending,
	}
	expense.AddDomainEvent(NewExpenseSubmittedEvent(expense))

	return expense, nil
}

// WithImprest links the expense to the fund it should draw from on approval
func (e *Expense) WithImprest(imprestID uuid.UUID) *Expense {
	e.ImprestID = &imprestID
	return e
}

// WithReceiptURL attaches a receipt to the expense
func (e *Expense) WithReceiptURL(url string) *Expense {
	e.ReceiptURL = url
	return e
}

// IsFundLinked returns true if approval of this expense draws from a fund
func (e *Expense) IsFundLinked() bool {
	return e.ImprestID != nil
}

// Approve transitions the expense from pending to approved
func (e *Expense) Approve(approvedBy uuid.UUID) error {
	if !e.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve expense in %s status", e.Status))
	}
	if approvedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "Approver user ID cannot be empty")
	}

	now := time.Now()
	e.Status = ExpenseStatusApproved
	e.ApprovedBy = &approvedBy
	e.ApprovedAt = &now
	e.UpdatedAt = now
	e.AddDomainEvent(NewExpenseApprovedEvent(e, approvedBy))

	return nil
}

// Reject transitions the expense to rejected. The caller is responsible
// for refunding the linked fund when rejecting an approved expense.
func (e *Expense) Reject() error {
	if !e.Status.CanReject() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject expense in %s status", e.Status))
	}

	now := time.Now()
	e.Status = ExpenseStatusRejected
	e.RejectedAt = &now
	e.UpdatedAt = now
	e.AddDomainEvent(NewExpenseRejectedEvent(e))

	return nil
}

// MarkAsPaid transitions an approved expense to paid. No balance logic:
// the fund was already deducted at approval time.
func (e *Expense) MarkAsPaid() error {
	if !e.Status.CanMarkPaid() {
		return shared.NewDomainError("INVALID_STATE", "Only approved expenses can be marked as paid")
	}

	e.Status = ExpenseStatusPaid
	e.Touch()
	e.AddDomainEvent(NewExpensePaidEvent(e))

	return nil
}

// IsPending returns true if the expense awaits approval
func (e *Expense) IsPending() bool {
	return e.Status == ExpenseStatusPending
}

// IsApproved returns true if the expense is approved
func (e *Expense) IsApproved() bool {
	return e.Status == ExpenseStatusApproved
}
