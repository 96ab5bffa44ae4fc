package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// Status is derived from the balance; it is never stored.
type Status string

const (
	StatusOpen    Status = "open"
	StatusSettled Status = "settled"
)

// MaxDescriptionLength bounds invoice descriptions.
const MaxDescriptionLength = 1024

// Transaction is one partial receipt against an invoice.
type Transaction struct {
	ID        id.TransactionID
	Amount    decimal.Decimal
	Date      time.Time
	Notes     string
	Timestamp time.Time
}

// PaymentRecord is an invoice for a client together with its receipts.
//
// PaidAmount always equals the sum of Transactions and never exceeds Amount.
// Both are maintained only through ApplyPayment.
type PaymentRecord struct {
	ID           id.PaymentID
	ClientID     id.ClientID
	OwnerID      id.UserID
	Amount       decimal.Decimal
	Description  string
	DueDate      *time.Time
	PaidAmount   decimal.Decimal
	Transactions []Transaction
	DateCreated  time.Time
	Version      int64
}

// NewPaymentRecord builds an open invoice with nothing paid.
func NewPaymentRecord(paymentID id.PaymentID, clientID id.ClientID, ownerID id.UserID, amount decimal.Decimal, description string, dueDate *time.Time, now time.Time) (*PaymentRecord, error) {
	if clientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "clientId is required")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner ID required")
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "description is required")
	}
	if len(description) > MaxDescriptionLength {
		return nil, dErrors.New(dErrors.CodeValidation, "description is too long")
	}
	return &PaymentRecord{
		ID:           paymentID,
		ClientID:     clientID,
		OwnerID:      ownerID,
		Amount:       amount,
		Description:  description,
		DueDate:      dueDate,
		PaidAmount:   decimal.Zero,
		Transactions: []Transaction{},
		DateCreated:  now,
	}, nil
}

// ValidateAmount accepts positive amounts with at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeInvalidAmount, "Amount must be greater than zero")
	}
	if !amount.Equal(amount.Round(2)) {
		return dErrors.New(dErrors.CodeInvalidAmount, "Amount must have at most two decimal places")
	}
	return nil
}

// Balance is the amount still owed.
func (p *PaymentRecord) Balance() decimal.Decimal {
	return p.Amount.Sub(p.PaidAmount)
}

func (p *PaymentRecord) Status() Status {
	if p.IsSettled() {
		return StatusSettled
	}
	return StatusOpen
}

// IsSettled reports whether receipts cover the invoiced amount.
func (p *PaymentRecord) IsSettled() bool {
	return p.PaidAmount.GreaterThanOrEqual(p.Amount)
}

// CanRecord checks a receipt against the remaining balance.
// Use with ApplyPayment inside a store Execute callback.
func (p *PaymentRecord) CanRecord(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(p.Balance()) {
		return dErrors.New(dErrors.CodeInvalidAmount, "Amount exceeds remaining balance")
	}
	return nil
}

// ApplyPayment appends t and adds its amount to PaidAmount.
func (p *PaymentRecord) ApplyPayment(t Transaction) {
	p.Transactions = append(p.Transactions, t)
	p.PaidAmount = p.PaidAmount.Add(t.Amount)
}

// CanDelete allows deletion only once the invoice is settled.
func (p *PaymentRecord) CanDelete() error {
	if !p.IsSettled() {
		return dErrors.New(dErrors.CodeConflict, "Cannot delete payment unless it is fully received")
	}
	return nil
}

// Clone returns a deep copy.
func (p *PaymentRecord) Clone() *PaymentRecord {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Transactions = append([]Transaction{}, p.Transactions...)
	if p.DueDate != nil {
		due := *p.DueDate
		cp.DueDate = &due
	}
	return &cp
}
