package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

var now = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func newRecord(t *testing.T, amount string) *PaymentRecord {
	t.Helper()
	p, err := NewPaymentRecord(id.PaymentID(uuid.New()), id.ClientID(uuid.New()), id.UserID(uuid.New()),
		decimal.RequireFromString(amount), "Registration fee", nil, now)
	require.NoError(t, err)
	return p
}

func receipt(amount string) Transaction {
	return Transaction{
		ID:        id.TransactionID(uuid.New()),
		Amount:    decimal.RequireFromString(amount),
		Date:      now,
		Timestamp: now,
	}
}

func TestNewPaymentRecord(t *testing.T) {
	t.Run("starts open with nothing paid", func(t *testing.T) {
		p := newRecord(t, "10000")
		assert.True(t, p.PaidAmount.IsZero())
		assert.Empty(t, p.Transactions)
		assert.NotNil(t, p.Transactions)
		assert.Equal(t, StatusOpen, p.Status())
		assert.True(t, p.Balance().Equal(decimal.NewFromInt(10000)))
	})

	cases := []struct {
		name        string
		clientID    id.ClientID
		amount      string
		description string
	}{
		{"missing client", id.ClientID{}, "100", "fee"},
		{"zero amount", id.ClientID(uuid.New()), "0", "fee"},
		{"negative amount", id.ClientID(uuid.New()), "-5", "fee"},
		{"sub-paisa amount", id.ClientID(uuid.New()), "10.001", "fee"},
		{"blank description", id.ClientID(uuid.New()), "100", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewPaymentRecord(id.PaymentID(uuid.New()), tc.clientID, id.UserID(uuid.New()),
				decimal.RequireFromString(tc.amount), tc.description, nil, now)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestRecordScenario(t *testing.T) {
	p := newRecord(t, "10000")

	require.NoError(t, p.CanRecord(decimal.NewFromInt(4000)))
	p.ApplyPayment(receipt("4000"))
	assert.True(t, p.PaidAmount.Equal(decimal.NewFromInt(4000)))
	assert.Len(t, p.Transactions, 1)
	assert.True(t, dErrors.HasCode(p.CanDelete(), dErrors.CodeConflict))

	err := p.CanRecord(decimal.NewFromInt(7000))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
	assert.Equal(t, "Amount exceeds remaining balance", dErrors.MessageOf(err))

	require.NoError(t, p.CanRecord(decimal.NewFromInt(6000)))
	p.ApplyPayment(receipt("6000"))
	assert.True(t, p.PaidAmount.Equal(p.Amount))
	assert.Equal(t, StatusSettled, p.Status())
	assert.NoError(t, p.CanDelete())

	err = p.CanRecord(decimal.RequireFromString("0.01"))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount))
}

func TestPaidAmountEqualsSumOfTransactions(t *testing.T) {
	p := newRecord(t, "1000.50")
	for _, amt := range []string{"100.25", "0.25", "500", "400"} {
		require.NoError(t, p.CanRecord(decimal.RequireFromString(amt)))
		p.ApplyPayment(receipt(amt))

		sum := decimal.Zero
		for _, tx := range p.Transactions {
			sum = sum.Add(tx.Amount)
		}
		assert.True(t, sum.Equal(p.PaidAmount))
		assert.True(t, p.PaidAmount.LessThanOrEqual(p.Amount))
	}
	assert.True(t, p.IsSettled())
}

func TestCanRecordRejectsNonPositive(t *testing.T) {
	p := newRecord(t, "100")
	for _, amt := range []string{"0", "-1"} {
		err := p.CanRecord(decimal.RequireFromString(amt))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidAmount), amt)
	}
}

func TestCloneIsDeep(t *testing.T) {
	due := now.AddDate(0, 1, 0)
	p := newRecord(t, "100")
	p.DueDate = &due
	p.ApplyPayment(receipt("10"))

	cp := p.Clone()
	cp.ApplyPayment(receipt("20"))
	*cp.DueDate = now

	assert.Len(t, p.Transactions, 1)
	assert.True(t, p.PaidAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, due, *p.DueDate)
}
