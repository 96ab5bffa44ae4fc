package handler

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// CreateInvoiceRequest is the body of POST /payments.
type CreateInvoiceRequest struct {
	ClientID    string           `json:"clientId"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	DueDate     string           `json:"dueDate,omitempty"`

	clientID id.ClientID
	dueDate  *time.Time
}

func (r *CreateInvoiceRequest) Validate() error {
	r.ClientID = strings.TrimSpace(r.ClientID)
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeValidation, "clientId is required")
	}
	clientID, err := id.ParseClientID(r.ClientID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "clientId is invalid")
	}
	r.clientID = clientID
	if r.Amount == nil {
		return dErrors.New(dErrors.CodeValidation, "amount is required")
	}
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return dErrors.New(dErrors.CodeValidation, "description is required")
	}
	if r.DueDate != "" {
		due, err := parseDate(r.DueDate)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "dueDate must be YYYY-MM-DD or RFC 3339")
		}
		r.dueDate = &due
	}
	return nil
}

// RecordPaymentRequest is the body of PUT /payments/{paymentID}/record.
type RecordPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
	Date   string           `json:"date,omitempty"`
	Notes  string           `json:"notes,omitempty"`

	date time.Time
}

func (r *RecordPaymentRequest) Validate() error {
	if r.Amount == nil {
		return dErrors.New(dErrors.CodeValidation, "amount is required")
	}
	if r.Date != "" {
		date, err := parseDate(r.Date)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD or RFC 3339")
		}
		r.date = date
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
