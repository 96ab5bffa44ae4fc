package handler

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"reratrack/internal/ledger/models"
	id "reratrack/pkg/domain"
)

// PaymentResponse renders money as JSON numbers with two decimals.
type PaymentResponse struct {
	ID           id.PaymentID          `json:"id"`
	ClientID     id.ClientID           `json:"clientId"`
	Amount       json.Number           `json:"amount"`
	Description  string                `json:"description"`
	DueDate      *string               `json:"dueDate,omitempty"`
	PaidAmount   json.Number           `json:"paidAmount"`
	Balance      json.Number           `json:"balance"`
	Status       models.Status         `json:"status"`
	Transactions []TransactionResponse `json:"transactions"`
	DateCreated  time.Time             `json:"dateCreated"`
	Version      int64                 `json:"version"`
}

type TransactionResponse struct {
	ID        id.TransactionID `json:"id"`
	Amount    json.Number      `json:"amount"`
	Date      time.Time        `json:"date"`
	Notes     string           `json:"notes,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type DeleteResponse struct {
	Message string `json:"message"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func toPaymentResponse(p *models.PaymentRecord) *PaymentResponse {
	resp := &PaymentResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Amount:       money(p.Amount),
		Description:  p.Description,
		PaidAmount:   money(p.PaidAmount),
		Balance:      money(p.Balance()),
		Status:       p.Status(),
		Transactions: make([]TransactionResponse, 0, len(p.Transactions)),
		DateCreated:  p.DateCreated,
		Version:      p.Version,
	}
	if p.DueDate != nil {
		due := p.DueDate.Format(time.DateOnly)
		resp.DueDate = &due
	}
	for _, t := range p.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			ID:        t.ID,
			Amount:    money(t.Amount),
			Date:      t.Date,
			Notes:     t.Notes,
			Timestamp: t.Timestamp,
		})
	}
	return resp
}

func toPaymentResponses(records []*models.PaymentRecord) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(records))
	for _, p := range records {
		out = append(out, toPaymentResponse(p))
	}
	return out
}
