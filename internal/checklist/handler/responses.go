package handler

import (
	"time"

	"reratrack/internal/checklist/models"
	id "reratrack/pkg/domain"
)

type ChecklistResponse struct {
	ID          id.ChecklistID `json:"id"`
	ClientID    id.ClientID    `json:"clientId"`
	Documents   models.Items   `json:"documents"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

type PendingResponse struct {
	ClientID id.ClientID `json:"clientId"`
	Pending  []string    `json:"pendingDocuments"`
}

func toChecklistResponse(c *models.Checklist) *ChecklistResponse {
	return &ChecklistResponse{
		ID:          c.ID,
		ClientID:    c.ClientID,
		Documents:   c.Items,
		CreatedAt:   c.CreatedAt,
		LastUpdated: c.LastUpdated,
	}
}
