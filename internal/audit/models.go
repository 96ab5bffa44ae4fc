package audit

import (
	"time"

	id "reratrack/pkg/domain"
)

// Action names an audited mutation.
type Action string

const (
	ActionClientCreated        Action = "client_created"
	ActionClientDeleted        Action = "client_deleted"
	ActionChecklistProvisioned Action = "checklist_provisioned"
	ActionChecklistStatusSet   Action = "checklist_status_set"
	ActionChecklistItemAdded   Action = "checklist_item_added"
	ActionInvoiceCreated       Action = "invoice_created"
	ActionPaymentRecorded      Action = "payment_recorded"
	ActionPaymentRejected      Action = "payment_rejected"
	ActionPaymentDeleted       Action = "payment_deleted"
	ActionTaskCreated          Action = "task_created"
	ActionTaskUpdated          Action = "task_updated"
	ActionTaskDeleted          Action = "task_deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	OwnerID   id.UserID `json:"owner_id"`
	Action    Action    `json:"action"`
	Subject   string    `json:"subject"`
	Detail    string    `json:"detail,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
}
