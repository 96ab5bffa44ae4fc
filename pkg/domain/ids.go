// Package domain defines typed identifiers shared across modules.
//
// Each identifier is a distinct named UUID type so an owner ID can never be
// passed where a client ID is expected. Parse functions are the trust boundary
// for identifiers arriving over HTTP.
package domain

import (
	"github.com/google/uuid"

	dErrors "reratrack/pkg/domain-errors"
)

type (
	UserID        uuid.UUID
	ClientID      uuid.UUID
	ChecklistID   uuid.UUID
	PaymentID     uuid.UUID
	TransactionID uuid.UUID
	TaskID        uuid.UUID
)

func parseID(kind, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	if len(s) > 64 {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return parsed, nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseID("user_id", s)
	return UserID(u), err
}

func ParseClientID(s string) (ClientID, error) {
	u, err := parseID("client_id", s)
	return ClientID(u), err
}

func ParseChecklistID(s string) (ChecklistID, error) {
	u, err := parseID("checklist_id", s)
	return ChecklistID(u), err
}

func ParsePaymentID(s string) (PaymentID, error) {
	u, err := parseID("payment_id", s)
	return PaymentID(u), err
}

func ParseTaskID(s string) (TaskID, error) {
	u, err := parseID("task_id", s)
	return TaskID(u), err
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id UserID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *UserID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ClientID) String() string { return uuid.UUID(id).String() }
func (id ClientID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ClientID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ClientID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id ChecklistID) String() string { return uuid.UUID(id).String() }
func (id ChecklistID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id ChecklistID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *ChecklistID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id PaymentID) String() string { return uuid.UUID(id).String() }
func (id PaymentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *PaymentID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id TransactionID) String() string { return uuid.UUID(id).String() }
func (id TransactionID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *TransactionID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id TaskID) String() string { return uuid.UUID(id).String() }
func (id TaskID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id TaskID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}
func (id *TaskID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
