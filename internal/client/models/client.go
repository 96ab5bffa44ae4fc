package models

import (
	"strings"
	"time"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// Type classifies the client's engagement.
type Type string

const (
	TypeDeveloper  Type = "Developer"
	TypeAgent      Type = "Agent"
	TypeLitigation Type = "Litigation"
)

func ParseType(raw string) (Type, error) {
	switch t := Type(strings.TrimSpace(raw)); t {
	case TypeDeveloper, TypeAgent, TypeLitigation:
		return t, nil
	case "":
		return "", dErrors.New(dErrors.CodeValidation, "type is required")
	default:
		return "", dErrors.New(dErrors.CodeValidation, "type must be one of Developer, Agent, Litigation")
	}
}

const maxFieldLength = 256

// Client is a real-estate developer, agent or litigation matter managed by
// an owner.
type Client struct {
	ID           id.ClientID `json:"id"`
	OwnerID      id.UserID   `json:"ownerId"`
	Type         Type        `json:"type"`
	Name         string      `json:"name"`
	PromoterName string      `json:"promoterName,omitempty"`
	Location     string      `json:"location,omitempty"`
	ReraNumber   string      `json:"reraNumber,omitempty"`
	Mobile       string      `json:"mobile"`
	Email        string      `json:"email,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Profile holds the caller-supplied client fields.
type Profile struct {
	Type         string
	Name         string
	PromoterName string
	Location     string
	ReraNumber   string
	Mobile       string
	Email        string
}

// NewClient validates p and builds a client. Type, Name and Mobile are
// required.
func NewClient(clientID id.ClientID, ownerID id.UserID, p Profile, now time.Time) (*Client, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner ID required")
	}
	clientType, err := ParseType(p.Type)
	if err != nil {
		return nil, err
	}
	c := &Client{
		ID:           clientID,
		OwnerID:      ownerID,
		Type:         clientType,
		Name:         strings.TrimSpace(p.Name),
		PromoterName: strings.TrimSpace(p.PromoterName),
		Location:     strings.TrimSpace(p.Location),
		ReraNumber:   strings.TrimSpace(p.ReraNumber),
		Mobile:       strings.TrimSpace(p.Mobile),
		Email:        strings.TrimSpace(p.Email),
		CreatedAt:    now,
	}
	if c.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if c.Mobile == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "mobile is required")
	}
	for field, v := range map[string]string{
		"name": c.Name, "promoterName": c.PromoterName, "location": c.Location,
		"reraNumber": c.ReraNumber, "mobile": c.Mobile, "email": c.Email,
	} {
		if len(v) > maxFieldLength {
			return nil, dErrors.New(dErrors.CodeValidation, field+" is too long")
		}
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return nil, dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return c, nil
}
