package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// Status is the receipt state of one checklist document.
type Status string

const (
	StatusReceived    Status = "received"
	StatusNotReceived Status = "not-received"
)

// ParseStatus accepts only the two known states.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(strings.TrimSpace(raw)); s {
	case StatusReceived, StatusNotReceived:
		return s, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation, "status must be 'received' or 'not-received'")
	}
}

// Item is one named document and its status.
type Item struct {
	Name   string
	Status Status
}

// Items is an insertion-ordered, name-unique list of documents. It encodes
// as a JSON object whose key order is the list order.
type Items []Item

func (it Items) indexOf(name string) int {
	for i := range it {
		if it[i].Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether name is present.
func (it Items) Has(name string) bool {
	return it.indexOf(name) >= 0
}

// Get returns the status of name.
func (it Items) Get(name string) (Status, bool) {
	if i := it.indexOf(name); i >= 0 {
		return it[i].Status, true
	}
	return "", false
}

// Pending lists names still not received, in list order. Never nil.
func (it Items) Pending() []string {
	out := make([]string, 0, len(it))
	for _, item := range it {
		if item.Status == StatusNotReceived {
			out = append(out, item.Name)
		}
	}
	return out
}

func (it Items) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range it {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(item.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(string(item.Status))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (it *Items) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("checklist items: expected object, got %v", tok)
	}
	out := Items{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := keyTok.(string)
		var status string
		if err := dec.Decode(&status); err != nil {
			return fmt.Errorf("checklist items: status of %q: %w", name, err)
		}
		if out.Has(name) {
			return fmt.Errorf("checklist items: duplicate name %q", name)
		}
		out = append(out, Item{Name: name, Status: Status(status)})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*it = out
	return nil
}

// Checklist is the per-client document checklist.
type Checklist struct {
	ID          id.ChecklistID `json:"id"`
	ClientID    id.ClientID    `json:"clientId"`
	OwnerID     id.UserID      `json:"ownerId"`
	Items       Items          `json:"documents"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// NewChecklist provisions a checklist with every template document at
// not-received.
func NewChecklist(checklistID id.ChecklistID, clientID id.ClientID, ownerID id.UserID, tmpl Template, now time.Time) (*Checklist, error) {
	if clientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client ID required")
	}
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner ID required")
	}
	names := tmpl.Names()
	if len(names) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "checklist template is empty")
	}
	items := make(Items, 0, len(names))
	for _, name := range names {
		items = append(items, Item{Name: name, Status: StatusNotReceived})
	}
	return &Checklist{
		ID:          checklistID,
		ClientID:    clientID,
		OwnerID:     ownerID,
		Items:       items,
		CreatedAt:   now,
		LastUpdated: now,
	}, nil
}

// NormalizeName trims a document name and rejects empty ones.
func NormalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "documentName is required")
	}
	if len(name) > 256 {
		return "", dErrors.New(dErrors.CodeValidation, "documentName must be at most 256 characters")
	}
	return name, nil
}

// CanAddItem checks that name is not already on the checklist.
// Use with ApplyAddItem inside a store Execute callback.
func (c *Checklist) CanAddItem(name string) error {
	if c.Items.Has(name) {
		return dErrors.New(dErrors.CodeInvariantViolation, "document already exists")
	}
	return nil
}

// ApplyAddItem appends name at not-received.
func (c *Checklist) ApplyAddItem(name string, now time.Time) {
	c.Items = append(c.Items, Item{Name: name, Status: StatusNotReceived})
	c.LastUpdated = now
}

// ApplyStatus sets the status of name, appending it when absent.
func (c *Checklist) ApplyStatus(name string, status Status, now time.Time) {
	if i := c.Items.indexOf(name); i >= 0 {
		c.Items[i].Status = status
	} else {
		c.Items = append(c.Items, Item{Name: name, Status: status})
	}
	c.LastUpdated = now
}

// Pending lists documents still not received, in checklist order.
func (c *Checklist) Pending() []string {
	return c.Items.Pending()
}

// Clone returns a deep copy so callers never share the items slice with a store.
func (c *Checklist) Clone() *Checklist {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = append(Items(nil), c.Items...)
	return &cp
}
