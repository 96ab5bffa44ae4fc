package models

import (
	"strings"
	"time"

	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// MaxFieldLength bounds every free-text task field.
const MaxFieldLength = 2048

// Details holds the free-text task fields. None is required; the office
// records fees and dates as typed by staff.
type Details struct {
	Title            string `json:"title,omitempty"`
	Service          string `json:"service,omitempty"`
	AllocatedMembers string `json:"allocatedMembers,omitempty"`
	AssignedMembers  string `json:"assignedMembers,omitempty"`
	Priority         string `json:"priority,omitempty"`
	DueDate          string `json:"dueDate,omitempty"`
	Team             string `json:"team,omitempty"`
	ClientSource     string `json:"clientSource,omitempty"`
	Status           string `json:"status,omitempty"`
	GovernmentFees   string `json:"governmentFees,omitempty"`
	SROFees          string `json:"sroFees,omitempty"`
	BillAmount       string `json:"billAmount,omitempty"`
	GST              string `json:"gst,omitempty"`
	Branch           string `json:"branch,omitempty"`
	Remark           string `json:"remark,omitempty"`
	Note             string `json:"note,omitempty"`
	Description      string `json:"description,omitempty"`
}

// fields pairs each JSON name with its storage slot.
func (d *Details) fields() []struct {
	name string
	ptr  *string
} {
	return []struct {
		name string
		ptr  *string
	}{
		{"title", &d.Title}, {"service", &d.Service},
		{"allocatedMembers", &d.AllocatedMembers}, {"assignedMembers", &d.AssignedMembers},
		{"priority", &d.Priority}, {"dueDate", &d.DueDate}, {"team", &d.Team},
		{"clientSource", &d.ClientSource}, {"status", &d.Status},
		{"governmentFees", &d.GovernmentFees}, {"sroFees", &d.SROFees},
		{"billAmount", &d.BillAmount}, {"gst", &d.GST}, {"branch", &d.Branch},
		{"remark", &d.Remark}, {"note", &d.Note}, {"description", &d.Description},
	}
}

func (d *Details) normalize() error {
	for _, f := range d.fields() {
		*f.ptr = strings.TrimSpace(*f.ptr)
		if len(*f.ptr) > MaxFieldLength {
			return dErrors.New(dErrors.CodeValidation, f.name+" is too long")
		}
	}
	return nil
}

// Changes is a partial update keyed by JSON field name. Absent fields keep
// their current value; an empty string clears one.
type Changes map[string]string

// Task is a unit of compliance work the office tracks against a client.
type Task struct {
	ID       id.TaskID   `json:"id"`
	ClientID id.ClientID `json:"clientId"`
	OwnerID  id.UserID   `json:"ownerId"`
	Details
	CreatedAt time.Time `json:"dateCreated"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewTask(taskID id.TaskID, clientID id.ClientID, ownerID id.UserID, details Details, now time.Time) (*Task, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner ID required")
	}
	if clientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "clientId is required")
	}
	if err := details.normalize(); err != nil {
		return nil, err
	}
	return &Task{
		ID:        taskID,
		ClientID:  clientID,
		OwnerID:   ownerID,
		Details:   details,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateChanges rejects unknown field names and over-long values without
// touching a task.
func ValidateChanges(c Changes) error {
	var scratch Details
	return scratch.apply(c)
}

// Apply merges c into the task. On error the task is unchanged.
func (t *Task) Apply(c Changes, now time.Time) error {
	next := t.Details
	if err := next.apply(c); err != nil {
		return err
	}
	t.Details = next
	t.UpdatedAt = now
	return nil
}

func (d *Details) apply(c Changes) error {
	slots := make(map[string]*string, len(c))
	for _, f := range d.fields() {
		slots[f.name] = f.ptr
	}
	for name, value := range c {
		ptr, ok := slots[name]
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "unknown task field "+name)
		}
		*ptr = value
	}
	return d.normalize()
}
