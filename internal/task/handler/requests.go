package handler

import (
	"strings"

	"reratrack/internal/task/models"
	id "reratrack/pkg/domain"
	dErrors "reratrack/pkg/domain-errors"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	ClientID string `json:"clientId"`
	models.Details

	clientID id.ClientID
}

func (r *CreateTaskRequest) Validate() error {
	r.ClientID = strings.TrimSpace(r.ClientID)
	if r.ClientID == "" {
		return dErrors.New(dErrors.CodeValidation, "clientId is required")
	}
	clientID, err := id.ParseClientID(r.ClientID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "clientId is invalid")
	}
	r.clientID = clientID
	return nil
}

// UpdateTaskRequest is the body of PUT /tasks/{taskID}: the fields to
// overwrite, by JSON name.
type UpdateTaskRequest map[string]string

func (r *UpdateTaskRequest) Validate() error {
	if len(*r) == 0 {
		return dErrors.New(dErrors.CodeValidation, "no task fields to update")
	}
	return models.ValidateChanges(models.Changes(*r))
}
