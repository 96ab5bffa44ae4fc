package handler

import (
	"strings"

	dErrors "reratrack/pkg/domain-errors"
)

// SetStatusRequest is the body of PUT /documents/{clientID}.
type SetStatusRequest struct {
	DocumentName string `json:"documentName"`
	Status       string `json:"status"`
}

func (r *SetStatusRequest) Validate() error {
	r.DocumentName = strings.TrimSpace(r.DocumentName)
	r.Status = strings.TrimSpace(r.Status)
	if r.DocumentName == "" || r.Status == "" {
		return dErrors.New(dErrors.CodeValidation, "Document name and status are required")
	}
	return nil
}

// AddItemRequest is the body of POST /documents/{clientID}/add.
type AddItemRequest struct {
	DocumentName string `json:"documentName"`
}

func (r *AddItemRequest) Validate() error {
	r.DocumentName = strings.TrimSpace(r.DocumentName)
	if r.DocumentName == "" {
		return dErrors.New(dErrors.CodeValidation, "Document name is required")
	}
	return nil
}
