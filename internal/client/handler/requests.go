package handler

import (
	"strings"

	"reratrack/internal/client/models"
	dErrors "reratrack/pkg/domain-errors"
)

// CreateClientRequest is the body of POST /clients.
type CreateClientRequest struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	PromoterName string `json:"promoterName,omitempty"`
	Location     string `json:"location,omitempty"`
	ReraNumber   string `json:"reraNumber,omitempty"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email,omitempty"`
}

func (r *CreateClientRequest) Validate() error {
	if strings.TrimSpace(r.Type) == "" || strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Mobile) == "" {
		return dErrors.New(dErrors.CodeValidation, "type, name and mobile are required")
	}
	return nil
}

func (r *CreateClientRequest) profile() models.Profile {
	return models.Profile{
		Type:         r.Type,
		Name:         r.Name,
		PromoterName: r.PromoterName,
		Location:     r.Location,
		ReraNumber:   r.ReraNumber,
		Mobile:       r.Mobile,
		Email:        r.Email,
	}
}
