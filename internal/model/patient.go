package model

import "github.com/jwalitptl/clinic-client/pkg/compactdate"

type Patient struct {
	ID          int              `json:"id"`
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	Email       string           `json:"email"`
	Phone       string           `json:"phone"`
	DateOfBirth compactdate.Date `json:"date_of_birth"`
	Address     string           `json:"address"`
}

func (p Patient) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

type CreatePatientRequest struct {
	FirstName   string           `json:"first_name" validate:"required"`
	LastName    string           `json:"last_name" validate:"required"`
	Email       string           `json:"email" validate:"required,email"`
	Phone       string           `json:"phone" validate:"required,numeric,max=10"`
	DateOfBirth compactdate.Date `json:"date_of_birth" validate:"required"`
	Address     string           `json:"address" validate:"required"`
}

type UpdatePatientRequest struct {
	FirstName   *string           `json:"first_name,omitempty"`
	LastName    *string           `json:"last_name,omitempty"`
	Email       *string           `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string           `json:"phone,omitempty" validate:"omitempty,numeric,max=10"`
	DateOfBirth *compactdate.Date `json:"date_of_birth,omitempty"`
	Address     *string           `json:"address,omitempty"`
}
