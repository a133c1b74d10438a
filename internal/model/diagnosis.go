package model

import "github.com/jwalitptl/clinic-client/pkg/compactdate"

// Diagnosis references its patient by a plain numeric foreign key; the
// backend enforces no referential integrity, so consistency around these
// keys is entirely the client's problem.
type Diagnosis struct {
	ID            int              `json:"id"`
	PatientID     int              `json:"patient_id"`
	Condition     string           `json:"condition"`
	DiagnosisDate compactdate.Date `json:"diagnosis_date"`
}

type CreateDiagnosisRequest struct {
	PatientID     int              `json:"patient_id" validate:"required,gt=0"`
	Condition     string           `json:"condition" validate:"required"`
	DiagnosisDate compactdate.Date `json:"diagnosis_date" validate:"required"`
}

type UpdateDiagnosisRequest struct {
	Condition     *string           `json:"condition,omitempty"`
	DiagnosisDate *compactdate.Date `json:"diagnosis_date,omitempty"`
}
