package model

import "github.com/jwalitptl/clinic-client/pkg/compactdate"

type Prescription struct {
	ID          int              `json:"id"`
	PatientID   int              `json:"patient_id"`
	DoctorID    int              `json:"doctor_id"`
	DiagnosisID int              `json:"diagnosis_id"`
	Medication  string           `json:"medication"`
	Dosage      string           `json:"dosage"`
	StartDate   compactdate.Date `json:"start_date"`
	EndDate     compactdate.Date `json:"end_date"`
}

type CreatePrescriptionRequest struct {
	PatientID   int              `json:"patient_id" validate:"required,gt=0"`
	DoctorID    int              `json:"doctor_id" validate:"required,gt=0"`
	DiagnosisID int              `json:"diagnosis_id" validate:"required,gt=0"`
	Medication  string           `json:"medication" validate:"required"`
	Dosage      string           `json:"dosage" validate:"required"`
	StartDate   compactdate.Date `json:"start_date" validate:"required"`
	EndDate     compactdate.Date `json:"end_date" validate:"required"`
}

type UpdatePrescriptionRequest struct {
	Medication *string           `json:"medication,omitempty"`
	Dosage     *string           `json:"dosage,omitempty"`
	StartDate  *compactdate.Date `json:"start_date,omitempty"`
	EndDate    *compactdate.Date `json:"end_date,omitempty"`
}
