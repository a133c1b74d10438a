package model

import "github.com/jwalitptl/clinic-client/pkg/compactdate"

type Appointment struct {
	ID              int              `json:"id"`
	PatientID       int              `json:"patient_id"`
	DoctorID        int              `json:"doctor_id"`
	AppointmentDate compactdate.Date `json:"appointment_date"`
}

type CreateAppointmentRequest struct {
	PatientID       int              `json:"patient_id" validate:"required,gt=0"`
	DoctorID        int              `json:"doctor_id" validate:"required,gt=0"`
	AppointmentDate compactdate.Date `json:"appointment_date" validate:"required"`
}

type UpdateAppointmentRequest struct {
	PatientID       *int              `json:"patient_id,omitempty" validate:"omitempty,gt=0"`
	DoctorID        *int              `json:"doctor_id,omitempty" validate:"omitempty,gt=0"`
	AppointmentDate *compactdate.Date `json:"appointment_date,omitempty"`
}
