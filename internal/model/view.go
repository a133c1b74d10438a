package model

// Enriched records are read-only display projections: foreign keys resolved
// to names at fetch time, never written back to the backend.

type AppointmentView struct {
	Appointment
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
}

type PrescriptionView struct {
	Prescription
	DoctorName  string `json:"doctor_name"`
	PatientName string `json:"patient_name"`
}

type DiagnosisView struct {
	Diagnosis
	PatientName   string             `json:"patient_name"`
	Prescriptions []PrescriptionView `json:"prescriptions,omitempty"`
}
