// Package aggregator stitches records from independent resource collections
// into denormalized display views. The backend performs no joins and its
// query-parameter filtering cannot be trusted, so every join and every
// foreign-key filter happens here, over already-fetched in-memory data.
// Nothing in this package performs I/O.
package aggregator

import (
	"github.com/jwalitptl/clinic-client/internal/model"
)

// UnknownName is attached when a foreign key cannot be resolved against the
// lookup collection. One missing doctor must not blank an entire list.
const UnknownName = "Unknown"

// DoctorNames builds an id -> "First Last" lookup table
func DoctorNames(doctors []model.Doctor) map[int]string {
	names := make(map[int]string, len(doctors))
	for _, d := range doctors {
		names[d.ID] = d.DisplayName()
	}
	return names
}

// PatientNames builds an id -> "First Last" lookup table
func PatientNames(patients []model.Patient) map[int]string {
	names := make(map[int]string, len(patients))
	for _, p := range patients {
		names[p.ID] = p.DisplayName()
	}
	return names
}

func nameFor(id int, names map[int]string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return UnknownName
}

// ResolveAppointments attaches doctor and patient display names to each
// appointment. Source records are copied, never mutated.
func ResolveAppointments(appointments []model.Appointment, doctors, patients map[int]string) []model.AppointmentView {
	views := make([]model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, model.AppointmentView{
			Appointment: a,
			DoctorName:  nameFor(a.DoctorID, doctors),
			PatientName: nameFor(a.PatientID, patients),
		})
	}
	return views
}

// ResolvePrescriptions attaches doctor and patient display names
func ResolvePrescriptions(prescriptions []model.Prescription, doctors, patients map[int]string) []model.PrescriptionView {
	views := make([]model.PrescriptionView, 0, len(prescriptions))
	for _, p := range prescriptions {
		views = append(views, model.PrescriptionView{
			Prescription: p,
			DoctorName:   nameFor(p.DoctorID, doctors),
			PatientName:  nameFor(p.PatientID, patients),
		})
	}
	return views
}

// ResolveDiagnoses attaches patient display names
func ResolveDiagnoses(diagnoses []model.Diagnosis, patients map[int]string) []model.DiagnosisView {
	views := make([]model.DiagnosisView, 0, len(diagnoses))
	for _, d := range diagnoses {
		views = append(views, model.DiagnosisView{
			Diagnosis:   d,
			PatientName: nameFor(d.PatientID, patients),
		})
	}
	return views
}

// AttachDependents filters a fetched child collection down to the records
// whose foreign key actually equals parentID, grouped under that id. The
// re-filter is mandatory even when the fetch used a server-side query
// filter: the backend sometimes ignores those and returns supersets.
func AttachDependents[C any](parentID int, children []C, foreignKey func(C) int) map[int][]C {
	grouped := make(map[int][]C)
	for _, child := range children {
		if foreignKey(child) == parentID {
			grouped[parentID] = append(grouped[parentID], child)
		}
	}
	return grouped
}

// FilterByForeignKey is AttachDependents without the grouping envelope
func FilterByForeignKey[C any](parentID int, children []C, foreignKey func(C) int) []C {
	var filtered []C
	for _, child := range children {
		if foreignKey(child) == parentID {
			filtered = append(filtered, child)
		}
	}
	return filtered
}

func DiagnosesForPatient(diagnoses []model.Diagnosis, patientID int) []model.Diagnosis {
	return FilterByForeignKey(patientID, diagnoses, func(d model.Diagnosis) int { return d.PatientID })
}

func PrescriptionsForPatient(prescriptions []model.Prescription, patientID int) []model.Prescription {
	return FilterByForeignKey(patientID, prescriptions, func(p model.Prescription) int { return p.PatientID })
}

func PrescriptionsForDiagnosis(prescriptions []model.Prescription, diagnosisID int) []model.Prescription {
	return FilterByForeignKey(diagnosisID, prescriptions, func(p model.Prescription) int { return p.DiagnosisID })
}

func AppointmentsForDoctor(appointments []model.Appointment, doctorID int) []model.Appointment {
	return FilterByForeignKey(doctorID, appointments, func(a model.Appointment) int { return a.DoctorID })
}

func AppointmentsForPatient(appointments []model.Appointment, patientID int) []model.Appointment {
	return FilterByForeignKey(patientID, appointments, func(a model.Appointment) int { return a.PatientID })
}

func PrescriptionsForDoctor(prescriptions []model.Prescription, doctorID int) []model.Prescription {
	return FilterByForeignKey(doctorID, prescriptions, func(p model.Prescription) int { return p.DoctorID })
}

// PatientChart is the fully joined view of one patient: diagnoses with
// their prescriptions nested under them, doctor names resolved.
type PatientChart struct {
	Patient   model.Patient
	Diagnoses []model.DiagnosisView
}

// BuildPatientChart assembles a chart from independently fetched
// collections. Diagnoses and prescriptions are re-filtered against the
// patient id; prescriptions attach to a diagnosis only through a matching
// diagnosis_id.
func BuildPatientChart(patient model.Patient, diagnoses []model.Diagnosis, prescriptions []model.Prescription, doctors map[int]string) *PatientChart {
	patientName := patient.DisplayName()
	owned := DiagnosesForPatient(diagnoses, patient.ID)

	chart := &PatientChart{
		Patient:   patient,
		Diagnoses: make([]model.DiagnosisView, 0, len(owned)),
	}

	for _, d := range owned {
		entry := model.DiagnosisView{
			Diagnosis:   d,
			PatientName: patientName,
		}
		for _, p := range PrescriptionsForDiagnosis(prescriptions, d.ID) {
			entry.Prescriptions = append(entry.Prescriptions, model.PrescriptionView{
				Prescription: p,
				DoctorName:   nameFor(p.DoctorID, doctors),
				PatientName:  patientName,
			})
		}
		chart.Diagnoses = append(chart.Diagnoses, entry)
	}

	return chart
}
