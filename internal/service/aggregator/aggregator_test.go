package aggregator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/pkg/compactdate"
)

func date(d, m, y int) compactdate.Date {
	return compactdate.Date{Year: y, Month: time.Month(m), Day: d}
}

func TestResolveAppointmentsUsesUnknownSentinel(t *testing.T) {
	doctors := DoctorNames([]model.Doctor{{ID: 1, FirstName: "Niamh", LastName: "Byrne"}})
	patients := PatientNames([]model.Patient{{ID: 2, FirstName: "Sean", LastName: "Kelly"}})

	appointments := []model.Appointment{
		{ID: 10, DoctorID: 1, PatientID: 2, AppointmentDate: date(3, 4, 24)},
		// doctor 9 is absent from the lookup: the row must still resolve,
		// with the sentinel name, rather than failing the batch
		{ID: 11, DoctorID: 9, PatientID: 2, AppointmentDate: date(4, 4, 24)},
	}

	views := ResolveAppointments(appointments, doctors, patients)
	require.Len(t, views, 2)

	assert.Equal(t, "Niamh Byrne", views[0].DoctorName)
	assert.Equal(t, "Sean Kelly", views[0].PatientName)
	assert.Equal(t, UnknownName, views[1].DoctorName)
	assert.Equal(t, "Sean Kelly", views[1].PatientName)
}

func TestResolveDoesNotMutateSource(t *testing.T) {
	appointments := []model.Appointment{{ID: 10, DoctorID: 1, PatientID: 2}}
	original := appointments[0]

	_ = ResolveAppointments(appointments, map[int]string{}, map[int]string{})
	assert.Equal(t, original, appointments[0])
}

func TestAttachDependentsRefiltersServerSupersets(t *testing.T) {
	// A diagnoses fetch for patient 5 that erroneously includes patient 7's
	// records: only patient 5's may survive.
	fetched := []model.Diagnosis{
		{ID: 1, PatientID: 5, Condition: "asthma"},
		{ID: 2, PatientID: 7, Condition: "eczema"},
		{ID: 3, PatientID: 5, Condition: "migraine"},
	}

	grouped := AttachDependents(5, fetched, func(d model.Diagnosis) int { return d.PatientID })
	require.Len(t, grouped, 1)
	require.Len(t, grouped[5], 2)
	assert.Equal(t, 1, grouped[5][0].ID)
	assert.Equal(t, 3, grouped[5][1].ID)
}

func TestForeignKeyFilterIsNumericEquality(t *testing.T) {
	prescriptions := []model.Prescription{
		{ID: 1, DiagnosisID: 10},
		{ID: 2, DiagnosisID: 100},
		{ID: 3, DiagnosisID: 10},
	}

	got := PrescriptionsForDiagnosis(prescriptions, 10)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestBuildPatientChart(t *testing.T) {
	patient := model.Patient{ID: 3, FirstName: "Aoife", LastName: "Walsh"}

	diagnoses := []model.Diagnosis{
		{ID: 10, PatientID: 3, Condition: "asthma"},
		{ID: 11, PatientID: 3, Condition: "hay fever"},
		{ID: 12, PatientID: 8, Condition: "not ours"}, // superset record
	}
	prescriptions := []model.Prescription{
		{ID: 20, PatientID: 3, DiagnosisID: 10, DoctorID: 1, Medication: "salbutamol"},
		{ID: 21, PatientID: 3, DiagnosisID: 10, DoctorID: 9, Medication: "beclometasone"},
		{ID: 22, PatientID: 8, DiagnosisID: 12, Medication: "not ours"},
	}
	doctors := map[int]string{1: "Niamh Byrne"}

	chart := BuildPatientChart(patient, diagnoses, prescriptions, doctors)

	require.Len(t, chart.Diagnoses, 2)
	asthma := chart.Diagnoses[0]
	assert.Equal(t, "asthma", asthma.Condition)
	require.Len(t, asthma.Prescriptions, 2)
	assert.Equal(t, "Niamh Byrne", asthma.Prescriptions[0].DoctorName)
	assert.Equal(t, UnknownName, asthma.Prescriptions[1].DoctorName)

	assert.Equal(t, "hay fever", chart.Diagnoses[1].Condition)
	assert.Empty(t, chart.Diagnoses[1].Prescriptions)
}
