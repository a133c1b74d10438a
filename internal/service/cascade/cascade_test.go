package cascade

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-client/internal/model"
	apperrors "github.com/jwalitptl/clinic-client/pkg/errors"
	"github.com/jwalitptl/clinic-client/pkg/logger"
)

// fakeAPI is an in-memory stand-in for the clinic client. It logs deletion
// order and can be told to fail or 404 specific records.
type fakeAPI struct {
	mu sync.Mutex

	appointments  []model.Appointment
	diagnoses     []model.Diagnosis
	prescriptions []model.Prescription

	gone    map[string]bool  // respond 404
	fail    map[string]error // respond with this error
	listErr map[string]error // fail a whole list fetch

	deleted []string // successful deletions, in completion order
}

func key(resource string, id int) string { return fmt.Sprintf("%s/%d", resource, id) }

func (f *fakeAPI) delete(resource string, id int) error {
	k := key(resource, id)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.fail[k]; ok {
		return err
	}
	if f.gone[k] {
		return apperrors.NewNotFound(resource, nil)
	}
	f.deleted = append(f.deleted, k)
	return nil
}

func (f *fakeAPI) deletedIndex(resource string, id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, k := range f.deleted {
		if k == key(resource, id) {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	if err := f.listErr["appointments"]; err != nil {
		return nil, err
	}
	return f.appointments, nil
}

func (f *fakeAPI) ListAppointmentsByDoctor(ctx context.Context, doctorID int) ([]model.Appointment, error) {
	// Deliberately sloppy, like the real backend: ignores the filter and
	// returns everything. The orchestrator must re-filter.
	return f.ListAppointments(ctx)
}

func (f *fakeAPI) ListDiagnosesByPatient(ctx context.Context, patientID int) ([]model.Diagnosis, error) {
	if err := f.listErr["diagnoses"]; err != nil {
		return nil, err
	}
	return f.diagnoses, nil
}

func (f *fakeAPI) ListPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	if err := f.listErr["prescriptions"]; err != nil {
		return nil, err
	}
	return f.prescriptions, nil
}

func (f *fakeAPI) ListPrescriptionsByDoctor(ctx context.Context, doctorID int) ([]model.Prescription, error) {
	return f.ListPrescriptions(ctx)
}

func (f *fakeAPI) DeleteAppointment(ctx context.Context, id int) error {
	return f.delete("appointment", id)
}
func (f *fakeAPI) DeleteDiagnosis(ctx context.Context, id int) error {
	return f.delete("diagnosis", id)
}
func (f *fakeAPI) DeletePrescription(ctx context.Context, id int) error {
	return f.delete("prescription", id)
}
func (f *fakeAPI) DeleteDoctor(ctx context.Context, id int) error {
	return f.delete("doctor", id)
}
func (f *fakeAPI) DeletePatient(ctx context.Context, id int) error {
	return f.delete("patient", id)
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

// patientFixture: patient 3 owns diagnosis 10, which owns prescription 20,
// plus appointment 30. Records for other patients are mixed in to prove
// the client-side re-filter.
func patientFixture() *fakeAPI {
	return &fakeAPI{
		appointments: []model.Appointment{
			{ID: 30, PatientID: 3, DoctorID: 1},
			{ID: 31, PatientID: 4, DoctorID: 1}, // other patient, must survive
		},
		diagnoses: []model.Diagnosis{
			{ID: 10, PatientID: 3},
			{ID: 11, PatientID: 4}, // other patient, must survive
		},
		prescriptions: []model.Prescription{
			{ID: 20, PatientID: 3, DiagnosisID: 10, DoctorID: 1},
			{ID: 21, PatientID: 4, DiagnosisID: 11, DoctorID: 1}, // other patient
		},
	}
}

func TestPatientCascadeDeletesLeafFirst(t *testing.T) {
	api := patientFixture()
	o := New(api, testLogger())

	result, err := o.DeletePatient(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.True(t, result.ParentDeleted)

	pres := api.deletedIndex("prescription", 20)
	diag := api.deletedIndex("diagnosis", 10)
	parent := api.deletedIndex("patient", 3)
	appt := api.deletedIndex("appointment", 30)

	require.NotEqual(t, -1, pres)
	require.NotEqual(t, -1, diag)
	require.NotEqual(t, -1, parent)
	require.NotEqual(t, -1, appt)

	// leaf-first: prescription before its diagnosis, both before the parent
	assert.Less(t, pres, diag)
	assert.Less(t, diag, parent)
	assert.Less(t, appt, parent)

	// other patients' records untouched
	assert.Equal(t, -1, api.deletedIndex("appointment", 31))
	assert.Equal(t, -1, api.deletedIndex("diagnosis", 11))
	assert.Equal(t, -1, api.deletedIndex("prescription", 21))
}

func TestPrescriptionFailureLeavesDiagnosisAndParent(t *testing.T) {
	api := patientFixture()
	api.fail = map[string]error{
		"prescription/20": apperrors.NewNetwork(fmt.Errorf("connection reset")),
	}
	o := New(api, testLogger())

	result, err := o.DeletePatient(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, StateFailed, result.State)
	assert.False(t, result.ParentDeleted)

	// the diagnosis owning the failed prescription was never attempted
	assert.Equal(t, -1, api.deletedIndex("diagnosis", 10))
	assert.Equal(t, -1, api.deletedIndex("patient", 3))

	require.Len(t, result.Failed, 1)
	assert.Equal(t, RecordRef{Resource: ResourcePrescription, ID: 20}, result.Failed[0].Ref)
	assert.Contains(t, result.Remaining, RecordRef{Resource: ResourceDiagnosis, ID: 10})
	assert.Contains(t, result.Remaining, RecordRef{Resource: ResourcePatient, ID: 3})
}

func TestRetryTreats404AsSuccess(t *testing.T) {
	// A previous attempt already removed the prescription and appointment;
	// the retry must treat the 404s as success and complete.
	api := patientFixture()
	api.gone = map[string]bool{
		"prescription/20": true,
		"appointment/30":  true,
	}
	o := New(api, testLogger())

	result, err := o.DeletePatient(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
	assert.True(t, result.ParentDeleted)

	// already-gone dependents are reported as deleted, not failed
	assert.Contains(t, result.Deleted, RecordRef{Resource: ResourcePrescription, ID: 20})
	assert.Contains(t, result.Deleted, RecordRef{Resource: ResourceAppointment, ID: 30})
	assert.Empty(t, result.Failed)

	assert.NotEqual(t, -1, api.deletedIndex("diagnosis", 10))
	assert.NotEqual(t, -1, api.deletedIndex("patient", 3))
}

func TestRetryTreatsParent404AsSuccess(t *testing.T) {
	api := patientFixture()
	api.gone = map[string]bool{
		"prescription/20": true,
		"appointment/30":  true,
		"diagnosis/10":    true,
		"patient/3":       true,
	}
	o := New(api, testLogger())

	result, err := o.DeletePatient(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)
}

func TestDoctorCascadeRefiltersAndOrders(t *testing.T) {
	api := &fakeAPI{
		appointments: []model.Appointment{
			{ID: 40, DoctorID: 7, PatientID: 1},
			{ID: 41, DoctorID: 8, PatientID: 1}, // other doctor, must survive
		},
		prescriptions: []model.Prescription{
			{ID: 50, DoctorID: 7, PatientID: 1, DiagnosisID: 1},
			{ID: 51, DoctorID: 8, PatientID: 1, DiagnosisID: 1},
		},
	}
	o := New(api, testLogger())

	result, err := o.DeleteDoctor(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StateDone, result.State)

	assert.NotEqual(t, -1, api.deletedIndex("appointment", 40))
	assert.NotEqual(t, -1, api.deletedIndex("prescription", 50))
	assert.Less(t, api.deletedIndex("appointment", 40), api.deletedIndex("doctor", 7))
	assert.Less(t, api.deletedIndex("prescription", 50), api.deletedIndex("doctor", 7))

	assert.Equal(t, -1, api.deletedIndex("appointment", 41))
	assert.Equal(t, -1, api.deletedIndex("prescription", 51))
}

func TestDiscoveryFailureDeletesNothing(t *testing.T) {
	api := patientFixture()
	api.listErr = map[string]error{
		"prescriptions": apperrors.NewNetwork(fmt.Errorf("timeout")),
	}
	o := New(api, testLogger())

	result, err := o.DeletePatient(context.Background(), 3)
	require.Error(t, err)
	assert.Equal(t, StateFailed, result.State)
	assert.Empty(t, api.deleted)
}

func TestTransitionHookObservesLifecycle(t *testing.T) {
	api := patientFixture()

	var mu sync.Mutex
	var states []State
	o := New(api, testLogger(), WithTransitionHook(func(parent RecordRef, s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}))

	_, err := o.DeletePatient(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateDiscovering,
		StateDeletingDependents,
		StateDeletingParent,
		StateDone,
	}, states)
}
