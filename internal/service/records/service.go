// Package records fetches resource collections through the API client and
// hands them to the aggregator for joining. It owns the awaiting
// discipline: independent fetches for the same view run concurrently, and
// nothing here holds state between calls, so an abandoned view simply lets
// its in-flight requests finish unobserved.
package records

import (
	"context"
	"sync"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/service/aggregator"
	apperrors "github.com/jwalitptl/clinic-client/pkg/errors"
	"github.com/jwalitptl/clinic-client/pkg/logger"
)

// API is the slice of the clinic client this service reads through
type API interface {
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	ListPatients(ctx context.Context) ([]model.Patient, error)
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	ListDiagnoses(ctx context.Context) ([]model.Diagnosis, error)
	ListPrescriptions(ctx context.Context) ([]model.Prescription, error)
	GetPatient(ctx context.Context, id int) (*model.Patient, error)
	GetDoctor(ctx context.Context, id int) (*model.Doctor, error)
	ListDiagnosesByPatient(ctx context.Context, patientID int) ([]model.Diagnosis, error)
	ListPrescriptionsByPatient(ctx context.Context, patientID int) ([]model.Prescription, error)
}

type Service struct {
	api API
	log *logger.Logger
}

func NewService(api API, log *logger.Logger) *Service {
	return &Service{api: api, log: log}
}

// lookups fetches the doctor and patient name tables concurrently; the two
// reads are independent and share no mutable state.
func (s *Service) lookups(ctx context.Context) (doctors, patients map[int]string, err error) {
	var (
		wg          sync.WaitGroup
		doctorList  []model.Doctor
		patientList []model.Patient
		doctorErr   error
		patientErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		doctorList, doctorErr = s.api.ListDoctors(ctx)
	}()
	go func() {
		defer wg.Done()
		patientList, patientErr = s.api.ListPatients(ctx)
	}()
	wg.Wait()

	if doctorErr != nil {
		return nil, nil, doctorErr
	}
	if patientErr != nil {
		return nil, nil, patientErr
	}
	return aggregator.DoctorNames(doctorList), aggregator.PatientNames(patientList), nil
}

// AppointmentSchedule returns every appointment with doctor and patient
// names attached, ready for filtering and pagination.
func (s *Service) AppointmentSchedule(ctx context.Context) ([]model.AppointmentView, error) {
	var (
		wg           sync.WaitGroup
		appointments []model.Appointment
		apptErr      error
		doctors      map[int]string
		patients     map[int]string
		lookupErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		appointments, apptErr = s.api.ListAppointments(ctx)
	}()
	go func() {
		defer wg.Done()
		doctors, patients, lookupErr = s.lookups(ctx)
	}()
	wg.Wait()

	if apptErr != nil {
		return nil, apptErr
	}
	if lookupErr != nil {
		return nil, lookupErr
	}

	return aggregator.ResolveAppointments(appointments, doctors, patients), nil
}

// PrescriptionList returns every prescription with names attached
func (s *Service) PrescriptionList(ctx context.Context) ([]model.PrescriptionView, error) {
	var (
		wg            sync.WaitGroup
		prescriptions []model.Prescription
		presErr       error
		doctors       map[int]string
		patients      map[int]string
		lookupErr     error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		prescriptions, presErr = s.api.ListPrescriptions(ctx)
	}()
	go func() {
		defer wg.Done()
		doctors, patients, lookupErr = s.lookups(ctx)
	}()
	wg.Wait()

	if presErr != nil {
		return nil, presErr
	}
	if lookupErr != nil {
		return nil, lookupErr
	}

	return aggregator.ResolvePrescriptions(prescriptions, doctors, patients), nil
}

// DiagnosisList returns every diagnosis with the patient name attached
func (s *Service) DiagnosisList(ctx context.Context) ([]model.DiagnosisView, error) {
	var (
		wg        sync.WaitGroup
		diagnoses []model.Diagnosis
		diagErr   error
		patients  []model.Patient
		patErr    error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		diagnoses, diagErr = s.api.ListDiagnoses(ctx)
	}()
	go func() {
		defer wg.Done()
		patients, patErr = s.api.ListPatients(ctx)
	}()
	wg.Wait()

	if diagErr != nil {
		return nil, diagErr
	}
	if patErr != nil {
		return nil, patErr
	}

	return aggregator.ResolveDiagnoses(diagnoses, aggregator.PatientNames(patients)), nil
}

// PatientChart assembles the joined single-patient view: the patient, their
// diagnoses, and each diagnosis's prescriptions with doctor names resolved.
// Only the doctors actually referenced by the prescriptions are fetched; a
// doctor that no longer exists resolves to the Unknown sentinel instead of
// failing the chart.
func (s *Service) PatientChart(ctx context.Context, patientID int) (*aggregator.PatientChart, error) {
	patient, err := s.api.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	var (
		wg            sync.WaitGroup
		diagnoses     []model.Diagnosis
		diagErr       error
		prescriptions []model.Prescription
		presErr       error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		diagnoses, diagErr = s.api.ListDiagnosesByPatient(ctx, patientID)
	}()
	go func() {
		defer wg.Done()
		prescriptions, presErr = s.api.ListPrescriptionsByPatient(ctx, patientID)
	}()
	wg.Wait()

	if diagErr != nil {
		return nil, diagErr
	}
	if presErr != nil {
		return nil, presErr
	}

	doctors := s.doctorNamesFor(ctx, prescriptions)
	return aggregator.BuildPatientChart(*patient, diagnoses, prescriptions, doctors), nil
}

// doctorNamesFor resolves the unique doctor ids referenced by a set of
// prescriptions, one concurrent GET per doctor. Lookup misses are left out
// of the table so the aggregator falls back to Unknown; a missing doctor
// must not blank the whole chart.
func (s *Service) doctorNamesFor(ctx context.Context, prescriptions []model.Prescription) map[int]string {
	unique := make(map[int]bool)
	for _, p := range prescriptions {
		unique[p.DoctorID] = true
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = make(map[int]string, len(unique))
	)
	for id := range unique {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			doctor, err := s.api.GetDoctor(ctx, id)
			if err != nil {
				if !apperrors.IsNotFound(err) {
					s.log.Warn("doctor lookup failed", "doctor_id", id, "error", err.Error())
				}
				return
			}
			mu.Lock()
			names[doctor.ID] = doctor.DisplayName()
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return names
}
