// Package cascade removes a doctor or patient together with every record
// that references it. The backend refuses to delete a parent with
// dependents (409) but will not remove them itself, offers no transactions,
// and its list filters cannot be trusted, so the orchestrator discovers
// dependents itself, deletes leaf-first, and only then touches the parent.
//
// The operation is at-least-once and non-atomic: a failure partway leaves
// already-deleted dependents deleted. Callers retry the whole operation;
// a 404 on a dependent that vanished in an earlier attempt counts as
// success, so retries converge.
package cascade

import (
	"context"
	"fmt"
	"sync"

	"github.com/jwalitptl/clinic-client/internal/model"
	"github.com/jwalitptl/clinic-client/internal/service/aggregator"
	apperrors "github.com/jwalitptl/clinic-client/pkg/errors"
	"github.com/jwalitptl/clinic-client/pkg/logger"
	"github.com/jwalitptl/clinic-client/pkg/metrics"
)

// State is the phase a deletion request is in
type State string

const (
	StateIdle               State = "idle"
	StateDiscovering        State = "discovering_dependents"
	StateDeletingDependents State = "deleting_dependents"
	StateDeletingParent     State = "deleting_parent"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

type Resource string

const (
	ResourceAppointment  Resource = "appointment"
	ResourceDiagnosis    Resource = "diagnosis"
	ResourcePrescription Resource = "prescription"
	ResourceDoctor       Resource = "doctor"
	ResourcePatient      Resource = "patient"
)

// RecordRef identifies one record across resource types
type RecordRef struct {
	Resource Resource
	ID       int
}

func (r RecordRef) String() string {
	return fmt.Sprintf("%s/%d", r.Resource, r.ID)
}

// Failure is one dependent deletion that did not go through
type Failure struct {
	Ref RecordRef
	Err error
}

// Result reports per-record outcomes for a whole cascade, so a caller can
// distinguish partial success from total failure and retry only the
// remainder. Never a bare failed boolean.
type Result struct {
	Parent        RecordRef
	State         State
	ParentDeleted bool

	// Deleted holds every dependent confirmed gone, including records that
	// were already absent (404 treated as success on retry).
	Deleted []RecordRef
	// Failed holds dependents whose deletion was attempted and refused.
	Failed []Failure
	// Remaining holds records discovered but never attempted, such as a
	// diagnosis whose prescriptions could not be removed first.
	Remaining []RecordRef
}

// Err summarises the result as a single error, nil when the cascade is Done
func (r *Result) Err() error {
	if r.State == StateDone {
		return nil
	}
	if len(r.Failed) > 0 {
		first := r.Failed[0]
		return fmt.Errorf("cascade delete of %s stopped at %s: %w", r.Parent, first.Ref, first.Err)
	}
	return fmt.Errorf("cascade delete of %s failed", r.Parent)
}

// API is the slice of the clinic client the orchestrator needs
type API interface {
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	ListAppointmentsByDoctor(ctx context.Context, doctorID int) ([]model.Appointment, error)
	ListDiagnosesByPatient(ctx context.Context, patientID int) ([]model.Diagnosis, error)
	ListPrescriptions(ctx context.Context) ([]model.Prescription, error)
	ListPrescriptionsByDoctor(ctx context.Context, doctorID int) ([]model.Prescription, error)

	DeleteAppointment(ctx context.Context, id int) error
	DeleteDiagnosis(ctx context.Context, id int) error
	DeletePrescription(ctx context.Context, id int) error
	DeleteDoctor(ctx context.Context, id int) error
	DeletePatient(ctx context.Context, id int) error
}

type Orchestrator struct {
	api          API
	log          *logger.Logger
	metrics      *metrics.Metrics
	onTransition func(parent RecordRef, s State)
}

type Option func(*Orchestrator)

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTransitionHook registers an observer for state changes. The hook may
// fire after the caller has moved on (for instance when a context is
// cancelled mid-flight and stragglers settle late); it must tolerate that
// and is called without any lock held.
func WithTransitionHook(fn func(parent RecordRef, s State)) Option {
	return func(o *Orchestrator) { o.onTransition = fn }
}

func New(api API, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{api: api, log: log}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run tracks one deletion request through the state machine
type run struct {
	o      *Orchestrator
	mu     sync.Mutex
	result *Result
}

func (o *Orchestrator) newRun(parent RecordRef) *run {
	return &run{
		o: o,
		result: &Result{
			Parent: parent,
			State:  StateIdle,
		},
	}
}

func (r *run) transition(s State) {
	r.mu.Lock()
	r.result.State = s
	r.mu.Unlock()

	r.o.log.Debug("cascade state change", "parent", r.result.Parent.String(), "state", string(s))
	if r.o.onTransition != nil {
		r.o.onTransition(r.result.Parent, s)
	}
}

// deleteBatch issues one DELETE per record concurrently and records the
// outcomes. A 404 means the record was already removed, typically by an
// earlier attempt of the same cascade, and counts as deleted.
func (r *run) deleteBatch(ctx context.Context, refs []RecordRef, del func(context.Context, int) error) {
	var wg sync.WaitGroup
	for _, ref := range refs {
		wg.Add(1)
		go func(ref RecordRef) {
			defer wg.Done()

			err := del(ctx, ref.ID)
			if err != nil && apperrors.IsNotFound(err) {
				r.o.log.Debug("dependent already gone", "record", ref.String())
				err = nil
			}

			r.mu.Lock()
			defer r.mu.Unlock()
			if err != nil {
				r.result.Failed = append(r.result.Failed, Failure{Ref: ref, Err: err})
				return
			}
			r.result.Deleted = append(r.result.Deleted, ref)
			if r.o.metrics != nil {
				r.o.metrics.DependentsDeleted.WithLabelValues(string(ref.Resource)).Inc()
			}
		}(ref)
	}
	wg.Wait()
}

func (r *run) failedSet() map[RecordRef]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := make(map[RecordRef]bool, len(r.result.Failed))
	for _, f := range r.result.Failed {
		set[f.Ref] = true
	}
	return set
}

func (r *run) addRemaining(refs ...RecordRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.result.Remaining = append(r.result.Remaining, refs...)
}

func (r *run) hasFailures() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.result.Failed) > 0
}

func (o *Orchestrator) countRun(parent Resource, result *Result) {
	if o.metrics == nil {
		return
	}
	outcome := "done"
	if result.State != StateDone {
		outcome = "failed"
	}
	o.metrics.CascadeRuns.WithLabelValues(string(parent), outcome).Inc()
}

// DeleteDoctor cascades a doctor: appointments and prescriptions referencing
// the doctor go first, concurrently (no ordering constraint between the two
// types), then the doctor itself. Diagnoses carry no doctor foreign key, so
// the doctor side has no transitive dependents.
func (o *Orchestrator) DeleteDoctor(ctx context.Context, id int) (*Result, error) {
	parent := RecordRef{Resource: ResourceDoctor, ID: id}
	r := o.newRun(parent)
	defer o.countRun(ResourceDoctor, r.result)

	r.transition(StateDiscovering)

	var (
		wg            sync.WaitGroup
		appointments  []model.Appointment
		prescriptions []model.Prescription
		apptErr       error
		presErr       error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		appointments, apptErr = o.api.ListAppointmentsByDoctor(ctx, id)
	}()
	go func() {
		defer wg.Done()
		prescriptions, presErr = o.api.ListPrescriptionsByDoctor(ctx, id)
	}()
	wg.Wait()

	if apptErr != nil || presErr != nil {
		r.transition(StateFailed)
		err := apptErr
		if err == nil {
			err = presErr
		}
		return r.result, fmt.Errorf("failed to discover dependents of doctor %d: %w", id, err)
	}

	// The server-side doctor_id filters are advisory; re-check every record.
	apptRefs := refsOf(ResourceAppointment, aggregator.AppointmentsForDoctor(appointments, id),
		func(a model.Appointment) int { return a.ID })
	presRefs := refsOf(ResourcePrescription, aggregator.PrescriptionsForDoctor(prescriptions, id),
		func(p model.Prescription) int { return p.ID })

	r.transition(StateDeletingDependents)

	var batches sync.WaitGroup
	batches.Add(2)
	go func() {
		defer batches.Done()
		r.deleteBatch(ctx, apptRefs, o.api.DeleteAppointment)
	}()
	go func() {
		defer batches.Done()
		r.deleteBatch(ctx, presRefs, o.api.DeletePrescription)
	}()
	batches.Wait()

	if r.hasFailures() {
		r.addRemaining(parent)
		r.transition(StateFailed)
		return r.result, r.result.Err()
	}

	return o.deleteParent(ctx, r, o.api.DeleteDoctor)
}

// DeletePatient cascades a patient. Appointments, prescriptions and
// diagnoses all reference patients; prescriptions must go before the
// diagnoses that own them (leaf-first), while appointments run concurrently
// with prescriptions. All dependent deletions are settled behind a join
// barrier before the patient delete is issued.
func (o *Orchestrator) DeletePatient(ctx context.Context, id int) (*Result, error) {
	parent := RecordRef{Resource: ResourcePatient, ID: id}
	r := o.newRun(parent)
	defer o.countRun(ResourcePatient, r.result)

	r.transition(StateDiscovering)

	var (
		wg            sync.WaitGroup
		appointments  []model.Appointment
		diagnoses     []model.Diagnosis
		prescriptions []model.Prescription
		apptErr       error
		diagErr       error
		presErr       error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		// Appointments expose no patient_id filter at all; fetch everything
		// and filter here.
		appointments, apptErr = o.api.ListAppointments(ctx)
	}()
	go func() {
		defer wg.Done()
		diagnoses, diagErr = o.api.ListDiagnosesByPatient(ctx, id)
	}()
	go func() {
		defer wg.Done()
		// A prescription can reference the patient directly or hang off one
		// of the patient's diagnoses; the full list covers both without
		// trusting any server-side filter.
		prescriptions, presErr = o.api.ListPrescriptions(ctx)
	}()
	wg.Wait()

	if apptErr != nil || diagErr != nil || presErr != nil {
		r.transition(StateFailed)
		err := apptErr
		if err == nil {
			err = diagErr
		}
		if err == nil {
			err = presErr
		}
		return r.result, fmt.Errorf("failed to discover dependents of patient %d: %w", id, err)
	}

	ownedAppointments := aggregator.AppointmentsForPatient(appointments, id)
	ownedDiagnoses := aggregator.DiagnosesForPatient(diagnoses, id)

	diagnosisIDs := make(map[int]bool, len(ownedDiagnoses))
	for _, d := range ownedDiagnoses {
		diagnosisIDs[d.ID] = true
	}

	var ownedPrescriptions []model.Prescription
	for _, p := range prescriptions {
		if p.PatientID == id || diagnosisIDs[p.DiagnosisID] {
			ownedPrescriptions = append(ownedPrescriptions, p)
		}
	}

	apptRefs := refsOf(ResourceAppointment, ownedAppointments,
		func(a model.Appointment) int { return a.ID })
	presRefs := refsOf(ResourcePrescription, ownedPrescriptions,
		func(p model.Prescription) int { return p.ID })

	r.transition(StateDeletingDependents)

	var batches sync.WaitGroup
	batches.Add(2)
	go func() {
		defer batches.Done()
		r.deleteBatch(ctx, apptRefs, o.api.DeleteAppointment)
	}()
	go func() {
		defer batches.Done()
		r.deleteBatch(ctx, presRefs, o.api.DeletePrescription)
	}()
	batches.Wait()

	// Leaf-first: a diagnosis is only eligible once every prescription that
	// referenced it is confirmed gone. Diagnoses blocked by a failed
	// prescription are reported as remaining, not attempted.
	failed := r.failedSet()
	blocked := make(map[int]bool)
	for _, p := range ownedPrescriptions {
		if failed[RecordRef{Resource: ResourcePrescription, ID: p.ID}] {
			blocked[p.DiagnosisID] = true
		}
	}

	var diagRefs []RecordRef
	for _, d := range ownedDiagnoses {
		ref := RecordRef{Resource: ResourceDiagnosis, ID: d.ID}
		if blocked[d.ID] {
			r.addRemaining(ref)
			continue
		}
		diagRefs = append(diagRefs, ref)
	}

	r.deleteBatch(ctx, diagRefs, o.api.DeleteDiagnosis)

	if r.hasFailures() {
		r.addRemaining(parent)
		r.transition(StateFailed)
		return r.result, r.result.Err()
	}

	return o.deleteParent(ctx, r, o.api.DeletePatient)
}

// deleteParent is entered only once every dependent deletion has settled
// successfully. A 404 on the parent means a previous attempt got this far;
// the retry still completes as Done.
func (o *Orchestrator) deleteParent(ctx context.Context, r *run, del func(context.Context, int) error) (*Result, error) {
	r.transition(StateDeletingParent)

	err := del(ctx, r.result.Parent.ID)
	if err != nil && apperrors.IsNotFound(err) {
		o.log.Debug("parent already gone", "record", r.result.Parent.String())
		err = nil
	}
	if err != nil {
		r.mu.Lock()
		r.result.Failed = append(r.result.Failed, Failure{Ref: r.result.Parent, Err: err})
		r.mu.Unlock()
		r.transition(StateFailed)
		return r.result, r.result.Err()
	}

	r.mu.Lock()
	r.result.ParentDeleted = true
	r.mu.Unlock()
	r.transition(StateDone)

	o.log.Info("cascade delete complete",
		"parent", r.result.Parent.String(),
		"dependents_deleted", len(r.result.Deleted))
	return r.result, nil
}

func refsOf[T any](resource Resource, items []T, id func(T) int) []RecordRef {
	refs := make([]RecordRef, 0, len(items))
	for _, item := range items {
		refs = append(refs, RecordRef{Resource: resource, ID: id(item)})
	}
	return refs
}
