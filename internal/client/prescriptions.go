package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwalitptl/clinic-client/internal/model"
)

func (c *Client) ListPrescriptions(ctx context.Context) ([]model.Prescription, error) {
	var prescriptions []model.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescriptions", nil, nil, &prescriptions, false); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

// The *_id query filters below are advisory, like ListDiagnosesByPatient:
// callers re-check the foreign key on every returned record.

func (c *Client) ListPrescriptionsByPatient(ctx context.Context, patientID int) ([]model.Prescription, error) {
	return c.listPrescriptionsFiltered(ctx, "patient_id", patientID)
}

func (c *Client) ListPrescriptionsByDoctor(ctx context.Context, doctorID int) ([]model.Prescription, error) {
	return c.listPrescriptionsFiltered(ctx, "doctor_id", doctorID)
}

func (c *Client) ListPrescriptionsByDiagnosis(ctx context.Context, diagnosisID int) ([]model.Prescription, error) {
	return c.listPrescriptionsFiltered(ctx, "diagnosis_id", diagnosisID)
}

func (c *Client) listPrescriptionsFiltered(ctx context.Context, field string, id int) ([]model.Prescription, error) {
	query := url.Values{field: {strconv.Itoa(id)}}

	var prescriptions []model.Prescription
	if err := c.do(ctx, http.MethodGet, "/prescriptions", query, nil, &prescriptions, false); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions by %s=%d: %w", field, id, err)
	}
	return prescriptions, nil
}

func (c *Client) GetPrescription(ctx context.Context, id int) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prescriptions/%d", id), nil, nil, &prescription, false); err != nil {
		return nil, err
	}
	return &prescription, nil
}

func (c *Client) CreatePrescription(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var prescription model.Prescription
	if err := c.do(ctx, http.MethodPost, "/prescriptions", nil, req, &prescription, false); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	return &prescription, nil
}

func (c *Client) UpdatePrescription(ctx context.Context, id int, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var prescription model.Prescription
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/prescriptions/%d", id), nil, req, &prescription, false); err != nil {
		return nil, fmt.Errorf("failed to update prescription %d: %w", id, err)
	}
	return &prescription, nil
}

func (c *Client) DeletePrescription(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/prescriptions/%d", id), nil, nil, nil, false)
}
