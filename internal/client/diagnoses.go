package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwalitptl/clinic-client/internal/model"
)

func (c *Client) ListDiagnoses(ctx context.Context) ([]model.Diagnosis, error) {
	var diagnoses []model.Diagnosis
	if err := c.do(ctx, http.MethodGet, "/diagnoses", nil, nil, &diagnoses, false); err != nil {
		return nil, fmt.Errorf("failed to list diagnoses: %w", err)
	}
	return diagnoses, nil
}

// ListDiagnosesByPatient sends the patient_id query filter, but the filter
// is advisory: the backend is known to ignore it or return supersets.
// Callers must re-check patient_id on every record (the aggregator and the
// cascade orchestrator both do).
func (c *Client) ListDiagnosesByPatient(ctx context.Context, patientID int) ([]model.Diagnosis, error) {
	query := url.Values{"patient_id": {strconv.Itoa(patientID)}}

	var diagnoses []model.Diagnosis
	if err := c.do(ctx, http.MethodGet, "/diagnoses", query, nil, &diagnoses, false); err != nil {
		return nil, fmt.Errorf("failed to list diagnoses for patient %d: %w", patientID, err)
	}
	return diagnoses, nil
}

func (c *Client) GetDiagnosis(ctx context.Context, id int) (*model.Diagnosis, error) {
	var diagnosis model.Diagnosis
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/diagnoses/%d", id), nil, nil, &diagnosis, false); err != nil {
		return nil, err
	}
	return &diagnosis, nil
}

func (c *Client) CreateDiagnosis(ctx context.Context, req *model.CreateDiagnosisRequest) (*model.Diagnosis, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var diagnosis model.Diagnosis
	if err := c.do(ctx, http.MethodPost, "/diagnoses", nil, req, &diagnosis, false); err != nil {
		return nil, fmt.Errorf("failed to create diagnosis: %w", err)
	}
	return &diagnosis, nil
}

func (c *Client) UpdateDiagnosis(ctx context.Context, id int, req *model.UpdateDiagnosisRequest) (*model.Diagnosis, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var diagnosis model.Diagnosis
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/diagnoses/%d", id), nil, req, &diagnosis, false); err != nil {
		return nil, fmt.Errorf("failed to update diagnosis %d: %w", id, err)
	}
	return &diagnosis, nil
}

func (c *Client) DeleteDiagnosis(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/diagnoses/%d", id), nil, nil, nil, false)
}
