package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/clinic-client/internal/model"
)

const cacheKeyPatients = "patients"

// ListPatients reads the full patient collection, anonymously readable and
// cached like ListDoctors.
func (c *Client) ListPatients(ctx context.Context) ([]model.Patient, error) {
	if v, ok := c.cacheGet(cacheKeyPatients); ok {
		return v.([]model.Patient), nil
	}

	var patients []model.Patient
	if err := c.do(ctx, http.MethodGet, "/patients", nil, nil, &patients, true); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	c.cacheSet(cacheKeyPatients, patients)
	return patients, nil
}

func (c *Client) GetPatient(ctx context.Context, id int) (*model.Patient, error) {
	var patient model.Patient
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patients/%d", id), nil, nil, &patient, false); err != nil {
		return nil, err
	}
	return &patient, nil
}

func (c *Client) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var patient model.Patient
	if err := c.do(ctx, http.MethodPost, "/patients", nil, req, &patient, false); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	c.cacheDrop(cacheKeyPatients)
	return &patient, nil
}

func (c *Client) UpdatePatient(ctx context.Context, id int, req *model.UpdatePatientRequest) (*model.Patient, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var patient model.Patient
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/patients/%d", id), nil, req, &patient, false); err != nil {
		return nil, fmt.Errorf("failed to update patient %d: %w", id, err)
	}

	c.cacheDrop(cacheKeyPatients)
	return &patient, nil
}

// DeletePatient removes the bare patient record; 409 when diagnoses,
// prescriptions or appointments still reference it.
func (c *Client) DeletePatient(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/patients/%d", id), nil, nil, nil, false); err != nil {
		return err
	}
	c.cacheDrop(cacheKeyPatients)
	return nil
}
