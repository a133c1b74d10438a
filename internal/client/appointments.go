package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jwalitptl/clinic-client/internal/model"
)

func (c *Client) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	var appointments []model.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, nil, &appointments, false); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListAppointmentsByDoctor sends the advisory doctor_id filter; callers
// re-check doctor_id on every record. Appointments have no patient_id
// filter at all, so patient-side discovery goes through ListAppointments.
func (c *Client) ListAppointmentsByDoctor(ctx context.Context, doctorID int) ([]model.Appointment, error) {
	query := url.Values{"doctor_id": {strconv.Itoa(doctorID)}}

	var appointments []model.Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", query, nil, &appointments, false); err != nil {
		return nil, fmt.Errorf("failed to list appointments for doctor %d: %w", doctorID, err)
	}
	return appointments, nil
}

func (c *Client) GetAppointment(ctx context.Context, id int) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/appointments/%d", id), nil, nil, &appointment, false); err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (c *Client) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var appointment model.Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", nil, req, &appointment, false); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return &appointment, nil
}

func (c *Client) UpdateAppointment(ctx context.Context, id int, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var appointment model.Appointment
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/appointments/%d", id), nil, req, &appointment, false); err != nil {
		return nil, fmt.Errorf("failed to update appointment %d: %w", id, err)
	}
	return &appointment, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/appointments/%d", id), nil, nil, nil, false)
}
