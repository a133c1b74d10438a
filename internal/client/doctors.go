package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jwalitptl/clinic-client/internal/model"
)

const cacheKeyDoctors = "doctors"

// ListDoctors reads the full doctor collection. The endpoint is readable
// without credentials and backs name resolution, so results are held in the
// short-TTL lookup cache when one is configured.
func (c *Client) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	if v, ok := c.cacheGet(cacheKeyDoctors); ok {
		return v.([]model.Doctor), nil
	}

	var doctors []model.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &doctors, true); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	c.cacheSet(cacheKeyDoctors, doctors)
	return doctors, nil
}

func (c *Client) GetDoctor(ctx context.Context, id int) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/doctors/%d", id), nil, nil, &doctor, false); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (c *Client) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var doctor model.Doctor
	if err := c.do(ctx, http.MethodPost, "/doctors", nil, req, &doctor, false); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	c.cacheDrop(cacheKeyDoctors)
	return &doctor, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id int, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	var doctor model.Doctor
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/doctors/%d", id), nil, req, &doctor, false); err != nil {
		return nil, fmt.Errorf("failed to update doctor %d: %w", id, err)
	}

	c.cacheDrop(cacheKeyDoctors)
	return &doctor, nil
}

// DeleteDoctor removes the bare doctor record. The backend answers 409 when
// dependent appointments or prescriptions still exist; use the cascade
// orchestrator to clear those first.
func (c *Client) DeleteDoctor(ctx context.Context, id int) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/doctors/%d", id), nil, nil, nil, false); err != nil {
		return err
	}
	c.cacheDrop(cacheKeyDoctors)
	return nil
}
