package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coursedeck/coursedeck/internal/models"
)

// Apply submits an instructor application for the authenticated student.
func (c *Client) Apply(ctx context.Context, req models.ApplicationRequest) (models.InstructorApplication, error) {
	var app models.InstructorApplication
	if _, err := c.do(ctx, http.MethodPost, "/instructor-applications/apply", nil, req, &app); err != nil {
		return models.InstructorApplication{}, err
	}
	return app, nil
}

// MyApplication returns the caller's own application, or ErrNotFound if they
// never applied.
func (c *Client) MyApplication(ctx context.Context) (models.InstructorApplication, error) {
	var app models.InstructorApplication
	if _, err := c.do(ctx, http.MethodGet, "/instructor-applications/my-application", nil, nil, &app); err != nil {
		return models.InstructorApplication{}, err
	}
	return app, nil
}

// Applications pages through submitted applications (admin review queue).
func (c *Client) Applications(ctx context.Context, status models.ApplicationStatus, page, limit int) ([]models.InstructorApplication, *Pagination, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var apps []models.InstructorApplication
	env, err := c.do(ctx, http.MethodGet, "/instructor-applications/applications", query, nil, &apps)
	if err != nil {
		return nil, nil, err
	}
	return apps, env.Pagination, nil
}

// ApproveApplication grants the applicant the instructor role.
func (c *Client) ApproveApplication(ctx context.Context, applicationID string) error {
	path := "/instructor-applications/applications/" + url.PathEscape(applicationID) + "/approve"
	_, err := c.do(ctx, http.MethodPatch, path, nil, nil, nil)
	return err
}

// RejectApplication declines an application, with optional feedback for the
// applicant.
func (c *Client) RejectApplication(ctx context.Context, applicationID, feedback string) error {
	path := "/instructor-applications/applications/" + url.PathEscape(applicationID) + "/reject"
	var body any
	if feedback != "" {
		body = map[string]string{"feedback": feedback}
	}
	_, err := c.do(ctx, http.MethodPatch, path, nil, body, nil)
	return err
}
