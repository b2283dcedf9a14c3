package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/coursedeck/coursedeck/internal/models"
)

// MyCourses lists the caller's enrollments, optionally filtered by status.
func (c *Client) MyCourses(ctx context.Context, status models.EnrollmentStatus) ([]models.Enrollment, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var enrollments []models.Enrollment
	if _, err := c.do(ctx, http.MethodGet, "/api/enrollments/my-courses", query, nil, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// CheckEnrollment reports whether the caller is enrolled in the course. The
// flag rides at the top level of the envelope rather than inside data.
func (c *Client) CheckEnrollment(ctx context.Context, courseID string) (models.EnrollmentCheck, error) {
	var check models.EnrollmentCheck
	env, err := c.do(ctx, http.MethodGet, "/api/enrollments/check/"+url.PathEscape(courseID), nil, nil, &check)
	if err != nil {
		return models.EnrollmentCheck{}, err
	}
	if env.IsEnrolled != nil {
		check.IsEnrolled = *env.IsEnrolled
	}
	return check, nil
}

// Progress returns the per-lesson completion breakdown for one enrollment.
func (c *Client) Progress(ctx context.Context, enrollmentID string) (models.DetailedProgress, error) {
	var progress models.DetailedProgress
	if _, err := c.do(ctx, http.MethodGet, "/api/enrollments/progress/"+url.PathEscape(enrollmentID), nil, nil, &progress); err != nil {
		return models.DetailedProgress{}, err
	}
	return progress, nil
}

// CompleteLesson marks one lesson complete and returns the updated progress.
func (c *Client) CompleteLesson(ctx context.Context, enrollmentID, lessonID string) (models.DetailedProgress, error) {
	body := map[string]any{"lessonId": lessonID, "completed": true}

	var progress models.DetailedProgress
	if _, err := c.do(ctx, http.MethodPost, "/api/enrollments/progress/"+url.PathEscape(enrollmentID), nil, body, &progress); err != nil {
		return models.DetailedProgress{}, err
	}
	return progress, nil
}
