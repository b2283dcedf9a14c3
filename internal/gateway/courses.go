package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coursedeck/coursedeck/internal/models"
)

// ListCourses returns the public course catalog, filtered by q.
func (c *Client) ListCourses(ctx context.Context, q models.CourseQuery) ([]models.Course, *Pagination, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Category != "" {
		query.Set("category", q.Category)
	}
	if q.Level != "" {
		query.Set("level", string(q.Level))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var courses []models.Course
	env, err := c.do(ctx, http.MethodGet, "/api/courses", query, nil, &courses)
	if err != nil {
		return nil, nil, err
	}
	return courses, env.Pagination, nil
}

// GetCourse returns one course by id. An unresolvable id yields ErrNotFound;
// the calling view falls back to the course listing.
func (c *Client) GetCourse(ctx context.Context, courseID string) (models.Course, error) {
	var course models.Course
	if _, err := c.do(ctx, http.MethodGet, "/api/courses/"+url.PathEscape(courseID), nil, nil, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// RandomCourses returns the rotating selection shown on the home banner.
func (c *Client) RandomCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if _, err := c.do(ctx, http.MethodGet, "/courses/random-courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// CreateCourse publishes a new course (instructor or admin only server-side).
func (c *Client) CreateCourse(ctx context.Context, req models.NewCourse) (models.Course, error) {
	var course models.Course
	if _, err := c.do(ctx, http.MethodPost, "/api/courses", nil, req, &course); err != nil {
		return models.Course{}, err
	}
	return course, nil
}

// InstructorCourses lists the courses owned by the authenticated instructor.
func (c *Client) InstructorCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if _, err := c.do(ctx, http.MethodGet, "/instructor/courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// AdminCourses lists every course on the platform, for admin review.
func (c *Client) AdminCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if _, err := c.do(ctx, http.MethodGet, "/admin/courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}
