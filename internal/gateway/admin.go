package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/coursedeck/coursedeck/internal/models"
)

// Stats returns the headline analytics counters. dateRange is a gateway
// preset such as "7d" or "30d"; courseID narrows to one course when set.
func (c *Client) Stats(ctx context.Context, dateRange, courseID string) (models.AdminStats, error) {
	query := url.Values{}
	if dateRange != "" {
		query.Set("dateRange", dateRange)
	}
	if courseID != "" {
		query.Set("courseId", courseID)
	}

	var stats models.AdminStats
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/stats", query, nil, &stats); err != nil {
		return models.AdminStats{}, err
	}
	return stats, nil
}

// RevenueChart returns revenue buckets for the given range.
func (c *Client) RevenueChart(ctx context.Context, dateRange string) ([]models.RevenuePoint, error) {
	query := url.Values{}
	if dateRange != "" {
		query.Set("dateRange", dateRange)
	}

	var points []models.RevenuePoint
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/revenue-chart", query, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// TopCourses returns the enrollment leaderboard.
func (c *Client) TopCourses(ctx context.Context, limit int) ([]models.TopCourse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var top []models.TopCourse
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/top-courses", query, nil, &top); err != nil {
		return nil, err
	}
	return top, nil
}

// RecentEnrollments returns the latest enrollments across the platform.
func (c *Client) RecentEnrollments(ctx context.Context, limit int) ([]models.RecentEnrollment, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var recent []models.RecentEnrollment
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/recent-enrollments", query, nil, &recent); err != nil {
		return nil, err
	}
	return recent, nil
}

// Users pages through the platform user list, optionally filtered by role.
func (c *Client) Users(ctx context.Context, page, limit int, role models.Role) ([]models.User, *Pagination, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if role != "" {
		query.Set("role", string(role))
	}

	var users []models.User
	env, err := c.do(ctx, http.MethodGet, "/api/admin/users", query, nil, &users)
	if err != nil {
		return nil, nil, err
	}
	return users, env.Pagination, nil
}

// CourseAnalytics returns the per-course drilldown.
func (c *Client) CourseAnalytics(ctx context.Context, courseID string) (models.CourseAnalytics, error) {
	var analytics models.CourseAnalytics
	if _, err := c.do(ctx, http.MethodGet, "/api/admin/course-analytics/"+url.PathEscape(courseID), nil, nil, &analytics); err != nil {
		return models.CourseAnalytics{}, err
	}
	return analytics, nil
}
