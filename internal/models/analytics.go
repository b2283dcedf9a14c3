package models

import "time"

// AdminStats is the headline counter block on the admin analytics view
type AdminStats struct {
	TotalStudents  int     `json:"totalStudents"`
	TotalCourses   int     `json:"totalCourses"`
	TotalRevenue   float64 `json:"totalRevenue"`
	StudentsChange float64 `json:"studentsChange"` // percent vs previous range
	CoursesChange  float64 `json:"coursesChange"`
	RevenueChange  float64 `json:"revenueChange"`
}

// RevenuePoint is one bucket of the revenue chart
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders,omitempty"`
}

// TopCourse is one row of the top-courses leaderboard
type TopCourse struct {
	CourseID    string  `json:"courseId"`
	Title       string  `json:"title"`
	Enrollments int     `json:"enrollments"`
	Revenue     float64 `json:"revenue"`
}

// RecentEnrollment is one row of the recent-enrollments widget
type RecentEnrollment struct {
	Student    string    `json:"student"`
	Course     string    `json:"course"`
	EnrolledAt time.Time `json:"enrolledAt"`
	Amount     float64   `json:"amount,omitempty"`
}

// CourseAnalytics is the per-course drilldown for admins and instructors
type CourseAnalytics struct {
	CourseID       string  `json:"courseId"`
	Title          string  `json:"title"`
	Enrollments    int     `json:"enrollments"`
	Revenue        float64 `json:"revenue"`
	CompletionRate float64 `json:"completionRate"`
	AverageRating  float64 `json:"averageRating,omitempty"`
}
