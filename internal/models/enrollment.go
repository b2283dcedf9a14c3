package models

import "time"

// EnrollmentStatus is the lifecycle state of an enrollment record
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentExpired   EnrollmentStatus = "expired"
)

// Enrollment ties a user to a course, with progress tracked by the gateway
type Enrollment struct {
	ID               string           `json:"id"`
	Course           Course           `json:"course"`
	EnrollmentStatus EnrollmentStatus `json:"enrollmentStatus"`
	EnrollmentDate   time.Time        `json:"enrollmentDate,omitempty"`
	Progress         Progress         `json:"progress"`
	Certificate      *Certificate     `json:"certificate,omitempty"`
	AccessType       string           `json:"accessType,omitempty"`
}

// Progress is the completion summary for one enrollment
type Progress struct {
	Percentage       float64   `json:"percentage"`
	CompletedLessons int       `json:"completedLessons"`
	TotalLessons     int       `json:"totalLessons"`
	LastAccessed     time.Time `json:"lastAccessed,omitempty"`
}

// LessonProgress is a per-lesson completion record, returned by the detailed
// progress endpoint for the learning view
type LessonProgress struct {
	LessonID    string     `json:"lessonId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DetailedProgress is the full progress breakdown for one enrollment
type DetailedProgress struct {
	EnrollmentID string           `json:"enrollmentId"`
	Percentage   float64          `json:"percentage"`
	Lessons      []LessonProgress `json:"lessons"`
}

// Certificate is issued by the gateway when an enrollment completes
type Certificate struct {
	ID       string    `json:"id"`
	IssuedAt time.Time `json:"issuedAt"`
	URL      string    `json:"url,omitempty"`
}

// EnrollmentCheck is the response shape of the enrollment-check endpoint.
// It rides outside the usual data envelope and carries only the boolean:
// {success, isEnrolled}. Callers that need the enrollment record itself
// look it up in the my-courses listing.
type EnrollmentCheck struct {
	IsEnrolled bool `json:"isEnrolled"`
}
