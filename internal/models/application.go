package models

import "time"

// ApplicationStatus is the review state of an instructor application
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// InstructorApplication is a request by a student to become an instructor
type InstructorApplication struct {
	ID         string            `json:"id"`
	Applicant  User              `json:"applicant"`
	Expertise  string            `json:"expertise"`
	Experience string            `json:"experience"`
	Motivation string            `json:"motivation,omitempty"`
	Status     ApplicationStatus `json:"status"`
	AppliedAt  time.Time         `json:"appliedAt,omitempty"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty"`
	Feedback   string            `json:"feedback,omitempty"`
}

// ApplicationRequest is the payload submitted from the become-instructor form
type ApplicationRequest struct {
	Expertise  string `json:"expertise" validate:"required,min=3,max=200"`
	Experience string `json:"experience" validate:"required,min=10"`
	Motivation string `json:"motivation" validate:"max=2000"`
}
