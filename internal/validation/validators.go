package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/coursedeck/coursedeck/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	if err := Validate.RegisterValidation("course_level", validateCourseLevel); err != nil {
		panic(fmt.Sprintf("failed to register course_level validator: %v", err))
	}
	if err := Validate.RegisterValidation("user_role", validateUserRole); err != nil {
		panic(fmt.Sprintf("failed to register user_role validator: %v", err))
	}
}

// validateCourseLevel validates that a string is a valid CourseLevel enum value
func validateCourseLevel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	switch models.CourseLevel(value) {
	case models.CourseLevelBeginner, models.CourseLevelIntermediate, models.CourseLevelAdvanced:
		return true
	default:
		return false
	}
}

// validateUserRole validates that a string is a valid Role enum value
func validateUserRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

// SanitizeText sanitizes text input by trimming whitespace and removing
// control characters. Form fields go through this before validation so a
// pasted value with stray control bytes doesn't reach the gateway.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateEnrollmentStatus validates an EnrollmentStatus filter value
func ValidateEnrollmentStatus(value string) error {
	switch models.EnrollmentStatus(value) {
	case models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentExpired:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'active', 'completed', or 'expired')", value)
	}
}

// ValidateApplicationStatus validates an ApplicationStatus filter value
func ValidateApplicationStatus(value string) error {
	switch models.ApplicationStatus(value) {
	case models.ApplicationPending, models.ApplicationApproved, models.ApplicationRejected:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'pending', 'approved', or 'rejected')", value)
	}
}

// FirstError renders the first validation failure of a struct in a form
// suitable for showing next to the offending field.
func FirstError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s: failed %s validation", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err.Error()
}
