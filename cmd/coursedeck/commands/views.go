package commands

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck/internal/guard"
	logpkg "github.com/coursedeck/coursedeck/internal/logger"
	"github.com/coursedeck/coursedeck/internal/models"
)

// errField renders an error for structured logs with log-injection hygiene.
func errField(err error) zap.Field {
	return zap.String("error", logpkg.SanitizeError(err))
}

// errNotLoggedIn is what guarded views surface when the session is anonymous
// or the gateway rejected the stored token.
var errNotLoggedIn = fmt.Errorf("you are not logged in; run 'coursedeck login' or 'coursedeck social-login' first")

// loginRedirect maps a login-route redirect decision to the CLI's version of
// navigating to the login page.
func loginRedirect(res guard.Result) error {
	if res.Redirect == guard.RouteLogin {
		return errNotLoggedIn
	}
	return fmt.Errorf("view unavailable, try 'coursedeck %s'", res.Redirect)
}

// renderWidgetErrors prints one non-blocking note per degraded widget. The
// main view already rendered; these must never abort it.
func renderWidgetErrors(w io.Writer, res guard.Result) {
	for name := range res.WidgetErrs {
		fmt.Fprintf(w, "\nNote: %s is unavailable right now.\n", name)
	}
}

func printCourseLine(w io.Writer, c models.Course) {
	price := fmt.Sprintf("$%.2f", c.EffectivePrice())
	if c.EffectivePrice() == 0 {
		price = "free"
	}
	badges := ""
	if c.IsBestseller {
		badges += " [bestseller]"
	}
	if c.IsNew {
		badges += " [new]"
	}
	fmt.Fprintf(w, "  %-26s %-38s %8s%s\n", c.ID, truncate(c.Title, 38), price, badges)
}

func printCourseDetail(w io.Writer, c models.Course) {
	fmt.Fprintf(w, "%s\n%s\n\n", c.Title, strings.Repeat("=", len(c.Title)))
	if c.ShortDescription != "" {
		fmt.Fprintf(w, "%s\n\n", c.ShortDescription)
	}
	fmt.Fprintf(w, "  Instructor: %s\n", c.Instructor)
	fmt.Fprintf(w, "  Category:   %s\n", c.Category)
	if c.Level != "" {
		fmt.Fprintf(w, "  Level:      %s\n", c.Level)
	}
	if c.Duration != "" {
		fmt.Fprintf(w, "  Duration:   %s (%d lectures)\n", c.Duration, c.TotalLectures)
	}
	if c.Rating > 0 {
		fmt.Fprintf(w, "  Rating:     %.1f (%d reviews)\n", c.Rating, c.ReviewCount)
	}
	fmt.Fprintf(w, "  Price:      $%.2f", c.EffectivePrice())
	if c.DiscountPrice > 0 && c.DiscountPrice < c.Price {
		fmt.Fprintf(w, " (was $%.2f)", c.Price)
	}
	fmt.Fprintln(w)

	if len(c.Sections) > 0 {
		fmt.Fprintf(w, "\nCurriculum:\n")
		for i, s := range c.Sections {
			fmt.Fprintf(w, "  %d. %s (%d lessons)\n", i+1, s.Title, len(s.Lessons))
		}
	}
}

func printEnrollment(w io.Writer, e models.Enrollment) {
	fmt.Fprintf(w, "  %-26s %-38s %5.1f%%  %s\n",
		e.ID, truncate(e.Course.Title, 38), e.Progress.Percentage, e.EnrollmentStatus)
}

func printProgressBar(w io.Writer, percentage float64) {
	const width = 30
	filled := int(percentage / 100 * width)
	if filled > width {
		filled = width
	}
	fmt.Fprintf(w, "  [%s%s] %.1f%%\n",
		strings.Repeat("#", filled), strings.Repeat("-", width-filled), percentage)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
