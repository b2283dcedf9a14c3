package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
)

// NewDashboardCmd creates the dashboard command
func NewDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show your dashboard",
		Long:  "Show the dashboard for your role: learning progress for students, course overview for instructors, platform analytics for admins",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			sess := app.Sessions.Current()
			if !sess.Authenticated() {
				return errNotLoggedIn
			}

			return renderDefaultDashboard(cmd, app)
		},
	}
}

// renderDefaultDashboard shows the dashboard matching the session's role.
// Role only selects which dashboard renders; the gateway makes the real
// call on every endpoint behind each view. Views that land on a role they
// don't serve fall back here.
func renderDefaultDashboard(cmd *cobra.Command, app *App) error {
	switch app.Sessions.Current().Role() {
	case models.RoleAdmin:
		return adminDashboard(cmd, app)
	case models.RoleInstructor:
		return instructorDashboard(cmd, app)
	default:
		return studentDashboard(cmd, app)
	}
}

func studentDashboard(cmd *cobra.Command, app *App) error {
	var enrollments []models.Enrollment

	ctrl := guard.New(app.Sessions, app.Log)
	res := ctrl.Run(cmd.Context(), guard.Options{RequireAuth: true}, guard.Fetch{
		Name:     "enrollments",
		Required: true,
		Run: func(ctx context.Context) error {
			var err error
			enrollments, err = app.Gateway.MyCourses(ctx, "")
			return err
		},
	})

	out := cmd.OutOrStdout()
	switch res.State {
	case guard.StateRedirectPending:
		return loginRedirect(res)
	case guard.StateFailed:
		fmt.Fprintln(out, "Couldn't load your dashboard right now. Please try again.")
		app.Log.Warn("student dashboard failed", errField(res.Err))
		return nil
	}

	fmt.Fprintf(out, "Your learning\n\n")
	if len(enrollments) == 0 {
		fmt.Fprintln(out, "No enrollments yet. Browse with 'coursedeck courses list'.")
		return nil
	}
	var totalPct float64
	certificates := 0
	for _, e := range enrollments {
		totalPct += e.Progress.Percentage
		if e.Certificate != nil {
			certificates++
		}
	}
	fmt.Fprintf(out, "  Courses:      %d\n", len(enrollments))
	fmt.Fprintf(out, "  Avg progress: %.1f%%\n", totalPct/float64(len(enrollments)))
	fmt.Fprintf(out, "  Certificates: %d\n\n", certificates)
	for _, e := range enrollments {
		printEnrollment(out, e)
	}
	return nil
}

func instructorDashboard(cmd *cobra.Command, app *App) error {
	var courses []models.Course

	ctrl := guard.New(app.Sessions, app.Log)
	res := ctrl.Run(cmd.Context(), guard.Options{
		RequireAuth:  true,
		Roles:        []models.Role{models.RoleInstructor, models.RoleAdmin},
		DefaultRoute: guard.Route("dashboard"),
	}, guard.Fetch{
		Name:     "your courses",
		Required: true,
		Run: func(ctx context.Context) error {
			var err error
			courses, err = app.Gateway.InstructorCourses(ctx)
			return err
		},
	})

	out := cmd.OutOrStdout()
	switch res.State {
	case guard.StateRedirectPending:
		if res.Redirect == guard.RouteLogin {
			return loginRedirect(res)
		}
		return renderDefaultDashboard(cmd, app)
	case guard.StateFailed:
		fmt.Fprintln(out, "Couldn't load your courses right now. Please try again.")
		app.Log.Warn("instructor dashboard failed", errField(res.Err))
		return nil
	}

	fmt.Fprintf(out, "Your courses\n\n")
	if len(courses) == 0 {
		fmt.Fprintln(out, "No published courses yet. Create one with 'coursedeck instructor add-course'.")
		return nil
	}
	for _, c := range courses {
		printCourseLine(out, c)
	}
	return nil
}

func adminDashboard(cmd *cobra.Command, app *App) error {
	var (
		stats  models.AdminStats
		top    []models.TopCourse
		recent []models.RecentEnrollment
	)

	// Stats carry the view; leaderboard and activity are independent widgets.
	ctrl := guard.New(app.Sessions, app.Log)
	res := ctrl.Run(cmd.Context(), guard.Options{
		RequireAuth:  true,
		Roles:        []models.Role{models.RoleAdmin},
		DefaultRoute: guard.Route("dashboard"),
	},
		guard.Fetch{
			Name:     "platform stats",
			Required: true,
			Run: func(ctx context.Context) error {
				var err error
				stats, err = app.Gateway.Stats(ctx, "30d", "")
				return err
			},
		},
		guard.Fetch{
			Name: "top courses",
			Run: func(ctx context.Context) error {
				var err error
				top, err = app.Gateway.TopCourses(ctx, 5)
				return err
			},
		},
		guard.Fetch{
			Name: "recent enrollments",
			Run: func(ctx context.Context) error {
				var err error
				recent, err = app.Gateway.RecentEnrollments(ctx, 5)
				return err
			},
		},
	)

	out := cmd.OutOrStdout()
	switch res.State {
	case guard.StateRedirectPending:
		if res.Redirect == guard.RouteLogin {
			return loginRedirect(res)
		}
		return renderDefaultDashboard(cmd, app)
	case guard.StateFailed:
		fmt.Fprintln(out, "Couldn't load platform analytics right now. Please try again.")
		app.Log.Warn("admin dashboard failed", errField(res.Err))
		return nil
	}

	fmt.Fprintf(out, "Platform overview (last 30 days)\n\n")
	fmt.Fprintf(out, "  Students: %d (%+.1f%%)\n", stats.TotalStudents, stats.StudentsChange)
	fmt.Fprintf(out, "  Courses:  %d (%+.1f%%)\n", stats.TotalCourses, stats.CoursesChange)
	fmt.Fprintf(out, "  Revenue:  $%.2f (%+.1f%%)\n", stats.TotalRevenue, stats.RevenueChange)

	if len(top) > 0 {
		fmt.Fprintf(out, "\nTop courses:\n")
		for _, tc := range top {
			fmt.Fprintf(out, "  %-40s %5d enrollments  $%.2f\n", truncate(tc.Title, 40), tc.Enrollments, tc.Revenue)
		}
	}
	if len(recent) > 0 {
		fmt.Fprintf(out, "\nRecent enrollments:\n")
		for _, re := range recent {
			fmt.Fprintf(out, "  %-24s %-36s %s\n", truncate(re.Student, 24), truncate(re.Course, 36), re.EnrolledAt.Format("Jan 02 15:04"))
		}
	}
	renderWidgetErrors(out, res)
	return nil
}
