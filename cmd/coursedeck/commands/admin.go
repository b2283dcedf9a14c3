package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/gateway"
	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/validation"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Platform administration",
		Long:  "Analytics, user management and the instructor review queue. Admin role required.",
	}

	cmd.AddCommand(newAdminStatsCmd())
	cmd.AddCommand(newAdminRevenueCmd())
	cmd.AddCommand(newAdminTopCoursesCmd())
	cmd.AddCommand(newAdminRecentCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminCourseAnalyticsCmd())
	cmd.AddCommand(newAdminCoursesCmd())

	return cmd
}

// adminOptions gates a view on the admin role. Non-admins land on their own
// dashboard instead of an error.
func adminOptions() guard.Options {
	return guard.Options{
		RequireAuth:  true,
		Roles:        []models.Role{models.RoleAdmin},
		DefaultRoute: guard.Route("dashboard"),
	}
}

// runAdminView runs a single required fetch behind the admin gate and hands
// rendering back to the caller only when the fetch settled successfully.
func runAdminView(cmd *cobra.Command, app *App, name string, fetch func(ctx context.Context) error) (rendered bool, err error) {
	ctrl := guard.New(app.Sessions, app.Log)
	res := ctrl.Run(cmd.Context(), adminOptions(), guard.Fetch{
		Name:     name,
		Required: true,
		Run:      fetch,
	})

	out := cmd.OutOrStdout()
	switch res.State {
	case guard.StateRedirectPending:
		if res.Redirect == guard.RouteLogin {
			return false, loginRedirect(res)
		}
		fmt.Fprintln(out, "This area is for administrators. Here is your dashboard instead.")
		fmt.Fprintln(out)
		return false, renderDefaultDashboard(cmd, app)
	case guard.StateFailed:
		fmt.Fprintf(out, "Couldn't load %s right now. Please try again.\n", name)
		app.Log.Warn("admin view failed", errField(res.Err))
		return false, nil
	}
	return true, nil
}

func newAdminStatsCmd() *cobra.Command {
	var dateRange, courseID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Headline platform counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var stats models.AdminStats
			ok, err := runAdminView(cmd, app, "platform stats", func(ctx context.Context) error {
				var err error
				stats, err = app.Gateway.Stats(ctx, dateRange, courseID)
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Platform stats (%s)\n\n", dateRange)
			fmt.Fprintf(out, "  Students: %d (%+.1f%%)\n", stats.TotalStudents, stats.StudentsChange)
			fmt.Fprintf(out, "  Courses:  %d (%+.1f%%)\n", stats.TotalCourses, stats.CoursesChange)
			fmt.Fprintf(out, "  Revenue:  $%.2f (%+.1f%%)\n", stats.TotalRevenue, stats.RevenueChange)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateRange, "range", "30d", "Date range preset (7d, 30d, 90d, 1y)")
	cmd.Flags().StringVar(&courseID, "course", "", "Narrow stats to one course")

	return cmd
}

func newAdminRevenueCmd() *cobra.Command {
	var dateRange string

	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Revenue over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var points []models.RevenuePoint
			ok, err := runAdminView(cmd, app, "revenue chart", func(ctx context.Context) error {
				var err error
				points, err = app.Gateway.RevenueChart(ctx, dateRange)
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			if len(points) == 0 {
				fmt.Fprintln(out, "No revenue recorded in this range.")
				return nil
			}
			var total float64
			for _, p := range points {
				fmt.Fprintf(out, "  %-12s $%10.2f", p.Date, p.Revenue)
				if p.Orders > 0 {
					fmt.Fprintf(out, "  (%d orders)", p.Orders)
				}
				fmt.Fprintln(out)
				total += p.Revenue
			}
			fmt.Fprintf(out, "\n  Total: $%.2f\n", total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateRange, "range", "30d", "Date range preset (7d, 30d, 90d, 1y)")

	return cmd
}

func newAdminTopCoursesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "top-courses",
		Short: "Enrollment leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var top []models.TopCourse
			ok, err := runAdminView(cmd, app, "top courses", func(ctx context.Context) error {
				var err error
				top, err = app.Gateway.TopCourses(ctx, limit)
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			if len(top) == 0 {
				fmt.Fprintln(out, "No enrollments yet.")
				return nil
			}
			for i, tc := range top {
				fmt.Fprintf(out, "  %2d. %-40s %5d enrollments  $%.2f\n", i+1, truncate(tc.Title, 40), tc.Enrollments, tc.Revenue)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of courses to show")

	return cmd
}

func newAdminRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent-enrollments",
		Short: "Latest enrollments across the platform",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var recent []models.RecentEnrollment
			ok, err := runAdminView(cmd, app, "recent enrollments", func(ctx context.Context) error {
				var err error
				recent, err = app.Gateway.RecentEnrollments(ctx, limit)
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			if len(recent) == 0 {
				fmt.Fprintln(out, "No enrollments yet.")
				return nil
			}
			for _, re := range recent {
				fmt.Fprintf(out, "  %-24s %-36s %s", truncate(re.Student, 24), truncate(re.Course, 36), re.EnrolledAt.Format("Jan 02 15:04"))
				if re.Amount > 0 {
					fmt.Fprintf(out, "  $%.2f", re.Amount)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of enrollments to show")

	return cmd
}

func newAdminUsersCmd() *cobra.Command {
	var (
		page  int
		limit int
		role  string
	)

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List platform users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.Validate.Var(role, "omitempty,user_role"); err != nil {
				return fmt.Errorf("unknown role %q (want student, instructor or admin)", role)
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var (
				users []models.User
				pg    *gateway.Pagination
			)
			ok, err := runAdminView(cmd, app, "users", func(ctx context.Context) error {
				var err error
				users, pg, err = app.Gateway.Users(ctx, page, limit, models.Role(role))
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users match.")
				return nil
			}
			for _, u := range users {
				fmt.Fprintf(out, "  %-36s %-28s %-32s %s\n", u.ID, truncate(u.Name, 28), truncate(u.Email, 32), u.Role)
			}
			printPagination(out, pg)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Users per page")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (student, instructor, admin)")

	return cmd
}

func newAdminCourseAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "course-analytics <course-id>",
		Short: "Per-course drilldown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var analytics models.CourseAnalytics
			ok, err := runAdminView(cmd, app, "course analytics", func(ctx context.Context) error {
				var err error
				analytics, err = app.Gateway.CourseAnalytics(ctx, args[0])
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n\n", analytics.Title)
			fmt.Fprintf(out, "  Enrollments: %d\n", analytics.Enrollments)
			fmt.Fprintf(out, "  Revenue:     $%.2f\n", analytics.Revenue)
			fmt.Fprintf(out, "  Completion:  %.1f%%\n", analytics.CompletionRate)
			if analytics.AverageRating > 0 {
				fmt.Fprintf(out, "  Rating:      %.1f/5\n", analytics.AverageRating)
			}
			return nil
		},
	}
}

func newAdminCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List every course including unpublished ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var courses []models.Course
			ok, err := runAdminView(cmd, app, "courses", func(ctx context.Context) error {
				var err error
				courses, err = app.Gateway.AdminCourses(ctx)
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			if len(courses) == 0 {
				fmt.Fprintln(out, "No courses on the platform yet.")
				return nil
			}
			for _, c := range courses {
				printCourseLine(out, c)
			}
			return nil
		},
	}
}

func printPagination(w io.Writer, pg *gateway.Pagination) {
	if pg == nil || pg.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(w, "\n  Page %d of %d (%d total)\n", pg.Page, pg.TotalPages, pg.TotalItems)
}
