package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/gateway"
	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
)

// NewCoursesCmd creates the courses command group
func NewCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Browse the course catalog",
	}

	cmd.AddCommand(newCoursesListCmd())
	cmd.AddCommand(newCoursesShowCmd())

	return cmd
}

func newCoursesListCmd() *cobra.Command {
	var search, category, level string
	var page, limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List and search courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			query := models.CourseQuery{
				Search:   search,
				Category: category,
				Level:    models.CourseLevel(level),
				Page:     page,
				Limit:    limit,
			}

			var (
				courses    []models.Course
				pagination *gateway.Pagination
			)
			ctrl := guard.New(app.Sessions, app.Log)
			res := ctrl.Run(cmd.Context(), guard.Options{}, guard.Fetch{
				Name:     "courses",
				Required: true,
				Run: func(ctx context.Context) error {
					var err error
					courses, pagination, err = app.Gateway.ListCourses(ctx, query)
					return err
				},
			})
			if res.State == guard.StateFailed {
				// Degrade to an empty listing, never a crash.
				fmt.Fprintln(cmd.OutOrStdout(), "Couldn't load courses right now. Please try again.")
				app.Log.Warn("course listing failed", errField(res.Err))
				return nil
			}

			out := cmd.OutOrStdout()
			if len(courses) == 0 {
				fmt.Fprintln(out, "No courses match.")
				return nil
			}
			for _, c := range courses {
				printCourseLine(out, c)
			}
			if pagination != nil && pagination.TotalPages > 1 {
				fmt.Fprintf(out, "\nPage %d of %d (%d courses)\n", pagination.Page, pagination.TotalPages, pagination.TotalItems)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "search term")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&level, "level", "", "filter by level (beginner, intermediate, advanced)")
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")

	return cmd
}

func newCoursesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show course details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			courseID := args[0]
			out := cmd.OutOrStdout()

			var course models.Course
			var check models.EnrollmentCheck

			fetches := []guard.Fetch{{
				Name:     "course",
				Required: true,
				Run: func(ctx context.Context) error {
					var err error
					course, err = app.Gateway.GetCourse(ctx, courseID)
					return err
				},
			}}
			// Enrollment status is an optional widget, and only meaningful
			// with a session; anonymous browsing skips the call entirely.
			if app.Sessions.Current().Authenticated() {
				fetches = append(fetches, guard.Fetch{
					Name: "enrollment status",
					Run: func(ctx context.Context) error {
						var err error
						check, err = app.Gateway.CheckEnrollment(ctx, courseID)
						return err
					},
				})
			}

			ctrl := guard.New(app.Sessions, app.Log)
			res := ctrl.Run(cmd.Context(), guard.Options{FallbackRoute: guard.RouteCourses}, fetches...)

			switch res.State {
			case guard.StateRedirectPending:
				// Unresolvable course id: fall back to the listing.
				if errors.Is(res.Err, gateway.ErrNotFound) {
					fmt.Fprintf(out, "Course %q was not found. Here is the catalog instead:\n\n", courseID)
					return runFallbackListing(cmd, app)
				}
				return loginRedirect(res)
			case guard.StateFailed:
				fmt.Fprintln(out, "Couldn't load this course right now. Please try again.")
				app.Log.Warn("course detail failed", errField(res.Err))
				return nil
			}

			printCourseDetail(out, course)
			if check.IsEnrolled {
				fmt.Fprintf(out, "\nYou are enrolled. Continue with 'coursedeck learn %s'.\n", courseID)
			} else {
				fmt.Fprintf(out, "\nEnroll with 'coursedeck enroll %s'.\n", courseID)
			}
			renderWidgetErrors(out, res)
			return nil
		},
	}
}

// runFallbackListing renders the plain catalog, used when a course id does
// not resolve.
func runFallbackListing(cmd *cobra.Command, app *App) error {
	courses, _, err := app.Gateway.ListCourses(cmd.Context(), models.CourseQuery{Limit: 20})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Couldn't load courses right now. Please try again.")
		return nil
	}
	for _, c := range courses {
		printCourseLine(cmd.OutOrStdout(), c)
	}
	return nil
}
