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

// NewLearnCmd creates the learn command
func NewLearnCmd() *cobra.Command {
	var completeLesson string

	cmd := &cobra.Command{
		Use:   "learn <course-id>",
		Short: "Open a course you are enrolled in",
		Long: `Show the curriculum and your per-lesson progress for an enrolled course.
Use --complete to mark a lesson finished.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			courseID := args[0]
			out := cmd.OutOrStdout()

			var (
				course      models.Course
				enrollments []models.Enrollment
				progress    models.DetailedProgress
			)

			// The check endpoint only reports a boolean, so the enrollment
			// record itself comes from the my-courses listing. The view
			// renders only after both fetches settle; progress is fetched
			// once the enrollment id is known.
			ctrl := guard.New(app.Sessions, app.Log)
			res := ctrl.Run(cmd.Context(), guard.Options{RequireAuth: true, FallbackRoute: guard.RouteCourses},
				guard.Fetch{
					Name:     "course",
					Required: true,
					Run: func(ctx context.Context) error {
						var err error
						course, err = app.Gateway.GetCourse(ctx, courseID)
						return err
					},
				},
				guard.Fetch{
					Name:     "enrollments",
					Required: true,
					Run: func(ctx context.Context) error {
						var err error
						enrollments, err = app.Gateway.MyCourses(ctx, "")
						return err
					},
				},
			)

			switch res.State {
			case guard.StateRedirectPending:
				if errors.Is(res.Err, gateway.ErrNotFound) {
					fmt.Fprintf(out, "Course %q was not found.\n", courseID)
					return runFallbackListing(cmd, app)
				}
				return loginRedirect(res)
			case guard.StateFailed:
				fmt.Fprintln(out, "Couldn't open this course right now. Please try again.")
				app.Log.Warn("learn view failed", errField(res.Err))
				return nil
			}

			enrollment := findEnrollment(enrollments, courseID)
			if enrollment == nil {
				// Not enrolled: send the user back to the course detail view.
				fmt.Fprintf(out, "You are not enrolled in %q. See 'coursedeck courses show %s'.\n", course.Title, courseID)
				return nil
			}

			if completeLesson != "" {
				updated, err := app.Gateway.CompleteLesson(cmd.Context(), enrollment.ID, completeLesson)
				if err != nil {
					return fmt.Errorf("marking lesson complete: %w", err)
				}
				progress = updated
				fmt.Fprintf(out, "Lesson %s marked complete.\n\n", completeLesson)
			} else {
				detailed, err := app.Gateway.Progress(cmd.Context(), enrollment.ID)
				if err != nil {
					// Progress is a widget here; the curriculum still renders.
					app.Log.Warn("progress fetch failed", errField(err))
				} else {
					progress = detailed
				}
			}

			fmt.Fprintf(out, "%s\n", course.Title)
			printProgressBar(out, progress.Percentage)
			fmt.Fprintln(out)

			done := make(map[string]bool, len(progress.Lessons))
			for _, lp := range progress.Lessons {
				done[lp.LessonID] = lp.Completed
			}
			for i, s := range course.Sections {
				fmt.Fprintf(out, "%d. %s\n", i+1, s.Title)
				for _, l := range s.Lessons {
					mark := " "
					if done[l.ID] {
						mark = "x"
					}
					fmt.Fprintf(out, "   [%s] %-44s %s  (%s)\n", mark, truncate(l.Title, 44), l.Duration, l.ID)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&completeLesson, "complete", "", "mark the given lesson id complete")

	return cmd
}

// findEnrollment picks the caller's enrollment for the given course out of
// the my-courses listing, or nil when there is none.
func findEnrollment(enrollments []models.Enrollment, courseID string) *models.Enrollment {
	for i := range enrollments {
		if enrollments[i].Course.ID == courseID {
			return &enrollments[i]
		}
	}
	return nil
}
