package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/validation"
)

// NewMyCoursesCmd creates the my-courses command
func NewMyCoursesCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "my-courses",
		Short: "List your enrollments and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if err := validation.ValidateEnrollmentStatus(status); err != nil {
					return err
				}
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var enrollments []models.Enrollment
			ctrl := guard.New(app.Sessions, app.Log)
			res := ctrl.Run(cmd.Context(), guard.Options{RequireAuth: true}, guard.Fetch{
				Name:     "enrollments",
				Required: true,
				Run: func(ctx context.Context) error {
					var err error
					enrollments, err = app.Gateway.MyCourses(ctx, models.EnrollmentStatus(status))
					return err
				},
			})

			out := cmd.OutOrStdout()
			switch res.State {
			case guard.StateRedirectPending:
				return loginRedirect(res)
			case guard.StateFailed:
				fmt.Fprintln(out, "Couldn't load your courses right now. Please try again.")
				app.Log.Warn("my-courses failed", errField(res.Err))
				return nil
			}

			if len(enrollments) == 0 {
				fmt.Fprintln(out, "No enrollments yet. Browse with 'coursedeck courses list'.")
				return nil
			}

			completed := 0
			for _, e := range enrollments {
				if e.EnrollmentStatus == models.EnrollmentCompleted {
					completed++
				}
			}
			fmt.Fprintf(out, "Enrolled: %d   Completed: %d\n\n", len(enrollments), completed)
			for _, e := range enrollments {
				printEnrollment(out, e)
				if e.Certificate != nil {
					fmt.Fprintf(out, "      certificate: %s\n", e.Certificate.URL)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, completed, expired)")

	return cmd
}
