package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
)

// NewHomeCmd creates the home command
func NewHomeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the marketplace front page",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			sess := app.Sessions.Current()
			if sess.Authenticated() {
				fmt.Fprintf(out, "Welcome back, %s!\n\n", sess.Claims.Name)
			} else {
				fmt.Fprintf(out, "Welcome to CourseDeck. Log in to track your learning.\n\n")
			}

			// The banner is a public, independent widget: if it fails, the
			// front page still renders.
			var banner []models.Course
			ctrl := guard.New(app.Sessions, app.Log)
			res := ctrl.Run(cmd.Context(), guard.Options{}, guard.Fetch{
				Name: "featured courses",
				Run: func(ctx context.Context) error {
					var err error
					banner, err = app.Gateway.RandomCourses(ctx)
					return err
				},
			})

			if len(banner) > 0 {
				fmt.Fprintln(out, "Featured courses:")
				for _, c := range banner {
					printCourseLine(out, c)
				}
			}
			renderWidgetErrors(out, res)
			return nil
		},
	}
}
