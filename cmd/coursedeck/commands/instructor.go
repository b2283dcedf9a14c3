package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/gateway"
	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/validation"
)

// NewInstructorCmd creates the instructor command group
func NewInstructorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instructor",
		Short: "Teach on the platform",
		Long:  "Apply to become an instructor, manage your courses, and review applications (admins)",
	}

	cmd.AddCommand(newApplyCmd())
	cmd.AddCommand(newMyApplicationCmd())
	cmd.AddCommand(newApplicationsCmd())
	cmd.AddCommand(newApproveCmd())
	cmd.AddCommand(newRejectCmd())
	cmd.AddCommand(newInstructorCoursesCmd())
	cmd.AddCommand(newAddCourseCmd())

	return cmd
}

func newApplyCmd() *cobra.Command {
	var expertise, experience, motivation string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply to become an instructor",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.Sessions.Current().Authenticated() {
				return errNotLoggedIn
			}

			if expertise == "" {
				expertise = prompt(cmd, "Area of expertise: ")
			}
			if experience == "" {
				experience = prompt(cmd, "Teaching or industry experience: ")
			}

			req := models.ApplicationRequest{
				Expertise:  validation.SanitizeText(expertise),
				Experience: validation.SanitizeText(experience),
				Motivation: validation.SanitizeText(motivation),
			}
			if err := validation.Validate.Struct(req); err != nil {
				return fmt.Errorf("application rejected: %s", validation.FirstError(err))
			}

			application, err := app.Gateway.Apply(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("could not submit application: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Application submitted (%s). Check back with 'coursedeck instructor application'.\n", application.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&expertise, "expertise", "", "area of expertise")
	cmd.Flags().StringVar(&experience, "experience", "", "relevant experience")
	cmd.Flags().StringVar(&motivation, "motivation", "", "why you want to teach (optional)")

	return cmd
}

func newMyApplicationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "application",
		Short: "Show the status of your instructor application",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var application models.InstructorApplication
			ctrl := guard.New(app.Sessions, app.Log)
			res := ctrl.Run(cmd.Context(), guard.Options{RequireAuth: true}, guard.Fetch{
				Name:     "application",
				Required: true,
				Run: func(ctx context.Context) error {
					var err error
					application, err = app.Gateway.MyApplication(ctx)
					return err
				},
			})

			out := cmd.OutOrStdout()
			switch res.State {
			case guard.StateRedirectPending:
				return loginRedirect(res)
			case guard.StateFailed:
				if errors.Is(res.Err, gateway.ErrNotFound) {
					fmt.Fprintln(out, "You haven't applied yet. Start with 'coursedeck instructor apply'.")
					return nil
				}
				fmt.Fprintln(out, "Couldn't load your application right now. Please try again.")
				app.Log.Warn("application lookup failed", errField(res.Err))
				return nil
			}

			printApplication(cmd, application)
			return nil
		},
	}
}

func newApplicationsCmd() *cobra.Command {
	var (
		status string
		page   int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "applications",
		Short: "Review the application queue (admins)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if status != "" {
				if err := validation.ValidateApplicationStatus(status); err != nil {
					return err
				}
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var (
				apps []models.InstructorApplication
				pg   *gateway.Pagination
			)
			ok, err := runAdminView(cmd, app, "applications", func(ctx context.Context) error {
				var err error
				apps, pg, err = app.Gateway.Applications(ctx, models.ApplicationStatus(status), page, limit)
				return err
			})
			if !ok {
				return err
			}

			out := cmd.OutOrStdout()
			if len(apps) == 0 {
				fmt.Fprintln(out, "No applications in the queue.")
				return nil
			}
			for _, a := range apps {
				fmt.Fprintf(out, "  %-36s %-24s %-20s %s\n", a.ID, truncate(a.Applicant.Name, 24), truncate(a.Expertise, 20), a.Status)
			}
			printPagination(out, pg)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (pending, approved, rejected)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Applications per page")

	return cmd
}

func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <application-id>",
		Short: "Approve an instructor application (admins)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ok, err := runAdminView(cmd, app, "approval", func(ctx context.Context) error {
				return app.Gateway.ApproveApplication(ctx, args[0])
			})
			if !ok {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Application approved. The applicant now has the instructor role.")
			return nil
		},
	}
}

func newRejectCmd() *cobra.Command {
	var feedback string

	cmd := &cobra.Command{
		Use:   "reject <application-id>",
		Short: "Reject an instructor application (admins)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ok, err := runAdminView(cmd, app, "rejection", func(ctx context.Context) error {
				return app.Gateway.RejectApplication(ctx, args[0], validation.SanitizeText(feedback))
			})
			if !ok {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Application rejected.")
			return nil
		},
	}

	cmd.Flags().StringVar(&feedback, "feedback", "", "feedback for the applicant (optional)")

	return cmd
}

func newInstructorCoursesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List the courses you teach",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			return instructorDashboard(cmd, app)
		},
	}
}

func newAddCourseCmd() *cobra.Command {
	var req models.NewCourse
	var level string

	cmd := &cobra.Command{
		Use:   "add-course",
		Short: "Create a new course",
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
			if sess.Role() != models.RoleInstructor && sess.Role() != models.RoleAdmin {
				return fmt.Errorf("only instructors can create courses; apply with 'coursedeck instructor apply'")
			}

			if req.Title == "" {
				req.Title = prompt(cmd, "Title: ")
			}
			if req.Description == "" {
				req.Description = prompt(cmd, "Description: ")
			}
			if req.Category == "" {
				req.Category = prompt(cmd, "Category: ")
			}

			req.Title = validation.SanitizeText(req.Title)
			req.ShortDescription = validation.SanitizeText(req.ShortDescription)
			req.Description = validation.SanitizeText(req.Description)
			req.Category = validation.SanitizeText(req.Category)
			req.Level = models.CourseLevel(level)
			if err := validation.Validate.Struct(req); err != nil {
				return fmt.Errorf("course rejected: %s", validation.FirstError(err))
			}

			course, err := app.Gateway.CreateCourse(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("could not create course: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Course created: %s (%s)\n", course.Title, course.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "course title")
	cmd.Flags().StringVar(&req.ShortDescription, "summary", "", "one-line summary")
	cmd.Flags().StringVar(&req.Description, "description", "", "full description")
	cmd.Flags().StringVar(&req.Category, "category", "", "primary category")
	cmd.Flags().StringVar(&level, "level", "", "difficulty (beginner, intermediate, advanced)")
	cmd.Flags().StringVar(&req.Language, "language", "", "course language")
	cmd.Flags().Float64Var(&req.Price, "price", 0, "list price in USD")
	cmd.Flags().Float64Var(&req.DiscountPrice, "discount-price", 0, "discounted price, if on sale")
	cmd.Flags().StringVar(&req.Thumbnail, "thumbnail", "", "thumbnail image URL")

	return cmd
}

func printApplication(cmd *cobra.Command, a models.InstructorApplication) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Application %s\n\n", a.ID)
	fmt.Fprintf(out, "  Status:     %s\n", a.Status)
	fmt.Fprintf(out, "  Expertise:  %s\n", a.Expertise)
	fmt.Fprintf(out, "  Experience: %s\n", truncate(a.Experience, 80))
	if !a.AppliedAt.IsZero() {
		fmt.Fprintf(out, "  Applied:    %s\n", a.AppliedAt.Format("Jan 02, 2006"))
	}
	if a.Status == models.ApplicationRejected && a.Feedback != "" {
		fmt.Fprintf(out, "  Feedback:   %s\n", a.Feedback)
	}
	if a.Status == models.ApplicationApproved {
		fmt.Fprintln(out, "\nLog in again to refresh your role, then try 'coursedeck instructor add-course'.")
	}
}
