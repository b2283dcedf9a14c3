package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/gateway"
	"github.com/coursedeck/coursedeck/internal/guard"
	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/validation"
)

// NewEnrollCmd creates the enroll command
func NewEnrollCmd() *cobra.Command {
	var paymentIntentID, currency string

	cmd := &cobra.Command{
		Use:   "enroll <course-id>",
		Short: "Enroll in a course",
		Long: `Start checkout for a course. The payment itself happens in the
processor's hosted page; once it settles, re-run with --payment-intent to
confirm and activate the enrollment.`,
		Args: cobra.ExactArgs(1),
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

			// The price must be known before checkout starts; both fetches
			// settle before anything is offered to the user.
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
					Name:     "enrollment check",
					Required: true,
					Run: func(ctx context.Context) error {
						var err error
						check, err = app.Gateway.CheckEnrollment(ctx, courseID)
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
				fmt.Fprintln(out, "Couldn't start enrollment right now. Please try again.")
				app.Log.Warn("enroll view failed", errField(res.Err))
				return nil
			}

			if check.IsEnrolled {
				fmt.Fprintf(out, "You are already enrolled. Continue with 'coursedeck learn %s'.\n", courseID)
				return nil
			}

			if paymentIntentID != "" {
				return confirmPayment(cmd, app, courseID, paymentIntentID)
			}

			req := models.PaymentIntentRequest{
				CourseID: courseID,
				Amount:   course.EffectivePrice(),
				Currency: currency,
			}
			if err := validation.Validate.Struct(req); err != nil {
				return fmt.Errorf("cannot start checkout: %s", validation.FirstError(err))
			}

			intent, err := app.Gateway.CreatePaymentIntent(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("starting checkout: %w", err)
			}

			fmt.Fprintf(out, "Checkout started for %q ($%.2f %s).\n\n", course.Title, req.Amount, req.Currency)
			fmt.Fprintf(out, "  Payment intent: %s\n", intent.PaymentIntentID)
			fmt.Fprintf(out, "  Client secret:  %s\n\n", intent.ClientSecret)
			fmt.Fprintf(out, "Complete the payment in the marketplace's checkout page, then run:\n\n")
			fmt.Fprintf(out, "  coursedeck enroll %s --payment-intent %s\n", courseID, intent.PaymentIntentID)
			return nil
		},
	}

	cmd.Flags().StringVar(&paymentIntentID, "payment-intent", "", "confirm a settled payment intent")
	cmd.Flags().StringVar(&currency, "currency", "usd", "checkout currency")

	return cmd
}

func confirmPayment(cmd *cobra.Command, app *App, courseID, paymentIntentID string) error {
	req := models.ConfirmPaymentRequest{
		PaymentIntentID: paymentIntentID,
		CourseID:        courseID,
		// One key per confirmation attempt; transport-level retries of the
		// same attempt dedupe gateway-side.
		IdempotencyKey: uuid.NewString(),
	}

	enrollment, err := app.Gateway.ConfirmPayment(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("confirming payment: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Payment confirmed. You are enrolled in %q.\n", enrollment.Course.Title)
	fmt.Fprintf(out, "Start learning with 'coursedeck learn %s'.\n", courseID)
	return nil
}
