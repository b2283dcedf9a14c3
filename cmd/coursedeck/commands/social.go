package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck/internal/social"
)

// NewSocialLoginCmd creates the social-login command
func NewSocialLoginCmd() *cobra.Command {
	var provider string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "social-login",
		Short: "Log in through GitHub or Google",
		Long: `Start a provider login in the browser. The gateway handles the provider
handshake and redirects back to a local callback with the session token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider != "github" && provider != "google" {
				return fmt.Errorf("unsupported provider %q (use github or google)", provider)
			}

			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			srv, err := social.Listen(app.Config.CallbackAddr, app.Log)
			if err != nil {
				return err
			}
			defer func() {
				if err := srv.Close(); err != nil {
					app.Log.Debug("closing callback server", zap.Error(err))
				}
			}()

			out := cmd.OutOrStdout()
			loginURL := app.Gateway.SocialLoginURL(provider, srv.RedirectURI())
			fmt.Fprintf(out, "Open this URL in your browser to continue:\n\n  %s\n\nWaiting for the login to complete...\n", loginURL)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			res, err := srv.Wait(ctx)
			if err != nil {
				return fmt.Errorf("no login completed: %w", err)
			}

			if res.ErrorCode != "" {
				// The token store is untouched on provider errors.
				fmt.Fprintf(out, "Login failed: %s\n", res.ErrorCode)
				fmt.Fprintln(out, "Try again, or use 'coursedeck login' with credentials.")
				return fmt.Errorf("social login failed: %s", res.ErrorCode)
			}

			claims, err := app.Sessions.Login(res.Token)
			if err != nil {
				return fmt.Errorf("gateway returned an unusable token: %w", err)
			}

			fmt.Fprintf(out, "Login successful! Welcome, %s.\n", claims.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "github", "login provider (github or google)")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "how long to wait for the browser login")

	return cmd
}
