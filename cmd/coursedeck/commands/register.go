package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/validation"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  "Register a new student account and log in with it",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if name == "" {
				name = prompt(cmd, "Name: ")
			}
			if email == "" {
				email = prompt(cmd, "Email: ")
			}
			if password == "" {
				password = prompt(cmd, "Password: ")
			}

			req := models.RegisterRequest{
				Name:     validation.SanitizeText(name),
				Email:    validation.SanitizeText(email),
				Password: password,
			}
			if err := validation.Validate.Struct(req); err != nil {
				return fmt.Errorf("registration failed: %s", validation.FirstError(err))
			}

			tok, err := app.Gateway.Register(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			claims, err := app.Sessions.Login(tok)
			if err != nil {
				return fmt.Errorf("gateway returned an unusable token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Welcome, %s!\n", claims.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")

	return cmd
}
