package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/validation"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Long:  "Exchange credentials for a session token and store it for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if email == "" {
				email = prompt(cmd, "Email: ")
			}
			if password == "" {
				password = prompt(cmd, "Password: ")
			}

			req := models.LoginRequest{
				Email:    validation.SanitizeText(email),
				Password: password,
			}
			// Validation failures never reach the network.
			if err := validation.Validate.Struct(req); err != nil {
				return fmt.Errorf("login failed: %s", validation.FirstError(err))
			}

			tok, err := app.Gateway.Login(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			// Login is rejected if the gateway returned a token the decoder
			// cannot read; nothing is stored in that case.
			claims, err := app.Sessions.Login(tok)
			if err != nil {
				return fmt.Errorf("gateway returned an unusable token: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", claims.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")

	return cmd
}

// prompt reads one line from the command's input stream.
func prompt(cmd *cobra.Command, label string) string {
	fmt.Fprint(cmd.OutOrStdout(), label)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
