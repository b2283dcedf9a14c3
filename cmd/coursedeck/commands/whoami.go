package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			sess := app.Sessions.Current()
			out := cmd.OutOrStdout()
			if !sess.Authenticated() {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}

			c := sess.Claims
			fmt.Fprintf(out, "  Name:  %s\n", c.Name)
			fmt.Fprintf(out, "  Email: %s\n", c.Email)
			fmt.Fprintf(out, "  Role:  %s\n", c.Role)
			if exp := c.ExpiresAt(); !exp.IsZero() {
				fmt.Fprintf(out, "  Token expires: %s\n", exp.Format(time.RFC1123))
				if exp.Before(time.Now()) {
					// The session still displays; the gateway will reject
					// the token on the next protected call.
					fmt.Fprintln(out, "  (token looks expired; you may need to log in again)")
				}
			}
			return nil
		},
	}
}
