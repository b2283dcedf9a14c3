package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coursedeck/coursedeck/cmd/coursedeck/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "coursedeck",
		Short: "Course marketplace client",
		Long:  "Browse, enroll in and learn from marketplace courses through the platform gateway",
	}

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewSocialLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewHomeCmd())
	rootCmd.AddCommand(commands.NewCoursesCmd())
	rootCmd.AddCommand(commands.NewMyCoursesCmd())
	rootCmd.AddCommand(commands.NewLearnCmd())
	rootCmd.AddCommand(commands.NewEnrollCmd())
	rootCmd.AddCommand(commands.NewDashboardCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())
	rootCmd.AddCommand(commands.NewInstructorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
