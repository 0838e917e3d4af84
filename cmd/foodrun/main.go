package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "foodrun",
	Short: "foodrun is a campus food-run coordination CLI",
	Long: "foodrun coordinates campus food runs: one user broadcasts a " +
		"restaurant trip, others join and order, and a PIN confirms each handoff.",
}

func init() {
	// Auth
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Runs
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(unjoinCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(historyCmd)

	// Points
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(redeemCmd)

	// Local backend
	rootCmd.AddCommand(devCmd)
}
