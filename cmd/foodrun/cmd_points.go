package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodrun/internal/stubserver"
)

// foodrun points
var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Show your points balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		summary, err := s.gw.Points(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("%d points (worth $%d)\n", summary.Points, summary.PointsValue)
		return nil
	},
}

// foodrun redeem
var redeemCmd = &cobra.Command{
	Use:   "redeem",
	Short: "Redeem your points balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		result, err := s.gw.RedeemPoints(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Redeemed %d points, %d remaining.\n",
			result.PointsRedeemed, result.PointsRemaining)
		return nil
	},
}

// foodrun dev runs the local backend for development and demos.
var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Start the local development backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return stubserver.Start()
	},
}
