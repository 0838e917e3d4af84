package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/workflow"
	"github.com/shashiranjanraj/foodrun/pkg/apierr"
	"github.com/shashiranjanraj/foodrun/pkg/validate"
)

func parseRunID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid run id %q", arg)
	}
	return uint(id), nil
}

// foodrun runs: available and joined, one consistent snapshot.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List available and joined runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		view, err := s.rec.Refresh(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Println("Available:")
		if err := printRuns(view.Available); err != nil {
			return err
		}
		fmt.Println("\nJoined:")
		if err := printRuns(view.Joined); err != nil {
			return err
		}
		for _, run := range view.Joined {
			if run.MyOrder != nil {
				fmt.Printf("  run %d, your order: %s ($%.2f), PIN %s\n",
					run.ID, run.MyOrder.Items, run.MyOrder.Amount, run.MyOrder.Pin)
			}
		}
		return nil
	},
}

// foodrun create <restaurant> <drop-point> <eta> [capacity]
var createCmd = &cobra.Command{
	Use:   "create <restaurant> <drop-point> <eta> [capacity]",
	Short: "Broadcast a new run",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		capacity := 5
		if len(args) == 4 {
			capacity, err = strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid capacity %q", args[3])
			}
		}

		draft := models.RunDraft{
			Restaurant: args[0],
			DropPoint:  args[1],
			Eta:        args[2],
			Capacity:   capacity,
		}
		if errs := validate.Struct(draft); validate.HasErrors(errs) {
			return &apierr.ValidationError{Fields: errs}
		}

		run, err := s.gw.CreateRun(cmd.Context(), draft)
		if err != nil {
			return err
		}
		fmt.Printf("Run %d created: %s -> %s at %s (%d seats)\n",
			run.ID, run.Restaurant, run.DropPoint, run.Eta, run.SeatsRemaining)
		return nil
	},
}

// foodrun show <run-id>
var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its orders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}

		run, err := s.rec.Detail(cmd.Context(), id)
		if err != nil {
			return err
		}

		fmt.Printf("Run %d: %s -> %s at %s [%s], %d/%d seats, by %s\n",
			run.ID, run.Restaurant, run.DropPoint, run.Eta, run.Status,
			run.SeatsRemaining, run.Capacity, run.RunnerUsername)
		return printOrders(run.Orders)
	},
}

// foodrun join <run-id> <qty>x<item>=<price> ...
var joinCmd = &cobra.Command{
	Use:   "join <run-id> <qty>x<item>=<price> [more items...]",
	Short: "Join a run with an order, e.g. `foodrun join 5 1xBurger=10 2xFries=3.50`",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}

		run, err := s.rec.Detail(cmd.Context(), id)
		if err != nil {
			return err
		}

		join := workflow.NewJoin(s.gw, s.rec, s.store)
		if err := join.Open(run); err != nil {
			return err
		}
		for i, arg := range args[1:] {
			qty, name, price, err := parseItem(arg)
			if err != nil {
				return err
			}
			join.Cart().Add(i+1, name, price)
			join.Cart().SetQuantity(i+1, qty)
		}

		fmt.Printf("Ordering %s ($%.2f)...\n", join.Cart().Description(), join.Cart().Total())
		pin, err := join.Confirm(cmd.Context())
		if err != nil {
			return err
		}

		// Shown once; the backend will not reveal it to the runner.
		fmt.Printf("Joined run %d. Your pickup PIN is %s. Keep it for handoff.\n", id, pin)
		return nil
	},
}

// parseItem parses "2xFries=3.50" into quantity, name, unit price.
func parseItem(arg string) (int, string, float64, error) {
	qtyPart, rest, ok := strings.Cut(arg, "x")
	if !ok {
		return 0, "", 0, fmt.Errorf("invalid item %q (want <qty>x<item>=<price>)", arg)
	}
	qty, err := strconv.Atoi(qtyPart)
	if err != nil || qty <= 0 {
		return 0, "", 0, fmt.Errorf("invalid quantity in %q", arg)
	}
	name, pricePart, ok := strings.Cut(rest, "=")
	if !ok || name == "" {
		return 0, "", 0, fmt.Errorf("invalid item %q (want <qty>x<item>=<price>)", arg)
	}
	price, err := strconv.ParseFloat(pricePart, 64)
	if err != nil || price < 0 {
		return 0, "", 0, fmt.Errorf("invalid price in %q", arg)
	}
	return qty, name, price, nil
}

// foodrun unjoin <run-id>
var unjoinCmd = &cobra.Command{
	Use:   "unjoin <run-id>",
	Short: "Withdraw your order from a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		if _, err := s.rec.Unjoin(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Left run %d.\n", id)
		return nil
	},
}

// foodrun verify <run-id> <order-id> <pin>
var verifyCmd = &cobra.Command{
	Use:   "verify <run-id> <order-id> <pin>",
	Short: "Confirm a handoff by PIN (runner only)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		runID, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		orderID, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}

		run, err := s.rec.Detail(cmd.Context(), runID)
		if err != nil {
			return err
		}
		var order models.Order
		found := false
		for _, o := range run.Orders {
			if o.ID == uint(orderID) {
				order, found = o, true
				break
			}
		}
		if !found {
			return fmt.Errorf("order %d not found on run %d", orderID, runID)
		}

		verifier := workflow.NewPinVerifier(s.gw, s.rec)
		if _, err := verifier.Verify(cmd.Context(), run, order, args[2]); err != nil {
			return err
		}
		fmt.Printf("Order %d delivered.\n", orderID)
		return nil
	},
}

// foodrun complete <run-id>
var completeCmd = &cobra.Command{
	Use:   "complete <run-id>",
	Short: "Mark your run completed and collect points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		result, err := s.rec.Complete(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Run %d completed. Earned %d points.\n", id, result.PointsEarned)
		return nil
	},
}

// foodrun cancel <run-id>
var cancelCmd = &cobra.Command{
	Use:   "cancel <run-id>",
	Short: "Cancel your run and drop its orders",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		id, err := parseRunID(args[0])
		if err != nil {
			return err
		}
		if _, err := s.rec.Cancel(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Run %d cancelled.\n", id)
		return nil
	},
}

// foodrun history [mine|joined]
var historyCmd = &cobra.Command{
	Use:   "history [mine|joined]",
	Short: "List finished runs (default: mine)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := buildStack()
		if err != nil {
			return err
		}
		defer s.Close()

		which := "mine"
		if len(args) == 1 {
			which = args[0]
		}

		var runs []models.Run
		switch which {
		case "mine":
			runs, err = s.rec.MineHistory(cmd.Context())
		case "joined":
			runs, err = s.rec.JoinedHistory(cmd.Context())
		default:
			return fmt.Errorf("unknown history %q (want mine or joined)", which)
		}
		if err != nil {
			return err
		}
		return printRuns(runs)
	},
}
