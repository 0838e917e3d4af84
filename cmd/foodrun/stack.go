package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shashiranjanraj/foodrun/app/gateway"
	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/app/reconciler"
	"github.com/shashiranjanraj/foodrun/app/session"
	"github.com/shashiranjanraj/foodrun/config"
	"github.com/shashiranjanraj/foodrun/pkg/kvstore"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
)

// stack is the wired client: session persistence, gateway, reconciler.
type stack struct {
	store *session.Store
	mgr   *session.Manager
	gw    *gateway.Client
	rec   *reconciler.Reconciler
}

// buildStack assembles the client against API_BASE with the configured
// session driver.
func buildStack() (*stack, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	if uri := config.MongoLogURI(); uri != "" {
		if _, err := logger.EnableMongoSink(uri, "foodrun", "logs"); err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		}
	}

	kv, err := openSessionStore()
	if err != nil {
		return nil, err
	}

	store := session.NewStore(kv)
	gw := gateway.New(config.APIBase(), store)

	return &stack{
		store: store,
		mgr:   session.NewManager(store, gw),
		gw:    gw,
		rec:   reconciler.New(gw),
	}, nil
}

func (s *stack) Close() {
	s.rec.Close()
}

func openSessionStore() (kvstore.Store, error) {
	switch driver := config.SessionDriver(); driver {
	case "memory":
		return kvstore.NewMemory(), nil
	case "redis":
		return kvstore.NewRedis()
	case "file":
		return kvstore.NewFile(config.SessionPath()), nil
	default:
		return nil, fmt.Errorf("unsupported SESSION_DRIVER %q (supported: file, memory, redis)", driver)
	}
}

// requireUser exits with a friendly message when no one is logged in.
func (s *stack) requireUser() (models.Session, error) {
	current := s.store.Current()
	if current == nil {
		return models.Session{}, fmt.Errorf("not logged in, run `foodrun login` first")
	}
	return *current, nil
}

// printRuns renders a run list as a table.
func printRuns(runs []models.Run) error {
	if len(runs) == 0 {
		fmt.Println("No runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tRESTAURANT\tDROP\tETA\tSEATS\tRUNNER\tSTATUS")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d/%d\t%s\t%s\n",
			run.ID, run.Restaurant, run.DropPoint, run.Eta,
			run.SeatsRemaining, run.Capacity, run.RunnerUsername, run.Status)
	}
	return w.Flush()
}

// printOrders renders a run's order list.
func printOrders(orders []models.Order) error {
	if len(orders) == 0 {
		fmt.Println("No orders yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ORDER\tUSER\tITEMS\tAMOUNT\tSTATUS")
	for _, o := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%s\n",
			o.ID, o.UserEmail, o.Items, o.Amount, o.Status)
	}
	return w.Flush()
}
