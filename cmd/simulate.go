package cmd

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/storefleet/dispatch/core/dispatch"
	"github.com/storefleet/dispatch/infra/logger"
	"github.com/storefleet/dispatch/internal/eventbus"
	"github.com/storefleet/dispatch/simulator"
)

var (
	simStores    int
	simVehicles  int
	simCustomers int
	simOrders    int
	simFrozenPct float64
	simTraffic   bool
	simSeed      int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a synthetic dispatch scenario without a config file",
	RunE:  simulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simStores, "stores", 2, "number of stores")
	simulateCmd.Flags().IntVar(&simVehicles, "vehicles", 5, "number of vans")
	simulateCmd.Flags().IntVar(&simCustomers, "customers", 10, "number of customers")
	simulateCmd.Flags().IntVar(&simOrders, "orders", 20, "number of orders")
	simulateCmd.Flags().Float64Var(&simFrozenPct, "frozen-pct", 0.25, "fraction of frozen orders")
	simulateCmd.Flags().BoolVar(&simTraffic, "traffic", false, "report increased traffic")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "rng seed, 0 uses the current time")
	rootCmd.AddCommand(simulateCmd)
}

func simulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logg := logger.New("simulate")
	bus := eventbus.New()
	defer bus.Close()

	disp, err := dispatch.NewStoreDispatcher(dispatch.Config{}, nil, bus, logg)
	if err != nil {
		return err
	}

	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cfg := simulator.Config{
		Stores:    simStores,
		Vehicles:  simVehicles,
		Customers: simCustomers,
		Orders:    simOrders,
		FrozenPct: simFrozenPct,
	}
	cfg.SetDefaults()

	fleet := simulator.GenerateFleet(cfg, rng, logg)
	for _, st := range fleet.Stores {
		disp.RegisterStore(st)
	}
	for _, van := range fleet.Vans {
		van.AdoptDistances(disp.RegisterVehicle(van))
	}
	disp.SetIncreasedTraffic(simTraffic)

	for _, o := range simulator.GenerateOrders(fleet, cfg.Orders, cfg.FrozenPct, rng) {
		disp.ReceiveOrder(o)
	}

	if err := disp.DispatchVehicles(ctx); err != nil {
		return err
	}
	for _, van := range fleet.Vans {
		logg.Infof("van %s carried %d deliveries", van.VIN(), len(van.Deliveries()))
	}
	logg.Infof("%d orders in transit", len(disp.OrdersInTransit()))
	return nil
}
