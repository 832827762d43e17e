package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/storefleet/dispatch/config"
	"github.com/storefleet/dispatch/core/dispatch"
	"github.com/storefleet/dispatch/core/dispatch/journal"
	coremetrics "github.com/storefleet/dispatch/core/metrics"
	"github.com/storefleet/dispatch/infra/logger"
	"github.com/storefleet/dispatch/infra/metrics"
	"github.com/storefleet/dispatch/internal/eventbus"
	"github.com/storefleet/dispatch/simulator"
)

// Service wires the dispatcher, its sinks and the simulated fleet together.
type Service struct {
	Dispatcher *dispatch.StoreDispatcher
	fleet      simulator.Config
	bus        eventbus.EventBus
	log        logger.Logger
	journal    journal.Store
	sink       coremetrics.MetricsSink
	promAddr   string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	disp, err := dispatch.NewStoreDispatcher(cfg.Dispatch, sink, bus, logger.New("dispatch"))
	if err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}

	svc := &Service{
		Dispatcher: disp,
		fleet:      cfg.Fleet,
		bus:        bus,
		log:        logg,
		sink:       sink,
		promAddr:   promListenAddr(cfg),
	}

	if cfg.Journal.Enabled {
		store, err := journal.NewJSONLStore(cfg.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("journal store: %w", err)
		}
		disp.SetJournal(store)
		svc.journal = store
	}
	return svc, nil
}

// promListenAddr extracts the listen address from a configured prometheus sink.
func promListenAddr(cfg *config.Config) string {
	for _, s := range cfg.Metrics.Sinks {
		if s.Type == "prometheus" {
			if addr, ok := s.Conf["listen_addr"].(string); ok {
				return addr
			}
		}
	}
	return ""
}

// Run executes one simulated delivery day: the fleet registers, stores submit
// their order book, the assignment loop runs, and every scheduled order is
// eventually reported delivered. Run returns once the scenario completes or
// the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	seed := s.fleet.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	fleet := simulator.GenerateFleet(s.fleet, rng, logger.New("fleet"))
	for _, st := range fleet.Stores {
		s.Dispatcher.RegisterStore(st)
	}
	for _, van := range fleet.Vans {
		van.AdoptDistances(s.Dispatcher.RegisterVehicle(van))
	}

	orders := simulator.GenerateOrders(fleet, s.fleet.Orders, s.fleet.FrozenPct, rng)
	for _, o := range orders {
		s.Dispatcher.ReceiveOrder(o)
	}
	s.log.Infof("submitted %d orders across %d stores to a fleet of %d vans",
		len(orders), len(fleet.Stores), len(fleet.Vans))

	if err := s.Dispatcher.DispatchVehicles(ctx); err != nil {
		return fmt.Errorf("dispatch: %w", err)
	}

	for _, o := range s.Dispatcher.OrdersInTransit() {
		s.Dispatcher.MarkDelivered(o)
	}
	s.log.Infof("scenario complete: %d orders delivered",
		len(s.Dispatcher.OrdersDeliveryComplete()))
	return ctx.Err()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.bus != nil {
		s.bus.Close()
	}
	if s.journal != nil {
		return s.journal.Close()
	}
	return nil
}
