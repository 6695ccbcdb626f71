package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

// plannerServiceImpl implements the PlannerService interface
type plannerServiceImpl struct {
	plans    PlanStore
	networks NetworkManager
	metrics  *Metrics
}

// NewPlannerService creates a new planner service. metrics may be nil.
func NewPlannerService(plans PlanStore, networks NetworkManager, metrics *Metrics) PlannerService {
	return &plannerServiceImpl{
		plans:    plans,
		networks: networks,
		metrics:  metrics,
	}
}

// resolvedNetwork is a network ready to be searched.
type resolvedNetwork struct {
	name     string
	config   *engine.NetworkConfig
	graph    *engine.Graph
	stations engine.FuelStations
}

// resolveNetwork picks the inline definition, the named one, or the default.
func (s *plannerServiceImpl) resolveNetwork(name string, inline *engine.NetworkConfig) (*resolvedNetwork, error) {
	var config *engine.NetworkConfig
	switch {
	case inline != nil:
		config = inline
	case name != "":
		loaded, err := s.networks.LoadConfig(name)
		if err != nil {
			if errors.Is(err, ErrNetworkNotFound) {
				return nil, s.notFoundError(name)
			}
			return nil, fmt.Errorf("failed to load network %s: %w", name, err)
		}
		config = loaded
	default:
		config = s.networks.GetDefault()
		if config == nil {
			return nil, fmt.Errorf("%w: no default network configured", ErrNetworkNotFound)
		}
	}

	g, stations, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if name == "" {
		name = config.Name
	}
	return &resolvedNetwork{name: engine.NetworkID(name), config: config, graph: g, stations: stations}, nil
}

// notFoundError lists the available networks to help the caller.
func (s *plannerServiceImpl) notFoundError(name string) error {
	infos, err := s.networks.ListConfigs()
	if err == nil && len(infos) > 0 {
		ids := make([]string, 0, len(infos))
		for _, info := range infos {
			ids = append(ids, info.NetworkID)
		}
		return fmt.Errorf("%w: '%s'. Available networks: %v", ErrNetworkNotFound, name, ids)
	}
	return fmt.Errorf("%w: '%s'. Use /api/networks to list available networks", ErrNetworkNotFound, name)
}

func validateRequest(req any) error {
	if err := engine.Validator().Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on '%s'", ErrInvalidRequest, fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

func searchOptions(start, destination engine.City, trackPath bool) []engine.Option {
	opts := []engine.Option{engine.WithTrackPath(trackPath)}
	if start != 0 {
		opts = append(opts, engine.WithStart(start))
	}
	if destination != 0 {
		opts = append(opts, engine.WithDestination(destination))
	}
	return opts
}

// PlanTrip runs one search and stores the result
func (s *plannerServiceImpl) PlanTrip(ctx context.Context, req PlanRequest) (*Plan, error) {
	defer s.metrics.ObserveDuration("plan", time.Now())

	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	network, err := s.resolveNetwork(req.Network, req.Inline)
	if err != nil {
		return nil, err
	}

	capacity := network.config.FuelCapacity
	if req.FuelCapacity != nil {
		capacity = *req.FuelCapacity
	}
	trackPath := true
	if req.TrackPath != nil {
		trackPath = *req.TrackPath
	}

	res, err := engine.Search(network.graph, capacity, network.stations, searchOptions(req.Start, req.Destination, trackPath)...)
	s.metrics.ObserveSearch(res, err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	plan := &Plan{
		Network:      network.name,
		FuelCapacity: capacity,
		Start:        req.Start,
		Destination:  req.Destination,
		Distance:     res.Distance,
		Found:        res.Found,
		Path:         res.Path,
		Stats:        res.Stats,
		CreatedAt:    time.Now(),
	}
	if plan.Start == 0 {
		plan.Start = engine.StartCity
	}
	if plan.Destination == 0 {
		plan.Destination = network.graph.Destination()
	}

	if len(res.Path) > 0 {
		trip, err := engine.Narrate(network.graph, res.Path, capacity, network.stations)
		if err != nil {
			return nil, fmt.Errorf("failed to narrate plan: %w", err)
		}
		plan.Trip = &trip
	}

	stored, err := s.plans.Create(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to store plan: %w", err)
	}

	log.Printf("[PLAN] id=%s network=%s capacity=%d %d->%d distance=%d pops=%d",
		stored.ID, stored.Network, capacity, stored.Start, stored.Destination, stored.Distance, stored.Stats.Pops)

	return stored, nil
}

// Sweep runs one search per requested capacity without storing plans
func (s *plannerServiceImpl) Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error) {
	defer s.metrics.ObserveDuration("sweep", time.Now())

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	network, err := s.resolveNetwork(req.Network, req.Inline)
	if err != nil {
		return nil, err
	}

	entries, err := engine.Sweep(ctx, network.graph, network.stations, req.Capacities,
		searchOptions(req.Start, req.Destination, false)...)
	if err != nil {
		s.metrics.ObserveSearch(engine.Result{}, err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	for _, e := range entries {
		s.metrics.ObserveSearch(e.Result, nil)
	}

	return &SweepResult{Network: network.name, Entries: entries}, nil
}

// MinimumCapacity finds the smallest tank that reaches city N
func (s *plannerServiceImpl) MinimumCapacity(ctx context.Context, name string) (*CapacityReport, error) {
	defer s.metrics.ObserveDuration("minimum_capacity", time.Now())

	network, err := s.resolveNetwork(name, nil)
	if err != nil {
		return nil, err
	}

	capacity, err := engine.MinimumCapacity(network.graph, network.stations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	report := &CapacityReport{
		Network:         network.name,
		MinimumCapacity: capacity,
		Distance:        engine.Unreachable,
	}
	if capacity == engine.Unreachable {
		return report, nil
	}

	res, err := engine.Search(network.graph, capacity, network.stations)
	s.metrics.ObserveSearch(res, err)
	if err != nil {
		return nil, err
	}
	report.Reachable = res.Found
	report.Distance = res.Distance
	return report, nil
}

// GetPlan retrieves a stored plan
func (s *plannerServiceImpl) GetPlan(ctx context.Context, id string) (*Plan, error) {
	plan, err := s.plans.Get(id)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListPlans returns all stored plans, newest first
func (s *plannerServiceImpl) ListPlans(ctx context.Context) ([]*Plan, error) {
	plans := s.plans.List()
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID < plans[j].ID
	})
	return plans, nil
}

// DeletePlan removes a stored plan and returns what was removed
func (s *plannerServiceImpl) DeletePlan(ctx context.Context, id string) (*Plan, error) {
	plan, err := s.plans.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Delete(id); err != nil {
		return nil, err
	}
	return plan, nil
}

// ListNetworks returns all stored networks
func (s *plannerServiceImpl) ListNetworks(ctx context.Context) ([]*NetworkInfo, error) {
	return s.networks.ListConfigs()
}

// LoadNetwork loads a network definition by name
func (s *plannerServiceImpl) LoadNetwork(ctx context.Context, name string) (*engine.NetworkConfig, error) {
	config, err := s.networks.LoadConfig(name)
	if err != nil {
		if errors.Is(err, ErrNetworkNotFound) {
			return nil, s.notFoundError(name)
		}
		return nil, err
	}
	return config, nil
}

// SaveNetwork validates and stores a network definition
func (s *plannerServiceImpl) SaveNetwork(ctx context.Context, name string, config *engine.NetworkConfig) error {
	if name == "" {
		return fmt.Errorf("%w: network name is required", ErrInvalidRequest)
	}
	if err := engine.ValidateNetworkConfig(config); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return s.networks.SaveConfig(name, config)
}
