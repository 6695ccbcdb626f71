package service

import (
	"context"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

// PlannerService defines all trip planning operations
type PlannerService interface {
	// Planning
	PlanTrip(ctx context.Context, req PlanRequest) (*Plan, error)
	Sweep(ctx context.Context, req SweepRequest) (*SweepResult, error)
	MinimumCapacity(ctx context.Context, network string) (*CapacityReport, error)

	// Stored plans
	GetPlan(ctx context.Context, id string) (*Plan, error)
	ListPlans(ctx context.Context) ([]*Plan, error)
	DeletePlan(ctx context.Context, id string) (*Plan, error)

	// Networks
	ListNetworks(ctx context.Context) ([]*NetworkInfo, error)
	LoadNetwork(ctx context.Context, name string) (*engine.NetworkConfig, error)
	SaveNetwork(ctx context.Context, name string, config *engine.NetworkConfig) error
}

// PlanStore defines plan storage operations
type PlanStore interface {
	Create(plan *Plan) (*Plan, error)
	Get(id string) (*Plan, error)
	List() []*Plan
	Delete(id string) error
}

// NetworkManager handles network definition loading
type NetworkManager interface {
	LoadConfig(name string) (*engine.NetworkConfig, error)
	ListConfigs() ([]*NetworkInfo, error)
	GetDefault() *engine.NetworkConfig
	SaveConfig(name string, config *engine.NetworkConfig) error
}
