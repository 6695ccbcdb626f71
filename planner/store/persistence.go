package store

import "github.com/wricardo/mcp-training/fuelroute/planner/service"

// PlanPersistence defines the interface for persisting plans
type PlanPersistence interface {
	// Save persists a plan to storage
	Save(plan *service.Plan) error

	// Load retrieves a plan from storage by ID
	Load(id string) (*service.Plan, error)

	// Delete removes a plan from storage
	Delete(id string) error

	// ListAll returns all persisted plan IDs
	ListAll() ([]string, error)

	// Exists checks if a plan exists in storage
	Exists(id string) bool
}
