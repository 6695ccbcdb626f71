package service

import (
	"fmt"
	"time"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

// PlanRequest asks for one optimal trip. Network names a stored network;
// Inline carries a full definition instead. With neither, the default
// network is used.
type PlanRequest struct {
	Network      string                `json:"network,omitempty"`
	Inline       *engine.NetworkConfig `json:"inline,omitempty" validate:"omitempty"`
	FuelCapacity *int                  `json:"fuel_capacity,omitempty" validate:"omitempty,gte=0"`
	Start        engine.City           `json:"start,omitempty" validate:"gte=0"`
	Destination  engine.City           `json:"destination,omitempty" validate:"gte=0"`
	TrackPath    *bool                 `json:"track_path,omitempty"`
}

// Plan is a computed trip as stored and returned to clients.
type Plan struct {
	ID           string        `json:"id"`
	Network      string        `json:"network"`
	FuelCapacity int           `json:"fuel_capacity"`
	Start        engine.City   `json:"start"`
	Destination  engine.City   `json:"destination"`
	Distance     int           `json:"distance"`
	Found        bool          `json:"found"`
	Path         []engine.City `json:"path,omitempty"`
	Trip         *engine.Trip  `json:"trip,omitempty"`
	Stats        engine.Stats  `json:"stats"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Summary renders the outcome on one line.
func (p *Plan) Summary() string {
	if !p.Found {
		return fmt.Sprintf("No route to city %d with fuel capacity %d", p.Destination, p.FuelCapacity)
	}
	return fmt.Sprintf("Shortest distance to city %d: %d", p.Destination, p.Distance)
}

// Narration is the summary line followed by the step-by-step trip report
// when a path was tracked.
func (p *Plan) Narration() string {
	if p.Trip == nil {
		return p.Summary()
	}
	return p.Summary() + "\n\n" + p.Trip.String()
}

// SweepRequest asks for one search per capacity on the same network.
type SweepRequest struct {
	Network     string                `json:"network,omitempty"`
	Inline      *engine.NetworkConfig `json:"inline,omitempty" validate:"omitempty"`
	Capacities  []int                 `json:"capacities" validate:"required,min=1,max=1000,dive,gte=0"`
	Start       engine.City           `json:"start,omitempty" validate:"gte=0"`
	Destination engine.City           `json:"destination,omitempty" validate:"gte=0"`
}

// SweepResult holds one entry per requested capacity, in request order.
type SweepResult struct {
	Network string              `json:"network"`
	Entries []engine.SweepEntry `json:"entries"`
}

// CapacityReport is the smallest tank that reaches the destination.
type CapacityReport struct {
	Network         string `json:"network"`
	Reachable       bool   `json:"reachable"`
	MinimumCapacity int    `json:"minimum_capacity"`
	Distance        int    `json:"distance"` // optimal distance at MinimumCapacity
}

// NetworkInfo provides information about a stored network
type NetworkInfo struct {
	Filename     string `json:"filename"`
	NetworkID    string `json:"network_id"` // the identifier to use in requests
	Name         string `json:"name"`
	Description  string `json:"description"`
	Cities       int    `json:"cities"`
	Roads        int    `json:"roads"`
	FuelCapacity int    `json:"fuel_capacity"`
	FuelStations int    `json:"fuel_stations"`
}

// PlanEvent is pushed to subscribers of a network when plans change.
type PlanEvent struct {
	Type      string    `json:"type"` // "plan_created", "plan_deleted"
	Network   string    `json:"network"`
	Plan      *Plan     `json:"plan"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventPlanCreated = "plan_created"
	EventPlanDeleted = "plan_deleted"
)
