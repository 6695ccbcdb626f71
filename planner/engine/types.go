package engine

// City identifies a city in the range [1, N].
type City = int

const (
	// StartCity is where every trip begins unless WithStart overrides it.
	StartCity City = 1

	// Unreachable is the distance reported when no fuel-feasible route exists.
	Unreachable = -1
)

// Road is an undirected road between two cities.
type Road struct {
	From     City `json:"from" yaml:"from"`
	To       City `json:"to" yaml:"to"`
	Distance int  `json:"distance" yaml:"distance"`
}

// Edge is one direction of a Road as stored in an adjacency list.
type Edge struct {
	To       City
	Distance int
}

// SearchState is a single frontier entry.
type SearchState struct {
	City     City
	Fuel     int
	Distance int
	Path     []City
}

// Stats counts the work done by one search.
type Stats struct {
	Pops       int `json:"pops"`       // states popped from the frontier
	Pushes     int `json:"pushes"`     // states pushed onto the frontier
	Stale      int `json:"stale"`      // popped states whose (city, fuel) was already settled
	Infeasible int `json:"infeasible"` // roads skipped because they exceeded the remaining fuel
}

// Result is the outcome of a Search.
type Result struct {
	Distance int    `json:"distance"`
	Found    bool   `json:"found"`
	Path     []City `json:"path,omitempty"`
	Stats    Stats  `json:"stats"`
}

// TripStep is one leg of a narrated trip.
type TripStep struct {
	Index      int  `json:"index"`
	From       City `json:"from"`
	To         City `json:"to"`
	Distance   int  `json:"distance"`
	FuelBefore int  `json:"fuel_before"`
	FuelOnLeg  int  `json:"fuel_on_arrival"` // fuel left after driving, before any refuel
	Refueled   bool `json:"refueled,omitempty"`
	FuelAfter  int  `json:"fuel_after"`
}

// Trip is the step-by-step narration of a path.
type Trip struct {
	Start         City       `json:"start"`
	StartFuel     int        `json:"start_fuel"`
	Steps         []TripStep `json:"steps"`
	TotalDistance int        `json:"total_distance"`
}
