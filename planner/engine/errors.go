package engine

import "errors"

// Sentinel errors for graph construction and search contract violations.
var (
	// ErrInvalidCityCount is returned when a graph is built with fewer than one city.
	ErrInvalidCityCount = errors.New("engine: city count must be at least 1")

	// ErrCityOutOfRange is returned when a road, station or search endpoint
	// names a city outside [1, N].
	ErrCityOutOfRange = errors.New("engine: city out of range")

	// ErrNegativeDistance is returned when a road has a negative distance.
	ErrNegativeDistance = errors.New("engine: negative road distance")

	// ErrNegativeCapacity is returned when the fuel capacity is below zero.
	ErrNegativeCapacity = errors.New("engine: negative fuel capacity")

	// ErrNilGraph is returned when a search is started without a graph.
	ErrNilGraph = errors.New("engine: graph is nil")

	// ErrNoRoad is returned by Narrate when two consecutive path cities are not adjacent.
	ErrNoRoad = errors.New("engine: no road between consecutive cities")

	// ErrInsufficientFuel is returned by Narrate when a leg is longer than the fuel left.
	ErrInsufficientFuel = errors.New("engine: leg exceeds remaining fuel")
)
