package engine

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraph(t *testing.T) (*Graph, FuelStations) {
	t.Helper()
	g, stations, err := SampleNetwork().Build()
	require.NoError(t, err)
	return g, stations
}

// referenceDistance relaxes every (city, fuel) state until nothing changes.
// It shares no code with Search.
func referenceDistance(g *Graph, capacity int, stations FuelStations, start, dest City) int {
	type key struct{ c, f int }
	best := map[key]int{{start, capacity}: 0}

	for changed := true; changed; {
		changed = false
		for k, d := range best {
			for _, e := range g.Neighbors(k.c) {
				if e.Distance > k.f {
					continue
				}
				f := k.f - e.Distance
				if stations.Has(e.To) {
					f = capacity
				}
				nk := key{e.To, f}
				if old, ok := best[nk]; !ok || d+e.Distance < old {
					best[nk] = d + e.Distance
					changed = true
				}
			}
		}
	}

	result := math.MaxInt
	for k, d := range best {
		if k.c == dest && d < result {
			result = d
		}
	}
	if result == math.MaxInt {
		return Unreachable
	}
	return result
}

func requireValidPath(t *testing.T, g *Graph, res Result, capacity int, stations FuelStations, start, dest City) {
	t.Helper()
	require.NotEmpty(t, res.Path)
	assert.Equal(t, start, res.Path[0], "path must start at the start city")
	assert.Equal(t, dest, res.Path[len(res.Path)-1], "path must end at the destination")

	trip, err := Narrate(g, res.Path, capacity, stations)
	require.NoError(t, err, "returned path must be fuel-feasible")
	assert.Equal(t, res.Distance, trip.TotalDistance)
}

func TestSearch_SampleNetwork(t *testing.T) {
	g, stations := sampleGraph(t)

	res, err := Search(g, 100, stations, WithPath())
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.Equal(t, 170, res.Distance)
	assert.Equal(t, []City{1, 2, 4}, res.Path)
	requireValidPath(t, g, res, 100, stations, 1, 4)
}

func TestSearch_SampleNetworkWithoutShortcut(t *testing.T) {
	cfg := SampleNetwork()
	// drop the 2 <-> 4 road so the trip has to go through city 3
	cfg.Roads = []Road{
		{From: 1, To: 2, Distance: 80},
		{From: 2, To: 3, Distance: 60},
		{From: 3, To: 4, Distance: 70},
		{From: 1, To: 3, Distance: 120},
	}
	g, stations, err := cfg.Build()
	require.NoError(t, err)

	res, err := Search(g, 100, stations, WithPath())
	require.NoError(t, err)

	assert.Equal(t, 210, res.Distance)
	assert.Equal(t, []City{1, 2, 3, 4}, res.Path)
	requireValidPath(t, g, res, 100, stations, 1, 4)

	// 1 -> 3 costs 120 and never fits in a tank of 100
	_, err = Narrate(g, []City{1, 3, 4}, 100, stations)
	assert.ErrorIs(t, err, ErrInsufficientFuel)
}

func TestSearch_WithoutPathTracking(t *testing.T) {
	g, stations := sampleGraph(t)

	res, err := Search(g, 100, stations)
	require.NoError(t, err)
	assert.Equal(t, 170, res.Distance)
	assert.Nil(t, res.Path)
}

func TestSearch_StartIsDestination(t *testing.T) {
	single, err := NewGraph(1, nil)
	require.NoError(t, err)

	for _, capacity := range []int{0, 1, 50} {
		res, err := Search(single, capacity, NewFuelStations(), WithPath())
		require.NoError(t, err)
		assert.True(t, res.Found)
		assert.Equal(t, 0, res.Distance)
		assert.Equal(t, []City{1}, res.Path)
	}

	g, stations := sampleGraph(t)
	res, err := Search(g, 0, stations, WithDestination(1))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Distance)
}

func TestSearch_Unreachable(t *testing.T) {
	tests := []struct {
		name     string
		cities   int
		roads    []Road
		capacity int
		stations []City
	}{
		{
			name:     "different component",
			cities:   4,
			roads:    []Road{{1, 2, 1}, {3, 4, 1}},
			capacity: 10,
		},
		{
			name:     "single road longer than tank",
			cities:   2,
			roads:    []Road{{1, 2, 11}},
			capacity: 10,
		},
		{
			name:     "no refuel between two long legs",
			cities:   3,
			roads:    []Road{{1, 2, 6}, {2, 3, 6}},
			capacity: 10,
		},
		{
			name:     "zero capacity with positive roads",
			cities:   2,
			roads:    []Road{{1, 2, 1}},
			capacity: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGraph(tt.cities, tt.roads)
			require.NoError(t, err)

			res, err := Search(g, tt.capacity, NewFuelStations(tt.stations...), WithPath())
			require.NoError(t, err, "unreachable is not an error")
			assert.False(t, res.Found)
			assert.Equal(t, Unreachable, res.Distance)
			assert.Nil(t, res.Path)
		})
	}
}

func TestSearch_ZeroDistanceRoadsWithEmptyTank(t *testing.T) {
	g, err := NewGraph(3, []Road{{1, 2, 0}, {2, 3, 0}})
	require.NoError(t, err)

	res, err := Search(g, 0, NewFuelStations(), WithPath())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Distance)
	assert.Equal(t, []City{1, 2, 3}, res.Path)
}

func TestSearch_RefuelSetsFullCapacity(t *testing.T) {
	// Arriving at 2 with 8 left must give 10, not 18. With 18 the 3 -> 4
	// road would be reachable.
	g, err := NewGraph(4, []Road{{1, 2, 2}, {2, 3, 10}, {3, 4, 1}})
	require.NoError(t, err)

	res, err := Search(g, 10, NewFuelStations(2))
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, Unreachable, res.Distance)
}

func TestSearch_FuelAwareStates(t *testing.T) {
	// Reaching 4 directly (6) leaves 4 fuel, too little for the 5-long road
	// to 5. The detour through station 2 reaches 4 later but with 6 fuel.
	g, err := NewGraph(5, []Road{{1, 4, 6}, {1, 2, 3}, {2, 4, 4}, {4, 5, 5}})
	require.NoError(t, err)

	res, err := Search(g, 10, NewFuelStations(2), WithPath())
	require.NoError(t, err)
	assert.Equal(t, 12, res.Distance)
	assert.Equal(t, []City{1, 2, 4, 5}, res.Path)
	requireValidPath(t, g, res, 10, NewFuelStations(2), 1, 5)
}

func TestSearch_StartCityRefuels(t *testing.T) {
	// Starting from 2, the only way to 3 is to pass through city 1 and fill up.
	g, err := NewGraph(3, []Road{{1, 2, 4}, {1, 3, 8}})
	require.NoError(t, err)

	res, err := Search(g, 8, NewFuelStations(), WithStart(2), WithPath())
	require.NoError(t, err)
	assert.Equal(t, 12, res.Distance)
	assert.Equal(t, []City{2, 1, 3}, res.Path)

	// city 1 refuels however the station set was built
	for _, stations := range []FuelStations{nil, {}, {3: {}}} {
		res, err = Search(g, 8, stations, WithStart(2), WithPath())
		require.NoError(t, err)
		assert.Equal(t, 12, res.Distance)
		assert.Equal(t, []City{2, 1, 3}, res.Path)
	}
}

func TestSearch_CustomEndpoints(t *testing.T) {
	g, stations := sampleGraph(t)

	res, err := Search(g, 100, stations, WithStart(4), WithDestination(1), WithPath())
	require.NoError(t, err)
	assert.Equal(t, 170, res.Distance)
	assert.Equal(t, []City{4, 2, 1}, res.Path)
}

func TestSearch_PathsAreIndependent(t *testing.T) {
	// A star around city 1: every branch extends the same parent path.
	g, err := NewGraph(6, []Road{{1, 2, 1}, {1, 3, 1}, {1, 4, 1}, {1, 5, 1}, {5, 6, 1}})
	require.NoError(t, err)

	res, err := Search(g, 10, NewFuelStations(), WithPath())
	require.NoError(t, err)
	assert.Equal(t, []City{1, 5, 6}, res.Path)

	base := make([]City, 1, 8)
	base[0] = 1
	a := extendPath(base, 3)
	b := extendPath(base, 4)
	a[0] = 99
	assert.Equal(t, []City{1, 4}, b)
	assert.Equal(t, City(1), base[0])
}

func TestSearch_ContractViolations(t *testing.T) {
	g, stations := sampleGraph(t)

	_, err := Search(nil, 10, stations)
	assert.ErrorIs(t, err, ErrNilGraph)

	_, err = Search(g, -1, stations)
	assert.ErrorIs(t, err, ErrNegativeCapacity)

	_, err = Search(g, 10, stations, WithDestination(5))
	assert.ErrorIs(t, err, ErrCityOutOfRange)

	_, err = Search(g, 10, stations, WithStart(-3))
	assert.ErrorIs(t, err, ErrCityOutOfRange)

	_, err = Search(g, 10, NewFuelStations(9))
	assert.ErrorIs(t, err, ErrCityOutOfRange)
}

func TestSearch_DoesNotMutateInputs(t *testing.T) {
	g, stations := sampleGraph(t)
	roadsBefore := g.Roads()
	stationsBefore := stations.Sorted()

	_, err := Search(g, 100, stations, WithPath())
	require.NoError(t, err)

	assert.Equal(t, roadsBefore, g.Roads())
	assert.Equal(t, stationsBefore, stations.Sorted())
}

func TestSearch_Stats(t *testing.T) {
	g, stations := sampleGraph(t)

	res, err := Search(g, 100, stations)
	require.NoError(t, err)
	assert.Greater(t, res.Stats.Pops, 0)
	assert.GreaterOrEqual(t, res.Stats.Pushes, res.Stats.Pops)
	// 1 -> 3 (120) is skipped at least once
	assert.Greater(t, res.Stats.Infeasible, 0)
}

func randomNetwork(r *rand.Rand) (*Graph, FuelStations, int) {
	cities := 2 + r.IntN(6)
	roads := make([]Road, r.IntN(12))
	for i := range roads {
		roads[i] = Road{From: 1 + r.IntN(cities), To: 1 + r.IntN(cities), Distance: r.IntN(10)}
	}
	var st []City
	for c := 2; c <= cities; c++ {
		if r.IntN(3) == 0 {
			st = append(st, c)
		}
	}
	g, err := NewGraph(cities, roads)
	if err != nil {
		panic(err)
	}
	return g, NewFuelStations(st...), r.IntN(13)
}

func TestSearch_MatchesReference(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 42))

	for i := 0; i < 500; i++ {
		g, stations, capacity := randomNetwork(r)
		dest := g.Destination()

		res, err := Search(g, capacity, stations, WithPath())
		require.NoError(t, err)

		want := referenceDistance(g, capacity, stations, 1, dest)
		require.Equal(t, want, res.Distance, "case %d: roads=%v capacity=%d stations=%v", i, g.Roads(), capacity, stations.Sorted())
		require.Equal(t, want != Unreachable, res.Found)
		if res.Found {
			requireValidPath(t, g, res, capacity, stations, 1, dest)
		}
	}
}

func TestSearch_MonotoneInCapacity(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 11))

	for i := 0; i < 200; i++ {
		g, stations, _ := randomNetwork(r)

		prev := Unreachable
		for capacity := 0; capacity <= 15; capacity++ {
			res, err := Search(g, capacity, stations)
			require.NoError(t, err)

			if prev != Unreachable {
				require.True(t, res.Found, "more fuel must never lose reachability")
				require.LessOrEqual(t, res.Distance, prev, "more fuel must never cost distance")
			}
			if res.Found {
				prev = res.Distance
			}
		}
	}
}

func TestSearch_DeterministicTies(t *testing.T) {
	// Two equal-length routes to 4: the first road listed wins.
	g, err := NewGraph(4, []Road{{1, 2, 5}, {1, 3, 5}, {2, 4, 5}, {3, 4, 5}})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		res, err := Search(g, 100, NewFuelStations(), WithPath())
		require.NoError(t, err)
		assert.Equal(t, 10, res.Distance)
		assert.Equal(t, []City{1, 2, 4}, res.Path)
	}
}
