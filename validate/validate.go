// Package validate checks network definition files before they are served.
// For every file it verifies:
//   - JSON or YAML structure and required fields
//   - Field constraints (city count, capacity, station ids)
//   - Road and station ranges within cities 1..N
//   - Connectivity: the destination is connected to the start ignoring fuel
//   - Reachability: the optimal distance at the configured fuel capacity,
//     and the smallest capacity that reaches the destination at all
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

// Result captures the outcome of validating a single file. Errors makes the
// file invalid; Warnings and Info never do.
type Result struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Info     []string `json:"info,omitempty"`

	// Filled once the network decodes and passes the range checks.
	Distance        int  `json:"distance"`
	Reachable       bool `json:"reachable"`
	MinimumCapacity int  `json:"minimum_capacity"`
}

func (r *Result) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateFile loads and validates a single network file.
func ValidateFile(path string) Result {
	result := Result{
		File:            filepath.Base(path),
		Valid:           true,
		Distance:        engine.Unreachable,
		MinimumCapacity: engine.Unreachable,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeNetworkConfig(data, filepath.Ext(path))
	if err != nil {
		result.fail("%v", err)
		return result
	}

	ValidateConfig(config, &result)
	return result
}

// ValidateConfig runs every check against an already decoded network and
// records the findings in result.
func ValidateConfig(config *engine.NetworkConfig, result *Result) {
	checkFields(config, result)
	checkRanges(config, result)
	if !result.Valid {
		return
	}

	g, stations, err := config.Build()
	if err != nil {
		result.fail("%v", err)
		return
	}

	checkRoads(g, config, result)
	checkConnectivity(g, result)
	if !result.Valid {
		return
	}
	checkReachability(g, stations, config.FuelCapacity, result)

	if result.Valid {
		result.Info = append(result.Info,
			fmt.Sprintf("✓ Name: %s", config.Name),
			fmt.Sprintf("✓ Cities: %d", g.Cities()),
			fmt.Sprintf("✓ Roads: %d", g.RoadCount()),
			fmt.Sprintf("✓ Fuel stations: %s", joinCities(stations.Sorted())),
			fmt.Sprintf("✓ Fuel capacity: %d", config.FuelCapacity),
		)
	}
}

// checkFields reports every struct tag violation, not only the first.
func checkFields(config *engine.NetworkConfig, result *Result) {
	err := engine.Validator().Struct(config)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result.fail("%v", err)
		return
	}
	for _, fe := range verrs {
		result.fail("%s failed on '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
	}
}

func checkRanges(config *engine.NetworkConfig, result *Result) {
	if config.Cities < 1 {
		return // already reported by checkFields
	}
	for i, r := range config.Roads {
		if r.From < 1 || r.From > config.Cities || r.To < 1 || r.To > config.Cities {
			result.fail("Road %d (%d <-> %d) must connect cities between 1 and %d", i+1, r.From, r.To, config.Cities)
		}
		if r.Distance < 0 {
			result.fail("Road %d (%d <-> %d) has negative distance %d", i+1, r.From, r.To, r.Distance)
		}
	}
	seen := make(map[engine.City]bool)
	for _, c := range config.FuelStations {
		if c > config.Cities {
			result.fail("Fuel station %d is outside cities 1..%d", c, config.Cities)
		}
		if seen[c] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Fuel station %d listed more than once", c))
		}
		seen[c] = true
	}
}

// checkRoads flags roads that can never matter to a search.
func checkRoads(g *engine.Graph, config *engine.NetworkConfig, result *Result) {
	for i, r := range config.Roads {
		if r.From == r.To {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Road %d is a loop at city %d", i+1, r.From))
			continue
		}
		if d, _ := g.Distance(r.From, r.To); d < r.Distance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Road %d (%d <-> %d, %d) is shadowed by a shorter parallel road (%d)", i+1, r.From, r.To, r.Distance, d))
		}
	}
	for c := 1; c <= g.Cities(); c++ {
		if len(g.Neighbors(c)) == 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("City %d has no roads", c))
		}
	}
}

// checkConnectivity walks the roads from the start city ignoring fuel.
func checkConnectivity(g *engine.Graph, result *Result) {
	visited := map[engine.City]bool{engine.StartCity: true}
	queue := []engine.City{engine.StartCity}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, e := range g.Neighbors(current) {
			if !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	dest := g.Destination()
	if !visited[dest] {
		result.fail("Connectivity failure: city %d is not connected to city %d", dest, engine.StartCity)
		return
	}

	unconnected := []engine.City{}
	for c := 1; c <= g.Cities(); c++ {
		if !visited[c] {
			unconnected = append(unconnected, c)
		}
	}
	if len(unconnected) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Cities not connected to city %d: %s", engine.StartCity, joinCities(unconnected)))
	}
	result.Info = append(result.Info, fmt.Sprintf("✓ Connectivity: %d/%d cities connected to city %d", len(visited), g.Cities(), engine.StartCity))
}

// checkReachability runs the search at the configured capacity and finds the
// smallest capacity that would succeed.
func checkReachability(g *engine.Graph, stations engine.FuelStations, capacity int, result *Result) {
	res, err := engine.Search(g, capacity, stations)
	if err != nil {
		result.fail("Search failed: %v", err)
		return
	}

	minimum, err := engine.MinimumCapacity(g, stations)
	if err != nil {
		result.fail("Minimum capacity search failed: %v", err)
		return
	}
	result.MinimumCapacity = minimum

	if !res.Found {
		result.fail("Reachability failure: city %d cannot be reached with fuel capacity %d (minimum capacity %d)",
			g.Destination(), capacity, minimum)
		return
	}

	result.Reachable = true
	result.Distance = res.Distance
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Reachability: city %d at distance %d", g.Destination(), res.Distance),
		fmt.Sprintf("✓ Minimum capacity: %d", minimum),
	)
}

// ValidateDir validates every network file in dir, ordered by file name.
func ValidateDir(dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read network directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		results = append(results, ValidateFile(file))
	}
	return results, nil
}

// AllValid reports whether every result is valid.
func AllValid(results []Result) bool {
	for _, r := range results {
		if !r.Valid {
			return false
		}
	}
	return true
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range engine.SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func joinCities(cities []engine.City) string {
	parts := make([]string, len(cities))
	for i, c := range cities {
		parts[i] = fmt.Sprint(c)
	}
	return strings.Join(parts, ", ")
}
