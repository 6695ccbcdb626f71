package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// NetworkConfig describes a road network and its fuel rules as stored on disk.
type NetworkConfig struct {
	Name         string `json:"name" yaml:"name" validate:"required"`
	Description  string `json:"description" yaml:"description"`
	Cities       int    `json:"cities" yaml:"cities" validate:"min=1"`
	FuelCapacity int    `json:"fuel_capacity" yaml:"fuel_capacity" validate:"gte=0"`
	Roads        []Road `json:"roads" yaml:"roads" validate:"dive"`
	FuelStations []City `json:"fuel_stations" yaml:"fuel_stations" validate:"dive,min=1"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared struct validator so callers validate request
// types with the same instance.
func Validator() *validator.Validate {
	return validate
}

// ValidateNetworkConfig checks field constraints and that every road and
// station refers to a city in [1, cities].
func ValidateNetworkConfig(config *NetworkConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config validation: %s failed on '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config validation: %w", err)
	}

	for i, r := range config.Roads {
		if r.From < 1 || r.From > config.Cities || r.To < 1 || r.To > config.Cities {
			return fmt.Errorf("config validation: road %d (%d <-> %d) must connect cities between 1 and %d", i+1, r.From, r.To, config.Cities)
		}
		if r.Distance < 0 {
			return fmt.Errorf("config validation: road %d (%d <-> %d) has negative distance %d", i+1, r.From, r.To, r.Distance)
		}
	}
	for _, c := range config.FuelStations {
		if c > config.Cities {
			return fmt.Errorf("config validation: fuel station %d is outside cities 1..%d", c, config.Cities)
		}
	}

	return nil
}

// Build validates the config and returns its graph and station set.
func (c *NetworkConfig) Build() (*Graph, FuelStations, error) {
	if err := ValidateNetworkConfig(c); err != nil {
		return nil, nil, err
	}
	g, err := NewGraph(c.Cities, c.Roads)
	if err != nil {
		return nil, nil, err
	}
	return g, NewFuelStations(c.FuelStations...), nil
}

// SupportedExtensions lists the file extensions LoadNetworkConfig understands.
var SupportedExtensions = []string{".json", ".yaml", ".yml"}

// NetworkID strips a supported file extension, so "sample.json" and
// "sample" name the same network.
func NetworkID(name string) string {
	ext := filepath.Ext(name)
	for _, e := range SupportedExtensions {
		if strings.EqualFold(ext, e) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// DecodeNetworkConfig parses data as JSON or YAML depending on ext.
func DecodeNetworkConfig(data []byte, ext string) (*NetworkConfig, error) {
	var config NetworkConfig
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported network file extension %q", ext)
	}
	return &config, nil
}

// LoadNetworkConfig reads and validates a network file.
func LoadNetworkConfig(filename string) (*NetworkConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeNetworkConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}

	if err := ValidateNetworkConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

// SampleNetwork returns the four-city network used as the built-in default.
// The cheapest feasible trip is 1 -> 2 -> 4 (80 + 90, refueling at 2) for a
// total of 170; the direct 1 -> 3 road (120) never fits in the tank.
func SampleNetwork() *NetworkConfig {
	return &NetworkConfig{
		Name:         "sample",
		Description:  "Four cities, tank of 100, stations at 2 and 3",
		Cities:       4,
		FuelCapacity: 100,
		Roads: []Road{
			{From: 1, To: 2, Distance: 80},
			{From: 2, To: 3, Distance: 60},
			{From: 3, To: 4, Distance: 70},
			{From: 1, To: 3, Distance: 120},
			{From: 2, To: 4, Distance: 90},
		},
		FuelStations: []City{2, 3},
	}
}
