package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

var (
	ErrConfigNotFound = fmt.Errorf("network configuration: %w", service.ErrNetworkNotFound)
	ErrInvalidConfig  = fmt.Errorf("invalid network configuration: %w", service.ErrInvalidRequest)
)

// DefaultNetwork is the identifier preferred as the default network.
const DefaultNetwork = "sample"

// Manager handles network configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.NetworkConfig
	configs       map[string]*engine.NetworkConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	info, err := os.Stat(configDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.NetworkConfig),
	}

	m.defaultConfig = m.pickDefault()
	return m, nil
}

// Dir returns the directory the manager reads from.
func (m *Manager) Dir() string {
	return m.configDir
}

// LoadConfig loads a configuration by name, with or without extension
func (m *Manager) LoadConfig(name string) (*engine.NetworkConfig, error) {
	id := networkID(name)
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	m.mu.RLock()
	if config, exists := m.configs[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// another goroutine may have loaded it meanwhile
	if config, exists := m.configs[id]; exists {
		return config, nil
	}

	path, err := m.findFile(id)
	if err != nil {
		return nil, err
	}

	config, err := engine.LoadNetworkConfig(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	m.configs[id] = config
	return config, nil
}

// findFile returns the first existing file for id in extension order.
func (m *Manager) findFile(id string) (string, error) {
	for _, ext := range engine.SupportedExtensions {
		path := filepath.Join(m.configDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat config file: %w", err)
		}
	}
	return "", fmt.Errorf("%w: %q", ErrConfigNotFound, id)
}

// ListConfigs returns information about all valid configurations, sorted by
// identifier. Invalid files are skipped.
func (m *Manager) ListConfigs() ([]*service.NetworkInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	seen := make(map[string]bool)
	var infos []*service.NetworkInfo

	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}

		id := networkID(entry.Name())
		if seen[id] {
			continue
		}

		config, err := m.LoadConfig(id)
		if err != nil {
			log.Printf("Warning: skipping network %s: %v", entry.Name(), err)
			continue
		}
		seen[id] = true

		infos = append(infos, &service.NetworkInfo{
			Filename:     entry.Name(),
			NetworkID:    id,
			Name:         config.Name,
			Description:  config.Description,
			Cities:       config.Cities,
			Roads:        len(config.Roads),
			FuelCapacity: config.FuelCapacity,
			FuelStations: len(config.FuelStations),
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].NetworkID < infos[j].NetworkID })
	return infos, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *engine.NetworkConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached configuration and picks the default again
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.configs = make(map[string]*engine.NetworkConfig)
	m.mu.Unlock()

	def := m.pickDefault()

	m.mu.Lock()
	m.defaultConfig = def
	m.mu.Unlock()
}

// pickDefault must be called without m.mu held.
func (m *Manager) pickDefault() *engine.NetworkConfig {
	if config, err := m.LoadConfig(DefaultNetwork); err == nil {
		return config
	}

	infos, err := m.ListConfigs()
	if err == nil && len(infos) > 0 {
		if config, err := m.LoadConfig(infos[0].NetworkID); err == nil {
			return config
		}
	}

	return engine.SampleNetwork()
}

// SaveConfig validates a configuration and writes it as JSON
func (m *Manager) SaveConfig(name string, config *engine.NetworkConfig) error {
	if err := engine.ValidateNetworkConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id := networkID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: bad network name %q", ErrInvalidConfig, name)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(m.configDir, id+".json")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	return nil
}

func networkID(name string) string {
	return engine.NetworkID(name)
}

func supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range engine.SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
