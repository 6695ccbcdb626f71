package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

func writeJSON(t *testing.T, dir, name string, config *engine.NetworkConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func writeRaw(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const lineYAML = `name: Line
description: two legs and a station
cities: 3
fuel_capacity: 6
roads:
  - {from: 1, to: 2, distance: 6}
  - {from: 2, to: 3, distance: 6}
fuel_stations: [2]
`

func TestNewManager(t *testing.T) {
	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		assert.Error(t, err)
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		writeRaw(t, dir, "x.json", "{}")
		_, err := NewManager(filepath.Join(dir, "x.json"))
		assert.Error(t, err)
	})

	t.Run("empty directory falls back to built-in sample", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, engine.SampleNetwork(), m.GetDefault())
	})

	t.Run("sample file is preferred", func(t *testing.T) {
		dir := t.TempDir()
		writeRaw(t, dir, "aaa.yaml", lineYAML)
		custom := engine.SampleNetwork()
		custom.Description = "from disk"
		writeJSON(t, dir, "sample.json", custom)

		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "from disk", m.GetDefault().Description)
	})

	t.Run("first valid file otherwise", func(t *testing.T) {
		dir := t.TempDir()
		writeRaw(t, dir, "aaa.json", "{broken")
		writeRaw(t, dir, "line.yml", lineYAML)

		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "Line", m.GetDefault().Name)
	})
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "line.yaml", lineYAML)
	writeJSON(t, dir, "sample.json", engine.SampleNetwork())
	writeRaw(t, dir, "broken.json", `{"name": "broken", "cities": 2, "roads": [{"from": 1, "to": 5, "distance": 1}]}`)

	m, err := NewManager(dir)
	require.NoError(t, err)

	line, err := m.LoadConfig("line")
	require.NoError(t, err)
	assert.Equal(t, 3, line.Cities)
	assert.Equal(t, []engine.City{2}, line.FuelStations)

	withExt, err := m.LoadConfig("line.yaml")
	require.NoError(t, err)
	assert.Same(t, line, withExt, "cached by identifier")

	_, err = m.LoadConfig("missing")
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.ErrorIs(t, err, service.ErrNetworkNotFound)

	_, err = m.LoadConfig("../etc/passwd")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	_, err = m.LoadConfig("broken")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "line.yaml", lineYAML)
	writeJSON(t, dir, "sample.json", engine.SampleNetwork())
	writeRaw(t, dir, "broken.json", "{")
	writeRaw(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))

	m, err := NewManager(dir)
	require.NoError(t, err)

	infos, err := m.ListConfigs()
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "line", infos[0].NetworkID)
	assert.Equal(t, "line.yaml", infos[0].Filename)
	assert.Equal(t, 2, infos[0].Roads)
	assert.Equal(t, 6, infos[0].FuelCapacity)

	assert.Equal(t, "sample", infos[1].NetworkID)
	assert.Equal(t, "sample", infos[1].Name)
	assert.Equal(t, 4, infos[1].Cities)
	assert.Equal(t, 2, infos[1].FuelStations)
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	config := engine.SampleNetwork()
	config.Name = "Copy"
	require.NoError(t, m.SaveConfig("copy", config))

	_, err = os.Stat(filepath.Join(dir, "copy.json"))
	require.NoError(t, err)

	loaded, err := m.LoadConfig("copy")
	require.NoError(t, err)
	assert.Equal(t, "Copy", loaded.Name)

	// a fresh manager reads it back from disk
	fresh, err := NewManager(dir)
	require.NoError(t, err)
	reread, err := fresh.LoadConfig("copy")
	require.NoError(t, err)
	assert.Equal(t, config, reread)

	invalid := engine.SampleNetwork()
	invalid.Cities = 0
	assert.ErrorIs(t, m.SaveConfig("bad", invalid), ErrInvalidConfig)
	assert.ErrorIs(t, m.SaveConfig("../escape", config), ErrInvalidConfig)
	assert.ErrorIs(t, m.SaveConfig("", config), ErrInvalidConfig)

	// callers map these to a bad request
	assert.ErrorIs(t, m.SaveConfig("a/b", config), service.ErrInvalidRequest)
	assert.ErrorIs(t, m.SaveConfig(".hidden", config), service.ErrInvalidRequest)
}

func TestSetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "line.yaml", lineYAML)
	writeJSON(t, dir, "sample.json", engine.SampleNetwork())

	m, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, "sample", m.GetDefault().Name)

	require.NoError(t, m.SetDefault("line"))
	assert.Equal(t, "Line", m.GetDefault().Name)

	err = m.SetDefault("missing")
	assert.True(t, errors.Is(err, ErrConfigNotFound))

	// edit on disk, then refresh
	writeRaw(t, dir, "line.yaml", lineYAML+"\n")
	changed := engine.SampleNetwork()
	changed.Description = "edited"
	writeJSON(t, dir, "sample.json", changed)

	m.RefreshCache()
	assert.Equal(t, "edited", m.GetDefault().Description)
}

func TestConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, "line.yaml", lineYAML)

	m, err := NewManager(dir)
	require.NoError(t, err)
	m.RefreshCache()

	var wg sync.WaitGroup
	results := make([]*engine.NetworkConfig, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			config, err := m.LoadConfig("line")
			if err == nil {
				results[i] = config
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}
