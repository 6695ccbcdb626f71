package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

// FilePersistence implements PlanPersistence with one JSON file per plan
type FilePersistence struct {
	plansDir string
}

// NewFilePersistence creates the directory if needed
func NewFilePersistence(plansDir string) (*FilePersistence, error) {
	if err := os.MkdirAll(plansDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create plans directory: %w", err)
	}
	return &FilePersistence{plansDir: plansDir}, nil
}

// Save writes the plan as indented JSON
func (fp *FilePersistence) Save(plan *service.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan cannot be nil")
	}
	path, err := fp.filePath(plan.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan file: %w", err)
	}
	return nil
}

// Load reads a plan file
func (fp *FilePersistence) Load(id string) (*service.Plan, error) {
	path, err := fp.filePath(id)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan service.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	return &plan, nil
}

// Delete removes a plan file
func (fp *FilePersistence) Delete(id string) error {
	path, err := fp.filePath(id)
	if err != nil || !fp.Exists(id) {
		return ErrPlanNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove plan file: %w", err)
	}
	return nil
}

// ListAll returns the IDs of every plan file
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.plansDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Exists checks if a plan file exists
func (fp *FilePersistence) Exists(id string) bool {
	path, err := fp.filePath(id)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// filePath only accepts UUIDs, which keeps IDs from escaping plansDir.
func (fp *FilePersistence) filePath(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlanID, id)
	}
	return filepath.Join(fp.plansDir, parsed.String()+".json"), nil
}
