package store

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
)

func TestFilePersistence(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(filepath.Join(dir, "plans"))
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	plan := newPlan()
	plan.ID = uuid.NewString()
	trip, err := engine.Narrate(mustSampleGraph(t), plan.Path, 100, engine.NewFuelStations(2, 3))
	if err != nil {
		t.Fatal(err)
	}
	plan.Trip = &trip

	t.Run("save and load", func(t *testing.T) {
		if err := persistence.Save(plan); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if !persistence.Exists(plan.ID) {
			t.Error("plan file should exist after save")
		}

		loaded, err := persistence.Load(plan.ID)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Distance != 170 || !reflect.DeepEqual(loaded.Path, plan.Path) {
			t.Errorf("loaded plan differs: %+v", loaded)
		}
		if loaded.Trip == nil || len(loaded.Trip.Steps) != 2 || !loaded.Trip.Steps[0].Refueled {
			t.Errorf("trip not restored: %+v", loaded.Trip)
		}
	})

	t.Run("list", func(t *testing.T) {
		// foreign files are ignored
		os.WriteFile(filepath.Join(dir, "plans", "notes.json"), []byte("{}"), 0644)

		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != plan.ID {
			t.Errorf("expected [%s], got %v", plan.ID, ids)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := persistence.Delete(plan.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists(plan.ID) {
			t.Error("plan file should be gone")
		}
		if err := persistence.Delete(plan.ID); !errors.Is(err, ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %v", err)
		}
		if _, err := persistence.Load(plan.ID); !errors.Is(err, ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %v", err)
		}
	})

	t.Run("rejects non-UUID IDs", func(t *testing.T) {
		bad := newPlan()
		bad.ID = "../escape"
		if err := persistence.Save(bad); !errors.Is(err, ErrInvalidPlanID) {
			t.Errorf("expected ErrInvalidPlanID, got %v", err)
		}
		if persistence.Exists("../escape") {
			t.Error("Exists should be false for invalid IDs")
		}
	})
}

func TestManagerWithPersistence(t *testing.T) {
	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir)
	if err != nil {
		t.Fatal(err)
	}

	m := NewManagerWithPersistence(persistence)
	plan, err := m.Create(newPlan())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !persistence.Exists(plan.ID) {
		t.Fatal("plan should be persisted on create")
	}

	t.Run("lazy load after memory eviction", func(t *testing.T) {
		if err := m.DeleteFromMemory(plan.ID); err != nil {
			t.Fatal(err)
		}
		got, err := m.Get(plan.ID)
		if err != nil {
			t.Fatalf("Get should fall back to disk: %v", err)
		}
		if got.Distance != plan.Distance {
			t.Errorf("expected distance %d, got %d", plan.Distance, got.Distance)
		}
	})

	t.Run("restart", func(t *testing.T) {
		restarted := NewManagerWithPersistence(persistence)
		if err := restarted.LoadPersisted(); err != nil {
			t.Fatalf("LoadPersisted failed: %v", err)
		}
		if restarted.Count() != 1 {
			t.Errorf("expected 1 plan after restart, got %d", restarted.Count())
		}
	})

	t.Run("delete removes the file", func(t *testing.T) {
		if err := m.Delete(plan.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists(plan.ID) {
			t.Error("file should be removed")
		}
		if _, err := m.Get(plan.ID); !errors.Is(err, ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %v", err)
		}
	})
}

func mustSampleGraph(t *testing.T) *engine.Graph {
	t.Helper()
	g, _, err := engine.SampleNetwork().Build()
	if err != nil {
		t.Fatal(err)
	}
	return g
}
