package store

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/fuelroute/planner/engine"
	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

func newPlan() *service.Plan {
	return &service.Plan{
		Network:      "sample",
		FuelCapacity: 100,
		Start:        1,
		Destination:  4,
		Distance:     170,
		Found:        true,
		Path:         []engine.City{1, 2, 4},
	}
}

func TestManagerCreate(t *testing.T) {
	m := NewManager()

	plan, err := m.Create(newPlan())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := uuid.Parse(plan.ID); err != nil {
		t.Errorf("expected a UUID, got %q", plan.ID)
	}
	if plan.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 plan, got %d", m.Count())
	}

	t.Run("explicit ID is normalized", func(t *testing.T) {
		id := uuid.New()
		p := newPlan()
		p.ID = strings.ToUpper(id.String())

		created, err := m.Create(p)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if created.ID != id.String() {
			t.Errorf("expected %s, got %s", id, created.ID)
		}

		dup := newPlan()
		dup.ID = id.String()
		if _, err := m.Create(dup); !errors.Is(err, ErrPlanAlreadyExists) {
			t.Errorf("expected ErrPlanAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		p := newPlan()
		p.ID = "../../etc/passwd"
		if _, err := m.Create(p); !errors.Is(err, ErrInvalidPlanID) {
			t.Errorf("expected ErrInvalidPlanID, got %v", err)
		}
	})

	t.Run("nil plan", func(t *testing.T) {
		if _, err := m.Create(nil); err == nil {
			t.Error("expected error for nil plan")
		}
	})
}

func TestManagerGet(t *testing.T) {
	m := NewManager()
	plan, _ := m.Create(newPlan())

	got, err := m.Get(strings.ToUpper(plan.ID))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != plan {
		t.Error("expected the stored plan")
	}

	for _, id := range []string{"", "nope", uuid.NewString()} {
		_, err := m.Get(id)
		if !errors.Is(err, ErrPlanNotFound) {
			t.Errorf("Get(%q): expected ErrPlanNotFound, got %v", id, err)
		}
		if !errors.Is(err, service.ErrPlanNotFound) {
			t.Errorf("Get(%q): expected service.ErrPlanNotFound to match", id)
		}
	}
}

func TestManagerListAndDelete(t *testing.T) {
	m := NewManager()
	a, _ := m.Create(newPlan())
	b, _ := m.Create(newPlan())

	if got := len(m.List()); got != 2 {
		t.Fatalf("expected 2 plans, got %d", got)
	}

	if err := m.Delete(a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := m.Delete(a.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound on second delete, got %v", err)
	}

	if err := m.DeleteFromMemory(b.ID); err != nil {
		t.Fatalf("DeleteFromMemory failed: %v", err)
	}
	if err := m.DeleteFromMemory(b.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
	if m.Count() != 0 {
		t.Errorf("expected empty store, got %d", m.Count())
	}
}

func TestManagerCleanupExpired(t *testing.T) {
	m := NewManager()

	old := newPlan()
	old.CreatedAt = time.Now().Add(-2 * time.Hour)
	if _, err := m.Create(old); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create(newPlan()); err != nil {
		t.Fatal(err)
	}

	if removed := m.CleanupExpired(time.Hour); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, err := m.Get(old.ID); !errors.Is(err, ErrPlanNotFound) {
		t.Error("expired plan should be gone")
	}
	if m.Count() != 1 {
		t.Errorf("expected 1 plan left, got %d", m.Count())
	}
}

func TestManagerConcurrentCreate(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Create(newPlan()); err != nil {
				t.Errorf("Create failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if m.Count() != 50 {
		t.Errorf("expected 50 plans, got %d", m.Count())
	}
}

// unwritablePersistence refuses every save, like a full or read-only disk.
type unwritablePersistence struct{}

func (unwritablePersistence) Save(plan *service.Plan) error {
	return errors.New("disk full")
}
func (unwritablePersistence) Load(id string) (*service.Plan, error) { return nil, ErrPlanNotFound }
func (unwritablePersistence) Delete(id string) error { return ErrPlanNotFound }
func (unwritablePersistence) ListAll() ([]string, error) { return nil, nil }
func (unwritablePersistence) Exists(id string) bool { return false }

func TestManagerPruneDeleted(t *testing.T) {
	t.Run("keeps plans that never reached disk", func(t *testing.T) {
		m := NewManagerWithPersistence(unwritablePersistence{})
		plan, err := m.Create(newPlan())
		if err != nil {
			t.Fatalf("Create should succeed in memory: %v", err)
		}

		if pruned := m.PruneDeleted(); len(pruned) != 0 {
			t.Errorf("expected nothing pruned, got %v", pruned)
		}
		if _, err := m.Get(plan.ID); err != nil {
			t.Errorf("unsaved plan should stay usable: %v", err)
		}
	})

	t.Run("drops plans whose file was removed", func(t *testing.T) {
		persistence, err := NewFilePersistence(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		m := NewManagerWithPersistence(persistence)
		kept, _ := m.Create(newPlan())
		removed, _ := m.Create(newPlan())

		if err := persistence.Delete(removed.ID); err != nil {
			t.Fatal(err)
		}

		pruned := m.PruneDeleted()
		if len(pruned) != 1 || pruned[0] != removed.ID {
			t.Fatalf("expected %s pruned, got %v", removed.ID, pruned)
		}
		if _, err := m.Get(removed.ID); !errors.Is(err, ErrPlanNotFound) {
			t.Errorf("expected ErrPlanNotFound, got %v", err)
		}
		if _, err := m.Get(kept.ID); err != nil {
			t.Errorf("kept plan should remain: %v", err)
		}
	})

	t.Run("in-memory store", func(t *testing.T) {
		m := NewManager()
		m.Create(newPlan())
		if pruned := m.PruneDeleted(); pruned != nil {
			t.Errorf("expected nil, got %v", pruned)
		}
	})
}
