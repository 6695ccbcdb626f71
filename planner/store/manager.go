package store

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/mcp-training/fuelroute/planner/service"
)

var (
	ErrPlanNotFound      = fmt.Errorf("plan store: %w", service.ErrPlanNotFound)
	ErrPlanAlreadyExists = errors.New("plan already exists")
	ErrInvalidPlanID     = errors.New("invalid plan ID")
)

// Manager handles plan storage
type Manager struct {
	plans       map[string]*service.Plan
	persistence PlanPersistence
	// IDs whose plan is known to be on disk
	persisted map[string]bool
	mu        sync.RWMutex
}

// NewManager creates an in-memory plan store
func NewManager() *Manager {
	return &Manager{
		plans:     make(map[string]*service.Plan),
		persisted: make(map[string]bool),
	}
}

// NewManagerWithPersistence creates a plan store backed by persistence
func NewManagerWithPersistence(persistence PlanPersistence) *Manager {
	return &Manager{
		plans:       make(map[string]*service.Plan),
		persistence: persistence,
		persisted:   make(map[string]bool),
	}
}

// normalizeID returns the canonical lowercase form of a UUID.
func normalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// Create stores a plan, assigning a new UUID when the plan has none
func (m *Manager) Create(plan *service.Plan) (*service.Plan, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	} else {
		id, ok := normalizeID(plan.ID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlanID, plan.ID)
		}
		plan.ID = id
	}
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.plans[plan.ID]; exists {
		return nil, ErrPlanAlreadyExists
	}
	m.plans[plan.ID] = plan

	if m.persistence != nil {
		if err := m.persistence.Save(plan); err != nil {
			// kept in memory only; PruneDeleted leaves it alone
			log.Printf("Warning: Failed to persist plan %s: %v", plan.ID, err)
		} else {
			m.persisted[plan.ID] = true
		}
	}

	return plan, nil
}

// Get retrieves a plan by ID, falling back to persistence
func (m *Manager) Get(id string) (*service.Plan, error) {
	key, ok := normalizeID(id)
	if !ok {
		return nil, ErrPlanNotFound
	}

	m.mu.RLock()
	plan, exists := m.plans[key]
	m.mu.RUnlock()
	if exists {
		return plan, nil
	}

	if m.persistence != nil && m.persistence.Exists(key) {
		plan, err := m.persistence.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted plan: %w", err)
		}

		m.mu.Lock()
		m.plans[key] = plan
		m.persisted[key] = true
		m.mu.Unlock()
		return plan, nil
	}

	return nil, ErrPlanNotFound
}

// List returns all plans in memory
func (m *Manager) List() []*service.Plan {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*service.Plan, 0, len(m.plans))
	for _, plan := range m.plans {
		result = append(result, plan)
	}
	return result
}

// Delete removes a plan from memory and persistence
func (m *Manager) Delete(id string) error {
	key, ok := normalizeID(id)
	if !ok {
		return ErrPlanNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, inMemory := m.plans[key]
	delete(m.plans, key)
	delete(m.persisted, key)

	if m.persistence != nil && m.persistence.Exists(key) {
		if err := m.persistence.Delete(key); err != nil {
			return fmt.Errorf("failed to delete persisted plan: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrPlanNotFound
	}
	return nil
}

// DeleteFromMemory removes a plan from memory only
func (m *Manager) DeleteFromMemory(id string) error {
	key, ok := normalizeID(id)
	if !ok {
		return ErrPlanNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.plans[key]; !exists {
		return ErrPlanNotFound
	}
	delete(m.plans, key)
	delete(m.persisted, key)
	return nil
}

// PruneDeleted drops plans from memory whose persisted file has disappeared
// and returns their IDs. Plans that were never written to disk are kept.
func (m *Manager) PruneDeleted() []string {
	if m.persistence == nil {
		return nil
	}

	m.mu.RLock()
	candidates := make([]string, 0, len(m.persisted))
	for id := range m.persisted {
		candidates = append(candidates, id)
	}
	m.mu.RUnlock()

	var pruned []string
	for _, id := range candidates {
		if m.persistence.Exists(id) {
			continue
		}
		m.mu.Lock()
		if m.persisted[id] {
			delete(m.plans, id)
			delete(m.persisted, id)
			pruned = append(pruned, id)
		}
		m.mu.Unlock()
	}
	return pruned
}

// CleanupExpired drops in-memory plans created more than maxAge ago and
// returns how many were removed. Persisted copies are kept.
func (m *Manager) CleanupExpired(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, plan := range m.plans {
		if plan.CreatedAt.Before(cutoff) {
			delete(m.plans, id)
			delete(m.persisted, id)
			removed++
		}
	}
	return removed
}

// Count returns the number of plans in memory
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.plans)
}

// LoadPersisted loads every persisted plan into memory
func (m *Manager) LoadPersisted() error {
	if m.persistence == nil {
		return nil
	}

	ids, err := m.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted plans: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		key := strings.ToLower(id)
		if _, exists := m.plans[key]; exists {
			continue
		}

		plan, err := m.persistence.Load(id)
		if err != nil {
			log.Printf("Warning: Failed to load persisted plan %s: %v", id, err)
			continue
		}
		m.plans[key] = plan
		m.persisted[key] = true
		loaded++
	}

	if loaded > 0 {
		log.Printf("Loaded %d persisted plans from storage", loaded)
	}
	return nil
}
