package appointment

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps appointments in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	lastID int64
	order  []int64
	byID   map[int64]Appointment
	bySlot map[time.Time]map[int64]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]Appointment),
		bySlot: make(map[time.Time]map[int64]struct{}),
	}
}

func (m *MemoryStore) List(_ context.Context) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Appointment, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id int64) (Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.byID[id]
	if !ok {
		return Appointment{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) Create(_ context.Context, a Appointment) (Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	a.ID = m.lastID
	m.byID[a.ID] = a
	m.order = append(m.order, a.ID)
	m.index(a)
	return a, nil
}

func (m *MemoryStore) Update(_ context.Context, id int64, a Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.unindex(existing)
	existing.DateTime = a.DateTime
	existing.Cat = a.Cat
	existing.CatOwner = a.CatOwner
	m.byID[id] = existing
	m.index(existing)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	m.unindex(existing)
	delete(m.byID, id)
	// order is ascending, so the position can be found by binary search
	if i, found := slices.BinarySearch(m.order, id); found {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

func (m *MemoryStore) IsBooked(_ context.Context, date DateTime) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.bySlot[slotKey(date)]) > 0, nil
}

func (m *MemoryStore) index(a Appointment) {
	key := slotKey(a.DateTime)
	ids, ok := m.bySlot[key]
	if !ok {
		ids = make(map[int64]struct{})
		m.bySlot[key] = ids
	}
	ids[a.ID] = struct{}{}
}

func (m *MemoryStore) unindex(a Appointment) {
	key := slotKey(a.DateTime)
	delete(m.bySlot[key], a.ID)
	if len(m.bySlot[key]) == 0 {
		delete(m.bySlot, key)
	}
}

// slotKey is comparable across equal instants: UTC drops both the location
// and the monotonic reading.
func slotKey(d DateTime) time.Time {
	return d.Time.UTC()
}
