package repository

import (
	"sync"

	"signals-backend/internal/domain"
)

// SnapshotRepository keeps the latest structure snapshot per symbol in
// memory. Snapshots are display state, not source of truth, so they are
// never persisted.
type SnapshotRepository struct {
	snapshots map[string]domain.StructureSnapshot
	mu        sync.RWMutex
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		snapshots: make(map[string]domain.StructureSnapshot),
	}
}

func (r *SnapshotRepository) Save(snapshot domain.StructureSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[snapshot.Symbol] = snapshot
}

func (r *SnapshotRepository) Get(symbol string) (domain.StructureSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap, ok := r.snapshots[symbol]
	return snap, ok
}

func (r *SnapshotRepository) GetAll() []domain.StructureSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.StructureSnapshot, 0, len(r.snapshots))
	for _, snap := range r.snapshots {
		out = append(out, snap)
	}
	return out
}

var _ domain.SnapshotRepository = (*SnapshotRepository)(nil)
