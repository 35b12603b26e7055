package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
)

type BatchFactory struct {
	store *Store
}

func NewBatchFactory(store *Store) *BatchFactory {
	return &BatchFactory{store: store}
}

func (f *BatchFactory) NewBatch() writebatch.Batch {
	return &Batch{store: f.store}
}

type Batch struct {
	writebatch.Ops
	store *Store
}

// Commit fails without writing when a boost targets a missing match.
func (b *Batch) Commit(_ context.Context) error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()

	boosts := b.Boosts()
	for _, op := range boosts {
		if _, ok := b.store.matches[op.MatchID]; !ok {
			return fmt.Errorf("update followed boost: match %s not found", op.MatchID)
		}
	}

	for _, op := range boosts {
		item := b.store.matches[op.MatchID]
		item.FollowedBoost = op.Boosted
		b.store.matches[op.MatchID] = item
	}
	for _, preferenceID := range b.PreferenceDeletes() {
		delete(b.store.preferences, preferenceID)
	}
	return nil
}
