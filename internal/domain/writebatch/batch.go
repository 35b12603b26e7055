package writebatch

import (
	"context"
	"strings"
)

// Batch accumulates store mutations and applies them on Commit. Nothing is
// written before Commit. Stores commit atomically up to their per-transaction
// write limit; past it they commit in chunks. Every mutation is idempotent, so
// retrying a failed Commit converges.
type Batch interface {
	SetMatchFollowedBoost(matchID string, boosted bool)
	DeletePreference(preferenceID string)
	Size() int
	Commit(ctx context.Context) error
}

type Factory interface {
	NewBatch() Batch
}

type BoostOp struct {
	MatchID string
	Boosted bool
}

// Ops is the bookkeeping shared by Batch implementations. Operations are keyed by
// document, the last set for a document wins, and insertion order is kept.
type Ops struct {
	boosts      map[string]bool
	boostOrder  []string
	deletes     map[string]struct{}
	deleteOrder []string
}

func (o *Ops) SetMatchFollowedBoost(matchID string, boosted bool) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return
	}
	if o.boosts == nil {
		o.boosts = make(map[string]bool)
	}
	if _, ok := o.boosts[matchID]; !ok {
		o.boostOrder = append(o.boostOrder, matchID)
	}
	o.boosts[matchID] = boosted
}

func (o *Ops) DeletePreference(preferenceID string) {
	preferenceID = strings.TrimSpace(preferenceID)
	if preferenceID == "" {
		return
	}
	if o.deletes == nil {
		o.deletes = make(map[string]struct{})
	}
	if _, ok := o.deletes[preferenceID]; ok {
		return
	}
	o.deletes[preferenceID] = struct{}{}
	o.deleteOrder = append(o.deleteOrder, preferenceID)
}

func (o *Ops) Size() int {
	return len(o.boostOrder) + len(o.deleteOrder)
}

func (o *Ops) Boosts() []BoostOp {
	out := make([]BoostOp, 0, len(o.boostOrder))
	for _, matchID := range o.boostOrder {
		out = append(out, BoostOp{MatchID: matchID, Boosted: o.boosts[matchID]})
	}
	return out
}

func (o *Ops) PreferenceDeletes() []string {
	return append([]string(nil), o.deleteOrder...)
}
