package firestore

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"

	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
)

// maxTransactionWrites is the Firestore limit on writes in one transaction.
const maxTransactionWrites = 500

type BatchFactory struct {
	client *gfs.Client
}

func NewBatchFactory(client *gfs.Client) *BatchFactory {
	return &BatchFactory{client: client}
}

func (f *BatchFactory) NewBatch() writebatch.Batch {
	return &Batch{client: f.client}
}

// Batch commits in transactions of at most maxTransactionWrites writes. Each
// chunk is all-or-nothing; a failed chunk stops the commit and leaves earlier
// chunks applied. Every write is idempotent, so retrying the same batch converges.
// Update on a missing schedule fails its chunk.
type Batch struct {
	writebatch.Ops
	client *gfs.Client
}

// write is one document mutation: a boost when deleteID is empty, else a delete.
type write struct {
	matchID  string
	boosted  bool
	deleteID string
}

func (b *Batch) Commit(ctx context.Context) error {
	if b.Size() == 0 {
		return nil
	}

	schedules := b.client.Collection(schedulesCollection)
	settings := b.client.Collection(notificationSettingsCollection)
	chunks := chunkWrites(b.writes(), maxTransactionWrites)
	for i, chunk := range chunks {
		err := b.client.RunTransaction(ctx, func(_ context.Context, tx *gfs.Transaction) error {
			for _, w := range chunk {
				var err error
				if w.deleteID != "" {
					err = tx.Delete(settings.Doc(w.deleteID))
				} else {
					err = tx.Update(schedules.Doc(w.matchID), []gfs.Update{{Path: "followedBoost", Value: w.boosted}})
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("commit batch chunk %d/%d: %w", i+1, len(chunks), err)
		}
	}
	return nil
}

func (b *Batch) writes() []write {
	out := make([]write, 0, b.Size())
	for _, op := range b.Boosts() {
		out = append(out, write{matchID: op.MatchID, boosted: op.Boosted})
	}
	for _, id := range b.PreferenceDeletes() {
		out = append(out, write{deleteID: id})
	}
	return out
}

func chunkWrites(writes []write, size int) [][]write {
	var out [][]write
	for len(writes) > size {
		out = append(out, writes[:size:size])
		writes = writes[size:]
	}
	if len(writes) > 0 {
		out = append(out, writes)
	}
	return out
}
