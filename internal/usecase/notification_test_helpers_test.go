package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
	"github.com/riskibarqy/matchday-alerts/internal/infrastructure/repository/memory"
)

var testNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

type sentPush struct {
	Token        string
	Notification Notification
}

type recordingSender struct {
	mu       sync.Mutex
	sent     []sentPush
	failures map[string]error
	panics   map[string]bool
}

func newRecordingSender() *recordingSender {
	return &recordingSender{failures: make(map[string]error), panics: make(map[string]bool)}
}

func (s *recordingSender) Send(_ context.Context, token string, notification Notification) error {
	if s.panics[token] {
		panic("sender exploded")
	}
	if err, ok := s.failures[token]; ok {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentPush{Token: token, Notification: notification})
	return nil
}

func (s *recordingSender) tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, item := range s.sent {
		out = append(out, item.Token)
	}
	sort.Strings(out)
	return out
}

type countingBatchFactory struct {
	inner   writebatch.Factory
	mu      sync.Mutex
	commits int
}

func (f *countingBatchFactory) NewBatch() writebatch.Batch {
	return &countingBatch{Batch: f.inner.NewBatch(), factory: f}
}

func (f *countingBatchFactory) commitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.commits
}

type countingBatch struct {
	writebatch.Batch
	factory *countingBatchFactory
}

func (b *countingBatch) Commit(ctx context.Context) error {
	b.factory.mu.Lock()
	b.factory.commits++
	b.factory.mu.Unlock()
	return b.Batch.Commit(ctx)
}

type testRepos struct {
	store       *memory.Store
	matches     *memory.MatchRepository
	preferences *memory.PreferenceRepository
	users       *memory.UserRepository
	attendance  *memory.AttendanceRepository
	dispatches  *memory.JobDispatchRepository
	batches     *countingBatchFactory
}

func newTestRepos() testRepos {
	store := memory.NewStore()
	return testRepos{
		store:       store,
		matches:     memory.NewMatchRepository(store),
		preferences: memory.NewPreferenceRepository(store),
		users:       memory.NewUserRepository(store),
		attendance:  memory.NewAttendanceRepository(store),
		dispatches:  memory.NewJobDispatchRepository(store),
		batches:     &countingBatchFactory{inner: memory.NewBatchFactory(store)},
	}
}

func intPtr(v int) *int {
	return &v
}
