package app

import (
	"context"
	"fmt"
	"time"

	firebaseapp "firebase.google.com/go/v4"

	"github.com/riskibarqy/matchday-alerts/internal/config"
	"github.com/riskibarqy/matchday-alerts/internal/domain/attendance"
	"github.com/riskibarqy/matchday-alerts/internal/domain/dispatch"
	"github.com/riskibarqy/matchday-alerts/internal/domain/match"
	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/domain/writebatch"
	cacherepo "github.com/riskibarqy/matchday-alerts/internal/infrastructure/repository/cache"
	firestorerepo "github.com/riskibarqy/matchday-alerts/internal/infrastructure/repository/firestore"
	"github.com/riskibarqy/matchday-alerts/internal/infrastructure/repository/memory"
	postgresrepo "github.com/riskibarqy/matchday-alerts/internal/infrastructure/repository/postgres"
	basecache "github.com/riskibarqy/matchday-alerts/internal/platform/cache"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
)

// repositories is the persistence surface the usecases run on, whatever the driver.
type repositories struct {
	matches     match.Repository
	preferences preference.Repository
	users       user.Repository
	attendance  attendance.Repository
	dispatches  dispatch.Repository
	batches     writebatch.Factory
	close       func() error
}

func buildRepositories(ctx context.Context, cfg config.Config, fb *firebaseapp.App, logger *logging.Logger) (repositories, error) {
	var (
		repos repositories
		err   error
	)
	switch cfg.StoreDriver {
	case config.StorePostgres:
		repos, err = buildPostgresRepositories(ctx, cfg, logger)
	case config.StoreFirestore:
		repos, err = buildFirestoreRepositories(ctx, fb, logger)
	default:
		repos = buildMemoryRepositories(time.Now(), logger)
	}
	if err != nil {
		return repositories{}, err
	}

	if cfg.CacheEnabled {
		repos.attendance = cacherepo.NewAttendanceRepository(repos.attendance, basecache.NewStore[[]attendance.Record](cfg.CacheTTL, cfg.CacheMaxEntries))
		logger.Info("attendance cache enabled", "ttl", cfg.CacheTTL.String(), "max_entries", cfg.CacheMaxEntries)
	}
	return repos, nil
}

func buildMemoryRepositories(now time.Time, logger *logging.Logger) repositories {
	store := memory.NewStore()
	seed := memory.SeedMatches(now)
	store.PutMatches(seed...)
	logger.Info("memory store seeded", "matches", len(seed))

	return repositories{
		matches:     memory.NewMatchRepository(store),
		preferences: memory.NewPreferenceRepository(store),
		users:       memory.NewUserRepository(store),
		attendance:  memory.NewAttendanceRepository(store),
		dispatches:  memory.NewJobDispatchRepository(store),
		batches:     memory.NewBatchFactory(store),
		close:       func() error { return nil },
	}
}

func buildPostgresRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	db, err := postgresrepo.Open(ctx, postgresrepo.ConnConfig{
		URL:                   cfg.DBURL,
		DisablePreparedBinary: cfg.DBDisablePreparedBinary,
	})
	if err != nil {
		return repositories{}, err
	}
	logger.Info("postgres store connected", "db", postgresrepo.DatabaseName(cfg.DBURL))

	return repositories{
		matches:     postgresrepo.NewMatchRepository(db),
		preferences: postgresrepo.NewPreferenceRepository(db),
		users:       postgresrepo.NewUserRepository(db),
		attendance:  postgresrepo.NewAttendanceRepository(db),
		dispatches:  postgresrepo.NewJobDispatchRepository(db),
		batches:     postgresrepo.NewBatchFactory(db),
		close:       db.Close,
	}, nil
}

func buildFirestoreRepositories(ctx context.Context, fb *firebaseapp.App, logger *logging.Logger) (repositories, error) {
	if fb == nil {
		return repositories{}, fmt.Errorf("firestore store requires a firebase app")
	}
	client, err := fb.Firestore(ctx)
	if err != nil {
		return repositories{}, fmt.Errorf("open firestore: %w", err)
	}
	logger.Info("firestore store connected")

	return repositories{
		matches:     firestorerepo.NewMatchRepository(client),
		preferences: firestorerepo.NewPreferenceRepository(client),
		users:       firestorerepo.NewUserRepository(client),
		attendance:  firestorerepo.NewAttendanceRepository(client),
		dispatches:  firestorerepo.NewJobDispatchRepository(client),
		batches:     firestorerepo.NewBatchFactory(client),
		close:       client.Close,
	}, nil
}
