package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	firebaseapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/riskibarqy/matchday-alerts/external/jobqueue"
	"github.com/riskibarqy/matchday-alerts/external/sportmonks"
	"github.com/riskibarqy/matchday-alerts/internal/config"
	firebaseauth "github.com/riskibarqy/matchday-alerts/internal/infrastructure/account/firebase"
	"github.com/riskibarqy/matchday-alerts/internal/infrastructure/push/fcm"
	"github.com/riskibarqy/matchday-alerts/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
	"github.com/riskibarqy/matchday-alerts/internal/platform/schedule"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

// App is the assembled service: the HTTP server plus the optional in-process scheduler.
type App struct {
	Server    *http.Server
	scheduler *schedule.Runner
	closers   []func() error
	logger    *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	fb, err := newFirebaseApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	repos, err := buildRepositories(ctx, cfg, fb, logger)
	if err != nil {
		return nil, err
	}
	app := &App{logger: logger, closers: []func() error{repos.close}}

	sender, verifier, err := buildIdentityAndPush(ctx, cfg, fb, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	resolver := usecase.NewRecipientResolver(repos.preferences, repos.users, cfg.ResolverConcurrency)
	fanout := usecase.NewFanout(sender, cfg.DeliveryWorkers, logger)
	resultNotifier := usecase.NewResultNotifier(resolver, fanout, logger)
	followSync := usecase.NewFollowSyncEngine(repos.matches, repos.users, repos.batches, logger)
	reactions := usecase.NewDirectChangePublisher(resultNotifier, followSync, logger)

	// Writers hand changes to QStash when it is enabled; QStash then calls the
	// trigger routes, which always react in-process.
	var publisher usecase.ChangePublisher = reactions
	if cfg.QStashEnabled {
		queue := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: cfg.QStashCircuitEnabled},
		}, logger)
		publisher = usecase.NewQueuedChangePublisher(queue, logger)
		logger.Info("change triggers routed through qstash", "target", cfg.QStashTargetBaseURL)
	}

	var source usecase.ScheduleSource
	if cfg.SportMonksEnabled {
		source = sportmonks.NewClient(sportmonks.ClientConfig{
			BaseURL:          cfg.SportMonksBaseURL,
			Token:            cfg.SportMonksToken,
			Timeout:          cfg.SportMonksTimeout,
			MaxRetries:       cfg.SportMonksMaxRetries,
			LeagueIDByLeague: cfg.SportMonksLeagueIDByLeague,
			Logger:           logger,
			CircuitBreaker:   resilience.CircuitBreakerConfig{Enabled: cfg.SportMonksCircuitEnabled},
		})
	}

	kickoff := usecase.NewKickoffNotifier(repos.matches, resolver, fanout, usecase.KickoffPolicy{
		LeadTime: cfg.KickoffLead,
		Cadence:  cfg.KickoffCadence,
	}, logger)
	sweeper := usecase.NewRetentionSweeper(repos.matches, repos.preferences, repos.batches, cfg.RetentionWindow, logger)
	ingestion := usecase.NewScheduleIngestionService(source, repos.matches, repos.users, publisher, usecase.ScheduleIngestionConfig{
		Enabled:   cfg.SportMonksEnabled,
		Lookback:  cfg.IngestionLookback,
		Lookahead: cfg.IngestionLookahead,
	}, logger)
	jobRunner := usecase.NewJobRunner(kickoff, sweeper, ingestion, repos.dispatches, usecase.JobSchedules{
		Kickoff:       schedule.Every(cfg.KickoffCadence),
		DailyUpdate:   schedule.Daily(cfg.DailyUpdateOffset, cfg.ScheduleLocation),
		WeeklyCleanup: schedule.Weekly(cfg.WeeklyCleanupOffset, cfg.ScheduleLocation),
	}, logger)

	handler := httpapi.NewHandler(
		usecase.NewDeviceTokenService(repos.users, logger),
		usecase.NewStatsAggregator(repos.attendance),
		usecase.NewFollowService(repos.users, publisher, logger),
		usecase.NewPreferenceService(repos.matches, repos.preferences),
		jobRunner,
		reactions,
		logger,
	)

	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Verifier:           verifier,
		Logger:             logger,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})
	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if cfg.SchedulerEnabled {
		runner, err := schedule.NewRunner(logger, jobTasks(jobRunner)...)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("build scheduler: %w", err)
		}
		app.scheduler = runner
	}

	return app, nil
}

// RunScheduler blocks until ctx is cancelled. It returns at once when the scheduler is disabled.
func (a *App) RunScheduler(ctx context.Context) {
	if a.scheduler == nil {
		a.logger.Info("in-process scheduler disabled")
		return
	}
	a.scheduler.Start(ctx)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if a.closers[i] == nil {
			continue
		}
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func jobTasks(runner *usecase.JobRunner) []schedule.Task {
	schedules := runner.Schedules()
	return []schedule.Task{
		{
			Name: usecase.JobKickoffNotifications,
			Spec: schedules.Kickoff,
			Run: func(ctx context.Context, at time.Time) error {
				_, err := runner.RunKickoff(ctx, usecase.JobRunInput{At: at})
				return err
			},
		},
		{
			Name: usecase.JobUpdateSchedules,
			Spec: schedules.DailyUpdate,
			Run: func(ctx context.Context, at time.Time) error {
				_, err := runner.RunScheduleUpdate(ctx, usecase.JobRunInput{At: at})
				return err
			},
		},
		{
			Name: usecase.JobCleanupNotifications,
			Spec: schedules.WeeklyCleanup,
			Run: func(ctx context.Context, at time.Time) error {
				_, err := runner.RunCleanup(ctx, usecase.JobRunInput{At: at})
				return err
			},
		},
	}
}

func newFirebaseApp(ctx context.Context, cfg config.Config, logger *logging.Logger) (*firebaseapp.App, error) {
	if cfg.FirebaseProjectID == "" {
		if cfg.AppEnv != config.EnvDev {
			return nil, fmt.Errorf("FIREBASE_PROJECT_ID is required when APP_ENV=%s", cfg.AppEnv)
		}
		logger.Warn("firebase disabled, using local token verifier and log-only push sender")
		return nil, nil
	}

	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}
	fb, err := firebaseapp.NewApp(ctx, &firebaseapp.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return fb, nil
}

func buildIdentityAndPush(
	ctx context.Context,
	cfg config.Config,
	fb *firebaseapp.App,
	logger *logging.Logger,
) (usecase.PushSender, httpapi.TokenVerifier, error) {
	if fb == nil {
		return &logSender{logger: logger}, localVerifier{}, nil
	}

	messagingClient, err := fb.Messaging(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	authClient, err := fb.Auth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("init firebase auth: %w", err)
	}

	sender := fcm.NewSender(messagingClient, fcm.Config{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FCMCircuitEnabled,
			FailureThreshold: cfg.FCMCircuitFailureCount,
			OpenTimeout:      cfg.FCMCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FCMCircuitHalfOpenMaxReq,
		},
	}, logger)
	verifier := firebaseauth.NewVerifier(authClient, firebaseauth.Config{CacheTTL: cfg.AuthCacheTTL}, logger)
	return sender, verifier, nil
}
