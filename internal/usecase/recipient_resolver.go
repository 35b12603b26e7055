package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/matchday-alerts/internal/domain/preference"
	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
)

const defaultResolverConcurrency = 8

type Recipient struct {
	UserID string
	Token  string
}

// RecipientResolver maps a match and an opt-in flag to the device tokens to notify.
type RecipientResolver struct {
	preferenceRepo preference.Repository
	userRepo       user.Repository
	concurrency    int
}

func NewRecipientResolver(preferenceRepo preference.Repository, userRepo user.Repository, concurrency int) *RecipientResolver {
	if concurrency <= 0 {
		concurrency = defaultResolverConcurrency
	}
	return &RecipientResolver{
		preferenceRepo: preferenceRepo,
		userRepo:       userRepo,
		concurrency:    concurrency,
	}
}

type userLookup struct {
	index int
	user  user.User
	found bool
}

func (r *RecipientResolver) Resolve(ctx context.Context, matchID string, flag preference.Flag) ([]Recipient, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RecipientResolver.Resolve",
		attribute.String("match.id", matchID),
		attribute.String("preference.flag", string(flag)),
	)
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if !flag.Valid() {
		return nil, fmt.Errorf("%w: unknown notification flag %q", ErrInvalidInput, flag)
	}

	prefs, err := r.preferenceRepo.ListOptedIn(ctx, matchID, flag)
	if err != nil {
		return nil, fmt.Errorf("list opted-in preferences match=%s flag=%s: %w", matchID, flag, err)
	}

	userIDs := distinctUserIDs(prefs)
	if len(userIDs) == 0 {
		return []Recipient{}, nil
	}

	p := pool.NewWithResults[userLookup]().
		WithContext(ctx).
		WithMaxGoroutines(r.concurrency).
		WithCancelOnError()
	for i, userID := range userIDs {
		i, userID := i, userID
		p.Go(func(ctx context.Context) (userLookup, error) {
			item, exists, err := r.userRepo.GetByID(ctx, userID)
			if err != nil {
				return userLookup{}, fmt.Errorf("get user=%s: %w", userID, err)
			}
			return userLookup{index: i, user: item, found: exists}, nil
		})
	}
	lookups, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("resolve recipients match=%s: %w", matchID, err)
	}

	sort.Slice(lookups, func(i, j int) bool {
		return lookups[i].index < lookups[j].index
	})

	out := make([]Recipient, 0, len(lookups))
	seenTokens := make(map[string]struct{}, len(lookups))
	for _, lookup := range lookups {
		if !lookup.found || !lookup.user.HasDeviceToken() {
			continue
		}
		token := strings.TrimSpace(lookup.user.DeviceToken)
		if _, ok := seenTokens[token]; ok {
			continue
		}
		seenTokens[token] = struct{}{}
		out = append(out, Recipient{UserID: userIDs[lookup.index], Token: token})
	}

	return out, nil
}

func distinctUserIDs(prefs []preference.Preference) []string {
	seen := make(map[string]struct{}, len(prefs))
	out := make([]string, 0, len(prefs))
	for _, item := range prefs {
		userID := strings.TrimSpace(item.UserID)
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		out = append(out, userID)
	}
	return out
}
