package firebase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/matchday-alerts/internal/domain/user"
	"github.com/riskibarqy/matchday-alerts/internal/platform/logging"
	"github.com/riskibarqy/matchday-alerts/internal/platform/resilience"
	"github.com/riskibarqy/matchday-alerts/internal/usecase"
)

// IDTokenVerifier is the subset of *auth.Client used to check Firebase ID tokens.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type Config struct {
	CacheTTL        time.Duration
	CacheMaxEntries int
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Verifier resolves bearer tokens into principals using Firebase Auth.
type Verifier struct {
	client     IDTokenVerifier
	cache      *principalCache
	guard      *resilience.Guard
	isRejected func(error) bool
	logger     *logging.Logger
}

func NewVerifier(client IDTokenVerifier, cfg Config, logger *logging.Logger) *Verifier {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.CacheMaxEntries < 1 {
		cfg.CacheMaxEntries = 10000
	}
	v := &Verifier{
		client:     client,
		cache:      newPrincipalCache(cfg.CacheTTL, cfg.CacheMaxEntries),
		isRejected: isRejectedToken,
		logger:     logger,
	}
	// Rejected tokens are the caller's fault and leave the circuit alone.
	v.guard = resilience.NewGuard("firebase-auth", cfg.CircuitBreaker, func(err error) bool {
		return !v.isRejected(err)
	}, logger)
	return v
}

func (v *Verifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := v.cache.Get(key); ok {
		return principal, nil
	}

	if err := v.guard.Allow(); err != nil {
		return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	v.guard.Record(err)
	if err != nil {
		if v.isRejected(err) {
			return user.Principal{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
		}
		v.logger.WarnContext(ctx, "firebase token verification failed", "error", err)
		return user.Principal{}, fmt.Errorf("%w: %w", usecase.ErrDependencyUnavailable, crerr.Wrap(err, "verify firebase id token"))
	}

	if decoded == nil || strings.TrimSpace(decoded.UID) == "" {
		return user.Principal{}, fmt.Errorf("%w: token has no subject", usecase.ErrUnauthorized)
	}

	principal := user.Principal{UserID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		principal.Email = email
	}

	var expiry time.Time
	if decoded.Expires > 0 {
		expiry = time.Unix(decoded.Expires, 0)
	}
	v.cache.Set(key, principal, expiry)

	return principal, nil
}

func isRejectedToken(err error) bool {
	return auth.IsIDTokenInvalid(err) ||
		auth.IsIDTokenExpired(err) ||
		auth.IsIDTokenRevoked(err) ||
		auth.IsUserDisabled(err)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
