package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/rizkypratama/warungpos/api/responses"
	"github.com/rizkypratama/warungpos/api/validators"
	pkgauth "github.com/rizkypratama/warungpos/pkg/auth"
	"github.com/rizkypratama/warungpos/pkg/config"
	pkgerrors "github.com/rizkypratama/warungpos/pkg/errors"
	"github.com/rizkypratama/warungpos/pkg/logger"
	"github.com/rizkypratama/warungpos/pkg/security"
)

type loginPayload struct {
	Operator string `json:"operator" validate:"required"`
	PIN      string `json:"pin" validate:"required"`
}

// LoginLimiter counts login attempts per operator inside a sliding window.
type LoginLimiter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
	CounterKey(name string) string
}

// Login verifies an operator PIN against the configured credential table and
// mints an access token. Unknown operators and wrong PINs are
// indistinguishable to the caller. Attempts per operator are throttled
// through the limiter; the counter resets on a successful login.
func Login(jwtCfg config.JWTConfig, authCfg config.AuthConfig, limiter LoginLimiter, logg *logger.Logger) http.HandlerFunc {
	operators := authCfg.OperatorHashes()

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var attemptKey string
		if limiter != nil && authCfg.LoginMaxAttempts > 0 {
			attemptKey = limiter.CounterKey("login:" + payload.Operator)
			count, err := limiter.IncrWithTTL(ctx, attemptKey, authCfg.LoginAttemptWindow)
			if err != nil {
				// a broken limiter must not lock operators out
				if logg != nil {
					logg.Warn(ctx, "login rate limiter unavailable")
				}
			} else if count > authCfg.LoginMaxAttempts {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimited, "terlalu banyak percobaan login, coba lagi nanti"))
				return
			}
		}

		hash, ok := operators[payload.Operator]
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator atau pin salah"))
			return
		}

		match, err := security.VerifyPIN(payload.PIN, hash)
		if err != nil || !match {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "operator atau pin salah"))
			return
		}

		if limiter != nil && attemptKey != "" {
			if err := limiter.Del(ctx, attemptKey); err != nil && logg != nil {
				logg.Warn(ctx, "login attempt counter reset failed")
			}
		}

		token, err := pkgauth.MintAccessToken(jwtCfg, time.Now(), payload.Operator)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token"))
			return
		}

		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{"operator": payload.Operator}), "operator logged in")
		}
		responses.WriteSuccess(w, map[string]any{
			"token":     token,
			"expiresIn": jwtCfg.ExpirationMinutes * 60,
		})
	}
}
