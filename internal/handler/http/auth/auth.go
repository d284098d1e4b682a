// Package auth guards operator endpoints with HS256 JWTs.
//
// Tokens are issued by POST /auth/token against the ADMIN_USER and
// ADMIN_USER_PASSWORD credentials and carry the subject, the role and an
// expiry:
//
//	{"sub": "ops@example.com", "role": "admin", "iat": 1700000000, "exp": 1700003600}
//
// Require rejects a request without a valid bearer token with 401 and a token
// whose role is not admin with 403. Ad lifecycle calls come from anonymous
// clients and stay public; only aggregated statistics sit behind it.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newsfeed/internal/handler/http/respond"
	"newsfeed/internal/observability/logging"
	"newsfeed/pkg/config"
)

// RoleAdmin is the only role allowed through Require.
const RoleAdmin = "admin"

const (
	minSecretLength   = 32
	minPasswordLength = 12
)

// ErrDisabled is returned by LoadConfigFromEnv when JWT_SECRET is unset.
var ErrDisabled = errors.New("JWT_SECRET not set")

var weakPasswords = []string{"password", "123456", "admin", "test", "secret", "default"}

var (
	tokenRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_token_requests_total",
		Help: "Token requests by result",
	}, []string{"result"}) // result: success, invalid_request, invalid_credentials, error

	authzDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_denied_total",
		Help: "Requests rejected by the auth guard by reason",
	}, []string{"reason"}) // reason: unauthorized, forbidden
)

// Config holds the signing secret and the single operator account.
type Config struct {
	Secret   []byte
	User     string
	Password string
	TokenTTL time.Duration
	Now      func() time.Time // defaults to time.Now
}

// LoadConfigFromEnv reads JWT_SECRET, ADMIN_USER, ADMIN_USER_PASSWORD and
// JWT_TOKEN_TTL (default 1h). A missing secret returns ErrDisabled. A short
// secret, missing credentials or a weak password is an error.
func LoadConfigFromEnv() (Config, error) {
	secret := config.GetEnvString("JWT_SECRET", "")
	if secret == "" {
		return Config{}, ErrDisabled
	}
	if len(secret) < minSecretLength {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength)
	}

	cfg := Config{
		Secret:   []byte(secret),
		User:     config.GetEnvString("ADMIN_USER", ""),
		Password: config.GetEnvString("ADMIN_USER_PASSWORD", ""),
		TokenTTL: config.GetEnvDuration("JWT_TOKEN_TTL", time.Hour),
	}
	if cfg.User == "" || cfg.Password == "" {
		return Config{}, errors.New("ADMIN_USER and ADMIN_USER_PASSWORD are required with JWT_SECRET")
	}
	if len(cfg.Password) < minPasswordLength {
		return Config{}, fmt.Errorf("ADMIN_USER_PASSWORD must be at least %d characters", minPasswordLength)
	}
	for _, weak := range weakPasswords {
		if strings.HasPrefix(strings.ToLower(cfg.Password), weak) {
			return Config{}, errors.New("ADMIN_USER_PASSWORD must not be a common weak value")
		}
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return cfg, nil
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// IssueToken signs an admin token for sub.
func (c Config) IssueToken(sub string) (string, error) {
	now := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": RoleAdmin,
		"iat":  now.Unix(),
		"exp":  now.Add(c.TokenTTL).Unix(),
	})
	return tok.SignedString(c.Secret)
}

// validate parses a bearer header and returns the subject and role.
func (c Config) validate(header string) (string, string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", "", errors.New("missing bearer token")
	}
	tok, err := jwt.Parse(strings.TrimPrefix(header, prefix),
		func(*jwt.Token) (any, error) { return c.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tok.Valid {
		return "", "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return "", "", errors.New("missing sub or role claim")
	}
	return sub, role, nil
}

// Require wraps next so that only admin tokens reach it.
func Require(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, role, err := cfg.validate(r.Header.Get("Authorization"))
			if err != nil {
				authzDeniedTotal.WithLabelValues("unauthorized").Inc()
				w.Header().Set("WWW-Authenticate", `Bearer realm="newsfeed"`)
				respond.SafeError(w, http.StatusUnauthorized, respond.NewAppError(http.StatusUnauthorized, "unauthorized", err))
				return
			}
			if role != RoleAdmin {
				authzDeniedTotal.WithLabelValues("forbidden").Inc()
				logging.WithRequestID(r.Context(), slog.Default()).Warn("forbidden",
					slog.String("sub", sub),
					slog.String("role", role),
					slog.String("path", r.URL.Path))
				respond.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type tokenRequest struct {
	Email    string `json:"email" example:"ops@example.com"`
	Password string `json:"password" example:"a-long-operator-password"`
}

// TokenResponse is the body of a successful POST /auth/token.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// TokenHandler issues admin tokens.
//
// @Summary      Issue an operator token
// @Description  Checks the operator credentials and returns an HS256 JWT for the stats endpoints.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body tokenRequest true "Operator credentials"
// @Success      200 {object} TokenResponse
// @Failure      400 {object} respond.ErrorBody "Invalid request body"
// @Failure      401 {object} respond.ErrorBody "Invalid credentials"
// @Router       /auth/token [post]
func TokenHandler(cfg Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.WithRequestID(r.Context(), slog.Default())

		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			tokenRequestsTotal.WithLabelValues("invalid_request").Inc()
			respond.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		userOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(cfg.User)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(cfg.Password)) == 1
		if !userOK || !passOK {
			tokenRequestsTotal.WithLabelValues("invalid_credentials").Inc()
			logger.Warn("token request rejected", slog.String("reason", "invalid_credentials"))
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		token, err := cfg.IssueToken(req.Email)
		if err != nil {
			tokenRequestsTotal.WithLabelValues("error").Inc()
			respond.SafeError(w, http.StatusInternalServerError, err)
			return
		}
		tokenRequestsTotal.WithLabelValues("success").Inc()
		logger.Info("operator token issued", slog.String("sub", req.Email))
		respond.JSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresIn: int64(cfg.TokenTTL.Seconds())})
	})
}
