package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/iti-tech/taskboard-api/internal/config"
	"github.com/iti-tech/taskboard-api/internal/store"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrProfileNotFound is surfaced when a valid token has no mirrored profile
// row. Displayed to the caller as-is; there is no self-registration path.
var ErrProfileNotFound = errors.New("perfil de colaborador não encontrado")

// Middleware handles authentication for HTTP requests
type Middleware struct {
	jwtValidator *JWTValidator
	store        store.Store
	logger       *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(cfg *config.Config, st store.Store, logger *zap.Logger) *Middleware {
	return &Middleware{
		jwtValidator: NewJWTValidator(&cfg.Auth),
		store:        st,
		logger:       logger,
	}
}

// Authenticate validates the bearer token and resolves the mirrored profile
// row. The profile is the authority for display name and role, so a renamed
// or promoted collaborator takes effect on their next request.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := m.jwtValidator.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		userCtx, err := m.resolveProfile(r.Context(), claims)
		if err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				m.logger.Warn("authenticated user has no profile row",
					zap.String("email", claims.Email),
				)
				http.Error(w, ErrProfileNotFound.Error(), http.StatusUnauthorized)
				return
			}
			m.logger.Error("profile lookup failed", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", userCtx.UserID.String()),
			zap.String("user_email", userCtx.Email),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := WithUserContext(r.Context(), userCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin allows only users whose profile row carries the admin role.
// Must run after Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !userCtx.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) resolveProfile(ctx context.Context, claims *Claims) (*UserContext, error) {
	user, err := m.store.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	name := user.Name
	if name == "" {
		name = claims.Name
	}
	return &UserContext{
		UserID:      user.ID,
		DisplayName: name,
		Email:       user.Email,
		Role:        user.Role,
	}, nil
}
