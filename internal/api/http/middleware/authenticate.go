package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/employee-directory/internal/api/http/response"
	"github.com/dtroode/employee-directory/internal/apierror"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/model"
)

const bearerPrefix = "Bearer "

// Authenticate validates bearer tokens and injects the user identity into
// the request context.
type Authenticate struct {
	tokenManager   model.TokenManager
	userStore      model.UserStore
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	tokenManager model.TokenManager,
	userStore model.UserStore,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		tokenManager:   tokenManager,
		userStore:      userStore,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle rejects the request with 401 unless it carries a valid token of an
// existing user.
func (m *Authenticate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			m.logger.Info("Auth middleware: request rejected",
				"path", c.Request.URL.Path,
				"reason", "missing_token")
			response.Abort(c, apierror.NewErrMissingAuthorizationToken())
			return
		}

		userID, err := m.tokenManager.ParseToken(token)
		if err != nil {
			m.logger.Info("Auth middleware: request rejected",
				"path", c.Request.URL.Path,
				"reason", "invalid_token",
				"expired", errors.Is(err, model.ErrTokenExpired),
				"error", err.Error())
			response.Abort(c, apierror.NewErrInvalidAuthorizationToken())
			return
		}

		user, err := m.userStore.GetByID(c.Request.Context(), userID)
		if errors.Is(err, model.ErrNotFound) {
			m.logger.Info("Auth middleware: request rejected",
				"path", c.Request.URL.Path,
				"reason", "user_not_found",
				"user_id", userID.String())
			response.Abort(c, apierror.NewErrUserNotFound())
			return
		}
		if err != nil {
			m.logger.Error("Auth middleware: failed to resolve user",
				"user_id", userID.String(),
				"error", err.Error())
			response.Abort(c, apierror.NewErrInternal())
			return
		}

		ctx := m.contextManager.SetIdentityToContext(c.Request.Context(), user.Identity())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}
