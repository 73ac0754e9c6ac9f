package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"motorbay/m1/internal/auth"
	"motorbay/m1/internal/services"
)

// ContextKeyActor holds the key for the resolved actor in Gin context.
const ContextKeyActor = "actor"

// ActorFrom returns the actor resolved by the auth middleware, or a guest if
// none was set.
func ActorFrom(c *gin.Context) services.Actor {
	if v, exists := c.Get(ContextKeyActor); exists {
		if actor, ok := v.(services.Actor); ok {
			return actor
		}
	}
	return services.Guest()
}

// resolveActor validates the bearer token and loads the account. Suspension
// is read from the database on every request so suspending a user takes
// effect immediately, not at token expiry.
func resolveActor(c *gin.Context, jwtSecret string, users services.IUserService) (services.Actor, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return services.Guest(), nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return services.Guest(), fmt.Errorf("authorization header format must be Bearer {token}")
	}

	claims, err := auth.ValidateJWT(parts[1], jwtSecret)
	if err != nil {
		return services.Guest(), fmt.Errorf("invalid or expired token: %w", err)
	}
	userID, err := claims.SubjectID()
	if err != nil {
		return services.Guest(), err
	}

	user, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		return services.Guest(), fmt.Errorf("account no longer exists")
	}
	return services.ActorForUser(user), nil
}

// AuthMiddleware requires a valid bearer token and resolves it to an actor.
func AuthMiddleware(jwtSecret string, users services.IUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := resolveActor(c, jwtSecret, users)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		if !actor.Known() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		c.Set(ContextKeyActor, actor)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves an actor when a valid token is present and
// falls back to a guest otherwise. Used on browse endpoints, where identity
// widens what is visible but is never required.
func OptionalAuthMiddleware(jwtSecret string, users services.IUserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := resolveActor(c, jwtSecret, users)
		if err != nil {
			// A present-but-bad token is rejected rather than downgraded to
			// guest, so clients notice expired sessions.
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ContextKeyActor, actor)
		c.Next()
	}
}

// AdminMiddleware creates a Gin middleware to check for admin privileges.
// Assumes AuthMiddleware runs first.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ActorFrom(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator privileges required"})
			return
		}
		c.Next()
	}
}
