package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/domain/access"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
	"github.com/BruksfildServices01/gym-manager/internal/logger"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextIsAdmin  = "isAdmin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			return
		}

		token, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			abortUnauthorized(c, "invalid_token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "invalid_token_claims")
			return
		}

		userID, ok := claims["sub"].(float64)
		if !ok || userID <= 0 {
			abortUnauthorized(c, "invalid_token_payload")
			return
		}
		role, _ := claims["role"].(string)
		isAdmin, _ := claims["admin"].(bool)

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, role)
		c.Set(ContextIsAdmin, isAdmin)

		ctx := logger.WithUserID(c.Request.Context(), uint(userID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken reads the Authorization header. Websocket upgrades cannot set
// headers from browsers, so they may pass ?token= instead.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if t := c.Query("token"); t != "" && c.IsWebsocket() {
			return t, true
		}
		abortUnauthorized(c, "missing_authorization_header")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		abortUnauthorized(c, "invalid_authorization_header")
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, code string) {
	httperr.Unauthorized(c, code, "Authentication credentials were not provided or are invalid.")
	c.Abort()
}

// IssueToken signs an HS256 token for user valid for cfg.JWTTTL.
func IssueToken(cfg *config.Config, user *models.User) (string, error) {
	now := time.Now()
	ttl := cfg.JWTTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"role":  user.Role,
		"admin": user.IsSuperuser,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// Actor returns the authenticated caller set by AuthMiddleware.
func Actor(c *gin.Context) access.Actor {
	return access.Actor{
		UserID:  c.GetUint(ContextUserID),
		Role:    c.GetString(ContextUserRole),
		IsAdmin: c.GetBool(ContextIsAdmin),
	}
}

// RequireAdmin rejects non superusers with 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) {
			httperr.Forbidden(c, "admin_only", "Only administrators can perform this action.")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminOrTrainer lets superusers and personal trainers through.
func RequireAdminOrTrainer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextIsAdmin) && c.GetString(ContextUserRole) != models.RoleTrainer {
			httperr.Forbidden(c, "staff_only", "Only administrators and personal trainers can access this.")
			c.Abort()
			return
		}
		c.Next()
	}
}

