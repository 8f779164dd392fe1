package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	httperr "github.com/salesdash/explore/internal/core/errors"
)

// AnonymousUser identifies callers when authentication is disabled.
const AnonymousUser = "anonymous"

// AuthConfig configures the Auth middleware.
type AuthConfig struct {
	Enabled    bool
	Secret     string
	CookieName string
}

type userKey struct{}

// WithUser stores the authenticated user id in the context.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext extracts the authenticated user id from the context.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok
}

// Auth accepts an HS256 token from "Authorization: Bearer" or, failing that,
// from the session cookie. The userId claim becomes the request user.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	secret := []byte(cfg.Secret)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Request = c.Request.WithContext(WithUser(c.Request.Context(), AnonymousUser))
			c.Next()
			return
		}

		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cfg.CookieName != "" {
			token, _ = c.Cookie(cfg.CookieName)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{Error: httperr.MsgNoToken})
			return
		}

		userID, err := validateToken(secret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{Error: httperr.MsgInvalidToken})
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func validateToken(secret []byte, tokenString string) (string, error) {
	tok, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("parse claims: unsupported claim type %T", tok.Claims)
	}

	switch id := claims["userId"].(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("token has no userId claim")
}
