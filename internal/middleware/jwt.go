package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const identityKey = "identity"

// Identity is the claim set the auth layer attaches to each request:
// an opaque subject id plus the roles granted to it.
type Identity struct {
	Subject string
	Name    string
	Roles   []string
}

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the identity may act across households.
func (id Identity) IsPrivileged() bool {
	return id.HasRole("admin") || id.HasRole("agent")
}

// NewToken issues an HS256 bearer token for an account.
func NewToken(secret []byte, subject, name string, roles []string, ttl time.Duration) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"name":  name,
		"roles": roles,
		"exp":   time.Now().Add(ttl).Unix(),
	}).SignedString(secret)
}

func JWTAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth/unauthorized", "detail": "bearer token is missing"})
			return
		}
		token, err := jwt.Parse(auth[7:], func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth/unauthorized", "detail": "invalid token"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth/unauthorized", "detail": "invalid token"})
			return
		}

		id := Identity{}
		id.Subject, _ = claims["sub"].(string)
		id.Name, _ = claims["name"].(string)
		if raw, ok := claims["roles"].([]any); ok {
			for _, r := range raw {
				if s, ok := r.(string); ok {
					id.Roles = append(id.Roles, s)
				}
			}
		}
		if id.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth/unauthorized", "detail": "token has no subject"})
			return
		}
		c.Set(identityKey, id)

		// Renew tokens with less than a day left.
		if exp, ok := claims["exp"].(float64); ok {
			if time.Until(time.Unix(int64(exp), 0)) < 24*time.Hour {
				if newToken, err := NewToken(secret, id.Subject, id.Name, id.Roles, 7*24*time.Hour); err == nil {
					c.Header("X-New-Token", newToken)
				}
			}
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity set by JWTAuth.
func CurrentIdentity(c *gin.Context) Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
