package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", JWTAuth(testSecret), func(c *gin.Context) {
		id := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"subject": id.Subject, "name": id.Name, "roles": id.Roles})
	})
	return r
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	token, err := NewToken(testSecret, "acc-1", "Maria", []string{"owner"}, time.Hour*48)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "acc-1")
	assert.Contains(t, w.Body.String(), "owner")
	assert.Empty(t, w.Header().Get("X-New-Token"))
}

func TestJWTAuthRenewsExpiringToken(t *testing.T) {
	token, err := NewToken(testSecret, "acc-1", "Maria", []string{"owner"}, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-New-Token"))
}

func TestJWTAuthRejectsBadTokens(t *testing.T) {
	expired, err := NewToken(testSecret, "acc-1", "Maria", nil, -time.Hour)
	require.NoError(t, err)
	wrongKey, err := NewToken([]byte("other-secret"), "acc-1", "Maria", nil, time.Hour)
	require.NoError(t, err)
	noSubject, err := NewToken(testSecret, "", "Maria", nil, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"garbage":    "Bearer not.a.token",
		"expired":    "Bearer " + expired,
		"wrong key":  "Bearer " + wrongKey,
		"no subject": "Bearer " + noSubject,
	}
	r := authRouter()
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestIdentityRoles(t *testing.T) {
	assert.True(t, Identity{Roles: []string{"admin"}}.IsPrivileged())
	assert.True(t, Identity{Roles: []string{"agent"}}.IsPrivileged())
	assert.False(t, Identity{Roles: []string{"owner"}}.IsPrivileged())
	assert.False(t, Identity{}.HasRole("owner"))
}
