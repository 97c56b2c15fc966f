package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	id := uuid.NewString()

	token, err := m.GenerateAccessToken(id, RoleProvider)
	require.NoError(t, err)

	claims, err := m.ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: id, Role: RoleProvider}, claims.Actor())
}

func TestJWTRejectsForeignSecretAndExpiry(t *testing.T) {
	token, err := NewJWTManager("other", time.Minute).GenerateAccessToken(uuid.NewString(), RoleClient)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Minute).ParseAndValidate(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(uuid.NewString(), RoleClient)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Minute).ParseAndValidate(expired)
	assert.Error(t, err)
}

func TestActorIsProvider(t *testing.T) {
	p := uuid.NewString()
	assert.True(t, Actor{UserID: p, Role: RoleProvider}.IsProvider(p))
	assert.False(t, Actor{UserID: p, Role: RoleClient}.IsProvider(p))
	assert.False(t, Actor{UserID: uuid.NewString(), Role: RoleProvider}.IsProvider(p))
	assert.True(t, Actor{UserID: uuid.NewString(), Role: RoleAdmin}.IsProvider(p))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewJWTManager("secret", time.Minute)

	r := gin.New()
	r.GET("/p", AuthRequired(m), RequireRole(RoleProvider), func(c *gin.Context) {
		c.String(http.StatusOK, string(GetActor(c).Role))
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Basic abc", http.StatusUnauthorized},
		{"client forbidden", "Bearer " + mustToken(t, m, RoleClient), http.StatusForbidden},
		{"provider ok", "Bearer " + mustToken(t, m, RoleProvider), http.StatusOK},
		{"admin ok", "Bearer " + mustToken(t, m, RoleAdmin), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func mustToken(t *testing.T, m *JWTManager, role Role) string {
	t.Helper()
	tok, err := m.GenerateAccessToken(uuid.NewString(), role)
	require.NoError(t, err)
	return tok
}
