package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace/server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	token, err := Issue(secret, 42, models.RoleHost, time.Hour)
	require.NoError(t, err)

	session, err := Verify(secret, token)
	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: 42, Role: models.RoleHost}, session)

	t.Run("Wrong secret", func(t *testing.T) {
		_, err := Verify("other-secret", token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := Issue(secret, 42, models.RoleHost, -time.Minute)
		require.NoError(t, err)
		_, err = Verify(secret, expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Unknown role", func(t *testing.T) {
		bad, err := Issue(secret, 42, "ROOT", time.Hour)
		require.NoError(t, err)
		_, err = Verify(secret, bad)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Other algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, &claims{
			Role:             models.RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1"},
		})
		signed, err := token.SignedString([]byte(secret))
		require.NoError(t, err)
		_, err = Verify(secret, signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Empty secret", func(t *testing.T) {
		_, err := Issue("", 1, models.RoleGuest, time.Hour)
		assert.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/admin", RequireSession(secret), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		session, _ := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": session.UserID})
	})

	admin, err := Issue(secret, 1, models.RoleAdmin, time.Hour)
	require.NoError(t, err)
	guest, err := Issue(secret, 2, models.RoleGuest, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"No header", "", http.StatusUnauthorized},
		{"Not bearer", "Basic abc", http.StatusUnauthorized},
		{"Garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"Wrong role", "Bearer " + guest, http.StatusForbidden},
		{"Admin", "Bearer " + admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}
