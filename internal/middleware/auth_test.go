package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, sub string, roles []string, secret string) string {
	t.Helper()
	claims := Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "test-issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authRouter(m *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/optional", m.OptionalAuth(), func(c *gin.Context) {
		if id := UserIDFromContext(c); id != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	r.GET("/private", m.RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/staff", m.RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuthAllowsGuests(t *testing.T) {
	r := authRouter(NewAuthMiddleware(testSecret, "test-issuer", "staff"))

	w := doGet(r, "/optional", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}

func TestOptionalAuthAttachesIdentity(t *testing.T) {
	r := authRouter(NewAuthMiddleware(testSecret, "test-issuer", "staff"))
	userID := uuid.New()

	w := doGet(r, "/optional", signToken(t, userID.String(), nil, testSecret))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	r := authRouter(NewAuthMiddleware(testSecret, "test-issuer", "staff"))

	w := doGet(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsWrongKey(t *testing.T) {
	r := authRouter(NewAuthMiddleware(testSecret, "test-issuer", "staff"))

	w := doGet(r, "/private", signToken(t, uuid.New().String(), nil, "other-secret"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	r := authRouter(NewAuthMiddleware(testSecret, "test-issuer", "staff"))

	w := doGet(r, "/private", signToken(t, uuid.New().String(), nil, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireStaff(t *testing.T) {
	r := authRouter(NewAuthMiddleware(testSecret, "test-issuer", "staff"))

	w := doGet(r, "/staff", signToken(t, uuid.New().String(), []string{"customer"}, testSecret))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doGet(r, "/staff", signToken(t, uuid.New().String(), []string{"customer", "staff"}, testSecret))
	assert.Equal(t, http.StatusOK, w.Code)
}
