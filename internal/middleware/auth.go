package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	ContextUserID = "user_id"
	ContextRoles  = "roles"
)

// Claims is the token payload issued by the external identity provider.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies bearer tokens issued by the external identity
// provider. This service never issues tokens itself.
type AuthMiddleware struct {
	secret    []byte
	issuer    string
	staffRole string
}

func NewAuthMiddleware(secret, issuer, staffRole string) *AuthMiddleware {
	return &AuthMiddleware{
		secret:    []byte(secret),
		issuer:    issuer,
		staffRole: staffRole,
	}
}

// OptionalAuth attaches the caller's identity when a valid token is
// present and lets the request through either way. Used on the booking
// endpoint, which accepts guests.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := m.parse(c); err == nil {
			m.setIdentity(c, claims)
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.parse(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"kind": "unauthorized", "message": "invalid or missing token"},
			})
			return
		}
		m.setIdentity(c, claims)
		c.Next()
	}
}

// RequireStaff rejects callers whose token does not carry the staff role.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.parse(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"kind": "unauthorized", "message": "invalid or missing token"},
			})
			return
		}

		for _, role := range claims.Roles {
			if role == m.staffRole {
				m.setIdentity(c, claims)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"kind": "forbidden", "message": "staff access required"},
		})
	}
}

func (m *AuthMiddleware) parse(c *gin.Context) (*Claims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, fmt.Errorf("missing authorization header")
	}
	tokenStr, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, fmt.Errorf("malformed authorization header")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (m *AuthMiddleware) setIdentity(c *gin.Context, claims *Claims) {
	if id, err := uuid.Parse(claims.Subject); err == nil {
		c.Set(ContextUserID, id)
	}
	c.Set(ContextRoles, claims.Roles)
}

// UserIDFromContext returns the authenticated caller's id, or nil for
// guests.
func UserIDFromContext(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}
