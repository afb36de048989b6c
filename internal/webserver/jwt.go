package webserver

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
)

// TokenClaims carries the account identity inside the JWT.
type TokenClaims struct {
	Username   string `json:"username"`
	Permission string `json:"permission"`
	jwt.RegisteredClaims
}

// IssueToken signs a JWT for the given account, valid for 24 hours.
func IssueToken(secret string, u *domain.User) (string, error) {
	claims := &TokenClaims{
		Username:   u.Username,
		Permission: u.Role(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func jwtMiddleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TokenClaims)
		},
	})
}

// CurrentClaims returns the verified token claims, or nil outside the
// authenticated groups.
func CurrentClaims(c echo.Context) *TokenClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUsername returns the authenticated username, empty when absent.
func CurrentUsername(c echo.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.Username
	}
	return ""
}

// requireAdmin rejects requests whose token does not carry the ADMIN role.
func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := CurrentClaims(c)
		if claims == nil || !strings.EqualFold(claims.Permission, domain.RoleAdmin) {
			return echo.ErrForbidden
		}
		return next(c)
	}
}
