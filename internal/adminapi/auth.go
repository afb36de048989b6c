package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/users"
	"github.com/milldata/milltrack/internal/webserver"
)

type registerPayload struct {
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
	FullName   string `json:"fullname" form:"fullname"`
	Department string `json:"department" form:"department"`
}

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// registerAuthRoutes registers the public registration and login endpoints.
func registerAuthRoutes() {
	webserver.PubPOST("/register", registerUser)
	webserver.PubPOST("/login", loginUser)
}

func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", err.Error())
	}

	svc := users.NewService(GetDB(c))
	u, err := svc.Register(c.Request().Context(), &domain.User{
		Username:   payload.Username,
		FullName:   payload.FullName,
		Department: payload.Department,
	}, payload.Password)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, u)
}

func loginUser(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}

	svc := users.NewService(GetDB(c))
	u, err := svc.VerifyCredentials(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	token, err := webserver.IssueToken(webserver.JwtSecret(), u)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, map[string]interface{}{
		"token": token,
		"user":  u,
	})
}
