package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/users"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerProfileRoutes registers the self-service account endpoints.
func registerProfileRoutes() {
	webserver.ApiGET("/profile/info", profileInfo)
	webserver.ApiPOST("/profile/update", profileUpdate)
	webserver.ApiPOST("/profile/password", profilePassword)
}

func profileInfo(c echo.Context) error {
	svc := users.NewService(GetDB(c))
	u, err := svc.GetByUsername(c.Request().Context(), webserver.CurrentUsername(c))
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, u)
}

func profileUpdate(c echo.Context) error {
	var payload struct {
		FullName   string `json:"fullname" form:"fullname"`
		Department string `json:"department" form:"department"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile", err.Error())
	}
	svc := users.NewService(GetDB(c))
	u, err := svc.UpdateProfile(c.Request().Context(), webserver.CurrentUsername(c), payload.FullName, payload.Department)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, u)
}

func profilePassword(c echo.Context) error {
	var payload struct {
		OldPassword string `json:"old_password" form:"old_password"`
		NewPassword string `json:"new_password" form:"new_password"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse password change", err.Error())
	}
	svc := users.NewService(GetDB(c))
	err := svc.ChangePassword(c.Request().Context(), webserver.CurrentUsername(c), payload.OldPassword, payload.NewPassword)
	if err != nil {
		return fail(c, http.StatusBadRequest, "PASSWORD_ERROR", "Password change refused", err.Error())
	}
	return ok(c, map[string]interface{}{"changed": true})
}
