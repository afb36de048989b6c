package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/users"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerUserAdminRoutes registers the ADMIN-only user directory endpoints.
func registerUserAdminRoutes() {
	webserver.AdminGET("/users", listUsers)
	webserver.AdminPOST("/users/:id/role", changeUserRole)
	webserver.AdminDELETE("/users/:id", deleteUser)
}

func listUsers(c echo.Context) error {
	svc := users.NewService(GetDB(c))
	rows, err := svc.List(c.Request().Context())
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}

func changeUserRole(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	var payload struct {
		Permission string `json:"permission" form:"permission"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse role", err.Error())
	}

	svc := users.NewService(GetDB(c))
	u, err := svc.ChangeRole(c.Request().Context(), webserver.CurrentUsername(c), id, payload.Permission)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, u)
}

func deleteUser(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}
	svc := users.NewService(GetDB(c))
	if err := svc.DeleteUser(c.Request().Context(), webserver.CurrentUsername(c), id); err != nil {
		return failFor(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
