package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/mill"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerPlatesRoutes registers the plate line endpoints.
func registerPlatesRoutes() {
	webserver.ApiGET("/plates/all", listPlates)
	webserver.ApiPOST("/plates/add", createPlates)
	webserver.ApiPOST("/plates/add/:productId", createPlatesForProduct)
	webserver.ApiPUT("/plates/update/:id", updatePlates)
	webserver.ApiDELETE("/plates/delete/:id", deletePlates)
}

func listPlates(c echo.Context) error {
	svc := mill.NewPlatesService(GetDB(c))
	rows, err := svc.List(c.Request().Context())
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}

func createPlates(c echo.Context) error {
	var payload domain.Plates
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse plate", err.Error())
	}
	svc := mill.NewPlatesService(GetDB(c))
	row, err := svc.CreateWithNewProduct(c.Request().Context(), &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func createPlatesForProduct(c echo.Context) error {
	productID, valid := paramInt64(c, "productId")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload domain.Plates
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse plate", err.Error())
	}
	svc := mill.NewPlatesService(GetDB(c))
	row, err := svc.CreateForExistingProduct(c.Request().Context(), productID, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func updatePlates(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid plate ID", nil)
	}
	var payload domain.Plates
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse plate", err.Error())
	}
	svc := mill.NewPlatesService(GetDB(c))
	row, err := svc.Update(c.Request().Context(), id, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func deletePlates(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid plate ID", nil)
	}
	svc := mill.NewPlatesService(GetDB(c))
	if err := svc.Delete(c.Request().Context(), id); err != nil {
		return failFor(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
