package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/mill"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerColdCoilRoutes registers the cold-rolling line endpoints.
func registerColdCoilRoutes() {
	webserver.ApiGET("/cold_coil/all", listColdCoil)
	webserver.ApiPOST("/cold_coil/add", createColdCoil)
	webserver.ApiPOST("/cold_coil/add/:productId", createColdCoilForProduct)
	webserver.ApiPUT("/cold_coil/update/:id", updateColdCoil)
	webserver.ApiDELETE("/cold_coil/delete/:id", deleteColdCoil)
}

func listColdCoil(c echo.Context) error {
	svc := mill.NewColdCoilService(GetDB(c))
	rows, err := svc.List(c.Request().Context())
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}

func createColdCoil(c echo.Context) error {
	var payload domain.ColdCoil
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cold coil", err.Error())
	}
	svc := mill.NewColdCoilService(GetDB(c))
	row, err := svc.CreateWithNewProduct(c.Request().Context(), &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func createColdCoilForProduct(c echo.Context) error {
	productID, valid := paramInt64(c, "productId")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload domain.ColdCoil
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cold coil", err.Error())
	}
	svc := mill.NewColdCoilService(GetDB(c))
	row, err := svc.CreateForExistingProduct(c.Request().Context(), productID, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func updateColdCoil(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cold coil ID", nil)
	}
	var payload domain.ColdCoil
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cold coil", err.Error())
	}
	svc := mill.NewColdCoilService(GetDB(c))
	row, err := svc.Update(c.Request().Context(), id, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func deleteColdCoil(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cold coil ID", nil)
	}
	svc := mill.NewColdCoilService(GetDB(c))
	if err := svc.Delete(c.Request().Context(), id); err != nil {
		return failFor(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
