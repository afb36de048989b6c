package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/mill"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerHotCoilRoutes registers the hot-rolling line endpoints.
func registerHotCoilRoutes() {
	webserver.ApiGET("/hot_coil/all", listHotCoil)
	webserver.ApiPOST("/hot_coil/add", createHotCoil)
	webserver.ApiPOST("/hot_coil/add/:productId", createHotCoilForProduct)
	webserver.ApiPUT("/hot_coil/update/:id", updateHotCoil)
	webserver.ApiDELETE("/hot_coil/delete/:id", deleteHotCoil)
}

func listHotCoil(c echo.Context) error {
	svc := mill.NewHotCoilService(GetDB(c))
	rows, err := svc.List(c.Request().Context())
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}

func createHotCoil(c echo.Context) error {
	var payload domain.HotCoil
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse hot coil", err.Error())
	}
	svc := mill.NewHotCoilService(GetDB(c))
	row, err := svc.CreateWithNewProduct(c.Request().Context(), &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func createHotCoilForProduct(c echo.Context) error {
	productID, valid := paramInt64(c, "productId")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload domain.HotCoil
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse hot coil", err.Error())
	}
	svc := mill.NewHotCoilService(GetDB(c))
	row, err := svc.CreateForExistingProduct(c.Request().Context(), productID, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func updateHotCoil(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid hot coil ID", nil)
	}
	var payload domain.HotCoil
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse hot coil", err.Error())
	}
	svc := mill.NewHotCoilService(GetDB(c))
	row, err := svc.Update(c.Request().Context(), id, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, row)
}

func deleteHotCoil(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid hot coil ID", nil)
	}
	svc := mill.NewHotCoilService(GetDB(c))
	if err := svc.Delete(c.Request().Context(), id); err != nil {
		return failFor(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
