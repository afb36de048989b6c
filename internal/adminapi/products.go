package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/mill"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerProductRoutes registers the parent product endpoints.
func registerProductRoutes() {
	webserver.ApiGET("/products/all", listProducts)
	webserver.ApiGET("/products/recent", recentProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products/add", createProduct)
	webserver.ApiPUT("/products/update/:id", updateProduct)
	webserver.ApiDELETE("/products/delete/:id", deleteProduct)
	webserver.ApiPOST("/products/bulk-delete", bulkDeleteProducts)
}

func listProducts(c echo.Context) error {
	svc := mill.NewProductService(GetDB(c))
	rows, err := svc.GetAll(c.Request().Context())
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}

func recentProducts(c echo.Context) error {
	limit := 10
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		limit = v
	}
	svc := mill.NewProductService(GetDB(c))
	rows, err := svc.GetRecent(c.Request().Context(), limit)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, rows)
}

func getProduct(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	svc := mill.NewProductService(GetDB(c))
	p, err := svc.GetByID(c.Request().Context(), id)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload domain.Product
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if !domain.ValidProductType(payload.ProductType) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown product type", payload.ProductType)
	}
	svc := mill.NewProductService(GetDB(c))
	p, err := svc.Save(c.Request().Context(), &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload domain.Product
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	svc := mill.NewProductService(GetDB(c))
	p, err := svc.Update(c.Request().Context(), id, &payload)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, valid := paramInt64(c, "id")
	if !valid {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	svc := mill.NewProductService(GetDB(c))
	if err := svc.Delete(c.Request().Context(), id); err != nil {
		return failFor(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func bulkDeleteProducts(c echo.Context) error {
	var payload struct {
		Ids []int64 `json:"ids"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse id list", err.Error())
	}
	svc := mill.NewProductService(GetDB(c))
	removed, err := svc.BulkDelete(c.Request().Context(), payload.Ids)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, map[string]interface{}{"removed": removed})
}
