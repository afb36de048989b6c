package adminapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/milldata/milltrack/internal/ocr"
	"github.com/milldata/milltrack/internal/webserver"
)

// registerSlabRoutes registers the OCR recognize and ingest endpoints.
func registerSlabRoutes() {
	webserver.ApiPOST("/slabs/recognize", recognizeSlabs)
	webserver.ApiPOST("/slabs/save", saveSlabs)
}

func recognizeSlabs(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Image file is required", err.Error())
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open uploaded file", err.Error())
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read uploaded file", err.Error())
	}

	client := ocr.NewClient(webserver.OcrURL(), webserver.OcrTimeout())
	result, err := client.Recognize(c.Request().Context(), fh.Filename, fh.Header.Get("Content-Type"), data)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, result)
}

func saveSlabs(c echo.Context) error {
	var payload struct {
		Lvdts []*int64 `json:"lvdts"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse identifier list", err.Error())
	}

	svc := ocr.NewIngestService(GetDB(c))
	created, err := svc.SaveAll(c.Request().Context(), payload.Lvdts)
	if err != nil {
		return failFor(c, err)
	}
	return ok(c, created)
}
