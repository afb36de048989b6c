package webserver

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

// JsoniterSerializer swaps echo's encoding/json serializer for jsoniter.
type JsoniterSerializer struct{}

func (JsoniterSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JsoniterSerializer) Deserialize(c echo.Context, i interface{}) error {
	return jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(c.Request().Body).Decode(i)
}
