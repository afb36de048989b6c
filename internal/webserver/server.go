package webserver

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/milldata/milltrack/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WebServer owns the echo instance and the route groups. Handlers register
// through the package-level ApiXXX/AdminXXX/PubXXX helpers so handler files
// stay free of group plumbing.
type WebServer struct {
	root   *echo.Echo
	pub    *echo.Group
	api    *echo.Group
	admin  *echo.Group
	config *config.AppConfig
}

var server *WebServer

// Init builds the web server, wires middleware and stashes the database
// handle into every request context.
func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JsoniterSerializer{}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("db", db)
			return next(c)
		}
	})
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			zap.L().Debug("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("elapsed", time.Since(start)))
			return err
		}
	})

	jwtmw := jwtMiddleware(cfg.Web.JwtSecret)

	server = &WebServer{
		root:   e,
		pub:    e.Group("/auth"),
		api:    e.Group("/api", jwtmw),
		admin:  e.Group("/admin", jwtmw, requireAdmin),
		config: cfg,
	}
	return server
}

// Listen starts serving and blocks.
func (s *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.config.Web.Host, s.config.Web.Port)
	zap.L().Info("web server listening", zap.String("addr", addr))
	return s.root.Start(addr)
}

// Echo exposes the underlying instance (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// JwtSecret returns the configured signing secret.
func JwtSecret() string {
	return server.config.Web.JwtSecret
}

// OcrURL returns the configured recognizer base URL.
func OcrURL() string {
	return server.config.Ocr.URL
}

// OcrTimeout returns the configured recognizer call timeout.
func OcrTimeout() time.Duration {
	return server.config.Ocr.TimeoutDuration()
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}

func AdminGET(path string, h echo.HandlerFunc) {
	server.admin.GET(path, h)
}

func AdminPOST(path string, h echo.HandlerFunc) {
	server.admin.POST(path, h)
}

func AdminDELETE(path string, h echo.HandlerFunc) {
	server.admin.DELETE(path, h)
}
