package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "milltrack.yml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig("")
	require.Equal(t, "milltrack", cfg.System.Appname)
	require.Equal(t, "postgres", cfg.Database.Type)
	require.Equal(t, 30*time.Second, cfg.Ocr.TimeoutDuration())
}

func TestLoadConfigFromFile(t *testing.T) {
	p := writeFile(t, `
web:
  port: 9090
ocr:
  url: http://ocr.local:8000
  timeout: 45s
`)
	cfg := LoadConfig(p)
	require.Equal(t, 9090, cfg.Web.Port)
	require.Equal(t, "http://ocr.local:8000", cfg.Ocr.URL)
	require.Equal(t, 45*time.Second, cfg.Ocr.TimeoutDuration())
}

func TestLoadConfigMalformedFileKeepsDefaults(t *testing.T) {
	p := writeFile(t, "web: [not: a: mapping")
	cfg := LoadConfig(p)
	require.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
	require.Equal(t, DefaultAppConfig.Database.Type, cfg.Database.Type)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MILLTRACK_DB_TYPE", "sqlite")
	t.Setenv("MILLTRACK_WEB_PORT", "8088")
	t.Setenv("MILLTRACK_OCR_TIMEOUT", "2m")

	cfg := LoadConfig("")
	require.Equal(t, "sqlite", cfg.Database.Type)
	require.Equal(t, 8088, cfg.Web.Port)
	require.Equal(t, 2*time.Minute, cfg.Ocr.TimeoutDuration())
}

func TestTimeoutDurationFallback(t *testing.T) {
	require.Equal(t, 30*time.Second, OcrConfig{Timeout: ""}.TimeoutDuration())
	require.Equal(t, 30*time.Second, OcrConfig{Timeout: "soon"}.TimeoutDuration())
	require.Equal(t, 500*time.Millisecond, OcrConfig{Timeout: "500ms"}.TimeoutDuration())
}
