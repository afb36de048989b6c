package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/milldata/milltrack/config"
	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/webserver"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiEnv struct {
	db   *gorm.DB
	echo http.Handler
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := new(config.AppConfig)
	*cfg = *config.DefaultAppConfig
	ws := webserver.Init(cfg, db)
	InitRouter()
	return &apiEnv{db: db, echo: ws.Echo()}
}

func (e *apiEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, jsoniter.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.echo.ServeHTTP(rec, req)
	return rec
}

func (e *apiEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

func TestAuthAndHotCoilFlow(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "operator1",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Unauthenticated API access is refused.
	rec = env.request(t, http.MethodGet, "/api/hot_coil/all", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := env.login(t, "operator1", "secret123")

	rec = env.request(t, http.MethodPost, "/api/hot_coil/add", token, map[string]interface{}{
		"lazer_distance": 12.5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodGet, "/api/hot_coil/all", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "12.5")
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "plainuser",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	token := env.login(t, "plainuser", "secret123")
	rec = env.request(t, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Promote directly in the store and log in again for a fresh token.
	require.NoError(t, env.db.Model(&domain.User{}).
		Where("username = ?", "plainuser").
		Update("permission", domain.RoleAdmin).Error)
	token = env.login(t, "plainuser", "secret123")

	rec = env.request(t, http.MethodGet, "/admin/users", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestSlabSaveEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.request(t, http.MethodPost, "/auth/register", "", map[string]string{
		"username": "ingest",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := env.login(t, "ingest", "secret123")

	rec = env.request(t, http.MethodPost, "/api/slabs/save", token, map[string]interface{}{
		"lvdts": []interface{}{4077051234, 4077051234, nil, 4077059999},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var count int64
	require.NoError(t, env.db.Model(&domain.Product{}).
		Where("provider = ?", "İsdemir-Server").Count(&count).Error)
	require.EqualValues(t, 2, count)
}
