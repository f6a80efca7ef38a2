package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockease/stockease/config"
	"github.com/stockease/stockease/internal/app"
	"github.com/stockease/stockease/internal/domain"
	"github.com/stockease/stockease/internal/webserver"
	"github.com/stockease/stockease/pkg/common"
)

type testEnv struct {
	e     *echo.Echo
	db    *gorm.DB
	token string
}

func setupAPI(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := &config.AppConfig{
		System: config.SysConfig{Appid: "StockEase", Location: "UTC"},
		Web:    config.WebConfig{Secret: "test-secret", TokenExpireHour: 1},
	}
	application := app.NewApplication(cfg)
	application.OverrideDB(db)

	webserver.Init(application)
	Init()

	return &testEnv{e: webserver.Root(), db: db}
}

func (env *testEnv) request(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if env.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+env.token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// loginAs registers and logs in a staff account, storing the bearer
// token for subsequent authenticated requests.
func (env *testEnv) loginAs(t *testing.T, email string) {
	t.Helper()
	rec := env.request(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":            "tester",
		"email":           email,
		"password":        "secret-1",
		"confirmPassword": "secret-1",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": "secret-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := env.decode(t, rec)["data"].(map[string]interface{})
	env.token = data["token"].(string)
}

func (env *testEnv) seedCatalog(t *testing.T) (categoryID, sellerID, brandID int64) {
	t.Helper()
	categoryID = common.UUIDint64()
	sellerID = common.UUIDint64()
	brandID = common.UUIDint64()
	now := time.Now()
	require.NoError(t, env.db.Create(&domain.Category{ID: categoryID, Name: "Grocery", CreatedAt: now, UpdatedAt: now}).Error)
	require.NoError(t, env.db.Create(&domain.Seller{ID: sellerID, Name: "Acme Foods", Email: "acme@example.com", ContactNo: "0170000000", CreatedAt: now, UpdatedAt: now}).Error)
	require.NoError(t, env.db.Create(&domain.Brand{ID: brandID, Name: "Fresh", CreatedAt: now, UpdatedAt: now}).Error)
	return categoryID, sellerID, brandID
}
