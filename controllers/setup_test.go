package controller_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"docuhub/config"
	"docuhub/routes"
	"docuhub/utils"
)

var testAppCounter uint64

// setupTestApp wires the full route tree against a fresh in-memory
// database. The configuration globals are swapped per test.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	n := atomic.AddUint64(&testAppCounter, 1)
	dsn := fmt.Sprintf("file:controller_test_%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	config.DB = db
	config.AppConfig = config.Config{
		Environment:          "test",
		JWTSecret:            "test-secret",
		AuthRateLimit:        1000,
		ShareAcceptRateLimit: 1000,
		ShareLinkMaxTTLHours: 720,
	}
	utils.JWTSecret = []byte(config.AppConfig.JWTSecret)

	app := fiber.New()
	routes.SetupRoutes(app, db)
	return app
}

// doJSON performs a request with an optional bearer token and decodes the
// JSON response body.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	parsed := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp.StatusCode, parsed
}

// registerUser creates an account and returns its access token and ID.
func registerUser(t *testing.T, app *fiber.App, email string) (string, uint) {
	t.Helper()

	status, body := doJSON(t, app, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", email, body)

	token := body["access_token"].(string)
	user := body["user"].(map[string]interface{})
	return token, uint(user["ID"].(float64))
}

// data extracts the payload of a success envelope.
func data(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := body["data"].(map[string]interface{})
	require.True(t, ok, "expected data envelope, got: %v", body)
	return d
}

func dataList(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	d, ok := body["data"].([]interface{})
	require.True(t, ok, "expected data list, got: %v", body)
	return d
}

func asID(v interface{}) uint {
	return uint(v.(float64))
}
