package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/wms-api/internal/interfaces/http"
	"github.com/jhoicas/wms-api/pkg/logger"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.New(logger.Config{Env: "test", Level: "info", Output: &buf})

	app := fiber.New()
	app.Use(requestid.New(), apphttp.RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	cases := []struct {
		path   string
		status int
		level  string
	}{
		{"/ok", http.StatusOK, "info"},
		{"/no-existe", http.StatusNotFound, "warn"},
	}
	for _, tc := range cases {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()

		var ev map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev), buf.String())
		assert.Equal(t, tc.level, ev["level"])
		assert.Equal(t, float64(tc.status), ev["status"])
		assert.Equal(t, tc.path, ev["path"])
		assert.NotEmpty(t, ev["request_id"])
	}
}
