package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/wms-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/wms-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "wms-api-test"
	testExpMin    = 60
)

// buildRoleApp monta GET /protected con AuthMiddleware + RequireRole y un handler
// que devuelve el rol leído de Locals.
func buildRoleApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func bearer(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func get(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Code
}

func TestRequireRole_AdminAccede(t *testing.T) {
	resp := get(t, buildRoleApp("admin"), "/protected", bearer(t, testUserID, "admin"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_VariosRolesPermitidos(t *testing.T) {
	resp := get(t, buildRoleApp("admin", "user"), "/protected", bearer(t, testUserID, "user"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	resp := get(t, buildRoleApp("admin"), "/protected", bearer(t, testUserID, "user"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestRequireRole_TokenSinRol(t *testing.T) {
	resp := get(t, buildRoleApp("admin"), "/protected", bearer(t, testUserID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, "admin", testIssuer, -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret", testUserID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin esquema Bearer", "Token abc", "INVALID_TOKEN"},
		{"bearer vacío", "Bearer   ", "MISSING_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"firma de otro secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	app := buildRoleApp("admin")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, app, "/protected", tc.header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		actor := apphttp.ActorFrom(c)
		return c.JSON(fiber.Map{"user_id": actor.UserID, "role": actor.Role})
	})

	resp := get(t, app, "/me", bearer(t, testUserID, "user"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "user", body["role"])
}

type fakeChecker struct {
	active bool
	err    error
}

func (f fakeChecker) IsActive(context.Context, string) (bool, error) { return f.active, f.err }

func TestRequireActiveUser(t *testing.T) {
	cases := []struct {
		name    string
		checker fakeChecker
		status  int
		code    string
	}{
		{"activo", fakeChecker{active: true}, http.StatusOK, ""},
		{"inactivo", fakeChecker{active: false}, http.StatusForbidden, "USER_INACTIVE"},
		{"falla la consulta", fakeChecker{err: errors.New("db caída")}, http.StatusServiceUnavailable, "USER_CHECK_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x",
				apphttp.AuthMiddleware(testJWTSecret),
				apphttp.RequireActiveUser(tc.checker),
				func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
			)
			resp := get(t, app, "/x", bearer(t, testUserID, "user"))
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Equal(t, tc.code, errorCode(t, resp))
			}
		})
	}
}
