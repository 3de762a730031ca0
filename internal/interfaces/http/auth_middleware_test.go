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

	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	apphttp "github.com/jhoicas/restaurant-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/restaurant-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret    = "test-secret-key-for-unit-tests"
	testUserID       = "00000000-0000-0000-0000-000000000001"
	testRestaurantID = "00000000-0000-0000-0000-000000000002"
	testIssuer       = "restaurant-api-test"
	testExpMin       = 60
)

// buildTestApp aplicación mínima con AuthMiddleware + el filtro de rol dado.
func buildTestApp(guard fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		guard,
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testRestaurantID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_RolPermitido(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("manager", "cashier"))
	resp := doRequest(t, app, tokenForRole(t, "cashier"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "cashier", body["role"])
}

func TestRequireRole_RolNoPermitido_Retorna403(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("manager"))
	resp := doRequest(t, app, tokenForRole(t, "waiter"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireRole("manager"))
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireMinRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireMinRole(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{"restaurant_administrator", http.StatusOK},
		{"location_administrator", http.StatusOK},
		{"manager", http.StatusOK},
		{"cashier", http.StatusForbidden},
		{"waiter", http.StatusForbidden},
		{"rol-inventado", http.StatusForbidden},
	}
	app := buildTestApp(apphttp.RequireMinRole("manager", nil))
	for _, tc := range cases {
		t.Run(tc.role, func(t *testing.T) {
			resp := doRequest(t, app, tokenForRole(t, tc.role))
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

type fixedRank struct {
	rank int
	err  error
	got  rbac.Caller
}

func (f *fixedRank) CallerRank(_ context.Context, caller rbac.Caller) (int, error) {
	f.got = caller
	return f.rank, f.err
}

func TestRequireMinRole_JerarquiaVigente(t *testing.T) {
	cases := []struct {
		name  string
		ranks *fixedRank
		want  int
	}{
		{"sigue siendo gerente", &fixedRank{rank: 70}, http.StatusOK},
		{"degradado a mesero", &fixedRank{rank: 10}, http.StatusForbidden},
		{"desactivado", &fixedRank{rank: 0}, http.StatusForbidden},
		{"fallo de base", &fixedRank{err: errors.New("conexión perdida")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := buildTestApp(apphttp.RequireMinRole("manager", tc.ranks))
			resp := doRequest(t, app, tokenForRole(t, "manager"))
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
			assert.Equal(t, testUserID, tc.ranks.got.UserID)
			assert.Equal(t, testRestaurantID, tc.ranks.got.RestaurantID)
		})
	}
}

func TestRequireMinRole_ClaimInsuficienteNoConsultaBase(t *testing.T) {
	ranks := &fixedRank{rank: 100}
	app := buildTestApp(apphttp.RequireMinRole("manager", ranks))
	resp := doRequest(t, app, tokenForRole(t, "waiter"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, ranks.got.UserID)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireMinRole("waiter", nil))
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(apphttp.RequireMinRole("waiter", nil))

	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc", "Bearer "} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_TokenSinRestaurante_Retorna401(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "manager", testIssuer, testExpMin)
	require.NoError(t, err)

	app := buildTestApp(apphttp.RequireMinRole("waiter", nil))
	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		caller := apphttp.GetCaller(c)
		return c.JSON(fiber.Map{
			"user_id":       caller.UserID,
			"restaurant_id": apphttp.GetRestaurantID(c),
			"role":          caller.Role,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "manager"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testRestaurantID, body["restaurant_id"])
	assert.Equal(t, "manager", body["role"])
}
