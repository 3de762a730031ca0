package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/internal/application/auth"
	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/memstore"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/restaurant-api/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/restaurant-api/internal/interfaces/http"
)

const loginLimit = 3

type testServer struct {
	app   *fiber.App
	store *memstore.Store
}

// newTestServer arma la API completa sobre memstore y un Redis en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New(rbac.DefaultRoles())
	users := memstore.NewUserRepository(store)
	restaurants := memstore.NewRestaurantRepository(store)
	locations := memstore.NewLocationRepository(store)
	assignments := memstore.NewRoleAssignmentRepository(store)
	audit := memstore.NewAssignmentAuditRepository(store)
	roles := memstore.NewRoleRepository(store)
	tx := memstore.NewTxRunner(store)
	gen := pdf.NewMarotoPDFGenerator()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       auth.NewAuthUseCase(users, restaurants, assignments, roles, tx, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		StaffUC:      staff.NewStaffUseCase(users, assignments, audit, roles, locations, restaurants, tx, gen),
		LocationUC:   usecase.NewLocationUseCase(locations, tx),
		MenuUC:       usecase.NewMenuUseCase(memstore.NewMenuRepository(store), restaurants, gen),
		RestaurantUC: usecase.NewRestaurantUseCase(restaurants),
		JWTSecret:    testJWTSecret,
		LoginLimiter: infraredis.NewLimiter(rdb, "login", loginLimit, time.Minute),
		HealthChecks: map[string]apphttp.HealthCheck{
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (s *testServer) register(t *testing.T, name, email string, locations ...string) dto.RegisterRestaurantResponse {
	t.Helper()
	in := dto.RegisterRestaurantRequest{
		RestaurantName: name,
		Email:          email,
		Admin:          dto.RegisterAdminRequest{Name: "Dueño " + name, Email: email, Password: "secreto123"},
	}
	for _, l := range locations {
		in.Locations = append(in.Locations, dto.RegisterLocationRequest{Name: l})
	}
	resp, body := s.call(t, http.MethodPost, "/api/auth/register", "", in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.RegisterRestaurantResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Code
}

func TestRouter_RegisterCreateAndIsolate(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro", "Norte")
	b := s.register(t, "Otra Casa", "dueno@otra.co", "Unica")

	assert.Equal(t, "nandu-grill", a.Restaurant.Subdomain)
	require.Len(t, a.User.Roles, 1)
	assert.Equal(t, entity.RoleRestaurantAdministrator, a.User.Roles[0].RoleName)

	resp, body := s.call(t, http.MethodGet, "/api/users/locations", a.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var locs []dto.LocationResponse
	require.NoError(t, json.Unmarshal(body, &locs))
	require.Len(t, locs, 2)

	resp, body = s.call(t, http.MethodPost, "/api/users", a.Token, dto.CreateUserRequest{
		Email:    "Mesero@Nandu.co",
		Password: "mesero1234",
		Name:     "Mesero",
		Roles: []dto.RoleLocationPair{
			{RoleID: 6, LocationIDs: []string{locs[0].ID, locs[1].ID}, IsPrimary: true},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var waiter dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &waiter))
	assert.Equal(t, "mesero@nandu.co", waiter.Email)
	assert.Equal(t, locs[0].ID, waiter.PrimaryLocationID)
	assert.Len(t, s.store.Assignments(), 3+2, "2 del dueño, 1 del otro dueño y 2 del mesero")

	// Otro tenant no ve ni modifica al usuario.
	resp, _ = s.call(t, http.MethodGet, "/api/users/"+waiter.ID, b.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = s.call(t, http.MethodPost, "/api/users", b.Token, dto.CreateUserRequest{
		Email: "intruso@otra.co", Password: "intruso123", Name: "Intruso",
		Roles: []dto.RoleLocationPair{{RoleID: 6, LocationIDs: []string{locs[0].ID}, IsPrimary: true}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "TENANT_MISMATCH", errorCode(t, body))

	resp, body = s.call(t, http.MethodGet, "/api/users", b.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.UserListResponse
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, b.User.ID, list.Items[0].ID)
}

func TestRouter_ValidationAndDomainErrors(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")

	resp, body := s.call(t, http.MethodPost, "/api/users", a.Token, dto.CreateUserRequest{Email: "no-es-email", Password: "corta", Name: "X"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = s.call(t, http.MethodPost, "/api/users", a.Token, dto.CreateUserRequest{
		Email: "super@nandu.co", Password: "super12345", Name: "Super",
		Roles: []dto.RoleLocationPair{{RoleID: 1, LocationIDs: []string{a.Locations[0].ID}, IsPrimary: true}},
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ROLE_NOT_ASSIGNABLE", errorCode(t, body))

	resp, body = s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRestaurantRequest{
		RestaurantName: "Otra", Email: "dueno@nandu.co",
		Locations: []dto.RegisterLocationRequest{{Name: "Centro"}},
		Admin:     dto.RegisterAdminRequest{Name: "Otro", Email: "dueno@nandu.co", Password: "secreto123"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, body))
}

func TestRouter_StaffCannotManageUsers(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")

	resp, body := s.call(t, http.MethodPost, "/api/users", a.Token, dto.CreateUserRequest{
		Email: "cocina@nandu.co", Password: "cocina1234", Name: "Cocina",
		Roles: []dto.RoleLocationPair{{RoleID: 7, LocationIDs: []string{a.Locations[0].ID}, IsPrimary: true}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "cocina@nandu.co", Password: "cocina1234", Subdomain: "nandu-grill"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &login))

	resp, _ = s.call(t, http.MethodGet, "/api/users", login.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = s.call(t, http.MethodGet, "/api/locations", login.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "el personal puede leer las sedes")

	resp, _ = s.call(t, http.MethodPost, "/api/locations", login.Token, dto.CreateLocationRequest{Name: "Sur"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_SuspendedRestaurant(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")

	repo := memstore.NewRestaurantRepository(s.store)
	r, err := repo.GetByID(context.Background(), a.Restaurant.ID)
	require.NoError(t, err)
	r.Status = entity.RestaurantStatusSuspended
	require.NoError(t, repo.Update(context.Background(), r))

	resp, body := s.call(t, http.MethodGet, "/api/restaurant", a.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "RESTAURANT_SUSPENDED", errorCode(t, body))

	resp, _ = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "dueno@nandu.co", Password: "secreto123"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRouter_LoginRateLimit(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")

	bad := dto.LoginRequest{Email: "dueno@nandu.co", Password: "incorrecta"}
	for i := 0; i < loginLimit; i++ {
		resp, _ := s.call(t, http.MethodPost, "/api/auth/login", "", bad)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp, body := s.call(t, http.MethodPost, "/api/auth/login", "", bad)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "TOO_MANY_REQUESTS", errorCode(t, body))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRouter_MenuAndPublicMenu(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")

	resp, body := s.call(t, http.MethodPost, "/api/menu/categories", a.Token, dto.CreateCategoryRequest{Name: "Bebidas"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var cat dto.CategoryResponse
	require.NoError(t, json.Unmarshal(body, &cat))

	resp, body = s.call(t, http.MethodPost, "/api/menu/items", a.Token, map[string]interface{}{
		"category_id": cat.ID, "name": "Limonada", "price": "6500",
		"translations": map[string]interface{}{"en": map[string]string{"name": "Lemonade"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = s.call(t, http.MethodGet, "/api/public/nandu-grill/menu?lang=en", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var menu dto.MenuResponse
	require.NoError(t, json.Unmarshal(body, &menu))
	require.Len(t, menu.Sections, 1)
	assert.Equal(t, "Lemonade", menu.Sections[0].Items[0].Name)

	resp, body = s.call(t, http.MethodGet, "/api/menu/pdf", a.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := s.call(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")
	resp, body = s.call(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "restaurant_api_assignment_writes_total")
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out.Token
}

func (s *testServer) createUser(t *testing.T, token string, in dto.CreateUserRequest) dto.UserResponse {
	t.Helper()
	resp, body := s.call(t, http.MethodPost, "/api/users", token, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestRouter_StaleTokenLosesWriteAccess(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro", "Norte")
	both := []string{a.Locations[0].ID, a.Locations[1].ID}

	gerente := s.createUser(t, a.Token, dto.CreateUserRequest{
		Email: "gerente@nandu.co", Password: "gerente123", Name: "Gerente",
		Roles: []dto.RoleLocationPair{{RoleID: 4, LocationIDs: both, IsPrimary: true}},
	})
	degradado := s.createUser(t, a.Token, dto.CreateUserRequest{
		Email: "otro@nandu.co", Password: "gerente123", Name: "Otro gerente",
		Roles: []dto.RoleLocationPair{{RoleID: 4, LocationIDs: both, IsPrimary: true}},
	})
	gerenteToken := s.login(t, "gerente@nandu.co", "gerente123")
	degradadoToken := s.login(t, "otro@nandu.co", "gerente123")

	resp, body := s.call(t, http.MethodPost, "/api/locations", gerenteToken, dto.CreateLocationRequest{Name: "Sur"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = s.call(t, http.MethodPost, "/api/users/"+gerente.ID+"/deactivate", a.Token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, body = s.call(t, http.MethodPut, "/api/users/"+degradado.ID, a.Token, dto.UpdateUserRequest{
		Roles: []dto.RoleLocationPair{{RoleID: 6, LocationIDs: both, IsPrimary: true}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	before := len(s.store.Assignments())

	for name, token := range map[string]string{"desactivado": gerenteToken, "degradado": degradadoToken} {
		resp, body = s.call(t, http.MethodPost, "/api/locations/"+a.Locations[1].ID+"/deactivate", token, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, name)
		assert.Equal(t, "FORBIDDEN", errorCode(t, body), name)

		resp, _ = s.call(t, http.MethodPost, "/api/locations", token, dto.CreateLocationRequest{Name: "Oeste"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, name)

		resp, _ = s.call(t, http.MethodPost, "/api/menu/categories", token, dto.CreateCategoryRequest{Name: "Postres"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, name)
	}
	assert.Len(t, s.store.Assignments(), before, "ninguna asignación borrada")

	resp, _ = s.call(t, http.MethodGet, "/api/locations", degradadoToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "la lectura sigue abierta al personal")
}

func TestRouter_TenantFromTokenIgnoresFilterParams(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro")
	b := s.register(t, "Otra Casa", "dueno@otra.co", "Unica")
	s.createUser(t, a.Token, dto.CreateUserRequest{
		Email: "mesero@nandu.co", Password: "mesero1234", Name: "Mesero",
		Roles: []dto.RoleLocationPair{{RoleID: 6, LocationIDs: []string{a.Locations[0].ID}, IsPrimary: true}},
	})

	var list dto.UserListResponse
	resp, body := s.call(t, http.MethodGet, "/api/users?restaurant_id="+a.Restaurant.ID, b.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, b.User.ID, list.Items[0].ID)

	list = dto.UserListResponse{}
	resp, body = s.call(t, http.MethodGet, "/api/users?restaurant_id="+a.Restaurant.ID+"&location_id="+a.Locations[0].ID, b.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list.Items)
	assert.Zero(t, list.Page.Total)

	resp, body = s.call(t, http.MethodGet, "/api/users/locations?restaurant_id="+a.Restaurant.ID, b.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var locs []dto.LocationResponse
	require.NoError(t, json.Unmarshal(body, &locs))
	require.Len(t, locs, 1)
	assert.Equal(t, b.Locations[0].ID, locs[0].ID)
}

func TestRouter_MalformedIDsAreNotFound(t *testing.T) {
	s := newTestServer(t)
	a := s.register(t, "Nandu Grill", "dueno@nandu.co", "Centro", "Norte")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/abc"},
		{http.MethodGet, "/api/users/abc/history"},
		{http.MethodPost, "/api/users/abc/deactivate"},
		{http.MethodDelete, "/api/users/1"},
		{http.MethodGet, "/api/locations/abc"},
		{http.MethodPost, "/api/locations/abc/deactivate"},
		{http.MethodDelete, "/api/menu/items/abc"},
	} {
		resp, body := s.call(t, tc.method, tc.path, a.Token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, tc.path)
		assert.Equal(t, "NOT_FOUND", errorCode(t, body), tc.path)
	}

	resp, _ := s.call(t, http.MethodGet, "/api/users/roles", a.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "las rutas fijas no pasan por la validación de id")

	resp, body := s.call(t, http.MethodGet, "/api/users/"+a.User.ID+"/history?limit=100000", a.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var history []dto.AssignmentAuditResponse
	require.NoError(t, json.Unmarshal(body, &history))
	assert.Len(t, history, 2)
}
