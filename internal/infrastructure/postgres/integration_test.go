package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-api/internal/application/auth"
	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurant-api/pkg/config"
)

// Requiere INTEGRATION_TEST=true y TEST_DATABASE_URL apuntando a una base desechable.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "true" {
		t.Skip("Set INTEGRATION_TEST=true y TEST_DATABASE_URL para correr los tests de integración.")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL vacío")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 5})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

type pgFixture struct {
	ctx     context.Context
	authUC  *auth.AuthUseCase
	staffUC *staff.StaffUseCase
	locUC   *usecase.LocationUseCase
	users   repository.UserRepository
	assigns repository.RoleAssignmentRepository
	tx      *postgres.TxRunner
	owner   rbac.Caller
	tenant  dto.RegisterRestaurantResponse
	suffix  string
}

type nopRoster struct{}

func (nopRoster) GenerateRosterPDF(context.Context, *entity.Restaurant, []staff.RosterEntry) ([]byte, error) {
	return nil, nil
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	pool := setupTestDB(t)
	f := &pgFixture{
		ctx:     context.Background(),
		users:   postgres.NewUserRepository(pool),
		assigns: postgres.NewRoleAssignmentRepository(pool),
		tx:      postgres.NewTxRunner(pool),
		suffix:  uuid.NewString()[:8],
	}
	restaurants := postgres.NewRestaurantRepository(pool)
	locations := postgres.NewLocationRepository(pool)
	roles := postgres.NewRoleRepository(pool)
	audit := postgres.NewAssignmentAuditRepository(pool)

	f.authUC = auth.NewAuthUseCase(f.users, restaurants, f.assigns, roles, f.tx, auth.JWTConfig{Secret: "integration", ExpMinutes: 5, Issuer: "test"})
	f.staffUC = staff.NewStaffUseCase(f.users, f.assigns, audit, roles, locations, restaurants, f.tx, nopRoster{})
	f.locUC = usecase.NewLocationUseCase(locations, f.tx)

	out, err := f.authUC.RegisterRestaurant(f.ctx, dto.RegisterRestaurantRequest{
		RestaurantName: "Integración " + f.suffix,
		Email:          "owner-" + f.suffix + "@test.co",
		Locations:      []dto.RegisterLocationRequest{{Name: "Centro"}, {Name: "Norte"}},
		Admin:          dto.RegisterAdminRequest{Name: "Owner", Email: "owner-" + f.suffix + "@test.co", Password: "secreto123"},
	})
	require.NoError(t, err)
	f.tenant = *out
	f.owner = rbac.Caller{UserID: out.User.ID, RestaurantID: out.Restaurant.ID, Role: entity.RoleRestaurantAdministrator}
	return f
}

func TestIntegration_CreateAndReplaceAssignments(t *testing.T) {
	f := newPGFixture(t)
	centro, norte := f.tenant.Locations[0].ID, f.tenant.Locations[1].ID

	u, err := f.staffUC.CreateUser(f.ctx, f.owner, dto.CreateUserRequest{
		Email: "cajero-" + f.suffix + "@test.co", Password: "cajero1234", Name: "Cajero",
		Roles: []dto.RoleLocationPair{{RoleID: 5, LocationIDs: []string{norte, centro}, IsPrimary: true}},
	})
	require.NoError(t, err)
	require.Len(t, u.Roles, 1)
	assert.Equal(t, norte, u.PrimaryLocationID, "la sede principal es la primera del par marcado")

	updated, err := f.staffUC.UpdateUser(f.ctx, f.owner, u.ID, dto.UpdateUserRequest{
		Roles: []dto.RoleLocationPair{{RoleID: 6, LocationIDs: []string{centro}, IsPrimary: true}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Roles, 1)
	assert.Equal(t, entity.RoleWaiter, updated.Roles[0].RoleName)

	history, err := f.staffUC.History(f.ctx, f.owner, u.ID, 50)
	require.NoError(t, err)
	assert.Len(t, history, 5, "2 otorgadas al crear, 2 revocadas y 1 otorgada al editar")
}

func TestIntegration_ConstraintsRollBack(t *testing.T) {
	f := newPGFixture(t)
	centro, norte := f.tenant.Locations[0].ID, f.tenant.Locations[1].ID
	email := "rollback-" + f.suffix + "@test.co"
	now := time.Now()

	err := f.tx.RunStaff(f.ctx, func(users repository.UserRepository, assigns repository.RoleAssignmentRepository, _ repository.AssignmentAuditRepository) error {
		user := &entity.User{
			ID: uuid.NewString(), RestaurantID: f.owner.RestaurantID, Email: email, PasswordHash: "x",
			Name: "Rollback", Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
		}
		if err := users.Create(f.ctx, user); err != nil {
			return err
		}
		return assigns.InsertBatch(f.ctx, []entity.RoleAssignment{
			{UserID: user.ID, RoleID: 6, LocationID: centro, RestaurantID: f.owner.RestaurantID, IsPrimary: true, IsActive: true, CreatedAt: now},
			{UserID: user.ID, RoleID: 6, LocationID: norte, RestaurantID: f.owner.RestaurantID, IsPrimary: true, IsActive: true, CreatedAt: now},
		})
	})
	var multiple *domain.MultiplePrimaryRolesError
	require.ErrorAs(t, err, &multiple, "el índice parcial rechaza dos filas principales")

	got, err := f.users.GetByEmail(f.ctx, email)
	require.NoError(t, err)
	assert.Nil(t, got, "el usuario no debe quedar creado tras el rollback")
}

func TestIntegration_DeactivateLocationPromotesPrimary(t *testing.T) {
	f := newPGFixture(t)
	centro, norte := f.tenant.Locations[0].ID, f.tenant.Locations[1].ID

	u, err := f.staffUC.CreateUser(f.ctx, f.owner, dto.CreateUserRequest{
		Email: "mesero-" + f.suffix + "@test.co", Password: "mesero1234", Name: "Mesero",
		Roles: []dto.RoleLocationPair{{RoleID: 6, LocationIDs: []string{norte, centro}, IsPrimary: true}},
	})
	require.NoError(t, err)

	out, err := f.locUC.Deactivate(f.ctx, f.owner, norte)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.RemovedAssignments, 2, "la del dueño y la del mesero en Norte")

	views, err := f.assigns.ListByUser(f.ctx, f.owner.RestaurantID, u.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, centro, views[0].LocationID)
	assert.True(t, views[0].IsPrimary, "la fila restante pasa a ser la principal")

	_, err = f.locUC.Deactivate(f.ctx, f.owner, centro)
	assert.ErrorIs(t, err, domain.ErrConflict, "no se desactiva la última sede activa")
}
