package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/restaurant-api/internal/application/dto"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-api/pkg/jwt"
	"github.com/jhoicas/restaurant-api/pkg/slug"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// RegistrationTxRunner transacción del registro: restaurante, sedes, usuario y asignaciones.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		restaurants repository.RestaurantRepository,
		locations repository.LocationRepository,
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error) error
}

// AuthUseCase casos de uso de autenticación: registro de restaurante y login.
type AuthUseCase struct {
	userRepo       repository.UserRepository
	restaurantRepo repository.RestaurantRepository
	assignmentRepo repository.RoleAssignmentRepository
	roleRepo       repository.RoleRepository
	tx             RegistrationTxRunner
	jwtCfg         JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	restaurantRepo repository.RestaurantRepository,
	assignmentRepo repository.RoleAssignmentRepository,
	roleRepo repository.RoleRepository,
	tx RegistrationTxRunner,
	jwtCfg JWTConfig,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		assignmentRepo: assignmentRepo,
		roleRepo:       roleRepo,
		tx:             tx,
		jwtCfg:         jwtCfg,
	}
}

// RegisterRestaurant crea un tenant completo en una sola transacción: el restaurante (con
// subdominio único), sus sedes y el primer administrador con asignaciones por índice de sede.
func (uc *AuthUseCase) RegisterRestaurant(ctx context.Context, in dto.RegisterRestaurantRequest) (*dto.RegisterRestaurantResponse, error) {
	if len(in.Locations) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos una sede", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Admin.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	subdomain, err := uc.pickSubdomain(ctx, in)
	if err != nil {
		return nil, err
	}
	catalog, err := uc.catalog(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	restaurant := &entity.Restaurant{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.RestaurantName),
		Subdomain: subdomain,
		Email:     entity.NormalizeEmail(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Status:    entity.RestaurantStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	locations := buildLocations(restaurant.ID, in.Locations, now)

	grants, err := rbac.ExpandIndexed(indexedAssignments(in), locations, catalog)
	if err != nil {
		return nil, err
	}
	if err := checkFounderRoles(grants, catalog, len(locations)); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		RestaurantID: restaurant.ID,
		Email:        entity.NormalizeEmail(in.Admin.Email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Admin.Name),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rows := staff.GrantsToRows(grants, user, "", now)

	err = uc.tx.RunRegistration(ctx, func(
		restaurants repository.RestaurantRepository,
		locRepo repository.LocationRepository,
		users repository.UserRepository,
		assignments repository.RoleAssignmentRepository,
		audit repository.AssignmentAuditRepository,
	) error {
		if err := restaurants.Create(ctx, restaurant); err != nil {
			return err
		}
		for i := range locations {
			if err := locRepo.Create(ctx, &locations[i]); err != nil {
				return err
			}
		}
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if err := assignments.InsertBatch(ctx, rows); err != nil {
			return err
		}
		return audit.InsertBatch(ctx, staff.AuditEntries(entity.AuditGranted, rows, "", now))
	})
	if err != nil {
		return nil, domain.AbortTx("registrar restaurante", err)
	}

	roleIDs := make([]int, 0, len(grants))
	for _, g := range grants {
		roleIDs = append(roleIDs, g.RoleID)
	}
	top, _ := catalog.Highest(roleIDs)
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, restaurant.ID, top.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("restaurant_id", restaurant.ID).
		Str("subdomain", restaurant.Subdomain).
		Int("locations", len(locations)).
		Int("assignments", len(rows)).
		Msg("restaurante registrado")

	out := &dto.RegisterRestaurantResponse{
		Restaurant: usecase.ToRestaurantResponse(restaurant),
		Locations:  make([]dto.LocationResponse, 0, len(locations)),
		User:       staff.ToUserResponse(user, grantViews(grants, locations, catalog)),
		Token:      token,
	}
	for _, l := range locations {
		out.Locations = append(out.Locations, staff.ToLocationResponse(l))
	}
	return out, nil
}

// Login verifica email/password y emite un JWT cuyo rol es el de mayor jerarquía entre las
// asignaciones activas. Con subdomain, el usuario debe pertenecer a ese restaurante.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if user.Status != entity.UserStatusActive {
		return nil, fmt.Errorf("%w: usuario inactivo", domain.ErrForbidden)
	}

	restaurant, err := uc.restaurantRepo.GetByID(ctx, user.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !rbac.MatchesTenant(user.RestaurantID, restaurant, in.Subdomain) {
		return nil, fmt.Errorf("%w: credenciales inválidas", domain.ErrUnauthorized)
	}
	if restaurant.Status != entity.RestaurantStatusActive {
		return nil, fmt.Errorf("%w: restaurante suspendido", domain.ErrForbidden)
	}

	catalog, err := uc.catalog(ctx)
	if err != nil {
		return nil, err
	}
	roleIDs, err := uc.assignmentRepo.ActiveRoleIDs(ctx, user.RestaurantID, user.ID)
	if err != nil {
		return nil, err
	}
	top, ok := catalog.Highest(roleIDs)
	if !ok {
		return nil, fmt.Errorf("%w: el usuario no tiene roles asignados", domain.ErrForbidden)
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.RestaurantID, top.Name, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	views, err := uc.assignmentRepo.ListByUser(ctx, user.RestaurantID, user.ID)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  staff.ToUserResponse(user, views),
	}, nil
}

func (uc *AuthUseCase) catalog(ctx context.Context) (*rbac.Catalog, error) {
	roles, err := uc.roleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("catálogo de roles vacío")
	}
	return rbac.NewCatalog(roles), nil
}

// pickSubdomain usa el subdominio pedido (debe estar libre) o deriva uno único del nombre.
func (uc *AuthUseCase) pickSubdomain(ctx context.Context, in dto.RegisterRestaurantRequest) (string, error) {
	requested := strings.TrimSpace(in.Subdomain)
	if requested != "" {
		s := slug.Make(requested)
		if s == "" {
			return "", fmt.Errorf("%w: subdominio inválido", domain.ErrInvalidInput)
		}
		taken, err := uc.restaurantRepo.SubdomainExists(ctx, s)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: el subdominio '%s' ya está en uso", domain.ErrDuplicate, s)
		}
		return s, nil
	}

	base := slug.Make(in.RestaurantName)
	if base == "" {
		return "", fmt.Errorf("%w: el nombre del restaurante no genera un subdominio válido", domain.ErrInvalidInput)
	}
	var lookupErr error
	s := slug.Unique(base, func(candidate string) bool {
		exists, err := uc.restaurantRepo.SubdomainExists(ctx, candidate)
		if err != nil {
			lookupErr = err
			return false
		}
		return exists
	})
	return s, lookupErr
}

// buildLocations crea las sedes del registro con slugs únicos dentro del restaurante.
func buildLocations(restaurantID string, in []dto.RegisterLocationRequest, now time.Time) []entity.Location {
	used := make(map[string]bool, len(in))
	out := make([]entity.Location, 0, len(in))
	for i, l := range in {
		base := slug.Make(l.Name)
		if base == "" {
			base = fmt.Sprintf("sede-%d", i+1)
		}
		s := slug.Unique(base, func(c string) bool { return used[c] })
		used[s] = true
		out = append(out, entity.Location{
			ID:           uuid.New().String(),
			RestaurantID: restaurantID,
			Name:         strings.TrimSpace(l.Name),
			Slug:         s,
			Address:      strings.TrimSpace(l.Address),
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return out
}

// indexedAssignments traduce el body del registro. Sin roles, el fundador es
// restaurant_administrator en todas las sedes con la sede 0 como principal.
func indexedAssignments(in dto.RegisterRestaurantRequest) []rbac.IndexedRoleAssignment {
	if len(in.Roles) == 0 {
		locs := make([]rbac.LocationIndex, 0, len(in.Locations))
		for i := range in.Locations {
			locs = append(locs, rbac.LocationIndex{Index: i, IsPrimary: i == 0})
		}
		return []rbac.IndexedRoleAssignment{{
			RoleName:      entity.RoleRestaurantAdministrator,
			IsPrimaryRole: true,
			Locations:     locs,
		}}
	}
	out := make([]rbac.IndexedRoleAssignment, 0, len(in.Roles))
	for _, r := range in.Roles {
		locs := make([]rbac.LocationIndex, 0, len(r.LocationAssignments))
		for _, l := range r.LocationAssignments {
			locs = append(locs, rbac.LocationIndex{Index: l.LocationIndex, IsPrimary: l.IsPrimaryLocation})
		}
		out = append(out, rbac.IndexedRoleAssignment{RoleName: r.RoleName, IsPrimaryRole: r.IsPrimaryRole, Locations: locs})
	}
	return out
}

// checkFounderRoles el fundador actúa con rango de restaurant_administrator: solo puede recibir
// roles que ese rango puede asignar, y debe incluir restaurant_administrator.
func checkFounderRoles(grants []rbac.Grant, catalog *rbac.Catalog, locationCount int) error {
	hasAdmin := false
	for _, g := range grants {
		if !rbac.CanAssign(rbac.RankRestaurantAdministrator, catalog, locationCount, g.RoleID) {
			return &domain.RoleNotAssignableError{Role: g.RoleName}
		}
		if g.RoleName == entity.RoleRestaurantAdministrator {
			hasAdmin = true
		}
	}
	if !hasAdmin {
		return fmt.Errorf("%w: el primer usuario debe ser %s", domain.ErrInvalidInput, entity.RoleRestaurantAdministrator)
	}
	return nil
}

// grantViews filas de lectura equivalentes a las recién insertadas, sin volver a consultar.
func grantViews(grants []rbac.Grant, locations []entity.Location, catalog *rbac.Catalog) []entity.AssignmentView {
	names := make(map[string]string, len(locations))
	for _, l := range locations {
		names[l.ID] = l.Name
	}
	views := make([]entity.AssignmentView, 0, len(grants))
	for _, g := range grants {
		role, _ := catalog.ByID(g.RoleID)
		views = append(views, entity.AssignmentView{
			RoleID:          role.ID,
			RoleName:        role.Name,
			RoleDisplayName: role.DisplayName,
			RoleRank:        role.Rank,
			LocationID:      g.LocationID,
			LocationName:    names[g.LocationID],
			IsPrimary:       g.IsPrimary,
		})
	}
	return views
}
