package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/restaurant-api/internal/application/auth"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain/rbac"
	"github.com/jhoicas/restaurant-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/memstore"
	infrapdf "github.com/jhoicas/restaurant-api/internal/infrastructure/pdf"
	"github.com/jhoicas/restaurant-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/restaurant-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/restaurant-api/internal/interfaces/http"
	"github.com/jhoicas/restaurant-api/pkg/config"
	"github.com/jhoicas/restaurant-api/pkg/logger"
)

const (
	devJWTSecret = "dev-secret-no-usar-en-produccion"
	swaggerFile  = "./docs/swagger.json"
)

// txRunner lo implementan postgres.TxRunner y memstore.TxRunner.
type txRunner interface {
	staff.TxRunner
	auth.RegistrationTxRunner
	usecase.LocationTxRunner
}

// stores puertos de persistencia ya construidos para el driver elegido.
type stores struct {
	users       repository.UserRepository
	restaurants repository.RestaurantRepository
	locations   repository.LocationRepository
	roles       repository.RoleRepository
	assignments repository.RoleAssignmentRepository
	audit       repository.AssignmentAuditRepository
	menu        repository.MenuRepository
	tx          txRunner
	checks      map[string]httpRouter.HealthCheck
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: se usa el secreto de desarrollo")
		cfg.JWT.Secret = devJWTSecret
	}

	ctx := context.Background()
	var st *stores
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		st = memoryStores()
	} else {
		st, err = postgresStores(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
	}
	defer st.close()

	// Limitador de login: opcional, solo si hay REDIS_URL.
	var loginLimiter *infraredis.Limiter
	if cfg.Redis.URL != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		loginLimiter = infraredis.NewLimiter(rdb, "login", cfg.Redis.LoginLimit, time.Duration(cfg.Redis.LoginWindowSeconds)*time.Second)
		st.checks["redis"] = redisCheck(rdb)
	} else {
		log.Warn().Msg("REDIS_URL vacío: login sin límite de intentos")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	authUC := auth.NewAuthUseCase(st.users, st.restaurants, st.assignments, st.roles, st.tx, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	staffUC := staff.NewStaffUseCase(st.users, st.assignments, st.audit, st.roles, st.locations, st.restaurants, st.tx, pdfGenerator)
	locationUC := usecase.NewLocationUseCase(st.locations, st.tx)
	menuUC := usecase.NewMenuUseCase(st.menu, st.restaurants, pdfGenerator)
	restaurantUC := usecase.NewRestaurantUseCase(st.restaurants)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Zerolog()))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Restaurant API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("sin especificación OpenAPI, /docs deshabilitado")
	}

	deps := httpRouter.RouterDeps{
		AuthUC:       authUC,
		StaffUC:      staffUC,
		LocationUC:   locationUC,
		MenuUC:       menuUC,
		RestaurantUC: restaurantUC,
		JWTSecret:    cfg.JWT.Secret,
		HealthChecks: st.checks,
	}
	if loginLimiter != nil {
		deps.LoginLimiter = loginLimiter
	}
	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func postgresStores(ctx context.Context, cfg config.DBConfig) (*stores, error) {
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &stores{
		users:       postgres.NewUserRepository(pool),
		restaurants: postgres.NewRestaurantRepository(pool),
		locations:   postgres.NewLocationRepository(pool),
		roles:       postgres.NewRoleRepository(pool),
		assignments: postgres.NewRoleAssignmentRepository(pool),
		audit:       postgres.NewAssignmentAuditRepository(pool),
		menu:        postgres.NewMenuRepository(pool),
		tx:          postgres.NewTxRunner(pool),
		checks: map[string]httpRouter.HealthCheck{
			"postgres": pool.Ping,
		},
		close: pool.Close,
	}, nil
}

func memoryStores() *stores {
	store := memstore.New(rbac.DefaultRoles())
	return &stores{
		users:       memstore.NewUserRepository(store),
		restaurants: memstore.NewRestaurantRepository(store),
		locations:   memstore.NewLocationRepository(store),
		roles:       memstore.NewRoleRepository(store),
		assignments: memstore.NewRoleAssignmentRepository(store),
		audit:       memstore.NewAssignmentAuditRepository(store),
		menu:        memstore.NewMenuRepository(store),
		tx:          memstore.NewTxRunner(store),
		checks:      map[string]httpRouter.HealthCheck{},
		close:       func() {},
	}
}

func redisCheck(rdb *goredis.Client) httpRouter.HealthCheck {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
