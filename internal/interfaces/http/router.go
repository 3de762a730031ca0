package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/restaurant-api/internal/application/auth"
	"github.com/jhoicas/restaurant-api/internal/application/staff"
	"github.com/jhoicas/restaurant-api/internal/application/usecase"
	"github.com/jhoicas/restaurant-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	StaffUC      *staff.StaffUseCase
	LocationUC   *usecase.LocationUseCase
	MenuUC       *usecase.MenuUseCase
	RestaurantUC *usecase.RestaurantUseCase
	JWTSecret    string
	// LoginLimiter nil deshabilita el límite de intentos de login.
	LoginLimiter attemptLimiter
	HealthChecks map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	health := NewHealthHandler(deps.HealthChecks)
	app.Get("/health", health.Liveness)
	app.Get("/health/ready", health.Readiness)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", LoginRateLimiter(deps.LoginLimiter), authHandler.Login)

	// Carta pública por subdominio
	menuHandler := NewMenuHandler(deps.MenuUC)
	api.Get("/public/:subdomain/menu", menuHandler.PublicMenu)

	// Rutas protegidas (Bearer Token + restaurante activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveRestaurant(deps.RestaurantUC))
	managers := RequireMinRole(entity.RoleManager, deps.StaffUC)
	admins := RequireMinRole(entity.RoleRestaurantAdministrator, deps.StaffUC)
	validID := RequireUUIDParam("id")

	// Restaurante
	restaurantHandler := NewRestaurantHandler(deps.RestaurantUC)
	protected.Get("/restaurant", restaurantHandler.Get)
	protected.Put("/restaurant", admins, restaurantHandler.Update)

	// Usuarios: las rutas fijas van antes de /:id
	users := protected.Group("/users", managers)
	userHandler := NewUserHandler(deps.StaffUC)
	users.Get("/roles", userHandler.AvailableRoles)
	users.Get("/locations", userHandler.AvailableLocations)
	users.Get("/roster.pdf", userHandler.RosterPDF)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", validID, userHandler.GetByID)
	users.Put("/:id", validID, userHandler.Update)
	users.Delete("/:id", validID, userHandler.Delete)
	users.Post("/:id/deactivate", validID, userHandler.Deactivate)
	users.Get("/:id/history", validID, userHandler.History)

	// Sedes: lectura para todo el personal, escritura para managers en adelante
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", validID, locationHandler.GetByID)
	locations.Post("/", managers, locationHandler.Create)
	locations.Put("/:id", validID, managers, locationHandler.Update)
	locations.Post("/:id/deactivate", validID, managers, locationHandler.Deactivate)
	locations.Post("/:id/activate", validID, managers, locationHandler.Activate)

	// Menú
	menu := protected.Group("/menu")
	menu.Get("/", menuHandler.Menu)
	menu.Get("/pdf", menuHandler.MenuPDF)
	menu.Get("/categories", menuHandler.ListCategories)
	menu.Post("/categories", managers, menuHandler.CreateCategory)
	menu.Put("/categories/:id", validID, managers, menuHandler.UpdateCategory)
	menu.Delete("/categories/:id", validID, managers, menuHandler.DeleteCategory)
	menu.Get("/items", menuHandler.ListItems)
	menu.Post("/items", managers, menuHandler.CreateItem)
	menu.Put("/items/:id", validID, managers, menuHandler.UpdateItem)
	menu.Delete("/items/:id", validID, managers, menuHandler.DeleteItem)
}
