package app

import (
	"time"

	"katalog/internal/handlers"
	"katalog/internal/middleware"
	"katalog/internal/models"
	"katalog/internal/repositories"
	"katalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the collaborators the HTTP application is built from.
// Publisher may be nil to run without catalog events.
type Dependencies struct {
	ProductRepo repositories.ProductRepository
	UserRepo    repositories.UserRepository
	Publisher   services.EventPublisher
	JWTSecret   string
	// Broker reports the event broker state on /health.
	Broker string
	// DisableRequestLog turns off the access logger, mainly for tests.
	DisableRequestLog bool
}

// NewApp wires services and handlers into a Fiber app serving /api/v1 and /health.
func NewApp(deps Dependencies) (*fiber.App, *services.AuthService) {
	productService := services.NewProductService(deps.ProductRepo, deps.Publisher)
	authService := services.NewAuthService(deps.UserRepo, deps.JWTSecret)

	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)

	app := fiber.New()
	app.Use(recover.New())
	if !deps.DisableRequestLog {
		app.Use(logger.New())
	}

	managerOnly := middleware.AuthRequired(authService, models.RoleCatalogManager)
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1, managerOnly)
	productHandler.RegisterRoutes(apiV1, managerOnly)

	broker := deps.Broker
	if broker == "" {
		broker = "disabled"
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"rabbitmq": broker,
		})
	})

	return app, authService
}
