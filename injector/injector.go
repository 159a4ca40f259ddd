//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"github.com/womplatform/wom-registry/internal/app/deliveries"
	"github.com/womplatform/wom-registry/internal/app/middlewares"
	"github.com/womplatform/wom-registry/internal/app/pkg"
	"github.com/womplatform/wom-registry/internal/app/services"
	"github.com/womplatform/wom-registry/internal/infrastructures"
	"github.com/womplatform/wom-registry/pkg/ratelimit"
)

// Application represents the main application container for wom-registry
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	GenerationHandler   *deliveries.GenerationHandler
	PaymentHandler      *deliveries.PaymentHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// Baseline rate limit for the public protocol surface
	router.Use(app.RateLimitMiddleware.LimitByIP(ratelimit.PublicAPILimit))

	app.HealthHandler.RegisterRoutes(router)
	app.GenerationHandler.RegisterRoutes(router)
	app.PaymentHandler.RegisterRoutes(router)
}

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.LoadConfig,
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewRegistryKey,
	pkg.NewRandom,
	wire.Value("wom"),
	wire.Bind(new(ratelimit.RateLimiter), new(*ratelimit.RedisRateLimiter)),
	ratelimit.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewProtocolConfig,
	services.NewGormRequestStore,
	services.NewGormVoucherLedger,
	wire.Bind(new(services.RequestStore), new(*services.GormRequestStore)),
	wire.Bind(new(services.VoucherLedger), new(*services.GormVoucherLedger)),
	services.NewGenerationService,
	services.NewPaymentService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewGenerationHandler,
	deliveries.NewPaymentHandler,
	wire.Struct(new(Application), "*"),
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil
}
