package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/skpatro/tallystock/internal/core/ports/services"
	"github.com/skpatro/tallystock/internal/middleware"
	"github.com/skpatro/tallystock/internal/platform/config"
	"github.com/skpatro/tallystock/internal/store"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	overrides *store.OverrideStore,
	rates *store.RateStore,
) {
	// The API serves browser frontends on the local network.
	r.Use(cors.Default())

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services, overrides, rates)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	overrides *store.OverrideStore,
	rates *store.RateStore,
) {
	v1 := r.Group("/api/v1")

	if rate, err := limiter.NewRateFromFormatted(cfg.RateLimit); err == nil {
		ipLimiter := limiter.New(memory.NewStore(), rate)
		v1.Use(middleware.RateLimit(ipLimiter))
	}

	// JWT protection is opt-in; trusted-LAN deployments run open.
	if cfg.AuthEnabled {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	}

	registerImportRoutes(v1, services.Import, cfg.TallyInbox)
	registerDatasetRoutes(v1, services.Dataset)
	registerStockRoutes(v1, services.Dataset, services.StockLedger)
	registerOrderRoutes(v1, services.Order)
	registerOverrideRoutes(v1, overrides)
	registerRateRoutes(v1, rates)
}
