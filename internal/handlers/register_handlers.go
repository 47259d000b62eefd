package handlers

import (
	coresvc "github.com/finbooks/ledger_core/internal/core/services"
	"github.com/finbooks/ledger_core/internal/middleware"
	"github.com/finbooks/ledger_core/pkg/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *coresvc.ServicesContainer,
	rateLimiter *limiter.Limiter,
) {
	registerHomeRoutes(r)

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *coresvc.ServicesContainer,
	rateLimiter *limiter.Limiter,
) {
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, middleware.ActorIDHeader)

	v1 := r.Group("/api/v1",
		cors.New(corsConfig),
		middleware.ActorMiddleware(),
	)
	if rateLimiter != nil {
		v1.Use(middleware.RateLimit(rateLimiter))
	}

	RegisterAccountRoutes(v1, services.Account, services.Subsidiary)
	registerEntryRoutes(v1, services.Posting, services.Reversal)
	registerSubsidiaryRoutes(v1, services.Subsidiary)
	registerPeriodRoutes(v1, services.Period)
	registerReportingRoutes(v1, services.Reporting)
	registerAuditRoutes(v1, services.Audit)
}
