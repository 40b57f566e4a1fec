package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/wasiqzahoor/erp-system/internal/app"
	iauth "github.com/wasiqzahoor/erp-system/internal/auth"
	"github.com/wasiqzahoor/erp-system/internal/handlers"
	"github.com/wasiqzahoor/erp-system/internal/middleware"
	"github.com/wasiqzahoor/erp-system/internal/services"
	"github.com/wasiqzahoor/erp-system/internal/tenant"
)

// NewRouter builds the Gin engine, wires the middleware pipeline and
// registers all routes. The request pipeline order is fixed: recovery,
// logging, metrics, then per-group authentication, tenant resolution,
// permission checks and finally audit recording after the handler ran.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.NoRoute(middleware.NotFoundHandler)

	if cfg.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(db))
	}
	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := cfg.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	authHandler, err := handlers.NewAuthHandler(db, jwt)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	authn, err := iauth.NewAuthenticator(db, jwt)
	if err != nil {
		return nil, err
	}
	resolver, err := tenant.NewResolver(db, tenant.Config{RejectInactive: cfg.Tenancy.RejectInactive})
	if err != nil {
		return nil, err
	}
	auditSvc, err := services.NewAuditService(db)
	if err != nil {
		return nil, err
	}

	requireAuth := middleware.Auth(authn)
	tenantCtx := middleware.TenantContext(resolver, cfg.Tenancy.Header)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Self-service routes touch only the caller's own record and skip
	// tenant resolution on purpose.
	api.GET("/auth/me", authHandler.Me)

	// Tenant-scoped routes
	scoped := api.Group("")
	scoped.Use(tenantCtx)
	if cfg.Audit.Enabled {
		scoped.Use(middleware.AuditTrail(auditSvc))
	}

	policy := services.OverrideConflictPolicy(cfg.Tenancy.OverrideConflict)
	userHandler, err := handlers.NewUserHandler(db, policy)
	if err != nil {
		return nil, err
	}

	users := scoped.Group("/users")
	{
		users.GET("", middleware.RequirePermission("user:read"), userHandler.List)
		users.GET("/:id", middleware.RequirePermission("user:read"), userHandler.Get)
		users.POST("", middleware.RequirePermission("user:create"), userHandler.Create)
		users.PUT("/:id", middleware.RequirePermission("user:update"), userHandler.Update)
		users.PUT("/:id/status", middleware.RequirePermission("user:update"), userHandler.SetStatus)
		users.PUT("/:id/roles", middleware.RequirePermission("user:update"), userHandler.SetRoles)
		users.PUT("/:id/department", middleware.RequirePermission("user:update"), userHandler.SetDepartment)
		users.PUT("/:id/overrides", middleware.RequirePermission("permission:update"), userHandler.ReplaceOverrides)
		users.DELETE("/:id", middleware.RequirePermission("user:delete"), userHandler.Delete)
	}

	roleHandler, err := handlers.NewRoleHandler(db)
	if err != nil {
		return nil, err
	}

	roles := scoped.Group("/roles")
	{
		roles.GET("", middleware.RequirePermission("role:read"), roleHandler.List)
		roles.GET("/:id", middleware.RequirePermission("role:read"), roleHandler.Get)
		roles.POST("", middleware.RequirePermission("role:create"), roleHandler.Create)
		roles.PUT("/:id", middleware.RequirePermission("role:update"), roleHandler.Update)
		roles.DELETE("/:id", middleware.RequirePermission("role:delete"), roleHandler.Delete)
	}

	scoped.GET("/permissions", middleware.RequirePermission("permission:read"), roleHandler.Catalog)

	auditHandler, err := handlers.NewAuditHandler(db)
	if err != nil {
		return nil, err
	}

	audit := scoped.Group("/audit")
	{
		audit.GET("", middleware.RequirePermission("audit:read"), auditHandler.List)
		audit.GET("/export", middleware.RequirePermission("audit:export"), auditHandler.Export)
	}

	return r, nil
}
