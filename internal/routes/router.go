package routes

import (
	"dirscan/internal/config"
	"dirscan/internal/controllers"
	"dirscan/internal/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP engine with every route and the security chain
func NewRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", controllers.GetHealth)

	limiter := middleware.NewRateLimiter(cfg.Security.RateLimit, cfg.Security.RateBurst)
	allowList := middleware.NewIPAllowList(cfg.Security.AllowedIPs)

	secured := r.Group("/")
	secured.Use(
		middleware.SecurityHeadersMiddleware(),
		middleware.IPAllowListMiddleware(allowList),
		middleware.RateLimitMiddleware(limiter),
	)

	RegisterScanRoutes(secured, cfg.Auth.Enabled)
	RegisterAuthRoutes(secured, cfg.Auth.Enabled)

	return r
}
