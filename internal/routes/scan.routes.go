package routes

import (
	"dirscan/internal/controllers"
	"dirscan/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterScanRoutes(r *gin.RouterGroup, authEnabled bool) {
	api := r.Group("/api", middleware.TokenAuthMiddleware(authEnabled))
	{
		api.GET("/scan", controllers.GetScan)
		api.GET("/scan/text", controllers.GetScanText)
		api.GET("/volume", controllers.GetVolume)
	}
}
