package classes

import (
	"fitbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupClassRoutes configures catalog routes. Browsing is public; catalog
// mutation is an administrative surface.
func SetupClassRoutes(rg *gin.RouterGroup, controller *Controller) {
	public := rg.Group("/classes")
	{
		public.GET("", controller.GetClasses)          // GET /api/v1/classes
		public.GET("/active", controller.GetActiveClasses) // GET /api/v1/classes/active
		public.GET("/:id", controller.GetClass)        // GET /api/v1/classes/:id
	}

	admin := rg.Group("/admin/classes")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.POST("", controller.CreateClass)       // POST   /api/v1/admin/classes
		admin.PUT("/:id", controller.UpdateClass)    // PUT    /api/v1/admin/classes/:id
		admin.DELETE("/:id", controller.DeleteClass) // DELETE /api/v1/admin/classes/:id
	}
}
