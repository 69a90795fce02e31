package reservations

import (
	"fitbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupReservationRoutes configures all reservation-related routes
func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	member := rg.Group("/reservations")
	member.Use(middleware.JWTAuth(), middleware.RequireRoles("MEMBER", "ADMIN"))
	{
		member.POST("", controller.Reserve)                // POST /api/v1/reservations
		member.POST("/:id/cancel", controller.Cancel)      // POST /api/v1/reservations/:id/cancel
		member.GET("/upcoming", controller.GetUpcoming)    // GET  /api/v1/reservations/upcoming
		member.GET("/completed", controller.GetCompleted)  // GET  /api/v1/reservations/completed
		member.GET("/cancelled", controller.GetCancelled)  // GET  /api/v1/reservations/cancelled
	}

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.GET("/reservations", controller.GetAllReservations)           // GET /api/v1/admin/reservations
		admin.GET("/classes/:id/reservations", controller.GetClassReservations) // GET /api/v1/admin/classes/:id/reservations
	}
}
