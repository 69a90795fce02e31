// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"fitbook/internal/auth"
	"fitbook/internal/classes"
	"fitbook/internal/reservations"
	"fitbook/internal/shared/config"
	"fitbook/internal/shared/database"
	"fitbook/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB

	// Shared across route groups
	cacheService cache.Service
	authRepo     auth.Repository
	classService classes.Service
	publisher    reservations.EventPublisher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB) *Router {
	return &Router{
		config: cfg,
		db:     db,
	}
}

// SetEventPublisher injects the reservation event producer. Optional; when
// absent reservations are processed without publishing lifecycle events.
func (r *Router) SetEventPublisher(publisher reservations.EventPublisher) {
	r.publisher = publisher
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	r.cacheService = cache.NewService(r.db.GetRedisClient())

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Setup auth routes
		r.setupAuthRoutes(api)

		// Setup class catalog routes (must come before reservation routes
		// for dependency injection)
		r.setupClassRoutes(api)

		// Setup reservation routes
		r.setupReservationRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		// Perform health checks
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "fitbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "fitbook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	// Initialize auth dependencies
	r.authRepo = auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(r.authRepo, r.config)
	authController := auth.NewController(authService)
	authRouter := auth.NewRouter(authController)

	// Setup auth routes
	authRouter.SetupRoutes(rg)
}

// setupClassRoutes configures class catalog routes
func (r *Router) setupClassRoutes(rg *gin.RouterGroup) {
	// Initialize class dependencies
	classRepo := classes.NewRepository(r.db.GetPostgreSQL())
	classService := classes.NewService(classRepo)
	classService.SetCacheService(r.cacheService)

	// Store class service for dependency injection
	r.classService = classService

	classController := classes.NewController(classService)

	// Setup class routes
	classes.SetupClassRoutes(rg, classController)
}

// setupReservationRoutes configures reservation routes
func (r *Router) setupReservationRoutes(rg *gin.RouterGroup) {
	// Initialize reservation dependencies
	reservationRepo := reservations.NewRepository(r.db.GetPostgreSQL())
	coordinator := reservations.NewCoordinator(reservationRepo)
	identity := auth.NewIdentityAdapter(r.authRepo)
	reservationService := reservations.NewService(reservationRepo, coordinator, identity)

	// The catalog counts confirmed reservations before allowing deletes
	if r.classService != nil {
		r.classService.SetReservationCounter(reservationRepo)
		reservationService.SetCatalogInvalidator(r.classService)
	}

	if r.publisher != nil {
		reservationService.SetEventPublisher(r.publisher)
	}

	reservationController := reservations.NewController(reservationService)

	// Setup reservation routes
	reservations.SetupReservationRoutes(rg, reservationController)
}
