package router

import (
	"net/http"
	"time"

	"mealdesk/internal/meal"
	"mealdesk/internal/middleware"
	"mealdesk/internal/transport"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps are the handlers the API serves.
type Deps struct {
	CORSOrigins    []string
	Meals          *meal.Handler
	MealsAdmin     *meal.AdminHandler
	Transport      *transport.Handler
	TransportAdmin *transport.AdminHandler
}

func NewRouter(deps Deps) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(deps.CORSOrigins))

	r.GET(middleware.HealthPath, health)

	// ───────────────────────── MEALS ─────────────────────────
	meals := r.Group("/meals")
	{
		meals.GET("/catalog", deps.Meals.Catalog)
		meals.GET("/availability", deps.Meals.Availability)
		meals.POST("/orders", deps.Meals.CreateOrder)

		meals.POST("/sessions", deps.Meals.CreateSession)
		meals.GET("/sessions/:id", deps.Meals.GetSession)
		meals.POST("/sessions/:id/actions", deps.Meals.ApplyAction)
		meals.POST("/sessions/:id/submit", deps.Meals.SubmitSession)
		meals.DELETE("/sessions/:id", deps.Meals.DeleteSession)
	}

	// ───────────────────────── TRANSPORT ─────────────────────────
	rides := r.Group("/transport")
	{
		rides.GET("/catalog", deps.Transport.Catalog)
		rides.GET("/availability", deps.Transport.Availability)
		rides.POST("/bookings", deps.Transport.CreateBookings)

		rides.POST("/sessions", deps.Transport.CreateSession)
		rides.GET("/sessions/:id", deps.Transport.GetSession)
		rides.POST("/sessions/:id/actions", deps.Transport.ApplyAction)
		rides.POST("/sessions/:id/submit", deps.Transport.SubmitSession)
		rides.DELETE("/sessions/:id", deps.Transport.DeleteSession)
	}

	// ───────────────────────── ADMIN (read-only) ─────────────────────────
	admin := r.Group("/admin")
	{
		admin.GET("/orders", deps.MealsAdmin.Summary)
		admin.GET("/orders/export", deps.MealsAdmin.Export)
		admin.POST("/orders/export/archive", deps.MealsAdmin.Archive)

		admin.GET("/transport", deps.TransportAdmin.Summary)
		admin.GET("/transport/export", deps.TransportAdmin.Export)
		admin.POST("/transport/export/archive", deps.TransportAdmin.Archive)
	}

	return r
}

// NewUnconfiguredRouter serves only the health check; everything else gets
// the configuration-required answer.
func NewUnconfiguredRouter(missing []string, origins []string) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware(origins))
	r.Use(middleware.ConfigGate(missing))

	r.GET(middleware.HealthPath, health)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "configuration required",
			"missing": missing,
		})
	})

	return r
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
