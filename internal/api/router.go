package api

import (
	"net/http" // HTTP status codes

	"travel_tracker/internal/middleware" // Auth middleware

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires every route onto a gin engine. rdb may be nil, which
// disables response caching.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/register", RegisterHandler(db))
	auth.POST("/login", LoginHandler(db, jwtSecret))
	auth.POST("/login-json", LoginJSONHandler(db, jwtSecret))

	// Public travel log feed
	r.GET("/travel-logs/public/latest", LatestPublicLogsHandler(db))

	// Everything below requires a valid bearer token and an active account
	authed := r.Group("")
	authed.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.ActiveUserMiddleware(db))

	authed.GET("/users/me", GetMeHandler(db))
	authed.PUT("/users/me", UpdateMeHandler(db))
	authed.GET("/users/:id", GetUserHandler(db))

	plans := authed.Group("/travel-plans")
	plans.POST("", CreateTravelPlanHandler(db))
	plans.GET("", ListTravelPlansHandler(db))
	plans.GET("/:id", GetTravelPlanHandler(db))
	plans.PUT("/:id", UpdateTravelPlanHandler(db))
	plans.DELETE("/:id", DeleteTravelPlanHandler(db))
	plans.POST("/:id/expenses", CreatePlanExpenseHandler(db, rdb))
	plans.GET("/:id/expenses", ListPlanExpensesHandler(db))
	plans.GET("/:id/expenses/statistics", PlanExpenseStatisticsHandler(db, rdb))

	itineraries := authed.Group("/itineraries")
	itineraries.POST("", CreateItineraryHandler(db))
	itineraries.GET("", ListItinerariesHandler(db))
	itineraries.GET("/:id", GetItineraryHandler(db))
	itineraries.PUT("/:id", UpdateItineraryHandler(db))
	itineraries.DELETE("/:id", DeleteItineraryHandler(db))

	expenses := authed.Group("/expenses")
	expenses.POST("", CreateExpenseHandler(db, rdb))
	expenses.GET("", ListExpensesHandler(db))
	expenses.GET("/statistics", ExpenseStatisticsHandler(db, rdb))
	expenses.GET("/:id", GetExpenseHandler(db))
	expenses.PUT("/:id", UpdateExpenseHandler(db, rdb))
	expenses.DELETE("/:id", DeleteExpenseHandler(db, rdb))

	logs := authed.Group("/travel-logs")
	logs.POST("", CreateTravelLogHandler(db))
	logs.GET("", ListTravelLogsHandler(db))
	logs.GET("/my", MyTravelLogsHandler(db))
	logs.GET("/:id", GetTravelLogHandler(db))
	logs.PUT("/:id", UpdateTravelLogHandler(db))
	logs.DELETE("/:id", DeleteTravelLogHandler(db))

	return r
}
