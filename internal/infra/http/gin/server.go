package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"hotelops/internal/infra/config"
	"hotelops/internal/infra/obs"
)

type Handlers struct {
	Frontdesk FrontdeskHandler
	Inventory InventoryHandler
	Billing   BillingHandler
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")

	api.POST("/hotels", h.Inventory.CreateHotel)
	api.GET("/hotels", h.Inventory.ListHotels)
	api.GET("/hotels/:id/rooms", h.Inventory.Board)
	api.GET("/hotels/:id/expenses", h.Inventory.ListExpenses)
	api.GET("/hotels/:id/reports/daily", h.Billing.DailyTotals)
	api.GET("/hotels/:id/reports/monthly", h.Billing.MonthlyTotal)

	api.POST("/rooms", h.Inventory.CreateRoom)
	api.PUT("/rooms/:id", h.Inventory.UpdateRoom)

	api.POST("/utilities", h.Inventory.CreateUtility)
	api.GET("/utilities", h.Inventory.ListUtilities)
	api.PUT("/utilities/:id", h.Inventory.UpdateUtility)
	api.DELETE("/utilities/:id", h.Inventory.DeleteUtility)

	api.POST("/expenses", h.Inventory.RecordExpense)
	api.DELETE("/expenses/:id", h.Inventory.DeleteExpense)

	api.POST("/occupancies", h.Frontdesk.Open)
	api.GET("/occupancies/:id/pricing", h.Frontdesk.Pricing)
	api.POST("/occupancies/:id/mode", h.Frontdesk.ChangeMode)
	api.POST("/occupancies/:id/move", h.Frontdesk.MoveRoom)
	api.POST("/occupancies/:id/surcharges", h.Frontdesk.AddSurcharge)
	api.PUT("/occupancies/:id/note", h.Frontdesk.SetNote)
	api.POST("/occupancies/:id/extras", h.Frontdesk.AddExtra)
	api.DELETE("/occupancies/:id/extras", h.Frontdesk.RemoveExtra)
	api.POST("/occupancies/:id/checkout", h.Frontdesk.Checkout)

	api.GET("/bills", h.Billing.ListBills)

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
