package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookvault/handlers"
	"bookvault/middleware"
)

// RegisterSlotRoutes registers host slot endpoints.
func RegisterSlotRoutes(r *gin.Engine) {
	api := r.Group("/api/slots")
	{
		api.GET("/:id", handlers.GetSlot)

		// Mutations require an authenticated caller address.
		protected := api.Group("")
		protected.Use(middleware.CallerIdentityMiddleware())
		protected.POST("", handlers.CreateSlot)
		protected.POST("/:id/cancel", handlers.CancelSlot)
		protected.POST("/:id/book", handlers.BookSlot)
	}
}

// RegisterRequestRoutes registers reverse-booking request endpoints.
func RegisterRequestRoutes(r *gin.Engine) {
	api := r.Group("/api/requests")
	{
		api.GET("/:id", handlers.GetRequest)

		protected := api.Group("")
		protected.Use(middleware.CallerIdentityMiddleware())
		protected.POST("", handlers.CreateRequest)
		protected.POST("/:id/cancel", handlers.CancelRequest)
		protected.POST("/:id/accept", handlers.AcceptRequest)
	}
}

// RegisterBookingRoutes registers the booking lifecycle endpoints: cancel,
// attest, dispute and settle.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.GET("/:id", handlers.GetBooking)

		// Finalization paths are open to anyone; the engine itself decides
		// whether a booking is due.
		api.POST("/:id/finalize", handlers.Finalize)
		api.POST("/:id/dispute-timeout", handlers.FinalizeDisputeByTimeout)

		protected := api.Group("")
		protected.Use(middleware.CallerIdentityMiddleware())
		protected.POST("/:id/cancel-as-guest", handlers.CancelBookingAsGuest)
		protected.POST("/:id/cancel-as-host", handlers.CancelBookingAsHost)
		protected.POST("/:id/attest", handlers.Attest)
		protected.POST("/:id/claim", handlers.ClaimIfUnattested)
		protected.POST("/:id/challenge", handlers.Challenge)
		protected.POST("/:id/resolve", handlers.ResolveDispute)
	}
}

// RegisterHostRoutes registers host rate endpoints.
func RegisterHostRoutes(r *gin.Engine) {
	api := r.Group("/api/hosts")
	{
		api.GET("/:address/base-price", handlers.GetBasePrice)

		protected := api.Group("")
		protected.Use(middleware.CallerIdentityMiddleware())
		protected.POST("/base-price", handlers.SetBasePrice)
	}
}

// RegisterLedgerRoutes registers payout and custody endpoints.
func RegisterLedgerRoutes(r *gin.Engine) {
	api := r.Group("/api/ledger")
	{
		api.GET("", handlers.Ledger)
		api.POST("/sweep", handlers.SweepExcess)

		protected := api.Group("")
		protected.Use(middleware.CallerIdentityMiddleware())
		protected.GET("/owed", handlers.Owed)
		protected.POST("/withdraw", handlers.Withdraw)
	}
}

// RegisterAdminRoutes registers parameter and identity administration. The
// engine enforces that the caller is the current admin.
func RegisterAdminRoutes(r *gin.Engine) {
	api := r.Group("/api/admin")
	{
		api.GET("/params", handlers.GetParams)

		protected := api.Group("")
		protected.Use(middleware.CallerIdentityMiddleware())
		protected.PUT("/params", handlers.UpdateParams)
		protected.PUT("/oracle", handlers.SetOracle)
		protected.PUT("/admin", handlers.SetAdmin)
		protected.PUT("/treasury", handlers.SetTreasury)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Bookvault"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSlotRoutes(r)
	RegisterRequestRoutes(r)
	RegisterBookingRoutes(r)
	RegisterHostRoutes(r)
	RegisterLedgerRoutes(r)
	RegisterAdminRoutes(r)
	RegisterHealthRoute(r)
}
