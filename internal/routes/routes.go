package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/uplinehq/backend/internal/config"
	"github.com/uplinehq/backend/internal/handlers"
	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/queue"
	clientsvc "github.com/uplinehq/backend/internal/services/client"
	"github.com/uplinehq/backend/internal/services/commission"
	"github.com/uplinehq/backend/internal/services/export"
	"github.com/uplinehq/backend/internal/services/extend"
	"github.com/uplinehq/backend/internal/services/referral"
	"github.com/uplinehq/backend/internal/services/upgrade"
	"github.com/uplinehq/backend/internal/services/withdrawal"
)

// RegisterRoutes configures all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, jobQueue *queue.Queue, cache *redis.Client, cfg *config.Config, metrics *middleware.Metrics) {
	// 60 requests per second per IP, 5 login attempts per minute
	rateLimiter := middleware.NewRateLimiter(60, 5, 10, 3)

	router.Use(metrics.Handler())
	router.Use(rateLimiter.IPRateLimiterMiddleware())

	// Services
	referrals := referral.NewService(db, cache)
	upgrades := upgrade.NewService(db, referrals)
	commissions := commission.NewService(db, jobQueue, referrals, cfg.Commission)
	withdrawals := withdrawal.NewService(db)
	extends := extend.NewService(db, referrals)
	clients := clientsvc.NewService(db)
	exports := export.NewService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, referrals)
	userHandler := handlers.NewUserHandler(db, referrals, upgrades, cfg.FrontendURL)
	clientHandler := handlers.NewClientHandler(clients, commissions, metrics)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawals, metrics)
	extendHandler := handlers.NewExtendHandler(extends, metrics)
	portalHandler := handlers.NewPortalHandler(db)
	funnelHandler := handlers.NewFunnelHandler(db)
	sessionHandler := handlers.NewSessionHandler(clients)
	exportHandler := handlers.NewExportHandler(exports)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authentication
	authGroup := router.Group("/auth")
	authGroup.Use(rateLimiter.AuthRateLimiterMiddleware())
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/login/leader", authHandler.LeaderLogin)
	}

	// Public funnel surface
	router.GET("/link/portal/:slug/commission", portalHandler.CommissionBySlug)
	router.POST("/link/:slug", portalHandler.TrackLinkClick)
	router.POST("/registrations", funnelHandler.CreateRegistration)
	router.POST("/leads", funnelHandler.CreateLead)
	router.GET("/portals", portalHandler.ListPortals)

	// Identity and upgrades
	userGroup := router.Group("/users")
	userGroup.Use(middleware.AuthMiddleware())
	{
		userGroup.GET("/me", userHandler.Me)
		userGroup.PUT("/me", userHandler.UpdateProfile)
		userGroup.GET("/me/join-qr", userHandler.JoinQR)
		userGroup.GET("/referral-count/:id", userHandler.ReferralCount)
		userGroup.POST("/upgrade", userHandler.Upgrade)
	}

	// Clients and claiming
	clientGroup := router.Group("/clients")
	clientGroup.Use(middleware.AuthMiddleware())
	{
		clientGroup.GET("/getAllClient", clientHandler.GetAllClients)
		clientGroup.GET("/search", clientHandler.SearchClient)
		clientGroup.POST("/:id/claim", clientHandler.ClaimClient)

		clientGroup.POST("/addClient", middleware.AdminMiddleware(), clientHandler.AddClient)
		clientGroup.PUT("/updateClient/:id", middleware.AdminMiddleware(), clientHandler.UpdateClient)
		clientGroup.POST("/:id/distribute-commission", middleware.AdminMiddleware(), clientHandler.DistributeCommission)
	}

	// Withdrawal lifecycle
	withdrawalGroup := router.Group("/withdrawals")
	withdrawalGroup.Use(middleware.AuthMiddleware())
	{
		withdrawalGroup.POST("/createWithdrawal", withdrawalHandler.CreateWithdrawal)
		withdrawalGroup.GET("/getWithdrawalsByUserId/:id", withdrawalHandler.GetWithdrawalsByUserID)
		withdrawalGroup.PUT("/updateWithdrawal/:id", middleware.AdminMiddleware(), withdrawalHandler.UpdateWithdrawal)
	}

	// Limit-extension lifecycle
	extendGroup := router.Group("/extends")
	extendGroup.Use(middleware.AuthMiddleware())
	{
		extendGroup.POST("", extendHandler.CreateExtend)
		extendGroup.GET("/user/:id", extendHandler.GetExtendsByUserID)
		extendGroup.PUT("/:id", middleware.AdminMiddleware(), extendHandler.UpdateExtend)
	}

	// Claim session window
	sessionGroup := router.Group("/session")
	sessionGroup.Use(middleware.AuthMiddleware())
	{
		sessionGroup.GET("", sessionHandler.GetSession)
		sessionGroup.POST("", middleware.AdminMiddleware(), sessionHandler.SetSession)
	}

	// Admin dashboard
	adminGroup := router.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		adminGroup.GET("/users", userHandler.ListUsers)
		adminGroup.PUT("/users/:id/status", userHandler.UpdateStatus)
		adminGroup.POST("/portals", portalHandler.CreatePortal)
		adminGroup.POST("/contacts", funnelHandler.CreateContact)

		adminGroup.GET("/registrations", funnelHandler.ListRegistrations)
		adminGroup.GET("/leads", funnelHandler.ListLeads)
		adminGroup.GET("/contacts", funnelHandler.ListContacts)
		adminGroup.GET("/link-clicks", funnelHandler.ListLinkClicks)
		adminGroup.PUT("/registrations/:id/status", funnelHandler.UpdateRegistrationStatus)
		adminGroup.PUT("/leads/:id/status", funnelHandler.UpdateLeadStatus)
		adminGroup.PUT("/contacts/:id/status", funnelHandler.UpdateContactStatus)

		adminGroup.GET("/export/clients", exportHandler.ExportClients)
		adminGroup.GET("/export/leads", exportHandler.ExportLeads)
	}
}
