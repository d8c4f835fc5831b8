package routes

import (
	"github.com/ahmadnurfadilah/chattable/configs"
	"github.com/ahmadnurfadilah/chattable/controllers"
	"github.com/ahmadnurfadilah/chattable/middlewares"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/ahmadnurfadilah/chattable/ws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, embedder services.Embedder, hub *ws.OrderHub, log *zap.Logger) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	sourceRepo := repository.NewSourceRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	// Services
	authSvc := services.NewAuthService(userRepo, orgRepo, cfg.JWTSecret, cfg.JWTTTL)
	orgSvc := services.NewOrganizationService(db, orgRepo)
	categorySvc := services.NewCategoryService(db, categoryRepo)
	menuSvc := services.NewMenuService(menuRepo, categoryRepo, orgRepo)
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, orgRepo, hub, log)
	dashboardSvc := services.NewDashboardService(orderRepo, menuRepo)
	knowledgeSvc := services.NewKnowledgeService(db, sourceRepo, docRepo, orgRepo, embedder, cfg.UploadDir, cfg.ChunkSize, cfg.ChunkOverlap, log)

	// Controllers
	authCtrl := controllers.NewAuthController(authSvc)
	orgCtrl := controllers.NewOrganizationController(orgSvc)
	categoryCtrl := controllers.NewCategoryController(categorySvc)
	menuCtrl := controllers.NewMenuController(menuSvc)
	orderCtrl := controllers.NewOrderController(orderSvc, dashboardSvc)
	sourceCtrl := controllers.NewSourceController(knowledgeSvc)
	publicCtrl := controllers.NewPublicController(menuSvc, knowledgeSvc)
	webhookCtrl := controllers.NewWebhookController(orderSvc, cfg.ElevenLabsWebhookSecret, log)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}

	// Auth (protected)
	aAuth := a.Group("", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.POST("/organization/activate", authCtrl.ActivateOrganization)
	}

	// Voice platform webhook (signature-verified, not JWT)
	r.GET("/webhook/elevenlabs", webhookCtrl.Liveness)
	r.POST("/webhook/elevenlabs", webhookCtrl.Receive)

	// Agent tool endpoints (public, keyed by organization id)
	api := r.Group("/api/:organizationId")
	{
		api.GET("/menu", publicCtrl.Menu)
		api.GET("/knowledge", publicCtrl.RetrieveKnowledge)
	}

	// Everything below is scoped to the token's active organization
	auth := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		auth.POST("/organizations", orgCtrl.Create)
		auth.GET("/organizations", orgCtrl.List)
		auth.GET("/organizations/current", orgCtrl.Current)
		auth.PATCH("/organizations/settings", orgCtrl.UpdateSettings)
		auth.POST("/organizations/agent", orgCtrl.BindAgent)

		auth.GET("/categories", categoryCtrl.List)
		auth.POST("/categories", categoryCtrl.Create)
		auth.PUT("/categories/reorder", categoryCtrl.Reorder)
		auth.PATCH("/categories/:id", categoryCtrl.Rename)
		auth.DELETE("/categories/:id", categoryCtrl.Delete)

		auth.GET("/menus", menuCtrl.List)
		auth.POST("/menus", menuCtrl.Create)
		auth.GET("/menus/:id", menuCtrl.Get)
		auth.PUT("/menus/:id", menuCtrl.Update)
		auth.DELETE("/menus/:id", menuCtrl.Delete)

		auth.GET("/orders", orderCtrl.List)
		auth.GET("/orders/:id", orderCtrl.Get)
		auth.PATCH("/orders/:id/status", orderCtrl.UpdateStatus)
		auth.GET("/dashboard/stats", orderCtrl.DashboardStats)

		auth.POST("/sources/text", sourceCtrl.CreateText)
		auth.GET("/sources/text", sourceCtrl.ListText)
		auth.POST("/sources/file", sourceCtrl.CreateFile)
		auth.GET("/sources/file", sourceCtrl.ListFiles)
		auth.DELETE("/sources/:id", sourceCtrl.Delete)

		auth.GET("/ws/orders", hub.ServeWS)
	}
}
