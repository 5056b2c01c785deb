package router

import (
	"time"

	"github.com/sefedemircan/triz-pos/internal/config"
	"github.com/sefedemircan/triz-pos/internal/handler"
	"github.com/sefedemircan/triz-pos/internal/middleware"
	"github.com/sefedemircan/triz-pos/internal/repository"
	"github.com/sefedemircan/triz-pos/internal/service"
	"github.com/sefedemircan/triz-pos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	tableRepo := repository.NewTableRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	stockItemRepo := repository.NewStockItemRepository(db)
	stockCategoryRepo := repository.NewStockCategoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	recipeRepo := repository.NewRecipeRepository(db)
	alertRepo := repository.NewStockAlertRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	stockSvc := service.NewStockService(stockItemRepo, movementRepo, recipeRepo, alertRepo, dispatcher)
	inventorySvc := service.NewInventoryService(stockItemRepo, stockCategoryRepo, movementRepo, alertRepo, stockSvc)
	orderSvc := service.NewOrderService(orderRepo, tableRepo, productRepo, stockSvc, dispatcher)
	tableSvc := service.NewTableService(tableRepo, orderRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, stockSvc)
	recipeSvc := service.NewRecipeService(recipeRepo, productRepo, stockItemRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	tablesH := handler.NewTablesHandler(tableSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc, rdb, time.Duration(cfg.CapacityCacheTTL)*time.Second)
	ordersH := handler.NewOrdersHandler(orderSvc)
	stockH := handler.NewStockHandler(inventorySvc, stockSvc)
	recipesH := handler.NewRecipesHandler(recipeSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: admin, waiter, kitchen — declared per-endpoint
		anyStaff := middleware.RequireRole("admin", "waiter", "kitchen")

		// Orders — waiters open/close, kitchen marks ready
		v1.POST("/orders", middleware.RequireRole("waiter", "admin"), ordersH.Create)
		v1.GET("/orders", anyStaff, ordersH.List)
		v1.GET("/orders/:id", anyStaff, ordersH.Get)
		v1.POST("/orders/check-stock", middleware.RequireRole("waiter", "admin"), ordersH.CheckStock)
		v1.PATCH("/orders/:id/ready", middleware.RequireRole("kitchen", "admin"), ordersH.MarkReady)
		v1.PATCH("/orders/:id/complete", middleware.RequireRole("waiter", "admin"), ordersH.Complete)
		v1.DELETE("/orders/:id", middleware.RequireRole("waiter", "admin"), ordersH.Cancel)

		// Tables — everyone reads, admin writes
		v1.GET("/tables", anyStaff, tablesH.List)
		v1.GET("/tables/:id", anyStaff, tablesH.Get)
		tables := v1.Group("/tables", middleware.RequireRole("admin"))
		{
			tables.POST("", tablesH.Create)
			tables.PUT("/:id", tablesH.Update)
			tables.DELETE("/:id", tablesH.Delete)
		}

		// Menu — everyone reads, admin writes
		v1.GET("/products", anyStaff, productsH.List)
		v1.GET("/products/:id", anyStaff, productsH.Get)
		v1.GET("/products/:id/capacity", anyStaff, productsH.Capacity)
		v1.GET("/products/:id/recipe", middleware.RequireRole("admin", "kitchen"), recipesH.List)
		prods := v1.Group("/products", middleware.RequireRole("admin"))
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
			prods.POST("/:id/recipe", recipesH.Add)
		}

		recipes := v1.Group("/recipes", middleware.RequireRole("admin"))
		{
			recipes.PUT("/:id", recipesH.Update)
			recipes.DELETE("/:id", recipesH.Remove)
		}

		v1.GET("/categories", anyStaff, categoriesH.List)
		categories := v1.Group("/categories", middleware.RequireRole("admin"))
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}

		// Inventory — kitchen can read levels and record waste, admin manages
		stock := v1.Group("/stock")
		{
			stock.GET("/items", middleware.RequireRole("admin", "kitchen"), stockH.ListItems)
			stock.GET("/items/:id", middleware.RequireRole("admin", "kitchen"), stockH.GetItem)
			stock.GET("/critical", middleware.RequireRole("admin", "kitchen"), stockH.CriticalItems)
			stock.GET("/movements", middleware.RequireRole("admin", "kitchen"), stockH.ListMovements)
			stock.POST("/movements", middleware.RequireRole("admin", "kitchen"), stockH.RecordMovement)
			stock.GET("/alerts", middleware.RequireRole("admin", "kitchen"), stockH.ListAlerts)
			stock.PATCH("/alerts/:id/acknowledge", middleware.RequireRole("admin"), stockH.AcknowledgeAlert)

			admin := stock.Group("", middleware.RequireRole("admin"))
			{
				admin.POST("/items", stockH.CreateItem)
				admin.PUT("/items/:id", stockH.UpdateItem)
				admin.DELETE("/items/:id", stockH.DeactivateItem)
				admin.PATCH("/items/:id/reactivate", stockH.ReactivateItem)
				admin.POST("/categories", stockH.CreateCategory)
			}
			stock.GET("/categories", middleware.RequireRole("admin", "kitchen"), stockH.ListCategories)
		}

		// Staff accounts — admin only
		users := v1.Group("/users", middleware.RequireRole("admin"))
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
