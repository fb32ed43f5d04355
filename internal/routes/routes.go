package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sungsigun/SignageManagement/internal/cache"
	"github.com/sungsigun/SignageManagement/internal/config"
	"github.com/sungsigun/SignageManagement/internal/handlers"
	"github.com/sungsigun/SignageManagement/internal/middleware"
	"github.com/sungsigun/SignageManagement/internal/services"
	"github.com/sungsigun/SignageManagement/internal/utils"
)

// Setup builds the router. The returned func releases background workers
// started for it and must be called once the server is done.
func Setup(db *gorm.DB, cfg *config.Config, productCache cache.ProductCache) (*gin.Engine, func()) {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))

	router.Static("/uploads", cfg.File.UploadPath)

	customerService := services.NewCustomerService(db)
	productService := services.NewProductService(db, productCache)
	orderService := services.NewOrderService(db)
	fileService := services.NewFileService(db, cfg.File)
	dashboardService := services.NewDashboardService(db)
	searchService := services.NewSearchService(db)

	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Version)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, searchService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService, fileService)
	fileHandler := handlers.NewFileHandler(fileService, cfg)
	adminHandler := handlers.NewAdminHandler(fileService)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)

	api := router.Group("/api")
	api.Use(limiter.Middleware())
	api.Use(middleware.TimeoutMiddleware(cfg.Server.RequestTimeout))
	{
		api.GET("/health", healthHandler.Health)
		api.GET("/dashboard", dashboardHandler.GetDashboard)
		api.GET("/stats", dashboardHandler.GetStats)
		api.GET("/search", dashboardHandler.Search)

		customers := api.Group("/customers")
		{
			customers.GET("", customerHandler.GetCustomers)
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.POST("", productHandler.CreateProduct)
			products.GET("/:id", productHandler.GetProduct)
			products.PUT("/:id", productHandler.UpdateProduct)
			products.DELETE("/:id", productHandler.DeleteProduct)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", orderHandler.GetOrders)
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.PUT("/:id", orderHandler.UpdateOrder)
			orders.DELETE("/:id", orderHandler.DeleteOrder)
			orders.PUT("/:id/status", orderHandler.ChangeStatus)
			orders.GET("/:id/history", orderHandler.GetHistory)
			orders.GET("/:id/files", orderHandler.GetFiles)
		}

		api.POST("/upload", fileHandler.UploadFiles)

		files := api.Group("/files")
		{
			files.GET("/:type/:id", fileHandler.DownloadFile)
			files.DELETE("/:type/:id", fileHandler.DeleteFile)
		}

		admin := api.Group("/admin")
		{
			admin.GET("/files/orphans", adminHandler.GetOrphans)
			admin.POST("/files/prune", adminHandler.PruneOrphans)
		}
	}

	router.NoRoute(noRoute(cfg.Server.PublicDir))

	return router, limiter.Stop
}

// noRoute answers unknown API paths with JSON and everything else with the
// front-end bundle when one is deployed.
func noRoute(publicDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" {
			utils.NotFound(c, "API 엔드포인트를 찾을 수 없습니다.")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			utils.NotFound(c, "")
			return
		}

		if publicDir != "" {
			if file, ok := publicFile(publicDir, path); ok {
				c.File(file)
				return
			}
			index := filepath.Join(publicDir, "index.html")
			if _, err := os.Stat(index); err == nil {
				c.File(index)
				return
			}
		}
		utils.NotFound(c, "")
	}
}

func publicFile(publicDir, urlPath string) (string, bool) {
	clean := filepath.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	file := filepath.Join(publicDir, filepath.FromSlash(clean))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}
