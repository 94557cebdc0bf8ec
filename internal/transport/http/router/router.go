package router

import (
	"github.com/HovVathana/shoppink-backend/config"
	"github.com/HovVathana/shoppink-backend/internal/service"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/handlers"
	"github.com/HovVathana/shoppink-backend/internal/transport/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Services struct {
	Products service.ProductService
	Catalog  service.CatalogService
	Variants service.VariantService
	Stock    service.StockService
	Orders   service.OrderService
	Drivers  service.DriverService
}

func Router(cfg *config.Config, svc Services, log *zap.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	productHandler := handlers.NewProductHandler(svc.Products, log)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog, log)
	variantHandler := handlers.NewVariantHandler(svc.Variants, log)
	stockHandler := handlers.NewStockHandler(svc.Stock, log)
	orderHandler := handlers.NewOrderHandler(svc.Orders, log)
	driverHandler := handlers.NewDriverHandler(svc.Drivers, log)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthRequired(cfg.JWT, log))
	{
		// Один и тот же параметр :productId во всех путях под /products —
		// иначе дерево маршрутов gin паникует на конфликте имён wildcard
		products := api.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:productId", productHandler.Get)
			products.PATCH("/:productId", productHandler.Update)
			products.DELETE("/:productId", productHandler.Delete)
		}

		perProduct := api.Group("/products/:productId")
		{
			perProduct.POST("/option-groups", catalogHandler.CreateGroup)
			perProduct.GET("/option-groups", catalogHandler.ListGroups)

			perProduct.POST("/variants", variantHandler.Create)
			perProduct.GET("/variants", variantHandler.List)
			perProduct.POST("/variants/generate", variantHandler.Generate)
			perProduct.POST("/variants/resolve", variantHandler.Resolve)

			perProduct.GET("/stock/tree", stockHandler.Tree)
			perProduct.GET("/stock/summary", stockHandler.Summary)
		}

		groups := api.Group("/option-groups")
		{
			groups.PATCH("/:groupId", catalogHandler.UpdateGroup)
			groups.DELETE("/:groupId", catalogHandler.DeleteGroup)
			groups.POST("/:groupId/options", catalogHandler.CreateOption)
		}

		options := api.Group("/options")
		{
			options.PATCH("/:id", catalogHandler.UpdateOption)
			options.DELETE("/:id", catalogHandler.DeleteOption)
		}

		variants := api.Group("/variants")
		{
			variants.PUT("/:id/stock", variantHandler.UpdateStock)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/:code", orderHandler.Get)
			orders.POST("/:code/transition", orderHandler.Transition)
			orders.POST("/:code/assign-driver", orderHandler.AssignDriver)
			orders.GET("/:code/stock-validation", orderHandler.ValidateStock)
		}

		drivers := api.Group("/drivers")
		{
			drivers.POST("", driverHandler.Create)
			drivers.GET("", driverHandler.List)
			drivers.GET("/:id", driverHandler.Get)
			drivers.PATCH("/:id", driverHandler.Update)
		}
	}

	return r
}
