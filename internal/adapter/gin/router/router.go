package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"library-service/internal/adapter/gin/handler"
	"library-service/internal/adapter/gin/middleware"
)

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	bookHandler *handler.BookHandler,
	userHandler *handler.UserHandler,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Library lending service")
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "library-service",
		})
	})

	// API documentation
	router.StaticFile("/swagger/library.swagger.json", "./api/swagger/library.swagger.json")
	router.GET("/api-docs/*any", gin.WrapH(httpSwagger.Handler(
		httpSwagger.URL("/swagger/library.swagger.json"),
	)))

	books := router.Group("/books")
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", bookHandler.CreateBook)
		books.GET("/:id", bookHandler.GetBook)
		books.PUT("/:id", bookHandler.UpdateBook)
		books.DELETE("/:id", bookHandler.DeleteBook)
		books.POST("/:id/lend", bookHandler.LendBook)
		books.POST("/:id/return", bookHandler.ReturnBook)
	}

	users := router.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}
