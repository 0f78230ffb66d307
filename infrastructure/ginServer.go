package infrastructure

import (
	"fmt"
	"os"
	"time"

	apperrors "cloverlink.io/application/appErrors"
	"cloverlink.io/application/controller"
	"cloverlink.io/application/interfaces"
	"cloverlink.io/infrastructure/logger"
	middlewares "cloverlink.io/infrastructure/middleware"
	ratelimit "cloverlink.io/infrastructure/ratelimit"
	routev1 "cloverlink.io/infrastructure/routes/ginRouter/web/v1"
	startup "cloverlink.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

type ginServer struct{}

func (s *ginServer) Start() {
	err := godotenv.Load()

	if err != nil {
		logger.Info("error loading env variables")
	}

	startup.StartServices()
	defer startup.CleanUpServices()

	server := gin.Default()
	origins := []string{}
	if os.Getenv("GIN_MODE") == "release" {
		origins = append(origins, os.Getenv("ALLOWED_ORIGIN"))
	} else {
		origins = append(origins, "http://localhost:8000")
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.Use(ratelimit.TokenBucketPerIP())
	server.Use(middlewares.UserAgentMiddleware())

	router := server.Group("")
	{
		routev1.AuthRouter(router)
		routev1.PaymentRouter(router)
	}

	server.GET("/health", func(ctx *gin.Context) {
		controller.HealthCheck(&interfaces.ApplicationContext[any]{
			Ctx: ctx,
		})
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	logger.Info(fmt.Sprintf("Server starting on PORT %s", port))
	server.Run(fmt.Sprintf(":%s", port))
}
