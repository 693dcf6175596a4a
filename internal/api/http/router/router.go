package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brlima/auth-gateway/internal/api/http/handler"
	"github.com/brlima/auth-gateway/internal/api/http/middleware"
	"github.com/brlima/auth-gateway/internal/logger"
)

// New assembles the gin engine: recovery, CORS, request logging and
// metrics middleware, then the auth and operational routes.
func New(
	auth *handler.Auth,
	health *handler.Health,
	registry *prometheus.Registry,
	log *logger.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.Logging(log))
	engine.Use(middleware.Metrics())

	engine.GET("/", handler.Root)
	engine.GET("/health", health.Check)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	engine.POST("/login", auth.Login)
	engine.POST("/signup", auth.Signup)
	engine.POST("/confirm-signup", auth.ConfirmSignup)
	engine.POST("/resend-confirmation-code", auth.ResendConfirmationCode)
	engine.POST("/forgot-password", auth.ForgotPassword)
	engine.POST("/confirm-forgot-password", auth.ConfirmForgotPassword)
	engine.POST("/logout", auth.Logout)

	return engine
}
