package handlers

import (
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hegel_amplifier/internal/logger"
	"hegel_amplifier/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	h.registerAPIRoutes(router)

	// state stream on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerAmplifierRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerAmplifierRoutes(api *gin.RouterGroup) {
	amp := api.Group("/amplifier")
	{
		amp.GET("/state", h.getState)
		amp.POST("/refresh", h.refresh)

		amp.POST("/power/on", h.powerOn)
		amp.POST("/power/off", h.powerOff)

		amp.POST("/volume/up", h.volumeUp)
		amp.POST("/volume/down", h.volumeDown)
		// Body example: {"level":0.42}
		amp.PUT("/volume", h.setVolume)

		// Body example: {"muted":true}
		amp.PUT("/mute", h.setMute)

		// Body example: {"source":"CD"}
		amp.PUT("/source", h.selectSource)
		amp.POST("/sources/discover", h.discoverSources)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
		logs.GET("/", h.getLogs)
	}
}
