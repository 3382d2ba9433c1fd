package handlers

import (
	"net/http"

	"pokemon_portal/internal/logger"
	"pokemon_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies. allowedOrigins
// restricts browser WebSocket handshakes; requests without Origin are accepted.
func NewHandler(services *service.Service, log *logger.Logger, allowedOrigins ...string) *Handler {
	h := &Handler{services: services, log: log}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerPokemonRoutes(router)

	// The gateway authenticates the handshake itself.
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.userIdentity, h.me)
	}
}

func (h *Handler) registerPokemonRoutes(r *gin.Engine) {
	pokemon := r.Group("/pokemon", h.userIdentity)
	{
		pokemon.GET("", h.listSprites)
		pokemon.POST("", h.createSprite)
		pokemon.GET("/random", h.randomSprite)
		pokemon.GET("/events", h.getEvents)
		pokemon.DELETE("/all", h.deleteAllSprites)
		pokemon.GET("/:id", h.getSprite)
		pokemon.PUT("/:id", h.updateSprite)
		pokemon.DELETE("/:id", h.deleteSprite)
	}
}

// @Summary  Health check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
