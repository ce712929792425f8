package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundbridge/directorcore/internal/api/websocket"
	"github.com/soundbridge/directorcore/internal/auth"
	"github.com/soundbridge/directorcore/internal/config"
	"github.com/soundbridge/directorcore/internal/interfaces"
	"go.uber.org/zap"
)

type Server struct {
	router      *gin.Engine
	bridge      interfaces.Bridge
	logger      *zap.Logger
	server      *http.Server
	wsHub       *websocket.Hub
	authService *auth.Service
}

func NewServer(cfg *config.Config, bridge interfaces.Bridge, logger *zap.Logger, wsHub *websocket.Hub, authService *auth.Service) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:      gin.New(),
		bridge:      bridge,
		logger:      logger,
		wsHub:       wsHub,
		authService: authService,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("REST server failed", zap.Error(err))
		}
	}()
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down REST API server")
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Middleware
	s.router.Use(gin.Recovery())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(CORSMiddleware())

	// Public routes (no auth required)
	s.router.GET("/health", s.healthCheck)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// ==================== AUTH (PUBLIC) ====================
		v1.POST("/auth/login", s.login)

		// ==================== AMPLIFIER (OPERATOR+) ====================
		amplifier := v1.Group("/amplifier")
		amplifier.Use(s.authService.AuthMiddleware())
		amplifier.Use(auth.RequireRole(auth.RoleOperator))
		{
			amplifier.GET("/status", s.getAmplifierStatus)
			amplifier.GET("/inputs", s.listInputs)
			amplifier.GET("/outputs", s.listOutputs)
		}

		// ==================== OUTPUT CONTROL (OPERATOR+) ====================
		outputs := v1.Group("/outputs")
		outputs.Use(s.authService.AuthMiddleware())
		outputs.Use(auth.RequireRole(auth.RoleOperator))
		{
			outputs.POST("/:id/power", s.setOutputPower)
			outputs.POST("/:id/volume", s.setOutputVolume)
			outputs.POST("/:id/source", s.setOutputSource)
		}

		// ==================== PRESETS ====================
		presetRoutes := v1.Group("/presets")
		presetRoutes.Use(s.authService.AuthMiddleware())
		{
			presetRoutes.GET("", auth.RequireRole(auth.RoleOperator), s.listPresets)
			presetRoutes.POST("/:name/apply", auth.RequireRole(auth.RoleOperator), s.applyPreset)
			presetRoutes.POST("/reload", auth.RequireRole(auth.RoleAdmin), s.reloadPresets)
		}

		// ==================== EVENT LOG (ADMIN ONLY) ====================
		events := v1.Group("/events")
		events.Use(s.authService.AuthMiddleware())
		events.Use(auth.RequireRole(auth.RoleAdmin))
		{
			events.GET("", s.listEvents)
		}

		// ==================== SYSTEM (OPERATOR+) ====================
		system := v1.Group("/system")
		system.Use(s.authService.AuthMiddleware())
		system.Use(auth.RequireRole(auth.RoleOperator))
		{
			system.GET("/status", s.getSystemStatus)
		}

		// ==================== WEBSOCKET (PUBLIC - Auth via first message) ====================
		ws := v1.Group("/ws")
		{
			ws.GET("/live", s.wsLiveConnection)
			ws.GET("/status", s.authService.AuthMiddleware(), auth.RequireRole(auth.RoleOperator), s.wsStatus)
		}
	}
}

// WebSocket handlers
func (s *Server) wsLiveConnection(c *gin.Context) {
	websocket.ServeWs(s.wsHub, c.Writer, c.Request)
}

func (s *Server) wsStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected_clients": s.wsHub.GetClientCount(),
	})
}

// Health check (public)
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// GET /api/v1/system/status
func (s *Server) getSystemStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.bridge.GetCurrentStatus())
}
