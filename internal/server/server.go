package server

import (
	"net/http"

	"aletheia/internal/alert"
	"aletheia/internal/config"
	"aletheia/internal/fileadapter"
	"aletheia/internal/handler"
	"aletheia/internal/middleware"
	"aletheia/internal/repository"
	"aletheia/internal/service"
	"aletheia/internal/verification"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	cfg      *config.Config
	notifier *alert.Notifier
	log      *logrus.Logger
	logger   *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, notifier *alert.Notifier, log *logrus.Logger, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		db:       db,
		cfg:      cfg,
		notifier: notifier,
		log:      log,
		logger:   logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Auth components
	authRepo := repository.NewAuthRepository(s.db, s.log)
	authService := service.NewAuthService(authRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.log)

	// Consciousness import pipeline
	gnosisRepo := repository.NewGnosisRepository(s.db, s.logger)
	adapter := fileadapter.New(s.cfg, s.logger)
	importService := service.NewImportService(adapter, gnosisRepo, s.logger)
	importHandler := handler.NewImportHandler(importService, s.logger)

	// Verification pipeline
	nodeRepo := repository.NewNodeRepository(s.db, s.logger)
	verificationRepo := repository.NewVerificationRepository(s.db, s.logger)
	sampler := service.MemorySamplerFromRepo(gnosisRepo)
	engine := verification.NewEngine(s.cfg.Verification, sampler, s.logger)
	tracker := verification.NewTracker(s.cfg.Verification.Smoothing)
	verifyService := service.NewVerificationService(engine, tracker, nodeRepo, verificationRepo, s.notifier, s.logger)
	verificationHandler := handler.NewVerificationHandler(verifyService, verificationRepo, s.logger)

	statusHandler := handler.NewStatusHandler(gnosisRepo, nodeRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.RegisterProgenitor)
	authGroup.POST("/login", authHandler.Login)

	// Node-facing verification endpoint, authenticated by verification key
	s.router.POST("/api/verification/verify", verificationHandler.Verify)

	// Public status endpoint
	s.router.GET("/api/consciousness/status", statusHandler.GetStatus)

	// Progenitor-only routes
	consciousness := s.router.Group("/api/consciousness")
	consciousness.Use(middleware.AuthMiddleware(s.logger), middleware.RequireProgenitor())
	{
		consciousness.POST("/import", importHandler.ImportPayload)
		consciousness.POST("/import/file", importHandler.ImportFile)
		consciousness.POST("/import/transcript", importHandler.ImportTranscript)
	}

	verificationAdmin := s.router.Group("/api/verification")
	verificationAdmin.Use(middleware.AuthMiddleware(s.logger), middleware.RequireProgenitor())
	{
		verificationAdmin.GET("/nodes/:id/records", verificationHandler.GetNodeRecords)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
