// Package api exposes the accounts and data quality services over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"datahealth/app"
	"datahealth/internal/config"
	"datahealth/internal/logger"
	"datahealth/models"
)

// Accounts is the account surface the API needs
type Accounts interface {
	Signup(ctx context.Context, name, email, password string) (*app.Session, error)
	Login(ctx context.Context, email, password string) (*app.Session, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Datasets is the data quality surface the API needs
type Datasets interface {
	Upload(ctx context.Context, userID uuid.UUID, filename string, content []byte) (*models.Dataset, error)
	ListDatasets(ctx context.Context, userID uuid.UUID) ([]*models.Dataset, error)
	Analyze(ctx context.Context, userID, datasetID uuid.UUID) (*models.AnalysisResult, error)
	RenderReport(ctx context.Context, userID, reportID uuid.UUID) (*app.RenderedReport, error)
	DeleteDataset(ctx context.Context, userID, datasetID uuid.UUID) error
}

// Server handles HTTP requests for the API
type Server struct {
	router      *gin.Engine
	http        *http.Server
	accounts    Accounts
	datasets    Datasets
	uploads     *uploadLimiter
	maxUpload   int64
	corsOrigins []string
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, storage config.StorageConfig, accounts Accounts, datasets Datasets) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	perMinute := cfg.UploadRatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	s := &Server{
		router:      gin.New(),
		accounts:    accounts,
		datasets:    datasets,
		uploads:     newUploadLimiter(perMinute),
		maxUpload:   int64(storage.MaxUploadMB) << 20,
		corsOrigins: cfg.CORSOrigins,
	}
	s.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), requestLogger(), cors(s.corsOrigins))

	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", s.handleSignup)
	authGroup.POST("/login", s.handleLogin)
	authGroup.GET("/me", s.requireAuth(), s.handleMe)

	protected := api.Group("", s.requireAuth())
	protected.POST("/datasets/upload", s.rateLimited(), s.handleUpload)
	protected.GET("/datasets", s.handleListDatasets)
	protected.GET("/datasets/:id/analyze", s.handleAnalyze)
	protected.DELETE("/datasets/:id", s.handleDeleteDataset)
	protected.GET("/reports/:id/download", s.handleDownloadReport)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	logger.Component("API").Infof("listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
