package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procuredocs/pomatch/internal/common"
	"github.com/procuredocs/pomatch/internal/export"
	"github.com/procuredocs/pomatch/internal/pipeline/matchpair"
	"github.com/procuredocs/pomatch/internal/repository"
)

// Server wires the match pipeline, run store and exports behind an HTTP API.
type Server struct {
	cfg      common.ServerConfig
	pipeline *matchpair.Pipeline
	runs     *repository.MatchRunRepository
	exports  *export.Service
	logger   *slog.Logger
}

func New(cfg common.ServerConfig, p *matchpair.Pipeline, runs *repository.MatchRunRepository, exports *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, pipeline: p, runs: runs, exports: exports, logger: logger}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID)
	r.MaxMultipartMemory = s.cfg.MaxUploadBytes

	r.GET("/healthz", s.health)

	api := r.Group("/api/v1")
	api.POST("/match", s.matchPair)
	api.POST("/extract", s.extractFields)
	api.GET("/runs", s.listRuns)
	api.GET("/runs/:id", s.getRun)
	api.GET("/export", s.exportRuns)

	return r
}

// Run starts the HTTP listener and blocks.
func (s *Server) Run() error {
	s.logger.Info("http server listening", "addr", s.cfg.HTTPAddr)
	return s.Router().Run(s.cfg.HTTPAddr)
}

// requestID attaches a correlation ID to the request context and echoes it in
// the response. Pipeline and store logs carry it through.
func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Request = c.Request.WithContext(common.WithRequestID(c.Request.Context(), id))
	c.Header("X-Request-ID", id)
	c.Next()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}
