package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rezonia/cfdi-processor/internal/logger"
	"github.com/rezonia/cfdi-processor/internal/model"
	"github.com/rezonia/cfdi-processor/internal/processor"
	"github.com/rezonia/cfdi-processor/internal/validator"
)

const (
	requestTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
	Strict       bool
	Concurrency  int
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *processor.Pipeline
	log      *logger.Logger
}

// NewServer creates a new API server. A nil log discards output.
func NewServer(config *Config, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))
	if config.MaxBodyBytes > 0 {
		router.Use(limitBody(config.MaxBodyBytes))
	}

	s := &Server{
		config: config,
		router: router,
		pipeline: processor.NewPipeline(
			processor.WithLogger(log),
			processor.WithConcurrency(config.Concurrency),
		),
		log: log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/parse", s.handleParse)
		v1.POST("/summary", s.handleSummary)
		v1.POST("/validate", s.handleValidate)
		v1.POST("/info", s.handleInfo)
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("address", s.config.Address).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleParse(c *gin.Context) {
	result, ok := s.process(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ParseResponse{
		Version:     string(result.Version),
		Comprobante: result.Comprobante,
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	result, ok := s.process(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, result.Datos)
}

func (s *Server) handleValidate(c *gin.Context) {
	result, ok := s.process(c)
	if !ok {
		return
	}

	strict := s.config.Strict
	if q := c.Query("strict"); q != "" {
		if v, err := strconv.ParseBool(q); err == nil {
			strict = v
		}
	}

	v := validator.Validate(result.Comprobante, validator.Options{Strict: strict})
	errs, warnings := v.Messages()

	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    v.Valid,
		Version:  string(result.Version),
		UUID:     result.Comprobante.UUID(),
		Errors:   errs,
		Warnings: warnings,
	})
}

func (s *Server) handleInfo(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}

	resp := InfoResponse{
		Format: processor.DetectFormat(body).String(),
		Size:   len(body),
	}

	if version, err := s.pipeline.DetectVersion(body); err != nil {
		resp.Error = err.Error()
	} else {
		resp.Version = string(version)
		if result := s.pipeline.ProcessXMLBytes(c.Request.Context(), body); result.Error == nil {
			resp.Stamped = result.Comprobante.Stamped()
			resp.UUID = result.Comprobante.UUID()
		} else {
			resp.Error = result.Error.Error()
		}
	}

	c.JSON(http.StatusOK, resp)
}

// process reads the body and runs it through the pipeline, writing the
// error response itself when anything fails
func (s *Server) process(c *gin.Context) (*processor.Result, bool) {
	body, ok := readBody(c)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	result := s.pipeline.ProcessXMLBytes(ctx, body)
	if result.Error != nil {
		c.JSON(http.StatusUnprocessableEntity, newErrorResponse(result.Error))
		return nil, false
	}
	return result, true
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return nil, false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return nil, false
	}
	return body, true
}

func newErrorResponse(err error) ErrorResponse {
	resp := ErrorResponse{Error: err.Error()}

	var pe *model.ParseError
	if errors.As(err, &pe) {
		resp.Kind = string(pe.Kind)
		resp.Element = pe.Element
		resp.Attribute = pe.Attribute
		resp.Reason = string(pe.Reason)
	}
	return resp
}
