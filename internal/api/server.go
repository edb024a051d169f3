// Package api exposes the lecture-processing pipeline over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studyflow-ai/studyflow/internal/config"
	"github.com/studyflow-ai/studyflow/internal/domain"
	"github.com/studyflow-ai/studyflow/internal/logger"
	"github.com/studyflow-ai/studyflow/internal/pipeline"
	"github.com/studyflow-ai/studyflow/internal/questions"
	"github.com/studyflow-ai/studyflow/internal/store"
)

// Processor runs one lecture-processing request.
type Processor interface {
	Process(ctx context.Context, req pipeline.Request) (domain.LectureResult, int, error)
}

// Server holds the HTTP surface around the pipeline.
type Server struct {
	cfg       *config.Config
	processor Processor
	store     *store.Store
	logger    logger.Logger
	engine    *gin.Engine
}

type errorResponse struct {
	Message string `json:"message"`
}

// NewServer builds the gin engine with all routes and middleware registered.
func NewServer(cfg *config.Config, proc Processor, st *store.Store, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:       cfg,
		processor: proc,
		store:     st,
		logger:    log,
		engine:    gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestID(), s.requestLog())

	s.engine.GET("/healthz", s.handleHealth)
	apiGroup := s.engine.Group("/api")
	apiGroup.POST("/process-audio", s.handleProcessAudio)
	apiGroup.GET("/results/:id", s.handleGetResult)

	return s
}

// Handler returns the root http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// requestID attaches a request identifier to the context and response.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.logger.Info(c.Request.Context(), "%s %s -> %d", c.Request.Method, c.Request.URL.Path, c.Writer.Status())
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleProcessAudio accepts a multipart upload with field "audio" plus
// optional "mode" and "marksList" fields, runs the pipeline and returns the
// aggregated result.
func (s *Server) handleProcessAudio(c *gin.Context) {
	ctx := c.Request.Context()
	maxBytes := int64(s.cfg.Server.MaxUploadMB) << 20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		if isTooLarge(err) {
			s.respondTooLarge(c)
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse{Message: domain.ErrNoFileProvided.Error()})
		return
	}
	defer file.Close()

	audioPath, err := s.saveUpload(file, header.Filename)
	if err != nil {
		if isTooLarge(err) {
			s.respondTooLarge(c)
			return
		}
		s.logger.Error(ctx, "Saving upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to store uploaded audio"})
		return
	}
	defer os.Remove(audioPath)

	req := pipeline.Request{
		AudioPath: audioPath,
		Mode:      c.PostForm("mode"),
		Marks:     s.parseMarks(ctx, c.PostForm("marksList")),
	}

	result, id, err := s.processor.Process(ctx, req)
	if err != nil {
		s.respondPipelineError(c, err)
		return
	}

	c.Header("X-Result-ID", strconv.Itoa(id))
	c.JSON(http.StatusOK, result)
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func (s *Server) respondTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, errorResponse{
		Message: "audio file exceeds the " + strconv.Itoa(s.cfg.Server.MaxUploadMB) + "MB upload limit",
	})
}

func (s *Server) handleGetResult(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid result id"})
		return
	}
	result, ok := s.store.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Message: "result not found"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// saveUpload streams the uploaded audio to a temp file, keeping the original
// extension so ffmpeg can infer the container format.
func (s *Server) saveUpload(file io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	tmp, err := os.CreateTemp("", "upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// parseMarks decodes the optional marksList form field (a JSON array of
// positive integers) and validates it against the configured bounds. Invalid
// or absent input falls back to the defaults.
func (s *Server) parseMarks(ctx context.Context, raw string) []int {
	var requested []int
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &requested); err != nil {
			s.logger.Warn(ctx, "Invalid marksList %q, using defaults", raw)
			requested = nil
		}
	}
	return questions.ValidateMarks(requested, s.cfg.Marks)
}

func (s *Server) respondPipelineError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, domain.ErrNoSpeechDetected):
		c.JSON(http.StatusBadRequest, errorResponse{Message: domain.ErrNoSpeechDetected.Error()})
	case errors.Is(err, domain.ErrMediaProbe), errors.Is(err, domain.ErrSegmentation):
		s.logger.Error(ctx, "Audio preparation failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to process the uploaded audio"})
	default:
		s.logger.Error(ctx, "Pipeline failed: %v", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "transcription failed"})
	}
}
