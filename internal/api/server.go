// Package api exposes the analysis engine over HTTP. Reports are persisted
// through the storage layer and progress is streamed to websocket clients.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ringwatch/ringwatch/internal/engine"
	"github.com/ringwatch/ringwatch/internal/ingest"
	"github.com/ringwatch/ringwatch/internal/model"
	"github.com/ringwatch/ringwatch/internal/storage"
)

// Server wires the engine, store and websocket hub behind a gin router.
type Server struct {
	store  storage.Store
	buffer *ingest.Buffer
	hub    *Hub
	logger zerolog.Logger
}

func NewServer(store storage.Store, buffer *ingest.Buffer, hub *Hub, logger zerolog.Logger) *Server {
	return &Server{store: store, buffer: buffer, hub: hub, logger: logger}
}

// Router builds the gin engine with CORS and the /api/v1 routes.
func (s *Server) Router(allowedOrigins string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(allowedOrigins))

	api := r.Group("/api/v1")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.GET("/reports", s.handleListReports)
		api.GET("/reports/:id", s.handleGetReport)
		api.GET("/health", s.handleHealth)
		api.GET("/stream", s.hub.Subscribe)
	}
	return r
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// analyzeRequest is the POST /analyze body. Events are optional: when
// omitted the current ingest buffer is analyzed instead.
type analyzeRequest struct {
	Events   []model.Event   `json:"events"`
	Settings *model.Settings `json:"settings"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	events := req.Events
	if len(events) == 0 {
		if s.buffer != nil {
			events = s.buffer.Snapshot()
		}
		if len(events) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no events provided and ingest buffer is empty"})
			return
		}
	}
	for i := range events {
		events[i].TimeValid = !events[i].Timestamp.IsZero()
	}

	settings := model.DefaultSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	result := engine.Analyze(events, settings, s.progressFunc())
	report := storage.NewReport(result)
	if err := s.store.SaveReport(c.Request.Context(), report); err != nil {
		s.logger.Error().Err(err).Msg("failed to save report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
		return
	}

	s.notifyReport(report)
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListReports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	summaries, err := s.store.ListReports(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list reports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

func (s *Server) handleGetReport(c *gin.Context) {
	report, err := s.store.GetReport(c.Request.Context(), c.Param("id"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load report")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHealth(c *gin.Context) {
	buffered := 0
	if s.buffer != nil {
		buffered = s.buffer.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"buffered": buffered,
	})
}

// progressFunc broadcasts stage transitions to websocket subscribers.
func (s *Server) progressFunc() model.ProgressFunc {
	if s.hub == nil {
		return nil
	}
	return func(stage model.Stage, pct int) {
		payload, err := json.Marshal(gin.H{
			"type":    "progress",
			"stage":   stage,
			"percent": pct,
		})
		if err != nil {
			return
		}
		s.hub.Broadcast(payload)
	}
}

func (s *Server) notifyReport(report *storage.Report) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(gin.H{
		"type":     "report",
		"id":       report.ID,
		"actors":   report.Actors,
		"clusters": report.Clusters,
		"waves":    report.Waves,
		"flagged":  report.Flagged,
	})
	if err != nil {
		return
	}
	s.hub.Broadcast(payload)
}
