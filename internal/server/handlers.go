package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/taxonomist/internal/common"
	"github.com/Veraticus/taxonomist/internal/config"
	"github.com/gin-gonic/gin"
)

// APIError is the error body.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleClassify(c *gin.Context) {
	opts, err := config.ClassifyOptionsFrom(s.source(c, config.ClassifyQueryParams))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_parameter", err)
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	report, err := s.engine.Classify(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleBackfill(c *gin.Context) {
	opts, err := config.BackfillOptionsFrom(s.source(c, config.BackfillQueryParams))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_parameter", err)
		return
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	report, err := s.engine.BackfillSubcategories(c.Request.Context(), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, report)
		return
	}
	c.JSON(http.StatusOK, report)
}

// handleWatch redirects to the stored page URL, falling back to the media URL.
func (s *Server) handleWatch(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Query("id")), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "Bad request")
		return
	}

	video, err := s.store.GetVideo(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		common.LogError(err, "failed to load video", common.Fields{"video_id": id})
		c.String(http.StatusInternalServerError, "Internal error")
		return
	}

	target := video.WatchURL()
	if target == "" {
		c.String(http.StatusNotFound, "No watch URL stored for this video.")
		return
	}
	c.Redirect(http.StatusFound, target)
}

func (s *Server) handleIngest(c *gin.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	report, err := s.ingester.Run(c.Request.Context())
	if report != nil && s.metrics != nil {
		s.metrics.RecordIngest(report.Inserted, report.Filled, report.Failed)
	}
	if err != nil {
		if report == nil {
			respondError(c, http.StatusInternalServerError, "storage_failure", err)
			return
		}
		c.JSON(http.StatusInternalServerError, report)
		return
	}
	c.JSON(http.StatusOK, report)
}
