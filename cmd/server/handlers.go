// Package main provides the course advisor API server entry point.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartadvisors/course-advisor-go/internal/errors"
	"github.com/smartadvisors/course-advisor-go/internal/logger"
	"github.com/smartadvisors/course-advisor-go/internal/metrics"
	"github.com/smartadvisors/course-advisor-go/internal/recommend"
	"github.com/smartadvisors/course-advisor-go/internal/scoring"
	"github.com/smartadvisors/course-advisor-go/internal/sentrysdk"
	"github.com/smartadvisors/course-advisor-go/internal/transcript"
)

// apiHandler carries the dependencies of the /api endpoints.
type apiHandler struct {
	engine             *recommend.Engine
	log                *logger.Logger
	metrics            *metrics.Metrics
	maxTranscriptBytes int64
}

func newAPIHandler(engine *recommend.Engine, log *logger.Logger, m *metrics.Metrics, maxTranscriptBytes int64) *apiHandler {
	return &apiHandler{
		engine:             engine,
		log:                log.WithModule("api"),
		metrics:            m,
		maxTranscriptBytes: maxTranscriptBytes,
	}
}

// handleRecommendations serves POST /api/recommendations. The multipart form
// carries a required department, an optional completed_courses JSON array, an
// optional preferences JSON object, and an optional transcript file used as a
// fallback course source. Malformed optional fields degrade to empty
// defaults instead of failing the request.
func (h *apiHandler) handleRecommendations(c *gin.Context) {
	start := time.Now()

	department := strings.ToUpper(strings.TrimSpace(c.PostForm("department")))
	if department == "" {
		h.metrics.RecordHTTPError("missing_department", "/api/recommendations")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department required"})
		return
	}

	completed := h.parseCompletedCourses(c)
	prefs := h.parsePreferences(c)

	recs, err := h.engine.Recommend(c.Request.Context(), department, completed, prefs)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			h.metrics.RecordRecommendation(department, "not_found", time.Since(start).Seconds())
			c.JSON(http.StatusNotFound, gin.H{"error": errors.GetUserMessage(err)})
			return
		}
		h.log.WithError(err).WithField("department", department).Error("recommendation pipeline failed")
		sentrysdk.CaptureException(err)
		h.metrics.RecordRecommendation(department, "error", time.Since(start).Seconds())
		h.metrics.RecordHTTPError("internal", "/api/recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not assemble recommendations"})
		return
	}

	h.metrics.RecordRecommendation(department, "success", time.Since(start).Seconds())
	c.JSON(http.StatusOK, gin.H{"success": true, "recommendations": recs})
}

// parseCompletedCourses reads the completed_courses form field, falling back
// to the uploaded transcript when the field is missing, empty, or malformed.
func (h *apiHandler) parseCompletedCourses(c *gin.Context) []string {
	var completed []string

	raw := c.PostForm("completed_courses")
	if raw != "" && raw != "undefined" {
		if err := json.Unmarshal([]byte(raw), &completed); err != nil {
			h.log.WithError(err).Warn("malformed completed_courses field, ignoring")
			completed = nil
		}
	}
	if len(completed) > 0 {
		return completed
	}

	file, err := c.FormFile("transcript")
	if err != nil {
		return nil
	}
	codes, err := h.extractFromUpload(file)
	if err != nil {
		h.log.WithError(err).Warn("transcript fallback failed, proceeding without courses")
		return nil
	}
	return codes
}

// parsePreferences reads the preferences form field. A missing or malformed
// object yields the neutral all-false profile.
func (h *apiHandler) parsePreferences(c *gin.Context) scoring.Preferences {
	var prefs scoring.Preferences
	raw := c.PostForm("preferences")
	if raw == "" {
		return prefs
	}
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		h.log.WithError(err).Warn("malformed preferences field, using neutral profile")
		return scoring.Preferences{}
	}
	return prefs
}

// handleParseTranscript serves POST /api/parse-transcript: extract course
// codes from an uploaded transcript text file.
func (h *apiHandler) handleParseTranscript(c *gin.Context) {
	file, err := c.FormFile("transcript")
	if err != nil {
		h.metrics.RecordTranscriptParse("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if file.Filename == "" {
		h.metrics.RecordTranscriptParse("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if file.Size > h.maxTranscriptBytes {
		h.metrics.RecordTranscriptParse("error")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("transcript exceeds %d bytes", h.maxTranscriptBytes),
		})
		return
	}

	courses, err := h.extractFromUpload(file)
	if err != nil {
		h.log.WithError(err).Error("transcript parse failed")
		h.metrics.RecordTranscriptParse("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not parse transcript"})
		return
	}

	h.metrics.RecordTranscriptParse("success")
	c.JSON(http.StatusOK, gin.H{"success": true, "courses": courses})
}

// extractFromUpload spools the upload into a temp file and runs the course
// extractor over its text. The temp file is removed on every path; removal
// failures are logged, never surfaced.
func (h *apiHandler) extractFromUpload(file *multipart.FileHeader) ([]string, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp("", "transcript-*.txt")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !os.IsNotExist(err) {
			h.log.WithError(err).WithField("path", tmp.Name()).Warn("temp transcript removal failed")
		}
	}()

	if _, err := io.Copy(tmp, io.LimitReader(src, h.maxTranscriptBytes)); err != nil {
		_ = tmp.Close()
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("flush temp file: %w", err)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("read temp file: %w", err)
	}

	return transcript.ExtractCourses(string(data)), nil
}
