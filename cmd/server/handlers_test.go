package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/smartadvisors/course-advisor-go/internal/config"
	"github.com/smartadvisors/course-advisor-go/internal/logger"
	"github.com/smartadvisors/course-advisor-go/internal/metrics"
	"github.com/smartadvisors/course-advisor-go/internal/professor"
	"github.com/smartadvisors/course-advisor-go/internal/recommend"
	"github.com/smartadvisors/course-advisor-go/internal/storage"
)

func floatPtr(v float64) *float64 { return &v }

func newTestRouter(t *testing.T) (*gin.Engine, *storage.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logger.NewWithWriter("error", io.Discard)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	engine := recommend.NewEngine(db, db, professor.NewResolver(db), log, m)
	api := newAPIHandler(engine, log, m, 1<<20)

	router := gin.New()
	setupRoutes(router, api, db, registry, &config.Config{MetricsUsername: "prometheus"})
	return router, db
}

func seedCSE(t *testing.T, db *storage.DB) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, db.SaveCoursesBatch(ctx, []*storage.Course{
		{Department: "CSE", Code: "CSE 1310", Name: "Intro to Computers", Prerequisites: "none", Position: 0},
		{Department: "CSE", Code: "CSE 2320", Name: "Algorithms", Prerequisites: "CSE 1310", Position: 1},
	}))
	require.NoError(t, db.SaveOffering(ctx, &storage.Offering{
		SubjectID: "CSE", CourseNumber: "2320", Year: 2024, Semester: "Fall",
		Instructors: []string{"Smith, John"}, CourseGPA: floatPtr(3.2),
	}))
	require.NoError(t, db.SaveProfessor(ctx, &storage.Professor{
		Name: "John Smith", Rating: floatPtr(4.0), Difficulty: floatPtr(1.8), Tags: "easy grader",
	}))
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileField != "" {
		part, err := writer.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(fileContent))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func postMultipart(router *gin.Engine, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecommendationsMissingDepartment(t *testing.T) {
	router, _ := newTestRouter(t)

	body, ct := multipartBody(t, map[string]string{}, "", "", "")
	w := postMultipart(router, "/api/recommendations", body, ct)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "Department required", resp["error"])
}

func TestRecommendationsUnknownDepartment(t *testing.T) {
	router, _ := newTestRouter(t)

	body, ct := multipartBody(t, map[string]string{"department": "NOPE"}, "", "", "")
	w := postMultipart(router, "/api/recommendations", body, ct)

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "error")
}

func TestRecommendationsHappyPath(t *testing.T) {
	router, db := newTestRouter(t)
	seedCSE(t, db)

	body, ct := multipartBody(t, map[string]string{
		"department":        "cse",
		"completed_courses": `["CSE 1310"]`,
		"preferences":       `{"easyGrader":true}`,
	}, "", "", "")
	w := postMultipart(router, "/api/recommendations", body, ct)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success         bool `json:"success"`
		Recommendations []struct {
			CourseCode string `json:"courseCode"`
			CourseName string `json:"courseName"`
			Professors []struct {
				Name       string  `json:"name"`
				MatchScore float64 `json:"matchScore"`
				Difficulty string  `json:"difficulty"`
			} `json:"professors"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Recommendations, 1)
	require.Equal(t, "CSE 2320", resp.Recommendations[0].CourseCode)
	require.Len(t, resp.Recommendations[0].Professors, 1)
	require.Equal(t, "Smith, John", resp.Recommendations[0].Professors[0].Name)
	require.Equal(t, "Easy", resp.Recommendations[0].Professors[0].Difficulty)
	// 4.0 + (5.0-1.8)*0.5 + 1.0 = 6.6
	require.InDelta(t, 6.6, resp.Recommendations[0].Professors[0].MatchScore, 1e-9)
}

func TestRecommendationsMalformedOptionalFieldsDegrade(t *testing.T) {
	router, db := newTestRouter(t)
	seedCSE(t, db)

	body, ct := multipartBody(t, map[string]string{
		"department":        "CSE",
		"completed_courses": `{not json`,
		"preferences":       `also not json`,
	}, "", "", "")
	w := postMultipart(router, "/api/recommendations", body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	// Empty completed set means only the intro course is eligible.
	require.Contains(t, w.Body.String(), "CSE 1310")
	require.NotContains(t, w.Body.String(), "CSE 2320")
}

func TestRecommendationsTranscriptFallback(t *testing.T) {
	router, db := newTestRouter(t)
	seedCSE(t, db)

	transcriptText := "CSE 1310 INTRO TO COMPTRS 3.000 3.000 A 12.000\n"
	body, ct := multipartBody(t, map[string]string{"department": "CSE"},
		"transcript", "transcript.txt", transcriptText)
	w := postMultipart(router, "/api/recommendations", body, ct)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "CSE 2320", "transcript courses unlock the next course")
}

func TestParseTranscriptNoFile(t *testing.T) {
	router, _ := newTestRouter(t)

	body, ct := multipartBody(t, map[string]string{}, "", "", "")
	w := postMultipart(router, "/api/parse-transcript", body, ct)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "No file provided")
}

func TestParseTranscriptSuccess(t *testing.T) {
	router, _ := newTestRouter(t)

	text := "CSE 1310 INTRO 3.000 3.000 A 12.000\nMATH 1426 CALC I 4.000 4.000 B 13.320\n"
	body, ct := multipartBody(t, nil, "transcript", "transcript.txt", text)
	w := postMultipart(router, "/api/parse-transcript", body, ct)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool     `json:"success"`
		Courses []string `json:"courses"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, []string{"CSE 1310", "MATH 1426"}, resp.Courses)
}

func TestHealthAndReady(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ready")
}

func TestMetricsEndpointOpenWithoutPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}
