package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabscope/internal/config"
	"tabscope/internal/container"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Analysis: config.AnalysisConfig{
			EnableCharts:        true,
			MinRowsForCharts:    10,
			SampleCeiling:       10000,
			InsightFastPathRows: 5000,
			QueryRowCap:         50,
		},
		Paths: config.PathConfig{WorkDir: t.TempDir()},
	}
	deps, err := container.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { deps.Close() })
	return NewServer(deps)
}

func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func salesCSV() string {
	var b strings.Builder
	b.WriteString("date,product,sales\n")
	rows := []string{
		"2024-01-01,Widget,100", "2024-01-02,Gadget,250", "2024-01-03,Widget,80",
		"2024-01-04,Gizmo,300", "2024-01-05,Widget,120", "2024-01-06,Gadget,90",
		"2024-01-07,Gizmo,210", "2024-01-08,Widget,130", "2024-01-09,Gadget,95",
		"2024-01-10,Widget,105", "2024-01-11,Gizmo,280", "2024-01-12,Widget,115",
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n")
	return b.String()
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(t)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestAnalysisBeforeAnyRun(t *testing.T) {
	srv := testServer(t)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAskBeforeAnalyze(t *testing.T) {
	srv := testServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"question":"how many rows"}`))
	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	srv := testServer(t)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{}`))
	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAnalyzeThenAsk(t *testing.T) {
	srv := testServer(t)

	body, contentType := multipartCSV(t, "sales.csv", salesCSV())
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var rec struct {
		RunID  string `json:"run_id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "completed", rec.Status)
	assert.NotEmpty(t, rec.RunID)

	// The record is now retrievable.
	rr = httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/analysis", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	// And questions resolve against it.
	rr = httptest.NewRecorder()
	askReq := httptest.NewRequest(http.MethodPost, "/api/ask",
		strings.NewReader(`{"question":"how many rows are there"}`))
	srv.Router().ServeHTTP(rr, askReq)
	require.Equal(t, http.StatusOK, rr.Code)

	var answer struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &answer))
	assert.NotEmpty(t, answer.Answer)
	assert.Contains(t, answer.Answer, "12")
}

func TestAnalyzeInvalidUpload(t *testing.T) {
	srv := testServer(t)

	body, contentType := multipartCSV(t, "tiny.csv", "a,b\n1,2\n")
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "file needs at least 2 data rows")
}

func TestAnalyzeWithoutFileField(t *testing.T) {
	srv := testServer(t)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
