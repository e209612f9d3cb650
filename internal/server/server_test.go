package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/darkron008/tipsplit/internal/hub"
	"github.com/darkron008/tipsplit/internal/pipeline"
)

func newTestServer() *Server {
	return New(hub.New(), pipeline.DefaultOptions(), "0")
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestDistributeUpload(t *testing.T) {
	s := newTestServer()

	body, contentType := multipartBody(t, nil, map[string]string{
		"week.csv": "Date,Tips,Hours,Name\n2026-03-14,100.00,30,Alice\n2026-03-14,100.00,10,Bob\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/distribute", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res pipeline.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(res.Result.Shares) != 2 {
		t.Fatalf("expected 2 shares, got %v", res.Result.Shares)
	}
	if res.Result.Shares[0].Amount.String() != "75" {
		t.Errorf("expected Alice 75.00, got %s", res.Result.Shares[0].Amount)
	}
}

func TestDistributeManualColumns(t *testing.T) {
	s := newTestServer()

	fields := map[string]string{
		"auto_detect": "off",
		"date_col":    "A",
		"tips_col":    "B",
		"hours_col":   "C",
		"name_col":    "D",
	}
	body, contentType := multipartBody(t, fields, map[string]string{
		"cryptic.csv": "A,B,C,D\n2026-03-14,100.00,8,Alice\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/distribute", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res pipeline.RunResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors with manual columns, got %v", res.Errors)
	}
	if len(res.Result.Shares) != 1 {
		t.Fatalf("expected 1 share, got %v", res.Result.Shares)
	}
}

func TestDistributeXLSXDownload(t *testing.T) {
	s := newTestServer()

	body, contentType := multipartBody(t, map[string]string{"format": "xlsx"}, map[string]string{
		"week.csv": "Date,Tips,Hours,Name\n2026-03-14,100.00,8,Alice\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/distribute", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != xlsxContentType {
		t.Errorf("expected xlsx content type, got %q", got)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected workbook bytes in response")
	}
}

func TestDistributeNoFiles(t *testing.T) {
	s := newTestServer()

	body, contentType := multipartBody(t, map[string]string{"format": "json"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/distribute", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty upload, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["status"] != "ok" {
		t.Errorf("expected status ok, got %v", payload["status"])
	}
}

func TestStatsCountRuns(t *testing.T) {
	s := newTestServer()

	body, contentType := multipartBody(t, nil, map[string]string{
		"week.csv": "Date,Tips,Hours,Name\n2026-03-14,100.00,8,Alice\n",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/distribute", body)
	req.Header.Set("Content-Type", contentType)
	s.engine.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.Runs != 1 {
		t.Errorf("expected 1 recorded run, got %d", snap.Runs)
	}
	if snap.Shares != 1 {
		t.Errorf("expected 1 recorded share, got %d", snap.Shares)
	}
}
