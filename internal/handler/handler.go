package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/shyim/pagespeed-api/internal/analysis"
	"github.com/shyim/pagespeed-api/internal/history"
	"github.com/shyim/pagespeed-api/internal/models"
	"github.com/shyim/pagespeed-api/internal/storage"
	"github.com/shyim/pagespeed-api/internal/utils"
)

const analyzeFailedMessage = "Failed to analyze URL"

// Archive entry names.
const (
	ReportFile = "lighthouse.json"
	ResultFile = "result.json"
)

type Analyzer interface {
	Analyze(ctx context.Context, url string, device models.Device) (*models.AnalysisResult, *models.PageSpeedResponse, error)
}

// Archive is the object storage behind /api/report. storage.Service
// implements it.
type Archive interface {
	UploadFile(ctx context.Context, key, filePath string) error
	DownloadFile(ctx context.Context, key, destinationPath string) error
	DeleteFile(ctx context.Context, key string) error
	GetFile(ctx context.Context, key string) (*storage.Object, error)
}

type Handler struct {
	analyzer Analyzer
	history  *history.Store
	archive  Archive
	cacheDir string
}

// NewHandler wires the request surface. archive may be nil to disable report
// archiving.
func NewHandler(analyzer Analyzer, store *history.Store, archive Archive, cacheDir string) *Handler {
	return &Handler{
		analyzer: analyzer,
		history:  store,
		archive:  archive,
		cacheDir: cacheDir,
	}
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/speed-test", h.HandleAnalyze)
	mux.HandleFunc("GET /api/history", h.HandleListHistory)
	mux.HandleFunc("GET /api/history/{id}", h.HandleGetHistory)
	mux.HandleFunc("DELETE /api/history", h.HandleClearHistory)
	mux.HandleFunc("GET /api/report/{id}", h.HandleGetReport)
	mux.HandleFunc("GET /api/report/{id}/{path...}", h.HandleGetReportFile)
	mux.HandleFunc("DELETE /api/report/{id}", h.HandleDeleteReport)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok")
	})
}

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, "Invalid Request Body", nil, http.StatusBadRequest)
		return
	}

	if err := validatePageURL(req.URL); err != nil {
		renderError(w, "Invalid URL", stringPtr(err.Error()), http.StatusBadRequest)
		return
	}

	if req.Device == "" {
		req.Device = models.DeviceMobile
	}
	if !req.Device.Valid() {
		renderError(w, fmt.Sprintf("Invalid device: %s", req.Device), nil, http.StatusBadRequest)
		return
	}

	slog.Info("Starting PageSpeed analysis", "url", req.URL, "device", req.Device)

	result, raw, err := h.analyzer.Analyze(r.Context(), req.URL, req.Device)
	if err != nil {
		slog.Error("PageSpeed analysis failed", "url", req.URL, "device", req.Device, "error", err)
		if !errors.Is(err, context.Canceled) {
			reportFailure(r.Context(), err)
		}
		renderError(w, analyzeFailedMessage, nil, http.StatusInternalServerError)
		return
	}

	slog.Info("PageSpeed analysis completed", "id", result.ID, "url", req.URL, "performance_score", result.PerformanceScore, "recommendations", len(result.Recommendations))

	h.history.Append(result)

	if h.archive != nil {
		if err := h.archiveResult(r.Context(), result, raw); err != nil {
			slog.Warn("Failed to archive analysis", "id", result.ID, "error", err)
		}
	}

	renderJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, h.history.List(), http.StatusOK)
}

func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	result, ok := h.history.Get(r.PathValue("id"))
	if !ok {
		renderError(w, "Analysis not found", nil, http.StatusNotFound)
		return
	}
	renderJSON(w, result, http.StatusOK)
}

func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	n := h.history.Clear()
	slog.Info("History cleared", "removed", n)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	obj, err := h.archive.GetFile(r.Context(), reportKey(id))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Cache-Control", "public, max-age=604800")
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.zip"`, id))
	if obj.ETag != nil {
		w.Header().Set("ETag", *obj.ETag)
	}
	if obj.LastModified != nil {
		w.Header().Set("Last-Modified", obj.LastModified.UTC().Format(http.TimeFormat))
	}

	io.Copy(w, obj.Body)
}

func (h *Handler) HandleGetReportFile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	path := strings.ReplaceAll(r.PathValue("path"), "\\", "/")
	if path == "" {
		path = ResultFile
	}

	zipPath := h.cachePath(id)
	if _, err := os.Stat(zipPath); os.IsNotExist(err) {
		if err := os.MkdirAll(h.cacheDir, 0755); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if err := h.archive.DownloadFile(r.Context(), reportKey(id), zipPath); err != nil {
			http.NotFound(w, r)
			return
		}
	}

	rc, header, err := utils.OpenArchiveFile(zipPath, path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(header.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=604800")
	w.Header().Set("Last-Modified", header.Modified.UTC().Format(http.TimeFormat))

	io.Copy(w, rc)
}

func (h *Handler) HandleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reportID(w, r)
	if !ok {
		return
	}

	if err := h.archive.DeleteFile(r.Context(), reportKey(id)); err != nil {
		slog.Warn("Failed to delete archived report", "id", id, "error", err)
	}
	os.Remove(h.cachePath(id))

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) archiveResult(ctx context.Context, result *models.AnalysisResult, raw *models.PageSpeedResponse) error {
	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	resultJSON, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	zipPath := filepath.Join(os.TempDir(), fmt.Sprintf("pagespeed-%s.zip", result.ID))
	files := []utils.ArchiveFile{
		{Name: ReportFile, Data: rawJSON, Modified: result.AnalyzedAt},
		{Name: ResultFile, Data: resultJSON, Modified: result.AnalyzedAt},
	}
	if err := utils.CreateArchive(zipPath, files); err != nil {
		return err
	}
	defer os.Remove(zipPath)

	start := time.Now()
	if err := h.archive.UploadFile(ctx, reportKey(result.ID), zipPath); err != nil {
		return err
	}
	slog.Debug("Archived analysis", "id", result.ID, "duration", time.Since(start))
	return nil
}

// reportID validates the id path value and that archiving is enabled.
func (h *Handler) reportID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" || strings.Contains(id, "..") || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return "", false
	}
	if h.archive == nil {
		http.NotFound(w, r)
		return "", false
	}
	return id, true
}

func (h *Handler) cachePath(id string) string {
	return filepath.Join(h.cacheDir, fmt.Sprintf("%s.zip", id))
}

func reportKey(id string) string {
	return fmt.Sprintf("reports/%s/report.zip", id)
}

func validatePageURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func reportFailure(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	kind := "upstream"
	if errors.Is(err, analysis.ErrMalformedResponse) {
		kind = "malformed_response"
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("analysis.failure", kind)
		hub.CaptureException(err)
	})
}

func renderJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func renderError(w http.ResponseWriter, msg string, details *string, status int) {
	renderJSON(w, models.ErrorResponse{
		Error:   msg,
		Details: details,
	}, status)
}

func stringPtr(v string) *string {
	return &v
}
