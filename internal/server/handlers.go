package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanshika/ringtrace/backend/internal/ingest"
	"github.com/vanshika/ringtrace/backend/internal/report"
	"github.com/vanshika/ringtrace/backend/internal/service"
)

// maxUploadBytes bounds the size of an uploaded CSV file.
const maxUploadBytes = 32 << 20

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.AnalysisService
	metrics *Metrics
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.AnalysisService, metrics *Metrics) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
		metrics: metrics,
	}
}

func (h *APIHandlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with a 'file' field")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing 'file' field in upload")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		writeError(w, http.StatusBadRequest, "only .csv files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "error", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	result, stats, err := h.service.AnalyzeCSV(r.Context(), data)
	if err != nil {
		h.observe("analyze", "error", start)
		var missing *ingest.MissingColumnError
		switch {
		case errors.As(err, &missing):
			writeError(w, http.StatusBadRequest, missing.Error())
		case errors.Is(err, service.ErrNoValidRows):
			respondJSON(w, http.StatusUnprocessableEntity, analyzeErrorResponse{
				Error:  "no valid transactions in upload",
				Ingest: toIngestResponse(stats),
			})
		default:
			h.logger.Error("analysis failed", "error", err, "filename", header.Filename)
			writeError(w, http.StatusInternalServerError, "analysis failed")
		}
		return
	}

	h.observe("analyze", "ok", start)
	respondJSON(w, http.StatusOK, analyzeResponse{
		Report: result,
		Ingest: toIngestResponse(stats),
	})
}

func (h *APIHandlers) handleAnalyzeSample(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	start := time.Now()
	result, err := h.service.AnalyzeSample(r.Context())
	if err != nil {
		h.observe("sample", "error", start)
		h.logger.Error("sample analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "sample analysis failed")
		return
	}

	h.observe("sample", "ok", start)
	respondJSON(w, http.StatusOK, analyzeResponse{Report: result})
}

func (h *APIHandlers) handleReportDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/reports/")
	id := strings.TrimSuffix(rest, "/download")
	id = strings.Trim(id, "/")
	if id == "" || id == rest {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	result, ok := h.service.Report(id)
	if !ok {
		writeError(w, http.StatusNotFound, "report not found or expired")
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "fraud_report_"+id+".json"))
	respondJSON(w, http.StatusOK, result)
}

func (h *APIHandlers) observe(endpoint, outcome string, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveAnalysis(endpoint, outcome, time.Since(start))
}

// --- Request & Response DTOs ---

type analyzeResponse struct {
	report.Report
	Ingest *ingestResponse `json:"ingest,omitempty"`
}

type analyzeErrorResponse struct {
	Error  string          `json:"error"`
	Ingest *ingestResponse `json:"ingest,omitempty"`
}

type ingestResponse struct {
	Accepted int      `json:"accepted"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func toIngestResponse(stats service.IngestStats) *ingestResponse {
	return &ingestResponse{
		Accepted: stats.Accepted,
		Skipped:  stats.Skipped,
		Errors:   stats.Errors,
	}
}

// --- Helpers ---

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
