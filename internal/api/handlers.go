package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/maltedev/luluka-scraper/internal/export"
	"github.com/maltedev/luluka-scraper/internal/jobs"
)

type Handlers struct {
	jobs      *jobs.Manager
	exportDir string
	logger    *slog.Logger
}

func NewHandlers(jobManager *jobs.Manager, exportDir string, logger *slog.Logger) *Handlers {
	return &Handlers{
		jobs:      jobManager,
		exportDir: exportDir,
		logger:    logger,
	}
}

// CreateRunResponse represents the run creation response
type CreateRunResponse struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CreateRun handles new scraping run creation
func (h *Handlers) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req jobs.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.UseAuth && (req.Username == "" || req.Password == "") {
		h.respondError(w, http.StatusBadRequest, "username and password are required when use_auth is set")
		return
	}

	if req.MaxProducts < 0 {
		h.respondError(w, http.StatusBadRequest, "max_products must not be negative")
		return
	}

	run, err := h.jobs.CreateRun(req)
	if err != nil {
		h.logger.Error("failed to create run", "error", err)
		h.respondError(w, http.StatusServiceUnavailable, "failed to create run")
		return
	}

	h.respondJSON(w, http.StatusCreated, CreateRunResponse{
		RunID:   run.ID,
		Status:  run.Status,
		Message: "Run created successfully",
	})
}

// GetRun handles run status retrieval
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		h.respondError(w, http.StatusBadRequest, "run ID is required")
		return
	}

	run, err := h.jobs.GetRun(runID)
	if err != nil {
		h.respondError(w, http.StatusNotFound, "run not found")
		return
	}

	h.respondJSON(w, http.StatusOK, run)
}

// ListRuns handles listing all runs
func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.jobs.ListRuns())
}

// GetRunResult returns the three record sets of a completed run as JSON.
func (h *Handlers) GetRunResult(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	result, err := h.jobs.Result(runID)
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// ExportRun writes a completed run as an XLSX workbook and serves it for
// download.
func (h *Handlers) ExportRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")

	result, err := h.jobs.Result(runID)
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := os.MkdirAll(h.exportDir, os.ModePerm); err != nil {
		h.logger.Error("failed to create export directory", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to export run")
		return
	}

	path := filepath.Join(h.exportDir, fmt.Sprintf("luluka_%s.xlsx", runID))
	if err := export.WriteXLSX(result, path); err != nil {
		h.logger.Error("failed to export run", "run", runID, "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to export run")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="Luluka_Scraping_Result.xlsx"`)
	http.ServeFile(w, r, path)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
