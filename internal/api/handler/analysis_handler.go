package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go-log-analyzer/internal/model"
	"go-log-analyzer/internal/pipeline"
	"go-log-analyzer/internal/store"
	"go-log-analyzer/pkg/storage"
	"go-log-analyzer/pkg/utils"

	"github.com/google/uuid"
)

// archive is the report archive handlers read from; set once at startup.
var archive storage.Backend

// Init wires the report archive backend into the handlers.
func Init(backend storage.Backend) {
	archive = backend
}

// CreateAnalysis creates a new analysis run
// @Summary Create a new analysis
// @Description Create and start a new analysis run with the provided job spec
// @Tags analyses
// @Accept json
// @Produce json
// @Param analysis body model.AnalysisJobSpec true "Analysis job spec"
// @Success 200 {object} map[string]interface{} "Analysis created successfully"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [post]
func CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var spec model.AnalysisJobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	runID := uuid.New().String()

	if err := store.SaveRun(runID, spec); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	// Run asynchronously; the run-level timeout bounds the whole analysis.
	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.Concurrency.JobTimeout))
	go func() {
		defer cancel()
		if _, err := pipeline.Run(ctx, runID, spec, archive); err != nil {
			store.SaveRunError(runID, err)
		}
	}()

	resp := map[string]interface{}{
		"message":   "Analysis created successfully!",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ListAnalyses retrieves all analysis runs
// @Summary List all analyses
// @Description Get a list of all analysis runs with their current status
// @Tags analyses
// @Produce json
// @Success 200 {array} map[string]interface{} "List of analyses"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [get]
func ListAnalyses(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch analyses", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetAnalysis retrieves a specific analysis run
// @Summary Get analysis
// @Description Retrieve details of a specific analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Analysis details"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id} [get]
func GetAnalysis(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "")
	if !ok {
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	// completed runs carry their report location
	if meta, err := store.GetReportMeta(runID); err == nil {
		run["report"] = meta
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetAnalysisErrors retrieves errors for an analysis run
// @Summary Get analysis errors
// @Description Retrieve all errors recorded for an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Analysis errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/errors [get]
func GetAnalysisErrors(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/errors")
	if !ok {
		return
	}

	errs, err := store.GetRunErrors(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetAnalysisProgress retrieves stage progress for an analysis run
// @Summary Get analysis progress
// @Description Retrieve stage-by-stage progress for an analysis run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Stage progress"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/progress [get]
func GetAnalysisProgress(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/progress")
	if !ok {
		return
	}

	stages, err := store.GetStageProgress(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id": runID,
		"stages": stages,
	})
}

// GetAnalysisReport retrieves the archived report for an analysis run
// @Summary Get analysis report
// @Description Retrieve the archived report document for a completed run
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.Report "Archived report"
// @Failure 404 {object} map[string]interface{} "Report not found"
// @Router /analyses/{id}/report [get]
func GetAnalysisReport(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/report")
	if !ok {
		return
	}

	if archive == nil {
		http.Error(w, "Report archive not configured", http.StatusNotFound)
		return
	}

	report, err := pipeline.LoadArchivedReport(archive, runID)
	if err != nil {
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return
	}
	if report == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// RetryAnalysis re-runs a stored analysis spec
// @Summary Retry analysis
// @Description Re-run a previously submitted analysis with its stored spec
// @Tags analyses
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Retry started"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id}/retry [post]
func RetryAnalysis(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(w, r.URL.Path, "/retry")
	if !ok {
		return
	}

	spec, err := store.GetRunSpec(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	store.UpdateRunStatus(runID, "pending")

	ctx, cancel := context.WithTimeout(context.Background(), utils.ParseDuration(spec.Concurrency.JobTimeout))
	go func() {
		defer cancel()
		if _, err := pipeline.Run(ctx, runID, spec, archive); err != nil {
			store.SaveRunError(runID, err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Retry started",
		"runID":   runID,
		"status":  "pending",
	})
}

// runIDFromPath extracts the run ID between the analyses prefix and the
// given suffix, writing a 400 when the path doesn't fit.
func runIDFromPath(w http.ResponseWriter, path, suffix string) (string, bool) {
	prefix := "/api/v1/analyses/"

	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return "", false
	}

	runID := path[len(prefix) : len(path)-len(suffix)]
	if runID == "" || strings.Contains(runID, "/") {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return "", false
	}
	return runID, true
}
