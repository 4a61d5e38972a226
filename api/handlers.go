package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/veridata/go-entity-resolver/config"
	internalerrors "github.com/veridata/go-entity-resolver/internal/errors"
	"github.com/veridata/go-entity-resolver/internal/jobs"
	"github.com/veridata/go-entity-resolver/internal/persistence"
	"github.com/veridata/go-entity-resolver/internal/report"
	"github.com/veridata/go-entity-resolver/internal/resolver"
	"github.com/veridata/go-entity-resolver/model"
	"github.com/veridata/go-entity-resolver/services"
	"github.com/veridata/go-entity-resolver/store"
)

const maxRequestBodySize = 32 << 20 // 32 MB record uploads

// API holds dependencies for API handlers: the configuration, the shared
// reference store, and the run manager for async resolution.
type API struct {
	cfg     config.Config
	refs    *store.ReferenceStore
	runs    *jobs.Manager
	refPath string // gob file for reference set persistence; empty disables it
}

// NewAPI creates a new API handler structure.
func NewAPI(cfg config.Config, refs *store.ReferenceStore, runs *jobs.Manager, refPath string) *API {
	return &API{cfg: cfg, refs: refs, runs: runs, refPath: refPath}
}

// SetupRoutes defines all the API routes for the entity resolver.
func SetupRoutes(router *gin.Engine, apiHandler *API) {
	router.Use(CORSMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBodySize))

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/config", apiHandler.GetConfigHandler)

	// Reference set management
	router.PUT("/reference", apiHandler.ReplaceReferenceHandler)
	router.GET("/reference/stats", apiHandler.GetReferenceStatsHandler)

	// Synchronous resolution
	router.POST("/resolve", apiHandler.ResolveHandler)

	// Background resolution runs
	runRoutes := router.Group("/runs")
	{
		runRoutes.POST("", apiHandler.CreateRunHandler)
		runRoutes.GET("", apiHandler.ListRunsHandler)
		runRoutes.GET("/:runId", apiHandler.GetRunHandler)
		runRoutes.GET("/:runId/results", apiHandler.GetRunResultsHandler)
	}
}

// HealthCheckHandler reports service liveness and reference set size.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"reference_records": api.refs.Len(),
	})
}

// GetConfigHandler returns the active run configuration.
func (api *API) GetConfigHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.cfg)
}

// ResolveRequest is the body of resolution requests: the input records and
// an optional worker count for parallel resolution.
type ResolveRequest struct {
	Records []model.EntityRecord `json:"records"`
	Workers int                  `json:"workers,omitempty"`
}

// ResolveHandler handles synchronous resolution of a batch of input records.
// Request Body: ResolveRequest
func (api *API) ResolveHandler(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(req.Records) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one input record is required")
		return
	}

	svc, err := resolver.NewService(api.cfg, api.refs)
	if err != nil {
		SendInternalError(c, "resolver setup", err)
		return
	}

	result, err := svc.ResolveParallel(c.Request.Context(), req.Records, req.Workers)
	if err != nil {
		SendResolutionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result":  result,
		"summary": report.Summarize(result.Records),
	})
}

// CreateRunHandler starts a background resolution run and returns its ID.
// Request Body: ResolveRequest
func (api *API) CreateRunHandler(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if len(req.Records) == 0 {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "At least one input record is required")
		return
	}

	svc, err := resolver.NewService(api.cfg, api.refs)
	if err != nil {
		SendInternalError(c, "resolver setup", err)
		return
	}

	runID := api.runs.CreateRun(map[string]string{
		"rows": strconv.Itoa(len(req.Records)),
	})

	err = api.runs.ExecuteRun(runID, func(ctx context.Context, run *model.Run) (*services.RunResult, error) {
		api.runs.UpdateRunProgress(runID, 0, len(req.Records), "resolving")
		result, err := svc.ResolveParallel(ctx, req.Records, req.Workers)
		if err != nil {
			return nil, err
		}
		api.runs.UpdateRunProgress(runID, result.Total, result.Total, "done")
		return &result, nil
	})
	if err != nil {
		SendInternalError(c, "run scheduling", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"run_id":  runID,
		"status":  model.RunStatusPending,
		"message": "Resolution run started",
	})
}

// GetRunHandler returns the status of a run by ID.
func (api *API) GetRunHandler(c *gin.Context) {
	runID := c.Param("runId")

	run, err := api.runs.GetRun(runID)
	if err != nil {
		if errors.Is(err, internalerrors.ErrRunNotFound) {
			SendRunNotFoundError(c, runID)
			return
		}
		SendInternalError(c, "run lookup", err)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRunsHandler lists runs, optionally filtered by ?status=.
func (api *API) ListRunsHandler(c *gin.Context) {
	var status *model.RunStatus
	if s := c.Query("status"); s != "" {
		rs := model.RunStatus(s)
		status = &rs
	}
	c.JSON(http.StatusOK, gin.H{"runs": api.runs.ListRuns(status)})
}

// GetRunResultsHandler returns the decision records of a completed run,
// split into decision subsets alongside the full list and summary.
func (api *API) GetRunResultsHandler(c *gin.Context) {
	runID := c.Param("runId")

	result, err := api.runs.Results(runID)
	if err != nil {
		if errors.Is(err, internalerrors.ErrRunNotFound) {
			SendRunNotFoundError(c, runID)
			return
		}
		SendError(c, http.StatusConflict, ErrorCodeInvalidRequest, err.Error())
		return
	}

	matched, needsReview, unmatched := report.Split(result.Records)
	c.JSON(http.StatusOK, gin.H{
		"result":       result,
		"matched":      matched,
		"needs_review": needsReview,
		"unmatched":    unmatched,
		"summary":      report.Summarize(result.Records),
		"qc_summary":   report.QCSummary(result.Records),
	})
}

// ReplaceReferenceHandler swaps in a new reference set.
// Request Body: {"records": [...]}. The new set is persisted when a
// reference gob path is configured.
func (api *API) ReplaceReferenceHandler(c *gin.Context) {
	var req struct {
		Records []model.EntityRecord `json:"records"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	api.refs.Replace(req.Records)

	if api.refPath != "" {
		if err := persistence.SaveGob(api.refPath, api.refs); err != nil {
			SendPersistenceError(c, "reference set save", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Reference set replaced",
		"reference_records": len(req.Records),
	})
}

// GetReferenceStatsHandler reports the size of the loaded reference set.
func (api *API) GetReferenceStatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reference_records": api.refs.Len()})
}

// LoadPersistedReference loads a previously persisted reference set into the
// store. A missing file is not an error; the server starts with an empty set.
func LoadPersistedReference(refPath string, refs *store.ReferenceStore) error {
	if refPath == "" {
		return nil
	}
	err := persistence.LoadGob(refPath, refs)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
