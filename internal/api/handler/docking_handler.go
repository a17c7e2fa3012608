package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moldock/docking-be/internal/api/dto"
	"github.com/moldock/docking-be/internal/docking/domain"
)

// SubmitDocking handles POST /api/v1/docking/submit.
// Saves the uploaded receptor and ligand files, records a PENDING job and
// launches the docking pipeline in the background. The response carries the
// job ID used by status polling.
func (h *DockingHandler) SubmitDocking(c *gin.Context) {
	var params dto.DockingParamsForm
	if err := c.ShouldBind(&params); err != nil {
		h.logger.Error("Invalid docking parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid docking parameters",
		})
		return
	}

	receptor, err := c.FormFile("receptor")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "receptor file is required",
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid multipart form",
		})
		return
	}

	ligands := form.File["ligands"]
	if len(ligands) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "at least one ligand file is required",
		})
		return
	}

	for _, file := range append([]*multipart.FileHeader{receptor}, ligands...) {
		if !h.allowedExtension(file.Filename) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("invalid file format: %s (allowed: %s)", file.Filename, strings.Join(h.cfg.AllowedExtensions, ", ")),
			})
			return
		}
		if file.Size > h.cfg.MaxFileSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("file too large: %s", file.Filename),
			})
			return
		}
	}

	jobID := uuid.New().String()
	jobDir := filepath.Join(h.cfg.UploadDir, jobID)

	receptorPath := filepath.Join(jobDir, filepath.Base(receptor.Filename))
	if err := c.SaveUploadedFile(receptor, receptorPath); err != nil {
		h.failSubmission(c, jobDir, "Failed to save receptor file", err)
		return
	}

	// Ligand order in the form is the order the pipeline processes them in.
	ligandPaths := make([]string, 0, len(ligands))
	for _, ligand := range ligands {
		ligandPath := filepath.Join(jobDir, filepath.Base(ligand.Filename))
		if err := c.SaveUploadedFile(ligand, ligandPath); err != nil {
			h.failSubmission(c, jobDir, "Failed to save ligand file", err)
			return
		}
		ligandPaths = append(ligandPaths, ligandPath)
	}

	job := &domain.Job{
		JobID:        jobID,
		Status:       domain.JobStatusPending,
		ReceptorName: receptor.Filename,
		TotalLigands: len(ligandPaths),
		CreatedAt:    time.Now(),
	}
	h.registry.Put(job)

	dockingParams := domain.DockingParameters{
		CenterX:        params.CenterX,
		CenterY:        params.CenterY,
		CenterZ:        params.CenterZ,
		SizeX:          params.SizeX,
		SizeY:          params.SizeY,
		SizeZ:          params.SizeZ,
		Exhaustiveness: params.Exhaustiveness,
		NumModes:       params.NumModes,
	}

	// Fire-and-forget: the pipeline owns the job from here on. The request
	// context dies with this response, so the pipeline gets its own.
	go h.engine.Run(context.Background(), jobID, receptorPath, ligandPaths, dockingParams)

	h.logger.Info("Docking job submitted",
		slog.String("job_id", jobID),
		slog.String("receptor", receptor.Filename),
		slog.Int("total_ligands", len(ligandPaths)),
	)

	c.JSON(http.StatusOK, dto.SubmitJobResponse{
		JobID:   jobID,
		Status:  domain.JobStatusPending,
		Message: "Docking job submitted successfully. Use the job ID to check status.",
	})
}

// GetDockingStatus handles GET /api/v1/docking/status/:job_id.
// Returns the current snapshot of the job record.
func (h *DockingHandler) GetDockingStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.registry.Get(jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to get job", slog.String("job_id", jobID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get job",
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DownloadResults handles GET /api/v1/docking/results/:job_id.
// Serves the top-ranked pose file of a completed job.
func (h *DockingHandler) DownloadResults(c *gin.Context) {
	jobID := c.Param("job_id")

	job, err := h.registry.Get(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Job not found",
		})
		return
	}

	if job.Status != domain.JobStatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Job not completed yet",
		})
		return
	}

	for _, result := range job.LigandResults {
		if result.PoseFile == "" {
			continue
		}
		if _, err := os.Stat(result.PoseFile); err != nil {
			continue
		}
		c.FileAttachment(result.PoseFile, fmt.Sprintf("%s_results.pdbqt", jobID))
		return
	}

	c.JSON(http.StatusNotFound, gin.H{
		"error": "No result files found",
	})
}

// DeleteJob handles DELETE /api/v1/docking/job/:job_id.
// Removes the job record and its on-disk upload/result artifacts.
func (h *DockingHandler) DeleteJob(c *gin.Context) {
	jobID := c.Param("job_id")

	if err := h.registry.Delete(jobID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Job not found",
		})
		return
	}

	for _, dir := range []string{
		filepath.Join(h.cfg.UploadDir, jobID),
		filepath.Join(h.cfg.ResultsDir, jobID),
	} {
		if err := os.RemoveAll(dir); err != nil {
			h.logger.Warn("Failed to remove job artifacts",
				slog.String("job_id", jobID),
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
		}
	}

	h.logger.Info("Docking job deleted", slog.String("job_id", jobID))

	c.JSON(http.StatusOK, gin.H{
		"message": "Job deleted successfully",
	})
}

// allowedExtension reports whether the filename carries one of the configured
// structure-file extensions.
func (h *DockingHandler) allowedExtension(filename string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, allowed := range h.cfg.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// failSubmission cleans up a half-written upload directory and reports a 500.
func (h *DockingHandler) failSubmission(c *gin.Context, jobDir, message string, err error) {
	h.logger.Error(message, slog.String("error", err.Error()))

	if rmErr := os.RemoveAll(jobDir); rmErr != nil {
		h.logger.Warn("Failed to clean up upload directory",
			slog.String("dir", jobDir),
			slog.String("error", rmErr.Error()),
		)
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": message,
	})
}
