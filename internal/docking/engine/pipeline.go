package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/moldock/docking-be/internal/docking/domain"
	"github.com/moldock/docking-be/internal/docking/registry"
)

// Config holds the external tool command names and artifact directories the
// engine needs.
type Config struct {
	VinaExecutable        string
	PrepareReceptorScript string
	PrepareLigandScript   string
	TempDir               string
	ResultsDir            string
}

// Engine drives a docking job from PENDING to a terminal status: workspace
// acquisition, one-time receptor preparation, the sequential per-ligand
// prepare/dock/parse loop, and result aggregation into the registry.
//
// One Run call owns one job for its whole lifetime. Multiple jobs may run
// concurrently, each in its own goroutine with its own workspace; jobs share
// nothing but the registry.
type Engine struct {
	cfg        Config
	registry   *registry.Registry
	workspaces *WorkspaceManager
	runner     ToolRunner
	logger     *slog.Logger
}

// New creates a docking engine.
func New(cfg Config, reg *registry.Registry, runner ToolRunner, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		registry:   reg,
		workspaces: NewWorkspaceManager(cfg.TempDir, logger),
		runner:     runner,
		logger:     logger,
	}
}

// Run processes a docking job to completion. Ligands are processed strictly
// in input order; one failed ligand never sinks the job. Only a receptor
// preparation failure, a workspace failure, or a panic escaping the ligand
// loop marks the job FAILED — COMPLETED means "the job ran to the end", not
// "every ligand succeeded".
func (e *Engine) Run(ctx context.Context, jobID, receptorFile string, ligandFiles []string, params domain.DockingParameters) {
	start := time.Now()
	logger := e.logger.With(slog.String("job_id", jobID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Docking pipeline panicked",
				slog.Any("panic", r),
			)
			e.failJob(jobID, start, len(ligandFiles), fmt.Sprintf("internal error: %v", r))
		}
	}()

	logger.Info("Processing docking job",
		slog.String("receptor", fileStem(receptorFile)),
		slog.Int("total_ligands", len(ligandFiles)),
	)

	receptorName := fileStem(receptorFile)
	if err := e.registry.Update(jobID, func(job *domain.Job) {
		job.Status = domain.JobStatusProcessing
		job.ReceptorName = receptorName
	}); err != nil {
		logger.Warn("Job missing from registry, aborting",
			slog.String("error", err.Error()),
		)
		return
	}

	ws, err := e.workspaces.Acquire(jobID)
	if err != nil {
		logger.Error("Failed to acquire workspace",
			slog.String("error", err.Error()),
		)
		e.failJob(jobID, start, len(ligandFiles), fmt.Sprintf("workspace creation failed: %s", err.Error()))
		return
	}
	defer e.workspaces.Release(ws)

	// The receptor is prepared once and shared read-only by every ligand.
	// Its failure is job-fatal, not ligand-local.
	receptorPDBQT := ws.Path("receptor.pdbqt")
	if _, err := e.runner.Run(ctx, e.cfg.PrepareReceptorScript, "-r", receptorFile, "-o", receptorPDBQT); err != nil {
		logger.Error("Receptor preparation failed",
			slog.String("error", err.Error()),
		)
		e.failJob(jobID, start, len(ligandFiles), fmt.Sprintf("receptor preparation failed: %s", err.Error()))
		return
	}

	for _, ligandFile := range ligandFiles {
		result, err := e.dockLigand(ctx, ws, receptorPDBQT, ligandFile, params)
		if err != nil {
			logger.Error("Ligand docking failed",
				slog.String("ligand", fileStem(ligandFile)),
				slog.String("error", err.Error()),
			)
			// Update only fails when the job was deleted mid-run; here and
			// below there is nothing left to record in that case.
			_ = e.registry.Update(jobID, func(job *domain.Job) {
				job.FailedDocks++
			})
			continue
		}

		// The workspace copy of the poses disappears at release; keep a
		// durable copy so the download endpoint has something to serve.
		if kept, err := e.keepPose(jobID, result.PoseFile); err != nil {
			logger.Warn("Failed to keep pose file",
				slog.String("ligand", result.LigandName),
				slog.String("error", err.Error()),
			)
		} else {
			result.PoseFile = kept
		}

		_ = e.registry.Update(jobID, func(job *domain.Job) {
			job.LigandResults = append(job.LigandResults, *result)
			job.SuccessfulDocks++
		})
	}

	now := time.Now()
	var successful, failed int
	_ = e.registry.Update(jobID, func(job *domain.Job) {
		job.Status = domain.JobStatusCompleted
		job.ProcessingTime = now.Sub(start).Seconds()
		job.CompletedAt = &now
		successful = job.SuccessfulDocks
		failed = job.FailedDocks
	})

	logger.Info("Docking job completed",
		slog.Int("successful_docks", successful),
		slog.Int("failed_docks", failed),
		slog.Duration("duration", now.Sub(start)),
	)
}

// failJob moves the job to FAILED with a hard-abort accounting: no successful
// docks, every ligand counted as failed, no result entries.
func (e *Engine) failJob(jobID string, start time.Time, totalLigands int, message string) {
	now := time.Now()
	_ = e.registry.Update(jobID, func(job *domain.Job) {
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = message
		job.LigandResults = nil
		job.SuccessfulDocks = 0
		job.FailedDocks = totalLigands
		job.ProcessingTime = now.Sub(start).Seconds()
		job.CompletedAt = &now
	})
}

// keepPose copies a pose file out of the workspace into the job's results
// directory and returns the durable path.
func (e *Engine) keepPose(jobID, posePath string) (string, error) {
	data, err := os.ReadFile(posePath)
	if err != nil {
		return "", fmt.Errorf("failed to read pose file: %w", err)
	}

	dir := filepath.Join(e.cfg.ResultsDir, jobID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	dst := filepath.Join(dir, filepath.Base(posePath))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write pose file: %w", err)
	}

	return dst, nil
}
