package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moldock/docking-be/internal/docking/domain"
)

// dockLigand runs prepare → dock → parse for a single ligand. Its two output
// files (prepared ligand, docked poses) land inside the workspace and nowhere
// else. A failure at any step aborts only this ligand; siblings in the same
// job are unaffected.
func (e *Engine) dockLigand(ctx context.Context, ws *Workspace, receptorPDBQT, ligandFile string, params domain.DockingParameters) (*domain.LigandResult, error) {
	name := fileStem(ligandFile)

	preparedPDBQT := ws.Path(name + ".pdbqt")
	if _, err := e.runner.Run(ctx, e.cfg.PrepareLigandScript, "-l", ligandFile, "-o", preparedPDBQT); err != nil {
		return nil, &domain.LigandDockingError{
			Ligand: name,
			Err:    fmt.Errorf("ligand preparation failed: %w", err),
		}
	}

	posePDBQT := ws.Path(name + "_out.pdbqt")
	out, err := e.runner.Run(ctx, e.cfg.VinaExecutable,
		"--receptor", receptorPDBQT,
		"--ligand", preparedPDBQT,
		"--out", posePDBQT,
		"--center_x", formatFloat(params.CenterX),
		"--center_y", formatFloat(params.CenterY),
		"--center_z", formatFloat(params.CenterZ),
		"--size_x", formatFloat(params.SizeX),
		"--size_y", formatFloat(params.SizeY),
		"--size_z", formatFloat(params.SizeZ),
		"--exhaustiveness", strconv.Itoa(params.Exhaustiveness),
		"--num_modes", strconv.Itoa(params.NumModes),
	)
	if err != nil {
		return nil, &domain.LigandDockingError{
			Ligand: name,
			Err:    fmt.Errorf("vina docking failed: %w", err),
		}
	}

	score := ParseVinaOutput(out.Stdout)
	if score.BindingAffinity == nil {
		// Vina exited 0 but printed no recognizable score line. Worth
		// surfacing, not worth failing the ligand over.
		e.logger.Warn("No result line found in vina output",
			slog.String("job_id", ws.JobID),
			slog.String("ligand", name),
		)
	}

	result := &domain.LigandResult{
		LigandName: name,
		PoseFile:   posePDBQT,
	}

	if score.BindingAffinity != nil {
		result.BindingAffinity = *score.BindingAffinity
	}
	if score.RMSDLowerBound != nil {
		result.RMSDLowerBound = *score.RMSDLowerBound
	}
	if score.RMSDUpperBound != nil {
		result.RMSDUpperBound = *score.RMSDUpperBound
	}

	return result, nil
}

// fileStem returns the base name of a path without its extension.
func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
