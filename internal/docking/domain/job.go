package domain

import (
	"fmt"
	"time"
)

// Job tracks one docking request end-to-end: a receptor docked against one or
// more ligands, identified by a unique job ID.
//
// Once the status is terminal (COMPLETED or FAILED):
// SuccessfulDocks + FailedDocks == TotalLigands, and
// len(LigandResults) == SuccessfulDocks. Failed ligands produce no result
// entry, only a count increment.
type Job struct {
	JobID           string         `json:"job_id"`
	Status          string         `json:"status"`
	ReceptorName    string         `json:"receptor_name"`
	LigandResults   []LigandResult `json:"ligand_results"`
	TotalLigands    int            `json:"total_ligands"`
	SuccessfulDocks int            `json:"successful_docks"`
	FailedDocks     int            `json:"failed_docks"`
	ProcessingTime  float64        `json:"processing_time,omitempty"` // seconds
	ErrorMessage    string         `json:"error_message,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"`
}

// LigandResult is the outcome of one successfully docked ligand. Immutable
// after creation; owned by the parent Job's result sequence.
type LigandResult struct {
	LigandName      string  `json:"ligand_name"`
	BindingAffinity float64 `json:"binding_affinity"` // kcal/mol, lower = more favorable
	RMSDLowerBound  float64 `json:"rmsd_lower_bound"`
	RMSDUpperBound  float64 `json:"rmsd_upper_bound"`
	PoseFile        string  `json:"pose_file,omitempty"`
}

// DockingParameters is the search configuration passed by value into every
// docking invocation within a job.
type DockingParameters struct {
	CenterX        float64 `json:"center_x"`
	CenterY        float64 `json:"center_y"`
	CenterZ        float64 `json:"center_z"`
	SizeX          float64 `json:"size_x"`
	SizeY          float64 `json:"size_y"`
	SizeZ          float64 `json:"size_z"`
	Exhaustiveness int     `json:"exhaustiveness"`
	NumModes       int     `json:"num_modes"`
}

// DefaultDockingParameters returns the standard search box and effort settings.
func DefaultDockingParameters() DockingParameters {
	return DockingParameters{
		SizeX:          DefaultBoxSize,
		SizeY:          DefaultBoxSize,
		SizeZ:          DefaultBoxSize,
		Exhaustiveness: DefaultExhaustiveness,
		NumModes:       DefaultNumModes,
	}
}

// Validate checks the bounded integer knobs.
func (p DockingParameters) Validate() error {
	if p.Exhaustiveness < MinExhaustiveness || p.Exhaustiveness > MaxExhaustiveness {
		return fmt.Errorf("exhaustiveness must be between %d and %d, got %d", MinExhaustiveness, MaxExhaustiveness, p.Exhaustiveness)
	}

	if p.NumModes < MinNumModes || p.NumModes > MaxNumModes {
		return fmt.Errorf("num_modes must be between %d and %d, got %d", MinNumModes, MaxNumModes, p.NumModes)
	}

	return nil
}
