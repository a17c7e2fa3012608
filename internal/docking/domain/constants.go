package domain

// Job status constants
const (
	JobStatusPending    = "PENDING"
	JobStatusProcessing = "PROCESSING"
	JobStatusCompleted  = "COMPLETED"
	JobStatusFailed     = "FAILED"
)

// DockingParameters bounds and defaults
const (
	MinExhaustiveness = 1
	MaxExhaustiveness = 32
	MinNumModes       = 1
	MaxNumModes       = 20

	DefaultBoxSize        = 20.0
	DefaultExhaustiveness = 8
	DefaultNumModes       = 9
)
