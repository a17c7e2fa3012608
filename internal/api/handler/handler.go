package handler

import (
	"log/slog"

	"github.com/moldock/docking-be/internal/config"
	"github.com/moldock/docking-be/internal/docking/engine"
	"github.com/moldock/docking-be/internal/docking/registry"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger   *slog.Logger
	Registry *registry.Registry
	Engine   *engine.Engine
	Docking  *config.DockingConfig
}

// DockingHandler handles docking-related HTTP requests
type DockingHandler struct {
	logger   *slog.Logger
	registry *registry.Registry
	engine   *engine.Engine
	cfg      *config.DockingConfig
}

// NewDockingHandler creates a new DockingHandler instance
func NewDockingHandler(deps *Dependencies) *DockingHandler {
	return &DockingHandler{
		logger:   deps.Logger,
		registry: deps.Registry,
		engine:   deps.Engine,
		cfg:      deps.Docking,
	}
}
