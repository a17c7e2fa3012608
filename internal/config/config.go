package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	App     AppConfig     `yaml:"app"`
	Docking DockingConfig `yaml:"docking"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// DockingConfig holds the external toolchain commands and artifact directories
type DockingConfig struct {
	VinaExecutable        string   `yaml:"vina_executable"`
	PrepareReceptorScript string   `yaml:"prepare_receptor_script"`
	PrepareLigandScript   string   `yaml:"prepare_ligand_script"`
	UploadDir             string   `yaml:"upload_dir"`
	ResultsDir            string   `yaml:"results_dir"`
	TempDir               string   `yaml:"temp_dir"`
	MaxFileSize           int64    `yaml:"max_file_size"`
	AllowedExtensions     []string `yaml:"allowed_extensions"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.Docking.applyDefaults()

	return &config, nil
}

// applyDefaults fills in the standard AutoDock toolchain commands and artifact
// locations when the config file leaves them out.
func (c *DockingConfig) applyDefaults() {
	if c.VinaExecutable == "" {
		c.VinaExecutable = "vina"
	}
	if c.PrepareReceptorScript == "" {
		c.PrepareReceptorScript = "prepare_receptor4.py"
	}
	if c.PrepareLigandScript == "" {
		c.PrepareLigandScript = "prepare_ligand4.py"
	}
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.ResultsDir == "" {
		c.ResultsDir = "results"
	}
	if c.TempDir == "" {
		c.TempDir = "temp"
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 100 * 1024 * 1024 // 100MB
	}
	if len(c.AllowedExtensions) == 0 {
		c.AllowedExtensions = []string{"pdb", "pdbqt", "sdf", "mol2"}
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Docking.VinaExecutable == "" {
		return fmt.Errorf("docking vina_executable is required")
	}

	if c.Docking.PrepareReceptorScript == "" {
		return fmt.Errorf("docking prepare_receptor_script is required")
	}

	if c.Docking.PrepareLigandScript == "" {
		return fmt.Errorf("docking prepare_ligand_script is required")
	}

	if c.Docking.MaxFileSize <= 0 {
		return fmt.Errorf("docking max_file_size must be greater than 0")
	}

	return nil
}

// EnsureDirs creates the upload, results and temp directories if they do not
// exist yet.
func (c *DockingConfig) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.ResultsDir, c.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
