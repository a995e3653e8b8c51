package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/shelldock/internal/core/config"
	"github.com/hay-kot/shelldock/internal/core/history"
	"github.com/hay-kot/shelldock/internal/output"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Plain      bool

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// HistoryStore persists submitted commands
	HistoryStore history.Store

	// Panel receives log output while the TUI is running
	Panel *output.Panel
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "shelldock", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "shelldock")
}
