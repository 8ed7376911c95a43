package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

// ConfigDir returns the platform config directory for app, creating it when
// needed. When it cannot be created or written it falls back to
// ~/.<app>, then the temp dir.
func ConfigDir(app string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	candidates := []string{
		platformConfigDir(homeDir, app),
		filepath.Join(homeDir, "."+app),
		filepath.Join(os.TempDir(), app),
	}
	for i, dir := range candidates {
		if writableDir(dir) {
			if i > 0 {
				log.Warnf("Using fallback config location: %s", dir)
			}
			return dir
		}
	}
	return os.TempDir()
}

func platformConfigDir(homeDir, app string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, app)
		}
		return filepath.Join(homeDir, ".config", app)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, app)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", app)
	default:
		return filepath.Join(homeDir, ".config", app)
	}
}

// writableDir creates dir if missing and probes it with a throwaway file.
func writableDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create config directory %s: %v", dir, err)
		return false
	}
	probe := filepath.Join(dir, ".write_test")
	if err := os.WriteFile(probe, []byte("ok"), 0644); err != nil {
		log.Debugf("Config directory %s is not writable: %v", dir, err)
		return false
	}
	os.Remove(probe)
	return true
}
