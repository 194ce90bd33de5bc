package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ConfigDir returns the per-application configuration directory, falling
// back to ~/.config when the OS does not report one.
func ConfigDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err == nil && base != "" {
		return filepath.Join(base, dirName(appName)), nil
	}

	homeDir, homeErr := homedir.Dir()
	if homeErr != nil {
		return "", fmt.Errorf("get config dir: %w", errors.Join(err, homeErr))
	}
	return filepath.Join(homeDir, ".config", dirName(appName)), nil
}

// ExpandDir resolves a leading "~" in a user supplied directory.
func ExpandDir(dir string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(dir))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", dir, err)
	}
	return filepath.Clean(expanded), nil
}

func dirName(appName string) string {
	name := strings.TrimSpace(appName)
	if name == "" {
		name = "talktimer"
	}
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "-")
}
