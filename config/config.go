package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"provmgr/config/models"
	"provmgr/config/storage"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvHome           = "PROVMGR_HOME"
	EnvBacking        = "PROVMGR_BACKING"
	EnvLogLevel       = "PROVMGR_LOG_LEVEL"
	EnvTheme          = "PROVMGR_THEME"
	EnvAppearanceFile = "PROVMGR_APPEARANCE_FILE"
	EnvShareBase      = "PROVMGR_SHARE_BASE"
	EnvBackups        = "PROVMGR_BACKUPS"
)

const (
	appName          = "provmgr"
	envFileName      = "provmgr.env"
	DefaultShareBase = "provmgr://import"
)

// Options is the resolved runtime configuration.
type Options struct {
	Home           string
	Backing        string
	LogLevel       string
	ThemeFallback  models.Theme
	AppearanceFile string
	ShareBase      string
	Backups        int
}

// DefaultHome returns the configuration directory: PROVMGR_HOME, else
// $XDG_CONFIG_HOME/provmgr, else the platform config directory.
func DefaultHome() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, appName), nil
}

// Load resolves Options. home overrides DefaultHome when non-empty.
// <home>/provmgr.env and ./.env are loaded first; variables already set in
// the environment take precedence over both.
func Load(home string) (Options, error) {
	if home == "" {
		var err error
		if home, err = DefaultHome(); err != nil {
			return Options{}, err
		}
	}

	var envFiles []string
	for _, f := range []string{filepath.Join(home, envFileName), ".env"} {
		if storage.FileExists(f) {
			envFiles = append(envFiles, f)
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Options{}, fmt.Errorf("failed to load env files: %w", err)
		}
	}

	opts := Options{
		Home:           home,
		Backing:        strings.ToLower(strings.TrimSpace(os.Getenv(EnvBacking))),
		LogLevel:       os.Getenv(EnvLogLevel),
		AppearanceFile: os.Getenv(EnvAppearanceFile),
		ShareBase:      os.Getenv(EnvShareBase),
		Backups:        storage.DefaultBackupRetention,
	}
	if opts.Backing == "" {
		opts.Backing = storage.KindFile
	}
	if opts.ShareBase == "" {
		opts.ShareBase = DefaultShareBase
	}
	if raw := os.Getenv(EnvTheme); raw != "" {
		t, ok := models.ParseTheme(raw)
		if !ok {
			return Options{}, fmt.Errorf("invalid %s: %q (expected light, dark or system)", EnvTheme, raw)
		}
		opts.ThemeFallback = t
	}
	if raw := os.Getenv(EnvBackups); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Options{}, fmt.Errorf("invalid %s: %q (expected a positive integer)", EnvBackups, raw)
		}
		opts.Backups = n
	}
	return opts, nil
}
