// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the tool's configuration. The compiled-in
// defaults mirror the fixed installation layout the tool targets; every
// field can be overridden through the YAML config file or KIWILAX_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	// CompilerPath is the TeX compiler binary's installed location.
	CompilerPath string `yaml:"compiler_path" mapstructure:"compiler_path"`

	// InstallerPath is the bundled unattended installer payload, by
	// default under requirements/ beside the executable.
	InstallerPath string `yaml:"installer_path" mapstructure:"installer_path"`

	// InstallDir is the target directory handed to the installer.
	InstallDir string `yaml:"install_dir" mapstructure:"install_dir"`

	// LogsDir is where the per-module log files are written.
	LogsDir string `yaml:"logs_dir" mapstructure:"logs_dir"`

	// RequireElevation gates the commands that may trigger a shared
	// install. Disable it for user-local installations and tests.
	RequireElevation bool `yaml:"require_elevation" mapstructure:"require_elevation"`
}

// Default returns the fixed per-platform layout: the MiKTeX paths the tool
// historically targeted on Windows, a TeX Live layout elsewhere.
func Default() Config {
	appDir := executableDir()
	cfg := Config{
		InstallerPath:    filepath.Join(appDir, "requirements", installerName()),
		LogsDir:          filepath.Join(appDir, "logs"),
		RequireElevation: true,
	}
	if runtime.GOOS == "windows" {
		cfg.CompilerPath = `C:\Program Files\MiKTeX\miktex\bin\x64\pdflatex.exe`
		cfg.InstallDir = `C:\Program Files\MiKTeX`
	} else {
		cfg.CompilerPath = "/usr/local/texlive/bin/pdflatex"
		cfg.InstallDir = "/usr/local/texlive"
	}
	return cfg
}

func installerName() string {
	if runtime.GOOS == "windows" {
		return "basic-miktex-24.1-x64.exe"
	}
	return "install-texlive.sh"
}

// executableDir returns the directory holding the running binary; the
// installer payload and the logs live beside it.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// SetDefaults registers the platform defaults with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("compiler_path", d.CompilerPath)
	v.SetDefault("installer_path", d.InstallerPath)
	v.SetDefault("install_dir", d.InstallDir)
	v.SetDefault("logs_dir", d.LogsDir)
	v.SetDefault("require_elevation", d.RequireElevation)
}

// FromViper returns the effective configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg in the config file's YAML format.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering configuration: %w", err)
	}
	return data, nil
}

// WriteFile writes cfg to path, refusing to overwrite an existing file.
func WriteFile(cfg Config, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}
