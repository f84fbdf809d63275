// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain probes for the TeX distribution's compiler binary and
// runs the bundled installer unattended when the distribution is absent.
package toolchain

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// Installer flags fixed by the distribution's unattended mode: install for
// all users, into the configured directory, without interactive prompts.
const (
	flagShared     = "--shared"
	flagDirectory  = "--directory="
	flagUnattended = "--unattended"
)

// executor abstracts subprocess execution for testing.
type executor interface {
	// RunCaptured runs the command to completion and returns its combined
	// stdout and stderr.
	RunCaptured(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) RunCaptured(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

var defaultExec executor = osExecutor{}

// Config carries the resolved paths the toolchain operates on.
type Config struct {
	// CompilerPath is the compiler binary's installed location.
	CompilerPath string
	// InstallerPath is the bundled installer payload.
	InstallerPath string
	// InstallDir is the directory handed to the installer.
	InstallDir string
}

// Toolchain locates the compiler binary and knows how to install the
// distribution that provides it.
type Toolchain struct {
	cfg  Config
	exec executor
	log  *logrus.Entry
}

// New returns a Toolchain operating on the paths in cfg.
func New(cfg Config, log *logrus.Entry) *Toolchain {
	return newToolchain(cfg, log, defaultExec)
}

func newToolchain(cfg Config, log *logrus.Entry, exec executor) *Toolchain {
	return &Toolchain{cfg: cfg, exec: exec, log: log}
}

// CompilerPath returns the configured compiler binary path.
func (t *Toolchain) CompilerPath() string { return t.cfg.CompilerPath }

// Present reports whether the compiler binary exists. The check is a plain
// stat, recomputed on every call.
func (t *Toolchain) Present() bool {
	info, err := os.Stat(t.cfg.CompilerPath)
	present := err == nil && !info.IsDir()
	t.log.Debugf("compiler at %s: present=%v", t.cfg.CompilerPath, present)
	return present
}

// Install runs the bundled installer in unattended mode and blocks until it
// exits. A non-zero exit is returned as an error carrying the installer's
// combined output.
func (t *Toolchain) Install() error {
	if _, err := os.Stat(t.cfg.InstallerPath); err != nil {
		return fmt.Errorf("installer not found at %s: %w", t.cfg.InstallerPath, err)
	}

	t.log.Infof("running unattended install from %s into %s", t.cfg.InstallerPath, t.cfg.InstallDir)
	out, err := t.exec.RunCaptured(t.cfg.InstallerPath,
		flagShared, flagDirectory+t.cfg.InstallDir, flagUnattended)
	if err != nil {
		diag := strings.TrimSpace(string(out))
		t.log.Errorf("unattended install failed: %v: %s", err, diag)
		return fmt.Errorf("unattended install failed: %w: %s", err, diag)
	}

	t.log.Infof("unattended install finished")
	return nil
}

// Elevated reports whether the process runs with elevated privileges. On
// platforms without POSIX uids the probe cannot tell and assumes elevated;
// a shared install then fails on its own when privileges are missing.
func Elevated() bool {
	if runtime.GOOS == "windows" {
		return true
	}
	return os.Geteuid() == 0
}
