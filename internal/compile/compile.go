// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compile invokes the TeX compiler against one source document
// through a generated launcher script, cleans up the compilation
// byproducts, and judges success by the existence of the output PDF.
package compile

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/KGM16/KiwiLax/pkg/types"
)

const (
	// launcherName is the single-use script written into the output
	// directory and removed again during cleanup.
	launcherName = "compile_tex.sh"

	// batchFlag keeps the compiler from stopping on interactive prompts.
	// Exactly one pass is run; cross-references are not resolved.
	batchFlag = "-interaction=batchmode"
)

// ErrNoOutput is returned when the compiler ran but no PDF appeared. This
// is the dominant failure mode: a malformed document shows up as a missing
// PDF, not as a distinguishable exit code.
var ErrNoOutput = errors.New("PDF was not produced")

// Compiler turns one LaTeX source into a PDF.
type Compiler interface {
	// Compile produces the PDF for req and returns its path.
	Compile(req types.ConversionRequest) (string, error)
}

// executor abstracts launcher execution for testing.
type executor interface {
	// RunScript executes the script at path with dir as the working
	// directory, blocking until it exits.
	RunScript(dir, path string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) RunScript(dir, path string) error {
	cmd := exec.Command("sh", path)
	cmd.Dir = dir
	return cmd.Run()
}

var defaultExec executor = osExecutor{}

// ScriptCompiler implements Compiler by assembling the compiler path and
// source path into a one-line launcher script and running that from the
// output directory.
type ScriptCompiler struct {
	compilerPath string
	exec         executor
	log          *logrus.Entry
}

// New returns a ScriptCompiler invoking the compiler binary at compilerPath.
func New(compilerPath string, log *logrus.Entry) *ScriptCompiler {
	return newScriptCompiler(compilerPath, log, defaultExec)
}

func newScriptCompiler(compilerPath string, log *logrus.Entry, exec executor) *ScriptCompiler {
	return &ScriptCompiler{compilerPath: compilerPath, exec: exec, log: log}
}

// Compile implements Compiler. Success is determined solely by the
// existence of the expected PDF, never by the compiler's exit status: batch
// mode exits non-zero on recoverable warnings, so only a launch failure
// (script missing, permission denied) is surfaced as an invocation error.
func (c *ScriptCompiler) Compile(req types.ConversionRequest) (string, error) {
	if _, err := os.Stat(req.InputPath); err != nil {
		return "", fmt.Errorf("source file %s not found: %w", req.InputPath, err)
	}

	outDir := req.ResolvedOutputDir()
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	launcher := filepath.Join(outDir, launcherName)
	line := fmt.Sprintf("%q %s %q\n", c.compilerPath, batchFlag, req.InputPath)
	if err := os.WriteFile(launcher, []byte(line), 0o755); err != nil {
		return "", fmt.Errorf("writing launcher script %s: %w", launcher, err)
	}

	c.log.Infof("running %s on %s in %s", filepath.Base(c.compilerPath), req.InputPath, outDir)
	if err := c.exec.RunScript(outDir, launcher); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			c.cleanup(req, launcher)
			return "", fmt.Errorf("launching compiler: %w", err)
		}
		c.log.Debugf("compiler exited non-zero: %v", err)
	}

	c.cleanup(req, launcher)

	pdf := req.PDFPath()
	if _, err := os.Stat(pdf); err != nil {
		return "", ErrNoOutput
	}
	return pdf, nil
}

// cleanup removes every byproduct sharing the source's base name except the
// source and the PDF, plus the launcher script. Removal is best-effort by
// contract: the verdict depends only on the PDF, so failures are logged at
// debug level and swallowed.
func (c *ScriptCompiler) cleanup(req types.ConversionRequest, launcher string) {
	pattern := filepath.Join(req.ResolvedOutputDir(), req.BaseName()+".*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		c.log.Debugf("cleanup: glob %s: %v", pattern, err)
		matches = nil
	}

	for _, m := range matches {
		switch strings.ToLower(filepath.Ext(m)) {
		case ".tex", ".pdf":
			continue
		}
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if err := os.Remove(m); err != nil {
			c.log.Debugf("cleanup: could not remove %s: %v", m, err)
		}
	}

	if err := os.Remove(launcher); err != nil && !os.IsNotExist(err) {
		c.log.Debugf("cleanup: could not remove launcher %s: %v", launcher, err)
	}
}
