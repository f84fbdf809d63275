// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package task runs the conversion workflow on a single background
// goroutine and reports back through a typed event channel: environment
// check, optional unattended install, one compiler pass, cleanup.
package task

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/KGM16/KiwiLax/pkg/types"
)

// Toolchain is the slice of the TeX toolchain the task depends on.
type Toolchain interface {
	// Present reports whether the compiler is installed.
	Present() bool
	// Install runs the unattended installer to completion.
	Install() error
}

// Compiler produces the PDF for a request and returns its path.
type Compiler interface {
	Compile(req types.ConversionRequest) (string, error)
}

// Runner executes conversion tasks against a fixed pair of collaborators.
// One call to Start runs one task; overlapping runs against the same output
// directory are not synchronized.
type Runner struct {
	toolchain Toolchain
	compiler  Compiler
	log       *logrus.Entry
}

// NewRunner returns a Runner using the given collaborators.
func NewRunner(tc Toolchain, c Compiler, log *logrus.Entry) *Runner {
	return &Runner{toolchain: tc, compiler: c, log: log}
}

// Start launches the conversion for req on its own goroutine and returns
// the event channel. Events arrive in emission order; progress values never
// decrease within a run; at most one error event is emitted. The channel
// closing is the completion signal and is always the last thing observed,
// whatever the outcome. There is no cancellation or timeout: a hung
// installer or compiler blocks the task until its subprocess exits.
func (r *Runner) Start(req types.ConversionRequest) <-chan types.Event {
	events := make(chan types.Event)
	go func() {
		defer close(events)
		defer func() {
			if p := recover(); p != nil {
				r.log.Errorf("conversion aborted: %v", p)
				events <- types.ErrorEvent(fmt.Sprintf("conversion aborted: %v", p))
			}
		}()
		if err := r.run(req, events); err != nil {
			r.log.Errorf("conversion failed: %v", err)
			events <- types.ErrorEvent(err.Error())
		}
	}()
	return events
}

// run drives the fixed sequence. Any returned error becomes the run's
// single terminal error event.
func (r *Runner) run(req types.ConversionRequest, events chan<- types.Event) error {
	r.log.Infof("starting conversion of %s", req.InputPath)
	events <- types.ProgressEvent(10)
	events <- types.StatusEvent("Checking TeX toolchain...")

	if _, err := os.Stat(req.InputPath); err != nil {
		return fmt.Errorf("source file %s not found: %w", req.InputPath, err)
	}

	if !r.toolchain.Present() {
		r.log.Warnf("toolchain not installed, starting unattended install")
		events <- types.StatusEvent("Installing TeX toolchain...")
		events <- types.ProgressEvent(20)
		if err := r.toolchain.Install(); err != nil {
			return err
		}
		events <- types.ProgressEvent(50)
		r.log.Infof("toolchain installed")
	}

	name := filepath.Base(req.InputPath)
	events <- types.StatusEvent(fmt.Sprintf("Converting %s to PDF...", name))
	events <- types.ProgressEvent(60)

	events <- types.StatusEvent(fmt.Sprintf("Running compiler on %s...", name))
	events <- types.ProgressEvent(70)

	pdf, err := r.compiler.Compile(req)
	if err != nil {
		return err
	}

	events <- types.ProgressEvent(100)
	events <- types.StatusEvent(fmt.Sprintf("PDF written to %s", pdf))
	r.log.Infof("conversion finished: %s", pdf)
	return nil
}
