// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared value types for a conversion run: the
// request handed to the background task and the events it reports back.
package types

import (
	"path/filepath"
	"strings"
)

// ConversionRequest describes one LaTeX-to-PDF conversion. It is created
// when the user confirms a source file and is immutable once the task that
// consumes it has started.
type ConversionRequest struct {
	// InputPath is the path to the .tex source document.
	InputPath string

	// OutputDir is the directory the PDF is written to. Empty means the
	// source document's own directory.
	OutputDir string
}

// ResolvedOutputDir returns OutputDir, defaulting to the source's directory.
func (r ConversionRequest) ResolvedOutputDir() string {
	if r.OutputDir != "" {
		return r.OutputDir
	}
	return filepath.Dir(r.InputPath)
}

// BaseName returns the source file name without its extension. Compilation
// byproducts and the output PDF all share this base name.
func (r ConversionRequest) BaseName() string {
	name := filepath.Base(r.InputPath)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// PDFPath returns the path the output PDF is expected at.
func (r ConversionRequest) PDFPath() string {
	return filepath.Join(r.ResolvedOutputDir(), r.BaseName()+".pdf")
}

// EventKind tags the variants of Event.
type EventKind string

const (
	// EventProgress carries a 0-100 percentage.
	EventProgress EventKind = "progress"
	// EventStatus carries a human-readable status line.
	EventStatus EventKind = "status"
	// EventError carries the terminal error message; at most one is
	// emitted per run.
	EventError EventKind = "error"
)

// Event is one message from the conversion task to the shell. Events arrive
// in emission order; the closing of the event channel is the completion
// signal and is always observed last.
type Event struct {
	Kind     EventKind
	Progress int    // set when Kind is EventProgress
	Message  string // set when Kind is EventStatus or EventError
}

// ProgressEvent returns a progress event for pct.
func ProgressEvent(pct int) Event {
	return Event{Kind: EventProgress, Progress: pct}
}

// StatusEvent returns a status event carrying msg.
func StatusEvent(msg string) Event {
	return Event{Kind: EventStatus, Message: msg}
}

// ErrorEvent returns a terminal error event carrying msg.
func ErrorEvent(msg string) Event {
	return Event{Kind: EventError, Message: msg}
}
