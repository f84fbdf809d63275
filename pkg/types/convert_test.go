// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"testing"
)

func TestConversionRequestPaths(t *testing.T) {
	tests := []struct {
		name        string
		req         ConversionRequest
		wantOutDir  string
		wantBase    string
		wantPDFPath string
	}{
		{
			name:        "output defaults to the source directory",
			req:         ConversionRequest{InputPath: "/home/user/thesis/main.tex"},
			wantOutDir:  "/home/user/thesis",
			wantBase:    "main",
			wantPDFPath: "/home/user/thesis/main.pdf",
		},
		{
			name:        "explicit output directory",
			req:         ConversionRequest{InputPath: "/home/user/thesis/main.tex", OutputDir: "/tmp/out"},
			wantOutDir:  "/tmp/out",
			wantBase:    "main",
			wantPDFPath: "/tmp/out/main.pdf",
		},
		{
			name:        "dotted base name keeps everything before the extension",
			req:         ConversionRequest{InputPath: "/docs/report.v2.tex"},
			wantOutDir:  "/docs",
			wantBase:    "report.v2",
			wantPDFPath: "/docs/report.v2.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.ResolvedOutputDir(); got != filepath.FromSlash(tt.wantOutDir) {
				t.Errorf("ResolvedOutputDir() = %q, want %q", got, tt.wantOutDir)
			}
			if got := tt.req.BaseName(); got != tt.wantBase {
				t.Errorf("BaseName() = %q, want %q", got, tt.wantBase)
			}
			if got := tt.req.PDFPath(); got != filepath.FromSlash(tt.wantPDFPath) {
				t.Errorf("PDFPath() = %q, want %q", got, tt.wantPDFPath)
			}
		})
	}
}

func TestEventConstructors(t *testing.T) {
	if ev := ProgressEvent(60); ev.Kind != EventProgress || ev.Progress != 60 {
		t.Errorf("ProgressEvent(60) = %+v", ev)
	}
	if ev := StatusEvent("converting"); ev.Kind != EventStatus || ev.Message != "converting" {
		t.Errorf("StatusEvent() = %+v", ev)
	}
	if ev := ErrorEvent("boom"); ev.Kind != EventError || ev.Message != "boom" {
		t.Errorf("ErrorEvent() = %+v", ev)
	}
}
