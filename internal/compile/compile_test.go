// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compile

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KGM16/KiwiLax/internal/logging"
	"github.com/KGM16/KiwiLax/pkg/types"
)

// fakeExecutor stands in for the launcher subprocess. runFunc can inspect
// the launcher script and drop files into dir to simulate a compiler run.
type fakeExecutor struct {
	runFunc func(dir, path string) error

	gotDir  string
	gotPath string
}

func (f *fakeExecutor) RunScript(dir, path string) error {
	f.gotDir = dir
	f.gotPath = path
	if f.runFunc != nil {
		return f.runFunc(dir, path)
	}
	return nil
}

// setupTex creates a temp dir holding doc.tex and returns both paths.
func setupTex(t *testing.T) (texPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	texPath = filepath.Join(dir, "doc.tex")
	if err := os.WriteFile(texPath, []byte(`\documentclass{article}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return texPath, dir
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		run        func(dir, path string) error // simulated compiler
		wantErr    string
		wantNoOut  bool
		wantFiles  []string
		skipSource bool // do not create doc.tex
	}{
		{
			name: "successful compile leaves only source and pdf",
			run: func(dir, path string) error {
				writeFilesRaw(dir, "doc.pdf", "doc.aux", "doc.log", "doc.out")
				return nil
			},
			wantFiles: []string{"doc.pdf", "doc.tex"},
		},
		{
			name: "non-zero exit with pdf present is a success",
			run: func(dir, path string) error {
				writeFilesRaw(dir, "doc.pdf", "doc.log")
				return &exec.ExitError{}
			},
			wantFiles: []string{"doc.pdf", "doc.tex"},
		},
		{
			name: "no pdf produced",
			run: func(dir, path string) error {
				writeFilesRaw(dir, "doc.aux", "doc.log")
				return &exec.ExitError{}
			},
			wantNoOut: true,
			wantFiles: []string{"doc.tex"},
		},
		{
			name: "launch failure is an invocation error",
			run: func(dir, path string) error {
				return errors.New("permission denied")
			},
			wantErr:   "launching compiler",
			wantFiles: []string{"doc.tex"},
		},
		{
			name:       "missing source fails before any invocation",
			skipSource: true,
			wantErr:    "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texPath, dir := setupTex(t)
			if tt.skipSource {
				if err := os.Remove(texPath); err != nil {
					t.Fatal(err)
				}
			}

			fx := &fakeExecutor{runFunc: tt.run}
			c := newScriptCompiler("/opt/tex/pdflatex", logging.Discard(), fx)
			req := types.ConversionRequest{InputPath: texPath}

			pdf, err := c.Compile(req)

			if tt.wantNoOut {
				if !errors.Is(err, ErrNoOutput) {
					t.Fatalf("expected ErrNoOutput, got %v", err)
				}
			} else if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if want := filepath.Join(dir, "doc.pdf"); pdf != want {
					t.Errorf("pdf path = %q, want %q", pdf, want)
				}
			}

			if tt.skipSource {
				return
			}
			got := dirEntries(t, dir)
			if len(got) != len(tt.wantFiles) {
				t.Fatalf("directory contents = %v, want %v", got, tt.wantFiles)
			}
			for i, name := range tt.wantFiles {
				if got[i] != name {
					t.Errorf("directory contents = %v, want %v", got, tt.wantFiles)
				}
			}
		})
	}
}

// writeFilesRaw is writeFiles without the testing.T, usable from runFuncs.
func writeFilesRaw(dir string, names ...string) {
	for _, name := range names {
		_ = os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644)
	}
}

func TestCompileLauncherScript(t *testing.T) {
	texPath, dir := setupTex(t)

	var script string
	fx := &fakeExecutor{runFunc: func(d, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		script = string(data)
		writeFilesRaw(d, "doc.pdf")
		return nil
	}}

	c := newScriptCompiler("/opt/tex/pdflatex", logging.Discard(), fx)
	if _, err := c.Compile(types.ConversionRequest{InputPath: texPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fx.gotDir != dir {
		t.Errorf("launcher ran in %q, want output directory %q", fx.gotDir, dir)
	}
	if want := filepath.Join(dir, launcherName); fx.gotPath != want {
		t.Errorf("launcher path = %q, want %q", fx.gotPath, want)
	}
	if !strings.Contains(script, `"/opt/tex/pdflatex"`) {
		t.Errorf("script %q should quote the compiler path", script)
	}
	if !strings.Contains(script, batchFlag) {
		t.Errorf("script %q should contain the batch-mode flag", script)
	}
	if !strings.Contains(script, `"`+texPath+`"`) {
		t.Errorf("script %q should quote the source path", script)
	}
}

func TestCompileSeparateOutputDir(t *testing.T) {
	texPath, _ := setupTex(t)
	outDir := filepath.Join(t.TempDir(), "out")

	fx := &fakeExecutor{runFunc: func(d, path string) error {
		writeFilesRaw(d, "doc.pdf", "doc.aux")
		return nil
	}}
	c := newScriptCompiler("/opt/tex/pdflatex", logging.Discard(), fx)

	pdf, err := c.Compile(types.ConversionRequest{InputPath: texPath, OutputDir: outDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(outDir, "doc.pdf"); pdf != want {
		t.Errorf("pdf path = %q, want %q", pdf, want)
	}
	got := dirEntries(t, outDir)
	if len(got) != 1 || got[0] != "doc.pdf" {
		t.Errorf("output directory contents = %v, want [doc.pdf]", got)
	}
}

func TestCompileSecondRunRemovesFirstRunArtifacts(t *testing.T) {
	texPath, dir := setupTex(t)

	// First run leaves artifacts behind by never running cleanup's
	// producer: simulate a prior interrupted run directly.
	writeFiles(t, dir, "doc.aux", "doc.toc", "compile_tex.sh")

	fx := &fakeExecutor{runFunc: func(d, path string) error {
		writeFilesRaw(d, "doc.pdf")
		return nil
	}}
	c := newScriptCompiler("/opt/tex/pdflatex", logging.Discard(), fx)

	if _, err := c.Compile(types.ConversionRequest{InputPath: texPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := dirEntries(t, dir)
	want := []string{"doc.pdf", "doc.tex"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("directory contents = %v, want %v", got, want)
	}
}

func TestCleanupBestEffort(t *testing.T) {
	texPath, dir := setupTex(t)

	// A directory matching the byproduct glob cannot be removed by the
	// cleanup's os.Remove-per-file pass; the run must still succeed.
	if err := os.MkdirAll(filepath.Join(dir, "doc.synctex"), 0o755); err != nil {
		t.Fatal(err)
	}

	fx := &fakeExecutor{runFunc: func(d, path string) error {
		writeFilesRaw(d, "doc.pdf", "doc.aux")
		return nil
	}}
	c := newScriptCompiler("/opt/tex/pdflatex", logging.Discard(), fx)

	pdf, err := c.Compile(types.ConversionRequest{InputPath: texPath})
	if err != nil {
		t.Fatalf("cleanup trouble must not fail the run: %v", err)
	}
	if _, err := os.Stat(pdf); err != nil {
		t.Fatalf("expected pdf at %s: %v", pdf, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "doc.aux")); !os.IsNotExist(err) {
		t.Error("doc.aux should have been removed")
	}
	if _, err := os.Stat(filepath.Join(dir, launcherName)); !os.IsNotExist(err) {
		t.Error("launcher script should have been removed")
	}
}
