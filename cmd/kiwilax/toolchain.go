package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KGM16/KiwiLax/internal/logging"
	"github.com/KGM16/KiwiLax/internal/toolchain"
)

var toolchainCmd = &cobra.Command{
	Use:   "toolchain",
	Short: "Inspect or install the TeX toolchain",
}

var toolchainStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the state of the TeX toolchain and its prerequisites",
	RunE:  runToolchainStatus,
}

var toolchainInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Run the bundled unattended installer without converting",
	RunE:  runToolchainInstall,
}

func init() {
	toolchainCmd.AddCommand(toolchainStatusCmd)
	toolchainCmd.AddCommand(toolchainInstallCmd)

	rootCmd.AddCommand(toolchainCmd)
}

func runToolchainStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tc := toolchain.New(toolchain.Config{
		CompilerPath:  cfg.CompilerPath,
		InstallerPath: cfg.InstallerPath,
		InstallDir:    cfg.InstallDir,
	}, logging.Discard())

	checks := []struct {
		name   string
		ok     bool
		detail string
	}{
		{"elevated", toolchain.Elevated(), "needed for shared installs"},
		{"compiler", tc.Present(), cfg.CompilerPath},
		{"installer payload", fileExists(cfg.InstallerPath), cfg.InstallerPath},
		{"logs directory", dirWritable(cfg.LogsDir), cfg.LogsDir},
	}

	out := cmd.OutOrStdout()
	missing := 0
	for _, c := range checks {
		icon := "OK"
		if !c.ok {
			icon = "--"
			missing++
		}
		fmt.Fprintf(out, "%s %-18s %s\n", icon, c.name, c.detail)
	}

	if missing == 0 {
		fmt.Fprintln(out, "\nReady to convert.")
	} else {
		fmt.Fprintf(out, "\n%d check(s) not satisfied; convert will install the toolchain if only the compiler is missing.\n", missing)
	}
	return nil
}

func runToolchainInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logs, err := logging.New(cfg.LogsDir)
	if err != nil {
		return err
	}
	defer logs.Close()

	tc := toolchain.New(toolchain.Config{
		CompilerPath:  cfg.CompilerPath,
		InstallerPath: cfg.InstallerPath,
		InstallDir:    cfg.InstallDir,
	}, logs.Module("toolchain"))

	out := cmd.OutOrStdout()
	if tc.Present() {
		fmt.Fprintf(out, "Toolchain already installed at %s\n", cfg.CompilerPath)
		return nil
	}

	fmt.Fprintf(out, "Installing TeX toolchain into %s (this can take a while)...\n", cfg.InstallDir)
	if err := tc.Install(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Install finished.")
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// dirWritable reports whether dir exists or can be created, by probing with
// a throwaway file.
func dirWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".kiwilax-probe")
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	os.Remove(probe)
	return true
}
