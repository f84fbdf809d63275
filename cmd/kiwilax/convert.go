package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KGM16/KiwiLax/internal/compile"
	"github.com/KGM16/KiwiLax/internal/logging"
	"github.com/KGM16/KiwiLax/internal/task"
	"github.com/KGM16/KiwiLax/internal/toolchain"
	"github.com/KGM16/KiwiLax/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.tex>",
	Short: "Convert a LaTeX source document to PDF",
	Long: `Convert runs the full workflow against one .tex file: verify the TeX
toolchain (installing it unattended when missing), run one batch-mode
compiler pass from the output directory, clean up the byproducts, and
verify the PDF exists. The PDF is written next to the source unless
--output-dir says otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("output-dir", "", "directory for the PDF (default: the source's directory)")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	if !strings.EqualFold(filepath.Ext(input), ".tex") {
		return fmt.Errorf("%s is not a .tex file", input)
	}
	outputDir, _ := cmd.Flags().GetString("output-dir")

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
	comp := compile.New(cfg.CompilerPath, logs.Module("compiler"))
	runner := task.NewRunner(tc, comp, logs.Module("converter"))

	req := types.ConversionRequest{InputPath: input, OutputDir: outputDir}

	// The task reports on the channel in emission order; the channel
	// closing is the completion signal, so the loop ending means the run
	// is over and the terminal state is known.
	out := cmd.OutOrStdout()
	pct := 0
	var failure error
	for ev := range runner.Start(req) {
		switch ev.Kind {
		case types.EventProgress:
			pct = ev.Progress
		case types.EventStatus:
			fmt.Fprintf(out, "[%3d%%] %s\n", pct, ev.Message)
		case types.EventError:
			failure = errors.New(ev.Message)
		}
	}

	if failure != nil {
		return fmt.Errorf("conversion failed: %w", failure)
	}
	fmt.Fprintf(out, "[%3d%%] Done.\n", pct)
	return nil
}
