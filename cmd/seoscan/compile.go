package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/seoscan/seoscan/internal/compile"
	"github.com/seoscan/seoscan/internal/config"
	seolog "github.com/seoscan/seoscan/internal/log"
	"github.com/spf13/cobra"
)

// NewCompileCmd creates the compile command.
func NewCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile report files into an xlsx workbook",
		Long: `Compile reads every seo_report_*.csv file in a directory and writes a
single xlsx workbook containing:

- a Summary sheet with one row per page (title, lengths, counts, status)
- a Comparison sheet with pages side by side, one metric per row
- one sheet per report with its full Metric/Value/Detail rows

Files that are not valid reports are skipped with a warning. Compilation
fails only when no valid report file is found.

Examples:
  # Compile the default results directory
  seoscan compile

  # Compile a custom directory to a named workbook
  seoscan compile --dir audit --output audit.xlsx`,
		Args: cobra.NoArgs,
		RunE: runCompileCmd,
	}

	cmd.Flags().StringP("dir", "d", config.DefaultOutputDir,
		"Directory containing report files")
	cmd.Flags().StringP("output", "o", "",
		"Workbook output path (default: seo_analysis_<timestamp>.xlsx)")

	return cmd
}

// runCompileCmd executes the compile command.
func runCompileCmd(cmd *cobra.Command, _ []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if output == "" {
		output = compile.DefaultWorkbookName(time.Now())
	}

	logger := seolog.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	compiler := compile.New(compile.WithLogger(logger))
	wb, err := compiler.CompileToFile(dir, output)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Compiled %d reports into %s\n", len(wb.Pages), output)
	fmt.Fprintln(cmd.OutOrStdout(), "Sheets:")
	fmt.Fprintln(cmd.OutOrStdout(), "  Summary")
	fmt.Fprintln(cmd.OutOrStdout(), "  Comparison")
	for _, page := range wb.Pages {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", page.Name)
	}
	return nil
}
