package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for seoscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seoscan",
		Short: "SEO analysis for rendered web pages",
		Long: `seoscan analyzes web pages for SEO issues.

Pages are fetched through a crawling API that renders JavaScript, so the
extracted metrics reflect what search engines actually see. Each scanned
URL produces one CSV report; the compile command turns a directory of
reports into a multi-sheet xlsx workbook with Summary and Comparison views.

An API key is required: set --api-key, the SEOSCAN_API_KEY environment
variable, or api_key in the .seoscan config file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCompileCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with a code describing the
// outcome: 0 when the command succeeded, 1 when a scan ran but every URL
// failed, 2 for bad input, configuration errors, and everything else.
func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errAllFailed):
		return 1
	default:
		return 2
	}
}
