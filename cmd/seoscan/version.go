package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Build metadata injected through -ldflags at release time. Fields left
// empty are recovered from the build info embedded in the binary.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildMetadata is the resolved version, commit, and build date triple.
type buildMetadata struct {
	Version string
	Commit  string
	Date    string
}

// resolveBuildMetadata fills gaps the ldflags left from
// debug.ReadBuildInfo, then applies placeholder defaults so every field
// always renders.
func resolveBuildMetadata() buildMetadata {
	m := buildMetadata{Version: version, Commit: commit, Date: date}

	if info, ok := debug.ReadBuildInfo(); ok {
		if m.Version == "" {
			m.Version = info.Main.Version
		}
		if m.Commit == "" {
			m.Commit = shortRevision(buildSetting(info, "vcs.revision"))
		}
		if m.Date == "" {
			m.Date = buildSetting(info, "vcs.time")
		}
	}

	if m.Version == "" {
		m.Version = "(devel)"
	}
	if m.Commit == "" {
		m.Commit = "unknown"
	}
	if m.Date == "" {
		m.Date = "unknown"
	}
	return m
}

// buildSetting returns the named build setting, or empty when absent.
func buildSetting(info *debug.BuildInfo, key string) string {
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// shortRevision abbreviates a VCS revision hash for display.
func shortRevision(rev string) string {
	const short = 12
	if len(rev) > short {
		return rev[:short]
	}
	return rev
}

// getVersion returns the version string shown by the root --version flag.
func getVersion() string {
	return resolveBuildMetadata().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of seoscan.`,
		Run: func(cmd *cobra.Command, _ []string) {
			m := resolveBuildMetadata()
			fmt.Fprintf(cmd.OutOrStdout(), "seoscan %s (commit %s, built %s)\n",
				m.Version, m.Commit, m.Date)
		},
	}
}
