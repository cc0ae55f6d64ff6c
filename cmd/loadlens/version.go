package main

import (
	"runtime/debug"

	"github.com/spf13/cobra"
)

// These variables are set via ldflags during release builds.
var (
	version = ""
	commit  = ""
	date    = ""
)

// getVersion returns the version string, falling back to build info
// when ldflags were not set (e.g. go install).
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit returns the VCS revision of the build.
func getCommit() string {
	if commit != "" {
		return commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// getDate returns the build timestamp.
func getDate() string {
	if date != "" {
		return date
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				return setting.Value
			}
		}
	}
	return "unknown"
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print loadlens version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("loadlens version %s (commit: %s, built: %s)\n",
				getVersion(), getCommit(), getDate())
		},
	}
}
