package main

import (
	"fmt"
	buildinfo "runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build info",
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := buildinfo.ReadBuildInfo()
		fmt.Fprintln(cmd.OutOrStdout(), versionLine(version, info))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// versionLine renders "jobdelta <version> (<go>, <short revision>[, dirty])".
// Build details are omitted when info is nil.
func versionLine(v string, info *buildinfo.BuildInfo) string {
	if info == nil {
		return "jobdelta " + v
	}

	details := info.GoVersion
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if revision != "" {
		details += ", " + revision
		if dirty {
			details += ", dirty"
		}
	}
	return fmt.Sprintf("jobdelta %s (%s)", v, details)
}
