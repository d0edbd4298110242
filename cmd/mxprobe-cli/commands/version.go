package commands

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var version string

func SetVersion(v string) {
	version = v
}

// versionString falls back to the module version when the binary wasn't built with a version tag, e.g. with
// go install.
func versionString(v string, info func() (*debug.BuildInfo, bool)) string {
	if v == "" || v == "dev" {
		if bi, ok := info(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}

	if v == "" {
		v = "dev"
	}

	return v
}

func printVersion(w io.Writer, v string) {
	_, _ = fmt.Fprintf(w, "mxprobe-cli %s (%s %s/%s)\n", v, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Prints the version of mxprobe-cli",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout(), versionString(version, debug.ReadBuildInfo))
		},
	}

	rootCmd.AddCommand(versionCmd)
}
