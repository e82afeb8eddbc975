package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Set with -ldflags "-X github.com/spigell/roadmap-matcher/cmd.version=...".
var version = "unknown"

type buildInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Name:      app,
		Version:   version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return writeVersion(cmd.OutOrStdout(), currentBuild(), viper.GetBool("json"))
	},
}

func writeVersion(w io.Writer, info buildInfo, asJSON bool) error {
	if asJSON {
		return printJSON(w, info)
	}
	_, err := fmt.Fprintf(w, "%s version: %s (%s, %s)\n", info.Name, info.Version, info.GoVersion, info.Platform)
	return err
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
