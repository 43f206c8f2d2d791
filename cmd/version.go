package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/owl-recorder/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, commit and build date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "owl-recorder %s\ncommit: %s\nbuilt: %s\n",
			version.Version, version.Commit, version.BuildDate)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
