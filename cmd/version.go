package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the wr version",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Println(version)
			return nil
		}
		fmt.Printf("wr version %s\n", version)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("short", false, "Print the bare version string")
	rootCmd.AddCommand(versionCmd)
}
