package main

import (
	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/output"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the variables declared by the schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := loadProject()
		if err != nil {
			return err
		}
		g, err := proj.guardian()
		if err != nil {
			return err
		}
		p := output.New(cmd.OutOrStdout())
		defer p.Close()
		p.SetJSON(jsonOutput)
		return p.Inspect(g.Introspect())
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
