package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard"
)

var (
	exampleCmd = &cobra.Command{
		Use:   "example",
		Short: "Generate a .env.example from the schema",
		Long:  "Renders one KEY= line per schema variable with type, requiredness and default comments.",
		Args:  cobra.NoArgs,
		RunE:  runExample,
	}

	exampleOutput string
	noComments    bool
	noDefaults    bool
)

func init() {
	exampleCmd.Flags().StringVarP(&exampleOutput, "output", "o", "", "Write to this file instead of stdout")
	exampleCmd.Flags().BoolVar(&noComments, "no-comments", false, "Omit metadata comments")
	exampleCmd.Flags().BoolVar(&noDefaults, "no-defaults", false, "Leave values empty even when a default exists")

	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	g, err := proj.guardian()
	if err != nil {
		return err
	}

	var opts []envguard.ExampleOption
	if noComments {
		opts = append(opts, envguard.WithoutComments())
	}
	if noDefaults {
		opts = append(opts, envguard.WithoutDefaults())
	}
	text := g.GenerateExample(opts...)

	if exampleOutput == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(exampleOutput, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exampleOutput, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", exampleOutput)
	return nil
}
