package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/logging"
)

// Version is set at build time via -ldflags
var Version = "dev"

// errIssuesFound makes the process exit with status 1 without printing
// anything beyond the report itself.
var errIssuesFound = errors.New("issues found")

var (
	rootCmd = &cobra.Command{
		Use:   "envguard",
		Short: "Validate environment variables against a declared schema",
		Long: `envguard validates environment variables against a declarative schema,
generates .env.example files, and scans code for variables the schema does not declare.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.New(cmd.ErrOrStderr(), debug)
		},
	}

	// Flags shared by every command
	projectDir string
	schemaPath string
	jsonOutput bool
	debug      bool

	logger = logging.NewNop()
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", ".", "Project directory")
	rootCmd.PersistentFlags().StringVarP(&schemaPath, "schema", "s", "", "Schema file (default: from .envguard.config, else env.schema.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func main() {
	err := rootCmd.Execute()
	if errors.Is(err, errIssuesFound) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
