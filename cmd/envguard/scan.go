package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/analyzer"
	"github.com/jenian/envguard/internal/output"
	"github.com/jenian/envguard/internal/scanner"
	"github.com/jenian/envguard/internal/usage"
)

var (
	scanCmd = &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a codebase for environment variable usages",
		Long: `Recursively scans a directory for environment variable lookups and compares
them with the schema: variables used but not declared, declared but never
used, and lookups whose key is only known at runtime.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}

	silent           bool
	skipUnreferenced bool
	noHeader         bool
	noDynamic        bool
	includeGlobs     []string
	excludeGlobs     []string
)

func init() {
	scanCmd.Flags().BoolVar(&silent, "silent", false, "Silent mode (exit code only)")
	scanCmd.Flags().BoolVar(&skipUnreferenced, "skip-unreferenced", false, "Skip reporting declared variables the code never reads")
	scanCmd.Flags().BoolVar(&noHeader, "no-header", false, "Skip printing the header")
	scanCmd.Flags().BoolVar(&noDynamic, "no-dynamic", false, "Disable dynamic pattern detection (skip partial matches from runtime-evaluated expressions)")
	scanCmd.Flags().StringSliceVar(&includeGlobs, "include", nil, "Glob patterns to include")
	scanCmd.Flags().StringSliceVar(&excludeGlobs, "exclude", nil, "Glob patterns to exclude")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		projectDir = args[0]
	}
	proj, err := loadProject()
	if err != nil {
		return err
	}
	if _, err := os.Stat(proj.root); err != nil {
		return fmt.Errorf("path does not exist: %s", proj.root)
	}
	g, err := proj.guardian()
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if silent {
		stdout, stderr = io.Discard, io.Discard
	}
	p := output.New(stdout)
	defer p.Close()
	p.SetJSON(jsonOutput)
	if !noHeader && !jsonOutput {
		p.Banner(Version)
	}

	usages, err := scanUsages(proj, stderr)
	if err != nil {
		return err
	}
	result := analyzer.Analyze(usages, declaredKeys(g), proj.cfg)

	opts := output.ScanOptions{SkipUnreferenced: skipUnreferenced, Dynamic: !noDynamic}
	if err := p.Scan(result, opts); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if result.HasIssues(opts.SkipUnreferenced, opts.Dynamic) {
		return errIssuesFound
	}
	return nil
}

// scanUsages walks the project and extracts every env lookup. Progress
// goes to progress unless JSON output is requested.
func scanUsages(proj *project, progress io.Writer) ([]usage.Usage, error) {
	if jsonOutput {
		progress = io.Discard
	}

	s := scanner.New()
	if len(includeGlobs) > 0 {
		s.SetIncludeGlobs(includeGlobs)
	}
	if len(excludeGlobs) > 0 {
		s.SetExcludeGlobs(excludeGlobs)
	}
	s.IgnoreFolders(proj.cfg.Ignores.Folders)

	fmt.Fprintf(progress, "Scanning %s...\n", proj.root)
	files, err := s.Scan(proj.root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}
	fmt.Fprintf(progress, "%s\n\n", output.ScanSummary(files))

	return usage.NewExtractor(logger).ExtractAll(files), nil
}
