package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard"
	"github.com/jenian/envguard/internal/envfile"
	"github.com/jenian/envguard/internal/output"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Validate the environment against the schema",
		Long: `Loads .env files and other env sources from the project directory, layers the
exported environment on top, and validates the result against the schema.
Exits with status 1 when any variable is missing or invalid.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	environment  string
	envFiles     []string
	noExported   bool
	noAutoDetect bool
)

func init() {
	checkCmd.Flags().StringVarP(&environment, "environment", "e", "", "Environment name for overrides (default: $APP_ENV, then config)")
	checkCmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Additional env file to load (repeatable)")
	checkCmd.Flags().BoolVar(&noExported, "no-exported", false, "Ignore the exported process environment")
	checkCmd.Flags().BoolVar(&noAutoDetect, "no-auto-detect", false, "Only load .env, .env.local and explicit files")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}
	g, err := proj.guardian()
	if err != nil {
		return err
	}

	loader := envfile.NewLoader(logger)
	loader.SetAutoDetect(!noAutoDetect)
	loader.AddFiles(proj.cfg.EnvFiles...)
	loader.AddFiles(envFiles...)

	sources, err := loader.Sources(proj.root)
	if err != nil {
		return err
	}
	var snapshot envguard.Snapshot
	if noExported {
		snapshot, err = loader.Load(proj.root)
	} else {
		snapshot, err = loader.LoadWithExportedEnv(proj.root, os.Environ())
	}
	if err != nil {
		return err
	}

	env := environment
	if env == "" {
		env = snapshot[envguard.EnvironmentVar]
	}
	if env == "" {
		env = proj.cfg.Environment
	}

	report := output.CheckReport{
		Environment: env,
		Fields:      len(g.Keys()),
	}
	for _, src := range sources {
		report.Sources = append(report.Sources, proj.rel(src))
	}
	for _, fe := range g.Validate(envguard.WithEnv(snapshot), envguard.WithEnvironment(env)) {
		if fe.Kind == envguard.KindMissing && proj.cfg.ShouldIgnoreMissing(fe.Key) {
			report.Ignored = append(report.Ignored, fe.Key)
			continue
		}
		report.Errors = append(report.Errors, fe)
	}

	p := output.New(cmd.OutOrStdout())
	defer p.Close()
	p.SetJSON(jsonOutput)
	if err := p.Check(report); err != nil {
		return err
	}
	if !report.Valid() {
		return errIssuesFound
	}
	return nil
}
