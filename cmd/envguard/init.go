package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/envguard/internal/config"
	"github.com/jenian/envguard/internal/schemafile"
	"github.com/jenian/envguard/internal/usage"
)

var (
	initSchemaCmd = &cobra.Command{
		Use:   "init-schema",
		Short: "Generate a schema from the variables the code reads",
		Long: `Scans the project for environment variable lookups and writes a schema
declaring each of them, with a type guessed from the variable name.`,
		Args: cobra.NoArgs,
		RunE: runInitSchema,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a .envguard.config file in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject()
			if err != nil {
				return err
			}
			path, err := config.WriteTemplate(proj.root)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", proj.rel(path))
			return nil
		},
	}

	schemaOutput string
	force        bool
)

func init() {
	initSchemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write to this file (\"-\" for stdout; default: the schema path)")
	initSchemaCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing schema file")

	rootCmd.AddCommand(initSchemaCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func runInitSchema(cmd *cobra.Command, args []string) error {
	proj, err := loadProject()
	if err != nil {
		return err
	}

	usages, err := scanUsages(proj, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	data, err := schemafile.Infer(usage.Keys(usages)).Marshal()
	if err != nil {
		return err
	}

	if schemaOutput == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := proj.schema
	if schemaOutput != "" {
		path = schemaOutput
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", proj.rel(path))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", proj.rel(path), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", proj.rel(path))
	return nil
}
