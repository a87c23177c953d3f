package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/catalog"
	"github.com/jonathan/career-guide/internal/schemas"
)

func newCatalogCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and validate the demand, role and course catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd(root), newCatalogSchemaCmd())
	return cmd
}

// catalogSummary is printed by catalog validate.
type catalogSummary struct {
	Source       string `json:"source"`
	Version      string `json:"version"`
	DemandSkills int    `json:"demandSkills"`
	Roles        int    `json:"roles"`
	Courses      int    `json:"courses"`
}

func newCatalogValidateCmd(root *rootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Schema-validate a catalog directory (or the embedded catalogs)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				cfg, err := root.resolve()
				if err != nil {
					return err
				}
				dir = cfg.CatalogDir
			}

			var (
				c   *catalog.Catalog
				err error
			)
			source := "embedded"
			if dir != "" {
				source = dir
				c, err = catalog.LoadDir(dir)
			} else {
				c, err = catalog.Default()
			}
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), "", catalogSummary{
				Source:       source,
				Version:      c.Version(),
				DemandSkills: len(c.DemandSkills()),
				Roles:        len(c.Roles()),
				Courses:      len(c.Courses()),
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Catalog directory (default: CATALOG_DIR or the embedded catalogs)")
	return cmd
}

func newCatalogSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema NAME",
		Short:     "Print an embedded JSON schema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: schemas.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schemas.Source(args[0])
			if err != nil {
				return fmt.Errorf("unknown schema %q (available: %v): %w", args[0], schemas.Names(), err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
