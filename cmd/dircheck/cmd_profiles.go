package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newProfilesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles [dir]",
		Short: "List the profiles available to a directory",
		Long: `List the built-in profiles together with those found in the project's
profiles directory. A project profile with the same name as a built-in one
replaces it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(args)
			if err != nil {
				return err
			}
			cfgFile, _ := cmd.Flags().GetString("config")
			_, catalog, err := loadCatalog(dir, cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetOutputMirror(cmd.OutOrStdout())
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Profile", "Description", "Checks", "Source"})
			for _, p := range catalog.All() {
				source := p.Source
				if source == "" {
					source = "built-in"
				}
				tw.AppendRow(table.Row{p.Name, p.Description, strings.Join(p.IDs(), ", "), source})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().String("config", "", "Path to a config file")
	cmd.Flags().String("profiles-dir", "", "Directory holding project profiles")
	return cmd
}
