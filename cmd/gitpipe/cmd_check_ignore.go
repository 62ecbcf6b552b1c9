package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
)

func newCheckIgnoreCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check-ignore <path>...",
		Short: "Report which paths the ignore rules exclude",
		Long: `Report which paths the ignore rules exclude.

Prints the ignored paths. With --explain, every path is listed with
the pattern, source file, and line that decided it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			decisions, derr := repo.CheckIgnore(cmd.Context(), args)
			if derr != nil {
				return derr
			}

			out := cmd.OutOrStdout()
			if verbose {
				table := ui.NewTable(out, "Path", "Ignored", "Pattern", "Source", "Line")
				for _, d := range decisions {
					line := ""
					if d.Line > 0 {
						line = strconv.Itoa(d.Line)
					}
					table.Append(d.Path, strconv.FormatBool(d.Ignored), d.Pattern, d.Source, line)
				}
				table.Render()
				return nil
			}

			ignored := 0
			for _, d := range decisions {
				if d.Ignored {
					fmt.Fprintln(out, d.Path)
					ignored++
				}
			}
			if ignored == 0 {
				fmt.Fprintln(out, ui.Yellow("No paths are ignored"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "explain", false, "Show the pattern, source, and line for every path")

	return cmd
}
