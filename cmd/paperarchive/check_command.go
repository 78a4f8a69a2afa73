package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paperarchive/internal/preflight"
	"paperarchive/internal/services"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check directories, the journal, the scanner and the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg, ctx.log())
			if ctx.jsonOutput() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				for _, r := range results {
					mark := "ok  "
					if !r.Passed {
						mark = "FAIL"
					}
					fmt.Fprintf(out, "%s %-18s %s\n", mark, r.Name, r.Detail)
				}
			}
			if !preflight.Passed(results) {
				return services.Wrap(services.ErrConfiguration, "check", "", "one or more checks failed", nil)
			}
			return nil
		},
	}
}
