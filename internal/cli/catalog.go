// internal/cli/catalog.go
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"capital-match/internal/dashboard"
	"capital-match/internal/zoning"
)

func newTopCmd(e *env) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the top LPs by commitment and top deals by match score",
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 1 {
				return fmt.Errorf("--limit must be at least 1")
			}
			ctx, cancel := e.context(cmd)
			defer cancel()
			if err := e.load(ctx); err != nil {
				return err
			}

			lps := dashboard.TopLPs(e.catalog.LPs(), n)
			deals := dashboard.TopDeals(e.catalog.Deals(), n)

			out := cmd.OutOrStdout()
			if e.opts.OutputFormat == OutputJSON {
				return e.printJSON(out, map[string]interface{}{"lps": lps, "deals": deals})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LP\tNAME\tTIER\tCOMMITMENT")
			for _, lp := range lps {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.0f\n", lp.ID, lp.Name, lp.Tier, lp.CommitmentSize)
			}
			fmt.Fprintln(tw)
			fmt.Fprintln(tw, "DEAL\tNAME\tTYPE\tMARKET\tSCORE")
			for _, d := range deals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\n", d.ID, d.Name, d.Type, d.Market, d.MatchScore)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "limit", "n", 3, "number of entries per ranking")
	return cmd
}

func newZoningCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "zoning",
		Short: "Print the zoning lookup OpenAPI descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			if e.opts.OutputFormat == OutputJSON {
				_, err := cmd.OutOrStdout().Write(append(zoning.Descriptor(), '\n'))
				return err
			}
			doc, err := zoning.Document()
			if err != nil {
				return err
			}
			return e.printJSON(cmd.OutOrStdout(), doc)
		},
	}
}
