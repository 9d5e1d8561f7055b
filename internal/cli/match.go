// internal/cli/match.go
package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"capital-match/internal/models"
	em "capital-match/internal/workers/matching/evaluate-match"
	sm "capital-match/internal/workers/matching/simulate-match"
)

func newEvaluateCmd(e *env) *cobra.Command {
	var lpID, dealID string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score one LP against one deal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.context(cmd)
			defer cancel()
			if err := e.load(ctx); err != nil {
				return err
			}

			h := em.NewHandler(em.LoadConfig(), e, e.engine, e.log)
			res, err := h.Execute(ctx, &em.Input{LPID: lpID, DealID: dealID})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.opts.OutputFormat == OutputJSON {
				return e.printJSON(out, res)
			}
			fmt.Fprintf(out, "%s x %s: %.0f%% (%s)\n\n", res.LPID, res.DealID, res.ConfidenceScore, res.Strength)
			if err := printFactors(out, res.Factors); err != nil {
				return err
			}
			if len(res.KeyTalkingPoints) > 0 {
				fmt.Fprintln(out, "\nTalking points:")
				for _, p := range res.KeyTalkingPoints {
					fmt.Fprintf(out, "  - %s\n", p)
				}
			}
			if res.RecommendedApproach != "" {
				fmt.Fprintf(out, "\nApproach: %s\n", res.RecommendedApproach)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lpID, "lp", "", "LP id (required)")
	cmd.Flags().StringVar(&dealID, "deal", "", "deal id (required)")
	_ = cmd.MarkFlagRequired("lp")
	_ = cmd.MarkFlagRequired("deal")
	return cmd
}

func newSimulateCmd(e *env) *cobra.Command {
	var lpID string
	var params models.SimulationParams
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a what-if simulation for an LP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := e.context(cmd)
			defer cancel()
			if err := e.load(ctx); err != nil {
				return err
			}

			h := sm.NewHandler(sm.LoadConfig(), e, e.engine, e.log)
			res, err := h.Execute(ctx, &sm.Input{LPID: lpID, Params: params})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if e.opts.OutputFormat == OutputJSON {
				return e.printJSON(out, res)
			}
			fmt.Fprintf(out, "%s: %.0f%% (%s)\n", res.LPID, res.ConfidenceScore, res.Strength)
			fmt.Fprintf(out, "IRR %.1f%%  EM %.1fx  investment %.0f", res.Params.IRR, res.Params.EquityMultiple, res.Params.InvestmentSize)
			if res.Clamped {
				fmt.Fprint(out, "  (clamped to slider ranges)")
			}
			fmt.Fprintln(out)
			for _, s := range res.SuggestedOptimizations {
				fmt.Fprintf(out, "  - %s\n", s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lpID, "lp", "", "LP id (required)")
	cmd.Flags().Float64Var(&params.IRR, "irr", 15, "target IRR in percent")
	cmd.Flags().Float64Var(&params.EquityMultiple, "em", 2, "target equity multiple")
	cmd.Flags().Float64Var(&params.InvestmentSize, "investment", 2_000_000, "investment size in dollars")
	_ = cmd.MarkFlagRequired("lp")
	return cmd
}

func printFactors(w io.Writer, factors []models.MatchFactor) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTOR\tSCORE\tCONTRIBUTION\tSTRENGTH")
	for _, f := range factors {
		fmt.Fprintf(tw, "%s\t%.0f\t%.1f\t%s\n", f.Factor, f.Score, f.Contribution, f.Strength)
	}
	return tw.Flush()
}
