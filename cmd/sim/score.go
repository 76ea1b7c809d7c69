package main

import (
	"fmt"
	"strconv"
	"strings"

	"investlab/internal/scoring"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newScoreCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score SYMBOL=PERCENT...",
		Short: "Score a portfolio allocation",
		Long: `Score an allocation of the budget across catalog assets.
Example: sim score SPY=60 BND=30 GLD=10`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			budget, err := c.Flags().GetFloat64("budget")
			if err != nil {
				return err
			}
			if !c.Flags().Changed("budget") {
				budget = e.cfg.Budget
			}

			allocation := scoring.NewAllocation(decimal.NewFromFloat(budget))
			for _, arg := range args {
				symbol, pct, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected SYMBOL=PERCENT, got %q", arg)
				}
				percentage, err := strconv.ParseFloat(pct, 64)
				if err != nil {
					return fmt.Errorf("bad percentage in %q: %w", arg, err)
				}
				asset, err := e.catalog.Asset(symbol)
				if err != nil {
					return err
				}
				if err := allocation.Add(asset, percentage); err != nil {
					return err
				}
			}

			score, err := scoring.ScoreAllocation(*allocation, e.cfg.ScoringWeights)
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			title(w, "portfolio")
			for _, h := range allocation.Holdings {
				row(w, h.Asset.Symbol, fmt.Sprintf("%5.1f%%  %s", h.Percentage, h.DollarAmount.StringFixed(2)))
			}
			row(w, "unallocated", allocation.Remaining().StringFixed(2))
			title(w, "score")
			row(w, "diversification", fmt.Sprintf("%.1f", score.Diversification))
			row(w, "risk management", fmt.Sprintf("%.1f", score.Risk))
			row(w, "expected return", fmt.Sprintf("%.1f", score.Return))
			row(w, "overall", score.Composite)
			return nil
		},
	}

	cmd.Flags().Float64("budget", 100_000, "Budget to allocate")

	return cmd
}
