package main

import (
	"fmt"

	"investlab/internal/calculator"
	"investlab/internal/domain"
	"investlab/internal/pricepath"

	"github.com/spf13/cobra"
)

func newPricePathCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricepath",
		Short: "Generate a synthetic price path",
		Long: `Generate a price path for a market regime and print its summary.
Example: sim pricepath --regime volatile --steps 60 --seed 7`,
		RunE: func(c *cobra.Command, args []string) error {
			initial, err := c.Flags().GetFloat64("initial")
			if err != nil {
				return err
			}
			regime, err := c.Flags().GetString("regime")
			if err != nil {
				return err
			}
			steps, err := c.Flags().GetInt("steps")
			if err != nil {
				return err
			}
			verbose, err := c.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			src, err := sourceFlag(c)
			if err != nil {
				return err
			}

			points, err := pricepath.Generate(
				e.cfg.PricePath(),
				initial,
				pricepath.Regime(regime),
				steps,
				src,
			)
			if err != nil {
				return err
			}
			metrics, err := calculator.CalculatePathMetrics(points)
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			title(w, fmt.Sprintf("%s path, %d steps", regime, steps))
			row(w, "seed", src.Seed())
			fmt.Fprintln(w, sparkline(domain.PricesOf(points)))
			row(w, "start", fmt.Sprintf("%.2f", points[0].Price))
			row(w, "end", fmt.Sprintf("%.2f", points[len(points)-1].Price))
			row(w, "total return", signed("%+.2f%%", metrics.TotalReturn*100))
			row(w, "max drawdown", fmt.Sprintf("%.2f%%", metrics.MaxDrawdown*100))
			row(w, "annualized volatility", fmt.Sprintf("%.2f%%", metrics.AnnualizedStdev*100))
			row(w, "range", fmt.Sprintf("%.2f - %.2f", metrics.Min, metrics.Max))

			if verbose {
				for _, p := range points {
					fmt.Fprintf(w, "%4d  %10.2f\n", p.Index, p.Price)
				}
			}
			return nil
		},
	}

	cmd.Flags().Float64("initial", 100, "Initial price")
	cmd.Flags().String("regime", string(pricepath.RegimeSideways), "Market regime")
	cmd.Flags().Int("steps", 30, "Number of steps")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible path")
	cmd.Flags().BoolP("verbose", "v", false, "Print every point")

	return cmd
}
