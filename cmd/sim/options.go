package main

import (
	"fmt"
	"strconv"
	"strings"

	"investlab/internal/domain"
	"investlab/internal/options"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// parsePosition reads CONTRACT:QUANTITY:SIDE, eg 2:1:buy
func parsePosition(s string) (string, int, domain.PositionSide, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return "", 0, "", fmt.Errorf("expected CONTRACT:QUANTITY:SIDE, got %q", s)
	}
	quantity, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", fmt.Errorf("bad quantity in %q: %w", s, err)
	}
	return parts[0], quantity, domain.PositionSide(parts[2]), nil
}

func newOptionsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options CONTRACT:QUANTITY:SIDE...",
		Short: "Open option positions and show their payoff",
		Long: `Open positions against the catalog option chain and print the
expiration payoff. Example: sim options 1:1:buy 3:1:sell --at 180`,
		RunE: func(c *cobra.Command, args []string) error {
			w := c.OutOrStdout()
			spot := e.catalog.Spot()
			if len(args) == 0 {
				title(w, fmt.Sprintf("option chain, spot %.2f", spot))
				for _, contract := range e.catalog.Options {
					q := options.QuoteContract(contract, spot, e.cfg.RetentionFactor)
					row(w, contract.ID, fmt.Sprintf("%-4s %7.2f  premium %6.2f  value %6.2f",
						contract.Type, contract.Strike, contract.Premium, q.ApproximateCurrentValue))
				}
				return nil
			}

			cash, _ := c.Flags().GetFloat64("cash")
			if !c.Flags().Changed("cash") {
				cash = e.cfg.StartingCash
			}
			book := options.NewBook(options.NewBookInput{
				Chain:           e.catalog.Options,
				UnderlyingPrice: spot,
				StartingCash:    decimal.NewFromFloat(cash),
				RetentionFactor: e.cfg.RetentionFactor,
			})
			for _, arg := range args {
				contractID, quantity, side, err := parsePosition(arg)
				if err != nil {
					return err
				}
				if _, err := book.OpenPosition(contractID, quantity, side); err != nil {
					return err
				}
			}
			if c.Flags().Changed("at") {
				at, _ := c.Flags().GetFloat64("at")
				book.SetUnderlyingPrice(at)
			}

			curve, err := book.PayoffCurve(options.DefaultPriceRange(spot))
			if err != nil {
				return err
			}
			profits := make([]float64, 0, len(curve))
			for _, p := range curve {
				profits = append(profits, p.Profit)
			}

			title(w, "payoff at expiration")
			fmt.Fprintln(w, sparkline(profits))
			for _, b := range options.Breakevens(curve) {
				row(w, "breakeven", fmt.Sprintf("%.2f", b))
			}
			title(w, fmt.Sprintf("book at %.2f", book.UnderlyingPrice()))
			row(w, "cash", book.Cash.StringFixed(2))
			row(w, "unrealized p&l", signed("%+.2f", book.UnrealizedPnL().InexactFloat64()))
			row(w, "total p&l", signed("%+.2f", book.TotalPnL().InexactFloat64()))
			row(w, "experience", options.ExperiencePoints(book.TotalPnL()))
			return nil
		},
	}

	cmd.Flags().Float64("cash", 10_000, "Starting cash")
	cmd.Flags().Float64("at", 0, "Move the underlying to this price before valuing the book")

	return cmd
}
