package main

import (
	"fmt"
	"io"

	"investlab/internal/crisis"
	"investlab/internal/domain"

	"github.com/spf13/cobra"
)

func newCrisisCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crisis [SCENARIO]",
		Short: "Play a crisis scenario to the end",
		Long: `Play a crisis scenario, taking the same option index at every
decision. Example: sim crisis 2008-financial --choice 3 --seed 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			w := c.OutOrStdout()
			if len(args) == 0 {
				title(w, "crisis scenarios")
				for _, s := range e.catalog.Crises {
					row(w, s.ID, fmt.Sprintf("%s (%d days, %s)", s.Name, s.Duration, s.Severity))
				}
				return nil
			}

			choice, err := choiceFlag(c)
			if err != nil {
				return err
			}
			src, err := sourceFlag(c)
			if err != nil {
				return err
			}
			scenario, err := e.catalog.Crisis(args[0])
			if err != nil {
				return err
			}
			run, err := crisis.Start(scenario, e.cfg.Crisis(), src)
			if err != nil {
				return err
			}

			title(w, scenario.Name)
			row(w, "seed", src.Seed())
			err = run.RunToEnd(func(t domain.DecisionTemplate) int {
				renderDecision(w, t, choice)
				if choice >= len(t.Options) {
					return len(t.Options) - 1
				}
				return choice
			})
			if err != nil {
				return err
			}

			summary := run.Summary()
			market := domain.PricesOf(run.Market)
			fmt.Fprintln(w, sparkline(market))
			row(w, "days", summary.Day)
			row(w, "portfolio value", summary.PortfolioValue.StringFixed(2))
			row(w, "portfolio return", signed("%+.2f%%", summary.PortfolioReturn*100))
			row(w, "market return", signed("%+.2f%%", summary.MarketReturn*100))
			return nil
		},
	}

	cmd.Flags().Int("choice", 0, "Option index to take at every decision")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible run")

	return cmd
}

func renderDecision(w io.Writer, t domain.DecisionTemplate, choice int) {
	body := fmt.Sprintf("%s\n%s\n", t.Title, t.Narrative)
	for i, o := range t.Options {
		marker := " "
		if i == choice {
			marker = ">"
		}
		body += fmt.Sprintf("\n%s %d. %s", marker, i, o.Text)
	}
	fmt.Fprintln(w, decisionStyle.Render(body))
}
