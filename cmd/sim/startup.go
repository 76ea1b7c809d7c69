package main

import (
	"fmt"

	"investlab/internal/startup"

	"github.com/spf13/cobra"
)

func newStartupCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "startup",
		Short: "Play the startup game to the end",
		Long: `Play the startup game, taking the same option index at every
decision or the first affordable one. Example: sim startup --choice 0 --seed 3`,
		RunE: func(c *cobra.Command, args []string) error {
			choice, err := choiceFlag(c)
			if err != nil {
				return err
			}
			src, err := sourceFlag(c)
			if err != nil {
				return err
			}
			game, err := startup.Start(e.catalog.Startup, e.cfg.Startup(), src)
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			title(w, game.Company.Name)
			row(w, "seed", src.Seed())
			for !game.State.Complete() {
				if !game.State.AwaitingDecision() {
					r, err := game.AdvanceQuarter()
					if err != nil {
						return err
					}
					if r.MarketEvent != nil {
						row(w, fmt.Sprintf("quarter %d", r.Quarter), r.MarketEvent.Title)
					}
					continue
				}

				pending := *game.State.Pending
				renderDecision(w, pending, choice)
				if _, err := decideAffordable(game, choice, len(pending.Options)); err != nil {
					return err
				}
			}

			row(w, "stage", game.Company.Stage)
			row(w, "valuation", fmt.Sprintf("%.0f", game.Company.Valuation))
			row(w, "funding", fmt.Sprintf("%.0f", game.Company.Funding))
			outcome := game.State.EndReason
			if outcome == "" {
				outcome = "survived"
			}
			row(w, "outcome", outcome)
			if game.WentPublic() {
				row(w, "ipo price", game.IPOPrice)
			}
			row(w, "experience", game.ExperiencePoints())
			return nil
		},
	}

	cmd.Flags().Int("choice", 0, "Option index to prefer at every decision")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible game")

	return cmd
}

// decideAffordable tries the preferred option, then every other one
func decideAffordable(game *startup.Game, preferred, n int) (*startup.DecisionResult, error) {
	var lastErr error
	for i := 0; i < n; i++ {
		result, err := game.Decide((preferred + i) % n)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
