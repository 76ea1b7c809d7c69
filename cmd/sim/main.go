package main

import (
	"fmt"
	"os"

	"investlab/cmd"
	"investlab/internal/catalog"
	"investlab/internal/config"
	"investlab/internal/rng"

	"github.com/spf13/cobra"
)

type env struct {
	cfg     config.Config
	catalog *catalog.Catalog
}

func newRootCmd() *cobra.Command {
	e := &env{}

	rootCmd := &cobra.Command{
		Use:   "sim",
		Short: "Run investlab simulations from the terminal",
		Long: `sim drives the same simulation core as the API: price paths,
crisis scenarios, portfolio scores, option payoffs and the startup game.`,
		SilenceUsage: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cat, err := cmd.LoadCatalog(*cfg)
			if err != nil {
				return err
			}
			e.cfg = *cfg
			e.catalog = cat
			return nil
		},
	}

	rootCmd.AddCommand(newPricePathCmd(e))
	rootCmd.AddCommand(newCrisisCmd(e))
	rootCmd.AddCommand(newScoreCmd(e))
	rootCmd.AddCommand(newOptionsCmd(e))
	rootCmd.AddCommand(newStartupCmd(e))

	return rootCmd
}

// sourceFlag seeds from --seed, or from a fresh seed when it wasn't
// passed
func sourceFlag(c *cobra.Command) (*rng.Seeded, error) {
	seed, err := seedFlag(c)
	if err != nil {
		return nil, err
	}
	if seed == nil {
		return rng.New(), nil
	}
	return rng.NewSeeded(*seed), nil
}

// choiceFlag is the option index to prefer at every decision
func choiceFlag(c *cobra.Command) (int, error) {
	choice, err := c.Flags().GetInt("choice")
	if err != nil {
		return 0, err
	}
	if choice < 0 {
		return 0, fmt.Errorf("--choice must be >= 0, got %d", choice)
	}
	return choice, nil
}

// seedFlag is nil unless --seed was passed
func seedFlag(c *cobra.Command) (*uint64, error) {
	if !c.Flags().Changed("seed") {
		return nil, nil
	}
	seed, err := c.Flags().GetUint64("seed")
	if err != nil {
		return nil, err
	}
	return &seed, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
