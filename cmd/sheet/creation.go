package main

import (
	"fmt"

	"github.com/spf13/cobra"

	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
)

var (
	creationMode  string
	finalizeForce bool

	configStartingXP      float64
	configAttributePoints int
	configAttributeCost   float64
	configAttributeMin    int
	configAttributeMax    int
	configBackgrounds     int
	configRankSlots       map[string]int
	configCard            bool
	configCardBest        int
	configCardIncrement   float64
	configCardBase        float64
)

var creationCmd = &cobra.Command{
	Use:   "creation",
	Short: "Run character creation against a budget",
}

var creationStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Enter creation mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.StartCreation(cmd.Context(), &sheet.StartCreationInput{
			Mode: entity.CreationMode(creationMode),
		})
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), output.Report, "")
		return nil
	},
}

var creationFinalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Leave creation mode and fix the creation baselines",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.FinalizeCreation(cmd.Context(), &sheet.FinalizeCreationInput{Force: finalizeForce})
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), output.Report, "")
		fmt.Fprintln(cmd.OutOrStdout(), "Creation finalized")
		return nil
	},
}

var creationConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Change the creation ruleset; only the given flags change",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		rankSlots := make(map[int]int, len(configRankSlots))
		for rank, slots := range configRankSlots {
			n, err := parseInt("rank", rank)
			if err != nil {
				return err
			}
			rankSlots[n] = slots
		}

		edit := func(cfg *entity.CreationConfig) {
			if flags.Changed("mode") {
				cfg.Mode = entity.CreationMode(creationMode)
			}
			if flags.Changed("starting-xp") {
				cfg.StartingXP = configStartingXP
			}
			if flags.Changed("attribute-points") {
				cfg.AttributePoints = configAttributePoints
			}
			if flags.Changed("attribute-cost") {
				cfg.AttributeCost = configAttributeCost
			}
			if flags.Changed("attribute-min") {
				cfg.AttributeMin = configAttributeMin
			}
			if flags.Changed("attribute-max") {
				cfg.AttributeMax = configAttributeMax
			}
			if flags.Changed("background-points") {
				cfg.BackgroundPoints = configBackgrounds
			}
			if len(rankSlots) > 0 && cfg.RankSlots == nil {
				cfg.RankSlots = make(map[int]int, len(rankSlots))
			}
			for rank, slots := range rankSlots {
				cfg.RankSlots[rank] = slots
			}
			if flags.Changed("card") {
				cfg.CardConfig.Active = configCard
			}
			if flags.Changed("card-best") {
				cfg.CardConfig.BestSkillsCount = configCardBest
			}
			if flags.Changed("card-increment") {
				cfg.CardConfig.Increment = configCardIncrement
			}
			if flags.Changed("card-base") {
				cfg.CardConfig.BaseStart = configCardBase
			}
		}

		return apply(cmd, store.SetCreationConfig(edit), &store.AppLogInput{
			Message:         "Creation ruleset changed",
			Category:        "creation",
			DeduplicationID: "creation-config",
		})
	},
}

func init() {
	creationStartCmd.Flags().StringVar(&creationMode, "mode", "", "points or ranks, keeps the current mode when empty")
	creationFinalizeCmd.Flags().BoolVar(&finalizeForce, "force", false, "finalize even when the budget has errors")

	f := creationConfigCmd.Flags()
	f.StringVar(&creationMode, "mode", "", "points or ranks")
	f.Float64Var(&configStartingXP, "starting-xp", 0, "experience budget in points mode")
	f.IntVar(&configAttributePoints, "attribute-points", 0, "attribute pool in ranks mode")
	f.Float64Var(&configAttributeCost, "attribute-cost", 0, "experience per attribute point")
	f.IntVar(&configAttributeMin, "attribute-min", 0, "lowest allowed attribute")
	f.IntVar(&configAttributeMax, "attribute-max", 0, "highest allowed attribute")
	f.IntVar(&configBackgrounds, "background-points", 0, "background pool in ranks mode")
	f.StringToIntVar(&configRankSlots, "rank-slots", nil, "skills allowed per rank, e.g. 1=4,2=3")
	f.BoolVar(&configCard, "card", false, "enable the card tier")
	f.IntVar(&configCardBest, "card-best", 0, "number of best skills averaged for the card tier")
	f.Float64Var(&configCardIncrement, "card-increment", 0, "average needed per card rank")
	f.Float64Var(&configCardBase, "card-base", 0, "average of the lowest card rank")

	creationCmd.AddCommand(creationStartCmd)
	creationCmd.AddCommand(creationFinalizeCmd)
	creationCmd.AddCommand(creationConfigCmd)
}
