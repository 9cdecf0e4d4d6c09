package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
)

var (
	xpDate     string
	xpScenario string
	xpLocation string
	xpGM       string
)

var entryIDs = idgen.NewUUID("")

func newID() string {
	return entryIDs.Generate()
}

var xpCmd = &cobra.Command{
	Use:   "xp",
	Short: "Record or remove experience grants",
}

var xpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List experience grants",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.Get(cmd.Context(), &sheet.GetInput{})
		if err != nil {
			return err
		}

		for _, entry := range output.Document.XPLogs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %6s  %s\n",
				entry.ID, entry.Date, entity.FormatNumber(entry.Amount), entry.Scenario)
		}
		d := output.Derivation
		fmt.Fprintf(cmd.OutOrStdout(), "Total %s, trait bonus %s, remaining %s\n",
			entity.FormatNumber(d.GainedFromLogs), entity.FormatNumber(d.XPBonus), entity.FormatNumber(d.Remaining))
		return nil
	},
}

var xpAddCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Record an experience grant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}

		date := xpDate
		if date == "" {
			date = time.Now().Format(time.DateOnly)
		}
		entry := entity.XPLogEntry{
			ID:               newID(),
			Date:             date,
			Scenario:         xpScenario,
			SpendingLocation: xpLocation,
			Amount:           amount,
			MJ:               xpGM,
		}
		return apply(cmd, store.AddXPLog(entry), &store.AppLogInput{
			Message:  fmt.Sprintf("%s XP recorded for %q", entity.FormatNumber(amount), xpScenario),
			Category: "xp",
		})
	},
}

var xpRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an experience grant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apply(cmd, store.RemoveXPLog(args[0]), &store.AppLogInput{
			Message:  fmt.Sprintf("XP grant %s removed", args[0]),
			Category: "xp",
		})
	},
}

func init() {
	xpAddCmd.Flags().StringVar(&xpDate, "date", "", "date of the session (defaults to today)")
	xpAddCmd.Flags().StringVar(&xpScenario, "scenario", "", "scenario or session name")
	xpAddCmd.Flags().StringVar(&xpLocation, "spent-on", "", "where the experience was spent")
	xpAddCmd.Flags().StringVar(&xpGM, "gm", "", "game master who granted it")

	xpCmd.AddCommand(xpListCmd)
	xpCmd.AddCommand(xpAddCmd)
	xpCmd.AddCommand(xpRemoveCmd)
}
