package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
)

var (
	libraryID          string
	libraryType        string
	libraryCost        string
	libraryDescription string
	libraryTags        []string
	libraryEffects     []string
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage reusable trait definitions",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.Get(cmd.Context(), &sheet.GetInput{})
		if err != nil {
			return err
		}

		for _, entry := range output.Document.Library {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-11s %s", entry.ID, entry.Type, entry.Name)
			if entry.Cost != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " (%s)", entry.Cost)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			for _, effect := range entry.Effects {
				fmt.Fprintf(cmd.OutOrStdout(), "    %s %s %s\n", effect.Type, entity.FormatNumber(effect.Value), effect.Target)
			}
		}
		return nil
	},
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a library entry",
	Long: `add stores a library entry. Effects are given as type:value[:target],
for example --effect free_skill_rank:3:Academics or --effect xp_bonus:5.
Passing --id of an existing entry replaces it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := libraryID
		if id == "" {
			id = newID()
		}

		effects := make([]entity.TraitEffect, 0, len(libraryEffects))
		for i, raw := range libraryEffects {
			effect, err := parseEffect(raw)
			if err != nil {
				return err
			}
			effect.ID = fmt.Sprintf("%s-effect-%d", id, i+1)
			effects = append(effects, effect)
		}

		entry := entity.LibraryEntry{
			ID:          id,
			Type:        entity.LibraryType(libraryType),
			Name:        args[0],
			Cost:        libraryCost,
			Description: libraryDescription,
			Tags:        libraryTags,
			Effects:     effects,
		}
		return apply(cmd, store.UpsertLibraryEntry(entry), &store.AppLogInput{
			Message:         fmt.Sprintf("Library entry %q saved", entry.Name),
			Category:        "library",
			DeduplicationID: "library-" + id,
		})
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a library entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apply(cmd, store.RemoveLibraryEntry(args[0]), &store.AppLogInput{
			Message:  fmt.Sprintf("Library entry %s removed", args[0]),
			Category: "library",
		})
	},
}

// parseEffect reads type:value[:target]
func parseEffect(raw string) (entity.TraitEffect, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return entity.TraitEffect{}, errors.InvalidArgumentf("effect %q must be type:value[:target]", raw)
	}

	value, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return entity.TraitEffect{}, errors.InvalidArgumentf("effect %q has a non-numeric value", raw)
	}

	effect := entity.TraitEffect{Type: entity.EffectType(parts[0]), Value: value}
	if len(parts) == 3 {
		effect.Target = parts[2]
	}
	return effect, nil
}

func init() {
	libraryAddCmd.Flags().StringVar(&libraryID, "id", "", "entry id, generated when empty")
	libraryAddCmd.Flags().StringVar(&libraryType, "type", string(entity.LibraryTypeAdvantage), "avantage or desavantage")
	libraryAddCmd.Flags().StringVar(&libraryCost, "cost", "", "display cost")
	libraryAddCmd.Flags().StringVar(&libraryDescription, "description", "", "description")
	libraryAddCmd.Flags().StringSliceVar(&libraryTags, "tag", nil, "tag, repeatable")
	libraryAddCmd.Flags().StringArrayVar(&libraryEffects, "effect", nil, "effect as type:value[:target], repeatable")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
}
