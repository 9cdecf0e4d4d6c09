package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
)

var (
	attributeComponent int
	attributeSecondary bool
	counterCurrent     int
	skillPosition      int
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one field of the sheet",
}

var setHeaderCmd = &cobra.Command{
	Use:   "header <key> <value>",
	Short: "Set a header field such as name or concept",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apply(cmd, store.SetHeader(args[0], args[1]), &store.AppLogInput{
			Message:         fmt.Sprintf("%s set to %q", args[0], args[1]),
			Category:        "header",
			DeduplicationID: "header-" + args[0],
		})
	},
}

var setSkillCmd = &cobra.Command{
	Use:   "skill <category> <name> <value>",
	Short: "Set the rating of a skill",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseInt("value", args[2])
		if err != nil {
			return err
		}
		category := entity.SkillCategory(args[0])
		return apply(cmd, store.SetSkill(category, args[1], value), &store.AppLogInput{
			Message:         fmt.Sprintf("%s set to %d", args[1], value),
			Category:        "skills",
			DeduplicationID: "skill-" + args[0] + "-" + entity.Slug(args[1]),
		})
	},
}

var setAttributeCmd = &cobra.Command{
	Use:   "attribute <category> <name> <value>",
	Short: "Set a component of an attribute",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		mutation := store.SetAttribute(args[0], args[1], attributeComponent, args[2])
		if attributeSecondary {
			mutation = store.SetSecondaryAttribute(args[0], args[1], attributeComponent, args[2])
		}
		return apply(cmd, mutation, &store.AppLogInput{
			Message:         fmt.Sprintf("%s (%d) set to %s", args[1], attributeComponent, args[2]),
			Category:        "attributes",
			DeduplicationID: fmt.Sprintf("attribute-%s-%s-%d", args[0], entity.Slug(args[1]), attributeComponent),
		})
	},
}

var setSecondaryCmd = &cobra.Command{
	Use:   "secondary <on|off>",
	Short: "Enable or disable secondary attributes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		active, err := strconv.ParseBool(map[string]string{"on": "true", "off": "false"}[args[0]])
		if err != nil {
			return errors.InvalidArgumentf("expected on or off, got %q", args[0])
		}
		return apply(cmd, store.SetSecondaryActive(active), &store.AppLogInput{
			Message:         "Secondary attributes " + args[0],
			Category:        "attributes",
			DeduplicationID: "secondary-active",
		})
	},
}

var setCounterCmd = &cobra.Command{
	Use:   "counter <name> <value>",
	Short: "Set a counter such as willpower; --current sets the pool",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseInt("value", args[1])
		if err != nil {
			return err
		}
		current := counterCurrent
		if current < 0 {
			current = value
		}
		return apply(cmd, store.SetCounter(args[0], value, current), &store.AppLogInput{
			Message:         fmt.Sprintf("%s set to %d (%d)", args[0], value, current),
			Category:        "counters",
			DeduplicationID: "counter-" + entity.Slug(args[0]),
		})
	},
}

var setTextCmd = &cobra.Command{
	Use:   "text <notes|equipment|history> <text>",
	Short: "Replace a free-text section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apply(cmd, store.SetText(store.TextField(args[0]), args[1]), &store.AppLogInput{
			Message:         args[0] + " updated",
			Category:        "text",
			DeduplicationID: "text-" + args[0],
		})
	},
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Add, remove or reorder skills",
}

var skillAddCmd = &cobra.Command{
	Use:   "add <category> [name]",
	Short: "Add a skill, or a spacer row when no name is given",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 2 {
			name = args[1]
		}
		id := newID()
		return apply(cmd, store.AddSkill(entity.SkillCategory(args[0]), id, name), &store.AppLogInput{
			Message:  fmt.Sprintf("Skill %q added to %s", name, args[0]),
			Category: "skills",
		})
	},
}

var skillRemoveCmd = &cobra.Command{
	Use:   "remove <category> <id>",
	Short: "Remove a skill by id",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apply(cmd, store.RemoveSkill(entity.SkillCategory(args[0]), args[1]), &store.AppLogInput{
			Message:  fmt.Sprintf("Skill %s removed from %s", args[1], args[0]),
			Category: "skills",
		})
	},
}

var skillMoveCmd = &cobra.Command{
	Use:   "move <category> <id>",
	Short: "Move a skill to --position within its category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return apply(cmd, store.MoveSkill(entity.SkillCategory(args[0]), args[1], skillPosition), nil)
	},
}

var traitCmd = &cobra.Command{
	Use:   "trait <advantages|disadvantages|reputation> <slot> <name> [value]",
	Short: "Write one trait slot; an empty name clears it",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseInt("slot", args[1])
		if err != nil {
			return err
		}
		value := ""
		if len(args) == 4 {
			value = args[3]
		}
		return apply(cmd, store.SetTrait(store.TraitList(args[0]), index, args[2], value), &store.AppLogInput{
			Message:         fmt.Sprintf("%s slot %d set to %q", args[0], index, args[2]),
			Category:        "traits",
			DeduplicationID: fmt.Sprintf("trait-%s-%d", args[0], index),
		})
	},
}

func apply(cmd *cobra.Command, mutation store.Mutation, log *store.AppLogInput) error {
	output, err := svc.Apply(cmd.Context(), &sheet.ApplyInput{Mutation: mutation, Log: log})
	if err != nil {
		return err
	}

	xp := output.Document.Experience
	fmt.Fprintf(cmd.OutOrStdout(), "Saved. Experience: gained %s, spent %s, remaining %s\n",
		xp.Gained, entity.FormatNumber(xp.Spent), entity.FormatNumber(xp.Remaining))
	return nil
}

func parseInt(field, text string) (int, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be a whole number, got %q", field, text)
	}
	return n, nil
}

func parseAmount(text string) (float64, error) {
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, errors.InvalidArgumentf("amount must be a number, got %q", text)
	}
	return amount, nil
}

func init() {
	setAttributeCmd.Flags().IntVar(&attributeComponent, "component", 1, "component to set (1, 2 or 3)")
	setAttributeCmd.Flags().BoolVar(&attributeSecondary, "secondary", false, "set a secondary attribute")
	setCounterCmd.Flags().IntVar(&counterCurrent, "current", -1, "current pool, defaults to the value")
	skillMoveCmd.Flags().IntVar(&skillPosition, "position", 0, "zero-based target position")

	setCmd.AddCommand(setHeaderCmd)
	setCmd.AddCommand(setSkillCmd)
	setCmd.AddCommand(setAttributeCmd)
	setCmd.AddCommand(setSecondaryCmd)
	setCmd.AddCommand(setCounterCmd)
	setCmd.AddCommand(setTextCmd)

	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillRemoveCmd)
	skillCmd.AddCommand(skillMoveCmd)
}
