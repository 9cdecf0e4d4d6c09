package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// annotationOffline marks commands that never open the storage backend
const annotationOffline = "offline"

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read stdin")
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeNotFound, "failed to read file").WithMeta("path", path)
	}
	return data, nil
}

func printSummary(w io.Writer, doc entity.Document, d engine.Derivation) {
	name := doc.Header["name"]
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%s (schema v%d)\n", name, doc.Version)

	keys := make([]string, 0, len(doc.Header))
	for key := range doc.Header {
		if key != "name" && doc.Header[key] != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "  %-10s %s\n", key+":", doc.Header[key])
	}

	fmt.Fprintf(w, "\nExperience: gained %s, spent %s, remaining %s\n",
		doc.Experience.Gained,
		entity.FormatNumber(d.Spent),
		entity.FormatNumber(d.Remaining))
	if doc.CreationConfig.Active {
		fmt.Fprintf(w, "Creation mode active (%s)\n", doc.CreationConfig.Mode)
	}

	effects := engine.EffectsFor(doc)
	fmt.Fprintln(w, "\nAttributes:")
	for _, category := range doc.AttributeSettings {
		var parts []string
		for _, attr := range doc.Attributes[category.ID] {
			if entity.NormalizeName(attr.Name) == "" {
				continue
			}
			total := engine.AttributeTotal(attr, effects.AttributeBonus(attr.Name))
			parts = append(parts, fmt.Sprintf("%s %d", attr.Name, total))
		}
		fmt.Fprintf(w, "  %-10s %s\n", category.Label, strings.Join(parts, ", "))
	}

	fmt.Fprintln(w, "\nSkills:")
	for _, category := range entity.SkillCategories() {
		var parts []string
		for _, skill := range doc.Skills[category] {
			if skill.IsSpacer() || skill.Value == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s %d", skill.Name, skill.Value))
		}
		if len(parts) > 0 {
			fmt.Fprintf(w, "  %-16s %s\n", category, strings.Join(parts, ", "))
		}
	}

	fmt.Fprintf(w, "\nWillpower %d/%d, Humanity %d\n",
		doc.Counters.Willpower.Current, doc.Counters.Willpower.Value, doc.Counters.Humanity.Value)

	printTraits(w, "Advantages", doc.Advantages)
	printTraits(w, "Disadvantages", doc.Disadvantages)
}

func printTraits(w io.Writer, label string, traits []entity.TraitEntry) {
	var names []string
	for _, t := range traits {
		if t.IsEmpty() {
			continue
		}
		if t.Value != "" {
			names = append(names, fmt.Sprintf("%s (%s)", t.Name, t.Value))
			continue
		}
		names = append(names, t.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(w, "%s: %s\n", label, strings.Join(names, ", "))
	}
}

func printReport(w io.Writer, report engine.CreationReport, cardTier string) {
	fmt.Fprintf(w, "Mode: %s\n", report.Mode)
	if report.Mode == entity.CreationModePoints {
		fmt.Fprintf(w, "Budget: %s XP, spent %s, remaining %s\n",
			entity.FormatNumber(report.StartingXP),
			entity.FormatNumber(report.Spent),
			entity.FormatNumber(report.Remaining))
	}
	for _, pool := range report.Pools {
		marker := ""
		if pool.Over() {
			marker = "  over"
		}
		fmt.Fprintf(w, "  %-12s %s / %s%s\n", pool.Name, entity.FormatNumber(pool.Used), entity.FormatNumber(pool.Limit), marker)
	}
	if cardTier != "" {
		fmt.Fprintf(w, "Card tier: %s\n", cardTier)
	}
	if report.HasErrors() {
		fmt.Fprintln(w, "Errors:")
		for _, e := range report.Errors() {
			fmt.Fprintf(w, "  - %s\n", e)
		}
		return
	}
	fmt.Fprintln(w, "No budget errors")
}
