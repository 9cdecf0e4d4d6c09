package migration

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

// legacyCounterCreationValue is the creation value given to counters rebuilt
// from the pre-id counter shape
const legacyCounterCreationValue = 1

type step struct {
	name  string
	apply func(*legacyDocument)
}

// steps run in this order. Later steps rely on earlier ones having normalized
// their inputs, and every step is a no-op on an already current document.
var steps = []step{
	{name: "rename_fields", apply: renameFields},
	{name: "coerce_trait_lists", apply: coerceTraitLists},
	{name: "coerce_free_text", apply: coerceFreeText},
	{name: "upgrade_counters", apply: upgradeCounters},
	{name: "upgrade_attributes", apply: upgradeAttributes},
	{name: "backfill_sections", apply: backfillSections},
	{name: "pad_fixed_lists", apply: padFixedLists},
	{name: "ensure_attribute_categories", apply: ensureAttributeCategories},
	{name: "ensure_secondary_attributes", apply: ensureSecondaryAttributes},
	{name: "ensure_skill_categories", apply: ensureSkillCategories},
	{name: "backfill_creation_values", apply: backfillCreationValues},
	{name: "rename_library_types", apply: renameLibraryTypes},
	{name: "remove_obsolete_entries", apply: removeObsoleteEntries},
	{name: "backfill_ids", apply: backfillIDs},
}

// renameFields moves content stored under a historical key to its current key
func renameFields(d *legacyDocument) {
	if d.rawAdvantages == nil && d.rawVirtues != nil {
		d.rawAdvantages = d.rawVirtues
	}
	d.rawVirtues = nil

	if d.rawDisadvantages == nil && d.rawDefauts != nil {
		d.rawDisadvantages = d.rawDefauts
	}
	d.rawDefauts = nil

	if d.xpLogs == nil && d.experienceLog != nil {
		d.xpLogs = d.experienceLog
	}
	d.experienceLog = nil
}

// coerceTraitLists turns lists of plain names into trait records
func coerceTraitLists(d *legacyDocument) {
	if d.advantages == nil {
		d.advantages = traitList(d.rawAdvantages)
	}
	if d.disadvantages == nil {
		d.disadvantages = traitList(d.rawDisadvantages)
	}
	if d.reputation == nil {
		d.reputation = traitList(d.rawReputation)
	}
}

func traitList(raw json.RawMessage) []sheet.TraitEntry {
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	out := make([]sheet.TraitEntry, 0, len(items))
	for _, item := range items {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, sheet.TraitEntry{Name: name})
			continue
		}
		var trait legacyTrait
		if err := json.Unmarshal(item, &trait); err == nil {
			out = append(out, sheet.TraitEntry{Name: string(trait.Name), Value: string(trait.Value)})
			continue
		}
		// keep the slot so positions do not shift
		out = append(out, sheet.TraitEntry{})
	}
	return out
}

// coerceFreeText joins historical array-of-lines fields into a single text.
// Text is never split back into lines.
func coerceFreeText(d *legacyDocument) {
	if d.notes == nil {
		d.notes = freeText(d.rawNotes)
	}
	if d.equipment == nil {
		d.equipment = freeText(d.rawEquipment)
	}
	if d.history == nil {
		d.history = freeText(d.rawHistory)
	}
}

func freeText(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return &text
	}
	var lines []flexText
	if err := json.Unmarshal(raw, &lines); err == nil {
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if strings.TrimSpace(string(line)) != "" {
				kept = append(kept, string(line))
			}
		}
		joined := strings.Join(kept, "\n")
		return &joined
	}
	return nil
}

// upgradeCounters rebuilds counters saved before counters carried an id.
// Custom counters of that shape are discarded in favor of the defaults.
func upgradeCounters(d *legacyDocument) {
	if d.counters != nil {
		return
	}

	if d.rawCounters == nil {
		if d.rawWillpower != nil {
			d.counters = rebuildCounters(d.rawWillpower, nil)
		}
		return
	}

	var set map[string]json.RawMessage
	if err := json.Unmarshal(d.rawCounters, &set); err != nil || set == nil {
		d.warnings = append(d.warnings, "counters: not an object")
		return
	}

	willpower, willpowerCurrent := currentCounter(set["willpower"])
	humanity, humanityCurrent := currentCounter(set["humanity"])
	if !willpowerCurrent || !humanityCurrent {
		d.counters = rebuildCounters(set["willpower"], set["humanity"])
		return
	}

	defaults := sheet.DefaultCounters()
	counters := &legacyCounters{custom: []legacyDot{}}
	counters.willpower = dotFrom(defaults.Willpower)
	if willpower != nil {
		counters.willpower = *willpower
	}
	counters.humanity = dotFrom(defaults.Humanity)
	if humanity != nil {
		counters.humanity = *humanity
	}
	if custom := set["custom"]; !isNull(custom) {
		var dots []legacyDot
		if err := json.Unmarshal(custom, &dots); err == nil {
			counters.custom = dots
		}
	}
	d.counters = counters
}

// currentCounter decodes a counter in the current shape. A missing counter is
// current (nil, true); a counter without an id is legacy (nil, false).
func currentCounter(raw json.RawMessage) (*legacyDot, bool) {
	if isNull(raw) {
		return nil, true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}
	if id, ok := fields["id"]; !ok || isNull(id) {
		return nil, false
	}
	var dot legacyDot
	if err := json.Unmarshal(raw, &dot); err != nil {
		return nil, false
	}
	return &dot, true
}

func rebuildCounters(willpower, humanity json.RawMessage) *legacyCounters {
	defaults := sheet.DefaultCounters()
	return &legacyCounters{
		willpower: rebuildCounter(defaults.Willpower, willpower),
		humanity:  rebuildCounter(defaults.Humanity, humanity),
		custom:    dotsFrom(defaults.Custom),
	}
}

func rebuildCounter(base sheet.DotEntry, raw json.RawMessage) legacyDot {
	value := base.Value
	if v, ok := legacyCounterValue(raw); ok {
		value = v
	}
	base.Value = value
	base.Current = value
	base.CreationValue = legacyCounterCreationValue
	return dotFrom(base)
}

// legacyCounterValue prefers an existing numeric value: either the counter
// itself was a number or it was an object with a value field
func legacyCounterValue(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return int(n), true
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return 0, false
	}
	for _, key := range []string{"value", "max"} {
		if v, ok := fields[key]; ok && !isNull(v) {
			return int(parseNumber(v)), true
		}
	}
	return 0, false
}

// upgradeAttributes moves the single legacy value into the first component
func upgradeAttributes(d *legacyDocument) {
	for _, set := range []map[string][]legacyAttribute{d.attributes, d.secondaryAttributes} {
		for _, entries := range set {
			for i := range entries {
				if entries[i].Val1 == nil && entries[i].Value != nil {
					entries[i].Val1 = entries[i].Value
				}
				entries[i].Value = nil
			}
		}
	}
}

// backfillSections injects factory defaults for every section still missing
func backfillSections(d *legacyDocument) {
	defaults := sheet.Defaults()

	if d.header == nil {
		d.header = make(map[string]flexText, len(sheet.HeaderKeys))
	}
	for _, key := range sheet.HeaderKeys {
		if _, ok := d.header[key]; !ok {
			d.header[key] = ""
		}
	}

	if len(d.attributes) == 0 && len(d.attributeSettings) == 0 {
		d.attributeSettings = categoriesFrom(defaults.AttributeSettings)
		d.attributes = attributeSetFrom(defaults.Attributes)
	}
	if d.attributes == nil {
		d.attributes = make(map[string][]legacyAttribute)
	}
	if d.secondaryAttributes == nil {
		d.secondaryAttributes = make(map[string][]legacyAttribute)
	}
	if d.secondaryActive == nil {
		active := defaults.SecondaryAttributesActive
		d.secondaryActive = &active
	}

	if d.skills == nil {
		d.skills = make(map[string][]legacyDot, len(defaults.Skills))
		for category, entries := range defaults.Skills {
			d.skills[string(category)] = dotsFrom(entries)
		}
	}

	if d.counters == nil {
		d.counters = &legacyCounters{
			willpower: dotFrom(defaults.Counters.Willpower),
			humanity:  dotFrom(defaults.Counters.Humanity),
			custom:    dotsFrom(defaults.Counters.Custom),
		}
	}

	if d.advantages == nil {
		d.advantages = []sheet.TraitEntry{}
	}
	if d.disadvantages == nil {
		d.disadvantages = []sheet.TraitEntry{}
	}
	if d.reputation == nil {
		d.reputation = []sheet.TraitEntry{}
	}

	for _, text := range []**string{&d.notes, &d.equipment, &d.history} {
		if *text == nil {
			empty := ""
			*text = &empty
		}
	}

	if d.library == nil {
		d.library = []legacyLibraryEntry{}
	}
	if d.creationConfig == nil {
		d.creationConfig = &legacyCreationConfig{}
	}
	if d.xpLogs == nil {
		d.xpLogs = []legacyXPLog{}
	}
	if d.appLogs == nil {
		d.appLogs = []legacyAppLog{}
	}
	if d.experience == nil {
		d.experience = &legacyExperience{
			Gained:    flexText(defaults.Experience.Gained),
			Spent:     flexNumber(defaults.Experience.Spent),
			Remaining: flexNumber(defaults.Experience.Remaining),
		}
	}
}

// padFixedLists right-pads the fixed-length lists. Longer lists are kept.
func padFixedLists(d *legacyDocument) {
	d.advantages = padTraits(d.advantages, sheet.TraitSlots)
	d.disadvantages = padTraits(d.disadvantages, sheet.TraitSlots)
	d.reputation = padTraits(d.reputation, sheet.ReputationSlots)
}

func padTraits(traits []sheet.TraitEntry, size int) []sheet.TraitEntry {
	for len(traits) < size {
		traits = append(traits, sheet.TraitEntry{})
	}
	return traits
}

// legacyCategoryOrder is the order of the fixed categories used before
// categories became user defined
var legacyCategoryOrder = []string{"physical", "social", "mental"}

// ensureAttributeCategories makes attributeSettings and attributes agree:
// every setting has a bucket and every bucket has a setting
func ensureAttributeCategories(d *legacyDocument) {
	seen := make(map[string]bool, len(d.attributeSettings))
	settings := make([]legacyCategory, 0, len(d.attributeSettings))

	for _, category := range d.attributeSettings {
		id := strings.TrimSpace(string(category.ID))
		label := strings.TrimSpace(string(category.Label))
		if id == "" {
			id = sheet.Slug(label)
		}
		if id == "" || seen[id] {
			continue
		}
		if label == "" {
			label = categoryLabel(id)
		}
		seen[id] = true
		settings = append(settings, legacyCategory{ID: flexText(id), Label: flexText(label)})
	}

	for _, id := range orderedKeys(d.attributes) {
		if seen[id] {
			continue
		}
		seen[id] = true
		settings = append(settings, legacyCategory{ID: flexText(id), Label: flexText(categoryLabel(id))})
	}

	d.attributeSettings = settings
	for _, category := range settings {
		id := string(category.ID)
		if d.attributes[id] == nil {
			d.attributes[id] = []legacyAttribute{}
		}
	}
}

// orderedKeys returns the legacy fixed categories first, then the rest sorted
func orderedKeys(set map[string][]legacyAttribute) []string {
	keys := make([]string, 0, len(set))
	for _, id := range legacyCategoryOrder {
		if _, ok := set[id]; ok {
			keys = append(keys, id)
		}
	}
	var rest []string
	for id := range set {
		if !contains(legacyCategoryOrder, id) && strings.TrimSpace(id) != "" {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func categoryLabel(id string) string {
	return cases.Title(language.Und).String(strings.ReplaceAll(id, "-", " "))
}

// ensureSecondaryAttributes gives every category a secondary bucket
func ensureSecondaryAttributes(d *legacyDocument) {
	for _, category := range d.attributeSettings {
		id := string(category.ID)
		if d.secondaryAttributes[id] != nil {
			continue
		}
		d.secondaryAttributes[id] = attributesFrom(sheet.PlaceholderAttributes(id))
	}
}

// ensureSkillCategories makes every schema category present
func ensureSkillCategories(d *legacyDocument) {
	for _, category := range sheet.SkillCategories() {
		if d.skills[string(category)] == nil {
			d.skills[string(category)] = []legacyDot{}
		}
	}
}

// backfillCreationValues fills properties added after documents were first
// saved. Legacy data predates creation budgets so no rank is assumed free.
func backfillCreationValues(d *legacyDocument) {
	for _, entries := range d.skills {
		for i := range entries {
			backfillDot(&entries[i], sheet.DefaultSkillMax, false)
		}
	}

	backfillDot(&d.counters.willpower, sheet.DefaultCounterMax, true)
	backfillDot(&d.counters.humanity, sheet.DefaultCounterMax, true)
	for i := range d.counters.custom {
		backfillDot(&d.counters.custom[i], sheet.DefaultCounterMax, true)
	}

	for _, set := range []map[string][]legacyAttribute{d.attributes, d.secondaryAttributes} {
		for _, entries := range set {
			for i := range entries {
				backfillAttribute(&entries[i])
			}
		}
	}
}

func backfillDot(dot *legacyDot, maxValue int, counter bool) {
	if dot.Value == nil {
		dot.Value = intPtr(0)
	}
	if dot.CreationValue == nil {
		dot.CreationValue = intPtr(0)
	}
	if dot.Max == nil || *dot.Max <= 0 {
		dot.Max = intPtr(maxValue)
	}
	if dot.Current == nil {
		current := 0
		if counter {
			current = int(*dot.Value)
		}
		dot.Current = intPtr(current)
	}
}

func backfillAttribute(attr *legacyAttribute) {
	for _, field := range []**flexText{
		&attr.Val1, &attr.Val2, &attr.Val3,
		&attr.CreationVal1, &attr.CreationVal2, &attr.CreationVal3,
	} {
		if *field == nil {
			empty := flexText("")
			*field = &empty
		}
	}
}

// renameLibraryTypes maps historical library type names to the current ones
func renameLibraryTypes(d *legacyDocument) {
	for i := range d.library {
		d.library[i].Type = flexText(libraryType(string(d.library[i].Type)))
	}
}

func libraryType(value string) string {
	switch sheet.NormalizeName(value) {
	case "vertu", "avantage", "advantage":
		return string(sheet.LibraryTypeAdvantage)
	case "defaut", "défaut", "desavantage", "désavantage", "disadvantage":
		return string(sheet.LibraryTypeDisadvantage)
	default:
		return strings.TrimSpace(value)
	}
}

type entryScope int

const (
	scopeCustomCounters entryScope = iota
	scopeSkills
)

// obsoleteEntry names a custom entry removed from every document
type obsoleteEntry struct {
	scope entryScope
	name  string
}

// obsoleteEntries lists one-time cleanups. Add a line to remove another entry.
var obsoleteEntries = []obsoleteEntry{
	{scope: scopeCustomCounters, name: "Experience"},
}

func removeObsoleteEntries(d *legacyDocument) {
	for _, obsolete := range obsoleteEntries {
		switch obsolete.scope {
		case scopeCustomCounters:
			d.counters.custom = withoutName(d.counters.custom, obsolete.name)
		case scopeSkills:
			for category, entries := range d.skills {
				d.skills[category] = withoutName(entries, obsolete.name)
			}
		}
	}
}

func withoutName(dots []legacyDot, name string) []legacyDot {
	out := dots[:0]
	for _, dot := range dots {
		if sheet.SameName(string(dot.Name), name) {
			continue
		}
		out = append(out, dot)
	}
	return out
}

// backfillIDs assigns ids derived from the entry position so that migrating
// the same input twice yields the same ids
func backfillIDs(d *legacyDocument) {
	for category, entries := range d.skills {
		for i := range entries {
			ensureID(&entries[i].ID, "skill", category, strconv.Itoa(i), string(entries[i].Name))
		}
	}

	for _, set := range []struct {
		scope string
		attrs map[string][]legacyAttribute
	}{
		{"attribute", d.attributes},
		{"secondary-attribute", d.secondaryAttributes},
	} {
		for category, entries := range set.attrs {
			for i := range entries {
				ensureID(&entries[i].ID, set.scope, category, strconv.Itoa(i), string(entries[i].Name))
			}
		}
	}

	for i := range d.counters.custom {
		ensureID(&d.counters.custom[i].ID, "counter", strconv.Itoa(i), string(d.counters.custom[i].Name))
	}

	for i := range d.library {
		entry := &d.library[i]
		ensureID(&entry.ID, "library", strconv.Itoa(i), string(entry.Name))
		for j := range entry.Effects {
			ensureID(&entry.Effects[j].ID, "effect", string(*entry.ID), strconv.Itoa(j))
		}
	}

	for i := range d.xpLogs {
		ensureID(&d.xpLogs[i].ID, "xp", strconv.Itoa(i), string(d.xpLogs[i].Date), string(d.xpLogs[i].Scenario))
	}
	for i := range d.appLogs {
		ensureID(&d.appLogs[i].ID, "log", strconv.Itoa(i), string(d.appLogs[i].Message))
	}
}

func ensureID(id **flexText, parts ...string) {
	if *id != nil && strings.TrimSpace(string(**id)) != "" {
		return
	}
	derived := flexText(idgen.Derive(parts...))
	*id = &derived
}

func intPtr(v int) *flexInt {
	f := flexInt(v)
	return &f
}

func textPtr(v string) *flexText {
	f := flexText(v)
	return &f
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
