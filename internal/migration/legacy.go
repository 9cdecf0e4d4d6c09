package migration

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// legacyDocument is every shape a persisted document has had. Sections are
// optional: nil means the key was absent or could not be decoded. Raw sections
// hold fields whose JSON type changed over time and are resolved by the steps.
type legacyDocument struct {
	version             *flexInt
	header              map[string]flexText
	attributeSettings   []legacyCategory
	attributes          map[string][]legacyAttribute
	secondaryActive     *bool
	secondaryAttributes map[string][]legacyAttribute
	skills              map[string][]legacyDot
	library             []legacyLibraryEntry
	creationConfig      *legacyCreationConfig
	xpLogs              []legacyXPLog
	experienceLog       []legacyXPLog
	appLogs             []legacyAppLog
	experience          *legacyExperience

	rawCounters      json.RawMessage
	rawWillpower     json.RawMessage
	rawAdvantages    json.RawMessage
	rawDisadvantages json.RawMessage
	rawVirtues       json.RawMessage
	rawDefauts       json.RawMessage
	rawReputation    json.RawMessage
	rawNotes         json.RawMessage
	rawEquipment     json.RawMessage
	rawHistory       json.RawMessage

	// resolved by the steps
	advantages    []sheet.TraitEntry
	disadvantages []sheet.TraitEntry
	reputation    []sheet.TraitEntry
	notes         *string
	equipment     *string
	history       *string
	counters      *legacyCounters

	// warnings collects sections that were present but unreadable
	warnings []string
}

type legacyCategory struct {
	ID    flexText `json:"id"`
	Label flexText `json:"label"`
}

type legacyAttribute struct {
	ID           *flexText `json:"id"`
	Name         flexText  `json:"name"`
	Value        *flexText `json:"value"`
	Val1         *flexText `json:"val1"`
	Val2         *flexText `json:"val2"`
	Val3         *flexText `json:"val3"`
	CreationVal1 *flexText `json:"creationVal1"`
	CreationVal2 *flexText `json:"creationVal2"`
	CreationVal3 *flexText `json:"creationVal3"`
}

type legacyDot struct {
	ID            *flexText `json:"id"`
	Name          flexText  `json:"name"`
	Value         *flexInt  `json:"value"`
	CreationValue *flexInt  `json:"creationValue"`
	Current       *flexInt  `json:"current"`
	Max           *flexInt  `json:"max"`
}

// UnmarshalJSON accepts a bare name as well as the record form
func (d *legacyDot) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*d = legacyDot{Name: flexText(name)}
		return nil
	}
	type plain legacyDot
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = legacyDot(p)
	return nil
}

type legacyCounters struct {
	willpower legacyDot
	humanity  legacyDot
	custom    []legacyDot
}

type legacyTrait struct {
	Name  flexText `json:"name"`
	Value flexText `json:"value"`
}

type legacyLibraryEntry struct {
	ID          *flexText      `json:"id"`
	Type        flexText       `json:"type"`
	Name        flexText       `json:"name"`
	Cost        flexText       `json:"cost"`
	Description flexText       `json:"description"`
	Tags        flexTags       `json:"tags"`
	Effects     []legacyEffect `json:"effects"`
}

type legacyEffect struct {
	ID     *flexText  `json:"id"`
	Type   flexText   `json:"type"`
	Value  flexNumber `json:"value"`
	Target flexText   `json:"target"`
}

type legacyCreationConfig struct {
	Active           *bool              `json:"active"`
	Mode             *flexText          `json:"mode"`
	StartingXP       *flexNumber        `json:"startingXP"`
	AttributePoints  *flexInt           `json:"attributePoints"`
	AttributeCost    *flexNumber        `json:"attributeCost"`
	AttributeMin     *flexInt           `json:"attributeMin"`
	AttributeMax     *flexInt           `json:"attributeMax"`
	BackgroundPoints *flexInt           `json:"backgroundPoints"`
	RankSlots        map[string]flexInt `json:"rankSlots"`
	CardConfig       *legacyCardConfig  `json:"cardConfig"`
}

type legacyCardConfig struct {
	Active          *bool       `json:"active"`
	BestSkillsCount *flexInt    `json:"bestSkillsCount"`
	Increment       *flexNumber `json:"increment"`
	BaseStart       *flexNumber `json:"baseStart"`
}

type legacyXPLog struct {
	ID               *flexText  `json:"id"`
	Date             flexText   `json:"date"`
	Scenario         flexText   `json:"scenario"`
	SpendingLocation flexText   `json:"spendingLocation"`
	Amount           flexNumber `json:"amount"`
	MJ               flexText   `json:"mj"`
}

type legacyAppLog struct {
	ID              *flexText  `json:"id"`
	Timestamp       flexNumber `json:"timestamp"`
	Message         flexText   `json:"message"`
	Type            flexText   `json:"type"`
	Category        flexText   `json:"category"`
	DeduplicationID flexText   `json:"deduplicationId"`
}

type legacyExperience struct {
	Gained    flexText   `json:"gained"`
	Spent     flexNumber `json:"spent"`
	Remaining flexNumber `json:"remaining"`
}

// decode reads the top level object and every known section independently
func decode(data []byte) (*legacyDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.InvalidArgument("document is empty")
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "document is not a JSON object")
	}
	if top == nil {
		return nil, errors.InvalidArgument("document is null")
	}

	doc := &legacyDocument{}
	doc.version = section[*flexInt](doc, top, "version")
	doc.header = section[map[string]flexText](doc, top, "header")
	doc.attributeSettings = section[[]legacyCategory](doc, top, "attributeSettings")
	doc.attributes = buckets[legacyAttribute](doc, top, "attributes")
	doc.secondaryActive = section[*bool](doc, top, "secondaryAttributesActive")
	doc.secondaryAttributes = buckets[legacyAttribute](doc, top, "secondaryAttributes")
	doc.skills = buckets[legacyDot](doc, top, "skills")
	doc.library = section[[]legacyLibraryEntry](doc, top, "library")
	doc.creationConfig = section[*legacyCreationConfig](doc, top, "creationConfig")
	doc.xpLogs = section[[]legacyXPLog](doc, top, "xpLogs")
	doc.experienceLog = section[[]legacyXPLog](doc, top, "experienceLog")
	doc.appLogs = section[[]legacyAppLog](doc, top, "appLogs")
	doc.experience = section[*legacyExperience](doc, top, "experience")

	doc.rawCounters = raw(top, "counters")
	doc.rawWillpower = raw(top, "willpower")
	doc.rawAdvantages = raw(top, "advantages")
	doc.rawDisadvantages = raw(top, "disadvantages")
	doc.rawVirtues = raw(top, "virtues")
	doc.rawDefauts = raw(top, "defauts")
	doc.rawReputation = raw(top, "reputation")
	doc.rawNotes = raw(top, "notes")
	doc.rawEquipment = raw(top, "equipment")
	doc.rawHistory = raw(top, "history")

	return doc, nil
}

// section decodes one key. A section that does not decode is dropped and
// recorded as a warning so the backfill steps treat it as absent.
func section[T any](d *legacyDocument, top map[string]json.RawMessage, key string) T {
	var out T
	value := raw(top, key)
	if value == nil {
		return out
	}
	if err := json.Unmarshal(value, &out); err != nil {
		d.warnings = append(d.warnings, key+": "+err.Error())
		var zero T
		return zero
	}
	return out
}

// buckets decodes a section keyed by category one bucket at a time, so a
// malformed bucket drops only itself.
func buckets[T any](d *legacyDocument, top map[string]json.RawMessage, key string) map[string][]T {
	parts := section[map[string]json.RawMessage](d, top, key)
	if parts == nil {
		return nil
	}

	out := make(map[string][]T, len(parts))
	for name, value := range parts {
		var entries []T
		if err := json.Unmarshal(value, &entries); err != nil {
			d.warnings = append(d.warnings, key+"."+name+": "+err.Error())
			continue
		}
		if entries == nil {
			entries = []T{}
		}
		out[name] = entries
	}
	return out
}

// raw returns the section or nil when absent or null
func raw(top map[string]json.RawMessage, key string) json.RawMessage {
	value, ok := top[key]
	if !ok || isNull(value) {
		return nil
	}
	return value
}

func isNull(value json.RawMessage) bool {
	trimmed := bytes.TrimSpace(value)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// flexInt decodes numbers, numeric strings and anything else as 0
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt(int(parseNumber(data)))
	return nil
}

// flexNumber decodes numbers and numeric strings
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	*f = flexNumber(parseNumber(data))
	return nil
}

// flexText decodes strings as-is, numbers as their text, anything else as ""
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexText(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexText(sheet.FormatNumber(n))
		return nil
	}
	*f = ""
	return nil
}

// flexTags decodes a list of tags or a comma separated string
type flexTags []string

func (f *flexTags) UnmarshalJSON(data []byte) error {
	var list []flexText
	if err := json.Unmarshal(data, &list); err == nil {
		tags := make([]string, 0, len(list))
		for _, tag := range list {
			if t := strings.TrimSpace(string(tag)); t != "" {
				tags = append(tags, t)
			}
		}
		*f = tags
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		tags := []string{}
		for _, part := range strings.Split(s, ",") {
			if t := strings.TrimSpace(part); t != "" {
				tags = append(tags, t)
			}
		}
		*f = tags
		return nil
	}
	*f = []string{}
	return nil
}

func parseNumber(data []byte) float64 {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if v, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	}
	return 0
}
