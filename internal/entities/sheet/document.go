// Package sheet defines the character document persisted by the sheet editor
package sheet

// Document is the root aggregate of a character sheet.
// NOTE: This is a data-only struct. Experience totals are derived by the engine
// package and written back by the store, never computed here.
type Document struct {
	Version                   int                          `json:"version"`
	Header                    map[string]string            `json:"header"`
	AttributeSettings         []AttributeCategory          `json:"attributeSettings"`
	Attributes                map[string][]AttributeEntry  `json:"attributes"`
	SecondaryAttributesActive bool                         `json:"secondaryAttributesActive"`
	SecondaryAttributes       map[string][]AttributeEntry  `json:"secondaryAttributes"`
	Skills                    map[SkillCategory][]DotEntry `json:"skills"`
	Counters                  Counters                     `json:"counters"`
	Advantages                []TraitEntry                 `json:"advantages"`
	Disadvantages             []TraitEntry                 `json:"disadvantages"`
	Reputation                []TraitEntry                 `json:"reputation"`
	Notes                     string                       `json:"notes"`
	Equipment                 string                       `json:"equipment"`
	History                   string                       `json:"history"`
	Library                   []LibraryEntry               `json:"library"`
	CreationConfig            CreationConfig               `json:"creationConfig"`
	XPLogs                    []XPLogEntry                 `json:"xpLogs"`
	AppLogs                   []AppLogEntry                `json:"appLogs"`
	Experience                Experience                   `json:"experience"`
}

// AttributeCategory is a user-defined grouping of attributes such as "Physical"
type AttributeCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// AttributeEntry holds three additive components stored as text so an empty
// field can be displayed. CreationValN records the values at creation time.
type AttributeEntry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Val1         string `json:"val1"`
	Val2         string `json:"val2"`
	Val3         string `json:"val3"`
	CreationVal1 string `json:"creationVal1"`
	CreationVal2 string `json:"creationVal2"`
	CreationVal3 string `json:"creationVal3"`
}

// Total returns the sum of the three components
func (a AttributeEntry) Total() int {
	return ParseRating(a.Val1) + ParseRating(a.Val2) + ParseRating(a.Val3)
}

// DotEntry is a rated line of a skill list or a counter track.
// An entry with an empty name is a spacer row.
type DotEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Value         int    `json:"value"`
	CreationValue int    `json:"creationValue"`
	Current       int    `json:"current"`
	Max           int    `json:"max"`
}

// IsSpacer reports whether the entry is an intentional blank row
func (d DotEntry) IsSpacer() bool {
	return NormalizeName(d.Name) == ""
}

// Counters holds the willpower-like stat tracks
type Counters struct {
	Willpower DotEntry   `json:"willpower"`
	Humanity  DotEntry   `json:"humanity"`
	Custom    []DotEntry `json:"custom"`
}

// TraitEntry is one slot of the advantage, disadvantage or reputation lists
type TraitEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// IsEmpty reports whether the slot is unused
func (t TraitEntry) IsEmpty() bool {
	return NormalizeName(t.Name) == ""
}

// LibraryEntry is a reusable trait definition independent of any character
type LibraryEntry struct {
	ID          string        `json:"id"`
	Type        LibraryType   `json:"type"`
	Name        string        `json:"name"`
	Cost        string        `json:"cost"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Effects     []TraitEffect `json:"effects"`
}

// TraitEffect is a scripted modifier attached to a library entry.
// Target names a skill or attribute for free_skill_rank and attribute_bonus.
type TraitEffect struct {
	ID     string     `json:"id"`
	Type   EffectType `json:"type"`
	Value  float64    `json:"value"`
	Target string     `json:"target,omitempty"`
}

// CreationConfig is the ruleset used by the creation budget validator
type CreationConfig struct {
	Active           bool         `json:"active"`
	Mode             CreationMode `json:"mode"`
	StartingXP       float64      `json:"startingXP"`
	AttributePoints  int          `json:"attributePoints"`
	AttributeCost    float64      `json:"attributeCost"`
	AttributeMin     int          `json:"attributeMin"`
	AttributeMax     int          `json:"attributeMax"`
	BackgroundPoints int          `json:"backgroundPoints"`
	RankSlots        map[int]int  `json:"rankSlots"`
	CardConfig       CardConfig   `json:"cardConfig"`
}

// CardConfig configures the card tier computation
type CardConfig struct {
	Active          bool    `json:"active"`
	BestSkillsCount int     `json:"bestSkillsCount"`
	Increment       float64 `json:"increment"`
	BaseStart       float64 `json:"baseStart"`
}

// XPLogEntry records one experience grant
type XPLogEntry struct {
	ID               string  `json:"id"`
	Date             string  `json:"date"`
	Scenario         string  `json:"scenario"`
	SpendingLocation string  `json:"spendingLocation"`
	Amount           float64 `json:"amount"`
	MJ               string  `json:"mj"`
}

// AppLogEntry is one line of the human-readable audit trail
type AppLogEntry struct {
	ID              string `json:"id"`
	Timestamp       int64  `json:"timestamp"`
	Message         string `json:"message"`
	Type            string `json:"type"`
	Category        string `json:"category"`
	DeduplicationID string `json:"deduplicationId,omitempty"`
}

// Experience holds the derived experience figures.
// Gained is a display string: the log sum, suffixed with " (+N)" when traits grant XP.
type Experience struct {
	Gained    string  `json:"gained"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}
