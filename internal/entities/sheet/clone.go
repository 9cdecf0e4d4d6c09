package sheet

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of the document. Mutations always work on a clone
// so a document value handed out by the store never changes.
func (d Document) Clone() Document {
	out := d
	out.Header = maps.Clone(d.Header)
	out.AttributeSettings = slices.Clone(d.AttributeSettings)
	out.Attributes = cloneAttributeMap(d.Attributes)
	out.SecondaryAttributes = cloneAttributeMap(d.SecondaryAttributes)
	if d.Skills != nil {
		out.Skills = make(map[SkillCategory][]DotEntry, len(d.Skills))
		for category, entries := range d.Skills {
			out.Skills[category] = slices.Clone(entries)
		}
	}
	out.Counters.Custom = slices.Clone(d.Counters.Custom)
	out.Advantages = slices.Clone(d.Advantages)
	out.Disadvantages = slices.Clone(d.Disadvantages)
	out.Reputation = slices.Clone(d.Reputation)
	out.Library = CloneLibrary(d.Library)
	out.CreationConfig.RankSlots = maps.Clone(d.CreationConfig.RankSlots)
	out.XPLogs = slices.Clone(d.XPLogs)
	out.AppLogs = slices.Clone(d.AppLogs)
	return out
}

// CloneLibrary deep copies library entries including tags and effects
func CloneLibrary(lib []LibraryEntry) []LibraryEntry {
	if lib == nil {
		return nil
	}
	out := make([]LibraryEntry, len(lib))
	for i, entry := range lib {
		entry.Tags = slices.Clone(entry.Tags)
		entry.Effects = slices.Clone(entry.Effects)
		out[i] = entry
	}
	return out
}

func cloneAttributeMap(in map[string][]AttributeEntry) map[string][]AttributeEntry {
	if in == nil {
		return nil
	}
	out := make(map[string][]AttributeEntry, len(in))
	for key, entries := range in {
		out[key] = slices.Clone(entries)
	}
	return out
}
