package store

import (
	"reflect"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
)

// dependency selects one part of the document a rule reads
type dependency func(doc sheet.Document) any

// derivedRule recomputes a field when any of its dependencies changed
type derivedRule struct {
	name    string
	deps    []dependency
	compute func(doc sheet.Document) (sheet.Document, bool)
}

// derivedRules run in order after every mutation
var derivedRules = []derivedRule{
	{
		name: "experience",
		deps: []dependency{
			func(d sheet.Document) any { return d.Skills },
			func(d sheet.Document) any { return d.Attributes },
			func(d sheet.Document) any { return d.SecondaryAttributes },
			func(d sheet.Document) any { return d.SecondaryAttributesActive },
			func(d sheet.Document) any { return d.XPLogs },
			func(d sheet.Document) any { return d.AttributeSettings },
			func(d sheet.Document) any { return d.CreationConfig.AttributeCost },
			func(d sheet.Document) any { return d.Advantages },
			func(d sheet.Document) any { return d.Disadvantages },
			func(d sheet.Document) any { return d.Library },
		},
		compute: engine.Recompute,
	},
}

// RuleNames lists the derived rules in evaluation order
func RuleNames() []string {
	names := make([]string, 0, len(derivedRules))
	for _, rule := range derivedRules {
		names = append(names, rule.name)
	}
	return names
}

func applyDerivedRules(prev, next sheet.Document, force bool) sheet.Document {
	for _, rule := range derivedRules {
		if !force && !rule.triggered(prev, next) {
			continue
		}
		next, _ = rule.compute(next)
	}
	return next
}

func (r derivedRule) triggered(prev, next sheet.Document) bool {
	for _, dep := range r.deps {
		if !reflect.DeepEqual(dep(prev), dep(next)) {
			return true
		}
	}
	return false
}
