package testutils

// Serialized documents in the shapes older versions of the sheet saved
const (
	// LegacyV1Document predates dynamic attribute categories, counters with
	// ids and the renamed trait lists
	LegacyV1Document = `{
		"header": {"name": "Anaïs", "player": "Camille", "age": 27},
		"attributes": {
			"physical": [{"name": "Strength", "value": "3"}, {"name": "Dexterity", "value": "2"}],
			"social": [{"name": "Charisma", "value": "2"}],
			"mental": [{"name": "Wits", "value": "3"}]
		},
		"skills": {
			"talents": [{"name": "Alertness", "value": 2}, {"name": "Brawl", "value": 1}],
			"knowledges": [{"name": "Academics", "value": 3}]
		},
		"willpower": 5,
		"virtues": ["Brave", "Loyal"],
		"defauts": [{"name": "Greedy", "value": "2"}],
		"notes": ["Met the prince", "", "Owes a favor"],
		"experienceLog": [{"date": "2023-04-01", "scenario": "Prologue", "amount": 12}]
	}`

	// LegacyV5Document has dynamic categories but the old library type names
	LegacyV5Document = `{
		"version": 5,
		"attributeSettings": [{"id": "physical", "label": "Physique"}, {"id": "spirit", "label": "Esprit"}],
		"attributes": {"physical": [{"id": "p1", "name": "Force", "val1": "3", "val2": "", "val3": ""}]},
		"library": [
			{"id": "lib-1", "type": "vertu", "name": "Érudition", "cost": "3", "tags": "savoir,étude",
			 "effects": [{"id": "fx-1", "type": "free_skill_rank", "value": 2, "target": "Academics"}]},
			{"id": "lib-2", "type": "defaut", "name": "Fragile", "effects": []}
		],
		"counters": {
			"willpower": {"id": "counter-willpower", "name": "Willpower", "value": 4, "current": 4, "max": 10},
			"humanity": {"id": "counter-humanity", "name": "Humanity", "value": 6, "current": 6, "max": 10},
			"custom": [{"id": "c-xp", "name": "Experience", "value": 3}]
		},
		"creationConfig": {"active": true, "mode": "points", "startingXP": 100}
	}`

	// LibraryOnlyFile is an exported library projection
	LibraryOnlyFile = `{
		"library": [
			{"id": "lib-erudition", "type": "avantage", "name": "Érudition", "cost": "3",
			 "description": "", "tags": [],
			 "effects": [{"id": "fx-erudition", "type": "free_skill_rank", "value": 3, "target": "Academics"}]}
		]
	}`
)
