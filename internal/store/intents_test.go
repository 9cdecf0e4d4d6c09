package store_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
)

type IntentsTestSuite struct {
	suite.Suite
	doc sheet.Document
}

func TestIntentsSuite(t *testing.T) {
	suite.Run(t, new(IntentsTestSuite))
}

func (s *IntentsTestSuite) SetupTest() {
	s.doc = sheet.Defaults()
}

func (s *IntentsTestSuite) apply(m store.Mutation) (sheet.Document, error) {
	return m(s.doc.Clone())
}

func (s *IntentsTestSuite) TestMutationErrors() {
	testCases := []struct {
		name     string
		mutation store.Mutation
		check    func(error) bool
	}{
		{"header without key", store.SetHeader(" ", "x"), errors.IsInvalidArgument},
		{"skill above max", store.SetSkill(sheet.SkillCategoryTalents, "Brawl", 6), errors.IsInvalidArgument},
		{"negative skill", store.SetSkill(sheet.SkillCategoryTalents, "Brawl", -1), errors.IsInvalidArgument},
		{"unknown skill", store.SetSkill(sheet.SkillCategoryTalents, "Juggling", 1), errors.IsNotFound},
		{"duplicate skill", store.AddSkill(sheet.SkillCategoryTalents, "new", "brawl"), errors.IsFailedPrecondition},
		{"skill without id", store.AddSkill(sheet.SkillCategoryTalents, "", "Juggling"), errors.IsInvalidArgument},
		{"remove missing skill", store.RemoveSkill(sheet.SkillCategoryTalents, "missing"), errors.IsNotFound},
		{"move out of range", store.MoveSkill(sheet.SkillCategoryTalents, "talents-brawl", 40), errors.IsInvalidArgument},
		{"attribute component", store.SetAttribute("physical", "Strength", 4, "2"), errors.IsInvalidArgument},
		{"attribute not numeric", store.SetAttribute("physical", "Strength", 1, "lots"), errors.IsInvalidArgument},
		{"unknown attribute", store.SetAttribute("physical", "Luck", 1, "2"), errors.IsNotFound},
		{"unknown trait list", store.SetTrait("merits", 0, "x", ""), errors.IsInvalidArgument},
		{"reputation index", store.SetTrait(store.TraitListReputation, sheet.ReputationSlots, "x", ""), errors.IsInvalidArgument},
		{"xp log without id", store.AddXPLog(sheet.XPLogEntry{Amount: 5}), errors.IsInvalidArgument},
		{"remove missing xp log", store.RemoveXPLog("missing"), errors.IsNotFound},
		{"invalid library entry", store.UpsertLibraryEntry(sheet.LibraryEntry{ID: "x"}), errors.IsInvalidArgument},
		{"remove missing library entry", store.RemoveLibraryEntry("missing"), errors.IsNotFound},
		{"unknown counter", store.SetCounter("Rage", 1, 1), errors.IsNotFound},
		{"counter above max", store.SetCounter("willpower", 11, 1), errors.IsInvalidArgument},
		{"counter current above value", store.SetCounter("willpower", 3, 9), errors.IsInvalidArgument},
		{"counter current negative", store.SetCounter("humanity", 3, -1), errors.IsInvalidArgument},
		{"unknown text field", store.SetText("diary", "x"), errors.IsInvalidArgument},
		{
			"creation mode",
			store.SetCreationConfig(func(cfg *sheet.CreationConfig) { cfg.Mode = "freeform" }),
			errors.IsInvalidArgument,
		},
		{
			"creation min above max",
			store.SetCreationConfig(func(cfg *sheet.CreationConfig) { cfg.AttributeMin = 4; cfg.AttributeMax = 3 }),
			errors.IsInvalidArgument,
		},
		{"creation edit missing", store.SetCreationConfig(nil), errors.IsInvalidArgument},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.apply(tc.mutation)
			s.Require().Error(err)
			s.True(tc.check(err), "unexpected error: %v", err)
		})
	}
}

func (s *IntentsTestSuite) TestSkillIntents() {
	doc, err := s.apply(store.AddSkill(sheet.SkillCategoryTalents, "talents-juggling", "Juggling"))
	s.Require().NoError(err)
	talents := doc.Skills[sheet.SkillCategoryTalents]
	s.Equal("Juggling", talents[len(talents)-1].Name)
	s.Equal(sheet.DefaultSkillMax, talents[len(talents)-1].Max)

	doc, err = store.MoveSkill(sheet.SkillCategoryTalents, "talents-juggling", 0)(doc)
	s.Require().NoError(err)
	s.Equal("Juggling", doc.Skills[sheet.SkillCategoryTalents][0].Name)
	s.Equal("Alertness", doc.Skills[sheet.SkillCategoryTalents][1].Name)

	doc, err = store.SetSkill(sheet.SkillCategoryTalents, " juggling ", 4)(doc)
	s.Require().NoError(err)
	s.Equal(4, doc.Skills[sheet.SkillCategoryTalents][0].Value)

	doc, err = store.RemoveSkill(sheet.SkillCategoryTalents, "talents-juggling")(doc)
	s.Require().NoError(err)
	s.Equal(s.doc.Skills[sheet.SkillCategoryTalents], doc.Skills[sheet.SkillCategoryTalents])
}

func (s *IntentsTestSuite) TestSpacerRowsMayRepeat() {
	doc, err := s.apply(store.AddSkill(sheet.SkillCategorySkills, "spacer-1", ""))
	s.Require().NoError(err)
	doc, err = store.AddSkill(sheet.SkillCategorySkills, "spacer-2", "")(doc)
	s.Require().NoError(err)
	s.Len(doc.Skills[sheet.SkillCategorySkills], len(s.doc.Skills[sheet.SkillCategorySkills])+2)
}

func (s *IntentsTestSuite) TestAttributeIntents() {
	doc, err := s.apply(store.SetAttribute("physical", "strength", 2, "1"))
	s.Require().NoError(err)
	s.Equal("1", doc.Attributes["physical"][0].Val2)

	doc, err = store.SetSecondaryAttribute("mental", "mental-secondary-1", 1, "2")(doc)
	s.Require().NoError(err)
	s.Equal("2", doc.SecondaryAttributes["mental"][0].Val1)

	doc, err = store.SetSecondaryActive(true)(doc)
	s.Require().NoError(err)
	s.True(doc.SecondaryAttributesActive)
}

func (s *IntentsTestSuite) TestTraitAndLogIntents() {
	doc, err := s.apply(store.SetTrait(store.TraitListAdvantages, 27, "Lucky", "2"))
	s.Require().NoError(err)
	s.Equal(sheet.TraitEntry{Name: "Lucky", Value: "2"}, doc.Advantages[27])
	s.Len(doc.Advantages, sheet.TraitSlots)

	doc, err = store.AddXPLog(sheet.XPLogEntry{ID: "x1", Amount: 8, Scenario: "Prologue"})(doc)
	s.Require().NoError(err)
	_, err = store.AddXPLog(sheet.XPLogEntry{ID: "x1", Amount: 2})(doc)
	s.True(errors.IsFailedPrecondition(err))

	doc, err = store.RemoveXPLog("x1")(doc)
	s.Require().NoError(err)
	s.Empty(doc.XPLogs)
}

func (s *IntentsTestSuite) TestLibraryIntents() {
	entry := sheet.LibraryEntry{
		ID:   "lib-lucky",
		Type: sheet.LibraryTypeAdvantage,
		Name: "Lucky",
		Effects: []sheet.TraitEffect{
			{ID: "e1", Type: sheet.EffectXPBonus, Value: 5},
		},
	}

	doc, err := s.apply(store.UpsertLibraryEntry(entry))
	s.Require().NoError(err)
	s.Require().Len(doc.Library, 1)
	s.NotNil(doc.Library[0].Tags)

	entry.Name = "Very Lucky"
	doc, err = store.UpsertLibraryEntry(entry)(doc)
	s.Require().NoError(err)
	s.Require().Len(doc.Library, 1)
	s.Equal("Very Lucky", doc.Library[0].Name)

	doc, err = store.RemoveLibraryEntry("lib-lucky")(doc)
	s.Require().NoError(err)
	s.Empty(doc.Library)
}

func (s *IntentsTestSuite) TestCounterAndTextIntents() {
	doc, err := s.apply(store.SetCounter("Willpower", 5, 2))
	s.Require().NoError(err)
	s.Equal(5, doc.Counters.Willpower.Value)
	s.Equal(2, doc.Counters.Willpower.Current)
	s.Equal(3, doc.Counters.Willpower.CreationValue)

	doc, err = store.SetCounter("willpower", 4, 4)(doc)
	s.Require().NoError(err)
	s.Equal(4, doc.Counters.Willpower.Current)

	_, err = store.SetCounter("willpower", 3, 4)(doc)
	s.True(errors.IsInvalidArgument(err))

	doc, err = store.SetNotes("met the prince")(doc)
	s.Require().NoError(err)
	doc, err = store.SetText(store.TextFieldEquipment, "knife")(doc)
	s.Require().NoError(err)
	s.Equal("met the prince", doc.Notes)
	s.Equal("knife", doc.Equipment)
}

func (s *IntentsTestSuite) TestSetCreationConfig() {
	doc, err := s.apply(store.SetCreationConfig(func(cfg *sheet.CreationConfig) {
		cfg.Mode = sheet.CreationModeRanks
		cfg.RankSlots[5] = 1
	}))
	s.Require().NoError(err)
	s.Equal(sheet.CreationModeRanks, doc.CreationConfig.Mode)
	s.Equal(1, doc.CreationConfig.RankSlots[5])
}
