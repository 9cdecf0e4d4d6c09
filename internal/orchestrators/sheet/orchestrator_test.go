package sheet_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	entity "github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
	documentmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/document/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/mocks"
	"github.com/KirkDiggler/rpg-sheet/internal/transfer"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx          context.Context
	repo         *document.InMemoryRepository
	orchestrator sheet.Service
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = document.NewInMemory()
	s.orchestrator = s.newOrchestrator(s.repo)
}

func (s *OrchestratorTestSuite) newOrchestrator(repo document.Repository) sheet.Service {
	o, err := sheet.NewOrchestrator(&sheet.Config{
		Repository:  repo,
		Clock:       clock.NewFixed(time.UnixMilli(1700000000000)),
		IDGenerator: idgen.NewSequential("log"),
	})
	s.Require().NoError(err)
	return o
}

func (s *OrchestratorTestSuite) save(data string) {
	_, err := s.repo.Save(s.ctx, &document.SaveInput{Data: data, UpdatedAt: 1})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidatesConfig() {
	_, err := sheet.NewOrchestrator(&sheet.Config{})
	s.True(errors.IsInvalidArgument(err))

	_, err = sheet.NewOrchestrator(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestLoadNothingSaved() {
	output, err := s.orchestrator.Load(s.ctx, &sheet.LoadInput{})
	s.Require().NoError(err)
	s.False(output.Found)
	s.Empty(output.Warning)
	s.Equal(entity.Defaults(), output.Document)

	saved, err := s.repo.Load(s.ctx, &document.LoadInput{})
	s.Require().NoError(err)
	s.True(saved.Found)
}

func (s *OrchestratorTestSuite) TestLoadMigratesAndDeactivatesCreation() {
	s.save(testutils.LegacyV5Document)

	output, err := s.orchestrator.Load(s.ctx, &sheet.LoadInput{})
	s.Require().NoError(err)
	s.True(output.Found)
	s.Equal(entity.CurrentVersion, output.Document.Version)
	s.False(output.Document.CreationConfig.Active)
	s.Equal(100.0, output.Document.CreationConfig.StartingXP)
	s.Equal(entity.LibraryTypeAdvantage, output.Document.Library[0].Type)
}

func (s *OrchestratorTestSuite) TestLoadUnreadableFallsBackToDefaults() {
	s.save("{broken")

	output, err := s.orchestrator.Load(s.ctx, &sheet.LoadInput{})
	s.Require().NoError(err)
	s.NotEmpty(output.Warning)
	s.Equal(entity.Defaults().Skills, output.Document.Skills)
	s.Require().Len(output.Document.AppLogs, 1)
	s.Equal(entity.LogTypeWarning, output.Document.AppLogs[0].Type)
}

func (s *OrchestratorTestSuite) TestLoadRepositoryError() {
	ctrl := gomock.NewController(s.T())
	mockRepo := documentmock.NewMockRepository(ctrl)
	mocks.ExpectLoad(s.ctx, mockRepo, "", errors.Unavailable("redis down"))

	_, err := s.newOrchestrator(mockRepo).Load(s.ctx, &sheet.LoadInput{})
	s.True(errors.IsUnavailable(err))
}

func (s *OrchestratorTestSuite) TestFirstChangeLoadsSavedData() {
	s.save(testutils.LegacyV1Document)

	output, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetHeader("concept", "Scholar"),
	})
	s.Require().NoError(err)
	s.Equal("Anaïs", output.Document.Header["name"])
	s.Equal("Scholar", output.Document.Header["concept"])
}

func (s *OrchestratorTestSuite) TestApplyRecordsDeduplicatedLog() {
	for _, value := range []int{1, 2, 3} {
		_, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
			Mutation: store.SetSkill(entity.SkillCategoryTalents, "Brawl", value),
			Log: &store.AppLogInput{
				Message:         "Brawl changed",
				Category:        "skills",
				DeduplicationID: "skill-talents-brawl",
			},
		})
		s.Require().NoError(err)
	}

	doc, err := s.orchestrator.Get(s.ctx, &sheet.GetInput{})
	s.Require().NoError(err)
	s.Len(doc.Document.AppLogs, 1)
	s.Equal(6.0, doc.Derivation.Spent)
}

func (s *OrchestratorTestSuite) TestApplyRejectsInvalidChange() {
	_, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetSkill(entity.SkillCategoryTalents, "Brawl", 12),
		Log:      &store.AppLogInput{Message: "never recorded"},
	})
	s.True(errors.IsInvalidArgument(err))

	doc, err := s.orchestrator.Get(s.ctx, &sheet.GetInput{})
	s.Require().NoError(err)
	s.Empty(doc.Document.AppLogs)

	_, err = s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestFreeRankScenario() {
	_, err := s.orchestrator.Load(s.ctx, &sheet.LoadInput{})
	s.Require().NoError(err)

	out, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetSkill(entity.SkillCategoryKnowledges, "Academics", 3),
	})
	s.Require().NoError(err)
	s.Equal(6.0, out.Document.Experience.Spent)

	out, err = s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.AddXPLog(entity.XPLogEntry{ID: "x1", Amount: 10, Scenario: "Prologue"}),
	})
	s.Require().NoError(err)
	s.Equal(4.0, out.Document.Experience.Remaining)

	imported, err := s.orchestrator.Import(s.ctx, &sheet.ImportInput{
		Data:   []byte(testutils.LibraryOnlyFile),
		Action: transfer.ActionMergeLibrary,
	})
	s.Require().NoError(err)
	s.True(imported.Applied)
	s.Equal(transfer.ProjectionLibrary, imported.Detection.Projection)
	s.Equal(6.0, imported.Document.Experience.Spent)

	out, err = s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetTrait(store.TraitListAdvantages, 0, "Érudition", ""),
	})
	s.Require().NoError(err)
	s.Equal(0.0, out.Document.Experience.Spent)
	s.Equal(10.0, out.Document.Experience.Remaining)

	saved, err := s.repo.Load(s.ctx, &document.LoadInput{})
	s.Require().NoError(err)
	s.Contains(saved.Data, `"remaining":10`)
}

func (s *OrchestratorTestSuite) TestImportDetectOnly() {
	output, err := s.orchestrator.Import(s.ctx, &sheet.ImportInput{Data: []byte(testutils.LegacyV1Document)})
	s.Require().NoError(err)
	s.False(output.Applied)
	s.Equal(transfer.ProjectionStructure, output.Detection.Projection)
	s.Equal("", output.Document.Header["name"])
}

func (s *OrchestratorTestSuite) TestImportFailuresLeaveDocumentUntouched() {
	_, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{Mutation: store.SetHeader("name", "Anna")})
	s.Require().NoError(err)

	_, err = s.orchestrator.Import(s.ctx, &sheet.ImportInput{Data: []byte("not json"), Action: transfer.ActionReplaceAll})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Import(s.ctx, &sheet.ImportInput{
		Data:   []byte(testutils.LibraryOnlyFile),
		Action: transfer.ActionReplaceStructureKeepLibrary,
	})
	s.True(errors.IsFailedPrecondition(err))

	_, err = s.orchestrator.Import(s.ctx, &sheet.ImportInput{
		Data:   []byte(`{"library": 42}`),
		Action: transfer.ActionReplaceLibrary,
	})
	s.True(errors.IsInvalidArgument(err))

	doc, err := s.orchestrator.Get(s.ctx, &sheet.GetInput{})
	s.Require().NoError(err)
	s.Equal("Anna", doc.Document.Header["name"])
	s.Empty(doc.Document.Library)
}

func (s *OrchestratorTestSuite) TestImportReplaceAllNeverResumesCreation() {
	output, err := s.orchestrator.Import(s.ctx, &sheet.ImportInput{
		Data:   []byte(testutils.LegacyV5Document),
		Action: transfer.ActionReplaceAll,
	})
	s.Require().NoError(err)
	s.False(output.Document.CreationConfig.Active)
	s.Len(output.Document.Library, 2)
}

func (s *OrchestratorTestSuite) TestExportAndReset() {
	_, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{Mutation: store.SetHeader("name", "Anna")})
	s.Require().NoError(err)

	exported, err := s.orchestrator.Export(s.ctx, &sheet.ExportInput{Kind: transfer.KindSystem})
	s.Require().NoError(err)
	s.NotContains(string(exported.Data), "Anna")

	_, err = s.orchestrator.Export(s.ctx, &sheet.ExportInput{Kind: "everything"})
	s.True(errors.IsInvalidArgument(err))

	reset, err := s.orchestrator.Reset(s.ctx, &sheet.ResetInput{})
	s.Require().NoError(err)
	s.Equal("", reset.Document.Header["name"])
	s.Require().Len(reset.Document.AppLogs, 1)
	s.Equal(sheet.LogCategoryReset, reset.Document.AppLogs[0].Category)
}

func (s *OrchestratorTestSuite) TestCreationLifecycle() {
	_, err := s.orchestrator.FinalizeCreation(s.ctx, &sheet.FinalizeCreationInput{})
	s.True(errors.IsFailedPrecondition(err))

	started, err := s.orchestrator.StartCreation(s.ctx, &sheet.StartCreationInput{})
	s.Require().NoError(err)
	s.True(started.Document.CreationConfig.Active)
	s.False(started.Report.HasErrors())

	_, err = s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetSkill(entity.SkillCategoryTalents, "Brawl", 3),
	})
	s.Require().NoError(err)
	_, err = s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetAttribute("physical", "Strength", 1, "3"),
	})
	s.Require().NoError(err)

	finalized, err := s.orchestrator.FinalizeCreation(s.ctx, &sheet.FinalizeCreationInput{})
	s.Require().NoError(err)
	doc := finalized.Document
	s.False(doc.CreationConfig.Active)
	s.Equal(3, doc.Skills[entity.SkillCategoryTalents][2].CreationValue)
	s.Equal("3", doc.Attributes["physical"][0].CreationVal1)
	s.Equal(0.0, doc.Experience.Spent)
	s.Equal(18.0, finalized.Report.Spent)
}

func (s *OrchestratorTestSuite) TestFinalizeRejectsBudgetErrors() {
	_, err := s.orchestrator.StartCreation(s.ctx, &sheet.StartCreationInput{Mode: entity.CreationModeRanks})
	s.Require().NoError(err)
	for _, name := range []string{"Brawl", "Dodge", "Empathy"} {
		_, err = s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
			Mutation: store.SetSkill(entity.SkillCategoryTalents, name, 3),
		})
		s.Require().NoError(err)
	}

	validated, err := s.orchestrator.Validate(s.ctx, &sheet.ValidateInput{})
	s.Require().NoError(err)
	s.Contains(validated.Report.Errors(), "rank3: 3 used of 2")
	s.Empty(validated.CardTier)

	_, err = s.orchestrator.FinalizeCreation(s.ctx, &sheet.FinalizeCreationInput{})
	s.True(errors.IsFailedPrecondition(err))

	finalized, err := s.orchestrator.FinalizeCreation(s.ctx, &sheet.FinalizeCreationInput{Force: true})
	s.Require().NoError(err)
	s.False(finalized.Document.CreationConfig.Active)
	s.Equal(3, finalized.Document.Skills[entity.SkillCategoryTalents][3].CreationValue)
}

func (s *OrchestratorTestSuite) TestValidateCardTier() {
	_, err := s.orchestrator.Apply(s.ctx, &sheet.ApplyInput{
		Mutation: store.SetCreationConfig(func(cfg *entity.CreationConfig) { cfg.CardConfig.Active = true }),
	})
	s.Require().NoError(err)

	validated, err := s.orchestrator.Validate(s.ctx, &sheet.ValidateInput{})
	s.Require().NoError(err)
	s.Equal("Two Twos", validated.CardTier)
}

func (s *OrchestratorTestSuite) TestRedisBackedSessionsShareTheDocument() {
	client, _ := testutils.CreateTestRedisClient(s.T())
	repo, err := document.NewRedisRepository(&document.RedisConfig{Client: client, Key: document.DefaultKey})
	s.Require().NoError(err)

	first := s.newOrchestrator(repo)
	_, err = first.Apply(s.ctx, &sheet.ApplyInput{Mutation: store.SetHeader("name", "Anna")})
	s.Require().NoError(err)

	second := s.newOrchestrator(repo)
	loaded, err := second.Load(s.ctx, &sheet.LoadInput{})
	s.Require().NoError(err)
	s.True(loaded.Found)
	s.Equal("Anna", loaded.Document.Header["name"])
}
