package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/document"
	documentmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/document/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/store"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/mocks"
)

type StoreTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *documentmock.MockRepository
	clock    *clock.Fixed
	store    *store.Store
	ctx      context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = documentmock.NewMockRepository(s.ctrl)
	s.clock = clock.NewFixed(time.UnixMilli(1700000000000))
	s.ctx = context.Background()

	var err error
	s.store, err = store.New(&store.Config{
		Repository:  s.mockRepo,
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("log"),
	})
	s.Require().NoError(err)
}

func (s *StoreTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *StoreTestSuite) TestNewValidatesConfig() {
	_, err := store.New(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = store.New(&store.Config{Clock: s.clock})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	validationErrors := errors.GetMeta(err)["validation_errors"].(map[string][]string)
	s.Contains(validationErrors, "Repository")
	s.Contains(validationErrors, "IDGenerator")
}

func (s *StoreTestSuite) TestStartsWithDefaults() {
	s.Equal(sheet.Defaults(), s.store.Document())
}

func (s *StoreTestSuite) TestDispatchPersistsAndDerives() {
	s.mockRepo.EXPECT().
		Save(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, input *document.SaveInput) (*document.SaveOutput, error) {
			s.Equal(int64(1700000000000), input.UpdatedAt)
			s.Contains(input.Data, `"spent":6`)
			return &document.SaveOutput{}, nil
		})

	err := s.store.Dispatch(s.ctx, store.SetSkill(sheet.SkillCategoryKnowledges, "Academics", 3))
	s.Require().NoError(err)

	doc := s.store.Document()
	s.Equal(6.0, doc.Experience.Spent)
	s.Equal(-6.0, doc.Experience.Remaining)
}

func (s *StoreTestSuite) TestMutationErrorLeavesDocumentUntouched() {
	before := s.store.Document()

	err := s.store.Dispatch(s.ctx, store.SetSkill(sheet.SkillCategoryKnowledges, "Academics", 9))
	s.True(errors.IsInvalidArgument(err))

	err = s.store.Dispatch(s.ctx, store.SetSkill(sheet.SkillCategoryKnowledges, "Basket Weaving", 1))
	s.True(errors.IsNotFound(err))

	s.Equal(before, s.store.Document())
}

func (s *StoreTestSuite) TestSaveErrorLeavesDocumentUntouched() {
	mocks.ExpectSave(s.ctx, s.mockRepo, errors.Unavailable("redis down"))

	err := s.store.Dispatch(s.ctx, store.SetHeader("name", "Anna"))
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Equal("", s.store.Document().Header["name"])
}

func (s *StoreTestSuite) TestExperienceOnlyRecomputedWhenDependenciesChange() {
	stale := sheet.Defaults()
	stale.Experience = sheet.Experience{Gained: "0", Spent: 99}

	st, err := store.New(&store.Config{
		Repository:  document.NewInMemory(),
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("log"),
		Initial:     &stale,
	})
	s.Require().NoError(err)

	s.Require().NoError(st.Dispatch(s.ctx, store.SetHeader("name", "Anna")))
	s.Equal(99.0, st.Document().Experience.Spent)

	s.Require().NoError(st.Dispatch(s.ctx, store.AddXPLog(sheet.XPLogEntry{ID: "x1", Amount: 10})))
	s.Equal(sheet.Experience{Gained: "10", Spent: 0, Remaining: 10}, st.Document().Experience)
}

func (s *StoreTestSuite) TestReplaceAlwaysDerives() {
	doc := builders.NewDocumentBuilder().
		WithSkill(sheet.SkillCategoryTalents, "Brawl", 2, 0).
		WithXPLog("x1", 5).
		Build()
	doc.Experience = sheet.DefaultExperience()

	mocks.ExpectSaveDocument(s.ctx, s.mockRepo, func(saved sheet.Document) {
		s.Equal(3.0, saved.Experience.Spent)
	})

	s.Require().NoError(s.store.Replace(s.ctx, doc))
	s.Equal(sheet.Experience{Gained: "5", Spent: 3, Remaining: 2}, s.store.Document().Experience)
}

func (s *StoreTestSuite) TestSubscribe() {
	mocks.ExpectSave(s.ctx, s.mockRepo, nil).Times(2)

	var seen []string
	unsubscribe := s.store.Subscribe(func(doc sheet.Document) {
		seen = append(seen, doc.Header["name"])
	})

	s.Require().NoError(s.store.Dispatch(s.ctx, store.SetHeader("name", "Anna")))
	unsubscribe()
	s.Require().NoError(s.store.Dispatch(s.ctx, store.SetHeader("name", "Bruno")))

	s.Equal([]string{"Anna"}, seen)
}

func (s *StoreTestSuite) TestLogDeduplicates() {
	mocks.ExpectSave(s.ctx, s.mockRepo, nil).Times(3)

	s.Require().NoError(s.store.Log(s.ctx, &store.AppLogInput{
		Message: "Brawl set to 1", Category: "skills", DeduplicationID: "skill-brawl",
	}))
	s.clock.Advance(time.Second)
	s.Require().NoError(s.store.Log(s.ctx, &store.AppLogInput{
		Message: "Brawl set to 2", Category: "skills", DeduplicationID: "skill-brawl",
	}))
	s.Require().NoError(s.store.Log(s.ctx, &store.AppLogInput{
		Message: "Imported library", Category: "import",
	}))

	logs := s.store.Document().AppLogs
	s.Require().Len(logs, 2)
	s.Equal("Brawl set to 2", logs[0].Message)
	s.Equal(int64(1700000001000), logs[0].Timestamp)
	s.Equal("log_1", logs[0].ID)
	s.Equal(sheet.LogTypeInfo, logs[1].Type)
}

func (s *StoreTestSuite) TestLogRequiresMessage() {
	s.True(errors.IsInvalidArgument(s.store.Log(s.ctx, nil)))
	s.True(errors.IsInvalidArgument(s.store.Log(s.ctx, &store.AppLogInput{Message: "  "})))
}

func (s *StoreTestSuite) TestLogIsCapped() {
	st, err := store.New(&store.Config{
		Repository:  document.NewInMemory(),
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential(""),
	})
	s.Require().NoError(err)

	for i := 0; i < store.MaxAppLogs+3; i++ {
		s.Require().NoError(st.Log(s.ctx, &store.AppLogInput{Message: fmt.Sprintf("entry %d", i)}))
	}

	logs := st.Document().AppLogs
	s.Len(logs, store.MaxAppLogs)
	s.Equal("entry 3", logs[0].Message)
	s.Equal(fmt.Sprintf("entry %d", store.MaxAppLogs+2), logs[len(logs)-1].Message)
}

func (s *StoreTestSuite) TestDocumentIsACopy() {
	doc := s.store.Document()
	doc.Header["name"] = "changed"
	doc.Skills[sheet.SkillCategoryTalents][0].Value = 5

	fresh := s.store.Document()
	s.Equal("", fresh.Header["name"])
	s.Equal(0, fresh.Skills[sheet.SkillCategoryTalents][0].Value)
}

func (s *StoreTestSuite) TestRuleNames() {
	s.Equal([]string{"experience"}, store.RuleNames())
}
