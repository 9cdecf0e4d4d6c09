package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-sheet/internal/transfer"
)

type CommandTestSuite struct {
	suite.Suite
	dir string
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}

func (s *CommandTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.T().Setenv("SHEET_STORAGE", "sqlite")
	s.T().Setenv("SHEET_SQLITE_PATH", filepath.Join(s.dir, "sheet.db"))
	s.T().Setenv("SHEET_LOG_LEVEL", "error")

	// flag values outlive a single Execute
	migrateList = false
	showJSON = false
	importAction = ""
	exportKind = string(transfer.KindFull)
	exportOutput = ""
}

func (s *CommandTestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func (s *CommandTestSuite) TestFreeRankSession() {
	out, err := s.run("set", "skill", "knowledges", "Academics", "3")
	s.Require().NoError(err)
	s.Contains(out, "spent 6")

	out, err = s.run("xp", "add", "10", "--scenario", "Prologue", "--date", "2024-01-01")
	s.Require().NoError(err)
	s.Contains(out, "remaining 4")

	libraryFile := filepath.Join(s.dir, "library.json")
	s.Require().NoError(os.WriteFile(libraryFile, []byte(testutils.LibraryOnlyFile), 0o600))

	out, err = s.run("import", libraryFile)
	s.Require().NoError(err)
	s.Contains(out, "Detected a library file")
	s.Contains(out, "--action merge_library")

	out, err = s.run("import", libraryFile, "--action", "merge_library")
	s.Require().NoError(err)
	s.Contains(out, "Library entries: 1")

	out, err = s.run("trait", "advantages", "0", "Érudition")
	s.Require().NoError(err)
	s.Contains(out, "spent 0, remaining 10")

	out, err = s.run("validate")
	s.Require().NoError(err)
	s.Contains(out, "No budget errors")

	out, err = s.run("export", "--kind", "library")
	s.Require().NoError(err)
	s.Contains(out, "lib-erudition")
}

func (s *CommandTestSuite) TestInvalidChangeIsRejected() {
	_, err := s.run("set", "skill", "talents", "Brawl", "9")
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.NotEqual(0, errors.ExitCode(err))

	_, err = s.run("set", "skill", "talents", "Brawl", "three")
	s.True(errors.IsInvalidArgument(err))
}

func (s *CommandTestSuite) TestMigrateSteps() {
	out, err := s.run("migrate", "--steps")
	s.Require().NoError(err)
	s.Contains(out, " 1. rename_fields")
}

func (s *CommandTestSuite) TestMigrateUnreadableFile() {
	file := filepath.Join(s.dir, "broken.json")
	s.Require().NoError(os.WriteFile(file, []byte(`["not", "a", "sheet"]`), 0o600))

	_, err := s.run("migrate", file)
	s.Require().Error(err)
	s.True(errors.IsDataLoss(err))
	s.Equal(65, errors.ExitCode(err))
}

func (s *CommandTestSuite) TestSummaryIncludesAttributeBonuses() {
	doc := builders.NewDocumentBuilder().
		WithAttribute("physical", "Strength", 1, 1).
		WithLibraryEntry(builders.AttributeBonusEntry("lib-strong", "Strong", "Strength", 1)).
		WithLibraryEntry(builders.AttributeBonusEntry("lib-giant", "Giant Blood", "Strength", 1)).
		WithAdvantage("Strong").
		WithAdvantage("Giant Blood").
		Build()

	var out bytes.Buffer
	printSummary(&out, doc, engine.Derive(doc))
	s.Contains(out.String(), "Strength 3")
}

func (s *CommandTestSuite) TestParseEffect() {
	effect, err := parseEffect("free_skill_rank:3:Animal Ken")
	s.Require().NoError(err)
	s.Equal(sheet.EffectFreeSkillRank, effect.Type)
	s.Equal(3.0, effect.Value)
	s.Equal("Animal Ken", effect.Target)

	effect, err = parseEffect("xp_bonus:2.5")
	s.Require().NoError(err)
	s.Equal(2.5, effect.Value)
	s.Empty(effect.Target)

	_, err = parseEffect("xp_bonus")
	s.True(errors.IsInvalidArgument(err))
	_, err = parseEffect("xp_bonus:lots")
	s.True(errors.IsInvalidArgument(err))
}
