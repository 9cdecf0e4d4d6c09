// Package main is the entry point for the character sheet command line
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

var (
	storageFlag  string
	keyFlag      string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Character sheet editor",
	Long: `sheet edits a tabletop RPG character sheet: skills, attributes, traits,
experience and the creation budget. Every change is saved immediately.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "storage backend: redis, sqlite or memory (overrides SHEET_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "document key (overrides SHEET_DOCUMENT_KEY)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (overrides SHEET_LOG_LEVEL)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(xpCmd)
	rootCmd.AddCommand(traitCmd)
	rootCmd.AddCommand(libraryCmd)
	rootCmd.AddCommand(creationCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(logCmd)
}
