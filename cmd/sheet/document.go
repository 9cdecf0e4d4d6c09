package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/migration"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
)

var (
	showJSON    bool
	migrateList bool
	logLimit    int
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the character sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.Load(cmd.Context(), &sheet.LoadInput{})
		if err != nil {
			return err
		}
		if output.Warning != "" {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", output.Warning)
		}

		if showJSON {
			return printJSON(cmd.OutOrStdout(), output.Document)
		}

		current, err := svc.Get(cmd.Context(), &sheet.GetInput{})
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), current.Document, current.Derivation)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate [file|-]",
	Short: "Upgrade a saved document to the current schema and print it",
	Long: `migrate reads a document of any schema version and prints the upgraded
document. The saved sheet is not touched. Use --steps to list the upgrade steps.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationOffline: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateList {
			fmt.Fprint(cmd.OutOrStdout(), migration.Describe())
			return nil
		}
		if len(args) == 0 {
			return errors.InvalidArgument("a file argument is required")
		}

		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		doc, err := migration.Run(data)
		if err != nil {
			return errors.WrapWithCode(err, errors.CodeDataLoss, "document cannot be migrated").
				WithMeta("file", args[0])
		}
		return printJSON(cmd.OutOrStdout(), doc)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the sheet against the creation budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.Validate(cmd.Context(), &sheet.ValidateInput{})
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), output.Report, output.CardTier)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the sheet with the factory defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := svc.Reset(cmd.Context(), &sheet.ResetInput{}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sheet reset")
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Print the audit trail, newest last",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.Get(cmd.Context(), &sheet.GetInput{})
		if err != nil {
			return err
		}

		logs := output.Document.AppLogs
		if logLimit > 0 && len(logs) > logLimit {
			logs = logs[len(logs)-logLimit:]
		}
		for _, entry := range logs {
			fmt.Fprintf(cmd.OutOrStdout(), "%d  %-7s %-10s %s\n", entry.Timestamp, entry.Type, entry.Category, entry.Message)
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print the whole document as JSON")
	migrateCmd.Flags().BoolVar(&migrateList, "steps", false, "list the upgrade steps instead")
	logCmd.Flags().IntVar(&logLimit, "limit", 20, "number of entries to print, 0 for all")
}
