package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/transfer"
)

var (
	exportKind   string
	exportOutput string
	importAction string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the sheet, a blank template or the library to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := svc.Export(cmd.Context(), &sheet.ExportInput{Kind: transfer.Kind(exportKind)})
		if err != nil {
			return err
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = cmd.OutOrStdout().Write(append(output.Data, '\n'))
			return err
		}
		if err := os.WriteFile(exportOutput, output.Data, 0o600); err != nil {
			return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write export").WithMeta("path", exportOutput)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", exportKind, exportOutput)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a sheet, template or library file",
	Long: `import detects what the file contains and lists the available actions.
Pass --action to apply one; nothing changes until then.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}

		output, err := svc.Import(cmd.Context(), &sheet.ImportInput{
			Data:   data,
			Action: transfer.Action(importAction),
		})
		if err != nil {
			return err
		}

		if !output.Applied {
			fmt.Fprintf(cmd.OutOrStdout(), "Detected a %s file. Available actions:\n", output.Detection.Projection)
			for _, action := range output.Detection.Actions {
				fmt.Fprintf(cmd.OutOrStdout(), "  --action %s\n", action)
			}
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported (%s). Library entries: %d\n", importAction, len(output.Document.Library))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportKind, "kind", string(transfer.KindFull), "full, system or library")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "file to write, stdout when empty")
	importCmd.Flags().StringVar(&importAction, "action", "", "import action to apply")
}
