package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"paperarchive/internal/labels"
	"paperarchive/internal/placement"
)

func newLabelsCommand(ctx *commandContext) *cobra.Command {
	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "Show the data printed on box and folder labels",
	}

	labelsCmd.AddCommand(&cobra.Command{
		Use:   "box",
		Short: "Box label records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := ctx.archiveMap()
			if err != nil {
				return err
			}
			codec, err := ctx.codec()
			if err != nil {
				return err
			}
			cfg, _ := ctx.ensureConfig()
			return printLabels(cmd, ctx, labels.Boxes(archive, codec, cfg.Archive.BoxURLPrefix))
		},
	})

	var boxFlag string
	folderCmd := &cobra.Command{
		Use:   "folder",
		Short: "Folder label records with sheet positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := ctx.archiveMap()
			if err != nil {
				return err
			}
			codec, err := ctx.codec()
			if err != nil {
				return err
			}
			var box *placement.Box
			if strings.TrimSpace(boxFlag) != "" {
				found, err := lookupBox(archive, boxFlag)
				if err != nil {
					return err
				}
				box = &found
			}
			cfg, _ := ctx.ensureConfig()
			return printLabels(cmd, ctx, labels.Folders(archive, box, codec, cfg.Archive.FolderURLPrefix))
		},
	}
	folderCmd.Flags().StringVar(&boxFlag, "box", "", "Only folders placed in this box (hex id)")
	labelsCmd.AddCommand(folderCmd)

	return labelsCmd
}

func printLabels(cmd *cobra.Command, ctx *commandContext, records []labels.Label) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No labels")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, label := range records {
		position := ""
		if label.Position != nil {
			position = fmt.Sprintf("sheet %d row %d col %d", label.Position.Sheet+1, label.Position.Row+1, label.Position.Column+1)
		}
		rows = append(rows, []string{
			strings.Join(label.Lines, "\n"),
			label.Mnemonic,
			label.URL,
			position,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]column{col("ID", idColumn), col("Mnemonic", mnemonicColumn), col("URL", textColumn), col("Position", textColumn)},
		rows,
	))
	return nil
}
