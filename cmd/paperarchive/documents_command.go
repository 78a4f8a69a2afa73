package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"paperarchive/internal/archiveid"
	"paperarchive/internal/logging"
	"paperarchive/internal/services/paperless"
)

type documentView struct {
	SerialNumber int64  `json:"archive_serial_number"`
	DocumentID   string `json:"document_id"`
	Folder       string `json:"folder"`
	Box          string `json:"box"`
}

func newDocumentsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List backend documents with the folder and box each belongs in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			archive, err := ctx.archiveMap()
			if err != nil {
				return err
			}
			client, err := paperless.NewConfigured(cfg, ctx.log())
			if err != nil {
				return err
			}

			var views []documentView
			for asn, err := range client.ArchiveSerialNumbers(cmd.Context()) {
				if err != nil {
					return err
				}
				if asn < 0 || asn > archiveid.DocumentIDMask {
					logging.WarnWithContext(ctx.log(), "serial number outside document id range", "foreign_serial_number",
						logging.Int64("archive_serial_number", asn),
						logging.String(logging.FieldImpact, "the document is not listed"),
					)
					continue
				}
				loc := archive.Locate(uint32(asn))
				views = append(views, documentView{
					SerialNumber: asn,
					DocumentID:   archiveid.FormatDocumentID(loc.DocumentID),
					Folder:       loc.Folder.ID.String(),
					Box:          loc.Box.ID.String(),
				})
			}

			if ctx.jsonOutput() {
				if views == nil {
					views = []documentView{}
				}
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No archived documents")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{strconv.FormatInt(v.SerialNumber, 10), v.Folder, v.Box})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("ASN", numberColumn), col("Folder", idColumn), col("Box", idColumn)},
				rows,
			))
			return nil
		},
	}
}
