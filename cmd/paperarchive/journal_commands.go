package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"paperarchive/internal/archiveid"
	"paperarchive/internal/journal"
)

type entryView struct {
	ID         int64      `json:"id"`
	SessionID  string     `json:"session_id"`
	DocumentID string     `json:"document_id"`
	Pages      int        `json:"pages"`
	Bytes      int64      `json:"bytes"`
	Path       string     `json:"path,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

func newJournalCommand(ctx *commandContext) *cobra.Command {
	var limit int

	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "List recently produced documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				entries, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				views := make([]entryView, 0, len(entries))
				for _, e := range entries {
					views = append(views, entryView{
						ID:         e.ID,
						SessionID:  e.SessionID,
						DocumentID: archiveid.FormatDocumentID(e.DocumentID),
						Pages:      e.Pages,
						Bytes:      e.Bytes,
						Path:       e.Path,
						CreatedAt:  e.CreatedAt,
						UploadedAt: e.UploadedAt,
					})
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, views)
				}
				if len(views) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Journal is empty")
					return nil
				}
				rows := make([][]string, 0, len(views))
				for _, v := range views {
					rows = append(rows, []string{
						strconv.FormatInt(v.ID, 10),
						v.DocumentID,
						strconv.Itoa(v.Pages),
						humanize.IBytes(uint64(v.Bytes)),
						v.CreatedAt.Local().Format("2006-01-02 15:04"),
						yesNo(v.UploadedAt != nil),
						shortSession(v.SessionID),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]column{
						col("ID", numberColumn),
						col("Document", idColumn),
						col("Pages", numberColumn),
						col("Size", numberColumn),
						col("Created", textColumn),
						col("Uploaded", flagColumn),
						col("Session", textColumn),
					},
					rows,
				))
				return nil
			})
		},
	}
	journalCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")

	journalCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Verify the journal database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withJournal(func(store *journal.Store) error {
				if err := store.CheckHealth(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Journal %s is healthy\n", store.Path())
				return nil
			})
		},
	})

	return journalCmd
}

func shortSession(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
