package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"paperarchive/internal/journal"
	"paperarchive/internal/logging"
	"paperarchive/internal/services"
	"paperarchive/internal/services/escl"
	"paperarchive/internal/services/paperless"
	"paperarchive/internal/workflow"
)

type resultView struct {
	DocumentID string `json:"document_id"`
	Pages      int    `json:"pages"`
	Folder     string `json:"folder"`
	Box        string `json:"box"`
	Path       string `json:"path,omitempty"`
	Uploaded   bool   `json:"uploaded"`
	Duplicate  bool   `json:"duplicate"`
}

type runnerFlags struct {
	upload  bool
	workers int
}

func (f *runnerFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.upload, "upload", false, "Upload each document to the backend")
	cmd.Flags().IntVar(&f.workers, "decode-workers", 1, "Decode barcodes on this many goroutines before splitting")
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var flags runnerFlags

	cmd := &cobra.Command{
		Use:   "ingest <front.pdf> [back.pdf]",
		Short: "Split previously scanned PDFs into archive documents",
		Long: "Split previously scanned PDFs into archive documents.\n\n" +
			"With a back file the pass runs duplex; back pages are expected in the\n" +
			"reverse order a turned-over stack produces.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			back := ""
			if len(args) == 2 {
				back = args[1]
			}
			return ctx.withRunner(flags, func(runner *workflow.Runner) error {
				_, results, err := runner.IngestFiles(cmd.Context(), args[0], back)
				if err != nil {
					return err
				}
				return printResults(cmd, ctx, results)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var flags runnerFlags

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a stack from the configured scanner and split it into documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := escl.NewConfigured(cfg, ctx.log())
			if err != nil {
				return err
			}
			session, err := escl.OpenSession(cfg, client, scanPrompter(cmd), ctx.log())
			if err != nil {
				return err
			}
			defer session.Close()

			return ctx.withRunner(flags, func(runner *workflow.Runner) error {
				results, err := runner.Scan(cmd.Context(), session.ID, session)
				if err != nil {
					return err
				}
				return printResults(cmd, ctx, results)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

// scanPrompter reads flatbed answers from stdin. Questions are only shown
// when stdin is a terminal, so piped answers run silently.
func scanPrompter(cmd *cobra.Command) *escl.Prompter {
	in := cmd.InOrStdin()
	out := cmd.ErrOrStderr()
	if file, ok := in.(*os.File); !ok || !logging.IsInteractive(file) {
		out = io.Discard
	}
	return escl.NewPrompter(in, out)
}

func (c *commandContext) withRunner(flags runnerFlags, fn func(*workflow.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	archive, err := c.archiveMap()
	if err != nil {
		return err
	}
	if flags.workers < 1 {
		return services.Wrap(services.ErrValidation, "ingest", "flags", fmt.Sprintf("--decode-workers must be at least 1, got %d", flags.workers), nil)
	}
	opts := []workflow.Option{workflow.WithWorkers(flags.workers)}
	if flags.upload {
		client, err := paperless.NewConfigured(cfg, c.log())
		if err != nil {
			return err
		}
		opts = append(opts, workflow.WithUploader(client))
	}
	return c.withJournal(func(store *journal.Store) error {
		return fn(workflow.New(cfg, store, archive, c.log(), opts...))
	})
}

func printResults(cmd *cobra.Command, ctx *commandContext, results []workflow.Result) error {
	views := make([]resultView, 0, len(results))
	for _, r := range results {
		views = append(views, resultView{
			DocumentID: r.Document.IDString(),
			Pages:      r.Document.Pages,
			Folder:     r.Location.Folder.ID.String(),
			Box:        r.Location.Box.ID.String(),
			Path:       r.Entry.Path,
			Uploaded:   r.Entry.Uploaded(),
			Duplicate:  r.Duplicate != nil,
		})
	}
	if ctx.jsonOutput() {
		return writeJSON(cmd, views)
	}
	out := cmd.OutOrStdout()
	if len(views) == 0 {
		fmt.Fprintln(out, "No documents produced")
		return nil
	}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.DocumentID,
			strconv.Itoa(v.Pages),
			v.Folder,
			v.Box,
			yesNo(v.Uploaded),
			yesNo(v.Duplicate),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]column{
			col("Document", idColumn),
			col("Pages", numberColumn),
			col("Folder", idColumn),
			col("Box", idColumn),
			col("Uploaded", flagColumn),
			col("Seen before", flagColumn),
		},
		rows,
	))
	if dir := outputDir(ctx); dir != "" {
		fmt.Fprintf(out, "Documents written to %s\n", dir)
	}
	return nil
}

func outputDir(ctx *commandContext) string {
	cfg, err := ctx.ensureConfig()
	if err != nil || cfg == nil {
		return ""
	}
	if _, err := os.Stat(cfg.Paths.OutputDir); err != nil {
		return ""
	}
	return cfg.Paths.OutputDir
}
