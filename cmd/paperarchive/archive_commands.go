package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"paperarchive/internal/archiveid"
	"paperarchive/internal/placement"
	"paperarchive/internal/services"
)

type boxView struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Mnemonic string `json:"mnemonic"`
	Folders  int    `json:"folders"`
}

type folderView struct {
	ID       string `json:"id"`
	Mnemonic string `json:"mnemonic"`
	Box      string `json:"box"`
}

type locationView struct {
	DocumentID string `json:"document_id,omitempty"`
	Folder     string `json:"folder,omitempty"`
	Box        string `json:"box"`
}

func newBoxesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "boxes",
		Short: "List archive boxes",
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
			views := make([]boxView, 0, len(archive.Boxes()))
			for i, box := range archive.Boxes() {
				views = append(views, boxView{
					Index:    i + 1,
					ID:       box.ID.String(),
					Mnemonic: codec.Encode(box.ID.Bytes()),
					Folders:  len(archive.FoldersInBox(box)),
				})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{strconv.Itoa(v.Index), v.ID, v.Mnemonic, strconv.Itoa(v.Folders)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("#", numberColumn), col("Box", idColumn), col("Mnemonic", mnemonicColumn), col("Folders", numberColumn)},
				rows,
			))
			return nil
		},
	}
}

func newFoldersCommand(ctx *commandContext) *cobra.Command {
	var boxFlag string

	cmd := &cobra.Command{
		Use:   "folders",
		Short: "List folders and the box each belongs in",
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
			folders := archive.Folders()
			if strings.TrimSpace(boxFlag) != "" {
				box, err := lookupBox(archive, boxFlag)
				if err != nil {
					return err
				}
				folders = archive.FoldersInBox(box)
			}

			views := make([]folderView, 0, len(folders))
			for _, folder := range folders {
				views = append(views, folderView{
					ID:       folder.ID.String(),
					Mnemonic: codec.Encode(folder.ID.Bytes()),
					Box:      archive.PlaceFolder(folder).ID.String(),
				})
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, views)
			}
			if len(views) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No folders")
				return nil
			}
			rows := make([][]string, 0, len(views))
			for _, v := range views {
				rows = append(rows, []string{v.ID, v.Mnemonic, v.Box})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{col("Folder", idColumn), col("Mnemonic", mnemonicColumn), col("Box", idColumn)},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&boxFlag, "box", "", "Only list folders placed in this box (hex id)")
	return cmd
}

func newLocateCommand(ctx *commandContext) *cobra.Command {
	locateCmd := &cobra.Command{
		Use:   "locate",
		Short: "Find where a folder or document belongs",
	}

	locateCmd.AddCommand(&cobra.Command{
		Use:   "folder <hex-id>",
		Short: "Show the box a folder belongs in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := ctx.archiveMap()
			if err != nil {
				return err
			}
			folder, err := lookupFolder(archive, args[0])
			if err != nil {
				return err
			}
			view := locationView{Folder: folder.ID.String(), Box: archive.PlaceFolder(folder).ID.String()}
			return printLocation(cmd, ctx, view)
		},
	})

	locateCmd.AddCommand(&cobra.Command{
		Use:   "document <id>",
		Short: "Show the folder and box a document belongs in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := ctx.archiveMap()
			if err != nil {
				return err
			}
			docID, err := archiveid.ParseDocumentID(args[0])
			if err != nil {
				return err
			}
			loc := archive.Locate(docID)
			return printLocation(cmd, ctx, locationView{
				DocumentID: archiveid.FormatDocumentID(loc.DocumentID),
				Folder:     loc.Folder.ID.String(),
				Box:        loc.Box.ID.String(),
			})
		},
	})

	return locateCmd
}

func printLocation(cmd *cobra.Command, ctx *commandContext, view locationView) error {
	if ctx.jsonOutput() {
		return writeJSON(cmd, view)
	}
	out := cmd.OutOrStdout()
	if view.DocumentID != "" {
		fmt.Fprintf(out, "Document: %s\n", view.DocumentID)
	}
	fmt.Fprintf(out, "Folder:   %s\n", view.Folder)
	fmt.Fprintf(out, "Box:      %s\n", view.Box)
	return nil
}

func lookupBox(archive *placement.ArchiveMap, text string) (placement.Box, error) {
	id, err := archiveid.ParseID(text)
	if err != nil {
		return placement.Box{}, err
	}
	box, ok := archive.Box(id)
	if !ok {
		return placement.Box{}, services.Wrap(services.ErrValidation, "archive", "lookup box",
			fmt.Sprintf("%s is not one of the %d configured boxes", id, len(archive.Boxes())), nil)
	}
	return box, nil
}

func lookupFolder(archive *placement.ArchiveMap, text string) (placement.Folder, error) {
	id, err := archiveid.ParseID(text)
	if err != nil {
		return placement.Folder{}, err
	}
	folder, ok := archive.Folder(id)
	if !ok {
		return placement.Folder{}, services.Wrap(services.ErrValidation, "archive", "lookup folder",
			fmt.Sprintf("%s is not one of the %d configured folders", id, len(archive.Folders())), nil)
	}
	return folder, nil
}

func newNewIDCommand(ctx *commandContext) *cobra.Command {
	var document bool

	cmd := &cobra.Command{
		Use:   "new-id",
		Short: "Generate a fresh random identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed := make([]byte, 16)
			if _, err := rand.Read(seed); err != nil {
				return fmt.Errorf("read random seed: %w", err)
			}
			out := cmd.OutOrStdout()
			if document {
				fmt.Fprintln(out, archiveid.FormatDocumentID(archiveid.DocumentID(seed)))
				return nil
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			key, err := cfg.SecretKey()
			if err != nil {
				return err
			}
			codec, err := ctx.codec()
			if err != nil {
				return err
			}
			id := archiveid.ArchiveID(seed, key)
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"id": id.String(), "mnemonic": codec.Encode(id.Bytes())})
			}
			fmt.Fprintln(out, id)
			fmt.Fprintln(out, codec.Encode(id.Bytes()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&document, "document", false, "Generate a 31-bit document id instead")
	return cmd
}

func newMnemonicCommand(ctx *commandContext) *cobra.Command {
	var decode bool
	var size int

	cmd := &cobra.Command{
		Use:   "mnemonic <hex | words>",
		Short: "Render hex bytes as words, or words back to hex with --decode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := ctx.codec()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if decode {
				raw, err := codec.Decode(args[0], size)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, hex.EncodeToString(raw))
				return nil
			}
			raw, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(args[0]), ":", ""))
			if err != nil {
				return services.Wrap(services.ErrValidation, "mnemonic", "parse hex", args[0], err)
			}
			fmt.Fprintln(out, codec.Encode(raw))
			return nil
		},
	}

	cmd.Flags().BoolVar(&decode, "decode", false, "Decode words back to hex")
	cmd.Flags().IntVar(&size, "bytes", archiveid.Size, "Byte length of the decoded value")
	return cmd
}
