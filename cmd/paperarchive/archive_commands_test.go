package main

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"paperarchive/internal/labels"
	"paperarchive/internal/placement"
	"paperarchive/internal/services"
	"paperarchive/internal/testsupport"
)

func mustArchive(t *testing.T) *placement.ArchiveMap {
	t.Helper()
	m, err := placement.New([]byte(testsupport.TestSecret), 3, 50)
	if err != nil {
		t.Fatalf("placement.New: %v", err)
	}
	return m
}

func TestBoxesListsConfiguredBoxes(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"--json", "boxes"}, env.configPath)
	if err != nil {
		t.Fatalf("boxes: %v", err)
	}
	boxes := decodeJSON[[]boxView](t, out)
	want := []string{"1204282820d68fdd", "d33974bfe01756ed", "dc6cc630dac5a1d0"}
	if len(boxes) != len(want) {
		t.Fatalf("expected %d boxes, got %d", len(want), len(boxes))
	}
	total := 0
	for i, box := range boxes {
		if box.ID != want[i] {
			t.Fatalf("box %d: got %s want %s", i, box.ID, want[i])
		}
		if box.Mnemonic == "" {
			t.Fatalf("box %d has no mnemonic", i)
		}
		total += box.Folders
	}
	if total != 50 {
		t.Fatalf("folders across boxes = %d, want 50", total)
	}

	table, _, err := runCLI(t, []string{"boxes"}, env.configPath)
	if err != nil {
		t.Fatalf("boxes table: %v", err)
	}
	requireContains(t, table, "1204282820d68fdd")
	requireContains(t, table, "Mnemonic")
}

func TestFoldersFilteredByBox(t *testing.T) {
	env := setupCLITestEnv(t)
	archive := mustArchive(t)
	box := archive.Boxes()[1]

	out, _, err := runCLI(t, []string{"--json", "folders", "--box", box.ID.String()}, env.configPath)
	if err != nil {
		t.Fatalf("folders: %v", err)
	}
	folders := decodeJSON[[]folderView](t, out)
	if len(folders) != len(archive.FoldersInBox(box)) {
		t.Fatalf("expected %d folders, got %d", len(archive.FoldersInBox(box)), len(folders))
	}
	for _, folder := range folders {
		if folder.Box != box.ID.String() {
			t.Fatalf("folder %s listed under wrong box %s", folder.ID, folder.Box)
		}
	}
}

func TestLocateDocumentMatchesPlacement(t *testing.T) {
	env := setupCLITestEnv(t)
	loc := mustArchive(t).Locate(42)

	out, _, err := runCLI(t, []string{"--json", "locate", "document", "0000000042"}, env.configPath)
	if err != nil {
		t.Fatalf("locate document: %v", err)
	}
	view := decodeJSON[locationView](t, out)
	if view.DocumentID != "0000000042" || view.Folder != loc.Folder.ID.String() || view.Box != loc.Box.ID.String() {
		t.Fatalf("unexpected location %+v", view)
	}
}

func TestLocateRejectsUnknownFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"locate", "folder", "0000000000000000"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if code := services.ExitCode(err); code != 65 {
		t.Fatalf("exit code = %d, want 65", code)
	}

	_, _, err = runCLI(t, []string{"locate", "document", "2147483648"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for oversized id, got %v", err)
	}
}

func TestMissingSecretIsConfigurationError(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSecret(""))

	_, _, err := runCLI(t, []string{"boxes"}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if code := services.ExitCode(err); code != 78 {
		t.Fatalf("exit code = %d, want 78", code)
	}
}

func TestMnemonicRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"mnemonic", "1204282820d68fdd"}, env.configPath)
	if err != nil {
		t.Fatalf("mnemonic: %v", err)
	}
	words := strings.TrimSpace(out)
	if strings.Count(words, "--") != 1 {
		t.Fatalf("expected two word groups, got %q", words)
	}

	out, _, err = runCLI(t, []string{"mnemonic", "--decode", strings.ToUpper(words)}, env.configPath)
	if err != nil {
		t.Fatalf("mnemonic --decode: %v", err)
	}
	if got := strings.TrimSpace(out); got != "1204282820d68fdd" {
		t.Fatalf("decoded %q", got)
	}

	if _, _, err := runCLI(t, []string{"mnemonic", "xyz"}, env.configPath); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for bad hex, got %v", err)
	}
	if _, _, err := runCLI(t, []string{"mnemonic", "--decode", "--bytes=-1", ""}, env.configPath); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for negative length, got %v", err)
	}
}

func TestNewID(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"new-id", "--document"}, env.configPath)
	if err != nil {
		t.Fatalf("new-id --document: %v", err)
	}
	if !regexp.MustCompile(`^\d{10}\n$`).MatchString(out) {
		t.Fatalf("unexpected document id output %q", out)
	}

	out, _, err = runCLI(t, []string{"new-id"}, env.configPath)
	if err != nil {
		t.Fatalf("new-id: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !regexp.MustCompile(`^[0-9a-f]{16}$`).MatchString(lines[0]) {
		t.Fatalf("unexpected new-id output %q", out)
	}
}

func TestLabelsFolderJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Archive.FolderURLPrefix = "https://paperless.example/archive"
	env.rewriteConfig(t)

	out, _, err := runCLI(t, []string{"--json", "labels", "folder"}, env.configPath)
	if err != nil {
		t.Fatalf("labels folder: %v", err)
	}
	records := decodeJSON[[]labels.Label](t, out)
	if len(records) != 50 {
		t.Fatalf("expected 50 folder labels, got %d", len(records))
	}
	first := records[0]
	if first.URL != "https://paperless.example/archive/"+first.ID || len(first.Lines) != 2 || first.Position == nil {
		t.Fatalf("unexpected label %+v", first)
	}

	out, _, err = runCLI(t, []string{"labels", "box"}, env.configPath)
	if err != nil {
		t.Fatalf("labels box: %v", err)
	}
	requireContains(t, out, "1204282820d68fdd")
}
