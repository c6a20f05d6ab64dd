//go:build integration

package cli_test

import (
	"strings"
	"testing"

	"github.com/RichWolff/joplin-sync/internal/document"
	"github.com/RichWolff/joplin-sync/internal/note"
	"github.com/RichWolff/joplin-sync/internal/testutil"
)

func TestIntegration_CreateWithBody(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNotebook(notebookID)
	h := testutil.NewHarness(t, srv)

	result := h.Run("create", "--notebook-id", notebookID, "--title", "Standup", "--body", "- updates\n")
	result.MustSucceed(t)

	id := result.DataString("note_id")
	if !note.ValidID(id) {
		t.Fatalf("data.note_id = %q, want a server-issued id", id)
	}
	stored := srv.Note(id)
	if stored == nil || stored.Title != "Standup" || stored.Body != "- updates\n" {
		t.Errorf("stored note = %+v", stored)
	}
}

func TestIntegration_CreateFromBodyFileStripsHeader(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNotebook(notebookID)
	h := testutil.NewHarness(t, srv)

	// A draft pulled from another note: its header identity must not
	// leak into the new note.
	h.WriteFile("draft.md", "---\nnote_id: "+noteID+"\ntitle: Old\n---\ndraft body\n")

	result := h.Run("create", "--notebook-id", notebookID, "--title", "Fresh", "--body-file", "draft.md")
	result.MustSucceed(t)

	id := result.DataString("note_id")
	if id == noteID {
		t.Fatal("create reused the draft's note_id")
	}
	stored := srv.Note(id)
	if stored.Body != "draft body\n" {
		t.Errorf("stored body = %q, want header stripped", stored.Body)
	}
	if stored.Title != "Fresh" {
		t.Errorf("stored title = %q, want from --title", stored.Title)
	}
}

func TestIntegration_CreateBodySourceRules(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNotebook(notebookID)
	h := testutil.NewHarness(t, srv)
	h.WriteFile("draft.md", "text")

	h.Run("create", "--notebook-id", notebookID, "--title", "T",
		"--body", "x", "--body-file", "draft.md").MustFail(t, "BODY_AMBIGUOUS")
	h.Run("create", "--notebook-id", notebookID, "--title", "T").MustFail(t, "BODY_MISSING")

	// Both failures happen before any network traffic.
	sessions, _, creates, _ := srv.CallCounts()
	if sessions != 0 || creates != 0 {
		t.Errorf("calls = %d sessions, %d creates; want none", sessions, creates)
	}
}

func TestIntegration_CreateEmptyBodyIsValid(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNotebook(notebookID)
	h := testutil.NewHarness(t, srv)

	result := h.Run("create", "--notebook-id", notebookID, "--title", "Empty", "--body", "")
	result.MustSucceed(t)
	if stored := srv.Note(result.DataString("note_id")); stored.Body != "" {
		t.Errorf("stored body = %q, want empty", stored.Body)
	}
}

func TestIntegration_CreateUnknownNotebook(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.Run("create", "--notebook-id", missingID, "--title", "T", "--body", "b").
		MustFail(t, "NOTEBOOK_NOT_FOUND")
}

func TestIntegration_CreateWithOutWritesPullableFile(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNotebook(notebookID)
	h := testutil.NewHarness(t, srv)

	result := h.Run("create", "--notebook-id", notebookID, "--title", "Kept Local",
		"--body", "body\n", "--out", "notes/")
	result.MustSucceed(t)

	path := result.DataString("path")
	if !strings.HasSuffix(path, "kept-local.md") {
		t.Fatalf("data.path = %q, want slug-derived filename", path)
	}
	content := h.ReadFile("notes/kept-local.md")
	doc, err := document.Parse(content)
	if err != nil {
		t.Fatalf("written file does not parse: %v", err)
	}
	if got := doc.Header.NoteID.Value(); got != result.DataString("note_id") {
		t.Errorf("written header note_id = %q, want %q", got, result.DataString("note_id"))
	}

	// The written file round-trips through push.
	h.WriteFile("notes/kept-local.md", strings.Replace(content, "body\n", "changed\n", 1))
	h.Run("push", "--file", "notes/kept-local.md").MustSucceed(t)
	if got := srv.Note(result.DataString("note_id")).Body; got != "changed\n" {
		t.Errorf("remote body after push = %q", got)
	}
}
