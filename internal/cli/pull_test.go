//go:build integration

package cli_test

import (
	"testing"

	"github.com/RichWolff/joplin-sync/internal/document"
	"github.com/RichWolff/joplin-sync/internal/note"
	"github.com/RichWolff/joplin-sync/internal/testutil"
)

const (
	noteID     = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	notebookID = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	missingID  = "cccccccccccccccccccccccccccccccc"
)

func TestIntegration_PullWritesDocument(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{
		ID:       noteID,
		ParentID: notebookID,
		Title:    "Meeting Notes",
		Body:     "# Agenda\n\n- updates\n",
	})
	h := testutil.NewHarness(t, srv)

	result := h.Run("pull", "--note-id", noteID, "--out", "notes/meeting.md")
	result.MustSucceed(t)
	if got := result.DataString("note_id"); got != noteID {
		t.Errorf("data.note_id = %q, want %q", got, noteID)
	}

	want := string(document.Marshal(*srv.Note(noteID)))
	if got := h.ReadFile("notes/meeting.md"); got != want {
		t.Errorf("pulled file = %q, want %q", got, want)
	}
}

func TestIntegration_PullIsDeterministic(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{ID: noteID, ParentID: notebookID, Title: "Stable", Body: "body\n"})
	h := testutil.NewHarness(t, srv)

	h.Run("pull", "--note-id", noteID, "--out", "a.md").MustSucceed(t)
	first := h.ReadFile("a.md")
	h.Run("pull", "--note-id", noteID, "--out", "a.md").MustSucceed(t)
	if second := h.ReadFile("a.md"); second != first {
		t.Errorf("second pull produced different bytes:\nfirst:  %q\nsecond: %q", first, second)
	}
}

func TestIntegration_PullIntoDirectoryDerivesFilename(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{ID: noteID, ParentID: notebookID, Title: "Weekly Sync: Q3!", Body: "hi\n"})
	h := testutil.NewHarness(t, srv)

	result := h.Run("pull", "--note-id", noteID, "--out", "notes/")
	result.MustSucceed(t)
	if !h.FileExists("notes/weekly-sync-q3.md") {
		t.Fatalf("expected notes/weekly-sync-q3.md, got path %q", result.DataString("path"))
	}
}

func TestIntegration_PullMissingNoteWritesNothing(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.Run("pull", "--note-id", missingID, "--out", "gone.md").MustFail(t, "NOTE_NOT_FOUND")
	if h.FileExists("gone.md") {
		t.Error("failed pull must not leave a file behind")
	}
}

func TestIntegration_PullRejectsBadIDBeforeNetwork(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.Run("pull", "--note-id", "not-an-id", "--out", "x.md").MustFail(t, "INVALID_INPUT")

	sessions, fetches, _, _ := srv.CallCounts()
	if sessions != 0 || fetches != 0 {
		t.Errorf("server was contacted (%d sessions, %d fetches) for an invalid id", sessions, fetches)
	}
}

func TestIntegration_PullBadCredentials(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{ID: noteID, ParentID: notebookID, Title: "t", Body: "b"})
	h := testutil.NewHarness(t, srv)

	h.Run("pull", "--note-id", noteID, "--out", "x.md", "--password", "wrong").
		MustFail(t, "AUTH_FAILED")
}
