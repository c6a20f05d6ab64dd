//go:build integration

package cli_test

import (
	"strings"
	"testing"

	"github.com/RichWolff/joplin-sync/internal/note"
	"github.com/RichWolff/joplin-sync/internal/testutil"
)

func TestIntegration_PullEditPush(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{
		ID:       noteID,
		ParentID: notebookID,
		Title:    "Meeting Notes",
		Body:     "original\n",
	})
	h := testutil.NewHarness(t, srv)

	h.Run("pull", "--note-id", noteID, "--out", "meeting.md").MustSucceed(t)

	edited := strings.Replace(h.ReadFile("meeting.md"), "original\n", "edited\n", 1)
	h.WriteFile("meeting.md", edited)

	h.Run("push", "--file", "meeting.md").MustSucceed(t)

	remote := srv.Note(noteID)
	if remote.Body != "edited\n" {
		t.Errorf("remote body = %q, want %q", remote.Body, "edited\n")
	}
	if remote.Title != "Meeting Notes" {
		t.Errorf("remote title = %q, want preserved", remote.Title)
	}

	// Push must never rewrite the local file.
	if got := h.ReadFile("meeting.md"); got != edited {
		t.Errorf("push modified the local file:\nbefore: %q\nafter:  %q", edited, got)
	}
}

func TestIntegration_PushNoteIDFlagBeatsHeader(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{ID: noteID, ParentID: notebookID, Title: "A", Body: "a"})
	other := "dddddddddddddddddddddddddddddddd"
	srv.AddNote(note.Record{ID: other, ParentID: notebookID, Title: "B", Body: "b"})
	h := testutil.NewHarness(t, srv)

	h.WriteFile("doc.md", "---\nnote_id: "+noteID+"\ntitle: From Header\n---\nnew body")
	h.Run("push", "--file", "doc.md", "--note-id", other).MustSucceed(t)

	if got := srv.Note(other).Body; got != "new body" {
		t.Errorf("override target body = %q, want %q", got, "new body")
	}
	if got := srv.Note(noteID).Body; got != "a" {
		t.Errorf("header target body = %q, want untouched", got)
	}
}

func TestIntegration_PushTitleFallsBackToRemote(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{ID: noteID, ParentID: notebookID, Title: "Remote Title", Body: "old"})
	h := testutil.NewHarness(t, srv)

	// Header carries identity but no title.
	h.WriteFile("doc.md", "---\nnote_id: "+noteID+"\n---\nnew body\n")
	h.Run("push", "--file", "doc.md").MustSucceed(t)

	remote := srv.Note(noteID)
	if remote.Title != "Remote Title" {
		t.Errorf("remote title = %q, want preserved via fetch", remote.Title)
	}
	if remote.Body != "new body\n" {
		t.Errorf("remote body = %q", remote.Body)
	}

	// The title fallback is the one case that costs an extra fetch.
	_, fetches, _, updates := srv.CallCounts()
	if fetches != 1 || updates != 1 {
		t.Errorf("calls = %d fetches, %d updates; want 1 and 1", fetches, updates)
	}
}

func TestIntegration_PushHeaderTitleAvoidsExtraFetch(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.AddNote(note.Record{ID: noteID, ParentID: notebookID, Title: "Old", Body: "old"})
	h := testutil.NewHarness(t, srv)

	h.WriteFile("doc.md", "---\nnote_id: "+noteID+"\ntitle: New Title\n---\nbody")
	h.Run("push", "--file", "doc.md").MustSucceed(t)

	_, fetches, _, updates := srv.CallCounts()
	if fetches != 0 || updates != 1 {
		t.Errorf("calls = %d fetches, %d updates; want 0 and 1", fetches, updates)
	}
	if got := srv.Note(noteID).Title; got != "New Title" {
		t.Errorf("remote title = %q, want %q", got, "New Title")
	}
}

func TestIntegration_PushWithoutIdentity(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.WriteFile("plain.md", "just some markdown\n")
	h.Run("push", "--file", "plain.md").MustFail(t, "NOTE_ID_MISSING")

	sessions, _, _, _ := srv.CallCounts()
	if sessions != 0 {
		t.Errorf("server was contacted %d times before the identity check", sessions)
	}
}

func TestIntegration_PushMalformedHeader(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.WriteFile("bad.md", "---\nnote_id: short\n---\nbody")
	h.Run("push", "--file", "bad.md").MustFail(t, "HEADER_MALFORMED")
}

func TestIntegration_PushMissingFile(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.Run("push", "--file", "nope.md").MustFail(t, "FILE_READ_ERROR")
}

func TestIntegration_PushMissingRemoteNote(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	h := testutil.NewHarness(t, srv)

	h.WriteFile("doc.md", "---\nnote_id: "+missingID+"\ntitle: T\n---\nbody")
	h.Run("push", "--file", "doc.md").MustFail(t, "NOTE_NOT_FOUND")
}
