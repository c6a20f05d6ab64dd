package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichWolff/joplin-sync/internal/document"
	"github.com/RichWolff/joplin-sync/internal/localfs"
	"github.com/RichWolff/joplin-sync/internal/ui"
)

var (
	pullNoteID string
	pullOut    string
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Fetch a note into a local markdown file",
	Long: `Fetch a note from the server and write it to a local file.

The file gets a metadata header (note_id, parent_id, title) followed by
the note body, so a later push knows which note it belongs to. Parent
directories are created as needed and an existing file is overwritten.

When --out names a directory, the filename is derived from the note
title.

Examples:
  jsync pull --note-id 0fa5... --out notes/meeting.md
  jsync pull --note-id 0fa5... --out notes/     # notes/<title-slug>.md
  jsync pull --note-id 0fa5... --out note.md --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(pullNoteID, "note id")
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		rec, err := client.FetchNote(id)
		if err != nil {
			return apiFail(err)
		}

		outPath := resolveOutPath(pullOut, rec.Title)
		if err := localfs.WriteDocument(outPath, document.Marshal(*rec)); err != nil {
			return failErr(ErrFileWriteError, err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"note_id":   rec.ID,
				"parent_id": rec.ParentID,
				"title":     rec.Title,
				"path":      outPath,
			})
			return nil
		}

		fmt.Println(ui.Successf("pulled %s to %s", ui.NoteID(rec.ID), ui.FilePath(outPath)))
		return nil
	},
}

func init() {
	pullCmd.Flags().StringVar(&pullNoteID, "note-id", "", "Note id to fetch (required)")
	pullCmd.Flags().StringVar(&pullOut, "out", "", "Destination file or directory (required)")
	_ = pullCmd.MarkFlagRequired("note-id")
	_ = pullCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(pullCmd)
}
