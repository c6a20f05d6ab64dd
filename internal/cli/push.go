package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichWolff/joplin-sync/internal/api"
	"github.com/RichWolff/joplin-sync/internal/document"
	"github.com/RichWolff/joplin-sync/internal/localfs"
	"github.com/RichWolff/joplin-sync/internal/ui"
)

var (
	pushFile   string
	pushNoteID string
	pushTitle  string
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a local markdown file back to its note",
	Long: `Read a local file and overwrite the corresponding remote note with
its body (last write wins; there is no conflict detection).

Which note to update comes from --note-id, or failing that from the
note_id in the file's metadata header. The title comes from --title,
then the header title, then the note's current remote title. The local
file itself is never modified.

Examples:
  jsync push --file notes/meeting.md
  jsync push --file scratch.md --note-id 0fa5...
  jsync push --file notes/meeting.md --title "Renamed" --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := localfs.ReadDocument(pushFile)
		if err != nil {
			return failErr(ErrFileReadError, err)
		}

		doc, err := document.Parse(text)
		if err != nil {
			var headerErr *document.HeaderError
			if errors.As(err, &headerErr) {
				return &commandError{
					code:       ErrHeaderMalformed,
					message:    fmt.Sprintf("%s: %v", pushFile, err),
					details:    map[string]interface{}{"key": headerErr.Key},
					suggestion: "Fix the metadata header or re-pull the note",
				}
			}
			return failErr(ErrHeaderMalformed, err)
		}

		var id string
		if pushNoteID != "" {
			if id, err = requireID(pushNoteID, "note id"); err != nil {
				return err
			}
		} else if doc.Header.NoteID.Present() {
			id = doc.Header.NoteID.Value()
		} else {
			return &commandError{
				code:       ErrNoteIDMissing,
				message:    fmt.Sprintf("%s has no note_id in its header and no --note-id was given", pushFile),
				suggestion: "Pass --note-id, or pull the note first so the file carries its identity",
			}
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		title, err := effectiveTitle(client, doc, id)
		if err != nil {
			return err
		}

		rec, err := client.UpdateNote(id, title, doc.Body)
		if err != nil {
			return apiFail(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"note_id": rec.ID,
				"title":   rec.Title,
				"path":    pushFile,
			})
			return nil
		}

		fmt.Println(ui.Successf("pushed %s to %s", ui.FilePath(pushFile), ui.NoteID(rec.ID)))
		return nil
	},
}

// effectiveTitle resolves the title to push. Only when neither the flag
// nor the header provides one does it cost an extra fetch to preserve
// the note's current remote title.
func effectiveTitle(client *api.Client, doc *document.Document, id string) (string, error) {
	if pushTitle != "" {
		return pushTitle, nil
	}
	if doc.Header.Title.Present() {
		return doc.Header.Title.Value(), nil
	}

	rec, err := client.FetchNote(id)
	if err != nil {
		return "", apiFail(err)
	}
	return rec.Title, nil
}

func init() {
	pushCmd.Flags().StringVar(&pushFile, "file", "", "Local file to push (required)")
	pushCmd.Flags().StringVar(&pushNoteID, "note-id", "", "Note id to update (overrides the file header)")
	pushCmd.Flags().StringVar(&pushTitle, "title", "", "Title to set (overrides the file header)")
	_ = pushCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(pushCmd)
}
