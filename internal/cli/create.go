package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichWolff/joplin-sync/internal/document"
	"github.com/RichWolff/joplin-sync/internal/localfs"
	"github.com/RichWolff/joplin-sync/internal/ui"
)

var (
	createNotebookID string
	createTitle      string
	createBody       string
	createBodyFile   string
	createOut        string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new note in a notebook",
	Long: `Create a note on the server in the given notebook.

The body comes from exactly one of --body or --body-file. When the body
file starts with a metadata header, only the content below the header is
used; any identity in that header is ignored because the server assigns
the new note's id.

With --out, the created note is written to a local file the same way
pull writes it, ready for later pushes.

Examples:
  jsync create --notebook-id 9c2b... --title "Standup" --body "- [ ] updates"
  jsync create --notebook-id 9c2b... --title "Standup" --body-file draft.md
  jsync create --notebook-id 9c2b... --title "Standup" --body "" --out notes/`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		notebookID, err := requireID(createNotebookID, "notebook id")
		if err != nil {
			return err
		}

		body, err := createBodyContent(cmd)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}

		rec, err := client.CreateNote(notebookID, createTitle, body)
		if err != nil {
			return apiFail(err)
		}

		var outPath string
		if createOut != "" {
			outPath = resolveOutPath(createOut, rec.Title)
			if err := localfs.WriteDocument(outPath, document.Marshal(*rec)); err != nil {
				// The note exists remotely; the id must survive the
				// local failure or the user has no way to reach it.
				return &commandError{
					code:    ErrFileWriteError,
					message: fmt.Sprintf("note %s created, but writing %s failed: %v", rec.ID, outPath, err),
					details: map[string]interface{}{"note_id": rec.ID},
				}
			}
		}

		if isJSONOutput() {
			data := map[string]interface{}{
				"note_id":   rec.ID,
				"parent_id": rec.ParentID,
				"title":     rec.Title,
			}
			if outPath != "" {
				data["path"] = outPath
			}
			outputSuccess(data)
			return nil
		}

		fmt.Println(ui.Successf("created %s in notebook %s", ui.NoteID(rec.ID), ui.NoteID(rec.ParentID)))
		if outPath != "" {
			fmt.Println(ui.Infof("written to %s", ui.FilePath(outPath)))
		}
		return nil
	},
}

// createBodyContent enforces the body source rules before anything
// touches the network: exactly one of --body and --body-file.
func createBodyContent(cmd *cobra.Command) (string, error) {
	bodySet := cmd.Flags().Changed("body")
	fileSet := cmd.Flags().Changed("body-file")

	switch {
	case bodySet && fileSet:
		return "", failf(ErrBodyAmbiguous, "both --body and --body-file given; the body must come from exactly one source")
	case !bodySet && !fileSet:
		return "", failf(ErrBodyMissing, "no body given; pass --body or --body-file")
	case bodySet:
		return createBody, nil
	}

	text, err := localfs.ReadDocument(createBodyFile)
	if err != nil {
		return "", failErr(ErrFileReadError, err)
	}

	doc, err := document.Parse(text)
	if err != nil {
		// An unusable header in the source file would silently leak into
		// the note body if ignored, so reject it instead.
		return "", failErr(ErrHeaderMalformed, err)
	}
	return doc.Body, nil
}

func init() {
	createCmd.Flags().StringVar(&createNotebookID, "notebook-id", "", "Notebook id to create the note in (required)")
	createCmd.Flags().StringVar(&createTitle, "title", "", "Title of the new note (required)")
	createCmd.Flags().StringVar(&createBody, "body", "", "Note body text")
	createCmd.Flags().StringVar(&createBodyFile, "body-file", "", "File whose content becomes the note body")
	createCmd.Flags().StringVar(&createOut, "out", "", "Also write the created note to this file or directory")
	_ = createCmd.MarkFlagRequired("notebook-id")
	_ = createCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(createCmd)
}
