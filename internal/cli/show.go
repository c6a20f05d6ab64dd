package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RichWolff/joplin-sync/internal/ui"
)

var showRawFlag bool

var showCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Display a note in the terminal",
	Long: `Fetch a note and print it without touching any local file.

On a terminal the body is rendered as markdown; when piped (or with
--raw) the body is printed verbatim.

Examples:
  jsync show 0fa5...
  jsync show 0fa5... --raw
  jsync show 0fa5... --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := requireID(args[0], "note id")
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

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"note_id":   rec.ID,
				"parent_id": rec.ParentID,
				"title":     rec.Title,
				"body":      rec.Body,
			})
			return nil
		}

		display := ui.NewDisplayContext()
		if showRawFlag || !display.IsTTY {
			fmt.Print(rec.Body)
			return nil
		}

		fmt.Println(ui.Header(rec.Title))
		fmt.Println(ui.Hint(rec.ID))

		rendered, err := ui.RenderMarkdown(rec.Body, display.TermWidth)
		if err != nil {
			// Rendering is cosmetic; fall back to the raw body.
			fmt.Print(rec.Body)
			return nil
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showRawFlag, "raw", false, "Print the raw body without markdown rendering")
	rootCmd.AddCommand(showCmd)
}
