package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/RichWolff/joplin-sync/internal/api"
	"github.com/RichWolff/joplin-sync/internal/note"
	"github.com/RichWolff/joplin-sync/internal/slugs"
)

// newClient builds an API client from the resolved configuration.
func newClient() (*api.Client, error) {
	client, err := api.New(cfg)
	if err != nil {
		// The only constructor failure is an unreadable trust root.
		return nil, failErr(ErrFileReadError, err)
	}
	return client, nil
}

// requireID validates a note or notebook id passed on the command line.
func requireID(value, what string) (string, error) {
	id := strings.TrimSpace(value)
	if !note.ValidID(id) {
		return "", failf(ErrInvalidInput, "invalid %s %q: want %d hexadecimal characters", what, id, note.IDLength)
	}
	return id, nil
}

// resolveOutPath turns --out into a concrete file path. When out names a
// directory (existing, or given with a trailing separator) the filename
// is derived from the note title.
func resolveOutPath(out, title string) string {
	if strings.HasSuffix(out, "/") || strings.HasSuffix(out, string(os.PathSeparator)) {
		return filepath.Join(out, slugs.Filename(title))
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, slugs.Filename(title))
	}
	return out
}
