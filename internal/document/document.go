// Package document converts between remote note records and the local
// on-disk format: a YAML metadata header delimited by "---" lines,
// followed by the note body verbatim.
package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/RichWolff/joplin-sync/internal/note"
)

// Delimiter opens and closes the metadata header block.
const Delimiter = "---"

// Recognized header keys. Anything else in the header is ignored so that
// files written by newer versions still parse.
const (
	KeyNoteID   = "note_id"
	KeyParentID = "parent_id"
	KeyTitle    = "title"
)

// Field is a header value that is either present or absent. An absent
// field is not an error; it is just a missing piece of identity that the
// caller resolves through its own fallback chain.
type Field struct {
	value   string
	present bool
}

// Present reports whether the field was set in the header.
func (f Field) Present() bool { return f.present }

// Value returns the field value, or "" if absent.
func (f Field) Value() string { return f.value }

// Or returns the field value if present, otherwise the fallback.
func (f Field) Or(fallback string) string {
	if f.present {
		return f.value
	}
	return fallback
}

func presentField(value string) Field {
	return Field{value: value, present: true}
}

// Header is the parsed metadata block of a local document.
type Header struct {
	NoteID   Field
	ParentID Field
	Title    Field
}

// Document is a local file split into header and body.
type Document struct {
	Header Header

	// Body is everything after the header block, byte-exact including
	// blank lines and trailing-newline presence.
	Body string
}

// HeaderError reports an unusable metadata header.
type HeaderError struct {
	Key    string
	Reason string
}

func (e *HeaderError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("malformed header: %s", e.Reason)
	}
	return fmt.Sprintf("malformed header: %s: %s", e.Key, e.Reason)
}

// Marshal serializes a note record to the local document format. All three
// header keys are emitted, in canonical order (note_id, parent_id, title),
// so that pulls of the same record are byte-identical and diff-friendly.
// The body follows the closing delimiter verbatim.
func Marshal(rec note.Record) []byte {
	var buf strings.Builder
	buf.WriteString(Delimiter)
	buf.WriteByte('\n')
	buf.Write(marshalHeader(rec))
	buf.WriteString(Delimiter)
	buf.WriteByte('\n')
	buf.WriteString(rec.Body)
	return []byte(buf.String())
}

func marshalHeader(rec note.Record) []byte {
	node := &yaml.Node{Kind: yaml.MappingNode}
	addScalar(node, KeyNoteID, rec.ID)
	addScalar(node, KeyParentID, rec.ParentID)
	addScalar(node, KeyTitle, rec.Title)

	out, err := yaml.Marshal(node)
	if err != nil {
		// A mapping of string scalars cannot fail to encode; fall back to
		// the quoted form so a bad title still cannot corrupt the header.
		return []byte(fmt.Sprintf("%s: %s\n%s: %s\n%s: %q\n",
			KeyNoteID, rec.ID, KeyParentID, rec.ParentID, KeyTitle, rec.Title))
	}
	return out
}

func addScalar(mapping *yaml.Node, key, value string) {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	// The !!str tag makes the emitter quote values that would otherwise
	// re-parse as numbers or booleans.
	valNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	// Multi-line titles would otherwise encode as block scalars whose
	// content lines could be mistaken for the closing delimiter.
	if strings.ContainsAny(value, "\n\r") {
		valNode.Style = yaml.DoubleQuotedStyle
	}
	mapping.Content = append(mapping.Content, keyNode, valNode)
}

// Parse splits text into an optional metadata header and a body.
//
// A header is only detected when the first line is the delimiter and a
// closing delimiter line follows; otherwise the whole text is the body
// with an empty header. Within the header, unrecognized keys are ignored
// and absent recognized keys stay absent. A note_id or parent_id that is
// non-empty after trimming but not a plausible identifier is an error.
func Parse(text string) (*Document, error) {
	lines := strings.Split(text, "\n")

	end, ok := headerBounds(lines)
	if !ok {
		return &Document{Body: text}, nil
	}

	// Decoding values as yaml.Node keeps each scalar's raw text. Going
	// through interface{} would run YAML type resolution first, turning
	// an unquoted all-digit id into a float before it can be validated
	// and rewriting titles like 1.50 to 1.5.
	raw := strings.Join(lines[1:end], "\n")
	var data map[string]yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, &HeaderError{Reason: fmt.Sprintf("invalid YAML: %v", err)}
	}

	doc := &Document{Body: strings.Join(lines[end+1:], "\n")}

	var err error
	if doc.Header.NoteID, err = idField(data, KeyNoteID); err != nil {
		return nil, err
	}
	if doc.Header.ParentID, err = idField(data, KeyParentID); err != nil {
		return nil, err
	}
	doc.Header.Title = titleField(data)

	return doc, nil
}

// headerBounds returns the closing delimiter line index when the text
// opens with a complete header block. An opening delimiter without a
// closing one is not treated as a header.
func headerBounds(lines []string) (end int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != Delimiter {
		return -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			return i, true
		}
	}
	return -1, false
}

func idField(data map[string]yaml.Node, key string) (Field, error) {
	node, ok := data[key]
	if !ok || node.Tag == "!!null" {
		return Field{}, nil
	}
	if node.Kind != yaml.ScalarNode {
		return Field{}, &HeaderError{Key: key, Reason: "value must be a single scalar"}
	}

	value := strings.TrimSpace(node.Value)
	if value == "" {
		return Field{}, nil
	}
	if !note.ValidID(value) {
		return Field{}, &HeaderError{
			Key:    key,
			Reason: fmt.Sprintf("%q is not a %d-character hex identifier", value, note.IDLength),
		}
	}
	return presentField(value), nil
}

func titleField(data map[string]yaml.Node) Field {
	node, ok := data[KeyTitle]
	if !ok || node.Tag == "!!null" || node.Kind != yaml.ScalarNode {
		return Field{}
	}
	return presentField(node.Value)
}
