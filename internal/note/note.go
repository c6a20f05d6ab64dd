// Package note defines the remote note record and identifier rules.
package note

// Record is a note as the server reports it: the four fields jsync
// round-trips. The server assigns id on creation and never changes it;
// parent_id is the owning notebook and is never modified by this tool.
type Record struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// IDLength is the length of note and notebook identifiers.
const IDLength = 32

// ValidID reports whether s looks like a server-issued identifier:
// exactly 32 hexadecimal characters.
func ValidID(s string) bool {
	if len(s) != IDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
