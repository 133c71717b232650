package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManifestFilename is the fixed name of the conversion record written to the
// output directory after a merge pass.
const ManifestFilename = "conversion.txt"

// Entry records one copied file: where it came from and where it went.
type Entry struct {
	Original string // absolute path of the source frame
	Renamed  string // absolute path it was copied to
}

// Manifest is the ordered record of every copy performed by one merge pass.
// Entries are kept in insertion order, which is also sequence-index order.
type Manifest struct {
	entries []Entry
}

// Add appends a copy record to the manifest.
func (m *Manifest) Add(original, renamed string) {
	m.entries = append(m.entries, Entry{Original: original, Renamed: renamed})
}

// Len returns the number of recorded copies.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Entries returns the recorded copies in insertion order.
func (m *Manifest) Entries() []Entry {
	return m.entries
}

// Render formats the manifest as text, one line per entry:
//
//	'<original>' -> '<renamed>'
func (m *Manifest) Render() string {
	var b strings.Builder
	for _, e := range m.entries {
		fmt.Fprintf(&b, "'%s' -> '%s'\n", e.Original, e.Renamed)
	}
	return b.String()
}

// WriteFile persists the manifest to <dir>/conversion.txt, replacing any
// previous manifest wholesale.
func (m *Manifest) WriteFile(dir string) error {
	path := filepath.Join(dir, ManifestFilename)
	if err := os.WriteFile(path, []byte(m.Render()), 0o644); err != nil {
		return fmt.Errorf("merge: write manifest %s: %w", path, err)
	}
	return nil
}
