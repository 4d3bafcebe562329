package plan

import (
	"fmt"
	"strings"
)

// Line renders one item in canonical form using the given 1-based
// position, never the id the item currently carries.
func line(position int, item Item) string {
	return fmt.Sprintf("- [%s][%d] %s", item.Status, position, item.Title)
}

// Lines returns the canonical interior lines of the document, one per
// item, ids equal to position. This is the line sequence patches operate
// on.
func (d *Document) Lines() []string {
	lines := make([]string, len(d.Items))
	for i, item := range d.Items {
		lines[i] = line(i+1, item)
	}
	return lines
}

// Render returns the unique canonical text of the document, including a
// trailing newline. Rendering is idempotent: parsing the output and
// rendering again yields byte-identical text.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString(OpenMarker)
	b.WriteByte('\n')
	for _, l := range d.Lines() {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	b.WriteString(CloseMarker)
	b.WriteByte('\n')
	return b.String()
}
