package plan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Markers delimiting the plan block in its textual form.
const (
	OpenMarker  = "<PLAN>"
	CloseMarker = "</PLAN>"
)

var itemLineRE = regexp.MustCompile(`^- \[([^\[\]]*)\]\[(\d+)\]\s*(.*)$`)

// Parse converts raw text into a validated document. Empty or
// whitespace-only text parses to an empty document. Non-empty text must
// consist of exactly one markered block; item ids must be exactly 1..N in
// line order.
func Parse(text string) (*Document, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return &Document{}, nil
	}

	lines := strings.Split(trimmed, "\n")
	if strings.TrimSpace(lines[0]) != OpenMarker {
		return nil, &Error{
			Kind:   ErrMalformedDocument,
			Line:   1,
			Detail: fmt.Sprintf("expected %s as first line", OpenMarker),
		}
	}
	last := len(lines) - 1
	if strings.TrimSpace(lines[last]) != CloseMarker {
		return nil, &Error{
			Kind:   ErrMalformedDocument,
			Line:   len(lines),
			Detail: fmt.Sprintf("expected %s as last line", CloseMarker),
		}
	}

	items, err := parseItems(lines[1:last], false)
	if err != nil {
		return nil, err
	}
	return &Document{Items: items}, nil
}

// FromLines builds a document from interior item lines, ignoring the
// literal id each line carries: ids are reassigned positionally. Status
// and title validation is as strict as Parse. This is the
// validation/renumbering pass run after a patch, where ids introduced by
// replacement lines are advisory only.
func FromLines(lines []string) (*Document, error) {
	items, err := parseItems(lines, true)
	if err != nil {
		return nil, err
	}
	return &Document{Items: items}, nil
}

// parseItems validates interior lines in order: line shape, then status,
// then title, then id contiguity. Blank lines are skipped. When renumber
// is true the literal id is ignored and positional ids are assigned.
func parseItems(lines []string, renumber bool) ([]Item, error) {
	var items []Item
	for i, raw := range lines {
		lineNo := i + 2 // 1-based, after the open marker
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if line == OpenMarker || line == CloseMarker {
			return nil, &Error{
				Kind:   ErrMalformedDocument,
				Line:   lineNo,
				Detail: "nested plan marker",
			}
		}
		m := itemLineRE.FindStringSubmatch(line)
		if m == nil {
			return nil, &Error{
				Kind:   ErrMalformedDocument,
				Line:   lineNo,
				Detail: fmt.Sprintf("invalid plan line %q, expected '- [status][id] title'", line),
			}
		}

		status := Status(m[1])
		if !status.Valid() {
			return nil, &Error{
				Kind:   ErrInvalidStatus,
				Line:   lineNo,
				Detail: fmt.Sprintf("%q must be one of: todo, doing, done, aborted", m[1]),
			}
		}

		title := strings.TrimSpace(m[3])
		if title == "" {
			return nil, &Error{Kind: ErrEmptyTitle, Line: lineNo}
		}

		id := len(items) + 1
		if !renumber {
			parsed, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, &Error{
					Kind:   ErrMalformedDocument,
					Line:   lineNo,
					Detail: fmt.Sprintf("invalid id %q", m[2]),
				}
			}
			if parsed != id {
				return nil, &Error{
					Kind:   ErrNonContiguousIDs,
					Line:   lineNo,
					Detail: fmt.Sprintf("expected id %d, found %d", id, parsed),
				}
			}
		}

		items = append(items, Item{ID: id, Title: title, Status: status})
	}
	return items, nil
}
