package plan

import (
	"fmt"
	"sort"
	"strings"
)

// UpsertItem is one element of a structural upsert batch. An element
// without an id appends a new item; an element with an id overwrites the
// referenced item's status and title in place. Ids select items, they
// are never final: every successful edit renumbers positionally.
type UpsertItem struct {
	ID     int    `json:"id,omitempty"`
	Status Status `json:"status"`
	Title  string `json:"title"`
}

// Upsert applies a batch of append/overwrite elements and returns the
// edited document plus the (renumbered) ids of the touched items. The
// batch is atomic: any invalid element rejects the whole batch and the
// receiver is left untouched.
func (d *Document) Upsert(batch []UpsertItem) (*Document, []int, error) {
	if len(batch) == 0 {
		return nil, nil, &Error{Kind: ErrMissingField, Detail: "upsert batch must not be empty"}
	}

	next := d.Clone()
	changed := make([]int, 0, len(batch))
	for i, el := range batch {
		if el.Status == "" {
			return nil, nil, &Error{Kind: ErrMissingField, Detail: fmt.Sprintf("element %d: status is required", i+1)}
		}
		if !el.Status.Valid() {
			return nil, nil, &Error{
				Kind:   ErrInvalidStatus,
				Detail: fmt.Sprintf("element %d: %q must be one of: todo, doing, done, aborted", i+1, el.Status),
			}
		}
		if el.Title == "" {
			return nil, nil, &Error{Kind: ErrMissingField, Detail: fmt.Sprintf("element %d: title is required", i+1)}
		}
		title := strings.TrimSpace(el.Title)
		if title == "" {
			return nil, nil, &Error{Kind: ErrEmptyTitle, Detail: fmt.Sprintf("element %d", i+1)}
		}

		switch {
		case el.ID == 0:
			next.Items = append(next.Items, Item{Title: title, Status: el.Status})
			changed = append(changed, len(next.Items))
		case el.ID < 0 || el.ID > len(next.Items):
			return nil, nil, &Error{
				Kind:   ErrIDOutOfRange,
				ID:     el.ID,
				Detail: fmt.Sprintf("current max id is %d", len(next.Items)),
			}
		default:
			next.Items[el.ID-1].Title = title
			next.Items[el.ID-1].Status = el.Status
			changed = append(changed, el.ID)
		}
	}

	next.Renumber()
	return next, changed, nil
}

// Remove deletes every item whose id is in ids, preserving the relative
// order of survivors. Any id not present in the document rejects the
// whole batch. Removing every item is valid and yields an empty plan.
func (d *Document) Remove(ids []int) (*Document, []int, error) {
	if len(ids) == 0 {
		return nil, nil, &Error{Kind: ErrMissingField, Detail: "remove requires at least one id"}
	}

	doomed := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id < 1 || id > len(d.Items) {
			return nil, nil, &Error{
				Kind:   ErrUnknownID,
				ID:     id,
				Detail: fmt.Sprintf("current max id is %d", len(d.Items)),
			}
		}
		doomed[id] = true
	}

	next := &Document{}
	for i, item := range d.Items {
		if !doomed[i+1] {
			next.Items = append(next.Items, item)
		}
	}
	next.Renumber()

	removed := make([]int, 0, len(doomed))
	for id := range doomed {
		removed = append(removed, id)
	}
	sort.Ints(removed)
	return next, removed, nil
}
