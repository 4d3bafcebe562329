package plan

// Status represents a plan item status.
type Status string

const (
	StatusTodo    Status = "todo"
	StatusDoing   Status = "doing"
	StatusDone    Status = "done"
	StatusAborted Status = "aborted"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone, StatusAborted:
		return true
	}
	return false
}

// Item is a single plan step.
type Item struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

// Document is an ordered list of plan items. The zero value is an empty
// plan. A Document is built fresh per call and never shared.
type Document struct {
	Items []Item
}

// Len returns the number of items.
func (d *Document) Len() int {
	return len(d.Items)
}

// Renumber reassigns every item id to its 1-based position.
func (d *Document) Renumber() {
	for i := range d.Items {
		d.Items[i].ID = i + 1
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{}
	if len(d.Items) > 0 {
		c.Items = make([]Item, len(d.Items))
		copy(c.Items, d.Items)
	}
	return c
}

// FirstByStatus returns a copy of the first item with the given status,
// or nil if none exists.
func (d *Document) FirstByStatus(status Status) *Item {
	for i := range d.Items {
		if d.Items[i].Status == status {
			item := d.Items[i]
			return &item
		}
	}
	return nil
}

// Counts tallies items per status.
func (d *Document) Counts() map[Status]int {
	counts := make(map[Status]int, 4)
	for i := range d.Items {
		counts[d.Items[i].Status]++
	}
	return counts
}

// TransitionTable maps a current status to the set of statuses it may
// move to. The table is owned by the orchestrating caller; deployments
// may supply their own.
type TransitionTable map[Status][]Status

// DefaultTransitions returns the standard status state machine:
// todo -> doing, doing -> done, doing -> aborted. done and aborted are
// terminal, and same-state transitions are not allowed.
func DefaultTransitions() TransitionTable {
	return TransitionTable{
		StatusTodo:    {StatusDoing},
		StatusDoing:   {StatusDone, StatusAborted},
		StatusDone:    {},
		StatusAborted: {},
	}
}

// Allows reports whether the table permits moving from one status to
// another.
func (t TransitionTable) Allows(from, to Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}
