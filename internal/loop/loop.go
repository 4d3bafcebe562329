// Package loop drives execution over a plan file: it picks the next
// todo item, marks it doing, and records the outcome. Task selection is
// deliberately the caller side of the engine contract; the engine itself
// never decides ordering.
package loop

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/planloop/planloop/internal/engine"
	"github.com/planloop/planloop/internal/plan"
)

// Runner selects and advances plan items through the engine's trusted
// surface. It never touches the plan file directly.
type Runner struct {
	sup    engine.Supervisor
	logger *log.Logger
}

// New creates a runner over the given supervisor surface. A nil logger
// discards output.
func New(sup engine.Supervisor, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{sup: sup, logger: logger}
}

// Next returns the first todo item in plan order, or nil when none is
// left.
func (r *Runner) Next() (*plan.Item, error) {
	doc, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.FirstByStatus(plan.StatusTodo), nil
}

// Start picks the first todo item and transitions it to doing. It
// returns nil with no error when the plan has no todo item left.
func (r *Runner) Start() (*plan.Item, error) {
	next, err := r.Next()
	if err != nil {
		return nil, err
	}
	if next == nil {
		r.logger.Info("no todo items left")
		return nil, nil
	}
	res, err := r.sup.Transition(next.ID, plan.StatusDoing)
	if err != nil {
		return nil, err
	}
	started := res.Items[next.ID-1]
	r.logger.Info("started item", "id", started.ID, "title", started.Title)
	return &started, nil
}

// Finish marks a doing item done.
func (r *Runner) Finish(id int) (*plan.Item, error) {
	return r.transition(id, plan.StatusDone)
}

// Abort marks a doing item aborted.
func (r *Runner) Abort(id int) (*plan.Item, error) {
	return r.transition(id, plan.StatusAborted)
}

func (r *Runner) transition(id int, target plan.Status) (*plan.Item, error) {
	res, err := r.sup.Transition(id, target)
	if err != nil {
		return nil, err
	}
	item := res.Items[id-1]
	r.logger.Info("item "+string(target), "id", item.ID, "title", item.Title)
	return &item, nil
}

// Counts tallies the current plan per status.
func (r *Runner) Counts() (map[plan.Status]int, error) {
	doc, err := r.snapshot()
	if err != nil {
		return nil, err
	}
	return doc.Counts(), nil
}

// Done reports whether no todo or doing item remains.
func (r *Runner) Done() (bool, error) {
	counts, err := r.Counts()
	if err != nil {
		return false, err
	}
	return counts[plan.StatusTodo] == 0 && counts[plan.StatusDoing] == 0, nil
}

func (r *Runner) snapshot() (*plan.Document, error) {
	res, err := r.sup.Snapshot()
	if err != nil {
		return nil, err
	}
	return &plan.Document{Items: res.Items}, nil
}
