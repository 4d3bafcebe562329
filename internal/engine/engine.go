// Package engine exposes the mutating-call surface over one plan file.
//
// Every call is a full read-modify-write: the file is read fresh, parsed
// and validated, mutated in memory by exactly one of the structural
// editor, the patch engine, or the transition guard, then rendered
// canonically and written back atomically. Any failure aborts the call
// before the write; the file is never left half-edited.
//
// Two capability surfaces exist and are never unified: Editor is the
// structure-only surface safe to hand to an untrusted caller, Supervisor
// adds the guarded status transition and belongs to the trusted
// orchestrator.
package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/planloop/planloop/internal/plan"
	"github.com/planloop/planloop/internal/store"
)

// Result is the outcome of a successful call: the canonical text now on
// disk, the parsed item list, and the ids of items the call changed.
type Result struct {
	CanonicalText string
	Items         []plan.Item
	ChangedIDs    []int
}

// Editor is the structural edit surface: it changes which items exist
// and what they say, but carries no guarded status transition.
type Editor interface {
	Upsert(batch []plan.UpsertItem) (*Result, error)
	UpsertJSON(payload []byte) (*Result, error)
	Remove(ids []int) (*Result, error)
	Patch(patchText string) (*Result, error)
}

// Supervisor is the trusted orchestrator surface: everything Editor can
// do, plus reads and guarded status transitions.
type Supervisor interface {
	Editor
	Snapshot() (*Result, error)
	Transition(id int, target plan.Status) (*Result, error)
}

// Engine implements Supervisor over one plan file.
type Engine struct {
	store       *store.Store
	transitions plan.TransitionTable
	logger      *log.Logger
}

// Option configures an engine.
type Option func(*Engine)

// WithTransitions overrides the status transition table. The table is
// deployment policy owned by the orchestrating caller.
func WithTransitions(t plan.TransitionTable) Option {
	return func(e *Engine) {
		e.transitions = t
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine for the plan file at path.
func New(path string, opts ...Option) *Engine {
	e := &Engine{
		store:       store.New(path),
		transitions: plan.DefaultTransitions(),
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewEditor creates the structure-only capability for the plan file at
// path. The returned value cannot be asserted back to an Engine, so the
// holder has no route to the transition guard.
func NewEditor(path string, opts ...Option) Editor {
	return &editorOnly{engine: New(path, opts...)}
}

// Path returns the plan file path.
func (e *Engine) Path() string {
	return e.store.Path()
}

// load reads the plan file fresh and parses it. In-memory documents are
// never cached across calls.
func (e *Engine) load() (*plan.Document, error) {
	text, err := e.store.Read()
	if err != nil {
		return nil, err
	}
	return plan.Parse(text)
}

// commit renders the document canonically, persists it, and builds the
// call result.
func (e *Engine) commit(doc *plan.Document, changed []int) (*Result, error) {
	doc.Renumber()
	text := doc.Render()
	if err := e.store.Write(text); err != nil {
		return nil, err
	}
	return &Result{CanonicalText: text, Items: doc.Items, ChangedIDs: changed}, nil
}

// Snapshot reads and validates the current plan without mutating it.
func (e *Engine) Snapshot() (*Result, error) {
	doc, err := e.load()
	if err != nil {
		return nil, err
	}
	return &Result{CanonicalText: doc.Render(), Items: doc.Items}, nil
}

// Upsert applies an append/overwrite batch atomically.
func (e *Engine) Upsert(batch []plan.UpsertItem) (*Result, error) {
	doc, err := e.load()
	if err != nil {
		return nil, err
	}
	next, changed, err := doc.Upsert(batch)
	if err != nil {
		return nil, err
	}
	res, err := e.commit(next, changed)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("plan updated", "op", "upsert", "changed", changed, "items", len(res.Items))
	return res, nil
}

// Remove deletes items by id atomically; survivors keep their relative
// order and are renumbered.
func (e *Engine) Remove(ids []int) (*Result, error) {
	doc, err := e.load()
	if err != nil {
		return nil, err
	}
	next, removed, err := doc.Remove(ids)
	if err != nil {
		return nil, err
	}
	res, err := e.commit(next, removed)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("plan updated", "op", "remove", "removed", removed, "items", len(res.Items))
	return res, nil
}

// Patch applies SEARCH/REPLACE wire text to the interior line sequence.
// The patched text is re-run through full validation before anything is
// written; a violation fails the whole patch and leaves the file
// byte-unchanged.
func (e *Engine) Patch(patchText string) (*Result, error) {
	doc, err := e.load()
	if err != nil {
		return nil, err
	}
	next, err := doc.ApplyPatch(patchText)
	if err != nil {
		return nil, err
	}
	changed := diffIDs(doc, next)
	res, err := e.commit(next, changed)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("plan updated", "op", "patch", "changed", changed, "items", len(res.Items))
	return res, nil
}

// Transition moves one item to target under the transition table. The
// document is re-read fresh, the transition is validated against the
// currently persisted status, applied through the overwrite-by-id path,
// and the persisted result is read back and confirmed.
func (e *Engine) Transition(id int, target plan.Status) (*Result, error) {
	doc, err := e.load()
	if err != nil {
		return nil, err
	}
	if id < 1 || id > doc.Len() {
		return nil, &plan.Error{
			Kind:   plan.ErrIDOutOfRange,
			ID:     id,
			Detail: fmt.Sprintf("current max id is %d", doc.Len()),
		}
	}

	current := doc.Items[id-1]
	if !target.Valid() {
		return nil, &plan.Error{
			Kind:   plan.ErrInvalidStatus,
			ID:     id,
			Detail: fmt.Sprintf("%q must be one of: todo, doing, done, aborted", target),
		}
	}
	if !e.transitions.Allows(current.Status, target) {
		return nil, &plan.Error{
			Kind:   plan.ErrInvalidTransition,
			ID:     id,
			Detail: fmt.Sprintf("%s -> %s", current.Status, target),
		}
	}

	next, _, err := doc.Upsert([]plan.UpsertItem{{ID: id, Status: target, Title: current.Title}})
	if err != nil {
		return nil, err
	}
	res, err := e.commit(next, []int{id})
	if err != nil {
		return nil, err
	}

	// Read back and confirm the persisted status; a mismatch means the
	// write was silently corrupted.
	check, err := e.load()
	if err != nil {
		return nil, err
	}
	if id > check.Len() || check.Items[id-1].Status != target {
		return nil, &plan.Error{
			Kind:   plan.ErrConfirmationFailed,
			ID:     id,
			Detail: fmt.Sprintf("persisted status is not %q", target),
		}
	}

	e.logger.Info("plan status changed", "id", id, "from", current.Status, "to", target)
	return res, nil
}

// diffIDs returns the ids of items in next that are new or differ from
// the item at the same position in prev.
func diffIDs(prev, next *plan.Document) []int {
	var changed []int
	for i, item := range next.Items {
		if i >= prev.Len() {
			changed = append(changed, i+1)
			continue
		}
		old := prev.Items[i]
		if old.Title != item.Title || old.Status != item.Status {
			changed = append(changed, i+1)
		}
	}
	return changed
}

// editorOnly hides the Supervisor methods of an engine behind the
// Editor interface so an untrusted holder cannot reach the transition
// guard by type assertion.
type editorOnly struct {
	engine *Engine
}

func (eo *editorOnly) Upsert(batch []plan.UpsertItem) (*Result, error) {
	return eo.engine.Upsert(batch)
}

func (eo *editorOnly) UpsertJSON(payload []byte) (*Result, error) {
	return eo.engine.UpsertJSON(payload)
}

func (eo *editorOnly) Remove(ids []int) (*Result, error) {
	return eo.engine.Remove(ids)
}

func (eo *editorOnly) Patch(patchText string) (*Result, error) {
	return eo.engine.Patch(patchText)
}
