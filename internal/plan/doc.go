// Package plan parses, edits, and renders canonical plan documents.
//
// A plan document is a single markered block of task lines:
//
//	<PLAN>
//	- [todo][1] Collect requirements
//	- [doing][2] Draft the design
//	- [done][3] Set up the repo
//	</PLAN>
//
// Each line carries a status, a positional id, and a title. Ids are not
// stable handles: they always equal the item's 1-based position and are
// recomputed on every render. The on-disk file is the single source of
// truth; an absent or empty file is an empty plan, not an error.
//
// # Statuses
//
//   - "todo": step has not been started
//   - "doing": step is currently being worked on
//   - "done": step finished successfully
//   - "aborted": step was abandoned
//
// # Editing
//
// Two edit modalities exist, both funneled through the same
// parse-validate-render boundary so neither can persist an invalid
// document:
//
//  1. Structural edits: Upsert (append or overwrite-by-id) and Remove
//     batches, atomic as a whole.
//  2. Line patches: ordered SEARCH/REPLACE blocks applied to the interior
//     line sequence, each block against the output of the previous one.
//
// Status values are additionally guarded by a transition table; see
// TransitionTable and the engine package.
package plan
