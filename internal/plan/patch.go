package plan

import (
	"fmt"
	"strings"
)

// Patch wire format markers. A request is one or more concatenated
// blocks:
//
//	<<<<<<< SEARCH
//	...lines to find...
//	=======
//	...replacement lines...
//	>>>>>>> REPLACE
const (
	SearchMarker  = "<<<<<<< SEARCH"
	DividerMarker = "======="
	ReplaceMarker = ">>>>>>> REPLACE"
)

// Block is one SEARCH/REPLACE unit. Which sides are empty determines
// the operation: empty search appends the replace lines at the end,
// empty replace deletes the matched run, both non-empty substitutes it.
type Block struct {
	Search  []string
	Replace []string
}

// ParsePatch parses strict SEARCH/REPLACE wire text into ordered blocks.
// Lines are trimmed of surrounding whitespace and blank lines inside a
// section are dropped, so patch text matches against canonical lines.
// Text outside a block, missing markers, or a patch with no blocks at
// all are malformed.
func ParsePatch(text string) ([]Block, error) {
	lines := strings.Split(text, "\n")
	var blocks []Block

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}
		if line != SearchMarker {
			return nil, &Error{
				Kind:   ErrMalformedDocument,
				Line:   i + 1,
				Detail: fmt.Sprintf("unexpected patch line outside block: %q", lines[i]),
			}
		}

		i++
		var search []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != DividerMarker {
			if l := strings.TrimSpace(lines[i]); l != "" {
				search = append(search, l)
			}
			i++
		}
		if i >= len(lines) {
			return nil, &Error{
				Kind:   ErrMalformedDocument,
				Detail: fmt.Sprintf("missing %q marker in patch block", DividerMarker),
			}
		}

		i++
		var replace []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != ReplaceMarker {
			if l := strings.TrimSpace(lines[i]); l != "" {
				replace = append(replace, l)
			}
			i++
		}
		if i >= len(lines) {
			return nil, &Error{
				Kind:   ErrMalformedDocument,
				Detail: fmt.Sprintf("missing %q marker in patch block", ReplaceMarker),
			}
		}
		i++

		blocks = append(blocks, Block{Search: search, Replace: replace})
	}

	if len(blocks) == 0 {
		return nil, &Error{
			Kind:   ErrMalformedDocument,
			Detail: "no SEARCH/REPLACE block found",
		}
	}
	return blocks, nil
}

// ApplyBlocks applies blocks strictly in order to the interior line
// sequence: block k+1 sees the output of block k, so later blocks may
// target lines a prior block introduced. Each non-empty search must
// match a unique contiguous run of lines; the engine fails closed on
// zero or multiple matches rather than guessing intent.
func ApplyBlocks(lines []string, blocks []Block) ([]string, error) {
	current := lines
	for n, block := range blocks {
		if len(block.Search) == 0 {
			// Append at the end; a block with both sides empty is a no-op.
			current = append(append([]string{}, current...), block.Replace...)
			continue
		}

		matches := findRuns(current, block.Search)
		switch len(matches) {
		case 0:
			return nil, &Error{
				Kind:   ErrNoMatch,
				Detail: fmt.Sprintf("block %d: %q not found", n+1, block.Search[0]),
			}
		case 1:
			// unique, apply below
		default:
			return nil, &Error{
				Kind:   ErrAmbiguousMatch,
				Detail: fmt.Sprintf("block %d: %q matches %d runs", n+1, block.Search[0], len(matches)),
			}
		}

		at := matches[0]
		next := make([]string, 0, len(current)-len(block.Search)+len(block.Replace))
		next = append(next, current[:at]...)
		next = append(next, block.Replace...)
		next = append(next, current[at+len(block.Search):]...)
		current = next
	}
	return current, nil
}

// findRuns returns the start indexes of every contiguous run of lines
// equal to search, byte for byte.
func findRuns(lines, search []string) []int {
	var starts []int
	for i := 0; i+len(search) <= len(lines); i++ {
		match := true
		for j, s := range search {
			if lines[i+j] != s {
				match = false
				break
			}
		}
		if match {
			starts = append(starts, i)
		}
	}
	return starts
}

// ApplyPatch parses patch wire text and applies it to the document,
// returning the patched document with ids renumbered positionally. Any
// validation failure rejects the whole patch; the receiver is never
// modified.
func (d *Document) ApplyPatch(patchText string) (*Document, error) {
	blocks, err := ParsePatch(patchText)
	if err != nil {
		return nil, err
	}
	patched, err := ApplyBlocks(d.Lines(), blocks)
	if err != nil {
		return nil, err
	}
	return FromLines(patched)
}
