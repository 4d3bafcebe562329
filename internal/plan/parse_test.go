package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<PLAN>
- [todo][1] Collect requirements
- [doing][2] Draft the design
- [done][3] Set up the repo
</PLAN>
`

func TestParse_Valid(t *testing.T) {
	doc, err := Parse(sampleDoc)
	require.NoError(t, err)
	require.Equal(t, 3, doc.Len())

	assert.Equal(t, Item{ID: 1, Title: "Collect requirements", Status: StatusTodo}, doc.Items[0])
	assert.Equal(t, Item{ID: 2, Title: "Draft the design", Status: StatusDoing}, doc.Items[1])
	assert.Equal(t, Item{ID: 3, Title: "Set up the repo", Status: StatusDone}, doc.Items[2])
}

func TestParse_EmptyTextIsEmptyPlan(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n"} {
		doc, err := Parse(text)
		require.NoError(t, err)
		assert.Equal(t, 0, doc.Len())
	}
}

func TestParse_EmptyBlock(t *testing.T) {
	doc, err := Parse("<PLAN>\n</PLAN>\n")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Len())
}

func TestParse_BlankInteriorLinesSkipped(t *testing.T) {
	doc, err := Parse("<PLAN>\n- [todo][1] A\n\n- [todo][2] B\n</PLAN>")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Len())
}

func TestParse_TextOutsideBlock(t *testing.T) {
	_, err := Parse("preamble\n<PLAN>\n- [todo][1] A\n</PLAN>")
	require.ErrorIs(t, err, ErrMalformedDocument)

	_, err = Parse("<PLAN>\n- [todo][1] A\n</PLAN>\ntrailing")
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParse_MultipleBlocks(t *testing.T) {
	_, err := Parse("<PLAN>\n- [todo][1] A\n</PLAN>\n<PLAN>\n</PLAN>")
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParse_MissingCloseMarker(t *testing.T) {
	_, err := Parse("<PLAN>\n- [todo][1] A")
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParse_InvalidLineShape(t *testing.T) {
	_, err := Parse("<PLAN>\nnot a plan line\n</PLAN>")
	require.ErrorIs(t, err, ErrMalformedDocument)

	_, err = Parse("<PLAN>\n- plain bullet without status\n</PLAN>")
	require.ErrorIs(t, err, ErrMalformedDocument)
}

func TestParse_InvalidStatus(t *testing.T) {
	_, err := Parse("<PLAN>\n- [urgent][1] A\n</PLAN>")
	require.ErrorIs(t, err, ErrInvalidStatus)

	var perr *Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Detail, "urgent")
}

func TestParse_EmptyTitle(t *testing.T) {
	_, err := Parse("<PLAN>\n- [todo][1]   \n</PLAN>")
	require.ErrorIs(t, err, ErrEmptyTitle)
}

func TestParse_NonContiguousIDs(t *testing.T) {
	cases := map[string]string{
		"gap":           "<PLAN>\n- [todo][1] A\n- [todo][3] B\n</PLAN>",
		"duplicate":     "<PLAN>\n- [todo][1] A\n- [todo][1] B\n</PLAN>",
		"not from one":  "<PLAN>\n- [todo][2] A\n</PLAN>",
		"reverse order": "<PLAN>\n- [todo][2] A\n- [todo][1] B\n</PLAN>",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			require.ErrorIs(t, err, ErrNonContiguousIDs)
		})
	}
}

func TestFromLines_RenumbersLiteralIDs(t *testing.T) {
	doc, err := FromLines([]string{
		"- [todo][99] A",
		"- [todo][7] B",
	})
	require.NoError(t, err)
	require.Equal(t, 2, doc.Len())
	assert.Equal(t, 1, doc.Items[0].ID)
	assert.Equal(t, 2, doc.Items[1].ID)
}

func TestFromLines_StillValidatesStatusAndTitle(t *testing.T) {
	_, err := FromLines([]string{"- [bogus][1] A"})
	require.ErrorIs(t, err, ErrInvalidStatus)

	_, err = FromLines([]string{"- [todo][1]"})
	require.ErrorIs(t, err, ErrEmptyTitle)
}
