package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Canonical(t *testing.T) {
	doc := &Document{Items: []Item{
		{Title: "Step A", Status: StatusTodo},
		{Title: "Step B", Status: StatusDoing},
	}}
	assert.Equal(t, "<PLAN>\n- [todo][1] Step A\n- [doing][2] Step B\n</PLAN>\n", doc.Render())
}

func TestRender_EmptyPlan(t *testing.T) {
	doc := &Document{}
	assert.Equal(t, "<PLAN>\n</PLAN>\n", doc.Render())
}

func TestRender_IgnoresCarriedIDs(t *testing.T) {
	// Ids in memory are advisory; rendering always uses position.
	doc := &Document{Items: []Item{
		{ID: 42, Title: "A", Status: StatusTodo},
		{ID: 7, Title: "B", Status: StatusDone},
	}}
	assert.Equal(t, "<PLAN>\n- [todo][1] A\n- [done][2] B\n</PLAN>\n", doc.Render())
}

func TestRender_RoundTrip(t *testing.T) {
	doc, err := Parse(sampleDoc)
	require.NoError(t, err)

	again, err := Parse(doc.Render())
	require.NoError(t, err)
	assert.Equal(t, doc.Items, again.Items)
}

func TestRender_Idempotent(t *testing.T) {
	doc, err := Parse(sampleDoc)
	require.NoError(t, err)
	once := doc.Render()

	reparsed, err := Parse(once)
	require.NoError(t, err)
	assert.Equal(t, once, reparsed.Render())
}
