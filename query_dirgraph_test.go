package orrery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryGraph_AggregatesFileEdges(t *testing.T) {
	g := &RelationshipGraph{}
	g.Append(
		Relationship{FromFile: "src/a.ts", ToFile: "lib/c.ts", Kind: Import},
		Relationship{FromFile: "src/b.ts", ToFile: "lib/c.ts", Kind: Import},
		Relationship{FromFile: "src/a.ts", ToFile: "src/b.ts", Kind: Import},
		Relationship{FromFile: "root.ts", ToFile: "src/a.ts", Kind: Import},
	)
	q := NewQuery(g)

	dg := q.DirectoryGraph([]string{"src/a.ts", "src/b.ts", "lib/c.ts", "root.ts"})

	assert.Equal(t, []DirectoryNode{
		{Path: ".", FileCount: 1},
		{Path: "lib", FileCount: 1},
		{Path: "src", FileCount: 2},
	}, dg.Directories)

	assert.Equal(t, []DirectoryEdge{
		{FromDir: ".", ToDir: "src", EdgeCount: 1},
		{FromDir: "src", ToDir: "lib", EdgeCount: 2},
		{FromDir: "src", ToDir: "src", EdgeCount: 1},
	}, dg.Edges)
}

func TestDirectoryGraph_EdgeEndpointsOutsidePathList(t *testing.T) {
	g := &RelationshipGraph{}
	g.Append(Relationship{FromFile: "ghost/x.ts", ToFile: "src/a.ts", Kind: Import})
	q := NewQuery(g)

	dg := q.DirectoryGraph([]string{"src/a.ts"})

	require.Len(t, dg.Directories, 2)
	assert.Equal(t, DirectoryNode{Path: "ghost", FileCount: 0}, dg.Directories[0])
	assert.Equal(t, DirectoryNode{Path: "src", FileCount: 1}, dg.Directories[1])
}

func TestDirectoryGraph_EmptyInputs(t *testing.T) {
	q := NewQuery(nil)

	dg := q.DirectoryGraph(nil)
	assert.Empty(t, dg.Directories)
	assert.Empty(t, dg.Edges)
}

func TestCycles_AcyclicReturnsEmpty(t *testing.T) {
	q := NewQuery(chainGraph())

	cycles := q.Cycles()
	assert.NotNil(t, cycles)
	assert.Empty(t, cycles)
}

func TestCycles_TwoNodeCycle(t *testing.T) {
	g := &RelationshipGraph{}
	g.Append(
		Relationship{FromFile: "x.py", ToFile: "y.py", Kind: Import},
		Relationship{FromFile: "y.py", ToFile: "x.py", Kind: Import},
		Relationship{FromFile: "x.py", ToFile: "z.py", Kind: Import},
	)
	q := NewQuery(g)

	cycles := q.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"x.py", "y.py", "x.py"}, cycles[0])
}

func TestCycles_ThreeNodeCycleInTraversalOrder(t *testing.T) {
	g := &RelationshipGraph{}
	g.Append(
		Relationship{FromFile: "a.go", ToFile: "b.go", Kind: Import},
		Relationship{FromFile: "b.go", ToFile: "c.go", Kind: Import},
		Relationship{FromFile: "c.go", ToFile: "a.go", Kind: Import},
	)
	q := NewQuery(g)

	cycles := q.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a.go", "b.go", "c.go", "a.go"}, cycles[0])
}

func TestCycles_SelfLoop(t *testing.T) {
	g := &RelationshipGraph{}
	g.Append(Relationship{FromFile: "a.ts", ToFile: "a.ts", Kind: Import})
	q := NewQuery(g)

	cycles := q.Cycles()
	require.Len(t, cycles, 1)
	assert.Equal(t, []string{"a.ts", "a.ts"}, cycles[0])
}

func TestCycles_MultipleCyclesSorted(t *testing.T) {
	g := &RelationshipGraph{}
	g.Append(
		Relationship{FromFile: "m.rs", ToFile: "n.rs", Kind: Import},
		Relationship{FromFile: "n.rs", ToFile: "m.rs", Kind: Import},
		Relationship{FromFile: "a.rs", ToFile: "b.rs", Kind: Import},
		Relationship{FromFile: "b.rs", ToFile: "a.rs", Kind: Import},
	)
	q := NewQuery(g)

	cycles := q.Cycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, "a.rs", cycles[0][0])
	assert.Equal(t, "m.rs", cycles[1][0])
}
