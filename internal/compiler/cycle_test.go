package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeCycles_DAG(t *testing.T) {
	g := mustCompile(t, fullExample)
	// User -> User is nominal and counts as a self loop; nothing else cycles.
	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"User", "User"}, warnings[0].Path)
}

func TestAnalyzeCycles_Acyclic(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
record: A: property: b: type: "B"
record: B: property: x: type: "int"
`)
	warnings := AnalyzeCycles(g)
	assert.NotNil(t, warnings)
	assert.Empty(t, warnings)
}

func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
record: Node: property: next: type: {ref: "Node"}
`)
	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"Node", "Node"}, warnings[0].Path)
	assert.Equal(t, "info", warnings[0].Level)
	assert.Equal(t, "Self-referencing declaration: Node → Node", warnings[0].Message)
}

func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
record: User: property: team: type: {ref: "Team"}
record: Team: property: owner: type: {ref: "User"}
`)
	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"User", "Team", "User"}, warnings[0].Path)
	assert.Equal(t, "warning", warnings[0].Level)
	assert.Equal(t, "Reference cycle: User → Team → User", warnings[0].Message)
}

func TestAnalyzeCycles_CycleOnlyInLaterRevision(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1", "v2"]
record: A: property: b: {type: {ref: "B"}, since: "v2"}
record: B: property: a: type: {ref: "A"}
`)
	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
}

func TestAnalyzeCycles_ThroughArray(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
record: Tree: property: children: type: {array: {ref: "Tree"}}
`)
	warnings := AnalyzeCycles(g)
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"Tree", "Tree"}, warnings[0].Path)
}

func TestTarjanSCC_ThreeNodeCycle(t *testing.T) {
	graph := dependencyGraph{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
		"D": {"A"},
	}
	sccs := tarjanSCC(graph, []string{"A", "B", "C", "D"})
	require.Len(t, sccs, 2)
	assert.Equal(t, []string{"A", "B", "C"}, sccs[0])
	assert.Equal(t, []string{"D"}, sccs[1])
}

func TestTarjanSCC_DAG(t *testing.T) {
	graph := dependencyGraph{
		"A": {"B"},
		"B": {},
	}
	sccs := tarjanSCC(graph, []string{"A", "B"})
	assert.Equal(t, [][]string{{"B"}, {"A"}}, sccs)
}

func TestReconstructCyclePath(t *testing.T) {
	graph := dependencyGraph{
		"A": {"B"},
		"B": {"C"},
		"C": {"A"},
	}
	assert.Equal(t, []string{"A", "B", "C", "A"}, reconstructCyclePath([]string{"A", "B", "C"}, graph))
	assert.Equal(t, []string{}, reconstructCyclePath(nil, graph))
}

func TestHasSelfLoop(t *testing.T) {
	graph := dependencyGraph{"A": {"A"}, "B": {"A"}}
	assert.True(t, hasSelfLoop("A", graph))
	assert.False(t, hasSelfLoop("B", graph))
}
