package projection

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemonic-no/act-utils/pkg/datamodel"
	"github.com/mnemonic-no/act-utils/pkg/graph"
)

func model(objects []string, facts ...datamodel.FactBinding) *datamodel.Model {
	return datamodel.FromSnapshot(datamodel.Snapshot{Objects: objects, Facts: facts},
		datamodel.WithLogger(log.New(io.Discard)))
}

func nodeIDs(g *graph.Graph) []string {
	var ids []string
	for n := range g.Nodes() {
		ids = append(ids, n.ID)
	}
	return ids
}

func TestDoubleScenario(t *testing.T) {
	m := model([]string{"host", "ip"},
		datamodel.FactBinding{Name: "resolvesTo", Source: "host", Destination: "ip"})

	g := Double(m.Facts())
	assert.ElementsMatch(t, []string{"host", "ip"}, nodeIDs(g))
	edges := slices.Collect(g.Edges())
	require.Len(t, edges, 1)
	assert.Equal(t, graph.Edge{From: "host", To: "ip", Label: "resolvesTo", Dir: graph.DirForward}, edges[0])

	c := Complete(m.Objects(), m.Facts())
	assert.ElementsMatch(t, []string{"host", "ip"}, nodeIDs(c))
	assert.Equal(t, edges, slices.Collect(c.Edges()))
}

func TestSingleScenario(t *testing.T) {
	m := model(nil, datamodel.FactBinding{Name: "hasAttribute", Source: "host"})

	s := Single(m.Facts())
	assert.ElementsMatch(t, []string{"host", "hasAttribute"}, nodeIDs(s))
	edges := slices.Collect(s.Edges())
	require.Len(t, edges, 1)
	assert.Equal(t, "host", edges[0].From)
	assert.Equal(t, "hasAttribute", edges[0].To)
	assert.Empty(t, edges[0].Label)

	fact, ok := s.Node("hasAttribute")
	require.True(t, ok)
	assert.Equal(t, graph.ShapeDiamond, fact.Shape)
	src, _ := s.Node("host")
	assert.Equal(t, graph.ShapeDefault, src.Shape)

	d := Double(m.Facts())
	assert.Zero(t, d.NodeCount())
	assert.Zero(t, d.EdgeCount())
}

func TestMentionsOnlyInComplete(t *testing.T) {
	m := model(nil, datamodel.FactBinding{Name: MentionsFact, Source: "report", Destination: "host"})

	d := Double(m.Facts())
	assert.Zero(t, d.EdgeCount())
	assert.Zero(t, d.NodeCount())

	c := Complete(m.Objects(), m.Facts())
	edges := slices.Collect(c.Edges())
	require.Len(t, edges, 1)
	assert.Equal(t, MentionsFact, edges[0].Label)
}

func TestBidirectional(t *testing.T) {
	m := model(nil, datamodel.FactBinding{Name: "alias", Source: "host", Destination: "host", Bidirectional: true})

	for _, g := range []*graph.Graph{Double(m.Facts()), Complete(m.Objects(), m.Facts())} {
		edges := slices.Collect(g.Edges())
		require.Len(t, edges, 1, g.Name())
		assert.Equal(t, graph.DirBoth, edges[0].Dir)
		assert.Equal(t, 1, g.NodeCount(), "self loop declares one node")
	}
}

func TestCompleteKeepsIsolatedObjects(t *testing.T) {
	m := model([]string{"host", "ip", "vulnerability"},
		datamodel.FactBinding{Name: "resolvesTo", Source: "host", Destination: "ip"})

	c := Complete(m.Objects(), m.Facts())
	assert.True(t, c.HasNode("vulnerability"))
	assert.Equal(t, 3, c.NodeCount())
	assert.False(t, Double(m.Facts()).HasNode("vulnerability"))
}

func TestMultipleFactsBetweenSameTypes(t *testing.T) {
	m := model(nil,
		datamodel.FactBinding{Name: "resolvesTo", Source: "host", Destination: "ip"},
		datamodel.FactBinding{Name: "connectsTo", Source: "host", Destination: "ip"},
	)
	g := Double(m.Facts())
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
}

func TestUnaryFactSharedBySources(t *testing.T) {
	m := model(nil,
		datamodel.FactBinding{Name: "name", Source: "threatActor"},
		datamodel.FactBinding{Name: "name", Source: "tool"},
	)
	s := Single(m.Facts())
	assert.Equal(t, 3, s.NodeCount())
	assert.Equal(t, 2, s.EdgeCount())
}

func TestAll(t *testing.T) {
	m := model([]string{"host"}, datamodel.FactBinding{Name: "hasAttribute", Source: "host"})

	graphs := All(m)
	require.Len(t, graphs, 3)
	assert.Equal(t, NameDouble, graphs[0].Name())
	assert.Equal(t, CommentDouble, graphs[0].Comment())
	assert.Equal(t, NameSingle, graphs[1].Name())
	assert.Equal(t, CommentSingle, graphs[1].Comment())
	assert.Equal(t, NameComplete, graphs[2].Name())
	assert.Equal(t, CommentComplete, graphs[2].Comment())
}

func TestAllPoisonedModel(t *testing.T) {
	m := datamodel.New(nil, nil, datamodel.WithLogger(log.New(io.Discard)))
	for _, g := range All(m) {
		assert.Zero(t, g.NodeCount(), g.Name())
		assert.Zero(t, g.EdgeCount(), g.Name())
	}
}
