package builder

import (
	"testing"

	"github.com/canvasflow/canvasflow/pkg/logicalid"
	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode_Defaults(t *testing.T) {
	g := New()

	node, err := g.AddNode(models.NodeTypeForm, models.Position{X: 10, Y: 20})
	require.NoError(t, err)

	assert.NotEmpty(t, node.SystemID)
	assert.Equal(t, models.NodeTypeForm, node.Type)
	assert.Equal(t, "form1", node.LogicalID)
	assert.Equal(t, models.Position{X: 10, Y: 20}, node.Position)
	assert.True(t, node.IsStartNode)
	assert.IsType(t, models.FormConfig{}, node.Config)
}

func TestAddNode_OnlyFirstNodeBecomesStart(t *testing.T) {
	g := New()

	first, err := g.AddNode(models.NodeTypeForm, models.Position{})
	require.NoError(t, err)

	second, err := g.AddNode(models.NodeTypeAgent, models.Position{})
	require.NoError(t, err)

	assert.True(t, first.IsStartNode)
	assert.False(t, second.IsStartNode)
	assert.Equal(t, first.SystemID, g.StartNode().SystemID)
}

func TestAddNode_LogicalIDsCountPerType(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	c, _ := g.AddNode(models.NodeTypeAgent, models.Position{})

	assert.Equal(t, "form1", a.LogicalID)
	assert.Equal(t, "form2", b.LogicalID)
	assert.Equal(t, "agent1", c.LogicalID)
}

func TestAddNode_UnknownType(t *testing.T) {
	g := New()

	_, err := g.AddNode(models.NodeType("teleport"), models.Position{})
	require.ErrorIs(t, err, ErrUnknownNodeType)
	assert.Empty(t, g.Nodes())
}

func TestConnect(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeAgent, models.Position{})

	edge, err := g.Connect(a.SystemID, b.SystemID, nil, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, edge.ID)
	assert.Equal(t, a.SystemID, edge.SourceNodeID)
	assert.Equal(t, b.SystemID, edge.TargetNodeID)
	assert.Len(t, g.Edges(), 1)
}

func TestConnect_MissingEndpoint(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})

	_, err := g.Connect(a.SystemID, "nope", nil, nil)
	require.ErrorIs(t, err, ErrNodeNotFound)

	_, err = g.Connect("nope", a.SystemID, nil, nil)
	require.ErrorIs(t, err, ErrNodeNotFound)

	assert.Empty(t, g.Edges())
}

func TestConnect_ParallelEdgesAndSelfLoops(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeAgent, models.Position{})

	_, err := g.Connect(a.SystemID, b.SystemID, nil, nil)
	require.NoError(t, err)

	_, err = g.Connect(a.SystemID, b.SystemID, nil, nil)
	require.NoError(t, err)

	_, err = g.Connect(a.SystemID, a.SystemID, nil, nil)
	require.NoError(t, err)

	assert.Len(t, g.Edges(), 3)
}

func TestDisconnect(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeAgent, models.Position{})
	edge, _ := g.Connect(a.SystemID, b.SystemID, nil, nil)

	require.NoError(t, g.Disconnect(edge.ID))
	assert.Empty(t, g.Edges())

	require.ErrorIs(t, g.Disconnect(edge.ID), ErrEdgeNotFound)
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeAgent, models.Position{})
	c, _ := g.AddNode(models.NodeTypePrompt, models.Position{})

	g.Connect(a.SystemID, b.SystemID, nil, nil)
	g.Connect(b.SystemID, c.SystemID, nil, nil)
	kept, _ := g.Connect(a.SystemID, c.SystemID, nil, nil)

	require.NoError(t, g.DeleteNode(b.SystemID))

	assert.Len(t, g.Nodes(), 2)
	require.Len(t, g.Edges(), 1)
	assert.Equal(t, kept.ID, g.Edges()[0].ID)
}

func TestDeleteNode_NotFound(t *testing.T) {
	g := New()

	require.ErrorIs(t, g.DeleteNode("nope"), ErrNodeNotFound)
}

func TestRenameLogicalID(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeForm, models.Position{})

	require.NoError(t, g.RenameLogicalID(a.SystemID, "intake1"))
	assert.Equal(t, "intake1", a.LogicalID)

	// Renaming to its own current id is a no-op, not a duplicate.
	require.NoError(t, g.RenameLogicalID(a.SystemID, "intake1"))

	err := g.RenameLogicalID(b.SystemID, "intake1")
	require.ErrorIs(t, err, ErrInvalidLogicalID)
	require.ErrorIs(t, err, logicalid.ErrDuplicateID)
	assert.Equal(t, "form2", b.LogicalID)

	err = g.RenameLogicalID(b.SystemID, "not valid")
	require.ErrorIs(t, err, logicalid.ErrInvalidFormat)

	err = g.RenameLogicalID(b.SystemID, "")
	require.ErrorIs(t, err, logicalid.ErrEmptyID)
}

func TestRenameLogicalID_PaddedInputIsRejectedNotCoerced(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})

	err := g.RenameLogicalID(a.SystemID, "  form7  ")
	require.ErrorIs(t, err, ErrInvalidLogicalID)
	require.ErrorIs(t, err, logicalid.ErrInvalidFormat)

	// The stored id is untouched and still well formed.
	assert.Equal(t, "form1", a.LogicalID)
	assert.True(t, logicalid.IsValidFormat(a.LogicalID))

	// A padded variant can never slip past uniqueness as a lookalike of an
	// existing id.
	b, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	require.NoError(t, g.RenameLogicalID(a.SystemID, "form9"))
	require.ErrorIs(t, g.RenameLogicalID(b.SystemID, " form9 "), logicalid.ErrInvalidFormat)
	assert.Equal(t, "form2", b.LogicalID)
}

func TestSetStartNode_MovesFlagAtomically(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypeAgent, models.Position{})

	require.NoError(t, g.SetStartNode(b.SystemID))

	assert.False(t, a.IsStartNode)
	assert.True(t, b.IsStartNode)

	count := 0

	for _, node := range g.Nodes() {
		if node.IsStartNode {
			count++
		}
	}

	assert.Equal(t, 1, count)
}

func TestRenameAndMoveNode(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})

	require.NoError(t, g.RenameNode(a.SystemID, "Intake"))
	assert.Equal(t, "Intake", a.Name)

	require.NoError(t, g.MoveNode(a.SystemID, models.Position{X: 5, Y: -3}))
	assert.Equal(t, models.Position{X: 5, Y: -3}, a.Position)
}

func TestUpdateNodeConfig(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})

	config := models.FormConfig{
		Title:  "Intake",
		Fields: []models.FormField{{Name: "email", Type: "email"}},
	}

	require.NoError(t, g.UpdateNodeConfig(a.SystemID, config))
	assert.Equal(t, config, a.Config)

	err := g.UpdateNodeConfig(a.SystemID, models.PromptConfig{Prompt: "hi"})
	require.ErrorIs(t, err, ErrUnknownNodeType)
	assert.Equal(t, config, a.Config)
}
