package builder

import (
	"testing"

	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/canvasflow/canvasflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_CarriesEnvelopeInConfig(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{X: 1, Y: 2})
	require.NoError(t, g.RenameLogicalID(a.SystemID, "intake1"))

	record, err := g.Record(models.WorkflowMeta{Name: "Onboarding"})
	require.NoError(t, err)

	require.Len(t, record.Nodes, 1)
	nr := record.Nodes[0]

	assert.Equal(t, a.SystemID, nr.ID)
	assert.Equal(t, "form", nr.Type)
	assert.Equal(t, "intake1", nr.Config["logicalId"])
	assert.Equal(t, true, nr.Config["isStartNode"])
}

func TestRecord_EdgesUseSystemIDs(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{})
	b, _ := g.AddNode(models.NodeTypePrompt, models.Position{})
	port := "success"
	edge, _ := g.Connect(a.SystemID, b.SystemID, &port, nil)

	record, err := g.Record(models.WorkflowMeta{Name: "Onboarding"})
	require.NoError(t, err)

	require.Len(t, record.Connections, 1)
	cr := record.Connections[0]

	assert.Equal(t, edge.ID, cr.ID)
	assert.Equal(t, a.SystemID, cr.FromNode)
	assert.Equal(t, b.SystemID, cr.ToNode)
	require.NotNil(t, cr.FromPort)
	assert.Equal(t, "success", *cr.FromPort)
	assert.Nil(t, cr.ToPort)
}

func TestFromRecord_RoundTrip(t *testing.T) {
	g := New()

	a, _ := g.AddNode(models.NodeTypeForm, models.Position{X: 1, Y: 2})
	b, _ := g.AddNode(models.NodeTypePrompt, models.Position{X: 3, Y: 4})
	g.Connect(a.SystemID, b.SystemID, nil, nil)

	require.NoError(t, g.UpdateNodeConfig(a.SystemID, models.FormConfig{
		Title:  "Intake",
		Fields: []models.FormField{{Name: "email", Type: "email", Required: true}},
	}))
	require.NoError(t, g.UpdateNodeConfig(b.SystemID, models.PromptConfig{
		Prompt: "Summarize {{form1.email}}",
	}))

	record, err := g.Record(models.WorkflowMeta{Name: "Onboarding"})
	require.NoError(t, err)

	rebuilt, err := FromRecord(record, nil)
	require.NoError(t, err)

	require.Len(t, rebuilt.Nodes(), 2)
	require.Len(t, rebuilt.Edges(), 1)

	loaded, err := rebuilt.NodeBySystemID(a.SystemID)
	require.NoError(t, err)

	assert.Equal(t, "form1", loaded.LogicalID)
	assert.True(t, loaded.IsStartNode)
	assert.Equal(t, models.Position{X: 1, Y: 2}, loaded.Position)

	form, ok := loaded.Config.(models.FormConfig)
	require.True(t, ok)
	assert.Equal(t, "Intake", form.Title)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, "email", form.Fields[0].Name)
	assert.True(t, form.Fields[0].Required)

	prompt, err := rebuilt.NodeBySystemID(b.SystemID)
	require.NoError(t, err)
	assert.Equal(t, models.PromptConfig{Prompt: "Summarize {{form1.email}}"}, prompt.Config)
}

func TestFromRecord_DropsDanglingConnections(t *testing.T) {
	record := testutil.CreateTestWorkflowWithNodes()
	record.Connections = append(record.Connections, &models.ConnectionRecord{
		ID:       "conn-broken",
		FromNode: "node-1",
		ToNode:   "node-gone",
	})

	graph, err := FromRecord(record, nil)
	require.NoError(t, err)

	require.Len(t, graph.Edges(), 1)
	assert.Equal(t, "conn-1", graph.Edges()[0].ID)
}

func TestFromRecord_BackfillsMissingLogicalID(t *testing.T) {
	record := testutil.CreateTestWorkflow()
	record.Nodes = []*models.NodeRecord{
		{
			ID:     "node-1",
			Type:   string(models.NodeTypeForm),
			Config: map[string]any{"title": "Intake"},
		},
	}

	graph, err := FromRecord(record, nil)
	require.NoError(t, err)

	node, err := graph.NodeBySystemID("node-1")
	require.NoError(t, err)
	assert.Equal(t, "form1", node.LogicalID)
}

func TestFromRecord_FirstStartFlagWins(t *testing.T) {
	record := testutil.CreateTestWorkflow()
	record.Nodes = []*models.NodeRecord{
		{
			ID:     "node-1",
			Type:   string(models.NodeTypeForm),
			Config: map[string]any{"logicalId": "form1", "isStartNode": true},
		},
		{
			ID:     "node-2",
			Type:   string(models.NodeTypeForm),
			Config: map[string]any{"logicalId": "form2", "isStartNode": true},
		},
	}

	graph, err := FromRecord(record, nil)
	require.NoError(t, err)

	start := graph.StartNode()
	require.NotNil(t, start)
	assert.Equal(t, "node-1", start.SystemID)

	second, err := graph.NodeBySystemID("node-2")
	require.NoError(t, err)
	assert.False(t, second.IsStartNode)
}

func TestFromRecord_UnknownTypeStaysLoadable(t *testing.T) {
	record := testutil.CreateTestWorkflow()
	record.Nodes = []*models.NodeRecord{
		{
			ID:     "node-1",
			Type:   "hologram",
			Config: map[string]any{"logicalId": "hologram1", "brightness": 11},
		},
	}

	graph, err := FromRecord(record, nil)
	require.NoError(t, err)

	node, err := graph.NodeBySystemID("node-1")
	require.NoError(t, err)

	generic, ok := node.Config.(models.GenericConfig)
	require.True(t, ok)
	assert.Equal(t, 11, generic["brightness"])
	assert.NotContains(t, generic, "logicalId")
}
