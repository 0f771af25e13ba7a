package variables

import (
	"testing"

	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/canvasflow/canvasflow/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAncestors_LinearChain(t *testing.T) {
	form := testutil.CreateTestFormNode("form1", "email")
	prompt := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypePrompt),
		testutil.WithLogicalID("prompt1"),
		testutil.WithConfig(models.PromptConfig{Prompt: "hi"}),
	)
	update := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeUpdate),
		testutil.WithLogicalID("update1"),
		testutil.WithConfig(models.UpdateConfig{}),
	)

	nodes := []*models.Node{form, prompt, update}
	edges := []*models.Edge{
		testutil.CreateTestEdge(form.SystemID, prompt.SystemID),
		testutil.CreateTestEdge(prompt.SystemID, update.SystemID),
	}

	ancestors := Ancestors(update.SystemID, nodes, edges)

	require.Len(t, ancestors, 2)
	assert.Equal(t, prompt.SystemID, ancestors[0].SystemID)
	assert.Equal(t, form.SystemID, ancestors[1].SystemID)
}

func TestAncestors_NoIncomingEdges(t *testing.T) {
	form := testutil.CreateTestFormNode("form1", "email")

	assert.Empty(t, Ancestors(form.SystemID, []*models.Node{form}, nil))
}

func TestAncestors_DownstreamNodesAreExcluded(t *testing.T) {
	form := testutil.CreateTestFormNode("form1", "email")
	update := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeUpdate),
		testutil.WithLogicalID("update1"),
		testutil.WithConfig(models.UpdateConfig{}),
	)

	nodes := []*models.Node{form, update}
	edges := []*models.Edge{testutil.CreateTestEdge(form.SystemID, update.SystemID)}

	// The form is upstream of the update, not the other way around.
	assert.Empty(t, Ancestors(form.SystemID, nodes, edges))
}

func TestAncestors_CycleTerminates(t *testing.T) {
	a := testutil.CreateTestFormNode("form1", "x")
	b := testutil.CreateTestFormNode("form2", "y")
	c := testutil.CreateTestFormNode("form3", "z")

	nodes := []*models.Node{a, b, c}
	edges := []*models.Edge{
		testutil.CreateTestEdge(a.SystemID, b.SystemID),
		testutil.CreateTestEdge(b.SystemID, c.SystemID),
		testutil.CreateTestEdge(c.SystemID, a.SystemID),
	}

	ancestors := Ancestors(a.SystemID, nodes, edges)

	require.Len(t, ancestors, 3)
	assert.Equal(t, c.SystemID, ancestors[0].SystemID)
	assert.Equal(t, b.SystemID, ancestors[1].SystemID)
	assert.Equal(t, a.SystemID, ancestors[2].SystemID)
}

func TestAncestors_SelfLoopTerminates(t *testing.T) {
	a := testutil.CreateTestFormNode("form1", "x")

	edges := []*models.Edge{testutil.CreateTestEdge(a.SystemID, a.SystemID)}

	ancestors := Ancestors(a.SystemID, []*models.Node{a}, edges)

	require.Len(t, ancestors, 1)
	assert.Equal(t, a.SystemID, ancestors[0].SystemID)
}

func TestAncestors_DiamondKeepsBothPaths(t *testing.T) {
	top := testutil.CreateTestFormNode("form1", "x")
	left := testutil.CreateTestFormNode("form2", "y")
	right := testutil.CreateTestFormNode("form3", "z")
	bottom := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeUpdate),
		testutil.WithLogicalID("update1"),
		testutil.WithConfig(models.UpdateConfig{}),
	)

	nodes := []*models.Node{top, left, right, bottom}
	edges := []*models.Edge{
		testutil.CreateTestEdge(top.SystemID, left.SystemID),
		testutil.CreateTestEdge(top.SystemID, right.SystemID),
		testutil.CreateTestEdge(left.SystemID, bottom.SystemID),
		testutil.CreateTestEdge(right.SystemID, bottom.SystemID),
	}

	ancestors := Ancestors(bottom.SystemID, nodes, edges)

	// The shared top node is reported once per path but expanded only once.
	ids := make([]string, 0, len(ancestors))
	for _, ancestor := range ancestors {
		ids = append(ids, ancestor.SystemID)
	}

	assert.Equal(t, []string{left.SystemID, top.SystemID, right.SystemID, top.SystemID}, ids)
}

func TestResolve_FormFieldsAndPromptResults(t *testing.T) {
	form := testutil.CreateTestFormNode("form1", "name", "email")
	form.Name = "Intake"
	prompt := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypePrompt),
		testutil.WithName("Summarize"),
		testutil.WithLogicalID("prompt1"),
		testutil.WithConfig(models.PromptConfig{Prompt: "summarize"}),
	)
	notification := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeNotification),
		testutil.WithLogicalID("notification1"),
		testutil.WithConfig(models.NotificationConfig{}),
	)

	nodes := []*models.Node{form, prompt, notification}
	edges := []*models.Edge{
		testutil.CreateTestEdge(form.SystemID, prompt.SystemID),
		testutil.CreateTestEdge(prompt.SystemID, notification.SystemID),
	}

	resolved := Resolve(notification.SystemID, nodes, edges)

	require.Len(t, resolved, 3)

	assert.Equal(t, "prompt1.result", resolved[0].Name)
	assert.Equal(t, "Summarize", resolved[0].NodeLabel)
	assert.Equal(t, "text", resolved[0].Type)

	assert.Equal(t, "form1.name", resolved[1].Name)
	assert.Equal(t, "form1.email", resolved[2].Name)
	assert.Equal(t, form.SystemID, resolved[1].NodeID)
}

func TestResolve_FieldMetadataIsCarried(t *testing.T) {
	form := testutil.CreateTestNode(
		testutil.WithLogicalID("form1"),
		testutil.WithConfig(models.FormConfig{
			Fields: []models.FormField{
				{Name: "email", Type: "email", Required: true, Validation: "email"},
			},
		}),
	)
	update := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeUpdate),
		testutil.WithLogicalID("update1"),
		testutil.WithConfig(models.UpdateConfig{}),
	)

	nodes := []*models.Node{form, update}
	edges := []*models.Edge{testutil.CreateTestEdge(form.SystemID, update.SystemID)}

	resolved := Resolve(update.SystemID, nodes, edges)

	require.Len(t, resolved, 1)
	assert.Equal(t, "form1.email", resolved[0].Name)
	assert.Equal(t, "email", resolved[0].Type)
	assert.True(t, resolved[0].Required)
	assert.Equal(t, "email", resolved[0].Validation)
}

func TestResolve_NonProducingAncestorsExposeNothing(t *testing.T) {
	approval := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeApproval),
		testutil.WithLogicalID("approval1"),
		testutil.WithConfig(models.ApprovalConfig{}),
	)
	update := testutil.CreateTestNode(
		testutil.WithType(models.NodeTypeUpdate),
		testutil.WithLogicalID("update1"),
		testutil.WithConfig(models.UpdateConfig{}),
	)

	nodes := []*models.Node{approval, update}
	edges := []*models.Edge{testutil.CreateTestEdge(approval.SystemID, update.SystemID)}

	assert.Empty(t, Resolve(update.SystemID, nodes, edges))
}
