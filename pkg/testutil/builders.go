// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/google/uuid"
)

// CreateTestNode creates a test node with default values that can be overridden.
func CreateTestNode(overrides ...func(*models.Node)) *models.Node {
	node := &models.Node{
		SystemID:  uuid.New().String(),
		Type:      models.NodeTypeForm,
		Name:      "Test Node",
		Position:  models.Position{X: 100, Y: 200},
		LogicalID: "form1",
		Config:    models.FormConfig{Title: "Test Form"},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithSystemID sets the node system id.
func WithSystemID(id string) func(*models.Node) {
	return func(n *models.Node) {
		n.SystemID = id
	}
}

// WithType sets the node type.
func WithType(nodeType models.NodeType) func(*models.Node) {
	return func(n *models.Node) {
		n.Type = nodeType
	}
}

// WithName sets the node display name.
func WithName(name string) func(*models.Node) {
	return func(n *models.Node) {
		n.Name = name
	}
}

// WithLogicalID sets the node logical id.
func WithLogicalID(logicalID string) func(*models.Node) {
	return func(n *models.Node) {
		n.LogicalID = logicalID
	}
}

// WithConfig sets the node configuration.
func WithConfig(config models.NodeConfig) func(*models.Node) {
	return func(n *models.Node) {
		n.Config = config
	}
}

// WithStartNode flags the node as the workflow entry point.
func WithStartNode() func(*models.Node) {
	return func(n *models.Node) {
		n.IsStartNode = true
	}
}

// CreateTestFormNode creates a form node exposing the given field names as
// text fields.
func CreateTestFormNode(logicalID string, fieldNames ...string) *models.Node {
	fields := make([]models.FormField, 0, len(fieldNames))
	for _, name := range fieldNames {
		fields = append(fields, models.FormField{Name: name, Type: "text"})
	}

	return CreateTestNode(
		WithLogicalID(logicalID),
		WithConfig(models.FormConfig{Title: "Test Form", Fields: fields}),
	)
}

// CreateTestEdge creates an edge between two nodes.
func CreateTestEdge(sourceID, targetID string) *models.Edge {
	return &models.Edge{
		ID:           uuid.New().String(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
	}
}

// CreateTestWorkflow creates an empty persisted workflow record.
func CreateTestWorkflow() *models.Workflow {
	return &models.Workflow{
		ID: uuid.New().String(),
		Workflow: models.WorkflowMeta{
			Name:        "Test Workflow",
			Description: "A workflow for testing",
			Version:     "1",
		},
		Nodes:       []*models.NodeRecord{},
		Connections: []*models.ConnectionRecord{},
	}
}

// CreateTestWorkflowWithNodes creates a persisted record holding a form node
// connected to a prompt node.
func CreateTestWorkflowWithNodes() *models.Workflow {
	workflow := CreateTestWorkflow()

	workflow.Nodes = []*models.NodeRecord{
		{
			ID:       "node-1",
			Type:     string(models.NodeTypeForm),
			Name:     "Intake",
			Position: models.Position{X: 0, Y: 0},
			Config: map[string]any{
				"logicalId":   "form1",
				"isStartNode": true,
				"title":       "Intake",
				"fields": []any{
					map[string]any{"name": "email", "type": "text"},
				},
			},
		},
		{
			ID:       "node-2",
			Type:     string(models.NodeTypePrompt),
			Name:     "Summarize",
			Position: models.Position{X: 300, Y: 0},
			Config: map[string]any{
				"logicalId": "prompt1",
				"prompt":    "Summarize {{form1.email}}",
			},
		},
	}

	workflow.Connections = []*models.ConnectionRecord{
		{
			ID:       "conn-1",
			FromNode: "node-1",
			ToNode:   "node-2",
		},
	}

	return workflow
}
