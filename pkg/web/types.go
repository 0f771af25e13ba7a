// Package web provides HTTP request and response types for the designer API.
package web

import "github.com/canvasflow/canvasflow/pkg/models"

// RenderRequest is the body for previewing a template against a set of
// upstream values.
type RenderRequest struct {
	Template string         `json:"template" validate:"required"`
	Values   map[string]any `json:"values"`
}

// RenderResponse carries the interpolated template. Keys lists the
// placeholder names the template references, resolved or not, so the UI can
// show what is still missing.
type RenderResponse struct {
	Result string   `json:"result"`
	Keys   []string `json:"keys,omitempty"`
}

// VariablesResponse groups the variables visible to one node.
type VariablesResponse struct {
	NodeID    string            `json:"node_id"`
	Variables []models.Variable `json:"variables"`
}

// WorkflowListResponse wraps the stored workflow records.
type WorkflowListResponse struct {
	Workflows []*models.Workflow `json:"workflows"`
	Count     int                `json:"count"`
}
