package models

import "time"

// WorkflowMeta is the human-facing description of a workflow.
type WorkflowMeta struct {
	Name        string `json:"name"        validate:"required,min=3"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// Workflow is the persisted record the designer exchanges with storage. Node
// and connection records are flat; the builder reconstructs the live graph
// from them on load.
type Workflow struct {
	ID          string              `json:"id"`
	Workflow    WorkflowMeta        `json:"workflow"`
	Nodes       []*NodeRecord       `json:"nodes"`
	Connections []*ConnectionRecord `json:"connections"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NodeRecord is the flat persisted shape of a node. Config carries the
// type-specific settings plus the logicalId and isStartNode envelope keys.
type NodeRecord struct {
	ID       string         `json:"id"       validate:"required"`
	Type     string         `json:"type"     validate:"required"`
	Name     string         `json:"name"`
	Position Position       `json:"position"`
	Config   map[string]any `json:"config"`
}

// ConnectionRecord is the flat persisted shape of an edge. Endpoints
// reference node system ids; nil ports mean "default".
type ConnectionRecord struct {
	ID       string  `json:"id"        validate:"required"`
	FromNode string  `json:"from_node" validate:"required"`
	ToNode   string  `json:"to_node"   validate:"required"`
	FromPort *string `json:"from_port,omitempty"`
	ToPort   *string `json:"to_port,omitempty"`
}
