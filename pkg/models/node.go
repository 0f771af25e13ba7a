// Package models defines the core domain models for the workflow designer graph.
package models

// NodeType identifies the kind of a node. The set is closed: the builder
// rejects types outside this enumeration.
type NodeType string

const (
	NodeTypeForm         NodeType = "form"
	NodeTypeAgent        NodeType = "agent"
	NodeTypePrompt       NodeType = "prompt"
	NodeTypeApproval     NodeType = "approval"
	NodeTypeCRMApproval  NodeType = "crm-approval"
	NodeTypeUpdate       NodeType = "update"
	NodeTypeCRMUpdate    NodeType = "crm-update"
	NodeTypeNotification NodeType = "notification"
	NodeTypeTrigger      NodeType = "trigger"
	NodeTypePDF          NodeType = "pdf"
)

// logicalPrefixes maps node types to the prefix used for default logical ids.
// Logical ids must be letters-then-digits, so hyphenated types collapse to a
// letters-only prefix.
var logicalPrefixes = map[NodeType]string{
	NodeTypeForm:         "form",
	NodeTypeAgent:        "agent",
	NodeTypePrompt:       "prompt",
	NodeTypeApproval:     "approval",
	NodeTypeCRMApproval:  "crmapproval",
	NodeTypeUpdate:       "update",
	NodeTypeCRMUpdate:    "crmupdate",
	NodeTypeNotification: "notification",
	NodeTypeTrigger:      "trigger",
	NodeTypePDF:          "pdf",
}

// DefaultLogicalPrefix is used for node types without a dedicated prefix.
const DefaultLogicalPrefix = "node"

// LogicalPrefix returns the logical id prefix for the node type.
func (t NodeType) LogicalPrefix() string {
	if prefix, ok := logicalPrefixes[t]; ok {
		return prefix
	}

	return DefaultLogicalPrefix
}

// Valid reports whether the type belongs to the closed enumeration.
func (t NodeType) Valid() bool {
	_, ok := logicalPrefixes[t]

	return ok
}

// NodeTypes returns all known node types in a stable order.
func NodeTypes() []NodeType {
	return []NodeType{
		NodeTypeForm,
		NodeTypeAgent,
		NodeTypePrompt,
		NodeTypeApproval,
		NodeTypeCRMApproval,
		NodeTypeUpdate,
		NodeTypeCRMUpdate,
		NodeTypeNotification,
		NodeTypeTrigger,
		NodeTypePDF,
	}
}

// Position is the node's canvas coordinate. UI-only, no invariant beyond
// being present.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a node in the authoring graph.
//
// SystemID is opaque and immutable for the node's lifetime; it is the join
// key for edges and persistence. LogicalID is the mutable, human-typed
// identifier used inside variable templates ("form1", "agent2").
type Node struct {
	SystemID    string     `json:"system_id"`
	Type        NodeType   `json:"type"`
	Name        string     `json:"name"`
	Position    Position   `json:"position"`
	LogicalID   string     `json:"logical_id"`
	IsStartNode bool       `json:"is_start_node"`
	Config      NodeConfig `json:"config"`
}

// Edge is a directed connection between two nodes, referencing their system
// ids. Nil ports mean "default".
type Edge struct {
	ID           string  `json:"id"`
	SourceNodeID string  `json:"source_node_id"`
	TargetNodeID string  `json:"target_node_id"`
	SourcePort   *string `json:"source_port,omitempty"`
	TargetPort   *string `json:"target_port,omitempty"`
}
