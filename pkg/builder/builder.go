// Package builder owns the canonical node and edge collections for one
// editing session. All mutation goes through Graph methods, which preserve
// the graph invariants: logical ids stay unique, at most one start node, no
// edge references a missing node.
package builder

import (
	"errors"
	"fmt"

	"github.com/canvasflow/canvasflow/pkg/logicalid"
	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrNodeNotFound indicates a node system id unknown to the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates an edge id unknown to the graph.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownNodeType indicates a type outside the closed enumeration.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrInvalidLogicalID wraps the logicalid validation failure that stopped
	// a rename.
	ErrInvalidLogicalID = errors.New("invalid logical id")
)

// Graph is the in-memory workflow graph for a single editing session.
// It is not safe for concurrent use; the designer mutates it from one
// event loop.
type Graph struct {
	nodes []*models.Node
	edges []*models.Edge
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{}
}

// Nodes returns the node list in insertion order. The slice is a copy; the
// pointed-to nodes are live.
func (g *Graph) Nodes() []*models.Node {
	nodes := make([]*models.Node, len(g.nodes))
	copy(nodes, g.nodes)

	return nodes
}

// Edges returns the edge list in insertion order. The slice is a copy.
func (g *Graph) Edges() []*models.Edge {
	edges := make([]*models.Edge, len(g.edges))
	copy(edges, g.edges)

	return edges
}

// NodeBySystemID looks a node up by its immutable system id.
func (g *Graph) NodeBySystemID(systemID string) (*models.Node, error) {
	for _, node := range g.nodes {
		if node.SystemID == systemID {
			return node, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, systemID)
}

// StartNode returns the node flagged as the workflow entry point, or nil if
// none is set.
func (g *Graph) StartNode() *models.Node {
	for _, node := range g.nodes {
		if node.IsStartNode {
			return node
		}
	}

	return nil
}

// AddNode places a new node: fresh system id, default logical id from the
// registry, default typed config. The first node added to an empty graph
// becomes the start node.
func (g *Graph) AddNode(nodeType models.NodeType, position models.Position) (*models.Node, error) {
	if !nodeType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, nodeType)
	}

	node := &models.Node{
		SystemID:    uuid.New().String(),
		Type:        nodeType,
		Name:        string(nodeType),
		Position:    position,
		LogicalID:   logicalid.Generate(nodeType, g.nodes),
		IsStartNode: len(g.nodes) == 0,
		Config:      models.DefaultConfig(nodeType),
	}

	g.nodes = append(g.nodes, node)

	return node, nil
}

// Connect appends a directed edge between two existing nodes. Parallel edges
// and self-loops are allowed; the visual builder does not forbid them.
func (g *Graph) Connect(sourceID, targetID string, sourcePort, targetPort *string) (*models.Edge, error) {
	if _, err := g.NodeBySystemID(sourceID); err != nil {
		return nil, err
	}

	if _, err := g.NodeBySystemID(targetID); err != nil {
		return nil, err
	}

	edge := &models.Edge{
		ID:           uuid.New().String(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
		SourcePort:   sourcePort,
		TargetPort:   targetPort,
	}

	g.edges = append(g.edges, edge)

	return edge, nil
}

// Disconnect removes the edge with the given id.
func (g *Graph) Disconnect(edgeID string) error {
	for i, edge := range g.edges {
		if edge.ID == edgeID {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrEdgeNotFound, edgeID)
}

// DeleteNode removes the node and every edge where it is source or target.
func (g *Graph) DeleteNode(systemID string) error {
	index := -1

	for i, node := range g.nodes {
		if node.SystemID == systemID {
			index = i

			break
		}
	}

	if index < 0 {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, systemID)
	}

	g.nodes = append(g.nodes[:index], g.nodes[index+1:]...)

	kept := g.edges[:0]

	for _, edge := range g.edges {
		if edge.SourceNodeID == systemID || edge.TargetNodeID == systemID {
			continue
		}

		kept = append(kept, edge)
	}

	g.edges = kept

	return nil
}

// RenameLogicalID validates the new logical id (excluding the target node
// from the uniqueness check) and applies it. On failure nothing is mutated
// and the returned error carries the validation reason for inline display.
func (g *Graph) RenameLogicalID(systemID, newLogicalID string) error {
	node, err := g.NodeBySystemID(systemID)
	if err != nil {
		return err
	}

	err = logicalid.Validate(newLogicalID, g.nodes, systemID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLogicalID, err)
	}

	node.LogicalID = newLogicalID

	return nil
}

// SetStartNode flags the target as the workflow entry point and clears the
// flag on every other node, in one update.
func (g *Graph) SetStartNode(systemID string) error {
	target, err := g.NodeBySystemID(systemID)
	if err != nil {
		return err
	}

	for _, node := range g.nodes {
		node.IsStartNode = node == target
	}

	return nil
}

// RenameNode updates the node's display label.
func (g *Graph) RenameNode(systemID, name string) error {
	node, err := g.NodeBySystemID(systemID)
	if err != nil {
		return err
	}

	node.Name = name

	return nil
}

// MoveNode updates the node's canvas position.
func (g *Graph) MoveNode(systemID string, position models.Position) error {
	node, err := g.NodeBySystemID(systemID)
	if err != nil {
		return err
	}

	node.Position = position

	return nil
}

// UpdateNodeConfig replaces the node's type-specific settings. The config's
// variant must match the node's type; generic configs are accepted for
// unknown-typed nodes only.
func (g *Graph) UpdateNodeConfig(systemID string, config models.NodeConfig) error {
	node, err := g.NodeBySystemID(systemID)
	if err != nil {
		return err
	}

	if config != nil && config.ConfigType() != "" && config.ConfigType() != node.Type {
		return fmt.Errorf("%w: config for %q does not fit node type %q",
			ErrUnknownNodeType, config.ConfigType(), node.Type)
	}

	node.Config = config

	return nil
}
