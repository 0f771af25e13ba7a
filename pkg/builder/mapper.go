package builder

import (
	"fmt"
	"log/slog"

	"github.com/canvasflow/canvasflow/pkg/logicalid"
	"github.com/canvasflow/canvasflow/pkg/models"
)

// Envelope keys carried inside the persisted config bag alongside the
// type-specific settings.
const (
	configKeyLogicalID   = "logicalId"
	configKeyIsStartNode = "isStartNode"
)

// Record serializes the graph into the flat persisted shape. Edge endpoints
// use system ids; the logical id and start flag travel inside each node's
// config bag. Edges are only ever emitted with both endpoints present, so a
// record never contains dangling connections.
func (g *Graph) Record(meta models.WorkflowMeta) (*models.Workflow, error) {
	nodes := make([]*models.NodeRecord, 0, len(g.nodes))

	for _, node := range g.nodes {
		bag, err := models.EncodeConfig(node.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize node %s: %w", node.SystemID, err)
		}

		bag[configKeyLogicalID] = node.LogicalID
		bag[configKeyIsStartNode] = node.IsStartNode

		nodes = append(nodes, &models.NodeRecord{
			ID:       node.SystemID,
			Type:     string(node.Type),
			Name:     node.Name,
			Position: node.Position,
			Config:   bag,
		})
	}

	connections := make([]*models.ConnectionRecord, 0, len(g.edges))

	for _, edge := range g.edges {
		connections = append(connections, &models.ConnectionRecord{
			ID:       edge.ID,
			FromNode: edge.SourceNodeID,
			ToNode:   edge.TargetNodeID,
			FromPort: edge.SourcePort,
			ToPort:   edge.TargetPort,
		})
	}

	return &models.Workflow{
		Workflow:    meta,
		Nodes:       nodes,
		Connections: connections,
	}, nil
}

// FromRecord rebuilds an editing graph from a persisted record. The pipeline
// is strictly sequential: the node set is built first, then connections are
// validated against it, then both are committed together.
//
// Recovery rules: a node record without a logicalId gets a fresh one so
// older records stay loadable; extra start flags beyond the first are
// cleared; connections referencing a missing node are dropped with a warning
// rather than failing the load.
func FromRecord(record *models.Workflow, logger *slog.Logger) (*Graph, error) {
	if logger == nil {
		logger = slog.Default()
	}

	graph := New()

	nodes := make([]*models.Node, 0, len(record.Nodes))
	seenStart := false

	for _, nr := range record.Nodes {
		nodeType := models.NodeType(nr.Type)

		config, err := models.DecodeConfig(nodeType, stripEnvelope(nr.Config))
		if err != nil {
			return nil, fmt.Errorf("failed to load node %s: %w", nr.ID, err)
		}

		node := &models.Node{
			SystemID:  nr.ID,
			Type:      nodeType,
			Name:      nr.Name,
			Position:  nr.Position,
			LogicalID: configString(nr.Config, configKeyLogicalID),
			Config:    config,
		}

		if node.LogicalID == "" {
			node.LogicalID = logicalid.Generate(nodeType, nodes)
			logger.Warn("node record has no logical id, generated one",
				"node_id", nr.ID, "logical_id", node.LogicalID)
		}

		if configBool(nr.Config, configKeyIsStartNode) {
			if seenStart {
				logger.Warn("multiple start nodes in record, keeping the first",
					"node_id", nr.ID)
			} else {
				node.IsStartNode = true
				seenStart = true
			}
		}

		nodes = append(nodes, node)
	}

	byID := make(map[string]struct{}, len(nodes))
	for _, node := range nodes {
		byID[node.SystemID] = struct{}{}
	}

	edges := make([]*models.Edge, 0, len(record.Connections))

	for _, cr := range record.Connections {
		_, sourceOK := byID[cr.FromNode]
		_, targetOK := byID[cr.ToNode]

		if !sourceOK || !targetOK {
			logger.Warn("dropping dangling connection",
				"connection_id", cr.ID, "from_node", cr.FromNode, "to_node", cr.ToNode)

			continue
		}

		edges = append(edges, &models.Edge{
			ID:           cr.ID,
			SourceNodeID: cr.FromNode,
			TargetNodeID: cr.ToNode,
			SourcePort:   cr.FromPort,
			TargetPort:   cr.ToPort,
		})
	}

	graph.nodes = nodes
	graph.edges = edges

	return graph, nil
}

// stripEnvelope returns the config bag without the envelope keys, so variant
// decoding only sees type-specific settings.
func stripEnvelope(bag map[string]any) map[string]any {
	if bag == nil {
		return nil
	}

	stripped := make(map[string]any, len(bag))

	for k, v := range bag {
		if k == configKeyLogicalID || k == configKeyIsStartNode {
			continue
		}

		stripped[k] = v
	}

	return stripped
}

func configString(bag map[string]any, key string) string {
	if s, ok := bag[key].(string); ok {
		return s
	}

	return ""
}

func configBool(bag map[string]any, key string) bool {
	if b, ok := bag[key].(bool); ok {
		return b
	}

	return false
}
