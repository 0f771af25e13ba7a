// Package variables resolves which upstream values a node may reference in
// its templates, by walking the graph's edges backwards from the node.
package variables

import "github.com/canvasflow/canvasflow/pkg/models"

// Ancestors returns every node reachable from targetID by following edges
// backwards (target to source), in discovery order. A single visited set is
// shared across the whole walk, so the traversal terminates on cyclic graphs
// of any length, self-loops included.
//
// A node reachable through two paths is reported once per path while its own
// ancestry is expanded only once; duplicates are kept so consumers can show
// provenance and dedupe on their own terms.
func Ancestors(targetID string, nodes []*models.Node, edges []*models.Edge) []*models.Node {
	byID := make(map[string]*models.Node, len(nodes))
	for _, node := range nodes {
		byID[node.SystemID] = node
	}

	visited := make(map[string]struct{}, len(nodes))

	var collect func(nodeID string) []*models.Node

	collect = func(nodeID string) []*models.Node {
		if _, ok := visited[nodeID]; ok {
			return nil
		}

		visited[nodeID] = struct{}{}

		var ancestors []*models.Node

		for _, edge := range edges {
			if edge.TargetNodeID != nodeID {
				continue
			}

			if source, ok := byID[edge.SourceNodeID]; ok {
				ancestors = append(ancestors, source)
			}

			ancestors = append(ancestors, collect(edge.SourceNodeID)...)
		}

		return ancestors
	}

	return collect(targetID)
}

// Resolve returns the variables visible to targetID, flattened in ancestor
// discovery order. Form ancestors expose one variable per field; prompt
// ancestors expose a single synthetic "<logicalId>.result"; every other node
// type exposes nothing.
//
// The result reflects the edge set at call time; nothing is cached.
func Resolve(targetID string, nodes []*models.Node, edges []*models.Edge) []models.Variable {
	var resolved []models.Variable

	for _, ancestor := range Ancestors(targetID, nodes, edges) {
		switch config := ancestor.Config.(type) {
		case models.FormConfig:
			for _, field := range config.Fields {
				resolved = append(resolved, models.Variable{
					Name:       ancestor.LogicalID + "." + field.Name,
					NodeID:     ancestor.SystemID,
					NodeLabel:  ancestor.Name,
					Type:       field.Type,
					Required:   field.Required,
					Validation: field.Validation,
				})
			}
		case models.PromptConfig:
			resolved = append(resolved, models.Variable{
				Name:      ancestor.LogicalID + ".result",
				NodeID:    ancestor.SystemID,
				NodeLabel: ancestor.Name,
				Type:      "text",
			})
		default:
		}
	}

	return resolved
}
