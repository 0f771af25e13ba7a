// Package registry catalogs the node types a designer can place on the
// canvas and validates their configuration bags.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/robfig/cron/v3"
	"github.com/xeipuuv/gojsonschema"
)

// ErrUnknownNodeType indicates a node type not present in the registry.
var ErrUnknownNodeType = errors.New("node type not registered")

// ErrInvalidConfig indicates a config bag that failed schema validation.
var ErrInvalidConfig = errors.New("invalid node configuration")

// NodeTypeDefinition describes one palette entry: identity, display
// metadata, and the JSON schema its config bag must satisfy.
type NodeTypeDefinition struct {
	Type        models.NodeType `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Prefix      string          `json:"prefix"` // logical id prefix ("form" for form1, form2, ...)
	Schema      map[string]any  `json:"schema"`
}

// Registry holds the node type catalog for one designer instance.
type Registry struct {
	logger      *slog.Logger
	definitions map[models.NodeType]*NodeTypeDefinition
	order       []models.NodeType
}

// NewRegistry returns a registry preloaded with the built-in node types.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		logger:      logger,
		definitions: make(map[models.NodeType]*NodeTypeDefinition),
	}

	registerBuiltins(r)

	return r
}

// Register adds or replaces a node type definition.
func (r *Registry) Register(def *NodeTypeDefinition) {
	if _, exists := r.definitions[def.Type]; !exists {
		r.order = append(r.order, def.Type)
	}

	r.definitions[def.Type] = def
	r.logger.Debug("registered node type", "type", def.Type, "prefix", def.Prefix)
}

// Definition looks up the palette entry for a node type.
func (r *Registry) Definition(nodeType models.NodeType) (*NodeTypeDefinition, error) {
	def, ok := r.definitions[nodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, nodeType)
	}

	return def, nil
}

// Definitions returns every palette entry in registration order.
func (r *Registry) Definitions() []*NodeTypeDefinition {
	defs := make([]*NodeTypeDefinition, 0, len(r.order))
	for _, t := range r.order {
		defs = append(defs, r.definitions[t])
	}

	return defs
}

// HealthCheck reports whether the registry holds a usable catalog.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.definitions) == 0 {
		return "No node types registered", false
	}

	return fmt.Sprintf("%d node types registered", len(r.definitions)), true
}

// ValidateConfig checks a config bag against the node type's JSON schema.
// Trigger schedules additionally have their cron expression parsed. The
// returned error wraps ErrInvalidConfig with every schema violation joined.
func (r *Registry) ValidateConfig(nodeType models.NodeType, config map[string]any) error {
	def, err := r.Definition(nodeType)
	if err != nil {
		return err
	}

	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(def.Schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate %s config: %w", nodeType, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, violation := range result.Errors() {
			details = append(details, violation.String())
		}

		return fmt.Errorf("%w for %s: %s", ErrInvalidConfig, nodeType, strings.Join(details, "; "))
	}

	if nodeType == models.NodeTypeTrigger {
		if schedule, ok := config["schedule"].(string); ok && schedule != "" {
			_, err := cron.ParseStandard(schedule)
			if err != nil {
				return fmt.Errorf("%w for %s: bad schedule %q: %w",
					ErrInvalidConfig, nodeType, schedule, err)
			}
		}
	}

	return nil
}
