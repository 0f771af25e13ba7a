// Package services orchestrates load and save of designer workflows over the
// persistence layer, publishing lifecycle events on changes.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/canvasflow/canvasflow/pkg/builder"
	"github.com/canvasflow/canvasflow/pkg/eventbus"
	"github.com/canvasflow/canvasflow/pkg/events"
	"github.com/canvasflow/canvasflow/pkg/metrics"
	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/canvasflow/canvasflow/pkg/otelhelper"
	"github.com/canvasflow/canvasflow/pkg/persistence"
	"github.com/canvasflow/canvasflow/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

var tracer = otel.Tracer("github.com/canvasflow/canvasflow/pkg/services")

// Workflow is the designer's load/save service. Saves of one service
// instance never interleave: while one save is in flight, further saves
// fail fast with ErrSaveInFlight so the UI can keep the save action
// disabled instead of racing last-writer-wins.
type Workflow struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventPublisher
	registry    *registry.Registry
	validate    *validator.Validate
	logger      *slog.Logger
	saving      atomic.Bool
}

// NewWorkflow creates a workflow service. The event bus may be nil; saving
// then simply publishes nothing.
func NewWorkflow(p persistence.Persistence, bus eventbus.EventPublisher, reg *registry.Registry, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}

	return &Workflow{
		persistence: p,
		eventBus:    bus,
		registry:    reg,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger,
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflows returns every stored workflow record.
func (w *Workflow) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.Workflows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// SaveWorkflow validates and persists a workflow record. The record is
// normalized through the builder first, which enforces the graph invariants
// and guarantees no dangling connection is ever written. Node configs of
// known types are checked against their schemas.
func (w *Workflow) SaveWorkflow(ctx context.Context, record *models.Workflow) (*models.Workflow, error) {
	if record == nil {
		return nil, ErrWorkflowNil
	}

	if !w.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInFlight
	}
	defer w.saving.Store(false)

	ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.save")
	defer span.End()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	span.SetAttributes(
		attribute.String(otelhelper.WorkflowIDKey, record.ID),
		attribute.String(otelhelper.WorkflowNameKey, record.Workflow.Name),
	)

	err := w.validate.Struct(record.Workflow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	if w.registry != nil {
		err = w.validateNodeConfigs(record)
		if err != nil {
			otelhelper.SetError(span, err)

			return nil, err
		}
	}

	graph, err := builder.FromRecord(record, w.logger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	normalized, err := graph.Record(record.Workflow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to normalize workflow: %w", err)
	}

	normalized.ID = record.ID
	normalized.CreatedAt = record.CreatedAt

	err = w.persistence.SaveWorkflow(ctx, normalized)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to save workflow %s: %w", record.ID, err)
	}

	metrics.WorkflowSaves.Inc()
	w.logger.InfoContext(ctx, "Workflow saved",
		"workflow_id", normalized.ID,
		"nodes", len(normalized.Nodes),
		"connections", len(normalized.Connections))

	w.publishSaved(ctx, normalized)

	return normalized, nil
}

// LoadGraph fetches a stored record and rebuilds the editing graph from it.
// Edge reconstruction strictly follows node reconstruction; dangling
// connections are dropped, not fatal.
func (w *Workflow) LoadGraph(ctx context.Context, id string) (*builder.Graph, *models.Workflow, error) {
	if id == "" {
		return nil, nil, ErrWorkflowIDRequired
	}

	ctx, span := otelhelper.StartSpan(ctx, tracer, "workflow.load",
		attribute.String(otelhelper.WorkflowIDKey, id))
	defer span.End()

	record, err := w.persistence.WorkflowByID(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, nil, fmt.Errorf("failed to load workflow %s: %w", id, err)
	}

	graph, err := builder.FromRecord(record, w.logger)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, nil, fmt.Errorf("failed to rebuild workflow %s: %w", id, err)
	}

	dropped := len(record.Connections) - len(graph.Edges())
	if dropped > 0 {
		metrics.DanglingEdgesDropped.Add(float64(dropped))
	}

	metrics.WorkflowLoads.Inc()

	return graph, record, nil
}

// DeleteWorkflow removes a stored record and announces the deletion.
func (w *Workflow) DeleteWorkflow(ctx context.Context, id string) error {
	if id == "" {
		return ErrWorkflowIDRequired
	}

	err := w.persistence.DeleteWorkflow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	metrics.WorkflowDeletes.Inc()

	if w.eventBus != nil {
		event := events.WorkflowDeleted{
			BaseEvent: events.BaseEvent{
				ID:         uuid.New().String(),
				Type:       events.WorkflowDeletedEvent,
				Timestamp:  time.Now().UTC(),
				WorkflowID: id,
			},
		}

		err := w.eventBus.Publish(ctx, id, event)
		if err != nil {
			w.logger.WarnContext(ctx, "Failed to publish workflow.deleted", "error", err)
		}
	}

	return nil
}

func (w *Workflow) validateNodeConfigs(record *models.Workflow) error {
	for _, node := range record.Nodes {
		nodeType := models.NodeType(node.Type)
		if !nodeType.Valid() {
			w.logger.Warn("skipping config validation for unknown node type",
				"node_id", node.ID, "type", node.Type)

			continue
		}

		err := w.registry.ValidateConfig(nodeType, node.Config)
		if err != nil {
			return fmt.Errorf("node %s: %w", node.ID, err)
		}
	}

	return nil
}

func (w *Workflow) publishSaved(ctx context.Context, record *models.Workflow) {
	if w.eventBus == nil {
		return
	}

	event := events.WorkflowSaved{
		BaseEvent: events.BaseEvent{
			ID:         uuid.New().String(),
			Type:       events.WorkflowSavedEvent,
			Timestamp:  time.Now().UTC(),
			WorkflowID: record.ID,
		},
		Name:      record.Workflow.Name,
		NodeCount: len(record.Nodes),
		EdgeCount: len(record.Connections),
	}

	err := w.eventBus.Publish(ctx, record.ID, event)
	if err != nil {
		w.logger.WarnContext(ctx, "Failed to publish workflow.saved", "error", err)
	}
}
