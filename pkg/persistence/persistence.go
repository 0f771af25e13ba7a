// Package persistence provides the storage abstraction for persisted
// workflow records.
package persistence

import (
	"context"

	"github.com/canvasflow/canvasflow/pkg/models"
)

// Persistence is the storage contract the designer saves to and loads from.
// Save is all-or-nothing from the caller's perspective; a failure surfaces
// as a single recoverable error and never leaves a partial write visible.
type Persistence interface {
	Workflows(ctx context.Context) ([]*models.Workflow, error)
	WorkflowByID(ctx context.Context, id string) (*models.Workflow, error)
	SaveWorkflow(ctx context.Context, workflow *models.Workflow) error
	DeleteWorkflow(ctx context.Context, id string) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
