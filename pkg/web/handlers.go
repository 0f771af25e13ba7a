package web

import (
	"net/http"
	"time"

	"github.com/canvasflow/canvasflow/pkg/metrics"
	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/canvasflow/canvasflow/pkg/persistence"
	"github.com/canvasflow/canvasflow/pkg/registry"
	"github.com/canvasflow/canvasflow/pkg/services"
	"github.com/canvasflow/canvasflow/pkg/template"
	"github.com/canvasflow/canvasflow/pkg/variables"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	workflowService *services.Workflow
	validator       *validator.Validate
	registry        *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	validator *validator.Validate,
	registry *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		validator:       validator,
		registry:        registry,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(WorkflowListResponse{
		Workflows: workflows,
		Count:     len(workflows),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	_, record, err := h.workflowService.LoadGraph(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(record)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var record models.Workflow
	if err := c.Bind().JSON(&record); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	// The service assigns the ID; a client-supplied one would let a create
	// silently overwrite an existing workflow.
	record.ID = ""

	saved, err := h.workflowService.SaveWorkflow(c.Context(), &record)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	_, existing, err := h.workflowService.LoadGraph(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	var record models.Workflow
	if err := c.Bind().JSON(&record); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	record.ID = id
	record.CreatedAt = existing.CreatedAt

	saved, err := h.workflowService.SaveWorkflow(c.Context(), &record)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(saved)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.DeleteWorkflow(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetNodeVariables lists the upstream variables one node may reference in
// its templates, resolved against the workflow's current edge set.
func (h *APIHandlers) GetNodeVariables(c fiber.Ctx) error {
	id := c.Params("id")
	nodeID := c.Params("nodeId")

	if id == "" || nodeID == "" {
		return badRequest(c, "Workflow ID and node ID are required")
	}

	graph, _, err := h.workflowService.LoadGraph(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	if _, err := graph.NodeBySystemID(nodeID); err != nil {
		return notFound(c, "Node not found in workflow")
	}

	resolved := variables.Resolve(nodeID, graph.Nodes(), graph.Edges())
	if resolved == nil {
		resolved = []models.Variable{}
	}

	return c.JSON(VariablesResponse{
		NodeID:    nodeID,
		Variables: resolved,
	})
}

// RenderTemplate previews a template against a value set. Placeholders with
// no matching value stay literal in the output.
func (h *APIHandlers) RenderTemplate(c fiber.Ctx) error {
	var req RenderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	metrics.TemplateRenders.Inc()

	return c.JSON(RenderResponse{
		Result: template.Interpolate(req.Template, req.Values),
		Keys:   template.Keys(req.Template),
	})
}

// GetNodeTypes returns the palette catalog.
func (h *APIHandlers) GetNodeTypes(c fiber.Ctx) error {
	return c.JSON(h.registry.Definitions())
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Canvasflow API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Canvasflow API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"registry":   registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
