package registry

import "github.com/canvasflow/canvasflow/pkg/models"

// registerBuiltins loads the closed node type enumeration with its palette
// metadata and config schemas. Envelope keys (logicalId, isStartNode) are
// declared on every schema since the persisted bag carries them.
func registerBuiltins(r *Registry) {
	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeForm,
		Name:        "Form",
		Description: "Collects input fields from a user; each field becomes an upstream variable",
		Prefix:      models.NodeTypeForm.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"title": map[string]any{"type": "string"},
			"fields": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":       map[string]any{"type": "string", "minLength": 1},
						"label":      map[string]any{"type": "string"},
						"type":       map[string]any{"type": "string", "enum": []string{"text", "email", "number", "date", "file"}},
						"required":   map[string]any{"type": "boolean"},
						"validation": map[string]any{"type": "string"},
					},
					"required": []string{"name"},
				},
			},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeAgent,
		Name:        "Agent",
		Description: "Runs an AI agent with instructions and tool access",
		Prefix:      models.NodeTypeAgent.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"instructions": map[string]any{"type": "string"},
			"provider":     map[string]any{"type": "string"},
			"model":        map[string]any{"type": "string"},
			"tools":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypePrompt,
		Name:        "Prompt",
		Description: "Sends a templated prompt to a model; exposes its output as <logicalId>.result",
		Prefix:      models.NodeTypePrompt.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"prompt":   map[string]any{"type": "string"},
			"provider": map[string]any{"type": "string"},
			"model":    map[string]any{"type": "string"},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeApproval,
		Name:        "Approval",
		Description: "Pauses the workflow until a human approves",
		Prefix:      models.NodeTypeApproval.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"approvers": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"message":   map[string]any{"type": "string"},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeCRMApproval,
		Name:        "CRM Approval",
		Description: "Routes an approval through the CRM pipeline",
		Prefix:      models.NodeTypeCRMApproval.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"pipelineId": map[string]any{"type": "string"},
			"message":    map[string]any{"type": "string"},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeUpdate,
		Name:        "Update",
		Description: "Updates a record; field values may use {{logicalId.field}} templates",
		Prefix:      models.NodeTypeUpdate.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"target": map[string]any{"type": "string"},
			"fields": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeCRMUpdate,
		Name:        "CRM Update",
		Description: "Updates a CRM entity (opportunity, contact, task)",
		Prefix:      models.NodeTypeCRMUpdate.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"entity": map[string]any{"type": "string", "enum": []string{"opportunity", "contact", "task"}},
			"fields": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeNotification,
		Name:        "Notification",
		Description: "Sends an outbound notification with templated subject and body",
		Prefix:      models.NodeTypeNotification.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"channel":   map[string]any{"type": "string", "enum": []string{"email", "slack", "sms"}},
			"recipient": map[string]any{"type": "string"},
			"subject":   map[string]any{"type": "string"},
			"body":      map[string]any{"type": "string"},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypeTrigger,
		Name:        "Trigger",
		Description: "Workflow entry point; schedule must be a valid cron expression",
		Prefix:      models.NodeTypeTrigger.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"event":    map[string]any{"type": "string"},
			"schedule": map[string]any{"type": "string"},
		}),
	})

	r.Register(&NodeTypeDefinition{
		Type:        models.NodeTypePDF,
		Name:        "PDF",
		Description: "Generates a PDF document from a named template",
		Prefix:      models.NodeTypePDF.LogicalPrefix(),
		Schema: withEnvelope(map[string]any{
			"templateName": map[string]any{"type": "string"},
			"fileName":     map[string]any{"type": "string"},
		}),
	})
}

func withEnvelope(properties map[string]any) map[string]any {
	properties["logicalId"] = map[string]any{"type": "string", "pattern": "^[A-Za-z]+[0-9]+$"}
	properties["isStartNode"] = map[string]any{"type": "boolean"}

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}
