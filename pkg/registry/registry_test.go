package registry

import (
	"testing"

	"github.com/canvasflow/canvasflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_LoadsBuiltins(t *testing.T) {
	r := NewRegistry(nil)

	defs := r.Definitions()
	require.Len(t, defs, len(models.NodeTypes()))

	// Registration order is the palette order.
	assert.Equal(t, models.NodeTypeForm, defs[0].Type)

	for _, def := range defs {
		assert.NotEmpty(t, def.Name)
		assert.NotEmpty(t, def.Prefix)
		assert.NotNil(t, def.Schema)
	}
}

func TestDefinition(t *testing.T) {
	r := NewRegistry(nil)

	def, err := r.Definition(models.NodeTypePrompt)
	require.NoError(t, err)
	assert.Equal(t, "Prompt", def.Name)

	_, err = r.Definition(models.NodeType("hologram"))
	require.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestRegister_ReplacesKeepingOrder(t *testing.T) {
	r := NewRegistry(nil)

	r.Register(&NodeTypeDefinition{
		Type:   models.NodeTypeForm,
		Name:   "Form v2",
		Prefix: "form",
		Schema: map[string]any{"type": "object"},
	})

	defs := r.Definitions()
	require.Len(t, defs, len(models.NodeTypes()))
	assert.Equal(t, "Form v2", defs[0].Name)
}

func TestValidateConfig(t *testing.T) {
	r := NewRegistry(nil)

	err := r.ValidateConfig(models.NodeTypeForm, map[string]any{
		"logicalId":   "form1",
		"isStartNode": true,
		"title":       "Intake",
		"fields": []any{
			map[string]any{"name": "email", "type": "email", "required": true},
		},
	})
	require.NoError(t, err)
}

func TestValidateConfig_SchemaViolations(t *testing.T) {
	r := NewRegistry(nil)

	// Field entries need a name.
	err := r.ValidateConfig(models.NodeTypeForm, map[string]any{
		"fields": []any{map[string]any{"type": "text"}},
	})
	require.ErrorIs(t, err, ErrInvalidConfig)

	// Unknown keys are rejected.
	err = r.ValidateConfig(models.NodeTypeForm, map[string]any{"bogus": true})
	require.ErrorIs(t, err, ErrInvalidConfig)

	// Malformed logical ids are caught at the schema level.
	err = r.ValidateConfig(models.NodeTypeForm, map[string]any{"logicalId": "form"})
	require.ErrorIs(t, err, ErrInvalidConfig)

	err = r.ValidateConfig(models.NodeTypeNotification, map[string]any{"channel": "pigeon"})
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateConfig_UnknownType(t *testing.T) {
	r := NewRegistry(nil)

	err := r.ValidateConfig(models.NodeType("hologram"), map[string]any{})
	require.ErrorIs(t, err, ErrUnknownNodeType)
}

func TestValidateConfig_NilConfig(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.ValidateConfig(models.NodeTypeAgent, nil))
}

func TestValidateConfig_TriggerSchedule(t *testing.T) {
	r := NewRegistry(nil)

	require.NoError(t, r.ValidateConfig(models.NodeTypeTrigger, map[string]any{
		"schedule": "0 9 * * 1",
	}))

	err := r.ValidateConfig(models.NodeTypeTrigger, map[string]any{
		"schedule": "every tuesday-ish",
	})
	require.ErrorIs(t, err, ErrInvalidConfig)

	// Empty schedule means event-driven only.
	require.NoError(t, r.ValidateConfig(models.NodeTypeTrigger, map[string]any{
		"event": "record.created",
	}))
}

func TestHealthCheck(t *testing.T) {
	r := NewRegistry(nil)

	message, ok := r.HealthCheck()
	assert.True(t, ok)
	assert.NotEmpty(t, message)
}
