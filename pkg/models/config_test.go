package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig_TypedVariants(t *testing.T) {
	config, err := DecodeConfig(NodeTypeForm, map[string]any{
		"title": "Intake",
		"fields": []any{
			map[string]any{"name": "email", "type": "email", "required": true},
		},
	})
	require.NoError(t, err)

	form, ok := config.(FormConfig)
	require.True(t, ok)
	assert.Equal(t, "Intake", form.Title)
	require.Len(t, form.Fields, 1)
	assert.Equal(t, "email", form.Fields[0].Name)
	assert.True(t, form.Fields[0].Required)

	config, err = DecodeConfig(NodeTypeTrigger, map[string]any{
		"event":    "record.created",
		"schedule": "0 9 * * 1",
	})
	require.NoError(t, err)
	assert.Equal(t, TriggerConfig{Event: "record.created", Schedule: "0 9 * * 1"}, config)
}

func TestDecodeConfig_UnknownTypeIsGeneric(t *testing.T) {
	config, err := DecodeConfig(NodeType("hologram"), map[string]any{"brightness": 11})
	require.NoError(t, err)

	generic, ok := config.(GenericConfig)
	require.True(t, ok)
	assert.Equal(t, 11, generic["brightness"])
}

func TestDecodeConfig_NilBag(t *testing.T) {
	config, err := DecodeConfig(NodeTypePrompt, nil)
	require.NoError(t, err)
	assert.Equal(t, PromptConfig{}, config)
}

func TestEncodeConfig(t *testing.T) {
	bag, err := EncodeConfig(PromptConfig{Prompt: "Summarize {{form1.email}}", Model: "gpt"})
	require.NoError(t, err)

	assert.Equal(t, "Summarize {{form1.email}}", bag["prompt"])
	assert.Equal(t, "gpt", bag["model"])
	assert.NotContains(t, bag, "provider")
}

func TestEncodeConfig_Nil(t *testing.T) {
	bag, err := EncodeConfig(nil)
	require.NoError(t, err)
	assert.Empty(t, bag)
}

func TestEncodeConfig_GenericRoundTrip(t *testing.T) {
	original := GenericConfig{"brightness": 11, "mode": "x"}

	bag, err := EncodeConfig(original)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"brightness": 11, "mode": "x"}, bag)
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, FormConfig{}, DefaultConfig(NodeTypeForm))
	assert.Equal(t, PromptConfig{}, DefaultConfig(NodeTypePrompt))
	assert.Equal(t, TriggerConfig{}, DefaultConfig(NodeTypeTrigger))
}

func TestConfigType_MatchesNodeType(t *testing.T) {
	assert.Equal(t, NodeTypeForm, FormConfig{}.ConfigType())
	assert.Equal(t, NodeTypeAgent, AgentConfig{}.ConfigType())
	assert.Equal(t, NodeTypeCRMUpdate, CRMUpdateConfig{}.ConfigType())
	assert.Equal(t, NodeType(""), GenericConfig{}.ConfigType())
}
