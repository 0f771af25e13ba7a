package models

import (
	"encoding/json"
	"fmt"
)

// NodeConfig is the tagged union over node-type-specific settings. Each node
// type carries only its relevant fields; the shared envelope (system id,
// logical id, position, start flag) lives on Node itself.
type NodeConfig interface {
	ConfigType() NodeType
}

// FormField describes a single input field exposed by a form node.
type FormField struct {
	Name       string `json:"name"`
	Label      string `json:"label,omitempty"`
	Type       string `json:"type,omitempty"` // text, email, number, date, ...
	Required   bool   `json:"required,omitempty"`
	Validation string `json:"validation,omitempty"`
}

// FormConfig holds the field list collected from the end user.
type FormConfig struct {
	Title  string      `json:"title,omitempty"`
	Fields []FormField `json:"fields"`
}

func (FormConfig) ConfigType() NodeType { return NodeTypeForm }

// AgentConfig configures an AI agent node.
type AgentConfig struct {
	Instructions string   `json:"instructions,omitempty"`
	Provider     string   `json:"provider,omitempty"`
	Model        string   `json:"model,omitempty"`
	Tools        []string `json:"tools,omitempty"`
}

func (AgentConfig) ConfigType() NodeType { return NodeTypeAgent }

// PromptConfig configures a single-shot prompt node. The prompt text may
// reference upstream variables with {{logicalId.field}} placeholders.
type PromptConfig struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
}

func (PromptConfig) ConfigType() NodeType { return NodeTypePrompt }

// ApprovalConfig configures a human approval step.
type ApprovalConfig struct {
	Approvers []string `json:"approvers,omitempty"`
	Message   string   `json:"message,omitempty"`
}

func (ApprovalConfig) ConfigType() NodeType { return NodeTypeApproval }

// CRMApprovalConfig configures an approval step routed through the CRM.
type CRMApprovalConfig struct {
	PipelineID string `json:"pipelineId,omitempty"`
	Message    string `json:"message,omitempty"`
}

func (CRMApprovalConfig) ConfigType() NodeType { return NodeTypeCRMApproval }

// UpdateConfig configures a record update step. Field values may contain
// template placeholders.
type UpdateConfig struct {
	Target string            `json:"target,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (UpdateConfig) ConfigType() NodeType { return NodeTypeUpdate }

// CRMUpdateConfig configures an update applied to a CRM entity.
type CRMUpdateConfig struct {
	Entity string            `json:"entity,omitempty"` // opportunity, contact, task
	Fields map[string]string `json:"fields,omitempty"`
}

func (CRMUpdateConfig) ConfigType() NodeType { return NodeTypeCRMUpdate }

// NotificationConfig configures an outbound notification.
type NotificationConfig struct {
	Channel   string `json:"channel,omitempty"` // email, slack, sms
	Recipient string `json:"recipient,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
}

func (NotificationConfig) ConfigType() NodeType { return NodeTypeNotification }

// TriggerConfig configures the workflow entry point. Schedule, when set,
// must be a valid cron expression.
type TriggerConfig struct {
	Event    string `json:"event,omitempty"`
	Schedule string `json:"schedule,omitempty"`
}

func (TriggerConfig) ConfigType() NodeType { return NodeTypeTrigger }

// PDFConfig configures a PDF generation step.
type PDFConfig struct {
	TemplateName string `json:"templateName,omitempty"`
	FileName     string `json:"fileName,omitempty"`
}

func (PDFConfig) ConfigType() NodeType { return NodeTypePDF }

// GenericConfig preserves settings of node types this build does not know.
// Loading stays lenient so a workflow written by a newer designer remains
// openable.
type GenericConfig map[string]any

func (GenericConfig) ConfigType() NodeType { return "" }

// DecodeConfig converts a persisted config bag into the typed variant for
// the given node type. Envelope keys (logicalId, isStartNode) present in the
// bag are ignored here; the mapper owns those.
func DecodeConfig(nodeType NodeType, raw map[string]any) (NodeConfig, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	if !nodeType.Valid() {
		generic := make(GenericConfig, len(raw))
		for k, v := range raw {
			generic[k] = v
		}

		return generic, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s config: %w", nodeType, err)
	}

	var config NodeConfig

	switch nodeType {
	case NodeTypeForm:
		config, err = unmarshalConfig[FormConfig](data)
	case NodeTypeAgent:
		config, err = unmarshalConfig[AgentConfig](data)
	case NodeTypePrompt:
		config, err = unmarshalConfig[PromptConfig](data)
	case NodeTypeApproval:
		config, err = unmarshalConfig[ApprovalConfig](data)
	case NodeTypeCRMApproval:
		config, err = unmarshalConfig[CRMApprovalConfig](data)
	case NodeTypeUpdate:
		config, err = unmarshalConfig[UpdateConfig](data)
	case NodeTypeCRMUpdate:
		config, err = unmarshalConfig[CRMUpdateConfig](data)
	case NodeTypeNotification:
		config, err = unmarshalConfig[NotificationConfig](data)
	case NodeTypeTrigger:
		config, err = unmarshalConfig[TriggerConfig](data)
	case NodeTypePDF:
		config, err = unmarshalConfig[PDFConfig](data)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode %s config: %w", nodeType, err)
	}

	return config, nil
}

// EncodeConfig flattens a typed config back into the persisted bag shape.
func EncodeConfig(config NodeConfig) (map[string]any, error) {
	if config == nil {
		return map[string]any{}, nil
	}

	if generic, ok := config.(GenericConfig); ok {
		bag := make(map[string]any, len(generic))
		for k, v := range generic {
			bag[k] = v
		}

		return bag, nil
	}

	data, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	var bag map[string]any

	err = json.Unmarshal(data, &bag)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config bag: %w", err)
	}

	return bag, nil
}

// DefaultConfig returns the zero-value variant for a node type, so freshly
// placed nodes start with a well-typed config.
func DefaultConfig(nodeType NodeType) NodeConfig {
	config, _ := DecodeConfig(nodeType, nil)

	return config
}

func unmarshalConfig[T NodeConfig](data []byte) (NodeConfig, error) {
	var config T

	err := json.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
