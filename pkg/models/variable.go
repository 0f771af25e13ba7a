package models

// Variable is a named value an upstream node exposes for interpolation into
// a downstream node's templates, written as {{logicalId.field}}.
type Variable struct {
	Name       string `json:"name"`    // "form1.email", "prompt2.result"
	NodeID     string `json:"node_id"` // ancestor system id
	NodeLabel  string `json:"node_label,omitempty"`
	Type       string `json:"type,omitempty"`
	Required   bool   `json:"required,omitempty"`
	Validation string `json:"validation,omitempty"`
}
