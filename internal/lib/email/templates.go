package email

// Template is a string-based enum naming email templates.
type Template string

const (
	// TemplateHandoffAlert corresponds to templates/handoff_alert.html
	TemplateHandoffAlert Template = "handoff_alert"
)
