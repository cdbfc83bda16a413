package email

// SendHandoffAlert notifies the support inbox that a conversation was
// escalated to a human agent.
//
// It builds template data and calls SendEmail using the "handoff_alert"
// template.
func (c *Client) SendHandoffAlert(to, requestID, requestedAt string) error {
	// Data keys must match what the HTML template expects.
	data := map[string]string{
		"RequestID":   requestID,
		"RequestedAt": requestedAt,
	}

	return c.SendEmail(
		to,
		"A conversation needs a human agent",
		TemplateHandoffAlert,
		data,
	)
}
