package intent

// WebhookRequest is the inbound Dialogflow fulfillment envelope, decoded
// only as deep as this service needs.
type WebhookRequest struct {
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

// QueryResult carries the recognized intent and its extracted parameters.
type QueryResult struct {
	Intent         Intent          `json:"intent"`
	Parameters     Params          `json:"parameters"`
	OutputContexts []OutputContext `json:"outputContexts"`
}

// Intent names the matched conversational intent.
type Intent struct {
	DisplayName string `json:"displayName"`
}

// OutputContext is used only as a fallback source for the session id.
type OutputContext struct {
	Name string `json:"name"`
}

// WebhookResponse is the single-field fulfillment reply. Errors travel
// in-band as text; the HTTP status is always 200.
type WebhookResponse struct {
	FulfillmentText string `json:"fulfillmentText"`
}

// SessionID extracts the session identifier from the main session path,
// falling back to the first output context.
func (r *WebhookRequest) SessionID() string {
	if id := ExtractSessionID(r.Session); id != "" {
		return id
	}
	for _, c := range r.QueryResult.OutputContexts {
		if id := ExtractSessionID(c.Name); id != "" {
			return id
		}
	}
	return ""
}
