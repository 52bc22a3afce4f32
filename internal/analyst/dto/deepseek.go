package dto

// Message is one role-tagged turn in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the request payload for the completion endpoint.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
}

// CompletionResponse is the response from the completion endpoint.
type CompletionResponse struct {
	ID      string    `json:"id,omitempty"`
	Choices []Choice  `json:"choices"`
	Usage   Usage     `json:"usage,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

// Choice is one generated candidate.
type Choice struct {
	Index        int     `json:"index,omitempty"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
}

// APIError is the explicit error object the endpoint may embed in an
// otherwise well-formed response body.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
}
