package assistant

// Message is a single chat message in the upstream request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the chat-completions request body.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// chatResponse is the subset of the chat-completions response we read.
type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *upstreamError `json:"error,omitempty"`
}

// upstreamError is the provider's error envelope.
type upstreamError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
