package llm

// DefaultMaxTokens bounds a completion when the request does not carry its
// own limit. It matches the llm.max_tokens config default.
const DefaultMaxTokens = 1024

// Role identifies the author of a prompt message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one turn of the prompt sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest carries one justification or extraction prompt.
// JSONMode asks the backend to constrain output to JSON where it can;
// callers still validate what comes back.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the provider-neutral result. Token counts are
// whatever the backend reports; local backends may leave them zero.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
}
