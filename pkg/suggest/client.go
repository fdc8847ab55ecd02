// Package suggest is the boundary to the text-generation assistant.
// The planner assembles structured story context, sends it through an
// LLMClient, and parses the JSON reply exactly once, here, into typed
// payloads. Callers see either a typed suggestion or an AdapterError;
// never a raw model reply and never an empty suggestion.
package suggest

// LLMClient is the interface for LLM completion calls.
// The host shell supplies the real transport.
type LLMClient interface {
	// Complete sends a prompt to the LLM and returns the response.
	// systemPrompt is the system instruction, userPrompt is the user message.
	Complete(userPrompt, systemPrompt string) (string, error)
}

// MockClient is a canned-response LLMClient for tests and offline use.
type MockClient struct {
	// Response is returned verbatim from Complete.
	Response string
	// Err, when set, fails every call.
	Err error
	// Calls records the prompts sent, most recent last.
	Calls []MockCall
}

// MockCall is one recorded Complete invocation.
type MockCall struct {
	UserPrompt   string
	SystemPrompt string
}

// NewMock returns a MockClient that replies with response.
func NewMock(response string) *MockClient {
	return &MockClient{Response: response}
}

func (m *MockClient) Complete(userPrompt, systemPrompt string) (string, error) {
	m.Calls = append(m.Calls, MockCall{UserPrompt: userPrompt, SystemPrompt: systemPrompt})
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
