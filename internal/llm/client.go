// Package llm provides a provider-agnostic interface for generating location
// content with a generative model. Every backend is constrained to the same
// structured-output schema (schema.Location) and returns the raw JSON document;
// validation and decoding happen in the caller.
package llm

import "context"

// Request is one generation job.
type Request struct {
	Place    string // free-text place name, already percent-decoded
	Theme    string // optional core theme; narrows timeline, deep dive and itinerary
	Language string // target language for every narrative field
}

// Client is the interface for generation backends. Gemini, Anthropic and
// OpenAI implement it, so the content generator can chain them.
type Client interface {
	GenerateLocation(ctx context.Context, req Request) ([]byte, error)
	ProviderName() string
	ModelName() string
}

// submitToolName is the function/tool the chat backends are forced to call
// with the structured document as arguments.
const submitToolName = "submit_location"
