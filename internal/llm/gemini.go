package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/fleveque/location-service/internal/schema"
)

// GeminiClient implements the Client interface with Gemini's native
// structured output: the response schema is enforced by the API and the reply
// text is the JSON document itself.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// GeminiOptions configures NewGeminiClient. BaseURL is only set in tests.
type GeminiOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewGeminiClient creates a Gemini-backed generator.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: opts.Model}, nil
}

func (g *GeminiClient) ProviderName() string { return "gemini" }
func (g *GeminiClient) ModelName() string    { return g.model }

func (g *GeminiClient) GenerateLocation(ctx context.Context, req Request) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema.Location),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(req)), config)
	if err != nil {
		return nil, fmt.Errorf("gemini API call: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini returned an empty response for %s", req.Place)
	}
	return []byte(text), nil
}

// toGenaiSchema converts the static schema description to the Gemini type.
func toGenaiSchema(n *schema.Node) *genai.Schema {
	out := &genai.Schema{
		Description: n.Description,
		Enum:        n.Enum,
	}

	switch n.Kind {
	case schema.KindObject:
		out.Type = genai.TypeObject
		out.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for _, p := range n.Properties {
			out.Properties[p.Name] = toGenaiSchema(p.Node)
		}
		out.Required = n.Required
		out.PropertyOrdering = n.PropertyNames()
	case schema.KindArray:
		out.Type = genai.TypeArray
		if n.Items != nil {
			out.Items = toGenaiSchema(n.Items)
		}
	case schema.KindNumber:
		out.Type = genai.TypeNumber
	default:
		out.Type = genai.TypeString
	}
	return out
}
