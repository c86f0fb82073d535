package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"

	"github.com/fleveque/location-service/internal/schema"
	"github.com/fleveque/location-service/internal/testutil"
)

func TestBuildPrompt_Theme(t *testing.T) {
	prompt := BuildPrompt(Request{Place: "Paris", Theme: "art", Language: "French"})

	if !strings.Contains(prompt, `"Paris"`) {
		t.Error("expected prompt to name the place")
	}
	if !strings.Contains(prompt, "CORE THEME: art") {
		t.Error("expected core theme block when a theme is given")
	}
	if !strings.Contains(prompt, "in French") {
		t.Error("expected target language in prompt")
	}
	if !strings.Contains(prompt, "snake_case") {
		t.Error("expected icon naming rule in prompt")
	}
}

func TestBuildPrompt_NoTheme(t *testing.T) {
	prompt := BuildPrompt(Request{Place: "Kyoto"})

	if strings.Contains(prompt, "CORE THEME") {
		t.Error("expected no core theme block without a theme")
	}
	if !strings.Contains(prompt, "in "+DefaultLanguage) {
		t.Errorf("expected default language %s in prompt", DefaultLanguage)
	}
}

func TestGeminiSchemaConversion(t *testing.T) {
	s := toGenaiSchema(schema.Location)

	if len(s.Required) != len(schema.Location.Required) {
		t.Errorf("expected %d required properties, got %d", len(schema.Location.Required), len(s.Required))
	}
	tourism := s.Properties["tourismInfo"]
	if tourism == nil {
		t.Fatal("expected tourismInfo property")
	}
	if tourism.Properties["latitude"].Type != genai.TypeNumber {
		t.Errorf("expected latitude to be NUMBER, got %s", tourism.Properties["latitude"].Type)
	}
	index := s.Properties["economicSnapshot"].Properties["livingCost"].Properties["index"]
	if len(index.Enum) != 4 {
		t.Errorf("expected 4 living cost enum values, got %v", index.Enum)
	}
	if s.Properties["majorIndustries"].Items == nil {
		t.Error("expected array items to be converted")
	}
}

func TestOpenAIClient_GenerateLocation(t *testing.T) {
	doc := string(testutil.SampleJSON("Kyoto"))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), submitToolName) {
			t.Error("expected request to declare the submit tool")
		}

		resp := map[string]interface{}{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o",
			"choices": []interface{}{
				map[string]interface{}{
					"index":         0,
					"finish_reason": "tool_calls",
					"message": map[string]interface{}{
						"role": "assistant",
						"tool_calls": []interface{}{
							map[string]interface{}{
								"id":   "call_1",
								"type": "function",
								"function": map[string]interface{}{
									"name":      submitToolName,
									"arguments": doc,
								},
							},
						},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "gpt-4o", srv.URL+"/v1")
	raw, err := client.GenerateLocation(context.Background(), Request{Place: "Kyoto"})
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	if err := schema.Validate(schema.Location, raw); err != nil {
		t.Errorf("expected valid document, got %v", err)
	}
}

func TestAnthropicClient_GenerateLocation(t *testing.T) {
	var input map[string]interface{}
	if err := json.Unmarshal(testutil.SampleJSON("Kyoto"), &input); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]interface{}{
			"id":    "msg_1",
			"type":  "message",
			"role":  "assistant",
			"model": "claude-sonnet-4-5-20250929",
			"content": []interface{}{
				map[string]interface{}{
					"type":  "tool_use",
					"id":    "toolu_1",
					"name":  submitToolName,
					"input": input,
				},
			},
			"stop_reason":   "tool_use",
			"stop_sequence": nil,
			"usage":         map[string]interface{}{"input_tokens": 10, "output_tokens": 10},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewAnthropicClient("test-key", "claude-sonnet-4-5-20250929", option.WithBaseURL(srv.URL))
	raw, err := client.GenerateLocation(context.Background(), Request{Place: "Kyoto"})
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	if err := schema.Validate(schema.Location, raw); err != nil {
		t.Errorf("expected valid document, got %v", err)
	}
}

func TestOpenAIClient_NoToolCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"sorry"}}]}`)
	}))
	defer srv.Close()

	client := NewOpenAIClient("test-key", "gpt-4o", srv.URL+"/v1")
	if _, err := client.GenerateLocation(context.Background(), Request{Place: "Kyoto"}); err == nil {
		t.Fatal("expected error when the model does not call the tool")
	}
}
