package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

// ValidationError reports the first place a document departs from the schema.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s: %s", e.Path, e.Reason)
}

var (
	compiler = jsonschema.NewCompiler()
	compiled sync.Map // *Node -> *jsonschema.Schema
)

// Compile renders node as JSON Schema and compiles it. Results are cached per
// node, so repeated calls are cheap.
func Compile(node *Node) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(node); ok {
		return s.(*jsonschema.Schema), nil
	}

	doc, err := json.Marshal(node.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("rendering schema: %w", err)
	}
	s, err := compiler.Compile(doc)
	if err != nil {
		return nil, fmt.Errorf("compiling schema: %w", err)
	}
	actual, _ := compiled.LoadOrStore(node, s)
	return actual.(*jsonschema.Schema), nil
}

// Validate checks raw JSON against node. Unknown properties are ignored;
// every required property must be present and non-null.
func Validate(node *Node, raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return &ValidationError{Reason: "empty document"}
	}
	if !json.Valid(raw) {
		return &ValidationError{Reason: "invalid JSON"}
	}

	s, err := Compile(node)
	if err != nil {
		return err
	}

	result := s.ValidateJSON(raw)
	if result.IsValid() {
		return nil
	}
	return firstFailure(result, nil)
}

// firstFailure walks the evaluation tree to the deepest failing location.
// Sibling details are visited in instance order so the reported path is
// stable across runs.
func firstFailure(r *jsonschema.EvaluationResult, path []string) *ValidationError {
	details := make([]*jsonschema.EvaluationResult, 0, len(r.Details))
	for _, d := range r.Details {
		if !d.IsValid() {
			details = append(details, d)
		}
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].InstanceLocation < details[j].InstanceLocation
	})

	for _, d := range details {
		child := append(path[:len(path):len(path)], pointerSegments(d.InstanceLocation)...)
		if vErr := firstFailure(d, child); vErr != nil {
			return vErr
		}
	}

	if len(r.Errors) == 0 {
		return &ValidationError{Path: render(path), Reason: "does not match schema"}
	}

	keywords := make([]string, 0, len(r.Errors))
	for k := range r.Errors {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	reasons := make([]string, 0, len(keywords))
	for _, k := range keywords {
		reasons = append(reasons, r.Errors[k].Error())
	}
	return &ValidationError{Path: render(path), Reason: strings.Join(reasons, "; ")}
}

func pointerSegments(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	parts := strings.Split(pointer, "/")
	for i, p := range parts {
		parts[i] = strings.NewReplacer("~1", "/", "~0", "~").Replace(p)
	}
	return parts
}

// render turns pointer segments into dotted form, with array indexes as
// brackets: majorIndustries[0].icon.
func render(segments []string) string {
	var b strings.Builder
	for _, seg := range segments {
		if _, err := strconv.Atoi(seg); err == nil {
			b.WriteString("[" + seg + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}
