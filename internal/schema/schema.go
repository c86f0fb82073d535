// Package schema describes the structured output expected from generation
// backends and validates responses against it.
//
// The description is static data rather than reflection over Go types, so the
// same Node renders to JSON Schema (Anthropic tools, OpenAI functions), to
// genai.Schema (Gemini), and drives Validate at the boundary.
package schema

// Kind is the JSON type of a node.
type Kind string

const (
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindString Kind = "string"
	KindNumber Kind = "number"
)

// Property is a named child of an object node. Properties keep declaration
// order so prompts and schemas list fields the way renderers expect them.
type Property struct {
	Name string
	Node *Node
}

// Node describes one value in the response document.
type Node struct {
	Kind        Kind
	Description string
	Enum        []string
	Pattern     string   // strings only, RE2 syntax
	MinLength   int      // strings only
	Minimum     *float64 // numbers only
	Maximum     *float64 // numbers only
	Properties  []Property
	Required    []string
	Items       *Node
}

// Property returns the named child node, or nil.
func (n *Node) Property(name string) *Node {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Node
		}
	}
	return nil
}

// JSONSchema renders the node as a JSON Schema document.
func (n *Node) JSONSchema() map[string]interface{} {
	out := map[string]interface{}{
		"type": string(n.Kind),
	}
	if n.Description != "" {
		out["description"] = n.Description
	}
	if len(n.Enum) > 0 {
		out["enum"] = n.Enum
	}
	if n.Pattern != "" {
		out["pattern"] = n.Pattern
	}
	if n.MinLength > 0 {
		out["minLength"] = n.MinLength
	}
	if n.Minimum != nil {
		out["minimum"] = *n.Minimum
	}
	if n.Maximum != nil {
		out["maximum"] = *n.Maximum
	}

	switch n.Kind {
	case KindObject:
		props := make(map[string]interface{}, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Name] = p.Node.JSONSchema()
		}
		out["properties"] = props
		if len(n.Required) > 0 {
			out["required"] = n.Required
		}
	case KindArray:
		if n.Items != nil {
			out["items"] = n.Items.JSONSchema()
		}
	}
	return out
}

// PropertyNames returns the ordered property names of an object node.
func (n *Node) PropertyNames() []string {
	names := make([]string, 0, len(n.Properties))
	for _, p := range n.Properties {
		names = append(names, p.Name)
	}
	return names
}

func object(description string, props ...Property) *Node {
	n := &Node{Kind: KindObject, Description: description, Properties: props}
	n.Required = n.PropertyNames()
	return n
}

func prop(name string, node *Node) Property {
	return Property{Name: name, Node: node}
}

func str(description string) *Node {
	return &Node{Kind: KindString, Description: description}
}

func enum(description string, values ...string) *Node {
	return &Node{Kind: KindString, Description: description, Enum: values}
}

func number(description string, min, max float64) *Node {
	return &Node{Kind: KindNumber, Description: description, Minimum: &min, Maximum: &max}
}

func array(description string, items *Node) *Node {
	return &Node{Kind: KindArray, Description: description, Items: items}
}
