package doc

import (
	"math"
	"strconv"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// MarshalYAML builds a yaml node tree for v, keeping object key order.
func (v *Value) MarshalYAML() (any, error) {
	return v.toNode()
}

func (v *Value) toNode() (*yaml.Node, error) {
	switch v.Kind() {
	case Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}, nil
	case Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.i, 10)}, nil
	case Float:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: formatYAMLFloat(v.f)}, nil
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}, nil
	case Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			child, err := item.toNode()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.keys {
			child, err := v.fields[k].toNode()
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
			n.Content = append(n.Content, key, child)
		}
		return n, nil
	}
	return nil, eris.Errorf("doc: cannot encode kind %s", v.Kind())
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}
	// keep the float tag meaningful for integral values
	return s + ".0"
}

// UnmarshalYAML replaces v with the tree under node. Mapping order is kept.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			v.SetNull()
			return nil
		}
		return v.UnmarshalYAML(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return eris.New("doc: dangling yaml alias")
		}
		return v.UnmarshalYAML(node.Alias)
	case yaml.SequenceNode:
		v.SetArray()
		for _, child := range node.Content {
			if err := v.Append().UnmarshalYAML(child); err != nil {
				return err
			}
		}
		return nil
	case yaml.MappingNode:
		v.SetObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if err := v.Field(key).UnmarshalYAML(node.Content[i+1]); err != nil {
				return err
			}
		}
		return nil
	case yaml.ScalarNode:
		return v.scalarFromNode(node)
	}
	return eris.Errorf("doc: unsupported yaml node kind %d at line %d", node.Kind, node.Line)
}

func (v *Value) scalarFromNode(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		v.SetNull()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return eris.Wrapf(err, "doc: yaml bool at line %d", node.Line)
		}
		v.SetBool(b)
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return eris.Wrapf(err, "doc: yaml int at line %d", node.Line)
		}
		v.SetInt(i)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return eris.Wrapf(err, "doc: yaml float at line %d", node.Line)
		}
		v.SetFloat(f)
	default:
		v.SetString(node.Value)
	}
	return nil
}

// ReadYAML parses a YAML document.
func ReadYAML(data []byte) (*Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, eris.Wrap(err, "doc: decode yaml")
	}
	v := New()
	if node.Kind == 0 {
		// empty input
		return v, nil
	}
	if err := v.UnmarshalYAML(&node); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteYAML renders v as YAML.
func WriteYAML(v *Value) ([]byte, error) {
	node, err := v.toNode()
	if err != nil {
		return nil, err
	}
	bz, err := yaml.Marshal(node)
	if err != nil {
		return nil, eris.Wrap(err, "doc: encode yaml")
	}
	return bz, nil
}
