package doc

import (
	"bytes"
	"math"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// MarshalJSON writes v with object keys in insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	switch v.Kind() {
	case Null:
		buf.WriteString("null")
	case Bool:
		buf.WriteString(strconv.FormatBool(v.b))
	case Int:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case Float:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return eris.Errorf("doc: %v has no json representation", v.f)
		}
		buf.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case String:
		bz, err := json.Marshal(v.s)
		if err != nil {
			return eris.Wrap(err, "doc: encode string")
		}
		buf.Write(bz)
	case Array:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		buf.WriteByte('{')
		for i, k := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			bz, err := json.Marshal(k)
			if err != nil {
				return eris.Wrap(err, "doc: encode key")
			}
			buf.Write(bz)
			buf.WriteByte(':')
			if err := v.fields[k].writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// UnmarshalJSON replaces v with the decoded document. JSON objects carry no
// key order through the decoder, so keys of decoded objects are sorted.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return eris.Wrap(err, "doc: decode json")
	}
	return v.fromRaw(raw)
}

func (v *Value) fromRaw(raw any) error {
	switch x := raw.(type) {
	case nil:
		v.SetNull()
	case bool:
		v.SetBool(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			v.SetInt(i)
			return nil
		}
		f, err := x.Float64()
		if err != nil {
			return eris.Wrapf(err, "doc: number %q", x.String())
		}
		v.SetFloat(f)
	case float64:
		v.SetFloat(x)
	case string:
		v.SetString(x)
	case []any:
		v.SetArray()
		for _, item := range x {
			if err := v.Append().fromRaw(item); err != nil {
				return err
			}
		}
	case map[string]any:
		v.SetObject()
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := v.Field(k).fromRaw(x[k]); err != nil {
				return err
			}
		}
	default:
		return eris.Errorf("doc: unsupported json value %T", raw)
	}
	return nil
}

// ReadJSON parses a JSON document.
func ReadJSON(data []byte) (*Value, error) {
	v := New()
	if err := v.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteJSON renders v as indented JSON.
func WriteJSON(v *Value) ([]byte, error) {
	bz, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, bz, "", "  "); err != nil {
		return nil, eris.Wrap(err, "doc: indent json")
	}
	return out.Bytes(), nil
}
