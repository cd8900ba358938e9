// Package doc implements the hierarchical value tree exchanged with the
// serializer: string-keyed objects, arrays and scalar leaves. Objects keep
// their keys in insertion order so a written document reads back the way it
// was produced.
package doc

import (
	"math"
	"strconv"

	"github.com/rotisserie/eris"
)

// Kind identifies what a Value holds.
type Kind uint8

const (
	Null Kind = iota
	Bool
	Int
	Float
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

var (
	ErrMissing = eris.New("doc: value missing")
	ErrKind    = eris.New("doc: unexpected value kind")
)

// Value is one node of a document tree. The zero Value is null. Accessors are
// safe on a nil *Value and report ErrMissing, so lookups can be chained:
//
//	id, err := member.Get("Id").AsInt()
type Value struct {
	kind   Kind
	b      bool
	i      int64
	f      float64
	s      string
	items  []*Value
	keys   []string
	fields map[string]*Value
}

// New returns a null value.
func New() *Value {
	return &Value{}
}

// Kind returns the kind of v; a nil value is Null.
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// Len returns the element count of an array or the key count of an object.
func (v *Value) Len() int {
	if v == nil {
		return 0
	}
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.keys)
	}
	return 0
}

// Get returns the child stored under key, or nil.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != Object {
		return nil
	}
	return v.fields[key]
}

// At returns the i-th array element, or nil.
func (v *Value) At(i int) *Value {
	if v == nil || v.kind != Array || i < 0 || i >= len(v.items) {
		return nil
	}
	return v.items[i]
}

// Keys returns the object keys in insertion order.
func (v *Value) Keys() []string {
	if v == nil || v.kind != Object {
		return nil
	}
	return v.keys
}

// Field returns the child stored under key, creating a null child when it is
// absent. A null receiver becomes an object; any other kind is replaced.
func (v *Value) Field(key string) *Value {
	if v.kind != Object {
		v.reset(Object)
		v.fields = make(map[string]*Value)
	}
	if child, ok := v.fields[key]; ok {
		return child
	}
	child := New()
	v.keys = append(v.keys, key)
	v.fields[key] = child
	return child
}

// Append adds a null element to an array and returns it. A non-array
// receiver becomes an empty array first.
func (v *Value) Append() *Value {
	if v.kind != Array {
		v.reset(Array)
	}
	child := New()
	v.items = append(v.items, child)
	return child
}

// Delete removes key from an object.
func (v *Value) Delete(key string) {
	if v == nil || v.kind != Object {
		return
	}
	if _, ok := v.fields[key]; !ok {
		return
	}
	delete(v.fields, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// SetObject turns v into an empty object.
func (v *Value) SetObject() *Value {
	v.reset(Object)
	v.fields = make(map[string]*Value)
	return v
}

// SetArray turns v into an empty array.
func (v *Value) SetArray() *Value {
	v.reset(Array)
	return v
}

func (v *Value) SetNull() {
	v.reset(Null)
}

func (v *Value) SetBool(b bool) {
	v.reset(Bool)
	v.b = b
}

func (v *Value) SetInt(i int64) {
	v.reset(Int)
	v.i = i
}

func (v *Value) SetFloat(f float64) {
	v.reset(Float)
	v.f = f
}

func (v *Value) SetString(s string) {
	v.reset(String)
	v.s = s
}

// AsBool returns the boolean held by v.
func (v *Value) AsBool() (bool, error) {
	if err := v.expect(Bool); err != nil {
		return false, err
	}
	return v.b, nil
}

// AsInt returns the integer held by v. A float with no fractional part is
// accepted, since text grammars do not always preserve the distinction.
func (v *Value) AsInt() (int64, error) {
	if v != nil && v.kind == Float && v.f == math.Trunc(v.f) && !math.IsInf(v.f, 0) {
		return int64(v.f), nil
	}
	if err := v.expect(Int); err != nil {
		return 0, err
	}
	return v.i, nil
}

// AsFloat returns the number held by v, converting integers.
func (v *Value) AsFloat() (float64, error) {
	if v != nil && v.kind == Int {
		return float64(v.i), nil
	}
	if err := v.expect(Float); err != nil {
		return 0, err
	}
	return v.f, nil
}

// AsString returns the string held by v.
func (v *Value) AsString() (string, error) {
	if err := v.expect(String); err != nil {
		return "", err
	}
	return v.s, nil
}

func (v *Value) expect(k Kind) error {
	if v == nil {
		return eris.Wrapf(ErrMissing, "want %s", k)
	}
	if v.kind != k {
		return eris.Wrapf(ErrKind, "want %s, have %s", k, v.kind)
	}
	return nil
}

func (v *Value) reset(k Kind) {
	*v = Value{kind: k}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := &Value{kind: v.kind, b: v.b, i: v.i, f: v.f, s: v.s}
	switch v.kind {
	case Array:
		c.items = make([]*Value, len(v.items))
		for i, item := range v.items {
			c.items[i] = item.Clone()
		}
	case Object:
		c.keys = append([]string(nil), v.keys...)
		c.fields = make(map[string]*Value, len(v.fields))
		for k, child := range v.fields {
			c.fields[k] = child.Clone()
		}
	}
	return c
}

// Equal reports whether a and b hold the same tree. Object key order is not
// significant, and integers compare equal to floats of the same value.
func Equal(a, b *Value) bool {
	ka, kb := a.Kind(), b.Kind()
	if isNumber(ka) && isNumber(kb) {
		fa, _ := a.AsFloat()
		fb, _ := b.AsFloat()
		if ka == Int && kb == Int {
			return a.i == b.i
		}
		return fa == fb
	}
	if ka != kb {
		return false
	}
	switch ka {
	case Null:
		return true
	case Bool:
		return a.b == b.b
	case String:
		return a.s == b.s
	case Array:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for _, k := range a.keys {
			other, ok := b.fields[k]
			if !ok || !Equal(a.fields[k], other) {
				return false
			}
		}
		return true
	}
	return false
}

func isNumber(k Kind) bool {
	return k == Int || k == Float
}
