package doc

import (
	"github.com/rotisserie/eris"
	"github.com/wI2L/jsondiff"
)

// Diff returns the JSON Patch (RFC 6902) turning from into to. An empty patch
// means the documents are equivalent.
func Diff(from, to *Value) (jsondiff.Patch, error) {
	a, err := from.MarshalJSON()
	if err != nil {
		return nil, err
	}
	b, err := to.MarshalJSON()
	if err != nil {
		return nil, err
	}
	patch, err := jsondiff.CompareJSON(a, b)
	if err != nil {
		return nil, eris.Wrap(err, "doc: diff")
	}
	return patch, nil
}
