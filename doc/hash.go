package doc

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a structural fingerprint of v. Trees that are Equal hash to the
// same value: object keys are visited in sorted order and integral floats hash
// like the matching integer.
func Hash(v *Value) uint64 {
	d := xxhash.New()
	hashInto(d, v)
	return d.Sum64()
}

func hashInto(d *xxhash.Digest, v *Value) {
	var scratch [9]byte
	writeTagged := func(tag byte, bits uint64) {
		scratch[0] = tag
		binary.LittleEndian.PutUint64(scratch[1:], bits)
		_, _ = d.Write(scratch[:])
	}
	switch v.Kind() {
	case Null:
		_, _ = d.Write([]byte{'n'})
	case Bool:
		if v.b {
			writeTagged('b', 1)
		} else {
			writeTagged('b', 0)
		}
	case Int:
		writeTagged('i', uint64(v.i))
	case Float:
		if v.f == math.Trunc(v.f) && math.Abs(v.f) < math.MaxInt64 {
			writeTagged('i', uint64(int64(v.f)))
		} else {
			writeTagged('f', math.Float64bits(v.f))
		}
	case String:
		writeTagged('s', uint64(len(v.s)))
		_, _ = d.WriteString(v.s)
	case Array:
		writeTagged('a', uint64(len(v.items)))
		for _, item := range v.items {
			hashInto(d, item)
		}
	case Object:
		writeTagged('o', uint64(len(v.keys)))
		keys := append([]string(nil), v.keys...)
		sort.Strings(keys)
		for _, k := range keys {
			writeTagged('k', uint64(len(k)))
			_, _ = d.WriteString(k)
			hashInto(d, v.fields[k])
		}
	}
}
