package interp

import (
	"github.com/dev-jelly/yui/internal/calc/calcerr"
)

// SliceDescriptor is the runtime value of `a:b:c` (spec.md §4.10). It never
// flows through general expression evaluation on its own — it only ever
// appears as (part of) a Subscript's evaluated index.
type SliceDescriptor struct {
	Lower, Upper, Step Value // nil means absent
}

func (SliceDescriptor) Kind() string   { return "slice" }
func (SliceDescriptor) String() string { return "slice(...)" }

func asIndex(v Value) (int, error) {
	n, ok := v.(Number)
	if !ok {
		return 0, calcerr.NewRuntimeError("indices must be integers, not %q", v.Kind())
	}
	i, ok := n.Dom.ToInt64(n.S)
	if !ok {
		return 0, calcerr.NewRuntimeError("indices must be integers")
	}
	return int(i), nil
}

// normalizeIndex applies Python's negative-index wraparound.
func normalizeIndex(i, length int) int {
	if i < 0 {
		return i + length
	}
	return i
}

// getIndex implements `obj[i]` for a plain (non-slice) key.
func getIndex(container, key Value) (Value, error) {
	switch c := container.(type) {
	case *List:
		i, err := asIndex(key)
		if err != nil {
			return nil, err
		}
		i = normalizeIndex(i, len(c.Items))
		if i < 0 || i >= len(c.Items) {
			return nil, calcerr.NewRuntimeError("list index out of range")
		}
		return c.Items[i], nil
	case Tuple:
		i, err := asIndex(key)
		if err != nil {
			return nil, err
		}
		i = normalizeIndex(i, len(c.Items))
		if i < 0 || i >= len(c.Items) {
			return nil, calcerr.NewRuntimeError("tuple index out of range")
		}
		return c.Items[i], nil
	case Str:
		i, err := asIndex(key)
		if err != nil {
			return nil, err
		}
		runes := []rune(c.S)
		i = normalizeIndex(i, len(runes))
		if i < 0 || i >= len(runes) {
			return nil, calcerr.NewRuntimeError("string index out of range")
		}
		return Str{S: string(runes[i])}, nil
	case *Dict:
		v, ok := c.Get(key)
		if !ok {
			return nil, calcerr.NewRuntimeError("%s", key.String())
		}
		return v, nil
	}
	return nil, calcerr.NewRuntimeError("%q object is not subscriptable", container.Kind())
}

// setIndex implements `obj[i] = value` for a plain key (assignment target
// validation has already confirmed the key isn't a slice).
func setIndex(container, key, value Value) error {
	switch c := container.(type) {
	case *List:
		i, err := asIndex(key)
		if err != nil {
			return err
		}
		i = normalizeIndex(i, len(c.Items))
		if i < 0 || i >= len(c.Items) {
			return calcerr.NewRuntimeError("list assignment index out of range")
		}
		c.Items[i] = value
		return nil
	case *Dict:
		c.Set(key, value)
		return nil
	}
	return calcerr.NewRuntimeError("%q object does not support item assignment", container.Kind())
}

// delIndex implements `del obj[i]` for a plain key.
func delIndex(container, key Value) error {
	switch c := container.(type) {
	case *List:
		i, err := asIndex(key)
		if err != nil {
			return err
		}
		i = normalizeIndex(i, len(c.Items))
		if i < 0 || i >= len(c.Items) {
			return calcerr.NewRuntimeError("list assignment index out of range")
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	case *Dict:
		if _, ok := c.Get(key); !ok {
			return calcerr.NewRuntimeError("%s", key.String())
		}
		c.DeleteKey(key)
		return nil
	}
	return calcerr.NewRuntimeError("%q object does not support item deletion", container.Kind())
}

// sliceBounds resolves a SliceDescriptor against a sequence length following
// Python's clamping rules for any non-zero step, positive or negative; a
// zero step is an error.
func sliceBounds(desc SliceDescriptor, length int) (start, stop, step int, err error) {
	step = 1
	if desc.Step != nil {
		i, e := asIndex(desc.Step)
		if e != nil {
			return 0, 0, 0, e
		}
		if i == 0 {
			return 0, 0, 0, calcerr.NewRuntimeError("slice step cannot be zero")
		}
		step = i
	}

	if step > 0 {
		start, stop = 0, length
	} else {
		start, stop = length-1, -1
	}

	if desc.Lower != nil {
		i, e := asIndex(desc.Lower)
		if e != nil {
			return 0, 0, 0, e
		}
		start = clampSliceIndex(normalizeIndex(i, length), length, step)
	}
	if desc.Upper != nil {
		i, e := asIndex(desc.Upper)
		if e != nil {
			return 0, 0, 0, e
		}
		stop = clampSliceIndex(normalizeIndex(i, length), length, step)
	}
	return start, stop, step, nil
}

func clampSliceIndex(i, length, step int) int {
	if step > 0 {
		if i < 0 {
			return 0
		}
		if i > length {
			return length
		}
		return i
	}
	if i < -1 {
		return -1
	}
	if i >= length {
		return length - 1
	}
	return i
}

// getSlice implements `obj[a:b:c]` for list/tuple/str containers.
func getSlice(container Value, desc SliceDescriptor) (Value, error) {
	switch c := container.(type) {
	case *List:
		start, stop, step, err := sliceBounds(desc, len(c.Items))
		if err != nil {
			return nil, err
		}
		var out []Value
		for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
			out = append(out, c.Items[i])
		}
		return &List{Items: out}, nil
	case Tuple:
		start, stop, step, err := sliceBounds(desc, len(c.Items))
		if err != nil {
			return nil, err
		}
		var out []Value
		for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
			out = append(out, c.Items[i])
		}
		return Tuple{Items: out}, nil
	case Str:
		runes := []rune(c.S)
		start, stop, step, err := sliceBounds(desc, len(runes))
		if err != nil {
			return nil, err
		}
		var out []rune
		for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
			out = append(out, runes[i])
		}
		return Str{S: string(out)}, nil
	}
	return nil, calcerr.NewRuntimeError("%q object is not subscriptable", container.Kind())
}
