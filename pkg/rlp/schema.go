package rlp

import "reflect"

// ArrayProfile packs a homogeneous ordered sequence. Encode accepts
// any slice type via reflection (so callers can pass []tx.Clause
// directly rather than wrapping into []any); Decode always returns
// []any, one element per decoded item, in wire order.
type ArrayProfile struct {
	Item Profile
}

func (a ArrayProfile) Encode(value any, path string) (Item, error) {
	if value == nil {
		return ListItem(nil), nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return Item{}, encErr(path, "expected a slice value")
	}
	items := make([]Item, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		sub, err := a.Item.Encode(rv.Index(i).Interface(), indexPath(path, i))
		if err != nil {
			return Item{}, err
		}
		items[i] = sub
	}
	return ListItem(items), nil
}

func (a ArrayProfile) Decode(item Item, path string) (any, error) {
	if !item.IsList {
		return nil, encErr(path, "expected list, got byte string")
	}
	out := make([]any, len(item.List))
	for i, sub := range item.List {
		v, err := a.Item.Decode(sub, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func indexPath(path string, i int) string {
	return path + ".[" + itoa(i) + "]"
}

// Field is one named slot of a StructProfile. The name is used only
// for diagnostic paths — wire order is schema order, never name order.
type Field struct {
	Name    string
	Profile Profile
}

// StructProfile packs/unpacks an ordered list of named sub-profiles
// into/from a single RLP list. Encode/Decode operate on []any holding
// one value per field, in schema order — the caller (Transaction,
// Clause) is responsible for assembling and destructuring that slice;
// there is no reflection over Go struct tags here (§9).
type StructProfile struct {
	Fields []Field
}

func (s StructProfile) Encode(value any, path string) (Item, error) {
	values, ok := value.([]any)
	if !ok {
		return Item{}, encErr(path, "expected []any of field values")
	}
	if len(values) != len(s.Fields) {
		return Item{}, encErr(path, "field count mismatch: schema has "+itoa(len(s.Fields))+" fields, got "+itoa(len(values))+" values")
	}
	items := make([]Item, len(s.Fields))
	for i, f := range s.Fields {
		sub, err := f.Profile.Encode(values[i], fieldPath(path, f.Name))
		if err != nil {
			return Item{}, err
		}
		items[i] = sub
	}
	return ListItem(items), nil
}

func (s StructProfile) Decode(item Item, path string) (any, error) {
	if !item.IsList {
		return nil, encErr(path, "expected list, got byte string")
	}
	if len(item.List) != len(s.Fields) {
		return nil, encErr(path, "field count mismatch: schema has "+itoa(len(s.Fields))+" fields, wire has "+itoa(len(item.List)))
	}
	out := make([]any, len(s.Fields))
	for i, f := range s.Fields {
		v, err := f.Profile.Decode(item.List[i], fieldPath(path, f.Name))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func fieldPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
