// Package structbind is the reference external collaborator for the
// root package's C7 binding surface: a reflect-based driver that maps
// Go structs, maps, slices and scalars onto a toml.Value tree and
// back, talking to the tree only through toml.Producer/toml.Consumer.
// Grounded on the teacher's decode.go/encode.go, rewritten to never
// touch *toml.Table/*toml.Array directly.
package structbind

import (
	"encoding"
	"encoding/base64"
	"fmt"
	"go/ast"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huskytoml/toml"
)

// Option configures a single Marshal/Unmarshal call. Structbind adds
// nothing of its own on top of the root package's BindOption — it
// exists as a distinct name so callers don't need to import the root
// package just to configure a bind.
type Option = toml.BindOption

// StrictOverflow rejects integers that don't fit their destination
// field width instead of silently truncating them.
func StrictOverflow() Option { return toml.StrictOverflow() }

var timeType = reflect.TypeOf(time.Time{})

// Unmarshal parses data as TOML and stores the result in the value
// pointed to by v, matching struct fields by `toml:"name"` tag, field
// name, or lowercased field name, in that order.
func Unmarshal(data []byte, v interface{}, opts ...Option) error {
	root, err := toml.ParseFromBytes(data)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return toml.NewBindError(toml.ErrCustomBind, "", reflect.TypeOf(v), "Unmarshal requires a non-nil pointer, got %T", v)
	}
	bindOpts := toml.ResolveBindOptions(opts...)
	dc := newDecodeConsumer(rv.Elem(), "", bindOpts, nil)
	return root.Consume(dc)
}

// Marshal produces the TOML encoding of v, which must be, or point
// to, a struct or a map with string keys.
func Marshal(v interface{}, opts ...Option) ([]byte, error) {
	rv := reflect.ValueOf(v)
	value, err := toml.ProduceValue(func(p toml.Producer) error {
		return produce(p, rv, nil)
	})
	if err != nil {
		return nil, err
	}
	root, ok := value.(*toml.Table)
	if !ok {
		return nil, toml.NewBindError(toml.ErrWrongType, "", rv.Type(), "top-level value must produce a table, got %s", value.Type())
	}
	text, err := toml.SerializeToString(root)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// tagOptions is a set of comma-separated modifiers following a field's
// tag name, e.g. `toml:"name,omitempty"`. Ported from the teacher's
// tags.go verbatim; it needs no domain-specific change.
type tagOptions map[string]struct{}

func (o tagOptions) Has(opt string) bool {
	_, ok := o[opt]
	return ok
}

func parseTag(tag string) (string, tagOptions) {
	parts := strings.Split(tag, ",")
	if len(parts) == 1 {
		return parts[0], nil
	}
	opts := make(tagOptions, len(parts)-1)
	for _, p := range parts[1:] {
		opts[p] = struct{}{}
	}
	return parts[0], opts
}

// indirect walks past pointers and non-nil interfaces, allocating
// nil pointers it must dereference, and reports an encoding.TextUnmarshaler
// found along the way. Ported from the teacher's indirectValue
// (decode.go): the trick of re-taking Addr() on an already-addressable
// non-pointer value is what lets a *T TextUnmarshaler be discovered
// even when v arrives already dereferenced once.
func indirect(v reflect.Value) (encoding.TextUnmarshaler, reflect.Value) {
	if v.Kind() != reflect.Ptr && v.CanAddr() {
		v = v.Addr()
	}
	var u encoding.TextUnmarshaler
	for {
		if v.Kind() == reflect.Interface && !v.IsNil() {
			e := v.Elem()
			if e.Kind() == reflect.Ptr && !e.IsNil() {
				v = e
				continue
			}
		}
		if v.Kind() != reflect.Ptr {
			break
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		if v.NumMethod() > 0 {
			if i, ok := v.Interface().(encoding.TextUnmarshaler); ok {
				u = i
			}
		}
		v = v.Elem()
	}
	return u, v
}

// datetimeToTime extracts a time.Time out of a toml.Datetime via
// reflection rather than a static .Time() call, so this file compiles
// whichever of datetime_on.go/datetime_off.go is in the build: the
// method only exists in the default (non-"nodatetime") build.
func datetimeToTime(dt toml.Datetime) (time.Time, bool) {
	m := reflect.ValueOf(dt).MethodByName("Time")
	if !m.IsValid() {
		return time.Time{}, false
	}
	out := m.Call(nil)
	tv, ok := out[0].Interface().(time.Time)
	return tv, ok
}

func combinePath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// decodeConsumer implements toml.Consumer against a single reflect
// destination. One is created per field/element as the tree is
// walked, carrying that field's own tag options (tag is nil for
// slice/array elements and map values, which have none).
type decodeConsumer struct {
	rv   reflect.Value
	path string
	bind toml.BindOptions
	tag  tagOptions
}

func newDecodeConsumer(rv reflect.Value, path string, bind toml.BindOptions, tag tagOptions) *decodeConsumer {
	return &decodeConsumer{rv: rv, path: path, bind: bind, tag: tag}
}

func (d *decodeConsumer) wrongType(kind string) error {
	return toml.NewBindError(toml.ErrWrongType, d.path, d.rv.Type(), "cannot decode toml %s into %s", kind, d.rv.Type())
}

func (d *decodeConsumer) overflow(kind, value string) error {
	return toml.NewBindError(toml.ErrIntegerOverflow, d.path, d.rv.Type(), "%s %s overflows %s", kind, value, d.rv.Type())
}

func (d *decodeConsumer) VisitBool(b bool) error {
	_, v := indirect(d.rv)
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(b)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return d.wrongType("boolean")
		}
		v.Set(reflect.ValueOf(b))
	default:
		return d.wrongType("boolean")
	}
	return nil
}

func (d *decodeConsumer) VisitI64(i int64) error {
	_, v := indirect(d.rv)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.OverflowInt(i) && d.bind.StrictOverflow {
			return d.overflow("integer", strconv.FormatInt(i, 10))
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := uint64(i)
		if (i < 0 || v.OverflowUint(u)) && d.bind.StrictOverflow {
			return d.overflow("integer", strconv.FormatInt(i, 10))
		}
		v.SetUint(u)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return d.wrongType("integer")
		}
		v.Set(reflect.ValueOf(i))
	default:
		return d.wrongType("integer")
	}
	return nil
}

func (d *decodeConsumer) VisitF64(f float64) error {
	_, v := indirect(d.rv)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if v.OverflowFloat(f) && d.bind.StrictOverflow {
			return d.overflow("float", strconv.FormatFloat(f, 'g', -1, 64))
		}
		v.SetFloat(f)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return d.wrongType("float")
		}
		v.Set(reflect.ValueOf(f))
	default:
		return d.wrongType("float")
	}
	return nil
}

func (d *decodeConsumer) VisitString(s string) error {
	u, v := indirect(d.rv)
	if u != nil {
		return u.UnmarshalText([]byte(s))
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Slice:
		if v.Type().Elem().Kind() != reflect.Uint8 {
			return d.wrongType("string")
		}
		buf := make([]byte, base64.StdEncoding.DecodedLen(len(s)))
		n, err := base64.StdEncoding.Decode(buf, []byte(s))
		if err != nil {
			return toml.NewBindError(toml.ErrWrongType, d.path, v.Type(), "invalid base64 string: %s", err)
		}
		v.SetBytes(buf[:n])
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return d.wrongType("string")
		}
		v.Set(reflect.ValueOf(s))
	default:
		if d.tag.Has("string") {
			return decodeQuoted(s, v)
		}
		return d.wrongType("string")
	}
	return nil
}

// decodeQuoted parses s as the textual form of a numeric/boolean field
// tagged `toml:",string"` (spec.md §6 leaves this coercion to the
// driver).
func decodeQuoted(s string, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return toml.NewBindError(toml.ErrWrongType, "", v.Type(), "invalid quoted boolean %q", s)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v.OverflowInt(i) {
			return toml.NewBindError(toml.ErrIntegerOverflow, "", v.Type(), "invalid quoted integer %q", s)
		}
		v.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return toml.NewBindError(toml.ErrWrongType, "", v.Type(), "invalid quoted float %q", s)
		}
		v.SetFloat(f)
	default:
		return toml.NewBindError(toml.ErrWrongType, "", v.Type(), "unexpected type for quoted string")
	}
	return nil
}

func (d *decodeConsumer) VisitDatetime(dt toml.Datetime) error {
	_, v := indirect(d.rv)
	switch {
	case v.Kind() == reflect.Interface && v.NumMethod() == 0:
		if tv, ok := datetimeToTime(dt); ok {
			v.Set(reflect.ValueOf(tv))
		} else {
			v.Set(reflect.ValueOf(dt.String()))
		}
	case v.Type().ConvertibleTo(timeType):
		tv, ok := datetimeToTime(dt)
		if !ok {
			return d.wrongType("datetime")
		}
		v.Set(reflect.ValueOf(tv).Convert(v.Type()))
	case v.Kind() == reflect.String:
		v.SetString(dt.String())
	default:
		return d.wrongType("datetime")
	}
	return nil
}

func (d *decodeConsumer) VisitSeq(it toml.SeqIterator) error {
	_, v := indirect(d.rv)
	switch v.Kind() {
	case reflect.Slice:
		elemType := v.Type().Elem()
		result := reflect.MakeSlice(v.Type(), 0, 0)
		for i := 0; ; i++ {
			elem, ok := it.Next()
			if !ok {
				break
			}
			ev := reflect.New(elemType).Elem()
			path := fmt.Sprintf("%s[%d]", d.path, i)
			if err := elem.Consume(newDecodeConsumer(ev, path, d.bind, nil)); err != nil {
				return err
			}
			result = reflect.Append(result, ev)
		}
		v.Set(result)
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			elem, ok := it.Next()
			if !ok {
				break
			}
			path := fmt.Sprintf("%s[%d]", d.path, i)
			if err := elem.Consume(newDecodeConsumer(v.Index(i), path, d.bind, nil)); err != nil {
				return err
			}
		}
		if _, ok := it.Next(); ok {
			return toml.NewBindError(toml.ErrWrongType, d.path, v.Type(), "array has more elements than [%d]%s can hold", v.Len(), v.Type().Elem())
		}
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return d.wrongType("array")
		}
		var out []interface{}
		for i := 0; ; i++ {
			elem, ok := it.Next()
			if !ok {
				break
			}
			var iv interface{}
			ev := reflect.ValueOf(&iv).Elem()
			path := fmt.Sprintf("%s[%d]", d.path, i)
			if err := elem.Consume(newDecodeConsumer(ev, path, d.bind, nil)); err != nil {
				return err
			}
			out = append(out, iv)
		}
		v.Set(reflect.ValueOf(out))
	default:
		return d.wrongType("array")
	}
	return nil
}

func (d *decodeConsumer) VisitMap(it toml.MapIterator) error {
	_, v := indirect(d.rv)
	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return d.wrongType("table")
		}
		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}
		elemType := v.Type().Elem()
		for {
			key, val, ok := it.Next()
			if !ok {
				break
			}
			ev := reflect.New(elemType).Elem()
			path := combinePath(d.path, key)
			if err := val.Consume(newDecodeConsumer(ev, path, d.bind, nil)); err != nil {
				return err
			}
			v.SetMapIndex(reflect.ValueOf(key).Convert(v.Type().Key()), ev)
		}
	case reflect.Struct:
		fields := make(map[string]toml.Value)
		for {
			key, val, ok := it.Next()
			if !ok {
				break
			}
			fields[key] = val
		}
		return bindStructFields(v, fields, make(map[string]struct{}, len(fields)), d.path, d.bind)
	case reflect.Interface:
		if v.NumMethod() != 0 {
			return d.wrongType("table")
		}
		m := make(map[string]interface{})
		for {
			key, val, ok := it.Next()
			if !ok {
				break
			}
			var iv interface{}
			ev := reflect.ValueOf(&iv).Elem()
			if err := val.Consume(newDecodeConsumer(ev, combinePath(d.path, key), d.bind, nil)); err != nil {
				return err
			}
			m[key] = iv
		}
		v.Set(reflect.ValueOf(m))
	default:
		return d.wrongType("table")
	}
	return nil
}

// findField resolves a struct field's key in fields, trying the tag
// name, then the field name, then the field name lowercased, in that
// order (decode.go's findField, generalized to the fields map built
// up-front from a MapIterator rather than a *types.Table).
func findField(fields map[string]toml.Value, name, tagName string) (string, toml.Value, bool) {
	if tagName != "" {
		v, ok := fields[tagName]
		return tagName, v, ok
	}
	if v, ok := fields[name]; ok {
		return name, v, true
	}
	lower := strings.ToLower(name)
	v, ok := fields[lower]
	return lower, v, ok
}

// bindStructFields walks v's fields against the already-materialized
// fields map, promoting anonymous struct/pointer-to-struct fields the
// same way the teacher's unmarshalStructNested does (decode.go),
// generalized to dispatch through toml.Value.Consume instead of a
// concrete unmarshalValue switch.
func bindStructFields(v reflect.Value, fields map[string]toml.Value, matched map[string]struct{}, path string, bind toml.BindOptions) error {
	_, v = indirect(v)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		exported := ast.IsExported(sf.Name)
		if !exported && !sf.Anonymous {
			continue
		}
		tagName, opts := parseTag(sf.Tag.Get("toml"))
		if tagName == "-" {
			continue
		}
		var (
			key   string
			value toml.Value
			found bool
		)
		if exported {
			key, value, found = findField(fields, sf.Name, tagName)
		}
		if !found {
			if exported && opts.Has("omitempty") {
				v.Field(i).Set(reflect.Zero(sf.Type))
				continue
			}
			if sf.Anonymous {
				fv := v.Field(i)
				switch sf.Type.Kind() {
				case reflect.Struct:
					if err := bindStructFields(fv, fields, matched, path, bind); err != nil {
						return err
					}
				case reflect.Ptr:
					if sf.Type.Elem().Kind() != reflect.Struct {
						continue
					}
					if fv.IsNil() {
						n := len(matched)
						fresh := reflect.New(sf.Type.Elem())
						if err := bindStructFields(fresh.Elem(), fields, matched, path, bind); err != nil {
							return err
						}
						if n != len(matched) {
							fv.Set(fresh)
						}
					} else if err := bindStructFields(fv, fields, matched, path, bind); err != nil {
						return err
					}
				}
			}
			continue
		}
		if _, dup := matched[key]; dup {
			continue
		}
		dc := newDecodeConsumer(v.Field(i), combinePath(path, key), bind, opts)
		if err := value.Consume(dc); err != nil {
			return err
		}
		matched[key] = struct{}{}
	}
	return nil
}

// indirectForMarshal walks past pointers and interfaces on the encode
// side, reporting an encoding.TextMarshaler found along the way.
// Ported from the teacher's indirectPtr (encode.go).
func indirectForMarshal(v reflect.Value) (encoding.TextMarshaler, reflect.Value) {
	for (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && !v.IsNil() {
		v = v.Elem()
	}
	if v.CanInterface() {
		if m, ok := v.Interface().(encoding.TextMarshaler); ok {
			return m, v
		}
	}
	if v.Kind() != reflect.Ptr && v.CanAddr() {
		p := v.Addr()
		if m, ok := p.Interface().(encoding.TextMarshaler); ok {
			return m, v
		}
	}
	return nil, v
}

// isEmptyValue ported verbatim from the teacher's encode.go: the
// `omitempty` tag's definition of empty.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// produce walks v and emits it into p, dispatching on v's dynamic
// Kind. tag is nil for elements that aren't a named struct field
// (slice/array elements, map values).
func produce(p toml.Producer, v reflect.Value, tag tagOptions) error {
	tm, v := indirectForMarshal(v)
	if tm != nil {
		text, err := tm.MarshalText()
		if err != nil {
			return err
		}
		return p.EmitString(string(text))
	}
	if !v.IsValid() {
		return p.EmitNone()
	}
	if v.Type().ConvertibleTo(timeType) {
		t := v.Convert(timeType).Interface().(time.Time)
		return p.EmitString(t.Format(time.RFC3339Nano))
	}
	switch v.Kind() {
	case reflect.Bool:
		return p.EmitBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return p.EmitI64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > 1<<63-1 {
			return toml.NewBindError(toml.ErrIntegerOverflow, "", v.Type(), "uint value %d overflows toml integer", u)
		}
		return p.EmitI64(int64(u))
	case reflect.Float32, reflect.Float64:
		return p.EmitF64(v.Float())
	case reflect.String:
		return p.EmitString(v.String())
	case reflect.Slice:
		if v.IsNil() {
			return p.EmitNone()
		}
		if v.Type().Elem().Kind() == reflect.Uint8 && !tag.Has("string") {
			return p.EmitBytes(v.Bytes())
		}
		return produceSeq(p, v)
	case reflect.Array:
		return produceSeq(p, v)
	case reflect.Map:
		return produceMap(p, v)
	case reflect.Struct:
		if err := p.BeginMap(); err != nil {
			return err
		}
		if err := produceStructFields(p, v); err != nil {
			return err
		}
		return p.EndMap()
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return p.EmitNone()
		}
		return produce(p, v.Elem(), tag)
	default:
		return toml.NewBindError(toml.ErrWrongType, "", v.Type(), "cannot encode Go value of type %s", v.Type())
	}
}

func produceSeq(p toml.Producer, v reflect.Value) error {
	if err := p.BeginSeq(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if err := produce(p, v.Index(i), nil); err != nil {
			return err
		}
	}
	return p.EndSeq()
}

// produceMap emits v's entries in sorted key order (map iteration
// order is otherwise unspecified, and TOML output should be
// deterministic). Grounded on the teacher's stringValues sort.Sort
// helper (encode.go), rewritten with sort.Slice.
func produceMap(p toml.Producer, v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return toml.NewBindError(toml.ErrWrongType, "", v.Type(), "map key must be string, got %s", v.Type().Key())
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	if err := p.BeginMap(); err != nil {
		return err
	}
	for _, k := range keys {
		if err := p.BeginKey(k.String()); err != nil {
			return err
		}
		if err := produce(p, v.MapIndex(k), nil); err != nil {
			return err
		}
		if err := p.EndKey(); err != nil {
			return err
		}
	}
	return p.EndMap()
}

// produceStructFields walks v's fields, promoting anonymous
// struct/pointer-to-struct fields the way the teacher's
// marshalStructTable does (encode.go).
func produceStructFields(p toml.Producer, v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		name, opts := parseTag(sf.Tag.Get("toml"))
		if name == "-" {
			continue
		}
		fv := v.Field(i)
		if sf.Anonymous && name == "" {
			switch sf.Type.Kind() {
			case reflect.Struct:
				if err := produceStructFields(p, fv); err != nil {
					return err
				}
				continue
			case reflect.Ptr:
				if sf.Type.Elem().Kind() == reflect.Struct && !fv.IsNil() {
					if err := produceStructFields(p, fv.Elem()); err != nil {
						return err
					}
				}
				continue
			}
		}
		if !ast.IsExported(sf.Name) {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if opts.Has("omitempty") && isEmptyValue(fv) {
			continue
		}
		if err := p.BeginKey(name); err != nil {
			return err
		}
		if err := produce(p, fv, opts); err != nil {
			return err
		}
		if err := p.EndKey(); err != nil {
			return err
		}
	}
	return nil
}
