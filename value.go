package toml

import "math"

// Value is the sum type over TOML's value space: String, Integer,
// Float, Boolean, Datetime, *Array, *Table (spec.md §3). It is a
// closed set — tomlValue is unexported so no type outside this
// package can implement Value.
type Value interface {
	Type() string
	tomlValue()

	// Consume drives c through this value's content: a scalar variant
	// makes exactly one Visit* call; *Array makes one VisitSeq call
	// with an iterator over its elements; *Table makes one VisitMap
	// call with an iterator over its entries. Part of the C7 binding
	// surface (spec.md §4.7).
	Consume(c Consumer) error
}

type String string

func (s String) Type() string { return "string" }
func (s String) tomlValue()   {}
func (s String) Consume(c Consumer) error { return c.VisitString(string(s)) }

type Integer int64

func (i Integer) Type() string { return "integer" }
func (i Integer) tomlValue()   {}
func (i Integer) Consume(c Consumer) error { return c.VisitI64(int64(i)) }

type Float float64

func (f Float) Type() string { return "float" }
func (f Float) tomlValue()   {}
func (f Float) Consume(c Consumer) error { return c.VisitF64(float64(f)) }

type Boolean bool

func (b Boolean) Type() string { return "boolean" }
func (b Boolean) tomlValue()   {}
func (b Boolean) Consume(c Consumer) error { return c.VisitBool(bool(b)) }

// Array is an ordered sequence of Value. Header is true for arrays
// created by one or more `[[name]]` headers (array-of-tables); such
// arrays are always Table-typed and always allow appending a new
// element, even once prior elements are individually closed
// (spec.md §3/§4.4).
type Array struct {
	Elems  []Value
	Header bool // created by an array-of-tables header
}

func (a *Array) Type() string { return "array" }
func (a *Array) tomlValue()   {}

func (a *Array) Consume(c Consumer) error {
	return c.VisitSeq(&arrayIterator{elems: a.Elems})
}

// tableEntry is one key/value pair of a Table, kept in insertion
// order. Grounded on shcv-kvl/go/node.go's entries+index ordered
// association, generalized from child nodes to arbitrary Value.
type tableEntry struct {
	key   string
	value Value
}

// Table is an ordered mapping from key to Value. The three bookkeeping
// flags are the load-bearing state behind TOML's redefinition rules
// (spec.md §3/§4.8):
//
//   - explicit: true once the table's own header was parsed, or it was
//     produced as an inline table literal, or it is an element of an
//     array-of-tables. A table can be made explicit at most once.
//   - closed: true for inline tables — no further key insertion is
//     permitted afterward, by header or by dotted key.
//   - dotted: true if the table was ever reached as an ancestor (or
//     direct parent of an assigned key) while walking a dotted key's
//     path. Such a table can never later be promoted to explicit by
//     its own header, even though a table reached only as the
//     ancestor of a child *header* can be (builder.go's walkAncestors
//     is where this distinction is applied).
type Table struct {
	entries []tableEntry
	index   map[string]int

	explicit bool
	closed   bool
	dotted   bool
}

func newTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) Type() string { return "table" }
func (t *Table) tomlValue()   {}

func (t *Table) Consume(c Consumer) error {
	return c.VisitMap(&tableIterator{entries: t.entries})
}

// Len returns the number of direct keys in t.
func (t *Table) Len() int { return len(t.entries) }

// Keys returns t's keys in insertion order. The returned slice must
// not be mutated.
func (t *Table) Keys() []string {
	keys := make([]string, len(t.entries))
	for i, e := range t.entries {
		keys[i] = e.key
	}
	return keys
}

// Get returns the value stored at key and whether it was present.
func (t *Table) Get(key string) (Value, bool) {
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i].value, true
}

// set inserts or overwrites key=value, preserving key's original
// position on overwrite. Parsing never overwrites (duplicate keys are
// rejected before reaching here); overwrite is used by drivers
// (structbind) building a tree from scratch.
func (t *Table) set(key string, value Value) {
	if i, ok := t.index[key]; ok {
		t.entries[i].value = value
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, tableEntry{key, value})
}

// Range calls fn for each entry in insertion order, stopping early if
// fn returns false.
func (t *Table) Range(fn func(key string, value Value) bool) {
	for _, e := range t.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Equal reports whether a and b are the same value under spec.md
// §4.5's structural equality. Non-NaN floats compare by bit pattern
// rather than by `==`, so +0.0 and -0.0 are distinct, and every NaN
// compares unequal to everything, including itself — matching the TOML
// test-suite's own equality convention rather than IEEE-754
// comparison semantics. Arrays and tables compare element-wise in
// insertion order; a Table's bookkeeping flags (explicit/closed/
// dotted) are provenance, not content, and play no part in equality.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Integer:
		bv, ok := b.(Integer)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		if !ok || math.IsNaN(float64(av)) || math.IsNaN(float64(bv)) {
			return false
		}
		return math.Float64bits(float64(av)) == math.Float64bits(float64(bv))
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Datetime:
		bv, ok := b.(Datetime)
		return ok && av == bv
	case *Array:
		bv, ok := b.(*Array)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *Table:
		bv, ok := b.(*Table)
		if !ok || len(av.entries) != len(bv.entries) {
			return false
		}
		for i, e := range av.entries {
			be := bv.entries[i]
			if e.key != be.key || !Equal(e.value, be.value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
