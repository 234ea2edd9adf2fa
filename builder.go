package toml

import "fmt"

// builder applies the table-building semantics of C4 (spec.md §4.4)
// against a single root Table. It tracks which table is "current" —
// the destination for bare key/value lines — and enforces the
// redefinition/type-conflict invariants of spec.md §3 via three
// per-table flags.
//
// The distinction that actually drives TOML's redefinition rules (and
// is easy to get wrong — the teacher's own Implicit bool conflates
// it) is *how* a table became implicit: a table implicitly created as
// the ancestor of a later `[header]` may still be promoted to
// explicit by that header, but a table implicitly created while
// walking a dotted key's path may never be, even by a header aimed
// exactly at it. spec.md §8's worked example
// (`a.b = 1\n[a]\nc = 2` → RedefinedTable) and the TOML spec's own
// `[fruit.apple]`/`[fruit.apple.taste]` invalid-header comment are the
// grounding for this; builder.go's `dotted` flag is what tells the two
// cases apart.
type builder struct {
	root    *Table
	current *Table
}

func newBuilder() *builder {
	return &builder{root: newTable(), current: newTable()}
}

func (b *builder) init() {
	b.current = b.root
}

// walkAncestors descends ctx through path, creating implicit tables
// as needed and redirecting through the last element of any
// array-of-tables it crosses. markDotted controls whether traversed
// nodes are marked as having been reached via a dotted key (Assign)
// rather than a header path — see the builder doc comment. It is a
// free function (not a *builder method) because parser.go also uses
// it to resolve dotted keys inside inline tables, which are built
// against their own Table root rather than the builder's current one.
func walkAncestors(ctx *Table, path []string, markDotted bool) (*Table, *ParseError) {
	for _, name := range path {
		existing, ok := ctx.Get(name)
		if !ok {
			next := newTable()
			next.dotted = markDotted
			ctx.set(name, next)
			ctx = next
			continue
		}
		switch v := existing.(type) {
		case *Table:
			if v.closed {
				return nil, &ParseError{Kind: ErrInlineTableExtension, msg: fmt.Sprintf("table %q is closed to further extension", name)}
			}
			if markDotted {
				v.dotted = true
			}
			ctx = v
		case *Array:
			if !v.Header {
				return nil, &ParseError{Kind: ErrTypeConflict, msg: fmt.Sprintf("key %q is an array, not a table", name)}
			}
			elem := v.Elems[len(v.Elems)-1].(*Table)
			if markDotted {
				elem.dotted = true
			}
			ctx = elem
		default:
			return nil, &ParseError{Kind: ErrTypeConflict, msg: fmt.Sprintf("key %q is a %s, not a table", name, existing.Type())}
		}
	}
	return ctx, nil
}

// assignInto implements the Assign(path, value) event (spec.md §4.4)
// against an arbitrary container table: it walks path, creating
// implicit ancestors, and sets the final key — failing on a closed
// container or a pre-existing key. Used both for top-level key/value
// lines (against the builder's current table) and for fields inside
// an inline table literal (against that literal's own Table).
func assignInto(ctx *Table, path []string, value Value) *ParseError {
	ctx, err := walkAncestors(ctx, path[:len(path)-1], true)
	if err != nil {
		return err
	}
	leaf := path[len(path)-1]
	if ctx.closed {
		return &ParseError{Kind: ErrInlineTableExtension, msg: "cannot extend a closed table"}
	}
	if _, exists := ctx.Get(leaf); exists {
		return &ParseError{Kind: ErrDuplicateKey, msg: fmt.Sprintf("key %q already defined", leaf)}
	}
	ctx.set(leaf, value)
	return nil
}

func (b *builder) assign(path []string, value Value) *ParseError {
	return assignInto(b.current, path, value)
}

// stdHeader implements StdHeader(path) (spec.md §4.4): it walks
// path's ancestors from root (not the current table — a header always
// addresses an absolute path) and then creates or promotes the final
// table, making it current.
func (b *builder) stdHeader(path []string) *ParseError {
	ctx, err := walkAncestors(b.root, path[:len(path)-1], false)
	if err != nil {
		return err
	}
	last := path[len(path)-1]
	existing, ok := ctx.Get(last)
	if !ok {
		t := newTable()
		t.explicit = true
		ctx.set(last, t)
		b.current = t
		return nil
	}
	switch v := existing.(type) {
	case *Table:
		switch {
		case v.closed:
			return &ParseError{Kind: ErrInlineTableExtension, msg: fmt.Sprintf("table %q is closed to further extension", last)}
		case v.explicit:
			return &ParseError{Kind: ErrRedefinedTable, msg: fmt.Sprintf("table %q already defined", last)}
		case v.dotted:
			return &ParseError{Kind: ErrRedefinedTable, msg: fmt.Sprintf("table %q was already defined via dotted keys and cannot be given its own header", last)}
		default:
			v.explicit = true
			b.current = v
			return nil
		}
	default:
		return &ParseError{Kind: ErrTypeConflict, msg: fmt.Sprintf("key %q is a %s, not a table", last, existing.Type())}
	}
}

// aotHeader implements AotHeader(path) (spec.md §4.4): it appends a
// new element Table to the array-of-tables named by path, creating
// the array on first use, and makes the new element current.
func (b *builder) aotHeader(path []string) *ParseError {
	ctx, err := walkAncestors(b.root, path[:len(path)-1], false)
	if err != nil {
		return err
	}
	last := path[len(path)-1]
	existing, ok := ctx.Get(last)
	var arr *Array
	if !ok {
		arr = &Array{Header: true}
		ctx.set(last, arr)
	} else {
		switch v := existing.(type) {
		case *Array:
			if !v.Header {
				return &ParseError{Kind: ErrTypeConflict, msg: fmt.Sprintf("key %q is a plain array, not an array of tables", last)}
			}
			arr = v
		case *Table:
			// spec.md §9 Open Question, resolved strict: a table
			// reached only through dotted keys can never become the
			// target of a [[array]] header.
			return &ParseError{Kind: ErrTypeConflict, msg: fmt.Sprintf("key %q is a table, not an array of tables", last)}
		default:
			return &ParseError{Kind: ErrTypeConflict, msg: fmt.Sprintf("key %q is a %s, not an array of tables", last, existing.Type())}
		}
	}
	elem := newTable()
	elem.explicit = true
	arr.Elems = append(arr.Elems, elem)
	b.current = elem
	return nil
}
