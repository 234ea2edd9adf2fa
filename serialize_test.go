package toml

import "testing"

func TestSerializeScalarFields(t *testing.T) {
	root := newTable()
	root.set("str", String(`hi "there"`))
	root.set("num", Integer(42))
	root.set("flt", Float(1))
	root.set("ok", Boolean(true))

	got, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	reparsed, perr := ParseFromString(got)
	if perr != nil {
		t.Fatalf("reparse %q: %v", got, perr)
	}
	if v, _ := reparsed.Get("str"); v != String(`hi "there"`) {
		t.Errorf("str = %#v", v)
	}
	if v, _ := reparsed.Get("num"); v != Integer(42) {
		t.Errorf("num = %#v", v)
	}
	if v, _ := reparsed.Get("flt"); v != Float(1) {
		t.Errorf("flt = %#v", v)
	}
	if v, _ := reparsed.Get("ok"); v != Boolean(true) {
		t.Errorf("ok = %#v", v)
	}
}

func TestSerializeIntegralFloatGetsTrailingDot0(t *testing.T) {
	if got := formatFloat(3); got != "3.0" {
		t.Errorf("formatFloat(3) = %q, want 3.0", got)
	}
	if got := formatFloat(3.5); got != "3.5" {
		t.Errorf("formatFloat(3.5) = %q, want 3.5", got)
	}
}

func TestSerializeNestedTablesGetHeaders(t *testing.T) {
	root := newTable()
	sub := newTable()
	sub.set("x", Integer(1))
	root.set("a", sub)

	got, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	reparsed := mustParse(t, got)
	at := mustGetTable(t, reparsed, "a")
	if v, _ := at.Get("x"); v != Integer(1) {
		t.Errorf("a.x = %v, want 1", v)
	}
}

func TestSerializeEmptyIntermediateTableGetsNoHeader(t *testing.T) {
	root := mustParse(t, "[a.b]\nx = 1\n")

	out, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	want := "[a.b]\nx = 1\n"
	if out != want {
		t.Errorf("SerializeToString = %q, want %q (no spurious [a] header)", out, want)
	}
}

func TestSerializeGenuinelyEmptyTableStillGetsHeader(t *testing.T) {
	root := mustParse(t, "[a]\n")

	out, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	want := "[a]\n"
	if out != want {
		t.Errorf("SerializeToString = %q, want %q (empty explicit table must still appear)", out, want)
	}
}

func TestSerializeArrayOfTables(t *testing.T) {
	root := newTable()
	arr := &Array{Header: true}
	for _, name := range []string{"apple", "banana"} {
		elem := newTable()
		elem.explicit = true
		elem.set("name", String(name))
		arr.Elems = append(arr.Elems, elem)
	}
	root.set("fruit", arr)

	got, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	reparsed := mustParse(t, got)
	fv, _ := reparsed.Get("fruit")
	rarr, ok := fv.(*Array)
	if !ok || len(rarr.Elems) != 2 {
		t.Fatalf("fruit = %#v", fv)
	}
	first := rarr.Elems[0].(*Table)
	if name, _ := first.Get("name"); name != String("apple") {
		t.Errorf("fruit[0].name = %v, want apple", name)
	}
}

func TestSerializeClosedInlineTableStaysInline(t *testing.T) {
	root := newTable()
	inline := newTable()
	inline.closed = true
	inline.set("x", Integer(1))
	inline.set("y", Integer(2))
	root.set("point", inline)

	got, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	want := "point = {x = 1, y = 2}\n"
	if got != want {
		t.Errorf("SerializeToString = %q, want %q", got, want)
	}
}

func TestSerializeRoundTripsParserOutput(t *testing.T) {
	src := `
title = "example"

[owner]
name = "Tom"

[[servers]]
host = "alpha"

[[servers]]
host = "beta"
`
	root := mustParse(t, src)
	out, err := SerializeToString(root)
	if err != nil {
		t.Fatalf("SerializeToString: %v", err)
	}
	reparsed := mustParse(t, out)

	if v, _ := reparsed.Get("title"); v != String("example") {
		t.Errorf("title = %v", v)
	}
	owner := mustGetTable(t, reparsed, "owner")
	if v, _ := owner.Get("name"); v != String("Tom") {
		t.Errorf("owner.name = %v", v)
	}
	sv, _ := reparsed.Get("servers")
	arr := sv.(*Array)
	if len(arr.Elems) != 2 {
		t.Fatalf("len(servers) = %d, want 2", len(arr.Elems))
	}
}
