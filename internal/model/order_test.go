package model

import (
	"encoding/json"
	"testing"
)

func rec(kv ...any) Record {
	r := Record{}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i].(string)] = ValueOf(kv[i+1])
	}
	return r
}

func column(recs []Record, col string) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Get(col).String()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDeriveNumericOrder(t *testing.T) {
	recs := []Record{rec("n", 10), rec("n", 2), rec("n", 1)}
	got := column(Derive(recs, Directive{Column: "n"}), "n")
	if want := []string{"1", "2", "10"}; !equal(got, want) {
		t.Fatalf("ascending: got %v want %v", got, want)
	}
	got = column(Derive(recs, Directive{Column: "n", Direction: Descending}), "n")
	if want := []string{"10", "2", "1"}; !equal(got, want) {
		t.Fatalf("descending: got %v want %v", got, want)
	}
}

func TestDeriveStringsAreLexicographic(t *testing.T) {
	recs := []Record{rec("n", "10"), rec("n", "2"), rec("n", "1")}
	got := column(Derive(recs, Directive{Column: "n"}), "n")
	if want := []string{"1", "10", "2"}; !equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDeriveStableBothDirections(t *testing.T) {
	recs := []Record{
		rec("id", "a", "score", "B"),
		rec("id", "b", "score", "A"),
		rec("id", "c", "score", "B"),
		rec("id", "d", "score", "A"),
		rec("id", "e", "score", "B"),
	}
	asc := column(Derive(recs, Directive{Column: "score"}), "id")
	if want := []string{"b", "d", "a", "c", "e"}; !equal(asc, want) {
		t.Fatalf("ascending: got %v want %v", asc, want)
	}
	desc := column(Derive(recs, Directive{Column: "score", Direction: Descending}), "id")
	if want := []string{"a", "c", "e", "b", "d"}; !equal(desc, want) {
		t.Fatalf("descending: got %v want %v", desc, want)
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	recs := []Record{rec("n", 3), rec("n", 1), rec("n", 2)}
	_ = Derive(recs, Directive{Column: "n"})
	if got := column(recs, "n"); !equal(got, []string{"3", "1", "2"}) {
		t.Fatalf("input reordered: %v", got)
	}
	if got := column(Derive(recs, Directive{}), "n"); !equal(got, []string{"3", "1", "2"}) {
		t.Fatalf("no directive should keep fetch order, got %v", got)
	}
}

func TestCompareMixedKinds(t *testing.T) {
	cases := []struct {
		name string
		a, b Value
		want int
	}{
		{"numbers", Number(2), Number(10), -1},
		{"equal numbers", ValueOf(json.Number("1.0")), Number(1), 0},
		{"number vs string", Number(10), String("9"), -1},
		{"null first", Null, String("a"), -1},
		{"null vs number", Null, Number(0), -1},
		{"strings", String("b"), String("a"), 1},
	}
	for _, c := range cases {
		if got := Compare(c.a, c.b); got != c.want {
			t.Errorf("%s: Compare = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestDirectiveToggle(t *testing.T) {
	var d Directive
	d = d.Toggle("age")
	if d != (Directive{Column: "age", Direction: Ascending}) {
		t.Fatalf("first toggle: %+v", d)
	}
	d = d.Toggle("age")
	if d != (Directive{Column: "age", Direction: Descending}) {
		t.Fatalf("second toggle: %+v", d)
	}
	d = d.Toggle("name")
	if d != (Directive{Column: "name", Direction: Ascending}) {
		t.Fatalf("switch column: %+v", d)
	}
	if d.Marker("name") != " ▲" || d.Marker("age") != "" {
		t.Fatalf("markers: %q %q", d.Marker("name"), d.Marker("age"))
	}
}

func TestValueOf(t *testing.T) {
	if v := ValueOf(json.Number("007")); !v.IsNumber() || v.String() != "007" || v.Float() != 7 {
		t.Fatalf("json.Number: %+v", v)
	}
	if v := ValueOf(true); v.Kind() != KindString || v.String() != "true" {
		t.Fatalf("bool: %+v", v)
	}
	if v := ValueOf(nil); !v.IsNull() || v.String() != "" {
		t.Fatalf("nil: %+v", v)
	}
	if v := ValueOf([]any{1.0, "x"}); v.String() != `[1,"x"]` {
		t.Fatalf("nested: %q", v.String())
	}
}
