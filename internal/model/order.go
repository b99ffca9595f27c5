package model

import (
	"cmp"
	"slices"
	"strings"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// Directive is the (column, direction) pair governing display order.
// An empty Column means no sort.
type Directive struct {
	Column    string
	Direction Direction
}

func (d Directive) Active() bool { return d.Column != "" }

// Toggle returns the directive after activating col's header: the same
// column flips ascending to descending, anything else starts ascending.
func (d Directive) Toggle(col string) Directive {
	if d.Column == col && d.Direction == Ascending {
		return Directive{Column: col, Direction: Descending}
	}
	return Directive{Column: col, Direction: Ascending}
}

// Marker is the header suffix for col under this directive.
func (d Directive) Marker(col string) string {
	if !d.Active() || d.Column != col {
		return ""
	}
	if d.Direction == Descending {
		return " ▼"
	}
	return " ▲"
}

// Compare orders two cells. Two numbers compare numerically; any other
// pairing compares display strings.
func Compare(a, b Value) int {
	if a.kind == KindNumber && b.kind == KindNumber {
		return cmp.Compare(a.num, b.num)
	}
	return strings.Compare(a.text, b.text)
}

// Derive returns recs in display order for d. The input slice is never
// modified. Descending negates the comparison, so equal keys keep their
// original relative order in both directions.
func Derive(recs []Record, d Directive) []Record {
	out := slices.Clone(recs)
	if !d.Active() {
		return out
	}
	col := d.Column
	desc := d.Direction == Descending
	slices.SortStableFunc(out, func(a, b Record) int {
		c := Compare(a.Get(col), b.Get(col))
		if desc {
			return -c
		}
		return c
	})
	return out
}
