package view

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"sheetview/internal/gateway"
	"sheetview/internal/model"
)

type fakeGateway struct {
	ids     []string
	listErr error
	sets    map[string]model.Dataset
	calls   int
}

func (f *fakeGateway) ListDatasets(ctx context.Context) ([]string, error) {
	f.calls++
	return f.ids, f.listErr
}

func (f *fakeGateway) FetchDataset(ctx context.Context, id string) (model.Dataset, error) {
	f.calls++
	ds, ok := f.sets[id]
	if !ok {
		return model.Dataset{}, fmt.Errorf("%q: %w", id, gateway.ErrNotFound)
	}
	return ds, nil
}

func people() model.Dataset {
	mk := func(name string, age int) model.Record {
		return model.Record{"name": model.String(name), "age": model.Number(float64(age))}
	}
	return model.Dataset{
		ID:      "people",
		Columns: []string{"name", "age"},
		Records: []model.Record{mk("carol", 41), mk("alice", 30), mk("bob", 30), mk("dave", 9)},
	}
}

func names(rows []model.Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get("name").String()
	}
	return out
}

func sameStrings(a, b []string) bool {
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

func TestInitializeRunsOnce(t *testing.T) {
	gw := &fakeGateway{ids: []string{"a", "b"}}
	v := New()
	if err := v.Initialize(context.Background(), gw); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := v.Initialize(context.Background(), gw); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Initialize: %v", err)
	}
	if gw.calls != 1 {
		t.Fatalf("gateway called %d times", gw.calls)
	}
	s := v.Snapshot()
	if s.ListingStatus != ListingReady || !sameStrings(s.Listing, []string{"a", "b"}) {
		t.Fatalf("snapshot: %+v", s)
	}
}

func TestEmptyListingIsNotAnError(t *testing.T) {
	v := New()
	_ = v.Initialize(context.Background(), &fakeGateway{ids: []string{}})
	s := v.Snapshot()
	if s.ListingStatus != ListingEmpty || s.LastError() != "" {
		t.Fatalf("empty listing: %+v", s)
	}

	failed := New()
	_ = failed.Initialize(context.Background(), &fakeGateway{listErr: &gateway.TransportError{Op: "list datasets", URL: "x", Err: errors.New("refused")}})
	fs := failed.Snapshot()
	if fs.ListingStatus != ListingFailed || fs.LastError() == "" || len(fs.Listing) != 0 {
		t.Fatalf("failed listing: %+v", fs)
	}
}

func TestToggleCycle(t *testing.T) {
	v := New()
	gw := &fakeGateway{sets: map[string]model.Dataset{"people": people()}}
	if err := v.Select(context.Background(), gw, "people"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	steps := []struct {
		col  string
		want model.Directive
	}{
		{"age", model.Directive{Column: "age", Direction: model.Ascending}},
		{"age", model.Directive{Column: "age", Direction: model.Descending}},
		{"name", model.Directive{Column: "name", Direction: model.Ascending}},
		{"name", model.Directive{Column: "name", Direction: model.Descending}},
		{"name", model.Directive{Column: "name", Direction: model.Ascending}},
	}
	for i, st := range steps {
		if !v.ToggleSort(st.col) {
			t.Fatalf("step %d: toggle rejected", i)
		}
		if got := v.Directive(); got != st.want {
			t.Fatalf("step %d: got %+v want %+v", i, got, st.want)
		}
	}
	if v.ToggleSort("salary") {
		t.Fatalf("unknown column accepted")
	}
}

func TestDerivedRowsStableAndResettable(t *testing.T) {
	v := New()
	gw := &fakeGateway{sets: map[string]model.Dataset{"people": people()}}
	_ = v.Select(context.Background(), gw, "people")

	v.ToggleSort("age")
	if got := names(v.DerivedRows()); !sameStrings(got, []string{"dave", "alice", "bob", "carol"}) {
		t.Fatalf("age asc: %v", got)
	}
	v.ToggleSort("age")
	if got := names(v.DerivedRows()); !sameStrings(got, []string{"carol", "alice", "bob", "dave"}) {
		t.Fatalf("age desc: %v", got)
	}
	// Calling again yields the same order.
	if got := names(v.DerivedRows()); !sameStrings(got, []string{"carol", "alice", "bob", "dave"}) {
		t.Fatalf("age desc again: %v", got)
	}

	_ = v.Select(context.Background(), gw, "people")
	if v.Directive().Active() {
		t.Fatalf("select should reset the directive")
	}
	if got := names(v.DerivedRows()); !sameStrings(got, []string{"carol", "alice", "bob", "dave"}) {
		t.Fatalf("fetch order after reset: %v", got)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	v := New()
	a := model.Dataset{ID: "A", Columns: []string{"x"}, Records: []model.Record{{"x": model.String("from A")}}}
	b := model.Dataset{ID: "B", Columns: []string{"y"}, Records: []model.Record{{"y": model.String("from B")}}}

	ta := v.BeginSelect("A")
	tb := v.BeginSelect("B")

	if v.Snapshot().PayloadStatus != PayloadLoading {
		t.Fatalf("B should be pending")
	}
	if v.CompleteSelect(ta, a, nil) {
		t.Fatalf("stale response for A applied")
	}
	s := v.Snapshot()
	if s.Selected != "B" || s.PayloadStatus != PayloadLoading || s.Columns != nil {
		t.Fatalf("after stale A: %+v", s)
	}
	if !v.CompleteSelect(tb, b, nil) {
		t.Fatalf("latest response rejected")
	}
	s = v.Snapshot()
	if s.PayloadStatus != PayloadReady || s.Columns[0] != "y" || s.Rows[0].Get("y").String() != "from B" {
		t.Fatalf("after B: %+v", s)
	}
	// A late A after B completed is still discarded.
	if v.CompleteSelect(ta, a, nil) {
		t.Fatalf("late A applied after B")
	}
	if v.Snapshot().Columns[0] != "y" {
		t.Fatalf("B's data clobbered")
	}
}

func TestStaleErrorDiscarded(t *testing.T) {
	v := New()
	ta := v.BeginSelect("A")
	tb := v.BeginSelect("B")
	v.CompleteSelect(ta, model.Dataset{}, errors.New("late failure"))
	if v.Snapshot().LoadError != "" {
		t.Fatalf("stale error surfaced")
	}
	v.CompleteSelect(tb, model.Dataset{}, fmt.Errorf("%q: %w", "B", gateway.ErrNotFound))
	s := v.Snapshot()
	if s.PayloadStatus != PayloadFailed || s.LoadError == "" || s.Rows != nil {
		t.Fatalf("B failure: %+v", s)
	}
}

func TestFailedSelectDropsPreviousData(t *testing.T) {
	v := New()
	gw := &fakeGateway{ids: []string{"people", "gone"}, sets: map[string]model.Dataset{"people": people()}}
	_ = v.Initialize(context.Background(), gw)
	_ = v.Select(context.Background(), gw, "people")
	err := v.Select(context.Background(), gw, "gone")
	if !errors.Is(err, gateway.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	s := v.Snapshot()
	if s.PayloadStatus != PayloadFailed || len(s.Rows) != 0 || s.Columns != nil {
		t.Fatalf("stale data shown after failure: %+v", s)
	}
	if s.ListingStatus != ListingReady || len(s.Listing) != 2 {
		t.Fatalf("listing disturbed: %+v", s)
	}
	if v.ToggleSort("name") {
		t.Fatalf("toggle accepted without a payload")
	}
}
