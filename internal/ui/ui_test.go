package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"sheetview/internal/config"
	"sheetview/internal/gateway"
	"sheetview/internal/model"
)

type fakeGateway struct {
	ids     []string
	listErr error
	sets    map[string]model.Dataset
}

func (f *fakeGateway) ListDatasets(ctx context.Context) ([]string, error) {
	return f.ids, f.listErr
}

func (f *fakeGateway) FetchDataset(ctx context.Context, id string) (model.Dataset, error) {
	ds, ok := f.sets[id]
	if !ok {
		return model.Dataset{}, fmt.Errorf("%q: %w", id, gateway.ErrNotFound)
	}
	return ds, nil
}

func people() model.Dataset {
	mk := func(name string, age int) model.Record {
		return model.Record{"full_name": model.String(name), "age": model.Number(float64(age))}
	}
	return model.Dataset{
		ID:      "people",
		Columns: []string{"full_name", "age"},
		Records: []model.Record{mk("Ann", 31), mk("Bob", 9), mk("Cid", 100)},
	}
}

func cities() model.Dataset {
	return model.Dataset{
		ID:      "cities",
		Columns: []string{"city"},
		Records: []model.Record{{"city": model.String("Oslo")}},
	}
}

func newTestModel(t *testing.T, gw gateway.Gateway, mod func(*config.Config)) *Model {
	t.Helper()
	cfg := &config.Config{Theme: config.ThemeDark, Compression: "none", Offline: true}
	if mod != nil {
		mod(cfg)
	}
	m := initialModel(context.Background(), cfg, gw)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return m
}

// run executes cmd synchronously and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m.Update(cmd())
}

func TestListingAndOpen(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people", "cities"}, sets: map[string]model.Dataset{"people": people(), "cities": cities()}}
	m := newTestModel(t, gw, nil)
	if !strings.Contains(m.View(), "Loading files...") {
		t.Fatalf("expected loading state:\n%s", m.View())
	}
	run(t, m, m.loadListing())
	if m.loadListing() != nil {
		t.Fatal("listing must only be requested once")
	}
	v := m.View()
	if !strings.Contains(v, "people") || !strings.Contains(v, "cities") {
		t.Fatalf("listing not rendered:\n%s", v)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Loading data...") {
		t.Fatalf("expected loading data:\n%s", m.View())
	}
	run(t, m, cmd)
	v = m.View()
	if !strings.Contains(v, "Data for people") || !strings.Contains(v, "«full name»") || !strings.Contains(v, "Ann") {
		t.Fatalf("dataset not rendered:\n%s", v)
	}
	if m.focus != paneTable {
		t.Fatal("focus should move to the table after a load")
	}
}

func TestStaleDatasetIgnored(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people", "cities"}, sets: map[string]model.Dataset{"people": people(), "cities": cities()}}
	m := newTestModel(t, gw, nil)
	run(t, m, m.loadListing())

	first := m.selectDataset("people")
	second := m.selectDataset("cities")
	run(t, m, second)
	run(t, m, first)
	if m.snap.Selected != "cities" || len(m.snap.Rows) != 1 || m.snap.Rows[0].Get("city").String() != "Oslo" {
		t.Fatalf("stale response applied: %+v", m.snap)
	}
}

func TestSortKeyCycles(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people"}, sets: map[string]model.Dataset{"people": people()}}
	m := newTestModel(t, gw, nil)
	run(t, m, m.loadListing())
	run(t, m, m.selectDataset("people"))

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	s := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}}
	m.Update(s)
	if got := names(m); got != "Bob,Ann,Cid" {
		t.Fatalf("ascending: %s", got)
	}
	if !strings.Contains(m.View(), "age ▲") {
		t.Fatalf("missing ascending marker:\n%s", m.View())
	}
	m.Update(s)
	if got := names(m); got != "Cid,Ann,Bob" {
		t.Fatalf("descending: %s", got)
	}
	m.Update(s)
	if got := names(m); got != "Bob,Ann,Cid" {
		t.Fatalf("back to ascending: %s", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(s)
	if d := m.snap.Directive; d.Column != "full_name" || d.Direction != model.Ascending {
		t.Fatalf("new column should start ascending: %+v", d)
	}
}

func TestStartupSortDescending(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people"}, sets: map[string]model.Dataset{"people": people()}}
	m := newTestModel(t, gw, func(c *config.Config) {
		c.Dataset = "people"
		c.SortColumn = "age"
		c.SortDesc = true
	})
	_, cmd := m.Update(m.loadListing()())
	run(t, m, cmd)
	if got := names(m); got != "Cid,Ann,Bob" {
		t.Fatalf("startup sort: %s", got)
	}
	if m.selectedColumn() != "age" {
		t.Fatalf("sorted column should be highlighted, got %q", m.selectedColumn())
	}
}

func TestStartupSortNotReappliedAfterManualSelect(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people", "cities"}, sets: map[string]model.Dataset{"people": people(), "cities": cities()}}
	m := newTestModel(t, gw, func(c *config.Config) {
		c.Dataset = "people"
		c.SortColumn = "age"
	})
	_, startup := m.Update(m.loadListing()())
	if startup == nil {
		t.Fatal("expected the startup selection")
	}
	// The user picks another file before the startup fetch returns.
	run(t, m, m.selectDataset("cities"))
	run(t, m, startup)
	if m.snap.Selected != "cities" || m.snap.Directive.Active() {
		t.Fatalf("startup response leaked: %+v", m.snap)
	}

	m.focus = paneFiles
	m.fileSel = 0
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	run(t, m, cmd)
	if m.snap.Selected != "people" {
		t.Fatalf("selected %q", m.snap.Selected)
	}
	if d := m.snap.Directive; d.Active() {
		t.Fatalf("a manual selection must start unsorted, got %+v", d)
	}
	if got := names(m); got != "Ann,Bob,Cid" {
		t.Fatalf("fetch order: %s", got)
	}
}

func TestExplainResultForOldSelectionDropped(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people", "cities"}, sets: map[string]model.Dataset{"people": people(), "cities": cities()}}
	m := newTestModel(t, gw, nil)
	run(t, m, m.loadListing())
	run(t, m, m.selectDataset("people"))
	old := m.ticket

	run(t, m, m.selectDataset("cities"))
	m.explaining = true
	m.Update(explainMsg{ticket: old, id: old.ID, text: "about Ann"})
	if m.modalActive || m.explaining {
		t.Fatalf("explain for %s shown over %s (modal=%v)", old.ID, m.snap.Selected, m.modalActive)
	}

	m.Update(explainMsg{ticket: m.ticket, id: m.ticket.ID, text: "about Oslo"})
	if !m.modalActive || m.modalKind != modalExplain || m.modalTitle != "Explain: cities" {
		t.Fatalf("current explain not shown: active=%v title=%q", m.modalActive, m.modalTitle)
	}
}

func TestListingFailure(t *testing.T) {
	gw := &fakeGateway{listErr: &gateway.TransportError{Op: "list", URL: "http://x", Err: errors.New("connection refused")}}
	m := newTestModel(t, gw, nil)
	run(t, m, m.loadListing())
	if !strings.Contains(m.View(), "Could not fetch files") {
		t.Fatalf("missing failure text:\n%s", m.View())
	}
}

func TestMissingDataset(t *testing.T) {
	gw := &fakeGateway{ids: []string{"gone"}}
	m := newTestModel(t, gw, nil)
	run(t, m, m.loadListing())
	run(t, m, m.selectDataset("gone"))
	if !strings.Contains(m.View(), "no longer available") {
		t.Fatalf("missing not-found text:\n%s", m.View())
	}
}

func TestSearchMovesCursor(t *testing.T) {
	gw := &fakeGateway{ids: []string{"people"}, sets: map[string]model.Dataset{"people": people()}}
	m := newTestModel(t, gw, nil)
	run(t, m, m.loadListing())
	run(t, m, m.selectDataset("people"))

	m.applySearch("cid")
	if !m.searchNext() || m.tbl.Cursor() != 2 {
		t.Fatalf("cursor = %d", m.tbl.Cursor())
	}
	m.applySearch("/^B/")
	if !m.searchPrev() || m.tbl.Cursor() != 1 {
		t.Fatalf("cursor = %d", m.tbl.Cursor())
	}
	m.applySearch("zzz")
	if m.searchNext() {
		t.Fatal("unexpected match")
	}
}

func TestHeaderTitle(t *testing.T) {
	d := model.Directive{Column: "unit_price", Direction: model.Descending}
	if got := headerTitle("unit_price", d, true); got != "«unit price ▼»" {
		t.Fatalf("got %q", got)
	}
	if got := headerTitle("qty", d, false); got != " qty " {
		t.Fatalf("got %q", got)
	}
}

func names(m *Model) string {
	out := make([]string, len(m.snap.Rows))
	for i, r := range m.snap.Rows {
		out[i] = r.Get("full_name").String()
	}
	return strings.Join(out, ",")
}
