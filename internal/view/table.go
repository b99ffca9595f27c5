// Package view holds the state behind the dataset table: the listing, the
// one loaded dataset, and the sort directive. Renderers read a Snapshot and
// never touch the state directly.
//
// A Table is owned by a single logical thread (the UI event loop) and is not
// safe for concurrent use. Fetches may be in flight while the user keeps
// selecting; each selection is tagged with a sequence number and only the
// response for the most recently issued selection is applied.
package view

import (
	"context"
	"errors"
	"fmt"

	"sheetview/internal/gateway"
	"sheetview/internal/model"
	"sheetview/internal/util/logx"
)

var ErrAlreadyInitialized = errors.New("view: listing already requested")

type ListingStatus int

const (
	ListingPending ListingStatus = iota
	ListingReady
	ListingEmpty
	ListingFailed
)

type PayloadStatus int

const (
	PayloadNone PayloadStatus = iota
	PayloadLoading
	PayloadReady
	PayloadFailed
)

// Ticket identifies one issued selection.
type Ticket struct {
	Seq uint64
	ID  string
}

type Table struct {
	initialized bool
	listing     []string
	listStatus  ListingStatus
	listErr     string

	selected   string
	payload    *model.Dataset
	loadStatus PayloadStatus
	loadErr    string

	directive model.Directive
	seq       uint64
}

func New() *Table { return &Table{} }

// BeginInitialize marks the listing as requested. It returns false if the
// listing was already requested this session.
func (t *Table) BeginInitialize() bool {
	if t.initialized {
		return false
	}
	t.initialized = true
	t.listStatus = ListingPending
	return true
}

// CompleteInitialize records the listing result. On failure the listing is
// left empty.
func (t *Table) CompleteInitialize(ids []string, err error) {
	if err != nil {
		t.listing = nil
		t.listStatus = ListingFailed
		t.listErr = ListingFailureMessage(err)
		logx.Errorf("view: listing failed: %v", err)
		return
	}
	t.listing = append([]string(nil), ids...)
	t.listErr = ""
	if len(t.listing) == 0 {
		t.listStatus = ListingEmpty
		return
	}
	t.listStatus = ListingReady
}

// Initialize loads the listing synchronously.
func (t *Table) Initialize(ctx context.Context, gw gateway.Gateway) error {
	if !t.BeginInitialize() {
		return ErrAlreadyInitialized
	}
	ids, err := gw.ListDatasets(ctx)
	t.CompleteInitialize(ids, err)
	return err
}

// BeginSelect switches to id: the previous payload and any load error are
// dropped and the directive returns to its default before the fetch starts.
func (t *Table) BeginSelect(id string) Ticket {
	t.seq++
	t.selected = id
	t.payload = nil
	t.loadStatus = PayloadLoading
	t.loadErr = ""
	t.directive = model.Directive{}
	logx.Debugf("view: select %q (seq %d)", id, t.seq)
	return Ticket{Seq: t.seq, ID: id}
}

// CompleteSelect applies a fetch result if tk is the latest issued ticket.
// Results for superseded tickets are discarded and false is returned.
func (t *Table) CompleteSelect(tk Ticket, ds model.Dataset, err error) bool {
	if tk.Seq != t.seq {
		logx.Debugf("view: discarding stale response for %q (seq %d, latest %d)", tk.ID, tk.Seq, t.seq)
		return false
	}
	if err != nil {
		t.payload = nil
		t.loadStatus = PayloadFailed
		t.loadErr = LoadFailureMessage(tk.ID, err)
		logx.Errorf("view: loading %q failed: %v", tk.ID, err)
		return true
	}
	t.payload = &ds
	t.loadStatus = PayloadReady
	return true
}

// Select fetches id synchronously. It returns the fetch error, if any.
func (t *Table) Select(ctx context.Context, gw gateway.Gateway, id string) error {
	tk := t.BeginSelect(id)
	ds, err := gw.FetchDataset(ctx, id)
	t.CompleteSelect(tk, ds, err)
	return err
}

// ToggleSort activates column's header. It does nothing and returns false
// when no dataset is loaded or the column does not belong to it.
func (t *Table) ToggleSort(column string) bool {
	if t.payload == nil || !t.payload.HasColumn(column) {
		return false
	}
	t.directive = t.directive.Toggle(column)
	return true
}

// DerivedRows returns the loaded records in display order.
func (t *Table) DerivedRows() []model.Record {
	if t.payload == nil {
		return nil
	}
	return model.Derive(t.payload.Records, t.directive)
}

func (t *Table) Directive() model.Directive { return t.directive }
func (t *Table) Selected() string           { return t.selected }

// Dataset returns the loaded dataset, if any.
func (t *Table) Dataset() (model.Dataset, bool) {
	if t.payload == nil {
		return model.Dataset{}, false
	}
	return *t.payload, true
}

// Snapshot is a read-only copy of the view for renderers.
type Snapshot struct {
	Listing       []string
	ListingStatus ListingStatus
	ListingError  string

	Selected      string
	PayloadStatus PayloadStatus
	LoadError     string
	Columns       []string
	Rows          []model.Record
	Directive     model.Directive
}

// LastError is the message the status area should show, if any.
func (s Snapshot) LastError() string {
	if s.LoadError != "" {
		return s.LoadError
	}
	return s.ListingError
}

func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		Listing:       append([]string(nil), t.listing...),
		ListingStatus: t.listStatus,
		ListingError:  t.listErr,
		Selected:      t.selected,
		PayloadStatus: t.loadStatus,
		LoadError:     t.loadErr,
		Directive:     t.directive,
	}
	if t.payload != nil {
		s.Columns = append([]string(nil), t.payload.Columns...)
		s.Rows = t.DerivedRows()
	}
	return s
}

// ListingFailureMessage is the user-facing text for a failed listing.
func ListingFailureMessage(err error) string {
	if gateway.IsTransport(err) {
		return "Could not fetch files from the server. Is the backend running?"
	}
	return fmt.Sprintf("Could not fetch files: %v", err)
}

// LoadFailureMessage is the user-facing text for a failed dataset fetch.
func LoadFailureMessage(id string, err error) string {
	if errors.Is(err, gateway.ErrNotFound) {
		return fmt.Sprintf("%s is no longer available on the server.", id)
	}
	return fmt.Sprintf("Could not fetch data for %s.", id)
}
