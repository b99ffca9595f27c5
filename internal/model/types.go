package model

import (
	"encoding/json"
	"sort"
)

// Dataset is one remote file's tabular contents.
type Dataset struct {
	ID      string
	Columns []string
	Records []Record
}

// Record maps a column name to its cell value. A missing key reads as Null.
type Record map[string]Value

func (r Record) Get(col string) Value {
	return r[col]
}

// Fields returns the record as plain Go values, in the shape json would
// decode it, for encoders and prompts.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r))
	for k, v := range r {
		out[k] = v.Any()
	}
	return out
}

// HasColumn reports whether col is one of the dataset's columns.
func (d Dataset) HasColumn(col string) bool {
	for _, c := range d.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// ColumnsFromRecords returns the sorted union of record keys. Used when a
// payload carries rows but no header list.
func ColumnsFromRecords(recs []map[string]any) []string {
	set := map[string]struct{}{}
	for _, r := range recs {
		for k := range r {
			set[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewRecord converts decoded JSON fields into a Record.
func NewRecord(fields map[string]any) Record {
	r := make(Record, len(fields))
	for k, v := range fields {
		r[k] = ValueOf(v)
	}
	return r
}

// PrettyJSON renders the record's fields with stable key order.
func (r Record) PrettyJSON() string {
	b, _ := json.MarshalIndent(r.Fields(), "", "  ")
	return string(b)
}
