package ui

import (
	"regexp"
	"strings"

	"sheetview/internal/model"
)

// applySearch parses the input: /re/ is a regular expression, anything else a
// case-insensitive substring. An empty query clears the search.
func (m *Model) applySearch(q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		m.searchActive = false
		m.searchPattern = ""
		return
	}
	m.searchActive = true
	if strings.HasPrefix(q, "/") && strings.HasSuffix(q, "/") && len(q) > 2 {
		m.searchRegex = true
		m.searchPattern = q[1 : len(q)-1]
	} else {
		m.searchRegex = false
		m.searchPattern = q
	}
	if m.searchRegex {
		if _, err := regexp.Compile(m.searchPattern); err != nil {
			m.lastMsg = "invalid regex: " + err.Error()
		}
	}
}

func (m *Model) searchNext() bool {
	rows := m.snap.Rows
	if !m.searchActive || m.searchPattern == "" || len(rows) == 0 {
		return false
	}
	match := m.matcher()
	start := m.tbl.Cursor() + 1
	for i := 0; i < len(rows); i++ {
		idx := (start + i) % len(rows)
		if match(rows[idx]) {
			m.tbl.SetCursor(idx)
			return true
		}
	}
	return false
}

func (m *Model) searchPrev() bool {
	rows := m.snap.Rows
	if !m.searchActive || m.searchPattern == "" || len(rows) == 0 {
		return false
	}
	match := m.matcher()
	start := m.tbl.Cursor() - 1
	if start < 0 {
		start = len(rows) - 1
	}
	for i := 0; i < len(rows); i++ {
		idx := start - i
		if idx < 0 {
			idx += len(rows)
		}
		if match(rows[idx]) {
			m.tbl.SetCursor(idx)
			return true
		}
	}
	return false
}

// matcher tests every column's display text of a record against the active search.
func (m *Model) matcher() func(model.Record) bool {
	cols := m.snap.Columns
	if m.searchRegex {
		re, err := regexp.Compile(m.searchPattern)
		if err != nil {
			return func(model.Record) bool { return false }
		}
		return func(r model.Record) bool {
			for _, c := range cols {
				if re.MatchString(r.Get(c).String()) {
					return true
				}
			}
			return false
		}
	}
	needle := strings.ToLower(m.searchPattern)
	return func(r model.Record) bool {
		for _, c := range cols {
			if strings.Contains(strings.ToLower(r.Get(c).String()), needle) {
				return true
			}
		}
		return false
	}
}
