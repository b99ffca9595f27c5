package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"sheetview/internal/model"
)

const (
	minColWidth     = 4
	maxColWidth     = 40
	widthSampleRows = 200
	filesPaneMax    = 32
)

// refresh re-reads the view snapshot and rebuilds the table rows from it.
func (m *Model) refresh() {
	m.snap = m.view.Snapshot()
	all := m.snap.Columns
	if m.selColIdx >= len(all) {
		m.selColIdx = len(all) - 1
	}
	if m.selColIdx < 0 {
		m.selColIdx = 0
	}
	if n := len(m.snap.Listing); m.fileSel >= n {
		m.fileSel = n - 1
	}
	if m.fileSel < 0 {
		m.fileSel = 0
	}
	m.autofitMaxCols()
	m.ensureSelectedVisible()
	cols := m.visibleColumns(all)

	rows := make([]table.Row, len(m.snap.Rows))
	for i, rec := range m.snap.Rows {
		r := make(table.Row, len(cols))
		for j, c := range cols {
			r[j] = cellText(rec.Get(c))
		}
		rows[i] = r
	}
	cur := m.tbl.Cursor()
	// Rows must never be wider than the columns while either is being replaced.
	m.tbl.SetRows(nil)
	m.applyColumns(cols)
	m.tbl.SetRows(rows)
	if cur >= len(rows) {
		cur = len(rows) - 1
	}
	if cur < 0 {
		cur = 0
	}
	m.tbl.SetCursor(cur)
}

func (m *Model) visibleColumns(all []string) []string {
	if len(all) == 0 {
		return all
	}
	if m.maxCols <= 0 {
		m.maxCols = 1
	}
	if m.colOffset < 0 {
		m.colOffset = 0
	}
	if m.colOffset >= len(all) {
		if len(all) > m.maxCols {
			m.colOffset = len(all) - m.maxCols
		} else {
			m.colOffset = 0
		}
	}
	end := m.colOffset + m.maxCols
	if end > len(all) {
		end = len(all)
	}
	return all[m.colOffset:end]
}

// ensureSelectedVisible scrolls the column window so the highlighted column is on screen.
func (m *Model) ensureSelectedVisible() {
	if len(m.snap.Columns) == 0 {
		m.colOffset = 0
		return
	}
	if m.selColIdx < m.colOffset {
		m.colOffset = m.selColIdx
	}
	for m.maxCols > 0 && m.selColIdx >= m.colOffset+m.maxCols {
		m.colOffset++
		m.autofitMaxCols()
	}
}

func (m *Model) autofitMaxCols() {
	all := m.snap.Columns
	if len(all) == 0 {
		m.maxCols = 0
		return
	}
	width := m.tableWidth()
	padR := 1
	sum := 0
	count := 0
	for i := m.colOffset; i < len(all); i++ {
		need := sum + m.minWidth(all[i]) + padR
		if need > width {
			break
		}
		sum = need
		count++
	}
	if count <= 0 {
		count = 1
	}
	m.maxCols = count
}

func (m *Model) applyColumns(cols []string) {
	widths := m.computeWidths(cols)
	cs := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		selected := m.colOffset+i == m.selColIdx
		cs = append(cs, table.Column{Title: headerTitle(c, m.snap.Directive, selected), Width: widths[i]})
	}
	m.cols = cols
	m.tbl.SetColumns(cs)
	m.tbl.SetWidth(m.tableWidth())
}

// computeWidths sizes each column to its content, then hands any slack to the last column.
func (m *Model) computeWidths(cols []string) []int {
	if len(cols) == 0 {
		return nil
	}
	avail := m.tableWidth() - len(cols)
	widths := make([]int, len(cols))
	total := 0
	for i, c := range cols {
		widths[i] = m.columnWidth(c)
		total += widths[i]
	}
	if total < avail {
		widths[len(widths)-1] += avail - total
		return widths
	}
	// Shrink the widest columns until everything fits or all are at their minimum.
	for total > avail {
		widest := -1
		for i, c := range cols {
			if widths[i] > m.minWidth(c) && (widest < 0 || widths[i] > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 {
			break
		}
		widths[widest]--
		total--
	}
	return widths
}

// columnWidth is the preferred width: header or widest sampled cell, plus the user's adjustment.
func (m *Model) columnWidth(c string) int {
	w := runewidth.StringWidth(headerTitle(c, m.snap.Directive, true))
	for i, rec := range m.snap.Rows {
		if i >= widthSampleRows {
			break
		}
		if cw := runewidth.StringWidth(cellText(rec.Get(c))); cw > w {
			w = cw
		}
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	w += m.colWidthAdj[c]
	if mw := m.minWidth(c); w < mw {
		w = mw
	}
	return w
}

func (m *Model) minWidth(c string) int {
	w := runewidth.StringWidth(headerTitle(c, model.Directive{}, false))
	if w > maxColWidth/2 {
		w = maxColWidth / 2
	}
	w += m.colWidthAdj[c]
	if w < minColWidth {
		w = minColWidth
	}
	return w
}

// headerTitle is the display label for a column: underscores read as spaces,
// the sort marker is appended and the highlighted column is wrapped in guillemets.
func headerTitle(c string, d model.Directive, selected bool) string {
	title := strings.ReplaceAll(c, "_", " ") + d.Marker(c)
	if selected {
		return "«" + title + "»"
	}
	return " " + title + " "
}

func (m *Model) filesWidth() int {
	w := m.termWidth / 4
	if w > filesPaneMax {
		w = filesPaneMax
	}
	if w < 12 {
		w = 12
	}
	return w
}

func (m *Model) tableWidth() int {
	width := m.termWidth
	if width <= 0 {
		width = 120 // before the first WindowSizeMsg
	}
	w := width - m.filesWidth() - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) selectedColumn() string {
	if m.selColIdx >= 0 && m.selColIdx < len(m.snap.Columns) {
		return m.snap.Columns[m.selColIdx]
	}
	return ""
}

func (m *Model) currentRecord() (model.Record, bool) {
	idx := m.tbl.Cursor()
	if idx < 0 || idx >= len(m.snap.Rows) {
		return nil, false
	}
	return m.snap.Rows[idx], true
}
