package ui

import (
	"path/filepath"
	"regexp"

	tea "github.com/charmbracelet/bubbletea"

	"sheetview/internal/export"
	"sheetview/internal/util/logx"
	"sheetview/internal/view"
)

// loadListing issues the one-time listing request. It returns nil once the
// listing has already been requested.
func (m *Model) loadListing() tea.Cmd {
	if !m.view.BeginInitialize() {
		return nil
	}
	logx.Infof("listing: requesting datasets")
	ctx, gw := m.ctx, m.gw
	return func() tea.Msg {
		ids, err := gw.ListDatasets(ctx)
		return listingMsg{ids: ids, err: err}
	}
}

// selectDataset marks id as selected and fetches it. Only the response for
// the most recent selection is ever applied.
func (m *Model) selectDataset(id string) tea.Cmd {
	_, cmd := m.issueSelect(id)
	return cmd
}

func (m *Model) issueSelect(id string) (view.Ticket, tea.Cmd) {
	tk := m.view.BeginSelect(id)
	m.ticket = tk
	m.startupSeq = 0
	m.selColIdx, m.colOffset = 0, 0
	m.tbl.SetCursor(0)
	m.refresh()
	logx.Infof("select: %s (seq=%d)", id, tk.Seq)
	ctx, gw := m.ctx, m.gw
	return tk, func() tea.Msg {
		ds, err := gw.FetchDataset(ctx, tk.ID)
		return datasetMsg{ticket: tk, ds: ds, err: err}
	}
}

func (m *Model) explainCmd() tea.Cmd {
	rec, ok := m.currentRecord()
	if !ok {
		return nil
	}
	if !m.ai.Enabled() {
		msg := "explain (OpenAI) unavailable: set OPENAI_API_KEY and run without --offline"
		return func() tea.Msg { return toastMsg{text: msg} }
	}
	m.explaining = true
	tk, cols, client, ctx := m.ticket, m.snap.Columns, m.ai, m.ctx
	return func() tea.Msg {
		text, err := client.ExplainRecord(ctx, tk.ID, cols, rec)
		return explainMsg{ticket: tk, id: tk.ID, text: text, err: err}
	}
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// exportCmd writes the rows in their current display order. Without
// --export/--out it writes CSV next to the working directory, named after the dataset.
func (m *Model) exportCmd() tea.Cmd {
	if len(m.snap.Columns) == 0 {
		return func() tea.Msg { return toastMsg{text: "nothing to export"} }
	}
	format := m.cfg.ExportFormat
	if format == "" {
		format = export.FormatCSV
	}
	path := m.cfg.ExportOut
	if path == "" {
		path = filepath.Clean(unsafeName.ReplaceAllString(m.snap.Selected, "_") + formatExt(format) + export.Extension(m.cfg.Compression))
	}
	cols, rows, comp := m.snap.Columns, m.snap.Rows, m.cfg.Compression
	return func() tea.Msg {
		err := export.WriteFile(path, format, comp, cols, rows)
		return exportMsg{path: path, rows: len(rows), err: err}
	}
}

func formatExt(format string) string {
	switch format {
	case export.FormatJSON:
		return ".ndjson"
	case export.FormatParquet:
		return ".parquet"
	default:
		return ".csv"
	}
}
