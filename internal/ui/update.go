package ui

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sheetview/internal/util/logx"
	"sheetview/internal/view"
)

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Files", text: "Switch pane", key: km.SwitchPane},
		{group: "Files", text: "Open file / sort column", key: km.Open},
		{group: "Files", text: "Reload selected file", key: km.Reload},

		{group: "Navigation", text: "Previous row", key: tea.Key{Type: tea.KeyUp}},
		{group: "Navigation", text: "Next row", key: tea.Key{Type: tea.KeyDown}},
		{group: "Navigation", text: "Page up", key: tea.Key{Type: tea.KeyPgUp}},
		{group: "Navigation", text: "Page down", key: tea.Key{Type: tea.KeyPgDown}},
		{group: "Navigation", text: "Go to top", key: km.Top},
		{group: "Navigation", text: "Go to bottom", key: km.Bottom},
		{group: "Navigation", text: "Previous column", key: tea.Key{Type: tea.KeyLeft}},
		{group: "Navigation", text: "Next column", key: tea.Key{Type: tea.KeyRight}},

		{group: "Columns", text: "Toggle sort on column", key: km.Sort},
		{group: "Columns", text: "Increase column width", key: km.IncColWidth},
		{group: "Columns", text: "Decrease column width", key: km.DecColWidth},

		{group: "Search", text: "Search", key: km.Search},
		{group: "Search", text: "Search next", key: km.SearchNext},
		{group: "Search", text: "Search prev", key: km.SearchPrev},

		{group: "Views", text: "Inspect row", key: km.Inspect},
		{group: "Views", text: "Application logs", key: km.AppLogs},

		{group: "Actions", text: "Copy current row", key: km.CopyRow},
		{group: "Actions", text: "Export rows", key: km.Export},
		{group: "Actions", text: "Explain row (OpenAI)", key: km.Explain},

		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth, m.termHeight = msg.Width, msg.Height
		// Reserve one line for the pane title, one for the sub-status and one for the status.
		h := msg.Height - 3
		if h < 2 {
			h = 2
		}
		m.tbl.SetHeight(h)
		m.refresh()
		if m.modalActive {
			m.resizeModal()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case listingMsg:
		m.view.CompleteInitialize(msg.ids, msg.err)
		if msg.err == nil {
			logx.Infof("listing: %d datasets", len(msg.ids))
		}
		m.refresh()
		want := m.cfg.Dataset
		if want == "" || msg.err != nil {
			return m, nil
		}
		if i := slices.Index(msg.ids, want); i >= 0 {
			m.fileSel = i
			tk, cmd := m.issueSelect(want)
			if m.cfg.SortColumn != "" {
				m.startupSeq = tk.Seq
			}
			return m, cmd
		}
		m.lastMsg = fmt.Sprintf("%s is not on the server", want)
		logx.Warnf("listing: startup dataset %q not listed", want)
		return m, nil

	case datasetMsg:
		if !m.view.CompleteSelect(msg.ticket, msg.ds, msg.err) {
			return m, nil
		}
		if msg.err != nil {
			m.refresh()
			return m, nil
		}
		logx.Infof("select: %s loaded, %d rows, %d columns", msg.ticket.ID, len(msg.ds.Records), len(msg.ds.Columns))
		if m.startupSeq != 0 && msg.ticket.Seq == m.startupSeq {
			m.startupSeq = 0
			m.applyStartupSort()
		}
		m.focus = paneTable
		m.refresh()
		return m, nil

	case explainMsg:
		m.explaining = false
		if msg.ticket != m.ticket {
			logx.Debugf("explain: dropped result for %s (seq=%d)", msg.id, msg.ticket.Seq)
			return m, nil
		}
		if msg.err != nil {
			logx.Errorf("explain %s: %v", msg.id, msg.err)
			m.lastMsg = "explain failed: " + msg.err.Error()
			return m, nil
		}
		m.openTextModal(modalExplain, "Explain: "+msg.id, msg.text)
		return m, nil

	case exportMsg:
		if msg.err != nil {
			logx.Errorf("export %s: %v", msg.path, msg.err)
			m.lastMsg = "export failed: " + msg.err.Error()
		} else {
			logx.Infof("export: %d rows to %s", msg.rows, msg.path)
			m.lastMsg = fmt.Sprintf("exported %d rows to %s", msg.rows, msg.path)
		}
		return m, nil

	case toastMsg:
		m.lastMsg = msg.text
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) applyStartupSort() {
	col := m.cfg.SortColumn
	if !m.view.ToggleSort(col) {
		m.lastMsg = fmt.Sprintf("no column %q to sort by", col)
		logx.Warnf("sort: startup column %q not in %s", col, m.cfg.Dataset)
		return
	}
	if m.cfg.SortDesc {
		m.view.ToggleSort(col)
	}
	m.snap = m.view.Snapshot()
	if i := slices.Index(m.snap.Columns, col); i >= 0 {
		m.selColIdx = i
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.modalActive {
		return m.handleModalKey(msg)
	}
	if m.searchEditing {
		switch msg.Type {
		case tea.KeyEnter:
			m.searchEditing = false
			m.search.Blur()
			m.applySearch(m.search.Value())
			if m.searchActive && !m.searchNext() {
				m.lastMsg = "no match"
			}
			return m, nil
		case tea.KeyEsc:
			m.searchEditing = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	km := m.keymap
	switch {
	case keyMatches(msg, km.Quit):
		return m, tea.Quit
	case keyMatches(msg, km.Help):
		m.openHelpModal()
		return m, nil
	case keyMatches(msg, km.AppLogs):
		m.openTextModal(modalLogs, "Application Logs", logx.Dump())
		return m, nil
	case keyMatches(msg, km.SwitchPane):
		if m.focus == paneFiles {
			m.focus = paneTable
		} else {
			m.focus = paneFiles
		}
		return m, nil
	case keyMatches(msg, km.Reload):
		if m.snap.Selected == "" {
			return m, nil
		}
		return m, m.selectDataset(m.snap.Selected)
	}

	if m.focus == paneFiles {
		return m.handleFilesKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m *Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snap.Listing)
	switch msg.String() {
	case "up", "k":
		if m.fileSel > 0 {
			m.fileSel--
		}
		return m, nil
	case "down", "j":
		if m.fileSel+1 < n {
			m.fileSel++
		}
		return m, nil
	case "home", "g":
		m.fileSel = 0
		return m, nil
	case "end", "G":
		if n > 0 {
			m.fileSel = n - 1
		}
		return m, nil
	}
	if keyMatches(msg, m.keymap.Open) && m.fileSel < n {
		id := m.snap.Listing[m.fileSel]
		// Re-opening the file already shown just moves focus to it.
		if id == m.snap.Selected && m.snap.PayloadStatus != view.PayloadFailed {
			m.focus = paneTable
			return m, nil
		}
		return m, m.selectDataset(id)
	}
	return m, nil
}

func (m *Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := m.keymap
	switch {
	case msg.Type == tea.KeyLeft:
		if m.selColIdx > 0 {
			m.selColIdx--
			m.refresh()
		}
		return m, nil
	case msg.Type == tea.KeyRight:
		if m.selColIdx+1 < len(m.snap.Columns) {
			m.selColIdx++
			m.refresh()
		}
		return m, nil
	case keyMatches(msg, km.Sort), keyMatches(msg, km.Open):
		col := m.selectedColumn()
		if !m.view.ToggleSort(col) {
			return m, nil
		}
		d := m.view.Directive()
		logx.Debugf("sort: %s %s", d.Column, d.Direction)
		m.refresh()
		return m, nil
	case keyMatches(msg, km.IncColWidth), keyMatches(msg, km.DecColWidth):
		col := m.selectedColumn()
		if col == "" {
			return m, nil
		}
		if keyMatches(msg, km.IncColWidth) {
			m.colWidthAdj[col] += 2
		} else {
			m.colWidthAdj[col] -= 2
		}
		m.refresh()
		return m, nil
	case keyMatches(msg, km.Search):
		m.searchEditing = true
		m.search.SetValue("")
		m.search.Focus()
		return m, nil
	case keyMatches(msg, km.SearchNext):
		if m.searchActive && !m.searchNext() {
			m.lastMsg = "no match"
		}
		return m, nil
	case keyMatches(msg, km.SearchPrev):
		if m.searchActive && !m.searchPrev() {
			m.lastMsg = "no match"
		}
		return m, nil
	case keyMatches(msg, km.Inspect):
		m.openInspectorModal()
		return m, nil
	case keyMatches(msg, km.CopyRow):
		if rec, ok := m.currentRecord(); ok {
			copyToClipboard(rowTSV(m.snap.Columns, rec))
			m.lastMsg = "copied row to clipboard"
		}
		return m, nil
	case keyMatches(msg, km.Export):
		return m, m.exportCmd()
	case keyMatches(msg, km.Explain):
		if m.explaining {
			return m, nil
		}
		return m, m.explainCmd()
	case keyMatches(msg, km.Top):
		m.tbl.GotoTop()
		return m, nil
	case keyMatches(msg, km.Bottom):
		m.tbl.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modalKind == modalHelp {
		switch {
		case msg.Type == tea.KeyUp:
			if m.helpSel > 0 {
				m.helpSel--
				m.modalVP.SetContent(m.renderHelp())
			}
		case msg.Type == tea.KeyDown:
			if m.helpSel+1 < len(m.helpItems) {
				m.helpSel++
				m.modalVP.SetContent(m.renderHelp())
			}
		case msg.Type == tea.KeyEnter:
			m.modalActive = false
			if len(m.helpItems) > 0 {
				return m, keyCmd(m.helpItems[m.helpSel].key)
			}
		case msg.Type == tea.KeyEsc, keyMatches(msg, m.keymap.Quit), keyMatches(msg, m.keymap.Help):
			m.modalActive = false
		}
		return m, nil
	}
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter || keyMatches(msg, m.keymap.Quit) {
		m.modalActive = false
		return m, nil
	}
	if keyMatches(msg, m.keymap.CopyRow) {
		copyToClipboard(m.modalBody)
		m.lastMsg = "copied to clipboard"
		return m, nil
	}
	var cmd tea.Cmd
	m.modalVP, cmd = m.modalVP.Update(msg)
	return m, cmd
}
