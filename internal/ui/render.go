package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"sheetview/internal/view"
)

func (m *Model) View() string {
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderFiles(), " ", m.renderData())
	v := lipgloss.JoinVertical(lipgloss.Left, body, m.renderBottom(), m.styles.Status.Render(m.statusLine()))
	if m.modalActive {
		// Dim the background content while keeping it visible
		dimmed := lipgloss.NewStyle().Faint(true).Render(v)
		v = overlay(dimmed, m.renderModal())
	}
	return v
}

func (m *Model) bodyHeight() int {
	h := m.termHeight
	if h <= 0 {
		h = 24
	}
	h -= 2
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) renderFiles() string {
	w := m.filesWidth()
	h := m.bodyHeight()
	lines := []string{m.styles.Title.Render("Available Files")}
	switch m.snap.ListingStatus {
	case view.ListingPending:
		lines = append(lines, m.spin.View()+" Loading files...")
	case view.ListingFailed:
		lines = append(lines, m.styles.Error.Width(w).Render(m.snap.ListingError))
	case view.ListingEmpty:
		lines = append(lines, m.styles.Muted.Render("No files available"))
	default:
		ids := m.snap.Listing
		// Keep the cursor inside the visible window.
		visible := h - 1
		start := 0
		if m.fileSel >= visible {
			start = m.fileSel - visible + 1
		}
		for i := start; i < len(ids) && i < start+visible; i++ {
			mark := "  "
			if ids[i] == m.snap.Selected {
				mark = "● "
			}
			name := runewidth.Truncate(mark+ids[i], w, "…")
			switch {
			case i == m.fileSel && m.focus == paneFiles:
				name = m.styles.FileCursor.Render(runewidth.FillRight(name, w))
			case ids[i] == m.snap.Selected:
				name = m.styles.FileCurrent.Render(name)
			}
			lines = append(lines, name)
		}
	}
	st := m.styles.PaneIdle
	if m.focus == paneFiles {
		st = m.styles.PaneActive
	}
	return st.Width(w).Height(h).MaxHeight(h).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderData() string {
	w := m.tableWidth()
	h := m.bodyHeight()
	title := "Data"
	if m.snap.Selected != "" {
		title = "Data for " + m.snap.Selected
	}
	var content string
	switch {
	case m.snap.Selected == "":
		content = m.styles.Muted.Render("Select a file to view its data.")
	case m.snap.PayloadStatus == view.PayloadLoading:
		content = m.spin.View() + " Loading data..."
	case m.snap.PayloadStatus == view.PayloadFailed:
		content = m.styles.Error.Width(w).Render(m.snap.LoadError)
	case len(m.snap.Columns) == 0:
		content = m.styles.Muted.Render("This file has no columns.")
	default:
		content = m.tbl.View()
		if len(m.snap.Rows) == 0 {
			content += "\n" + m.styles.Muted.Render("No rows.")
		}
	}
	titleStyle := m.styles.Muted
	if m.focus == paneTable {
		titleStyle = m.styles.Title
	}
	out := titleStyle.Render(runewidth.Truncate(title, w, "…")) + "\n" + content
	return lipgloss.NewStyle().Width(w).MaxWidth(w).Height(h).MaxHeight(h).Render(out)
}

func (m *Model) renderBottom() string {
	var bottom string
	switch {
	case m.searchEditing:
		bottom = fmt.Sprintf("search: %s    [enter]=apply [esc]=cancel", m.search.View())
	case m.searchActive:
		disp := m.searchPattern
		if m.searchRegex {
			disp = "/" + disp + "/"
		}
		bottom = fmt.Sprintf("search: %s    [n/N]=next/prev [/]=new search", disp)
	case m.snap.LastError() != "":
		bottom = m.styles.Error.Render(m.snap.LastError())
	}
	// Always render a sub status bar to keep layout stable
	if bottom == "" && m.termWidth > 0 {
		bottom = strings.Repeat(" ", m.termWidth)
	}
	return bottom
}

func (m *Model) statusLine() string {
	state := "Ready"
	switch {
	case m.snap.ListingStatus == view.ListingPending:
		state = m.spin.View() + "Listing"
	case m.snap.PayloadStatus == view.PayloadLoading:
		state = m.spin.View() + "Loading"
	case m.explaining:
		state = m.spin.View() + "Explaining"
	}
	cur, total := 0, len(m.snap.Rows)
	if c := m.tbl.Cursor(); c >= 0 && total > 0 {
		cur = min(c, total-1) + 1
	}
	sortDesc := "none"
	if d := m.snap.Directive; d.Active() {
		sortDesc = strings.TrimSpace(d.Column + d.Marker(d.Column))
	}
	return fmt.Sprintf("[%s] | files:%d row:%d/%d sort:%s | [?]=help | %s",
		state, len(m.snap.Listing), cur, total, sortDesc, m.lastMsg)
}

func (m *Model) renderHelp() string {
	if len(m.helpItems) == 0 {
		m.helpItems = m.buildHelpItems()
	}
	if m.helpSel < 0 {
		m.helpSel = 0
	}
	if m.helpSel >= len(m.helpItems) {
		m.helpSel = len(m.helpItems) - 1
	}
	lines := []string{"Shortcuts:"}
	currentGroup := ""
	lineIndexOfSel := 0
	for i, it := range m.helpItems {
		if it.group != currentGroup {
			currentGroup = it.group
			lines = append(lines, "", currentGroup+":")
		}
		prefix := "  "
		if i == m.helpSel {
			prefix = "> "
			lineIndexOfSel = len(lines)
		}
		lines = append(lines, fmt.Sprintf("%s[%s] %s", prefix, keyLabel(it.key), it.text))
	}
	// Keep selection visible
	if m.modalVP.Height > 0 {
		top := m.modalVP.YOffset
		bottom := top + m.modalVP.Height - 1
		if lineIndexOfSel <= top {
			m.modalVP.YOffset = max(lineIndexOfSel-1, 0)
		} else if lineIndexOfSel >= bottom {
			m.modalVP.YOffset = max(lineIndexOfSel-m.modalVP.Height+2, 0)
		}
	}
	return m.styles.Help.Render(strings.Join(lines, "\n"))
}

func (m *Model) openHelpModal() {
	m.modalActive = true
	m.modalKind = modalHelp
	m.modalTitle = "Help"
	m.helpItems = m.buildHelpItems()
	m.helpSel = 0
	m.modalBody = m.renderHelp()
	m.resizeModal()
}

func (m *Model) openInspectorModal() {
	rec, ok := m.currentRecord()
	if !ok {
		return
	}
	m.openTextModal(modalInspector, fmt.Sprintf("Row %d of %s", m.tbl.Cursor()+1, m.snap.Selected),
		colorizeRecord(m.snap.Columns, rec, m.styles))
}

func (m *Model) openTextModal(kind modalKind, title, body string) {
	m.modalActive = true
	m.modalKind = kind
	m.modalTitle = title
	m.modalBody = body
	m.resizeModal()
}

func (m *Model) resizeModal() {
	w := m.termWidth - 6
	h := m.termHeight - 6
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	m.modalVP = viewport.New(w-4, h-4)
	if m.modalKind == modalHelp {
		m.modalVP.SetContent(m.renderHelp())
		return
	}
	content := m.modalBody
	if m.modalKind == modalExplain {
		content = lipgloss.NewStyle().Width(w - 4).Render(content)
	}
	m.modalVP.SetContent(content)
}

func (m *Model) renderModal() string {
	var content string
	switch m.modalKind {
	case modalHelp:
		m.modalVP.SetContent(m.renderHelp())
		content = m.modalVP.View() + "\n[esc]=close  [enter]=run"
	default:
		content = m.modalVP.View() + "\n[esc/enter]=close  [c]=copy"
	}
	boxW := m.termWidth - 6
	if boxW < 20 {
		boxW = 20
	}
	title := m.styles.PopupTitle.Render(m.modalTitle)
	body := m.styles.PopupBox.Width(boxW).Render(title + "\n" + content)
	return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, body)
}
