package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sheetview/internal/ai"
	"sheetview/internal/config"
	"sheetview/internal/gateway"
	"sheetview/internal/model"
	"sheetview/internal/view"
)

type pane int

const (
	paneFiles pane = iota
	paneTable
)

type modalKind int

const (
	modalNone modalKind = iota
	modalHelp
	modalInspector
	modalExplain
	modalLogs
)

type Model struct {
	ctx context.Context
	cfg *config.Config
	gw  gateway.Gateway
	ai  *ai.Client

	// View state; snap is refreshed after every mutation and is all View reads.
	view *view.Table
	snap view.Snapshot

	focus   pane
	fileSel int
	// ticket of the latest selection; results for older ones are dropped.
	ticket view.Ticket
	// Seq of the startup selection that should receive cfg.SortColumn, 0 if none.
	startupSeq uint64

	// UI
	tbl        table.Model
	styles     Styles
	search     textinput.Model
	spin       spinner.Model
	keymap     KeyMap
	cols       []string
	colOffset  int
	maxCols    int
	selColIdx  int // index in full column list
	termWidth  int
	termHeight int

	// Column sizing adjustments (by column name)
	colWidthAdj map[string]int

	// status
	lastMsg    string
	explaining bool

	// Modal popup
	modalActive bool
	modalKind   modalKind
	modalVP     viewport.Model
	modalTitle  string
	modalBody   string

	helpItems []helpItem
	helpSel   int

	// Search state (navigation only; rows are never hidden)
	searchEditing bool
	searchActive  bool
	searchPattern string
	searchRegex   bool
}

type helpItem struct {
	group string
	text  string
	key   tea.Key
}

type listingMsg struct {
	ids []string
	err error
}

type datasetMsg struct {
	ticket view.Ticket
	ds     model.Dataset
	err    error
}

type explainMsg struct {
	ticket view.Ticket
	id     string
	text   string
	err    error
}

type exportMsg struct {
	path string
	rows int
	err  error
}

type toastMsg struct{ text string }

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 {
			r := k.Runes[0]
			if r == ' ' {
				return "space"
			}
			return string(r)
		}
		return strings.ToLower(string(k.Runes))
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyTab:
		return "tab"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	case tea.KeyPgUp:
		return "pgup"
	case tea.KeyPgDown:
		return "pgdown"
	default:
		return strings.ToLower(k.String())
	}
}
