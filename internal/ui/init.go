package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sheetview/internal/ai"
	"sheetview/internal/config"
	"sheetview/internal/gateway"
	"sheetview/internal/view"
)

func initialModel(ctx context.Context, cfg *config.Config, gw gateway.Gateway) *Model {
	m := &Model{
		ctx:         ctx,
		cfg:         cfg,
		gw:          gw,
		view:        view.New(),
		focus:       paneFiles,
		styles:      NewStyles(cfg.Theme != config.ThemeLight),
		keymap:      DefaultKeyMap(),
		search:      textinput.New(),
		spin:        spinner.New(),
		colWidthAdj: map[string]int{},
	}
	if !cfg.Offline {
		m.ai = ai.NewClient(cfg.OpenAIKey(), cfg.OpenAIBase, cfg.OpenAIModel, time.Duration(cfg.OpenAITimeoutSec)*time.Second)
	}
	m.spin.Spinner = spinner.Dot
	m.search.Placeholder = "search... (text or /regex/)"
	m.search.CharLimit = 256
	m.search.Prompt = "/"
	m.modalVP = viewport.New(80, 20)

	m.tbl = table.New(table.WithFocused(true), table.WithHeight(20))
	ts := table.DefaultStyles()
	ts.Header = m.styles.TableStyles.Header
	ts.Cell = m.styles.TableStyles.Cell
	ts.Selected = m.styles.TableStyles.Selected
	m.tbl.SetStyles(ts)
	m.maxCols = 6
	m.refresh()
	return m
}

// Run starts the TUI against gw and blocks until the user quits or ctx ends.
func Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway) error {
	m := initialModel(ctx, cfg, gw)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadListing(), m.spin.Tick)
}
