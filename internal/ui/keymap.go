package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Open        tea.Key
	SwitchPane  tea.Key
	Sort        tea.Key
	Reload      tea.Key
	Search      tea.Key
	SearchNext  tea.Key
	SearchPrev  tea.Key
	Inspect     tea.Key
	CopyRow     tea.Key
	Export      tea.Key
	Explain     tea.Key
	AppLogs     tea.Key
	Top         tea.Key
	Bottom      tea.Key
	IncColWidth tea.Key
	DecColWidth tea.Key
	Help        tea.Key
	Quit        tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open:        tea.Key{Type: tea.KeyEnter},
		SwitchPane:  tea.Key{Type: tea.KeyTab},
		Sort:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		Reload:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'r'}},
		Search:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		SearchNext:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		SearchPrev:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'N'}},
		Inspect:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'v'}},
		CopyRow:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Export:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Explain:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		AppLogs:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Top:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		Bottom:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		IncColWidth: tea.Key{Type: tea.KeyRunes, Runes: []rune{']'}},
		DecColWidth: tea.Key{Type: tea.KeyRunes, Runes: []rune{'['}},
		Help:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:        tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}
