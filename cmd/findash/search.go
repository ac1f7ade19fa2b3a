package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"findash/internal/symbols"
)

// searchModel is the typeahead search box. Enter commits the top match (or
// the typed text when nothing matched and it parses as a ticker); tab
// quick-adds the typed ticker even while directory matches are showing.
type searchModel struct {
	input   textinput.Model
	dir     *symbols.Directory
	matches []symbols.Entry
	errText string
}

func newSearchModel(dir *symbols.Directory) searchModel {
	ti := textinput.New()
	ti.Placeholder = "symbol or company"
	ti.Prompt = "/ "
	ti.CharLimit = 32
	ti.Width = 24
	return searchModel{input: ti, dir: dir}
}

func (s searchModel) Focus() searchModel {
	s.input.Focus()
	return s
}

// Blur drops focus and resets the box so reopening starts clean.
func (s searchModel) Blur() searchModel {
	s.input.Blur()
	s.input.SetValue("")
	s.matches = nil
	s.errText = ""
	return s
}

// restore puts text back after a failed add so the user can correct it.
func (s searchModel) restore(text string) searchModel {
	s.input.SetValue(text)
	s.input.CursorEnd()
	s.matches = s.dir.Match(text)
	s.errText = ""
	return s
}

func (s searchModel) commit(sym string) (searchModel, string) {
	s.input.SetValue("")
	s.matches = nil
	s.errText = ""
	return s, sym
}

// Update advances the search box. The third return value is the committed
// symbol, "" when this keystroke committed nothing.
func (s searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd, string) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			if len(s.matches) > 0 {
				var sym string
				s, sym = s.commit(s.matches[0].Symbol)
				return s, nil, sym
			}
			q := symbols.Normalize(s.input.Value())
			if q == "" {
				return s, nil, ""
			}
			if !symbols.ValidTicker(q) {
				s.errText = fmt.Sprintf("%q is not a valid ticker", q)
				return s, nil, ""
			}
			var sym string
			s, sym = s.commit(q)
			return s, nil, sym
		case tea.KeyTab:
			q := symbols.Normalize(s.input.Value())
			if symbols.QuickAddOffer(s.input.Value(), s.matches) {
				var sym string
				s, sym = s.commit(q)
				return s, nil, sym
			}
			return s, nil, ""
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	// Any edit invalidates a stale validation error.
	s.errText = ""
	s.matches = s.dir.Match(s.input.Value())
	return s, cmd, ""
}
