package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every key binding of the deck view
type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	GoTo      key.Binding
	Loop      key.Binding
	More      key.Binding
	Fewer     key.Binding
	Align     key.Binding
	Autoplay  key.Binding
	Pager     key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	Cancel    key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Prev:      key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev")),
		Next:      key.NewBinding(key.WithKeys("right", "l", "pgdown", " "), key.WithHelp("→/l", "next")),
		GoTo:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to")),
		Loop:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "loop")),
		More:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more slides")),
		Fewer:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer slides")),
		Align:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "alignment")),
		Autoplay:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "autoplay")),
		Pager:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open in pager")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Confirm:   key.NewBinding(key.WithKeys("enter")),
		Cancel:    key.NewBinding(key.WithKeys("esc")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.GoTo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.GoTo},
		{k.Loop, k.More, k.Fewer, k.Align},
		{k.Autoplay, k.Pager, k.Help, k.Quit},
	}
}
