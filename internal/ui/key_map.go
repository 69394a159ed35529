package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	enter      key.Binding
	back       key.Binding
	refresh    key.Binding
	create     key.Binding
	delete     key.Binding
	transcribe key.Binding
	approve    key.Binding
	reject     key.Binding
	play       key.Binding
	users      key.Binding
	stats      key.Binding
	save       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		create:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new dataset")),
		delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		transcribe: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transcribe")),
		approve:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
		reject:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reject")),
		play:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play audio")),
		users:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "users")),
		stats:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stats")),
		save:       key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save & approve")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.create, k.delete, k.transcribe, k.refresh},
		{k.approve, k.reject, k.play, k.save},
		{k.users, k.stats, k.quit},
	}
}
