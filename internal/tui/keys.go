package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Previous key.Binding
	Next     key.Binding
	Today    key.Binding
	Day      key.Binding
	Week     key.Binding
	Month    key.Binding
	Year     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Previous: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "previous")),
		Next:     key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Day:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
		Week:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
		Month:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month")),
		Year:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "year")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Today, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.Today},
		{k.Day, k.Week, k.Month, k.Year},
		{k.Help, k.Quit},
	}
}
