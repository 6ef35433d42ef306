// Package tui is a terminal front end for the calendar controller.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"contentcal/internal/calendar"
	"contentcal/internal/model"
)

// Model drives a calendar.Controller from key presses. The controller is
// owned by the bubbletea loop; nothing else may touch it while the program
// runs.
type Model struct {
	ctrl *calendar.Controller
	keys keyMap
	help help.Model

	width    int
	height   int
	quitting bool
}

// New creates a Model over ctrl.
func New(ctrl *calendar.Controller) Model {
	return Model{
		ctrl: ctrl,
		keys: defaultKeys(),
		help: help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Previous):
			m.ctrl.GoPrevious()
		case key.Matches(msg, m.keys.Next):
			m.ctrl.GoNext()
		case key.Matches(msg, m.keys.Today):
			m.ctrl.GoToday()
		case key.Matches(msg, m.keys.Day):
			m.ctrl.SetMode(model.ViewDay)
		case key.Matches(msg, m.keys.Week):
			m.ctrl.SetMode(model.ViewWeek)
		case key.Matches(msg, m.keys.Month):
			m.ctrl.SetMode(model.ViewMonth)
		case key.Matches(msg, m.keys.Year):
			m.ctrl.SetMode(model.ViewYear)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// Run starts the program on the terminal and blocks until the user quits or
// ctx is done. Cancellation through ctx is a clean exit. Extra options come
// after the defaults, so tests can swap the terminal for buffers.
func Run(ctx context.Context, ctrl *calendar.Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctrl), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
