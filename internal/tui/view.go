package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"contentcal/internal/calendar"
	"contentcal/internal/model"
	"contentcal/internal/platform"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	tabStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))
	activeTab    = tabStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	todayStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)
	outStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dayHeadStyle = lipgloss.NewStyle().Bold(true)
	monthBox     = lipgloss.NewStyle().MarginRight(3).MarginBottom(1)
)

const weekdayHeader = "Su Mo Tu We Th Fr Sa"

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	vm := m.ctrl.ViewModel()

	var b strings.Builder
	b.WriteString(renderTabs(vm.Mode))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(vm.Title))
	b.WriteString("\n")

	switch vm.Mode {
	case model.ViewYear:
		b.WriteString(renderYear(vm))
	case model.ViewMonth:
		b.WriteString(renderMonth(vm))
	case model.ViewWeek:
		b.WriteString(renderWeek(vm))
	default:
		b.WriteString(renderDay(vm))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func renderTabs(active model.ViewMode) string {
	tabs := make([]string, 0, 4)
	for _, mode := range model.ViewModes() {
		label := strings.ToUpper(mode.String()[:1]) + mode.String()[1:]
		if mode == active {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// badge renders "● Platform" in the platform's registry color.
func badge(name string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(string(platform.ColorOf(name))))
	return style.Render("●") + " " + name
}

func itemLine(item model.ContentItem) string {
	line := item.Time.String() + "  " + badge(item.Platform)
	if caption := firstLine(item.Caption); caption != "" {
		line += "  " + dimStyle.Render(caption)
	}
	if item.IsRecurring() {
		line += dimStyle.Render(" ↻")
	}
	return line
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	line = strings.TrimSpace(line)
	if len([]rune(line)) > 48 {
		line = string([]rune(line)[:47]) + "…"
	}
	return line
}

func renderDay(vm calendar.ViewModel) string {
	if len(vm.Days) == 0 || len(vm.Days[0].Items) == 0 {
		return dimStyle.Render("Nothing scheduled.") + "\n"
	}
	var b strings.Builder
	for _, item := range vm.Days[0].Items {
		b.WriteString(itemLine(item))
		b.WriteString("\n")
	}
	return b.String()
}

func renderWeek(vm calendar.ViewModel) string {
	var b strings.Builder
	for _, cell := range vm.Days {
		head := cell.Date.Format("Mon Jan 2")
		if cell.IsToday {
			head = todayStyle.Render(head)
		} else {
			head = dayHeadStyle.Render(head)
		}
		b.WriteString(head)
		b.WriteString("\n")
		if len(cell.Items) == 0 {
			b.WriteString(dimStyle.Render("  -"))
			b.WriteString("\n")
			continue
		}
		for _, item := range sortedByTime(cell.Items) {
			b.WriteString("  ")
			b.WriteString(itemLine(item))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderMonth draws the grid with a marker on days that have content, then
// an agenda of the month's items.
func renderMonth(vm calendar.ViewModel) string {
	var b strings.Builder
	b.WriteString(dowStyle.Render(weekdayHeader))
	b.WriteString("\n")

	col := 0
	for i := 0; i < vm.LeadingBlanks; i++ {
		b.WriteString("   ")
		col++
	}
	for _, cell := range vm.Days {
		b.WriteString(dayNumber(cell, true))
		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		} else {
			b.WriteString(" ")
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n")
	empty := true
	for _, cell := range vm.Days {
		for _, item := range sortedByTime(cell.Items) {
			empty = false
			b.WriteString(cell.Date.Format("Jan 02"))
			b.WriteString("  ")
			b.WriteString(itemLine(item))
			b.WriteString("\n")
		}
	}
	if empty {
		b.WriteString(dimStyle.Render("Nothing scheduled this month."))
		b.WriteString("\n")
	}
	return b.String()
}

func renderYear(vm calendar.ViewModel) string {
	boxes := make([]string, 0, len(vm.Months))
	for _, mv := range vm.Months {
		boxes = append(boxes, monthBox.Render(miniMonth(mv)))
	}

	var rows []string
	for i := 0; i < len(boxes); i += 3 {
		end := i + 3
		if end > len(boxes) {
			end = len(boxes)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func miniMonth(mv calendar.MonthView) string {
	var b strings.Builder
	b.WriteString(dayHeadStyle.Render(mv.Title))
	b.WriteString("\n")
	b.WriteString(dowStyle.Render(weekdayHeader))
	for i, cell := range mv.Cells {
		if i%7 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(dayNumber(cell, cell.InCurrentPeriod))
	}
	return b.String()
}

// dayNumber renders a two-column day number; days with content are colored
// by their first item's platform.
func dayNumber(cell calendar.Cell, inPeriod bool) string {
	s := fmt.Sprintf("%2d", cell.Date.Day())
	switch {
	case !inPeriod:
		return outStyle.Render(s)
	case cell.IsToday:
		return todayStyle.Render(s)
	case len(cell.Items) > 0:
		color := platform.ColorOf(cell.Items[0].Platform)
		return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(string(color))).Render(s)
	}
	return s
}

func sortedByTime(items []model.ContentItem) []model.ContentItem {
	out := make([]model.ContentItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.String() < out[j].Time.String()
	})
	return out
}
