package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skoenig/depup/pkg/update"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// pickerModel is the bubbletea model for interactive upgrade selection.
// Every upgrade starts checked; space toggles the current row, "a" toggles
// all, enter applies the checked set, q/esc/ctrl+c abort the manifest.
type pickerModel struct {
	plans   []update.Plan
	checked []bool
	cursor  int
	done    bool
	aborted bool
}

func newPickerModel(plans []update.Plan) pickerModel {
	checked := make([]bool, len(plans))
	for i := range checked {
		checked[i] = true
	}
	return pickerModel{plans: plans, checked: checked}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.plans)-1 {
				m.cursor++
			}
		case " ":
			m.checked[m.cursor] = !m.checked[m.cursor]
		case "a":
			all := true
			for _, c := range m.checked {
				if !c {
					all = false
					break
				}
			}
			for i := range m.checked {
				m.checked[i] = !all
			}
		case "enter":
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Select Upgrades"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ apply  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.plans {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		check := "[ ]"
		if m.checked[i] {
			check = "[x]"
		}

		bump := ""
		if p.MajorBump {
			bump = " " + styleWarning.Render("major")
		}

		line := fmt.Sprintf("%s%s %-30s %s → %s%s", cursor, check, p.Name, p.Constraint, p.NewConstraint, bump)

		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.checked[i]:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d checked]", m.countChecked(), len(m.plans))))

	return b.String()
}

func (m pickerModel) countChecked() int {
	n := 0
	for _, c := range m.checked {
		if c {
			n++
		}
	}
	return n
}

// selection returns the checked plans, or nil when the picker was aborted
// or nothing is checked.
func (m pickerModel) selection() []update.Plan {
	if m.aborted {
		return nil
	}
	var picked []update.Plan
	for i, p := range m.plans {
		if m.checked[i] {
			picked = append(picked, p)
		}
	}
	return picked
}

// confirmUpgrades runs the interactive picker over the planned upgrades of
// one manifest. Returning an empty slice skips the manifest.
func confirmUpgrades(plans []update.Plan) ([]update.Plan, error) {
	prog := tea.NewProgram(newPickerModel(plans))
	final, err := prog.Run()
	if err != nil {
		return nil, fmt.Errorf("interactive picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok {
		return nil, fmt.Errorf("interactive picker: unexpected model %T", final)
	}
	return m.selection(), nil
}
