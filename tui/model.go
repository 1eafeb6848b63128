package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"loopswitch/panel"
	"loopswitch/switcher"
	"loopswitch/theme"
	"loopswitch/widgets"
)

// TapHold is how long a tapped switch stays down: shorter than a short press
const TapHold = 100 * time.Millisecond

// latch keys hold and release switches 1-8
var latchKeys = "asdfghjk"

type Model struct {
	Panel    *panel.Panel
	Theme    *theme.Theme
	quitting bool
	status   string
}

type UpdateMsg struct{}

// releaseMsg ends a tap
type releaseMsg struct {
	button switcher.Button
}

func NewModel(p *panel.Panel, th *theme.Theme) Model {
	return Model{Panel: p, Theme: th}
}

func ListenForUpdates(p *panel.Panel) tea.Cmd {
	return func() tea.Msg {
		<-p.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Panel)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.Panel.ReleaseAll()
			return m, tea.Quit

		case "1", "2", "3", "4", "5", "6", "7", "8":
			b := switcher.Button(key[0] - '1')
			m.Panel.Press(b)
			m.status = fmt.Sprintf("tap %d", b+1)
			return m, tea.Tick(TapHold, func(time.Time) tea.Msg {
				return releaseMsg{button: b}
			})

		case " ":
			m.Panel.ReleaseAll()
			m.status = "all up"

		default:
			if i := strings.Index(latchKeys, key); i >= 0 && len(key) == 1 {
				b := switcher.Button(i)
				if m.Panel.Toggle(b) {
					m.status = fmt.Sprintf("hold %d", b+1)
				} else {
					m.status = fmt.Sprintf("release %d", b+1)
				}
			}
		}

	case releaseMsg:
		m.Panel.Release(msg.button)

	case UpdateMsg:
		return m, ListenForUpdates(m.Panel)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.Panel.Snapshot()
	sym := m.Theme.Symbols

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.Label()).Width(8)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Unlit())
	statusStyle := lipgloss.NewStyle().
		Foreground(m.Theme.Accent()).
		Background(m.Theme.Surface()).
		Padding(0, 1)

	lamp := func(on lipgloss.Color) widgets.LEDStyle {
		return widgets.LEDStyle{On: on, Off: m.Theme.Unlit(), OnSym: sym.LEDOn, OffSym: sym.LEDOff}
	}
	switches := widgets.LEDStyle{On: m.Theme.Accent(), Off: m.Theme.Label(), OnSym: sym.Held, OffSym: sym.Up}

	row := func(label, body string) string {
		return labelStyle.Render(label) + body
	}

	header := headerStyle.Render(fmt.Sprintf("loopswitch  relay writes:%d", s.Writes))

	var muteLines uint8
	if s.Mute {
		muteLines = 1
	}

	rows := []string{
		row("bank", widgets.RenderLEDRow(s.BankLEDs, 3, lamp(m.Theme.Bank()))),
		row("patch", widgets.RenderLEDRow(s.PatchLEDs, switcher.NumPatches, lamp(m.Theme.Patch()))),
		row("loops", widgets.RenderLEDRow(uint8(s.Relays), switcher.NumButtons, lamp(m.Theme.Loop()))),
		row("mute", widgets.RenderLEDRow(muteLines, 1, lamp(m.Theme.Mute()))),
		"",
		row("switch", widgets.RenderLEDRow(s.Held, switcher.NumButtons, switches)),
		row("", widgets.RenderNumbers(switcher.NumButtons, m.Theme.Label())),
	}

	help := dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "1-8", Desc: "tap a switch"},
			{Key: latchKeys, Desc: "hold/release a switch (chords: hold two)"},
			{Key: "space", Desc: "release all"},
			{Key: "q", Desc: "quit"},
		}},
	}))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(strings.Join(rows, "\n"))
	out.WriteString("\n\n")
	out.WriteString(help)

	if m.status != "" {
		out.WriteString("\n\n")
		out.WriteString(statusStyle.Render(m.status))
	}

	return out.String()
}
